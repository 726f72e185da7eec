package domain

import (
	"fmt"
	"sort"
)

// Board - карта: клетки, пространственный индекс (hex -> юнит)
// и реестр (id -> юнит). На одной клетке не больше одного юнита.
type Board struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Tiles map[Hex]Tile `json:"-"`

	spatial  map[Hex]*Unit
	registry map[UnitID]*Unit
}

// NewBoard создает пустую карту. Все клетки - трава.
func NewBoard(width, height int) *Board {
	b := &Board{
		Width:    width,
		Height:   height,
		Tiles:    make(map[Hex]Tile, width*height),
		spatial:  make(map[Hex]*Unit),
		registry: make(map[UnitID]*Unit),
	}
	for r := 0; r < height; r++ {
		for q := 0; q < width; q++ {
			b.Tiles[Hex{Q: q, R: r}] = Tile{Terrain: TerrainGrass}
		}
	}
	return b
}

// InBounds - клетка лежит внутри прямоугольника карты
func (b *Board) InBounds(h Hex) bool {
	return h.Q >= 0 && h.Q < b.Width && h.R >= 0 && h.R < b.Height
}

// Tile возвращает клетку; за пределами карты - непроходимая вода
func (b *Board) Tile(h Hex) Tile {
	if t, ok := b.Tiles[h]; ok {
		return t
	}
	return Tile{Terrain: TerrainWater}
}

func (b *Board) SetTile(h Hex, t Tile) {
	if b.InBounds(h) {
		b.Tiles[h] = t
	}
}

// UnitAt возвращает юнита на клетке (быстро!)
func (b *Board) UnitAt(h Hex) *Unit {
	return b.spatial[h]
}

// Unit ищет юнита по ID
func (b *Board) Unit(id UnitID) *Unit {
	return b.registry[id]
}

// IsFree - клетка на карте и на ней никого нет
func (b *Board) IsFree(h Hex) bool {
	return b.InBounds(h) && b.spatial[h] == nil
}

// Insert ставит юнита на клетку u.Pos. Карта получает владение юнитом.
func (b *Board) Insert(u *Unit) error {
	if !b.InBounds(u.Pos) {
		return fmt.Errorf("insert %s at %s: %w", u.ID, u.Pos, ErrOutOfBounds)
	}
	if _, exists := b.registry[u.ID]; exists {
		return fmt.Errorf("insert %s: %w", u.ID, ErrDuplicateUnit)
	}
	if other := b.spatial[u.Pos]; other != nil {
		return fmt.Errorf("insert %s at %s: %w", u.ID, u.Pos, ErrHexOccupied)
	}
	b.spatial[u.Pos] = u
	b.registry[u.ID] = u
	return nil
}

// Relocate перемещает юнита в индексе
func (b *Board) Relocate(id UnitID, to Hex) error {
	u := b.registry[id]
	if u == nil {
		return fmt.Errorf("relocate %s: %w", id, ErrUnitNotFound)
	}
	if u.Pos == to {
		return nil
	}
	if !b.InBounds(to) {
		return fmt.Errorf("relocate %s to %s: %w", id, to, ErrOutOfBounds)
	}
	if b.spatial[to] != nil {
		return fmt.Errorf("relocate %s to %s: %w", id, to, ErrHexOccupied)
	}
	delete(b.spatial, u.Pos)
	u.Pos = to
	b.spatial[to] = u
	return nil
}

// Extract снимает юнита с карты и возвращает владение вызывающему.
func (b *Board) Extract(id UnitID) (*Unit, error) {
	u := b.registry[id]
	if u == nil {
		return nil, fmt.Errorf("extract %s: %w", id, ErrUnitNotFound)
	}
	delete(b.spatial, u.Pos)
	delete(b.registry, id)
	return u, nil
}

// Units возвращает всех юнитов, отсортированных по ID (детерминированный обход)
func (b *Board) Units() []*Unit {
	result := make([]*Unit, 0, len(b.registry))
	for _, u := range b.registry {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// UnitsOf возвращает юнитов стороны
func (b *Board) UnitsOf(side int) []*Unit {
	var result []*Unit
	for _, u := range b.Units() {
		if u.Side == side {
			result = append(result, u)
		}
	}
	return result
}

// Clone - глубокая копия карты вместе с юнитами
func (b *Board) Clone() *Board {
	c := &Board{
		Width:    b.Width,
		Height:   b.Height,
		Tiles:    make(map[Hex]Tile, len(b.Tiles)),
		spatial:  make(map[Hex]*Unit, len(b.spatial)),
		registry: make(map[UnitID]*Unit, len(b.registry)),
	}
	for h, t := range b.Tiles {
		c.Tiles[h] = t
	}
	for id, u := range b.registry {
		cu := u.Clone()
		c.registry[id] = cu
		c.spatial[cu.Pos] = cu
	}
	return c
}
