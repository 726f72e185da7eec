package hexmap

import (
	"fmt"
	"planboard/internal/domain"
)

// Builder предоставляет fluent API для сборки партии: карта, стороны, юниты.
// Первая ошибка запоминается и возвращается из Build.
type Builder struct {
	width   int
	height  int
	tiles   map[domain.Hex]domain.Tile
	teams   []*domain.Team
	catalog domain.Catalog
	units   []pendingUnit
	recalls []pendingUnit
	current int
	turn    int
	err     error
}

type pendingUnit struct {
	side   int
	typeID string
	pos    domain.Hex
	leader bool
	tweak  func(u *domain.Unit)
}

// New создает builder для карты width x height (все клетки - трава)
func New(width, height int) *Builder {
	return &Builder{
		width:   width,
		height:  height,
		tiles:   make(map[domain.Hex]domain.Tile),
		catalog: DefaultCatalog(),
		turn:    1,
	}
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
	return b
}

// WithCatalog заменяет каталог типов
func (b *Builder) WithCatalog(c domain.Catalog) *Builder {
	b.catalog = c
	return b
}

// WithUnitType добавляет (или переопределяет) тип юнита
func (b *Builder) WithUnitType(t domain.UnitType) *Builder {
	if b.catalog == nil {
		b.catalog = domain.Catalog{}
	}
	b.catalog[t.ID] = t
	return b
}

// Terrain задает местность клеткам
func (b *Builder) Terrain(t domain.Terrain, hexes ...domain.Hex) *Builder {
	for _, h := range hexes {
		tile := b.tiles[h]
		tile.Terrain = t
		b.tiles[h] = tile
	}
	return b
}

// Keep ставит кип (с которого лидер нанимает)
func (b *Builder) Keep(hexes ...domain.Hex) *Builder {
	for _, h := range hexes {
		b.tiles[h] = domain.Tile{Terrain: domain.TerrainCastle, Keep: true}
	}
	return b
}

// Castle ставит клетки замка
func (b *Builder) Castle(hexes ...domain.Hex) *Builder {
	return b.Terrain(domain.TerrainCastle, hexes...)
}

// Village отмечает деревни
func (b *Builder) Village(hexes ...domain.Hex) *Builder {
	for _, h := range hexes {
		tile := b.tiles[h]
		if tile.Terrain == domain.TerrainUnknown {
			tile.Terrain = domain.TerrainGrass
		}
		tile.Village = true
		b.tiles[h] = tile
	}
	return b
}

// Team добавляет сторону. Индекс стороны - порядок вызова.
func (b *Builder) Team(name string, alliance, gold int, recruits ...string) *Builder {
	b.teams = append(b.teams, &domain.Team{
		Name:       name,
		Alliance:   alliance,
		Gold:       gold,
		Recruits:   recruits,
		RecallCost: 20,
	})
	return b
}

// RecallCost задает цену отзыва для стороны
func (b *Builder) RecallCost(side, cost int) *Builder {
	if side < 0 || side >= len(b.teams) {
		return b.fail("recall cost: unknown side %d", side)
	}
	b.teams[side].RecallCost = cost
	return b
}

// Unit ставит юнита типа typeID на клетку
func (b *Builder) Unit(side int, typeID string, pos domain.Hex) *Builder {
	b.units = append(b.units, pendingUnit{side: side, typeID: typeID, pos: pos})
	return b
}

// UnitWith - как Unit, но позволяет подправить параметры созданного юнита
func (b *Builder) UnitWith(side int, typeID string, pos domain.Hex, tweak func(u *domain.Unit)) *Builder {
	b.units = append(b.units, pendingUnit{side: side, typeID: typeID, pos: pos, tweak: tweak})
	return b
}

// Leader ставит лидера (может нанимать с кипа)
func (b *Builder) Leader(side int, typeID string, pos domain.Hex) *Builder {
	b.units = append(b.units, pendingUnit{side: side, typeID: typeID, pos: pos, leader: true})
	return b
}

// Recall кладет ветерана в список отзыва стороны
func (b *Builder) Recall(side int, typeID string) *Builder {
	b.recalls = append(b.recalls, pendingUnit{side: side, typeID: typeID, pos: domain.NullHex})
	return b
}

// CurrentSide - чей сейчас ход
func (b *Builder) CurrentSide(side int) *Builder {
	b.current = side
	return b
}

// Turn - номер хода
func (b *Builder) Turn(turn int) *Builder {
	b.turn = turn
	return b
}

// Build собирает состояние
func (b *Builder) Build() (*domain.State, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.width <= 0 || b.height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", b.width, b.height)
	}

	board := domain.NewBoard(b.width, b.height)
	for h, t := range b.tiles {
		if !board.InBounds(h) {
			return nil, fmt.Errorf("tile %s: %w", h, domain.ErrOutOfBounds)
		}
		board.SetTile(h, t)
	}

	state := domain.NewState(board, b.teams, b.catalog)
	state.CurrentSide = b.current
	state.Turn = b.turn

	for _, p := range b.units {
		u, err := b.materialize(state, p)
		if err != nil {
			return nil, err
		}
		u.Pos = p.pos
		if err := board.Insert(u); err != nil {
			return nil, err
		}
	}
	for _, p := range b.recalls {
		u, err := b.materialize(state, p)
		if err != nil {
			return nil, err
		}
		state.Teams[p.side].RecallList = append(state.Teams[p.side].RecallList, u)
	}
	return state, nil
}

func (b *Builder) materialize(state *domain.State, p pendingUnit) (*domain.Unit, error) {
	if state.Team(p.side) == nil {
		return nil, fmt.Errorf("unit %q: side %d: %w", p.typeID, p.side, domain.ErrUnknownSide)
	}
	ut, ok := b.catalog[p.typeID]
	if !ok {
		return nil, fmt.Errorf("unknown unit type %q", p.typeID)
	}
	u := domain.NewUnitFromType(state.NextUnitID(p.side), p.side, ut)
	if p.leader {
		u.CanRecruit = true
	}
	if p.tweak != nil {
		p.tweak(u)
	}
	return u, nil
}

// MustBuild - Build для тестов и примеров: паникует при ошибке
func (b *Builder) MustBuild() *domain.State {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
