package domain

import "strings"

// Terrain - тип местности клетки
type Terrain uint8

const (
	TerrainUnknown Terrain = iota
	TerrainGrass
	TerrainForest
	TerrainHills
	TerrainMountain
	TerrainWater
	TerrainCastle
)

// ImpassableCost - стоимость клетки, по которой нельзя пройти
const ImpassableCost = 99

var terrainStringTo = map[string]Terrain{
	"GRASS":    TerrainGrass,
	"FOREST":   TerrainForest,
	"HILLS":    TerrainHills,
	"MOUNTAIN": TerrainMountain,
	"WATER":    TerrainWater,
	"CASTLE":   TerrainCastle,
}

var terrainToString = map[Terrain]string{
	TerrainGrass:    "GRASS",
	TerrainForest:   "FOREST",
	TerrainHills:    "HILLS",
	TerrainMountain: "MOUNTAIN",
	TerrainWater:    "WATER",
	TerrainCastle:   "CASTLE",
}

// movementCosts - базовая стоимость входа в клетку
var movementCosts = map[Terrain]int{
	TerrainGrass:    1,
	TerrainForest:   2,
	TerrainHills:    2,
	TerrainMountain: 3,
	TerrainWater:    ImpassableCost,
	TerrainCastle:   1,
}

// ParseTerrain конвертирует строку (из сценария) в Terrain
func ParseTerrain(s string) Terrain {
	if val, ok := terrainStringTo[strings.ToUpper(s)]; ok {
		return val
	}
	return TerrainUnknown
}

func (t Terrain) String() string {
	if val, ok := terrainToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

// MovementCost возвращает стоимость входа в клетку с этой местностью.
func (t Terrain) MovementCost() int {
	if c, ok := movementCosts[t]; ok {
		return c
	}
	return ImpassableCost
}

// Tile - одна клетка карты
type Tile struct {
	Terrain Terrain `json:"terrain"`
	Keep    bool    `json:"keep,omitempty"`   // Лидер на кипе может нанимать
	Village bool    `json:"village,omitempty"`
}

// IsCastle - клетка, на которую можно нанимать (замок или кип)
func (t Tile) IsCastle() bool {
	return t.Keep || t.Terrain == TerrainCastle
}
