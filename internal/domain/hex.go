package domain

import (
	"fmt"
	"math"
)

// Hex - клетка гексагональной карты в осевых координатах (q, r).
// Третья кубическая координата выводится: s = -q - r.
type Hex struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
}

// NullHex - "нет клетки". Используется вместо указателя там, где гекс необязателен.
var NullHex = Hex{Q: math.MinInt32, R: math.MinInt32}

// hexDirections - смещения шести соседей в осевых координатах
var hexDirections = [6]Hex{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// S возвращает неявную третью кубическую координату.
func (h Hex) S() int {
	return -h.Q - h.R
}

// IsNull проверяет, является ли гекс "пустым" маркером.
func (h Hex) IsNull() bool {
	return h == NullHex
}

// Neighbors возвращает шесть соседних клеток (без проверки границ карты).
func (h Hex) Neighbors() [6]Hex {
	var result [6]Hex
	for i, dir := range hexDirections {
		result[i] = Hex{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// IsAdjacent возвращает true, если other - соседняя клетка
func (h Hex) IsAdjacent(other Hex) bool {
	return Distance(h, other) == 1
}

// Distance возвращает гекс-расстояние между двумя клетками.
func Distance(a, b Hex) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return max(dq, dr, ds)
}

func (h Hex) String() string {
	if h.IsNull() {
		return "(null)"
	}
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
