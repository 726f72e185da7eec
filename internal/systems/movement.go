package systems

import (
	"planboard/internal/domain"
)

// StepCost - стоимость входа в клетку. За пределами карты - непроходимо.
func StepCost(board *domain.Board, h domain.Hex) int {
	if !board.InBounds(h) {
		return domain.ImpassableCost
	}
	return board.Tile(h).Terrain.MovementCost()
}

// RouteCost считает стоимость маршрута (первая клетка - старт, не оплачивается).
// Не меняет состояние мира!
func RouteCost(board *domain.Board, steps []domain.Hex) int {
	cost := 0
	for i := 1; i < len(steps); i++ {
		c := StepCost(board, steps[i])
		if c >= domain.ImpassableCost {
			return domain.ImpassableCost
		}
		cost += c
	}
	return cost
}

// RefreshUnits восстанавливает очки движения и атаки юнитам стороны в начале её хода
func RefreshUnits(board *domain.Board, side int) int {
	refreshed := 0
	for _, u := range board.UnitsOf(side) {
		u.Movement = u.MaxMovement
		u.Attacks = u.MaxAttacks
		refreshed++
	}
	return refreshed
}
