package systems

import (
	"planboard/internal/domain"
)

// FindRecruiter ищет лидера стороны side, который может нанять юнита на клетку h.
// Клетка должна быть замком, связанным через цепочку замков с кипом,
// на котором стоит лидер этой стороны.
func FindRecruiter(board *domain.Board, side int, h domain.Hex) *domain.Unit {
	if !board.InBounds(h) || !board.Tile(h).IsCastle() {
		return nil
	}

	visited := map[domain.Hex]bool{h: true}
	queue := []domain.Hex{h}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if board.Tile(cur).Keep {
			if leader := board.UnitAt(cur); leader != nil && leader.Side == side && leader.CanRecruit {
				return leader
			}
		}

		for _, next := range cur.Neighbors() {
			if visited[next] || !board.InBounds(next) || !board.Tile(next).IsCastle() {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return nil
}
