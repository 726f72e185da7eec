package systems

import (
	"container/heap"
	"planboard/internal/domain"
	"planboard/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Pathfinder - поиск кратчайшего пути по гекс-карте (Дейкстра).
//
// Правила:
//   - вражеские юниты непроходимы
//   - через союзников проходить можно, но остановиться на их клетке нельзя
//   - зона контроля не учитывается
type Pathfinder struct {
	// MaxCost обрезает поиск (0 - без ограничения)
	MaxCost int
}

func NewPathfinder() *Pathfinder {
	return &Pathfinder{}
}

// FindRoute ищет путь юнита u до dest на текущем состоянии карты.
// Возвращает false, если пути нет. Стоимость не сравнивается с запасом хода.
func (p *Pathfinder) FindRoute(state *domain.State, u *domain.Unit, dest domain.Hex) (domain.Route, bool) {
	board := state.Board
	start := u.Pos

	if start == dest {
		return domain.Route{Steps: []domain.Hex{start}, Cost: 0}, true
	}
	if !board.IsFree(dest) {
		return domain.Route{}, false
	}

	pfLogger := logger.Log.WithFields(logrus.Fields{
		"component": "pathfinder",
		"unit_id":   u.ID,
		"from":      start,
		"to":        dest,
	})

	costs := map[domain.Hex]int{start: 0}
	prev := map[domain.Hex]domain.Hex{}
	items := map[domain.Hex]*frontierItem{}
	closed := map[domain.Hex]bool{}

	pq := make(frontier, 0)
	seq := 0
	startItem := &frontierItem{Hex: start, Priority: 0, Seq: seq}
	heap.Push(&pq, startItem)
	items[start] = startItem

	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(*frontierItem)
		if cur.Hex == dest {
			break
		}
		closed[cur.Hex] = true

		for _, next := range cur.Hex.Neighbors() {
			if closed[next] || !board.InBounds(next) {
				continue
			}
			step := StepCost(board, next)
			if step >= domain.ImpassableCost {
				continue
			}
			if other := board.UnitAt(next); other != nil && state.AreEnemies(u.Side, other.Side) {
				continue
			}

			newCost := cur.Priority + step
			if p.MaxCost > 0 && newCost > p.MaxCost {
				continue
			}
			if old, seen := costs[next]; seen && old <= newCost {
				continue
			}
			costs[next] = newCost
			prev[next] = cur.Hex

			if item, ok := items[next]; ok && item.Index >= 0 {
				pq.Update(item, newCost)
				continue
			}
			seq++
			item := &frontierItem{Hex: next, Priority: newCost, Seq: seq}
			items[next] = item
			heap.Push(&pq, item)
		}
	}

	total, ok := costs[dest]
	if !ok {
		pfLogger.Debug("No route found.")
		return domain.Route{}, false
	}

	// Восстанавливаем путь с конца
	var steps []domain.Hex
	for h := dest; h != start; h = prev[h] {
		steps = append(steps, h)
	}
	steps = append(steps, start)
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	pfLogger.WithFields(logrus.Fields{"cost": total, "steps": len(steps)}).Debug("Route found.")
	return domain.Route{Steps: steps, Cost: total}, true
}
