package whiteboard

import (
	"planboard/internal/domain"
)

// visitFunc вызывается для каждого действия в порядке обхода.
// applied=true - действие вложено в проекцию.
type visitFunc func(sa *SideActions, pos int, a Action) (applied bool, err error)

// settleFunc вызывается на границе (сторона, ход) со списком вложенных действий этой стороны.
type settleFunc func(side, turn int, applied []Action)

// walker - общий обход очередей в порядке хода: от стороны, которая сейчас ходит,
// по кругу. Используется построителем проекции и валидатором.
type walker struct {
	state  *domain.State
	queues []*SideActions
	viewer int
}

// order возвращает порядок сторон Tk..Tn, T1..Tk-1.
// stopAfterViewer обрезает обход после очереди стороны viewer.
func (w *walker) order(stopAfterViewer bool) []int {
	full := w.state.TurnOrder(w.state.CurrentSide)
	if !stopAfterViewer {
		return full
	}
	for i, side := range full {
		if side == w.viewer {
			return full[:i+1]
		}
	}
	return full
}

// turnOf - относительный номер хода стороны: стороны до текущей в ротации
// походят уже в следующем ходу.
func (w *walker) turnOf(side int) int {
	if side < w.state.CurrentSide {
		return 1
	}
	return 0
}

func (w *walker) walk(stopAfterViewer bool, visit visitFunc, settle settleFunc) error {
	for _, side := range w.order(stopAfterViewer) {
		if side < 0 || side >= len(w.queues) {
			continue
		}
		sa := w.queues[side]
		var applied []Action
		for pos := 0; pos < sa.Len(); pos++ {
			a := sa.At(pos)
			ok, err := visit(sa, pos, a)
			if err != nil {
				return err
			}
			if ok {
				applied = append(applied, a)
			}
		}
		if settle != nil {
			settle(side, w.turnOf(side), applied)
		}
	}
	return nil
}

// settleTurns проставляет ожидаемый номер хода: обратный проход по вложенным
// перемещениям, метка только у последнего многоклеточного перемещения каждого юнита.
func settleTurns(_ int, turn int, applied []Action) {
	seen := make(map[domain.UnitID]bool)
	for i := len(applied) - 1; i >= 0; i-- {
		m := moveOf(applied[i])
		if m == nil {
			continue
		}
		m.setTurnNumber(0)
		if m.route.Len() > 1 && !seen[m.unit] {
			seen[m.unit] = true
			m.setTurnNumber(turn + 1)
		}
	}
}
