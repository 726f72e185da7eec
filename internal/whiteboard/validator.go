package whiteboard

import (
	"errors"
	"fmt"
	"planboard/internal/domain"
	"planboard/internal/systems"

	"github.com/sirupsen/logrus"
)

// verdict - результат проверки одного действия
type verdict uint8

const (
	verdictValid verdict = iota
	verdictBlocked
	verdictUnrecoverable
)

func (v verdict) String() string {
	switch v {
	case verdictValid:
		return "valid"
	case verdictBlocked:
		return "blocked"
	case verdictUnrecoverable:
		return "unrecoverable"
	}
	return "unknown"
}

// Pathfinder ищет маршрут юнита по текущему (возможно спроецированному) состоянию
type Pathfinder interface {
	FindRoute(state *domain.State, u *domain.Unit, dest domain.Hex) (domain.Route, bool)
}

type pendingRemoval struct {
	queue  *SideActions
	action Action
}

// validator - единственный, кто пишет валидность. Проходит все очереди целиком,
// вкладывая валидные действия в собственную временную проекцию.
type validator struct {
	*mapBuilder
	pf        Pathfinder
	onReplace func(sa *SideActions, a Action)
	onRemove  func(sa *SideActions, a Action)
	pending   []pendingRemoval
}

func newValidator(state *domain.State, queues []*SideActions, local int, pf Pathfinder) *validator {
	b := newMapBuilder(state, queues, local)
	b.log = b.log.WithField("component", "validator")
	return &validator{mapBuilder: b, pf: pf}
}

// validate выполняет один проход. Возвращает число удалённых действий.
func (v *validator) validate() (int, error) {
	if err := v.pass(); err != nil {
		v.pending = nil
		return 0, err
	}
	return v.erasePending(), nil
}

func (v *validator) pass() (err error) {
	v.preBuild()
	defer func() {
		if rbErr := v.ov.rollback(); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("validator rollback: %w", rbErr))
		}
	}()
	return v.walk(false, v.visit, settleTurns)
}

func (v *validator) visit(sa *SideActions, pos int, a Action) (bool, error) {
	res := v.classify(sa, a)
	entry := v.log.WithFields(logrus.Fields{
		"side":    sa.side,
		"pos":     pos,
		"action":  a.String(),
		"verdict": res.String(),
	})
	entry.Debug("Action classified.")

	switch res {
	case verdictValid:
		a.setValid(true)
		if err := v.fold(sa, a); err != nil {
			return false, fmt.Errorf("fold %s: %w", a, err)
		}
		return true, nil
	case verdictBlocked:
		a.setValid(false)
	case verdictUnrecoverable:
		a.setValid(false)
		// Чужие очереди не трогаем; действие, зависящее от более раннего невалидного, оставляем
		if sa.side == v.viewer && v.noPreviousInvalids(sa, pos) {
			v.pending = append(v.pending, pendingRemoval{queue: sa, action: a})
			entry.Info("Unrecoverable action scheduled for removal.")
		}
	}
	return false, nil
}

// noPreviousInvalids - у юнита нет более раннего невалидного действия в очереди
func (v *validator) noPreviousInvalids(sa *SideActions, pos int) bool {
	if pos == 0 {
		return true
	}
	prev := sa.FindLastOf(sa.At(pos).UnitID(), pos-1)
	if prev < 0 {
		return true
	}
	return sa.At(prev).Valid()
}

func (v *validator) classify(sa *SideActions, a Action) verdict {
	switch act := a.(type) {
	case *Move:
		return v.checkMove(sa, act, act)
	case *Attack:
		board := v.state.Board
		if !board.InBounds(act.target) || board.UnitAt(act.target) == nil {
			return verdictUnrecoverable
		}
		return v.checkMove(sa, act, &act.Move)
	case *Recruit:
		return v.checkRecruit(sa, act)
	case *Recall:
		return v.checkRecall(sa, act)
	case *SupposeDead:
		board := v.state.Board
		if !board.InBounds(act.hex) {
			return verdictUnrecoverable
		}
		if u := board.UnitAt(act.hex); u == nil || u.ID != act.unit {
			return verdictUnrecoverable
		}
		return verdictValid
	default:
		v.log.WithField("kind", a.Kind().String()).Error("Validator: unhandled action kind.")
		return verdictBlocked
	}
}

func (v *validator) checkMove(sa *SideActions, a Action, m *Move) verdict {
	board := v.state.Board
	if !board.InBounds(m.source) || !board.InBounds(m.dest) {
		return verdictUnrecoverable
	}

	// Тот же юнит должен стоять на исходной клетке
	u := board.UnitAt(m.source)
	if u == nil || u.ID != m.unit {
		return verdictUnrecoverable
	}

	if m.IsZeroLength() {
		return verdictValid
	}

	if board.UnitAt(m.dest) != nil {
		return verdictBlocked
	}

	route, ok := v.pf.FindRoute(v.state, u, m.dest)
	if !ok || route.Empty() || route.Cost >= domain.ImpassableCost {
		return verdictBlocked
	}

	if !route.Equal(m.route) {
		m.setRoute(route)
		if v.onReplace != nil {
			v.onReplace(sa, a)
		}
	}

	if u.Movement < m.route.Cost {
		return verdictBlocked
	}
	return verdictValid
}

func (v *validator) checkRecruit(sa *SideActions, r *Recruit) verdict {
	board := v.state.Board
	if !board.InBounds(r.dest) {
		return verdictUnrecoverable
	}
	if board.UnitAt(r.dest) != nil {
		return verdictBlocked
	}
	if _, ok := v.state.Recruitable(r.side, r.typeID); !ok {
		return verdictUnrecoverable
	}
	team := v.state.Team(r.side)
	if r.cost > team.Gold-sa.goldSpent {
		return verdictBlocked
	}
	if systems.FindRecruiter(board, r.side, r.dest) == nil {
		return verdictBlocked
	}
	return verdictValid
}

func (v *validator) checkRecall(sa *SideActions, r *Recall) verdict {
	board := v.state.Board
	team := v.state.Team(r.side)
	if team == nil || !board.InBounds(r.dest) {
		return verdictUnrecoverable
	}
	if board.UnitAt(r.dest) != nil {
		return verdictBlocked
	}
	if team.RecallIndex(r.unit) < 0 {
		return verdictUnrecoverable
	}
	if team.RecallCost > team.Gold-sa.goldSpent {
		return verdictBlocked
	}
	if systems.FindRecruiter(board, r.side, r.dest) == nil {
		return verdictBlocked
	}
	return verdictValid
}

// erasePending удаляет отложенные действия, каждый раз заново находя их позицию
func (v *validator) erasePending() int {
	removed := 0
	for _, p := range v.pending {
		pos := p.queue.IndexOf(p.action)
		if pos < 0 {
			continue
		}
		p.queue.eraseAt(pos)
		removed++
		if v.onRemove != nil {
			v.onRemove(p.queue, p.action)
		}
		v.log.WithFields(logrus.Fields{
			"side":   p.queue.side,
			"action": p.action.String(),
		}).Info("Removed unrecoverable action.")
	}
	v.pending = nil
	return removed
}
