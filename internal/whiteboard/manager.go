package whiteboard

import (
	"errors"
	"fmt"
	"planboard/internal/domain"
	"planboard/internal/systems"
	"planboard/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Deps - внешние зависимости менеджера
type Deps struct {
	Pathfinder Pathfinder
	Executor   Executor
	Notifier   Notifier
}

// Manager - единственная точка входа в планирование для одной стороны (local).
// Все вызовы должны идти из одной горутины.
type Manager struct {
	state  *domain.State
	local  int
	queues []*SideActions

	pf       Pathfinder
	exec     Executor
	notifier Notifier

	// Проекция со счётчиком вложенности
	depth      int
	builder    *mapBuilder
	generation int
	builds     int
	teardowns  int

	selected domain.UnitID
	hovered  domain.Hex
	temp     *Move

	netOut []NetCommand
	log    *logrus.Entry
}

func NewManager(state *domain.State, local int, deps Deps) *Manager {
	m := &Manager{
		state:    state,
		local:    local,
		pf:       deps.Pathfinder,
		exec:     deps.Executor,
		notifier: deps.Notifier,
		hovered:  domain.NullHex,
	}
	if m.pf == nil {
		m.pf = systems.NewPathfinder()
	}
	m.queues = make([]*SideActions, len(state.Teams))
	for i := range m.queues {
		m.queues[i] = NewSideActions(i)
		m.queues[i].hooks = m
	}
	m.log = logger.Log.WithFields(logrus.Fields{
		"component": "whiteboard",
		"side":      local,
	})
	return m
}

func (m *Manager) State() *domain.State { return m.state }
func (m *Manager) Local() int { return m.local }

// Queue возвращает очередь стороны или nil
func (m *Manager) Queue(side int) *SideActions {
	if side < 0 || side >= len(m.queues) {
		return nil
	}
	return m.queues[side]
}

func (m *Manager) localQueue() *SideActions {
	return m.queues[m.local]
}

func (m *Manager) projectionActive() bool {
	return m.depth > 0
}

func (m *Manager) revalidate() error {
	return m.OnGamestateChange()
}

// --- Проекция ---

// Scope - захваченная проекция. Release идемпотентен и безопасен после ClearProjection.
type Scope struct {
	m          *Manager
	generation int
	released   bool
}

func (s *Scope) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	if s.generation != s.m.generation {
		return
	}
	_ = s.m.PopProjection()
}

// PushProjection увеличивает счётчик; при переходе 0->1 строит проекцию.
func (m *Manager) PushProjection() *Scope {
	if m.depth == 0 {
		m.builder = newMapBuilder(m.state, m.queues, m.local)
		m.builder.build()
		m.builds++
	}
	m.depth++
	m.log.WithField("depth", m.depth).Debug("Projection pushed.")
	return &Scope{m: m, generation: m.generation}
}

// PopProjection уменьшает счётчик; при переходе 1->0 откатывает проекцию.
func (m *Manager) PopProjection() error {
	if m.depth == 0 {
		err := fmt.Errorf("pop: %w", ErrUnbalancedPop)
		m.log.WithError(err).Error("Unbalanced projection pop.")
		return err
	}
	m.depth--
	m.log.WithField("depth", m.depth).Debug("Projection popped.")
	if m.depth == 0 {
		return m.teardown()
	}
	return nil
}

// ClearProjection принудительно откатывает проекцию независимо от вложенности
func (m *Manager) ClearProjection() error {
	if m.depth == 0 {
		return nil
	}
	m.log.WithField("depth", m.depth).Debug("Clearing projection.")
	m.depth = 0
	return m.teardown()
}

func (m *Manager) HasProjection() bool {
	return m.depth > 0
}

func (m *Manager) teardown() error {
	err := m.builder.teardown()
	m.builder = nil
	m.generation++
	m.teardowns++
	return err
}

func (m *Manager) withProjection(fn func() error) error {
	scope := m.PushProjection()
	defer scope.Release()
	return fn()
}

// --- Валидация ---

// OnGamestateChange перевалидирует все очереди. Проходы повторяются, пока что-то удаляется.
func (m *Manager) OnGamestateChange() error {
	if m.projectionActive() {
		err := fmt.Errorf("validate: %w", ErrProjectionActive)
		m.log.WithError(err).Error("Validating action queues while projection is applied.")
		return err
	}

	maxPasses := 1
	for _, q := range m.queues {
		maxPasses += q.Len()
	}

	for pass := 0; pass < maxPasses; pass++ {
		v := newValidator(m.state, m.queues, m.local, m.pf)
		v.onReplace = m.onRouteReplaced
		v.onRemove = m.onActionErased
		removed, err := v.validate()
		if err != nil {
			m.log.WithError(err).Error("Validation pass failed.")
			return err
		}
		if removed == 0 {
			return nil
		}
		m.log.WithFields(logrus.Fields{"pass": pass, "removed": removed}).Info("Validation removed actions, re-running.")
	}
	return nil
}

func (m *Manager) onRouteReplaced(sa *SideActions, a Action) {
	if sa.side == m.local {
		m.queueNet(netReplace(a))
	}
}

func (m *Manager) onActionErased(sa *SideActions, a Action) {
	if sa.side == m.local {
		m.queueNet(netRemove(a))
	}
}

// OnTurnAdvance - начало нового хода: сбрасываем выделение и перевалидируем
func (m *Manager) OnTurnAdvance() error {
	m.DeselectUnit()
	return m.OnGamestateChange()
}

// SetViewer меняет сторону, от имени которой работает менеджер
func (m *Manager) SetViewer(side int) error {
	if m.projectionActive() {
		return fmt.Errorf("set viewer: %w", ErrProjectionActive)
	}
	if side < 0 || side >= len(m.queues) {
		return fmt.Errorf("set viewer %d: %w", side, domain.ErrUnknownSide)
	}
	m.DeselectUnit()
	m.local = side
	m.netOut = nil
	m.log = m.log.WithField("side", side)
	return nil
}

// --- Выделение и подсветка ---

func (m *Manager) SelectUnit(id domain.UnitID) error {
	m.EraseTempMove()
	err := m.withProjection(func() error {
		u := m.state.Board.Unit(id)
		if u == nil {
			return fmt.Errorf("select %s: %w", id, ErrNoUnit)
		}
		if u.Side != m.local {
			return fmt.Errorf("select %s of side %d: %w", id, u.Side, ErrNoSelection)
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.selected = id
	m.log.WithField("unit_id", id).Debug("Unit selected.")
	return nil
}

func (m *Manager) DeselectUnit() {
	m.EraseTempMove()
	m.selected = domain.NilUnitID
}

func (m *Manager) Selected() domain.UnitID {
	return m.selected
}

func (m *Manager) HoverHex(h domain.Hex) {
	m.hovered = h
}

// --- Временное перемещение ---

// CreateTempMove прокладывает маршрут выбранного юнита до dest по спроецированной карте
func (m *Manager) CreateTempMove(dest domain.Hex) (*Move, error) {
	if m.selected.IsNil() {
		return nil, ErrNoSelection
	}
	var mv *Move
	err := m.withProjection(func() error {
		u := m.state.Board.Unit(m.selected)
		if u == nil {
			return fmt.Errorf("temp move %s: %w", m.selected, ErrNoUnit)
		}
		if dest != u.Pos && !m.state.Board.IsFree(dest) {
			return fmt.Errorf("temp move to %s: %w", dest, ErrHexOccupied)
		}
		route, ok := m.pf.FindRoute(m.state, u, dest)
		if !ok {
			return fmt.Errorf("temp move to %s: %w", dest, ErrNoPath)
		}
		if route.Cost > u.Movement {
			return fmt.Errorf("temp move to %s: cost %d exceeds movement %d: %w", dest, route.Cost, u.Movement, ErrNoPath)
		}
		mv = NewMove(m.local, u.ID, route)
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.temp = mv
	return mv, nil
}

func (m *Manager) TempMove() *Move {
	return m.temp
}

func (m *Manager) EraseTempMove() {
	m.temp = nil
}

// SaveTempMove ставит временное перемещение в конец очереди
func (m *Manager) SaveTempMove() (*Move, error) {
	if m.temp == nil {
		return nil, ErrNoSelection
	}
	mv := m.temp
	pos, err := m.localQueue().Append(mv)
	if err != nil {
		return nil, err
	}
	m.temp = nil
	m.selected = domain.NilUnitID
	m.queueNet(netInsert(mv, pos))
	m.log.WithField("action", mv.String()).Info("Move planned.")
	return mv, nil
}

// SaveTempAttack планирует атаку по target с конца временного перемещения
// (или с текущей клетки выбранного юнита).
func (m *Manager) SaveTempAttack(target domain.Hex) (*Attack, error) {
	if m.selected.IsNil() {
		return nil, ErrNoSelection
	}
	var atk *Attack
	err := m.withProjection(func() error {
		u := m.state.Board.Unit(m.selected)
		if u == nil {
			return fmt.Errorf("attack by %s: %w", m.selected, ErrNoUnit)
		}
		route := domain.Route{Steps: []domain.Hex{u.Pos}}
		if m.temp != nil {
			route = m.temp.route
		}
		tu := m.state.Board.UnitAt(target)
		if tu == nil || !m.state.AreEnemies(m.local, tu.Side) || !route.Dest().IsAdjacent(target) {
			return fmt.Errorf("attack %s from %s: %w", target, route.Dest(), ErrInvalidTarget)
		}
		atk = NewAttack(m.local, u.ID, route, target, tu.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	pos, err := m.localQueue().Append(atk)
	if err != nil {
		return nil, err
	}
	m.temp = nil
	m.selected = domain.NilUnitID
	m.queueNet(netInsert(atk, pos))
	m.log.WithField("action", atk.String()).Info("Attack planned.")
	return atk, nil
}

// --- Найм, отзыв, допущение гибели ---

func (m *Manager) SaveRecruit(typeID string, hex domain.Hex) (*Recruit, error) {
	var cost int
	err := m.withProjection(func() error {
		ut, ok := m.state.Recruitable(m.local, typeID)
		if !ok {
			return fmt.Errorf("recruit %q: %w", typeID, ErrNotRecruitable)
		}
		if !m.state.Board.IsFree(hex) {
			return fmt.Errorf("recruit at %s: %w", hex, ErrHexOccupied)
		}
		team := m.state.Team(m.local)
		if ut.Cost > team.Gold-m.localQueue().goldSpent {
			return fmt.Errorf("recruit %q costs %d, available %d: %w",
				typeID, ut.Cost, team.Gold-m.localQueue().goldSpent, ErrInsufficientGold)
		}
		if systems.FindRecruiter(m.state.Board, m.local, hex) == nil {
			return fmt.Errorf("recruit at %s: %w", hex, ErrNoRecruiter)
		}
		cost = ut.Cost
		return nil
	})
	if err != nil {
		return nil, err
	}

	r := NewRecruit(m.local, m.state.NextUnitID(m.local), typeID, hex, cost)
	if err := m.appendPlanned(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (m *Manager) SaveRecall(unit domain.UnitID, hex domain.Hex) (*Recall, error) {
	err := m.withProjection(func() error {
		team := m.state.Team(m.local)
		if team.RecallIndex(unit) < 0 {
			return fmt.Errorf("recall %s: %w", unit, ErrNotInRecallList)
		}
		if !m.state.Board.IsFree(hex) {
			return fmt.Errorf("recall at %s: %w", hex, ErrHexOccupied)
		}
		if team.RecallCost > team.Gold-m.localQueue().goldSpent {
			return fmt.Errorf("recall costs %d: %w", team.RecallCost, ErrInsufficientGold)
		}
		if systems.FindRecruiter(m.state.Board, m.local, hex) == nil {
			return fmt.Errorf("recall at %s: %w", hex, ErrNoRecruiter)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r := NewRecall(m.local, unit, hex)
	if err := m.appendPlanned(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (m *Manager) SaveSupposeDead(hex domain.Hex) (*SupposeDead, error) {
	var sd *SupposeDead
	err := m.withProjection(func() error {
		u := m.state.Board.UnitAt(hex)
		if u == nil {
			return fmt.Errorf("suppose dead at %s: %w", hex, ErrNoUnit)
		}
		sd = NewSupposeDead(m.local, u.ID, hex)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := m.appendPlanned(sd); err != nil {
		return nil, err
	}
	return sd, nil
}

func (m *Manager) appendPlanned(a Action) error {
	pos, err := m.localQueue().Append(a)
	if err != nil {
		return err
	}
	m.queueNet(netInsert(a, pos))
	m.log.WithField("action", a.String()).Info("Action planned.")
	return nil
}

// --- Редактирование очереди локальной стороны ---

// Insert вставляет действие в очередь локальной стороны
func (m *Manager) Insert(a Action, pos int) error {
	p, err := m.localQueue().Insert(a, pos)
	if p >= 0 {
		m.queueNet(netInsert(a, p))
	}
	return err
}

// BumpEarlier сдвигает действие на одну позицию раньше
func (m *Manager) BumpEarlier(pos int) error {
	sa := m.localQueue()
	prev := sa.At(pos - 1)
	p, err := sa.Move(pos, -1)
	if p >= 0 && prev != nil {
		// Для союзников это то же самое, что сдвинуть предыдущее действие позже
		m.queueNet(netBumpLater(prev))
	}
	return err
}

// BumpLater сдвигает действие на одну позицию позже
func (m *Manager) BumpLater(pos int) error {
	sa := m.localQueue()
	a := sa.At(pos)
	p, err := sa.Move(pos, 1)
	if p >= 0 && a != nil {
		m.queueNet(netBumpLater(a))
	}
	return err
}

// Remove удаляет действие из очереди локальной стороны
func (m *Manager) Remove(pos int) error {
	sa := m.localQueue()
	a := sa.At(pos)
	p, err := sa.Remove(pos)
	if p >= 0 && a != nil {
		m.queueNet(netRemove(a))
	}
	return err
}

// DeleteLast удаляет последнее действие
func (m *Manager) DeleteLast() error {
	return m.Remove(m.localQueue().Len() - 1)
}

// ExecuteNext исполняет первое действие очереди. Только в ход локальной стороны.
func (m *Manager) ExecuteNext() (Action, error) {
	if m.state.CurrentSide != m.local {
		return nil, fmt.Errorf("execute: side %d, current %d: %w", m.local, m.state.CurrentSide, ErrNotYourTurn)
	}
	if m.exec == nil {
		return nil, errors.New("execute: no executor configured")
	}
	sa := m.localQueue()
	a := sa.At(0)
	if a == nil {
		return nil, fmt.Errorf("execute: queue empty: %w", ErrBadPosition)
	}
	if !a.Valid() {
		return a, fmt.Errorf("execute %s: %w", a, ErrActionInvalid)
	}

	m.EraseTempMove()
	_, err := sa.Execute(m.state, 0, m.exec)

	switch after := sa.IndexOf(a); {
	case after < 0:
		m.queueNet(netRemove(a))
	case after > 0:
		// Частичное исполнение: действие ушло в конец
		m.queueNet(netRemove(a))
		m.queueNet(netInsert(a, after))
	}
	return a, err
}

// EraseAll удаляет все планы всех сторон
func (m *Manager) EraseAll() error {
	if m.projectionActive() {
		err := fmt.Errorf("erase all: %w", ErrProjectionActive)
		m.log.WithError(err).Error("Erasing plans while projection is applied.")
		return err
	}
	m.DeselectUnit()
	for _, q := range m.queues {
		if q.Empty() {
			continue
		}
		if err := q.Clear(); err != nil {
			return err
		}
		if q.side == m.local {
			m.queueNet(netClear(q.side))
		}
	}
	m.log.Info("All plans erased.")
	return nil
}

// --- Запросы ---

// HasAction возвращает первое действие юнита в очереди локальной стороны
func (m *Manager) HasAction(unit domain.UnitID) Action {
	sa := m.localQueue()
	if pos := sa.FindFirstOf(unit, 0); pos >= 0 {
		return sa.At(pos)
	}
	return nil
}

func (m *Manager) UnitHasActions(unit domain.UnitID) bool {
	return m.HasAction(unit) != nil
}

// SpentGold - золото, зарезервированное планами стороны.
// Считается под проекцией, которая доходит только до очереди локальной стороны.
func (m *Manager) SpentGold(side int) int {
	sa := m.Queue(side)
	if sa == nil {
		return 0
	}
	scope := m.PushProjection()
	defer scope.Release()
	return sa.goldSpent
}

// --- Синхронизация ---

func (m *Manager) queueNet(cmd NetCommand) {
	if cmd.Side != m.local {
		return
	}
	m.netOut = append(m.netOut, cmd)
}

// PendingNetData - число неотправленных уведомлений
func (m *Manager) PendingNetData() int {
	return len(m.netOut)
}

// FlushNetData передает накопленные уведомления Notifier'у
func (m *Manager) FlushNetData() {
	if len(m.netOut) == 0 {
		return
	}
	cmds := m.netOut
	m.netOut = nil
	if m.notifier == nil {
		m.log.WithField("dropped", len(cmds)).Debug("No notifier, sync data dropped.")
		return
	}
	m.notifier.Notify(m.local, cmds)
}

// ProcessNetCommand применяет входящее уведомление союзника к зеркалу его очереди
func (m *Manager) ProcessNetCommand(cmd NetCommand) error {
	if cmd.Side == m.local {
		return fmt.Errorf("net %s for own side %d: %w", cmd.Type, cmd.Side, ErrWrongSide)
	}
	sa := m.Queue(cmd.Side)
	if sa == nil {
		return fmt.Errorf("net %s: side %d: %w", cmd.Type, cmd.Side, domain.ErrUnknownSide)
	}

	entry := m.log.WithFields(logrus.Fields{"net_cmd": cmd.Type, "from_side": cmd.Side})
	entry.Debug("Processing net command.")

	switch cmd.Type {
	case NetInsert:
		a, err := m.decodeFor(cmd)
		if err != nil {
			return err
		}
		_, err = sa.Insert(a, min(max(cmd.Index, 0), sa.Len()))
		return err
	case NetReplace:
		idx := sa.IndexByID(cmd.ActionID)
		if idx < 0 {
			return fmt.Errorf("net replace %s: %w", cmd.ActionID, ErrUnknownAction)
		}
		a, err := m.decodeFor(cmd)
		if err != nil {
			return err
		}
		return sa.replaceAt(idx, a)
	case NetRemove:
		idx := sa.IndexByID(cmd.ActionID)
		if idx < 0 {
			return fmt.Errorf("net remove %s: %w", cmd.ActionID, ErrUnknownAction)
		}
		_, err := sa.Remove(idx)
		return err
	case NetBumpLater:
		idx := sa.IndexByID(cmd.ActionID)
		if idx < 0 {
			return fmt.Errorf("net bump %s: %w", cmd.ActionID, ErrUnknownAction)
		}
		_, err := sa.Move(idx, 1)
		return err
	case NetClear:
		if err := sa.Clear(); err != nil {
			return err
		}
		return m.OnGamestateChange()
	default:
		return fmt.Errorf("net command %q: %w", cmd.Type, ErrUnknownAction)
	}
}

func (m *Manager) decodeFor(cmd NetCommand) (Action, error) {
	if cmd.Action == nil {
		return nil, fmt.Errorf("net %s: missing action record", cmd.Type)
	}
	a, err := cmd.Action.Decode()
	if err != nil {
		return nil, err
	}
	if a.Side() != cmd.Side {
		return nil, fmt.Errorf("net %s: record side %d: %w", cmd.Type, a.Side(), ErrWrongSide)
	}
	return a, nil
}
