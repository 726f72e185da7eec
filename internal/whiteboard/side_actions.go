package whiteboard

import (
	"fmt"
	"planboard/internal/domain"
	"planboard/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// queueHooks связывает очередь с менеджером: проверка активной проекции и перевалидация.
type queueHooks interface {
	projectionActive() bool
	revalidate() error
}

// Executor выполняет действие по-настоящему, над авторитетным состоянием.
// finished=false означает частичное исполнение (например, маршрут на несколько ходов).
type Executor interface {
	Execute(state *domain.State, a Action) (finished bool, err error)
}

// SideActions - очередь планов одной стороны
type SideActions struct {
	side      int
	actions   []Action
	goldSpent int // Только внутри проекции; вне её всегда 0
	hooks     queueHooks
}

func NewSideActions(side int) *SideActions {
	return &SideActions{side: side}
}

func (sa *SideActions) Side() int { return sa.side }
func (sa *SideActions) Len() int { return len(sa.actions) }
func (sa *SideActions) Empty() bool { return len(sa.actions) == 0 }
func (sa *SideActions) GoldSpent() int { return sa.goldSpent }

// At возвращает действие по индексу или nil
func (sa *SideActions) At(pos int) Action {
	if pos < 0 || pos >= len(sa.actions) {
		return nil
	}
	return sa.actions[pos]
}

// Actions возвращает копию очереди
func (sa *SideActions) Actions() []Action {
	out := make([]Action, len(sa.actions))
	copy(out, sa.actions)
	return out
}

// IndexOf - текущая позиция действия или -1
func (sa *SideActions) IndexOf(a Action) int {
	for i, other := range sa.actions {
		if other == a {
			return i
		}
	}
	return -1
}

// IndexByID ищет действие по его идентификатору
func (sa *SideActions) IndexByID(id uuid.UUID) int {
	for i, a := range sa.actions {
		if a.ID() == id {
			return i
		}
	}
	return -1
}

func (sa *SideActions) logEntry() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"component": "side_actions",
		"side":      sa.side,
	})
}

// guard проверяет инварианты перед изменением очереди
func (sa *SideActions) guard(op string) error {
	if sa.hooks != nil && sa.hooks.projectionActive() {
		err := fmt.Errorf("%s: %w", op, ErrProjectionActive)
		sa.logEntry().WithError(err).Error("Modifying action queue while projection is applied.")
		return err
	}
	return nil
}

func (sa *SideActions) badPosition(op string, pos int) error {
	err := fmt.Errorf("%s at %d (len %d): %w", op, pos, len(sa.actions), ErrBadPosition)
	sa.logEntry().WithError(err).Error("Invalid queue position.")
	return err
}

func (sa *SideActions) admit(op string, a Action) error {
	if a.Side() != sa.side {
		err := fmt.Errorf("%s %s: %w", op, a, ErrWrongSide)
		sa.logEntry().WithError(err).Error("Action pushed to foreign queue.")
		return err
	}
	// Одно действие - одна позиция в одной очереди
	if sa.IndexByID(a.ID()) >= 0 {
		err := fmt.Errorf("%s %s: %w", op, a, ErrAlreadyQueued)
		sa.logEntry().WithError(err).Error("Action pushed twice.")
		return err
	}
	return nil
}

func (sa *SideActions) revalidate() error {
	if sa.hooks == nil {
		return nil
	}
	return sa.hooks.revalidate()
}

// Append добавляет действие в конец без перевалидации: оно не влияет на предыдущие.
func (sa *SideActions) Append(a Action) (int, error) {
	if err := sa.guard("append"); err != nil {
		return -1, err
	}
	if err := sa.admit("append", a); err != nil {
		return -1, err
	}
	sa.actions = append(sa.actions, a)
	return len(sa.actions) - 1, nil
}

// Insert вставляет действие на позицию pos (0..Len) и перевалидирует очереди.
// Ошибка перевалидации возвращается, но вставка уже выполнена.
func (sa *SideActions) Insert(a Action, pos int) (int, error) {
	if err := sa.guard("insert"); err != nil {
		return -1, err
	}
	if err := sa.admit("insert", a); err != nil {
		return -1, err
	}
	if pos < 0 || pos > len(sa.actions) {
		return -1, sa.badPosition("insert", pos)
	}
	sa.insertAt(a, pos)
	return pos, sa.revalidate()
}

// Move сдвигает действие на inc позиций (отрицательное - раньше)
func (sa *SideActions) Move(pos, inc int) (int, error) {
	if err := sa.guard("move"); err != nil {
		return -1, err
	}
	if pos < 0 || pos >= len(sa.actions) {
		return -1, sa.badPosition("move", pos)
	}
	dest := pos + inc
	if dest < 0 || dest >= len(sa.actions) {
		return -1, sa.badPosition("move to", dest)
	}
	a := sa.actions[pos]
	sa.eraseAt(pos)
	sa.insertAt(a, dest)
	return dest, sa.revalidate()
}

// Remove удаляет действие и перевалидирует очереди
func (sa *SideActions) Remove(pos int) (int, error) {
	if err := sa.guard("remove"); err != nil {
		return -1, err
	}
	if pos < 0 || pos >= len(sa.actions) {
		return -1, sa.badPosition("remove", pos)
	}
	sa.eraseAt(pos)
	return pos, sa.revalidate()
}

// Execute исполняет действие на позиции pos.
// Успех - действие удаляется; частичный успех - уходит в конец очереди.
// Возвращает позицию, с которой продолжать.
func (sa *SideActions) Execute(state *domain.State, pos int, exec Executor) (int, error) {
	if err := sa.guard("execute"); err != nil {
		return -1, err
	}
	if pos < 0 || pos >= len(sa.actions) {
		return -1, sa.badPosition("execute", pos)
	}

	a := sa.actions[pos]
	finished, err := exec.Execute(state, a)
	if err != nil {
		sa.logEntry().WithError(err).WithField("action", a.String()).Warn("Action execution failed.")
		return pos, err
	}

	if finished {
		sa.eraseAt(pos)
		sa.logEntry().WithField("action", a.String()).Info("Action executed.")
		return pos, sa.revalidate()
	}

	sa.eraseAt(pos)
	sa.actions = append(sa.actions, a)
	sa.logEntry().WithField("action", a.String()).Info("Action partially executed, moved to end of queue.")
	return len(sa.actions) - 1, sa.revalidate()
}

// FindFirstOf ищет первое действие юнита, начиная с start (включительно). -1 если нет.
func (sa *SideActions) FindFirstOf(unit domain.UnitID, start int) int {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(sa.actions); i++ {
		if sa.actions[i].UnitID() == unit {
			return i
		}
	}
	return -1
}

// FindLastOf ищет последнее действие юнита, двигаясь назад от start (включительно). -1 если нет.
func (sa *SideActions) FindLastOf(unit domain.UnitID, start int) int {
	if start >= len(sa.actions) {
		start = len(sa.actions) - 1
	}
	for i := start; i >= 0; i-- {
		if sa.actions[i].UnitID() == unit {
			return i
		}
	}
	return -1
}

// Clear удаляет все действия без перевалидации
func (sa *SideActions) Clear() error {
	if err := sa.guard("clear"); err != nil {
		return err
	}
	sa.actions = nil
	return nil
}

// replaceAt подменяет действие (входящая синхронизация)
func (sa *SideActions) replaceAt(pos int, a Action) error {
	if err := sa.guard("replace"); err != nil {
		return err
	}
	if pos < 0 || pos >= len(sa.actions) {
		return sa.badPosition("replace", pos)
	}
	sa.actions[pos] = a
	return sa.revalidate()
}

func (sa *SideActions) insertAt(a Action, pos int) {
	sa.actions = append(sa.actions, nil)
	copy(sa.actions[pos+1:], sa.actions[pos:])
	sa.actions[pos] = a
}

func (sa *SideActions) eraseAt(pos int) {
	copy(sa.actions[pos:], sa.actions[pos+1:])
	sa.actions[len(sa.actions)-1] = nil
	sa.actions = sa.actions[:len(sa.actions)-1]
}
