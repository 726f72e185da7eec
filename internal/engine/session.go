package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"planboard/internal/domain"
	"planboard/internal/engine/handlers"
	"planboard/internal/engine/handlers/actions"
	"planboard/internal/network"
	"planboard/internal/whiteboard"
	"planboard/pkg/api"
	"planboard/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxSyncRounds ограничивает цепочку "уведомление -> перевалидация у союзника -> новое уведомление"
const maxSyncRounds = 8

// SessionCommand - команда стороны, принятая из сети
type SessionCommand struct {
	Side    int
	Action  domain.ActionType
	Payload json.RawMessage
}

type sessionQuery struct {
	fn   func()
	done chan struct{}
}

// Session - одна партия. Авторитетное состояние и менеджеры планов
// всех сторон живут в одной горутине (Run); всё остальное общается с ней через каналы.
type Session struct {
	State       *domain.State
	Managers    []*whiteboard.Manager // По одному на сторону, local == индекс
	TurnManager *TurnManager
	Hub         *network.Broadcaster

	// Каналы коммуникации
	CommandChan chan SessionCommand // Команды от клиентов
	JoinChan    chan int            // Подключение стороны
	LeaveChan   chan int            // Отключение стороны
	queryChan   chan sessionQuery

	Logs        []api.LogEntry           // Новые сообщения с прошлой рассылки
	pendingSync map[int][]api.SyncNotice // Изменения очередей союзников для каждой стороны
	online      map[int]bool

	handlers    map[domain.ActionType]handlers.HandlerFunc
	executor    *Executor
	turnTimeout time.Duration
	turnSeq     int

	log *logrus.Entry
}

func NewSession(state *domain.State, hub *network.Broadcaster, turnTimeout time.Duration) *Session {
	if hub == nil {
		hub = network.NewBroadcaster()
	}
	s := &Session{
		State:       state,
		TurnManager: NewTurnManager(state),
		Hub:         hub,
		CommandChan: make(chan SessionCommand, 100),
		JoinChan:    make(chan int, 10),
		LeaveChan:   make(chan int, 10),
		queryChan:   make(chan sessionQuery),
		Logs:        []api.LogEntry{},
		pendingSync: make(map[int][]api.SyncNotice),
		online:      make(map[int]bool),
		handlers:    make(map[domain.ActionType]handlers.HandlerFunc),
		turnTimeout: turnTimeout,
		log:         logger.Log.WithField("component", "session"),
	}
	s.executor = NewExecutor(s.AddLog)

	s.Managers = make([]*whiteboard.Manager, len(state.Teams))
	for side := range state.Teams {
		s.Managers[side] = whiteboard.NewManager(state, side, whiteboard.Deps{
			Executor: s.executor,
			Notifier: whiteboard.NotifierFunc(s.relay),
		})
	}

	s.registerHandlers()
	return s
}

func (s *Session) registerHandlers() {
	s.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.handlers[domain.ActionSelect] = handlers.WithPayload(actions.HandleSelect)
	s.handlers[domain.ActionHover] = handlers.WithPayload(actions.HandleHover)
	s.handlers[domain.ActionPlanMove] = handlers.WithPayload(actions.HandlePlanMove)
	s.handlers[domain.ActionPlanAttack] = handlers.WithPayload(actions.HandlePlanAttack)
	s.handlers[domain.ActionPlanRecruit] = handlers.WithPayload(actions.HandlePlanRecruit)
	s.handlers[domain.ActionPlanRecall] = handlers.WithPayload(actions.HandlePlanRecall)
	s.handlers[domain.ActionSupposeDead] = handlers.WithPayload(actions.HandleSupposeDead)
	s.handlers[domain.ActionBump] = handlers.WithPayload(actions.HandleBump)
	s.handlers[domain.ActionRemove] = handlers.WithPayload(actions.HandleRemove)
	s.handlers[domain.ActionDeleteLast] = handlers.WithEmptyPayload(actions.HandleDeleteLast)
	s.handlers[domain.ActionExecuteNext] = handlers.WithEmptyPayload(actions.HandleExecuteNext)
	s.handlers[domain.ActionEndTurn] = handlers.WithEmptyPayload(actions.HandleEndTurn)
}

// Manager возвращает менеджер планов стороны или nil
func (s *Session) Manager(side int) *whiteboard.Manager {
	if side < 0 || side >= len(s.Managers) {
		return nil
	}
	return s.Managers[side]
}

// Run запускает цикл партии. Завершается по отмене ctx.
func (s *Session) Run(ctx context.Context) {
	s.log.WithFields(logrus.Fields{
		"sides": len(s.Managers),
		"turn":  s.State.Turn,
	}).Info("Session loop started")

	var timer *time.Timer
	var timeout <-chan time.Time
	resetTimer := func() {
		if s.turnTimeout <= 0 {
			return
		}
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(s.turnTimeout)
		timeout = timer.C
	}
	resetTimer()
	seq := s.turnSeq

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			s.log.Info("Session loop stopped")
			return

		case side := <-s.JoinChan:
			s.join(side)

		case side := <-s.LeaveChan:
			s.leave(side)

		case cmd := <-s.CommandChan:
			_ = s.executeCommand(cmd)

		case q := <-s.queryChan:
			q.fn()
			close(q.done)

		case <-timeout:
			s.log.WithFields(logrus.Fields{
				"side": s.State.CurrentSide,
				"turn": s.State.Turn,
			}).Warn("Turn timed out")
			s.AddLog(fmt.Sprintf("%s не успевает завершить ход.", s.State.Team(s.State.CurrentSide).Name), "TURN")
			s.endTurn()
			s.flushSync()
			s.publishUpdate()
		}

		if s.turnSeq != seq {
			seq = s.turnSeq
			resetTimer()
		}
	}
}

// Do выполняет fn в горутине партии (для чтения состояния снаружи: debug, сохранение)
func (s *Session) Do(ctx context.Context, fn func()) error {
	q := sessionQuery{fn: fn, done: make(chan struct{})}
	select {
	case s.queryChan <- q:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) join(side int) {
	if s.Manager(side) == nil {
		return
	}
	s.online[side] = true
	s.log.WithField("side", side).Info("Side joined")
}

func (s *Session) leave(side int) {
	if !s.online[side] {
		return
	}
	delete(s.online, side)
	if m := s.Manager(side); m != nil {
		m.DeselectUnit()
	}
	s.log.WithField("side", side).Info("Side left")
}

// executeCommand выполняет команду стороны и рассылает обновления
func (s *Session) executeCommand(cmd SessionCommand) error {
	entry := s.log.WithFields(logrus.Fields{
		"side":   cmd.Side,
		"action": cmd.Action.String(),
	})

	m := s.Manager(cmd.Side)
	if m == nil {
		entry.Warn("Command from unknown side")
		return fmt.Errorf("command %s: side %d: %w", cmd.Action, cmd.Side, domain.ErrUnknownSide)
	}
	handler, ok := s.handlers[cmd.Action]
	if !ok {
		entry.Warn("No handler for action")
		return fmt.Errorf("command %s: %w", cmd.Action, whiteboard.ErrUnknownAction)
	}

	ctx := handlers.Context{
		State:   s.State,
		Manager: m,
		Side:    cmd.Side,
	}

	result, err := handler(ctx, cmd.Payload)

	if result.Msg != "" {
		msgType := result.MsgType
		if msgType == "" {
			msgType = "INFO"
		}
		s.AddLog(result.Msg, msgType)
	}
	if result.StateChanged {
		s.revalidateAll()
	}
	if result.EndTurn {
		s.endTurn()
	}
	s.flushSync()

	if err != nil {
		entry.WithError(err).Info("Command rejected")
		s.sendError(cmd.Side, err)
	}
	s.publishUpdate()
	return err
}

// endTurn передает ход и перевалидирует планы всех сторон под новую сторону
func (s *Session) endTurn() {
	side, newTurn := s.TurnManager.Advance()
	s.turnSeq++
	if newTurn {
		s.AddLog(fmt.Sprintf("Ход %d.", s.State.Turn), "TURN")
	}
	s.AddLog(fmt.Sprintf("Ходит %s.", s.State.Team(side).Name), "TURN")

	for _, m := range s.Managers {
		if err := m.OnTurnAdvance(); err != nil {
			s.log.WithError(err).WithField("side", m.Local()).Error("Revalidation after turn change failed")
		}
	}
}

// revalidateAll - реальное состояние изменилось, перепроверяем все очереди всех менеджеров
func (s *Session) revalidateAll() {
	for _, m := range s.Managers {
		if err := m.OnGamestateChange(); err != nil {
			s.log.WithError(err).WithField("side", m.Local()).Error("Revalidation failed")
		}
	}
}

// flushSync раздает исходящие уведомления, пока они появляются
func (s *Session) flushSync() {
	for round := 0; round < maxSyncRounds; round++ {
		pending := false
		for _, m := range s.Managers {
			if m.PendingNetData() > 0 {
				pending = true
				m.FlushNetData()
			}
		}
		if !pending {
			return
		}
	}
	s.log.WithField("rounds", maxSyncRounds).Warn("Sync did not settle")
}

// relay применяет уведомления стороны from к зеркалам её очереди у союзников
func (s *Session) relay(from int, cmds []whiteboard.NetCommand) {
	for _, m := range s.Managers {
		to := m.Local()
		if to == from || s.State.AreEnemies(from, to) {
			continue
		}
		for _, cmd := range cmds {
			if err := m.ProcessNetCommand(cmd); err != nil {
				s.log.WithError(err).WithFields(logrus.Fields{
					"from_side": from,
					"to_side":   to,
					"net_cmd":   cmd.Type,
				}).Warn("Ally failed to apply sync command")
				continue
			}
			notice := api.SyncNotice{Type: string(cmd.Type), Side: cmd.Side, Index: cmd.Index}
			if cmd.ActionID != uuid.Nil {
				notice.ActionID = cmd.ActionID.String()
			}
			s.pendingSync[to] = append(s.pendingSync[to], notice)
		}
	}
}

func (s *Session) sendError(side int, err error) {
	s.Hub.SendTo(side, api.ServerResponse{
		Type:        "ERROR",
		Turn:        s.State.Turn,
		CurrentSide: s.State.CurrentSide,
		MySide:      side,
		Error:       err.Error(),
	})
}
