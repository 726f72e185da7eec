package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"planboard/internal/config"
	"planboard/internal/domain"
	"planboard/internal/infrastructure/storage"
	"planboard/internal/network"
	"planboard/internal/whiteboard"
	"planboard/pkg/api"
	"planboard/pkg/logger"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type GameService struct {
	Config  config.Config
	Session *Session
	Hub     *network.Broadcaster
	Plans   *storage.PlanStore
}

func NewService(cfg config.Config, state *domain.State) (*GameService, error) {
	plans, err := storage.NewPlanStore(cfg.SaveDir)
	if err != nil {
		return nil, err
	}
	hub := network.NewBroadcaster()
	return &GameService{
		Config:  cfg,
		Session: NewSession(state, hub, cfg.TurnTimeout),
		Hub:     hub,
		Plans:   plans,
	}, nil
}

func (s *GameService) Start(ctx context.Context) {
	go s.Session.Run(ctx)
}

// SideByToken находит сторону по имени команды (без учета регистра) или по индексу.
// Состояние читается без синхронизации: имена команд не меняются после старта.
func (s *GameService) SideByToken(token string) (int, error) {
	token = strings.TrimSpace(token)
	for side, team := range s.Session.State.Teams {
		if strings.EqualFold(team.Name, token) {
			return side, nil
		}
	}
	if idx, err := strconv.Atoi(token); err == nil && s.Session.Manager(idx) != nil {
		return idx, nil
	}
	return -1, fmt.Errorf("token %q: %w", token, ErrUnknownToken)
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Сторона уже определена при рукопожатии.
func (s *GameService) ProcessCommand(side int, externalCmd api.ClientCommand) {
	actionType := domain.ParseAction(externalCmd.Action)
	if actionType == domain.ActionUnknown {
		logger.Log.WithFields(logrus.Fields{
			"side":   side,
			"action": externalCmd.Action,
		}).Warn("Unknown action")
		return
	}

	s.Session.CommandChan <- SessionCommand{
		Side:    side,
		Action:  actionType,
		Payload: externalCmd.Payload,
	}
}

func (s *GameService) Join(side int) { s.Session.JoinChan <- side }
func (s *GameService) Leave(side int) { s.Session.LeaveChan <- side }

// SavePlans сохраняет очереди всех сторон. Работает, пока крутится цикл партии.
func (s *GameService) SavePlans(ctx context.Context) (string, error) {
	var snap *storage.Snapshot
	var snapErr error
	if err := s.Session.Do(ctx, func() {
		snap, snapErr = s.Session.SnapshotPlans()
	}); err != nil {
		return "", err
	}
	if snapErr != nil {
		return "", snapErr
	}
	return s.Plans.Save(snap)
}

// LoadPlans восстанавливает очереди из снимка. Вызывать до Start.
func (s *GameService) LoadPlans(path string) error {
	snap, err := s.Plans.Load(path)
	if err != nil {
		return fmt.Errorf("load plans %s: %w", path, err)
	}
	return s.Session.RestorePlans(snap)
}

// SnapshotPlans снимает очереди: каждая сторона из своего менеджера
func (s *Session) SnapshotPlans() (*storage.Snapshot, error) {
	snap := &storage.Snapshot{
		Timestamp:   time.Now().Unix(),
		Turn:        s.State.Turn,
		CurrentSide: s.State.CurrentSide,
		Sides:       len(s.Managers),
	}
	for side, m := range s.Managers {
		for _, a := range m.Queue(side).Actions() {
			payload, err := json.Marshal(whiteboard.RecordOf(a))
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", a, err)
			}
			snap.Entries = append(snap.Entries, storage.Entry{
				Side:    side,
				Kind:    uint8(a.Kind()),
				Payload: payload,
			})
		}
	}
	return snap, nil
}

// RestorePlans кладет действия снимка в очереди владельцев и в зеркала их союзников,
// затем перевалидирует всё против текущего состояния.
func (s *Session) RestorePlans(snap *storage.Snapshot) error {
	if snap.Sides != len(s.Managers) {
		return fmt.Errorf("snapshot has %d sides, session %d: %w", snap.Sides, len(s.Managers), ErrSideMismatch)
	}
	if snap.Turn != s.State.Turn || snap.CurrentSide != s.State.CurrentSide {
		s.log.WithFields(logrus.Fields{
			"snapshot_turn": snap.Turn,
			"snapshot_side": snap.CurrentSide,
			"turn":          s.State.Turn,
			"side":          s.State.CurrentSide,
		}).Warn("Plan snapshot was taken at another turn")
	}

	restored := 0
	for i, e := range snap.Entries {
		var rec whiteboard.Record
		if err := json.Unmarshal(e.Payload, &rec); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if rec.Side != e.Side || uint8(rec.Kind) != e.Kind {
			return fmt.Errorf("entry %d: header side %d kind %d, record side %d kind %d: %w",
				i, e.Side, e.Kind, rec.Side, rec.Kind, ErrSideMismatch)
		}

		for _, m := range s.Managers {
			if m.Local() != e.Side && s.State.AreEnemies(m.Local(), e.Side) {
				continue
			}
			// У каждого менеджера свой экземпляр действия
			a, err := rec.Decode()
			if err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
			if _, err := m.Queue(e.Side).Append(a); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
		}
		if rec.Kind == whiteboard.KindRecruit {
			s.State.ReserveUnitID(rec.Unit)
		}
		restored++
	}

	s.revalidateAll()
	s.flushSync()
	s.pendingSync = make(map[int][]api.SyncNotice)

	s.log.WithField("actions", restored).Info("Plans restored")
	return nil
}
