package whiteboard

import (
	"errors"
	"planboard/internal/domain"
	"testing"
)

func blocker(side int, idx uint32, pos domain.Hex) *domain.Unit {
	return &domain.Unit{
		ID:          domain.PackUnitID(uint8(side+1), 0, idx),
		Side:        side,
		Pos:         pos,
		MaxMovement: 5,
		Movement:    5,
		Vision:      1,
	}
}

// Scenario A: 100 золота, найм за 20, затем за 90
func TestValidator_GoldCommitment(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)
	sa := m.Queue(0)

	cheap := NewRecruit(0, state.NextUnitID(0), "cheap", h(2, 1), 20)
	pricey := NewRecruit(0, state.NextUnitID(0), "pricey", h(1, 2), 90)
	if _, err := sa.Append(cheap); err != nil {
		t.Fatal(err)
	}
	if _, err := sa.Append(pricey); err != nil {
		t.Fatal(err)
	}

	if err := m.OnGamestateChange(); err != nil {
		t.Fatalf("validation failed: %v", err)
	}

	if !cheap.Valid() {
		t.Error("first recruit must stay valid")
	}
	if pricey.Valid() {
		t.Error("second recruit must be blocked by committed gold")
	}
	if sa.Len() != 2 {
		t.Errorf("blocked recruit must be retained, queue len = %d", sa.Len())
	}
	if got := m.SpentGold(0); got != 20 {
		t.Errorf("SpentGold = %d, want 20", got)
	}

	// Предложение нового найма сверх остатка отклоняется сразу
	if _, err := m.SaveRecruit("pricey", h(0, 2)); !errors.Is(err, ErrInsufficientGold) {
		t.Errorf("expected ErrInsufficientGold, got %v", err)
	}

	// Больше золота - блокировка снимается
	state.Teams[0].Gold = 200
	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}
	if !pricey.Valid() || m.SpentGold(0) != 110 {
		t.Errorf("after gold increase: valid=%v spent=%d", pricey.Valid(), m.SpentGold(0))
	}
}

// Scenario B: клетка назначения занята - план блокирован, но сохранён
func TestValidator_BlockedDestinationRetained(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)
	mv := planMove(t, m, unitAt(t, state, spearmanHex).ID, h(6, 2))

	obstacle := blocker(1, 50, h(6, 2))
	if err := state.Board.Insert(obstacle); err != nil {
		t.Fatal(err)
	}
	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}
	if mv.Valid() {
		t.Error("move into occupied hex must be invalid")
	}
	if m.Queue(0).Len() != 1 {
		t.Fatal("blocked move must be retained")
	}

	if _, err := state.Board.Extract(obstacle.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}
	if !mv.Valid() {
		t.Error("move must become valid once the obstruction clears")
	}
}

// Scenario C: юнит погиб - его перемещение и атака удаляются
func TestValidator_KilledUnitPlansRemoved(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)
	spearman := unitAt(t, state, spearmanHex)
	grunt := unitAt(t, state, gruntHex)

	planMove(t, m, spearman.ID, h(7, 2))
	if err := m.SelectUnit(spearman.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SaveTempAttack(gruntHex); err != nil {
		t.Fatalf("SaveTempAttack: %v", err)
	}
	sd, err := m.SaveSupposeDead(gruntHex)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}
	if m.Queue(0).Len() != 3 {
		t.Fatalf("all plans should be valid initially, queue len %d", m.Queue(0).Len())
	}

	if _, err := state.Board.Extract(spearman.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}

	queue := m.Queue(0)
	if queue.Len() != 1 || queue.At(0) != sd {
		t.Fatalf("only suppose_dead should remain, got %v", queue.Actions())
	}

	if _, err := state.Board.Extract(grunt.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}
	if !queue.Empty() {
		t.Errorf("suppose_dead of a vanished unit must be removed, got %v", queue.Actions())
	}
}

func TestValidator_DependencyRespectingRemoval(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)
	id := unitAt(t, state, spearmanHex).ID

	first := planMove(t, m, id, h(6, 2))
	second := planMove(t, m, id, h(6, 3))

	obstacle := blocker(1, 50, h(6, 2))
	if err := state.Board.Insert(obstacle); err != nil {
		t.Fatal(err)
	}
	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}

	// Второе перемещение невыполнимо само по себе, но зависит от первого - оставляем
	if first.Valid() || second.Valid() {
		t.Errorf("both moves must be invalid: %v %v", first.Valid(), second.Valid())
	}
	if m.Queue(0).Len() != 2 {
		t.Fatalf("dependent move must be retained, queue len %d", m.Queue(0).Len())
	}

	if _, err := state.Board.Extract(obstacle.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}
	if !first.Valid() || !second.Valid() {
		t.Error("both moves must recover once the obstacle is gone")
	}
}

func TestValidator_Classification(t *testing.T) {
	tests := []struct {
		name      string
		plan      func(t *testing.T, m *Manager) Action
		mutate    func(t *testing.T, state *domain.State)
		wantValid bool
		wantKept  bool
	}{
		{
			name: "move still feasible",
			plan: func(t *testing.T, m *Manager) Action {
				return planMove(t, m, unitAt(t, m.State(), spearmanHex).ID, h(5, 2))
			},
			mutate:    func(*testing.T, *domain.State) {},
			wantValid: true,
			wantKept:  true,
		},
		{
			name: "move beyond remaining movement is blocked",
			plan: func(t *testing.T, m *Manager) Action {
				return planMove(t, m, unitAt(t, m.State(), spearmanHex).ID, h(6, 2))
			},
			mutate: func(t *testing.T, state *domain.State) {
				unitAt(t, state, spearmanHex).Movement = 1
			},
			wantValid: false,
			wantKept:  true,
		},
		{
			name: "move whose unit left the source is removed",
			plan: func(t *testing.T, m *Manager) Action {
				return planMove(t, m, unitAt(t, m.State(), spearmanHex).ID, h(6, 2))
			},
			mutate: func(t *testing.T, state *domain.State) {
				if err := state.Board.Relocate(unitAt(t, state, spearmanHex).ID, h(4, 4)); err != nil {
					t.Fatal(err)
				}
			},
			wantValid: false,
			wantKept:  false,
		},
		{
			name: "attack on empty hex is removed",
			plan: func(t *testing.T, m *Manager) Action {
				state := m.State()
				// Грант подходит вплотную, атака без перемещения
				if err := state.Board.Relocate(unitAt(t, state, gruntHex).ID, h(5, 2)); err != nil {
					t.Fatal(err)
				}
				if err := m.SelectUnit(unitAt(t, state, spearmanHex).ID); err != nil {
					t.Fatal(err)
				}
				atk, err := m.SaveTempAttack(h(5, 2))
				if err != nil {
					t.Fatal(err)
				}
				return atk
			},
			mutate: func(t *testing.T, state *domain.State) {
				if _, err := state.Board.Extract(unitAt(t, state, h(5, 2)).ID); err != nil {
					t.Fatal(err)
				}
			},
			wantValid: false,
			wantKept:  false,
		},
		{
			name: "recruit into occupied hex is blocked",
			plan: func(t *testing.T, m *Manager) Action {
				r, err := m.SaveRecruit("cheap", h(2, 1))
				if err != nil {
					t.Fatal(err)
				}
				return r
			},
			mutate: func(t *testing.T, state *domain.State) {
				if err := state.Board.Insert(blocker(1, 50, h(2, 1))); err != nil {
					t.Fatal(err)
				}
			},
			wantValid: false,
			wantKept:  true,
		},
		{
			name: "recruit of a type no longer recruitable is removed",
			plan: func(t *testing.T, m *Manager) Action {
				r, err := m.SaveRecruit("cheap", h(2, 1))
				if err != nil {
					t.Fatal(err)
				}
				return r
			},
			mutate: func(_ *testing.T, state *domain.State) {
				state.Teams[0].Recruits = []string{"spearman"}
			},
			wantValid: false,
			wantKept:  false,
		},
		{
			name: "recruit without leader on keep is blocked",
			plan: func(t *testing.T, m *Manager) Action {
				r, err := m.SaveRecruit("cheap", h(2, 1))
				if err != nil {
					t.Fatal(err)
				}
				return r
			},
			mutate: func(t *testing.T, state *domain.State) {
				if err := state.Board.Relocate(unitAt(t, state, keepHex).ID, h(3, 3)); err != nil {
					t.Fatal(err)
				}
			},
			wantValid: false,
			wantKept:  true,
		},
		{
			name: "recall of a unit gone from the pool is removed",
			plan: func(t *testing.T, m *Manager) Action {
				r, err := m.SaveRecall(m.State().Teams[0].RecallList[0].ID, h(1, 2))
				if err != nil {
					t.Fatal(err)
				}
				return r
			},
			mutate: func(_ *testing.T, state *domain.State) {
				state.Teams[0].RecallList = nil
			},
			wantValid: false,
			wantKept:  false,
		},
		{
			name: "recall without gold is blocked",
			plan: func(t *testing.T, m *Manager) Action {
				r, err := m.SaveRecall(m.State().Teams[0].RecallList[0].ID, h(1, 2))
				if err != nil {
					t.Fatal(err)
				}
				return r
			},
			mutate: func(_ *testing.T, state *domain.State) {
				state.Teams[0].Gold = 5
			},
			wantValid: false,
			wantKept:  true,
		},
		{
			name: "suppose_dead of a unit that moved is removed",
			plan: func(t *testing.T, m *Manager) Action {
				sd, err := m.SaveSupposeDead(gruntHex)
				if err != nil {
					t.Fatal(err)
				}
				return sd
			},
			mutate: func(t *testing.T, state *domain.State) {
				if err := state.Board.Relocate(unitAt(t, state, gruntHex).ID, h(8, 3)); err != nil {
					t.Fatal(err)
				}
			},
			wantValid: false,
			wantKept:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newTestState(t)
			m := newTestManager(t, state, 0)
			a := tt.plan(t, m)

			tt.mutate(t, state)
			if err := m.OnGamestateChange(); err != nil {
				t.Fatalf("validation failed: %v", err)
			}

			if a.Valid() != tt.wantValid {
				t.Errorf("valid = %v, want %v", a.Valid(), tt.wantValid)
			}
			kept := m.Queue(0).IndexOf(a) >= 0
			if kept != tt.wantKept {
				t.Errorf("kept = %v, want %v", kept, tt.wantKept)
			}
		})
	}
}

func TestValidator_OtherSideQueueNeverPruned(t *testing.T) {
	state := newTestState(t)
	state.Teams[1].Alliance = 1
	m := newTestManager(t, state, 0)

	ghost := NewSupposeDead(1, domain.PackUnitID(9, 0, 9), h(5, 5))
	if _, err := m.Queue(1).Append(ghost); err != nil {
		t.Fatal(err)
	}
	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}
	if ghost.Valid() {
		t.Error("inconsistent ally action must be marked invalid")
	}
	if m.Queue(1).Len() != 1 {
		t.Error("actions of other sides must never be removed locally")
	}
}

func TestValidator_RouteReplacementNotifiesAllies(t *testing.T) {
	state := newTestState(t)
	notifier := &recordingNotifier{}
	m := NewManager(state, 0, Deps{Notifier: notifier})

	mv := planMove(t, m, unitAt(t, state, spearmanHex).ID, h(6, 2))
	m.FlushNetData()
	if len(notifier.sent) != 1 || notifier.sent[0].Type != NetInsert {
		t.Fatalf("expected one insert notice, got %+v", notifier.sent)
	}
	if mv.Route().Cost != 2 {
		t.Fatalf("initial route cost = %d, want 2", mv.Route().Cost)
	}

	// Единственная промежуточная клетка становится горой - путь в обход дешевле
	state.Board.SetTile(h(5, 2), domain.Tile{Terrain: domain.TerrainMountain})
	if err := m.OnGamestateChange(); err != nil {
		t.Fatal(err)
	}

	if !mv.Valid() || mv.Route().Cost != 3 {
		t.Fatalf("route not replaced: valid=%v cost=%d", mv.Valid(), mv.Route().Cost)
	}
	m.FlushNetData()
	last := notifier.sent[len(notifier.sent)-1]
	if last.Type != NetReplace || last.ActionID != mv.ID() || last.Action.Route.Cost != 3 {
		t.Errorf("expected replace notice for the move, got %+v", last)
	}
}

func TestValidator_RefusesDuringProjection(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)

	scope := m.PushProjection()
	defer scope.Release()
	if err := m.OnGamestateChange(); !errors.Is(err, ErrProjectionActive) {
		t.Errorf("expected ErrProjectionActive, got %v", err)
	}
}
