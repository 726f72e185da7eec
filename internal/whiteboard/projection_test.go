package whiteboard

import (
	"errors"
	"planboard/internal/domain"
	"testing"
)

// planEverything ставит в очередь по одному действию каждого вида
func planEverything(t *testing.T, m *Manager) (*Move, *Recruit, *Recall, *SupposeDead) {
	t.Helper()
	state := m.State()
	spearman := unitAt(t, state, spearmanHex)

	mv := planMove(t, m, spearman.ID, h(6, 2))
	rec, err := m.SaveRecruit("cheap", h(2, 1))
	if err != nil {
		t.Fatalf("SaveRecruit: %v", err)
	}
	rc, err := m.SaveRecall(state.Teams[0].RecallList[0].ID, h(1, 2))
	if err != nil {
		t.Fatalf("SaveRecall: %v", err)
	}
	sd, err := m.SaveSupposeDead(gruntHex)
	if err != nil {
		t.Fatalf("SaveSupposeDead: %v", err)
	}
	return mv, rec, rc, sd
}

func TestProjection_Idempotence(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)
	planEverything(t, m)

	before := snapshot(state)
	scope := m.PushProjection()
	if snapshot(state) == before {
		t.Fatal("projection did not change the map")
	}
	scope.Release()

	if after := snapshot(state); after != before {
		t.Errorf("push/pop changed state:\nbefore:\n%s\nafter:\n%s", before, after)
	}
	if m.Queue(0).GoldSpent() != 0 {
		t.Errorf("gold spent outside projection = %d", m.Queue(0).GoldSpent())
	}
}

func TestProjection_AppliesPlans(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)
	mv, rec, rc, sd := planEverything(t, m)

	scope := m.PushProjection()
	defer scope.Release()

	board := state.Board
	if u := board.Unit(mv.UnitID()); u == nil || u.Pos != h(6, 2) || u.Movement != u.MaxMovement-2 {
		t.Errorf("moved unit not relocated with reduced movement: %+v", u)
	}
	if u := board.UnitAt(h(2, 1)); u == nil || u.ID != rec.UnitID() || u.Movement != 0 || u.Attacks != 0 {
		t.Errorf("recruit prototype not placed: %+v", u)
	}
	if rec.Prototype() != nil {
		t.Error("prototype must belong to the projection while folded")
	}
	if u := board.UnitAt(h(1, 2)); u == nil || u.ID != rc.UnitID() {
		t.Errorf("recalled unit not placed: %+v", u)
	}
	if len(state.Teams[0].RecallList) != 0 {
		t.Error("recalled unit must leave the recall list while folded")
	}
	if board.Unit(sd.UnitID()) != nil {
		t.Error("supposed-dead unit still on the map")
	}
	if got := m.Queue(0).GoldSpent(); got != 20+state.Teams[0].RecallCost {
		t.Errorf("gold spent = %d, want %d", got, 20+state.Teams[0].RecallCost)
	}
}

func TestProjection_ReferenceCounting(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)
	planMove(t, m, unitAt(t, state, spearmanHex).ID, h(6, 2))

	for n := 1; n <= 5; n++ {
		buildsBefore, teardownsBefore := m.builds, m.teardowns

		scopes := make([]*Scope, 0, n)
		for i := 0; i < n; i++ {
			scopes = append(scopes, m.PushProjection())
		}
		if !m.HasProjection() {
			t.Fatalf("n=%d: projection not active", n)
		}
		for i := n - 1; i >= 0; i-- {
			scopes[i].Release()
			scopes[i].Release() // повторный Release ничего не делает
		}

		if m.HasProjection() {
			t.Errorf("n=%d: projection still active", n)
		}
		if m.builds-buildsBefore != 1 || m.teardowns-teardownsBefore != 1 {
			t.Errorf("n=%d: builds=%d teardowns=%d, want 1/1",
				n, m.builds-buildsBefore, m.teardowns-teardownsBefore)
		}
	}

	if err := m.PopProjection(); !errors.Is(err, ErrUnbalancedPop) {
		t.Errorf("expected ErrUnbalancedPop, got %v", err)
	}
}

func TestProjection_ClearInvalidatesScopes(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)
	before := snapshot(state)

	outer := m.PushProjection()
	inner := m.PushProjection()
	if err := m.ClearProjection(); err != nil {
		t.Fatalf("ClearProjection: %v", err)
	}
	if m.HasProjection() {
		t.Fatal("projection still active after clear")
	}

	// Старые scope не должны снимать новую проекцию
	fresh := m.PushProjection()
	inner.Release()
	outer.Release()
	if !m.HasProjection() {
		t.Error("stale scope released a newer projection")
	}
	fresh.Release()

	if snapshot(state) != before {
		t.Error("state changed after clear/push/pop cycle")
	}
}

func TestProjection_HidesInvisibleEnemies(t *testing.T) {
	state := newTestState(t)
	far := &domain.Unit{ID: domain.PackUnitID(2, 0, 50), Side: 1, Pos: h(9, 5), MaxMovement: 5, Movement: 2}
	if err := state.Board.Insert(far); err != nil {
		t.Fatal(err)
	}
	grunt := unitAt(t, state, gruntHex)
	grunt.Movement = 1

	m := newTestManager(t, state, 0)
	scope := m.PushProjection()

	if state.Board.Unit(far.ID) != nil {
		t.Error("unit outside vision must be hidden in projection")
	}
	if grunt.Movement != grunt.MaxMovement {
		t.Error("units of sides not holding the turn get full movement in projection")
	}
	scope.Release()

	if state.Board.Unit(far.ID) != far || far.Pos != h(9, 5) {
		t.Error("hidden unit not restored")
	}
	if grunt.Movement != 1 {
		t.Errorf("movement not restored: %d", grunt.Movement)
	}
}

func TestProjection_StopsAfterViewerQueue(t *testing.T) {
	state := newTestState(t)
	state.Teams[1].Alliance = 1 // союзники, чтобы синие планы были известны

	m := newTestManager(t, state, 0)
	gruntMove := NewMove(1, unitAt(t, state, gruntHex).ID, domain.Route{
		Steps: []domain.Hex{gruntHex, h(8, 3)},
		Cost:  1,
	})
	if _, err := m.Queue(1).Append(gruntMove); err != nil {
		t.Fatal(err)
	}

	// Ход красных (0), смотрит красный: очередь синих (1) за пределами обхода
	scope := m.PushProjection()
	if state.Board.UnitAt(gruntHex) == nil {
		t.Error("queue after the viewer's side must not be applied")
	}
	scope.Release()

	// Смотрит синий: обход 0 -> 1 включает его очередь
	mb := NewManager(state, 1, Deps{})
	mb.queues[1] = m.queues[1]
	scope = mb.PushProjection()
	if state.Board.UnitAt(h(8, 3)) == nil {
		t.Error("viewer's own queue must be applied")
	}
	scope.Release()
}

func TestOverlay_ReverseTeardownNecessity(t *testing.T) {
	// Юнит уходит с клетки, затем на освободившуюся клетку нанимается новый
	run := func(forward bool) string {
		state := newTestState(t)
		spearman := unitAt(t, state, spearmanHex)
		rec := NewRecruit(0, state.NextUnitID(0), "cheap", spearmanHex, 20)

		ov := newOverlay(state)
		if err := ov.do(&relocateUnit{id: spearman.ID, from: spearmanHex, to: h(5, 2), cost: 1}); err != nil {
			t.Fatal(err)
		}
		if err := ov.do(&placeRecruit{r: rec}); err != nil {
			t.Fatal(err)
		}

		if forward {
			for _, d := range ov.log {
				_ = d.revert(state) // первая отмена упирается в занятую клетку
			}
		} else if err := ov.rollback(); err != nil {
			t.Fatalf("reverse rollback failed: %v", err)
		}
		return snapshot(state)
	}

	original := snapshot(newTestState(t))
	reverse := run(false)
	forward := run(true)

	if reverse != original {
		t.Errorf("reverse teardown must restore the map:\nwant:\n%s\ngot:\n%s", original, reverse)
	}
	if forward == original {
		t.Error("forward teardown unexpectedly restored the map")
	}
}

func TestWalker_TurnOrder(t *testing.T) {
	state := domain.NewState(domain.NewBoard(3, 3), []*domain.Team{{}, {}, {}, {}}, nil)
	state.CurrentSide = 2

	queues := make([]*SideActions, 4)
	for i := range queues {
		queues[i] = NewSideActions(i)
		_, _ = queues[i].Append(NewSupposeDead(i, domain.PackUnitID(uint8(i+1), 0, 1), h(0, 0)))
	}

	tests := []struct {
		name   string
		viewer int
		stop   bool
		want   []int
	}{
		{"full walk", 0, false, []int{2, 3, 0, 1}},
		{"viewer right after current", 3, true, []int{2, 3}},
		{"viewer is current", 2, true, []int{2}},
		{"viewer wraps around", 1, true, []int{2, 3, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &walker{state: state, queues: queues, viewer: tt.viewer}
			var visited []int
			turns := map[int]int{}
			err := w.walk(tt.stop, func(sa *SideActions, _ int, _ Action) (bool, error) {
				visited = append(visited, sa.Side())
				return false, nil
			}, func(side, turn int, _ []Action) {
				turns[side] = turn
			})
			if err != nil {
				t.Fatal(err)
			}
			if len(visited) != len(tt.want) {
				t.Fatalf("visited %v, want %v", visited, tt.want)
			}
			for i := range tt.want {
				if visited[i] != tt.want[i] {
					t.Fatalf("visited %v, want %v", visited, tt.want)
				}
			}
			for side, turn := range turns {
				wantTurn := 0
				if side < state.CurrentSide {
					wantTurn = 1
				}
				if turn != wantTurn {
					t.Errorf("side %d settled with turn %d, want %d", side, turn, wantTurn)
				}
			}
		})
	}
}

func TestProjection_TurnTags(t *testing.T) {
	state := newTestState(t)
	m := newTestManager(t, state, 0)
	id := unitAt(t, state, spearmanHex).ID

	first := planMove(t, m, id, h(6, 2))
	second := planMove(t, m, id, h(7, 2))

	scope := m.PushProjection()
	scope.Release()
	if first.TurnNumber() != 0 || second.TurnNumber() != 1 {
		t.Errorf("turn tags = %d/%d, want 0/1", first.TurnNumber(), second.TurnNumber())
	}

	// Красные ходят после синих: их планы относятся к следующему ходу
	state.CurrentSide = 1
	scope = m.PushProjection()
	scope.Release()
	if second.TurnNumber() != 2 {
		t.Errorf("wrapped side tag = %d, want 2", second.TurnNumber())
	}
}
