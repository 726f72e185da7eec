package engine

import (
	"errors"
	"planboard/internal/domain"
	"planboard/internal/systems"
	"planboard/internal/whiteboard"
	"testing"
)

type reportLog struct {
	entries []string
	types   []string
}

func (r *reportLog) add(text, logType string) {
	r.entries = append(r.entries, text)
	r.types = append(r.types, logType)
}

func TestExecutor_MoveFullRoute(t *testing.T) {
	state := newTestState(t)
	exec := NewExecutor(nil)
	u := unitAt(t, state, spearmanHex)

	route, ok := systems.NewPathfinder().FindRoute(state, u, h(6, 2))
	if !ok {
		t.Fatal("no route in fixture")
	}
	mv := whiteboard.NewMove(red, u.ID, route)

	finished, err := exec.Execute(state, mv)
	if err != nil || !finished {
		t.Fatalf("Execute = %v, %v; want finished", finished, err)
	}
	if u.Pos != h(6, 2) || u.Movement != 3 {
		t.Errorf("unit at %s with %d movement, want (6,2) with 3", u.Pos, u.Movement)
	}
}

func TestExecutor_MoveStopsShort(t *testing.T) {
	tests := []struct {
		name      string
		movement  int
		steps     []domain.Hex
		wantPos   domain.Hex
		wantLeft  int // Movement после исполнения
		wantSteps int // Клеток в оставшемся маршруте
	}{
		{
			// Грант на (7,2) не был учтен при планировании
			name:      "enemy on route",
			movement:  5,
			steps:     []domain.Hex{h(4, 2), h(5, 2), h(6, 2), h(7, 2), h(8, 2)},
			wantPos:   h(6, 2),
			wantLeft:  3,
			wantSteps: 3,
		},
		{
			name:      "out of movement",
			movement:  2,
			steps:     []domain.Hex{h(4, 2), h(4, 3), h(4, 4), h(4, 5)},
			wantPos:   h(4, 4),
			wantLeft:  0,
			wantSteps: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newTestState(t)
			u := unitAt(t, state, spearmanHex)
			u.Movement = tt.movement

			route := domain.Route{Steps: tt.steps, Cost: systems.RouteCost(state.Board, tt.steps)}
			mv := whiteboard.NewMove(red, u.ID, route)

			finished, err := NewExecutor(nil).Execute(state, mv)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if finished {
				t.Fatal("move must be reported as partial")
			}
			if u.Pos != tt.wantPos || u.Movement != tt.wantLeft {
				t.Errorf("unit at %s with %d movement, want %s with %d", u.Pos, u.Movement, tt.wantPos, tt.wantLeft)
			}
			if mv.Source() != tt.wantPos || mv.Route().Len() != tt.wantSteps {
				t.Errorf("remaining route %v from %s", mv.Route().Steps, mv.Source())
			}
			if mv.Dest() != tt.steps[len(tt.steps)-1] {
				t.Errorf("destination changed to %s", mv.Dest())
			}
		})
	}
}

func TestExecutor_MoveFromWrongHex(t *testing.T) {
	state := newTestState(t)
	u := unitAt(t, state, spearmanHex)
	mv := whiteboard.NewMove(red, u.ID, domain.Route{Steps: []domain.Hex{h(3, 2), h(3, 3)}, Cost: 1})

	if _, err := NewExecutor(nil).Execute(state, mv); !errors.Is(err, ErrUnitMoved) {
		t.Errorf("expected ErrUnitMoved, got %v", err)
	}
}

func TestExecutor_Attack(t *testing.T) {
	tests := []struct {
		name         string
		gruntHP      int
		wantGruntHP  int
		wantSpearHP  int
		wantGruntDie bool
	}{
		{name: "kill", gruntHP: 5, wantSpearHP: 36, wantGruntDie: true},
		{name: "exchange", gruntHP: 38, wantGruntHP: 31, wantSpearHP: 27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newTestState(t)
			spear := unitAt(t, state, spearmanHex)
			grunt := unitAt(t, state, gruntHex)
			grunt.HP = tt.gruntHP

			reports := &reportLog{}
			exec := NewExecutor(reports.add)

			// Подходим на (6,2) и бьем соседнюю (7,2)
			route := domain.Route{Steps: []domain.Hex{h(4, 2), h(5, 2), h(6, 2)}, Cost: 2}
			atk := whiteboard.NewAttack(red, spear.ID, route, gruntHex, grunt.ID)

			finished, err := exec.Execute(state, atk)
			if err != nil || !finished {
				t.Fatalf("Execute = %v, %v", finished, err)
			}
			if spear.Pos != h(6, 2) || spear.Attacks != 0 {
				t.Errorf("attacker at %s with %d attacks", spear.Pos, spear.Attacks)
			}
			if spear.HP != tt.wantSpearHP {
				t.Errorf("attacker HP = %d, want %d", spear.HP, tt.wantSpearHP)
			}

			gone := state.Board.Unit(grunt.ID) == nil
			if gone != tt.wantGruntDie {
				t.Errorf("defender removed = %v, want %v", gone, tt.wantGruntDie)
			}
			if !tt.wantGruntDie && grunt.HP != tt.wantGruntHP {
				t.Errorf("defender HP = %d, want %d", grunt.HP, tt.wantGruntHP)
			}
			if len(reports.types) != 1 || reports.types[0] != "COMBAT" {
				t.Errorf("reports = %v", reports.types)
			}
		})
	}
}

func TestExecutor_AttackWithoutAttacksLeft(t *testing.T) {
	state := newTestState(t)
	spear := unitAt(t, state, spearmanHex)
	spear.Attacks = 0
	if err := state.Board.Relocate(spear.ID, h(6, 2)); err != nil {
		t.Fatal(err)
	}

	atk := whiteboard.NewAttack(red, spear.ID, domain.Route{Steps: []domain.Hex{h(6, 2)}}, gruntHex, domain.NilUnitID)
	if _, err := NewExecutor(nil).Execute(state, atk); !errors.Is(err, ErrNoAttacksLeft) {
		t.Errorf("expected ErrNoAttacksLeft, got %v", err)
	}
}

func TestExecutor_Recruit(t *testing.T) {
	state := newTestState(t)
	reports := &reportLog{}
	exec := NewExecutor(reports.add)

	r := whiteboard.NewRecruit(red, state.NextUnitID(red), "spearman", h(2, 1), 14)
	finished, err := exec.Execute(state, r)
	if err != nil || !finished {
		t.Fatalf("Execute = %v, %v", finished, err)
	}

	u := state.Board.Unit(r.UnitID())
	if u == nil || u.Pos != h(2, 1) {
		t.Fatalf("recruited unit not placed: %+v", u)
	}
	if u.Movement != 0 || u.Attacks != 0 {
		t.Errorf("fresh recruit must not act this turn: mv=%d atk=%d", u.Movement, u.Attacks)
	}
	if state.Team(red).Gold != 86 {
		t.Errorf("gold = %d, want 86", state.Team(red).Gold)
	}

	tests := []struct {
		name    string
		hex     domain.Hex
		typeID  string
		wantErr error
	}{
		{name: "occupied", hex: h(2, 1), typeID: "spearman", wantErr: whiteboard.ErrHexOccupied},
		{name: "not a castle", hex: h(5, 5), typeID: "spearman", wantErr: whiteboard.ErrNoRecruiter},
		{name: "not recruitable", hex: h(1, 2), typeID: "grunt", wantErr: whiteboard.ErrNotRecruitable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := whiteboard.NewRecruit(red, state.NextUnitID(red), tt.typeID, tt.hex, 14)
			if _, err := exec.Execute(state, r); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
	if state.Team(red).Gold != 86 {
		t.Errorf("failed recruits changed gold: %d", state.Team(red).Gold)
	}
}

func TestExecutor_Recall(t *testing.T) {
	state := newTestState(t)
	team := state.Team(red)
	bowman := team.RecallList[0]

	finished, err := NewExecutor(nil).Execute(state, whiteboard.NewRecall(red, bowman.ID, h(1, 2)))
	if err != nil || !finished {
		t.Fatalf("Execute = %v, %v", finished, err)
	}
	if state.Board.UnitAt(h(1, 2)) != bowman || bowman.Movement != 0 {
		t.Errorf("bowman not recalled onto (1,2): %+v", bowman)
	}
	if len(team.RecallList) != 0 || team.Gold != 80 {
		t.Errorf("recall list %d, gold %d", len(team.RecallList), team.Gold)
	}

	_, err = NewExecutor(nil).Execute(state, whiteboard.NewRecall(red, bowman.ID, h(2, 1)))
	if !errors.Is(err, whiteboard.ErrNotInRecallList) {
		t.Errorf("second recall: expected ErrNotInRecallList, got %v", err)
	}
}

func TestExecutor_SupposeDeadIsNotExecutable(t *testing.T) {
	state := newTestState(t)
	grunt := unitAt(t, state, gruntHex)

	_, err := NewExecutor(nil).Execute(state, whiteboard.NewSupposeDead(red, grunt.ID, gruntHex))
	if !errors.Is(err, whiteboard.ErrNotExecutable) {
		t.Errorf("expected ErrNotExecutable, got %v", err)
	}
	if state.Board.Unit(grunt.ID) == nil {
		t.Error("supposing death must not kill the unit")
	}
}
