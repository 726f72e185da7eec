package whiteboard

import (
	"errors"
	"planboard/internal/domain"
	"testing"
)

// stubHooks считает перевалидации и имитирует активную проекцию
type stubHooks struct {
	active       bool
	revalidated  int
	revalidation error
}

func (s *stubHooks) projectionActive() bool { return s.active }

func (s *stubHooks) revalidate() error {
	s.revalidated++
	return s.revalidation
}

func newStubQueue(side int) (*SideActions, *stubHooks) {
	hooks := &stubHooks{}
	sa := NewSideActions(side)
	sa.hooks = hooks
	return sa, hooks
}

func supposeAt(side int, idx uint32) *SupposeDead {
	return NewSupposeDead(side, domain.PackUnitID(uint8(side+1), 0, idx), h(int(idx), 0))
}

func TestSideActions_InsertPositions(t *testing.T) {
	sa, hooks := newStubQueue(0)
	a, b, c := supposeAt(0, 1), supposeAt(0, 2), supposeAt(0, 3)

	if _, err := sa.Append(a); err != nil {
		t.Fatal(err)
	}
	if hooks.revalidated != 0 {
		t.Error("append must not revalidate")
	}
	if _, err := sa.Insert(c, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := sa.Insert(b, 1); err != nil {
		t.Fatal(err)
	}
	if hooks.revalidated != 2 {
		t.Errorf("revalidated %d times, want 2", hooks.revalidated)
	}

	want := []Action{a, b, c}
	for i, w := range want {
		if sa.At(i) != w {
			t.Errorf("position %d: got %v, want %v", i, sa.At(i), w)
		}
	}

	tests := []struct {
		name string
		pos  int
	}{
		{"negative", -1},
		{"past end", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sa.Insert(supposeAt(0, 9), tt.pos); !errors.Is(err, ErrBadPosition) {
				t.Errorf("expected ErrBadPosition, got %v", err)
			}
			if sa.Len() != 3 {
				t.Errorf("queue changed on bad insert: len %d", sa.Len())
			}
		})
	}
}

func TestSideActions_Move(t *testing.T) {
	sa, _ := newStubQueue(0)
	a, b, c := supposeAt(0, 1), supposeAt(0, 2), supposeAt(0, 3)
	for _, x := range []Action{a, b, c} {
		if _, err := sa.Append(x); err != nil {
			t.Fatal(err)
		}
	}

	pos, err := sa.Move(2, -2)
	if err != nil || pos != 0 {
		t.Fatalf("Move: pos %d err %v", pos, err)
	}
	if sa.At(0) != c || sa.At(1) != a || sa.At(2) != b {
		t.Errorf("unexpected order: %v", sa.Actions())
	}

	if _, err := sa.Move(0, -1); !errors.Is(err, ErrBadPosition) {
		t.Errorf("moving before start: %v", err)
	}
	if _, err := sa.Move(2, 1); !errors.Is(err, ErrBadPosition) {
		t.Errorf("moving past end: %v", err)
	}
}

func TestSideActions_RemoveAndFind(t *testing.T) {
	sa, _ := newStubQueue(0)
	unit := domain.PackUnitID(1, 0, 7)
	first := NewSupposeDead(0, unit, h(1, 1))
	other := supposeAt(0, 2)
	last := NewSupposeDead(0, unit, h(1, 1))
	for _, x := range []Action{first, other, last} {
		if _, err := sa.Append(x); err != nil {
			t.Fatal(err)
		}
	}

	if got := sa.FindFirstOf(unit, 0); got != 0 {
		t.Errorf("FindFirstOf = %d, want 0", got)
	}
	if got := sa.FindFirstOf(unit, 1); got != 2 {
		t.Errorf("FindFirstOf from 1 = %d, want 2", got)
	}
	if got := sa.FindLastOf(unit, 1); got != 0 {
		t.Errorf("FindLastOf from 1 = %d, want 0", got)
	}
	if got := sa.FindFirstOf(domain.PackUnitID(1, 0, 99), 0); got != -1 {
		t.Errorf("missing unit = %d, want -1", got)
	}
	if got := sa.IndexByID(last.ID()); got != 2 {
		t.Errorf("IndexByID = %d, want 2", got)
	}

	if _, err := sa.Remove(1); err != nil {
		t.Fatal(err)
	}
	if sa.Len() != 2 || sa.IndexOf(other) != -1 {
		t.Errorf("remove failed: %v", sa.Actions())
	}
	if _, err := sa.Remove(5); !errors.Is(err, ErrBadPosition) {
		t.Errorf("expected ErrBadPosition, got %v", err)
	}
}

func TestSideActions_Guards(t *testing.T) {
	sa, hooks := newStubQueue(0)
	if _, err := sa.Append(supposeAt(0, 1)); err != nil {
		t.Fatal(err)
	}

	if _, err := sa.Append(supposeAt(1, 1)); !errors.Is(err, ErrWrongSide) {
		t.Errorf("foreign action accepted: %v", err)
	}

	queued := sa.At(0)
	if _, err := sa.Append(queued); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("append of queued action: expected ErrAlreadyQueued, got %v", err)
	}
	if _, err := sa.Insert(queued, 0); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("insert of queued action: expected ErrAlreadyQueued, got %v", err)
	}

	hooks.active = true
	ops := map[string]func() error{
		"append": func() error { _, err := sa.Append(supposeAt(0, 2)); return err },
		"insert": func() error { _, err := sa.Insert(supposeAt(0, 2), 0); return err },
		"move":   func() error { _, err := sa.Move(0, 0); return err },
		"remove": func() error { _, err := sa.Remove(0); return err },
		"clear":  sa.Clear,
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrProjectionActive) {
			t.Errorf("%s under projection: expected ErrProjectionActive, got %v", name, err)
		}
	}
	if sa.Len() != 1 {
		t.Errorf("queue mutated under projection: len %d", sa.Len())
	}
}

func TestSideActions_Execute(t *testing.T) {
	tests := []struct {
		name    string
		exec    *fakeExecutor
		wantLen int
		wantPos int
		wantErr bool
	}{
		{name: "finished action is erased", exec: &fakeExecutor{}, wantLen: 1, wantPos: -1},
		{name: "partial action goes to the end", exec: &fakeExecutor{partial: true}, wantLen: 2, wantPos: 1},
		{name: "failed action is kept in place", exec: &fakeExecutor{err: errors.New("boom")}, wantLen: 2, wantPos: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sa, _ := newStubQueue(0)
			head, tail := supposeAt(0, 1), supposeAt(0, 2)
			for _, x := range []Action{head, tail} {
				if _, err := sa.Append(x); err != nil {
					t.Fatal(err)
				}
			}

			_, err := sa.Execute(nil, 0, tt.exec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.exec.calls != 1 {
				t.Errorf("executor called %d times", tt.exec.calls)
			}
			if sa.Len() != tt.wantLen {
				t.Errorf("len = %d, want %d", sa.Len(), tt.wantLen)
			}
			if got := sa.IndexOf(head); got != tt.wantPos {
				t.Errorf("head position = %d, want %d", got, tt.wantPos)
			}
		})
	}
}
