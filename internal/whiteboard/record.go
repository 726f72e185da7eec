package whiteboard

import (
	"fmt"
	"planboard/internal/domain"

	"github.com/google/uuid"
)

// Record - сериализуемое представление действия (синхронизация, снимки очередей)
type Record struct {
	ID         uuid.UUID     `json:"id"`
	Kind       Kind          `json:"kind"`
	Side       int           `json:"side"`
	Unit       domain.UnitID `json:"unit"`
	Source     *domain.Hex   `json:"source,omitempty"`
	Dest       *domain.Hex   `json:"dest,omitempty"`
	Target     *domain.Hex   `json:"target,omitempty"`
	TargetUnit domain.UnitID `json:"targetUnit,omitempty"`
	Route      *domain.Route `json:"route,omitempty"`
	UnitType   string        `json:"unitType,omitempty"`
	Cost       int           `json:"cost,omitempty"`
	Valid      bool          `json:"valid"`
}

func hexPtr(h domain.Hex) *domain.Hex { return &h }

// RecordOf снимает запись с действия
func RecordOf(a Action) Record {
	rec := Record{
		ID:    a.ID(),
		Kind:  a.Kind(),
		Side:  a.Side(),
		Unit:  a.UnitID(),
		Valid: a.Valid(),
	}
	switch act := a.(type) {
	case *Move:
		route := act.route
		rec.Source, rec.Dest, rec.Route = hexPtr(act.source), hexPtr(act.dest), &route
	case *Attack:
		route := act.route
		rec.Source, rec.Dest, rec.Route = hexPtr(act.source), hexPtr(act.dest), &route
		rec.Target, rec.TargetUnit = hexPtr(act.target), act.targetUnit
	case *Recruit:
		rec.Dest, rec.UnitType, rec.Cost = hexPtr(act.dest), act.typeID, act.cost
	case *Recall:
		rec.Dest = hexPtr(act.dest)
	case *SupposeDead:
		rec.Source = hexPtr(act.hex)
	}
	return rec
}

// Decode восстанавливает действие из записи. Идентификатор сохраняется.
func (r Record) Decode() (Action, error) {
	var a Action
	switch r.Kind {
	case KindMove, KindAttack:
		if r.Route == nil || r.Route.Empty() {
			return nil, fmt.Errorf("decode %s: missing route", r.Kind)
		}
		if r.Kind == KindMove {
			a = NewMove(r.Side, r.Unit, *r.Route)
			break
		}
		if r.Target == nil {
			return nil, fmt.Errorf("decode attack: missing target")
		}
		a = NewAttack(r.Side, r.Unit, *r.Route, *r.Target, r.TargetUnit)
	case KindRecruit:
		if r.Dest == nil || r.UnitType == "" {
			return nil, fmt.Errorf("decode recruit: missing dest or unit type")
		}
		a = NewRecruit(r.Side, r.Unit, r.UnitType, *r.Dest, r.Cost)
	case KindRecall:
		if r.Dest == nil {
			return nil, fmt.Errorf("decode recall: missing dest")
		}
		a = NewRecall(r.Side, r.Unit, *r.Dest)
	case KindSupposeDead:
		if r.Source == nil {
			return nil, fmt.Errorf("decode suppose_dead: missing hex")
		}
		a = NewSupposeDead(r.Side, r.Unit, *r.Source)
	default:
		return nil, fmt.Errorf("decode kind %s: %w", r.Kind, ErrUnknownAction)
	}

	if r.ID != uuid.Nil {
		setID(a, r.ID)
	}
	a.setValid(r.Valid)
	return a, nil
}

func setID(a Action, id uuid.UUID) {
	switch act := a.(type) {
	case *Move:
		act.id = id
	case *Attack:
		act.id = id
	case *Recruit:
		act.id = id
	case *Recall:
		act.id = id
	case *SupposeDead:
		act.id = id
	}
}
