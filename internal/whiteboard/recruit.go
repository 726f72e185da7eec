package whiteboard

import (
	"fmt"
	"planboard/internal/domain"
)

// Recruit - найм юнита типа typeID на клетку dest.
// Прототип создается лениво и принадлежит действию, пока оно не вложено в проекцию.
type Recruit struct {
	base
	typeID string
	dest   domain.Hex
	cost   int

	proto  *domain.Unit
	folded bool
}

// NewRecruit создает найм. unit - заранее выданный идентификатор будущего юнита.
func NewRecruit(side int, unit domain.UnitID, typeID string, dest domain.Hex, cost int) *Recruit {
	return &Recruit{
		base:   newBase(side, unit),
		typeID: typeID,
		dest:   dest,
		cost:   cost,
	}
}

func (r *Recruit) Kind() Kind { return KindRecruit }
func (r *Recruit) TypeID() string { return r.typeID }
func (r *Recruit) Dest() domain.Hex { return r.dest }
func (r *Recruit) Cost() int { return r.cost }

// Prototype возвращает прототип, если он создан и сейчас не на карте проекции
func (r *Recruit) Prototype() *domain.Unit {
	if r.folded {
		return nil
	}
	return r.proto
}

// Materialize создает прототип (если его ещё нет) по каталогу состояния.
func (r *Recruit) Materialize(state *domain.State) (*domain.Unit, error) {
	if r.folded {
		return nil, fmt.Errorf("recruit %s: prototype is on the projected map", r.id)
	}
	if r.proto != nil {
		return r.proto, nil
	}
	ut, ok := state.Catalog[r.typeID]
	if !ok {
		return nil, fmt.Errorf("recruit %q: %w", r.typeID, ErrNotRecruitable)
	}
	u := domain.NewUnitFromType(r.unit, r.side, ut)
	u.Pos = r.dest
	u.Movement = 0
	u.Attacks = 0
	r.proto = u
	return u, nil
}

func (r *Recruit) RelatedTo(h domain.Hex) bool {
	return h == r.dest
}

func (r *Recruit) String() string {
	return fmt.Sprintf("recruit %s %q at %s cost=%d valid=%v", r.unit, r.typeID, r.dest, r.cost, r.valid)
}
