package whiteboard

import (
	"fmt"
	"planboard/internal/domain"
)

// Recall - отзыв ветерана из списка отзыва стороны на клетку dest
type Recall struct {
	base
	dest domain.Hex
}

func NewRecall(side int, unit domain.UnitID, dest domain.Hex) *Recall {
	return &Recall{
		base: newBase(side, unit),
		dest: dest,
	}
}

func (r *Recall) Kind() Kind { return KindRecall }
func (r *Recall) Dest() domain.Hex { return r.dest }

func (r *Recall) RelatedTo(h domain.Hex) bool {
	return h == r.dest
}

func (r *Recall) String() string {
	return fmt.Sprintf("recall %s at %s valid=%v", r.unit, r.dest, r.valid)
}
