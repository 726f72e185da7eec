package whiteboard

import (
	"fmt"
	"planboard/internal/domain"
)

// SupposeDead - "допустим, этот юнит погиб": в проекции юнит снимается с карты
type SupposeDead struct {
	base
	hex domain.Hex
}

func NewSupposeDead(side int, unit domain.UnitID, hex domain.Hex) *SupposeDead {
	return &SupposeDead{
		base: newBase(side, unit),
		hex:  hex,
	}
}

func (s *SupposeDead) Kind() Kind { return KindSupposeDead }
func (s *SupposeDead) Hex() domain.Hex { return s.hex }

func (s *SupposeDead) RelatedTo(h domain.Hex) bool {
	return h == s.hex
}

func (s *SupposeDead) String() string {
	return fmt.Sprintf("suppose_dead %s at %s valid=%v", s.unit, s.hex, s.valid)
}
