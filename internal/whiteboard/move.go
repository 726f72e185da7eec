package whiteboard

import (
	"fmt"
	"planboard/internal/domain"
)

// Move - перемещение юнита по маршруту
type Move struct {
	base
	source domain.Hex
	dest   domain.Hex
	route  domain.Route
	turn   int // Ожидаемый номер хода, только для отображения
}

// NewMove создает перемещение по найденному маршруту
func NewMove(side int, unit domain.UnitID, route domain.Route) *Move {
	m := &Move{
		base:   newBase(side, unit),
		source: domain.NullHex,
		dest:   domain.NullHex,
		route:  route,
	}
	if !route.Empty() {
		m.source = route.Steps[0]
		m.dest = route.Dest()
	}
	return m
}

func (m *Move) Kind() Kind { return KindMove }
func (m *Move) Source() domain.Hex { return m.source }
func (m *Move) Dest() domain.Hex { return m.dest }
func (m *Move) Route() domain.Route { return m.route }
func (m *Move) TurnNumber() int { return m.turn }
func (m *Move) setTurnNumber(turn int) { m.turn = turn }
func (m *Move) setRoute(r domain.Route) { m.route = r }

// Reroute заменяет маршрут после частичного исполнения: юнит уже стоит в route.Steps[0].
func (m *Move) Reroute(route domain.Route) {
	if route.Empty() {
		return
	}
	m.route = route
	m.source = route.Steps[0]
}

// IsZeroLength - перемещение на месте (например, атака без передвижения)
func (m *Move) IsZeroLength() bool {
	return m.source == m.dest
}

func (m *Move) RelatedTo(h domain.Hex) bool {
	return h == m.source || h == m.dest
}

func (m *Move) String() string {
	return fmt.Sprintf("move %s %s->%s cost=%d valid=%v", m.unit, m.source, m.dest, m.route.Cost, m.valid)
}

// Attack - перемещение с последующей атакой соседней клетки
type Attack struct {
	Move
	target     domain.Hex
	targetUnit domain.UnitID // Для отображения; цель проверяется по клетке
}

// NewAttack создает атаку с клетки route.Dest() по клетке target
func NewAttack(side int, unit domain.UnitID, route domain.Route, target domain.Hex, targetUnit domain.UnitID) *Attack {
	return &Attack{
		Move:       *NewMove(side, unit, route),
		target:     target,
		targetUnit: targetUnit,
	}
}

func (a *Attack) Kind() Kind { return KindAttack }
func (a *Attack) Target() domain.Hex { return a.target }
func (a *Attack) TargetUnit() domain.UnitID { return a.targetUnit }

func (a *Attack) RelatedTo(h domain.Hex) bool {
	return h == a.target || a.Move.RelatedTo(h)
}

func (a *Attack) String() string {
	return fmt.Sprintf("attack %s %s->%s target=%s valid=%v", a.unit, a.source, a.dest, a.target, a.valid)
}
