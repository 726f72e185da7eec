// Package whiteboard - планирование ходов: очередь действий каждой стороны,
// временная проекция карты "как если бы всё запланированное уже случилось"
// и валидатор, который поддерживает очередь в согласованном состоянии.
package whiteboard

import (
	"fmt"
	"planboard/internal/domain"
	"strings"

	"github.com/google/uuid"
)

// Kind - вид запланированного действия
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMove
	KindAttack
	KindRecruit
	KindRecall
	KindSupposeDead
)

var kindToString = map[Kind]string{
	KindMove:        "move",
	KindAttack:      "attack",
	KindRecruit:     "recruit",
	KindRecall:      "recall",
	KindSupposeDead: "suppose_dead",
}

var kindStringTo = map[string]Kind{
	"move":         KindMove,
	"attack":       KindAttack,
	"recruit":      KindRecruit,
	"recall":       KindRecall,
	"suppose_dead": KindSupposeDead,
}

func (k Kind) String() string {
	if s, ok := kindToString[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind конвертирует строку в Kind
func ParseKind(s string) Kind {
	if k, ok := kindStringTo[strings.ToLower(s)]; ok {
		return k
	}
	return KindUnknown
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(data []byte) error {
	parsed := ParseKind(string(data))
	if parsed == KindUnknown {
		return fmt.Errorf("unknown action kind %q", data)
	}
	*k = parsed
	return nil
}

// Action - запланированное действие. Набор реализаций закрыт:
// *Move, *Attack, *Recruit, *Recall, *SupposeDead.
type Action interface {
	ID() uuid.UUID
	Kind() Kind
	Side() int
	// UnitID - юнит, к которому относится действие. Живой юнит ищется через Board.Unit.
	UnitID() domain.UnitID
	// Valid пишет только валидатор
	Valid() bool
	// RelatedTo - действие затрагивает клетку (для подсветки)
	RelatedTo(h domain.Hex) bool
	String() string

	setValid(bool)
	sealed()
}

// base - общие поля всех действий
type base struct {
	id    uuid.UUID
	side  int
	unit  domain.UnitID
	valid bool
}

func newBase(side int, unit domain.UnitID) base {
	return base{id: uuid.New(), side: side, unit: unit, valid: true}
}

func (b *base) ID() uuid.UUID { return b.id }
func (b *base) Side() int { return b.side }
func (b *base) UnitID() domain.UnitID { return b.unit }
func (b *base) Valid() bool { return b.valid }
func (b *base) setValid(v bool) { b.valid = v }
func (b *base) sealed() {}

// moveOf возвращает часть "перемещение" для Move и Attack
func moveOf(a Action) *Move {
	switch act := a.(type) {
	case *Move:
		return act
	case *Attack:
		return &act.Move
	}
	return nil
}
