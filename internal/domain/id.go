package domain

import (
	"fmt"
	"strconv"
)

// UnitID - 64-битный стабильный идентификатор юнита.
//
// Юниты перемещаются, временно убираются с карты и создаются заново при
// построении проекции, поэтому планы ссылаются на них только по UnitID,
// а живой *Unit каждый раз ищется через Board.Unit.
//
// Формат битов (от старших к младшим):
//
//	[ Side (8) | Generation (16) | Index (32) ]
//
// Где:
//   - Side - сторона, создавшая юнита (1..255)
//   - Generation - версия (зарезервировано под повторное использование индексов)
//   - Index - порядковый номер в рамках стороны
type UnitID uint64

// NilUnitID - нулевой идентификатор (юнит отсутствует).
const NilUnitID UnitID = 0

const (
	bitsIndex = 32
	bitsGen   = 16
	bitsSide  = 8

	shiftGen  = bitsIndex
	shiftSide = bitsIndex + bitsGen

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskSide  = (1 << bitsSide) - 1
)

// PackUnitID собирает UnitID из составных частей.
// Проверок диапазонов нет, входные данные считаются валидными.
func PackUnitID(side uint8, gen uint16, index uint32) UnitID {
	return UnitID(
		(uint64(side) << shiftSide) |
			(uint64(gen) << shiftGen) |
			uint64(index),
	)
}

// Index возвращает порядковый номер юнита.
func (id UnitID) Index() uint32 {
	return uint32(id & maskIndex)
}

// Generation возвращает поколение идентификатора.
func (id UnitID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

// Side возвращает сторону, выдавшую идентификатор.
func (id UnitID) Side() uint8 {
	return uint8((id >> shiftSide) & maskSide)
}

// IsNil проверяет, является ли идентификатор нулевым.
func (id UnitID) IsNil() bool {
	return id == NilUnitID
}

// String для логов: [side=1 gen=0 idx=3]
func (id UnitID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[side=%d gen=%d idx=%d]", id.Side(), id.Generation(), id.Index())
}

// MarshalJSON сериализует UnitID строкой, так как JS теряет точность для uint64.
func (id UnitID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON принимает как строковое, так и числовое представление.
func (id *UnitID) UnmarshalJSON(data []byte) error {
	s := string(data)

	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "null" {
		*id = NilUnitID
		return nil
	}

	v, err := ParseUnitID(s)
	if err != nil {
		return err
	}

	*id = v
	return nil
}

// ParseUnitID разбирает десятичное представление. Пустая строка - NilUnitID.
func ParseUnitID(s string) (UnitID, error) {
	if s == "" {
		return NilUnitID, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilUnitID, fmt.Errorf("parse unit id %q: %w", s, err)
	}
	return UnitID(v), nil
}
