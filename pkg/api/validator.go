package api

import (
	"errors"
	"strconv"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p HexPayload) Validate() error {
	if p.Q < 0 || p.R < 0 {
		return errors.New("hex coordinates cannot be negative")
	}
	return nil
}

func (p AttackPayload) Validate() error {
	if err := p.Target.Validate(); err != nil {
		return err
	}
	if p.From != nil {
		if err := p.From.Validate(); err != nil {
			return err
		}
		if *p.From == p.Target {
			return errors.New("cannot attack own hex")
		}
	}
	return nil
}

func (p UnitPayload) Validate() error {
	if p.UnitID == "" {
		return nil
	}
	return validateUnitID(p.UnitID)
}

func (p RecruitPayload) Validate() error {
	if p.Type == "" {
		return errors.New("type is required")
	}
	return p.Hex.Validate()
}

func (p RecallPayload) Validate() error {
	if p.UnitID == "" {
		return errors.New("unitId is required")
	}
	if err := validateUnitID(p.UnitID); err != nil {
		return err
	}
	return p.Hex.Validate()
}

func (p BumpPayload) Validate() error {
	if p.Index < 0 {
		return errors.New("index cannot be negative")
	}
	if p.Direction != -1 && p.Direction != 1 {
		return errors.New("direction must be -1 or 1")
	}
	return nil
}

func (p ActionRefPayload) Validate() error {
	if p.Index < 0 {
		return errors.New("index cannot be negative")
	}
	return nil
}

func validateUnitID(id string) error {
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return errors.New("unitId must be a decimal number")
	}
	return nil
}
