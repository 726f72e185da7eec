package domain

import "errors"

var (
	ErrOutOfBounds   = errors.New("hex out of bounds")
	ErrHexOccupied   = errors.New("hex occupied")
	ErrUnitNotFound  = errors.New("unit not found")
	ErrDuplicateUnit = errors.New("unit already on board")
	ErrUnknownSide   = errors.New("unknown side")
)
