package engine

import "errors"

var (
	ErrUnitMoved     = errors.New("unit is not on the planned source hex")
	ErrNoAttacksLeft = errors.New("unit has no attacks left")
	ErrUnknownToken  = errors.New("unknown side token")
	ErrSideMismatch  = errors.New("plan snapshot does not match sides")
)
