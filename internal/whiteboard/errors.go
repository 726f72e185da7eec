package whiteboard

import "errors"

// Нарушения инвариантов очереди/проекции
var (
	ErrProjectionActive = errors.New("queue mutated while projection is active")
	ErrBadPosition      = errors.New("no action at position")
	ErrUnbalancedPop    = errors.New("projection pop without matching push")
	ErrWrongSide        = errors.New("action belongs to another side")
	ErrUnknownAction    = errors.New("unknown action")
	ErrAlreadyQueued    = errors.New("action is already queued")
)

// Отказы при создании плана (видны пользователю)
var (
	ErrInsufficientGold = errors.New("insufficient gold")
	ErrNoPath           = errors.New("no path to destination")
	ErrHexOccupied      = errors.New("destination hex occupied")
	ErrNotRecruitable   = errors.New("unit type is not recruitable")
	ErrNotInRecallList  = errors.New("unit is not in recall list")
	ErrNoSelection      = errors.New("no unit selected")
	ErrNoRecruiter      = errors.New("no leader can recruit on this hex")
	ErrNoUnit           = errors.New("no unit at hex")
	ErrInvalidTarget    = errors.New("invalid attack target")
)

// Ошибки исполнения
var (
	ErrNotYourTurn   = errors.New("side does not hold the turn")
	ErrActionInvalid = errors.New("action is not valid")
	ErrNotExecutable = errors.New("action kind cannot be executed")
)
