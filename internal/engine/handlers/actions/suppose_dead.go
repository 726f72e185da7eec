package actions

import (
	"planboard/internal/engine/handlers"
	"planboard/pkg/api"
)

// HandleSupposeDead - "допустим, юнит на клетке погиб"
func HandleSupposeDead(ctx handlers.Context, p api.HexPayload) (handlers.Result, error) {
	sd, err := ctx.Manager.SaveSupposeDead(toHex(p))
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.PlanResult(sd), nil
}
