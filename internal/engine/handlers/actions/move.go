package actions

import (
	"planboard/internal/engine/handlers"
	"planboard/pkg/api"
)

// HandlePlanMove ставит в очередь перемещение выбранного юнита на клетку
func HandlePlanMove(ctx handlers.Context, p api.HexPayload) (handlers.Result, error) {
	if _, err := ctx.Manager.CreateTempMove(toHex(p)); err != nil {
		return handlers.EmptyResult(), err
	}
	mv, err := ctx.Manager.SaveTempMove()
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.PlanResult(mv), nil
}
