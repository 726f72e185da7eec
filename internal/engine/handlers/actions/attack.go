package actions

import (
	"planboard/internal/engine/handlers"
	"planboard/pkg/api"
)

// HandlePlanAttack планирует атаку выбранным юнитом.
// Если From задан, юнит сначала идет туда; иначе бьет с места.
func HandlePlanAttack(ctx handlers.Context, p api.AttackPayload) (handlers.Result, error) {
	if p.From != nil {
		if _, err := ctx.Manager.CreateTempMove(toHex(*p.From)); err != nil {
			return handlers.EmptyResult(), err
		}
	} else {
		ctx.Manager.EraseTempMove()
	}

	atk, err := ctx.Manager.SaveTempAttack(toHex(p.Target))
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.PlanResult(atk), nil
}
