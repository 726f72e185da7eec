package actions

import (
	"planboard/internal/domain"
	"planboard/internal/engine/handlers"
	"planboard/pkg/api"
)

func HandlePlanRecruit(ctx handlers.Context, p api.RecruitPayload) (handlers.Result, error) {
	r, err := ctx.Manager.SaveRecruit(p.Type, toHex(p.Hex))
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.PlanResult(r), nil
}

func HandlePlanRecall(ctx handlers.Context, p api.RecallPayload) (handlers.Result, error) {
	id, err := domain.ParseUnitID(p.UnitID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	r, err := ctx.Manager.SaveRecall(id, toHex(p.Hex))
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.PlanResult(r), nil
}
