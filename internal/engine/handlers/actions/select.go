package actions

import (
	"planboard/internal/domain"
	"planboard/internal/engine/handlers"
	"planboard/pkg/api"
)

// HandleSelect выбирает юнита своей стороны. Пустой UnitID снимает выделение.
func HandleSelect(ctx handlers.Context, p api.UnitPayload) (handlers.Result, error) {
	id, err := domain.ParseUnitID(p.UnitID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if id.IsNil() {
		ctx.Manager.DeselectUnit()
		return handlers.EmptyResult(), nil
	}
	if err := ctx.Manager.SelectUnit(id); err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.EmptyResult(), nil
}

// HandleHover - клетка под курсором. С выбранным юнитом строит временный маршрут.
func HandleHover(ctx handlers.Context, p api.HexPayload) (handlers.Result, error) {
	hex := toHex(p)
	ctx.Manager.HoverHex(hex)

	if ctx.Manager.Selected().IsNil() {
		return handlers.EmptyResult(), nil
	}
	// Недостижимая клетка просто гасит стрелку
	if _, err := ctx.Manager.CreateTempMove(hex); err != nil {
		ctx.Manager.EraseTempMove()
	}
	return handlers.EmptyResult(), nil
}

func toHex(p api.HexPayload) domain.Hex {
	return domain.Hex{Q: p.Q, R: p.R}
}
