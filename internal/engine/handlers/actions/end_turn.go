package actions

import (
	"fmt"
	"planboard/internal/engine/handlers"
	"planboard/internal/whiteboard"
)

func HandleEndTurn(ctx handlers.Context) (handlers.Result, error) {
	if ctx.State.CurrentSide != ctx.Side {
		return handlers.EmptyResult(), fmt.Errorf("end turn: side %d, current %d: %w",
			ctx.Side, ctx.State.CurrentSide, whiteboard.ErrNotYourTurn)
	}

	// Возвращаем результат для ВСЕХ сторон.
	return handlers.Result{
		Msg:     fmt.Sprintf("%s завершает ход.", ctx.State.Team(ctx.Side).Name),
		MsgType: "TURN",
		EndTurn: true,
	}, nil
}
