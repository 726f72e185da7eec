package actions

import (
	"fmt"
	"planboard/internal/engine/handlers"
)

func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	team := ctx.State.Team(ctx.Side)
	if team == nil {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Сторона %s подключилась.", team.Name),
		MsgType: "INFO",
	}, nil
}
