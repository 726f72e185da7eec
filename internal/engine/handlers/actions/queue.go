package actions

import (
	"errors"
	"fmt"
	"planboard/internal/engine/handlers"
	"planboard/internal/whiteboard"
	"planboard/pkg/api"
)

// HandleBump сдвигает действие своей очереди на одну позицию
func HandleBump(ctx handlers.Context, p api.BumpPayload) (handlers.Result, error) {
	var err error
	if p.Direction < 0 {
		err = ctx.Manager.BumpEarlier(p.Index)
	} else {
		err = ctx.Manager.BumpLater(p.Index)
	}
	return handlers.EmptyResult(), err
}

func HandleRemove(ctx handlers.Context, p api.ActionRefPayload) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Manager.Remove(p.Index)
}

func HandleDeleteLast(ctx handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Manager.DeleteLast()
}

// HandleExecuteNext исполняет первое действие очереди по-настоящему
func HandleExecuteNext(ctx handlers.Context) (handlers.Result, error) {
	a, err := ctx.Manager.ExecuteNext()
	if a == nil || errors.Is(err, whiteboard.ErrActionInvalid) {
		return handlers.EmptyResult(), err
	}

	res := handlers.Result{StateChanged: true, MsgType: "INFO"}
	switch {
	case err != nil:
		res.Msg = fmt.Sprintf("Не удалось исполнить: %s", a)
	case ctx.Manager.Queue(ctx.Side).IndexOf(a) >= 0:
		res.Msg = fmt.Sprintf("Исполнено частично: %s", a)
	default:
		res.Msg = fmt.Sprintf("Исполнено: %s", a)
	}
	return res, err
}
