package whiteboard

import (
	"github.com/google/uuid"
)

// NetCommandType - вид уведомления синхронизации очередей между союзниками
type NetCommandType string

const (
	NetInsert    NetCommandType = "insert"
	NetReplace   NetCommandType = "replace"
	NetRemove    NetCommandType = "remove"
	NetBumpLater NetCommandType = "bump_later"
	NetClear     NetCommandType = "clear"
)

// NetCommand - изменение очереди стороны Side, отправляемое союзникам.
// Действия адресуются по ActionID; Index нужен только для insert.
type NetCommand struct {
	ID       uuid.UUID      `json:"id"`
	Type     NetCommandType `json:"type"`
	Side     int            `json:"side"`
	ActionID uuid.UUID      `json:"actionId,omitempty"`
	Index    int            `json:"index,omitempty"`
	Action   *Record        `json:"action,omitempty"`
}

// Notifier доставляет исходящие уведомления (транспорт вне пакета)
type Notifier interface {
	Notify(side int, cmds []NetCommand)
}

// NotifierFunc - адаптер функции к Notifier
type NotifierFunc func(side int, cmds []NetCommand)

func (f NotifierFunc) Notify(side int, cmds []NetCommand) { f(side, cmds) }

func newNetCommand(t NetCommandType, side int) NetCommand {
	return NetCommand{ID: uuid.New(), Type: t, Side: side}
}

func netInsert(a Action, index int) NetCommand {
	cmd := newNetCommand(NetInsert, a.Side())
	rec := RecordOf(a)
	cmd.ActionID, cmd.Index, cmd.Action = a.ID(), index, &rec
	return cmd
}

func netReplace(a Action) NetCommand {
	cmd := newNetCommand(NetReplace, a.Side())
	rec := RecordOf(a)
	cmd.ActionID, cmd.Action = a.ID(), &rec
	return cmd
}

func netRemove(a Action) NetCommand {
	cmd := newNetCommand(NetRemove, a.Side())
	cmd.ActionID = a.ID()
	return cmd
}

func netBumpLater(a Action) NetCommand {
	cmd := newNetCommand(NetBumpLater, a.Side())
	cmd.ActionID = a.ID()
	return cmd
}

func netClear(side int) NetCommand {
	return newNetCommand(NetClear, side)
}
