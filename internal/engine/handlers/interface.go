package handlers

import (
	"encoding/json"
	"planboard/internal/domain"
	"planboard/internal/whiteboard"
)

// Context передает хендлеру состояние партии и менеджер планов стороны.
// Хендлер работает только через Manager: очереди напрямую не трогает.
type Context struct {
	State   *domain.State
	Manager *whiteboard.Manager
	Side    int // Сторона, приславшая команду
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи сессии напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, PLAN, COMBAT, TURN)

	// StateChanged - изменилось реальное состояние: нужно перевалидировать планы всех сторон
	StateChanged bool

	// EndTurn - сторона завершила ход
	EndTurn bool
}

// HandlerFunc - это контракт для любой команды (PLAN_MOVE, BUMP, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// PlanResult - типовой ответ на созданный план
func PlanResult(a whiteboard.Action) Result {
	return Result{Msg: "Запланировано: " + a.String(), MsgType: "PLAN"}
}
