package domain

import "strings"

// ActionType - Внутренний числовой идентификатор клиентской команды
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionSelect
	ActionHover
	ActionPlanMove
	ActionPlanAttack
	ActionPlanRecruit
	ActionPlanRecall
	ActionSupposeDead
	ActionBump
	ActionRemove
	ActionExecuteNext
	ActionDeleteLast
	ActionEndTurn
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":         ActionInit,
	"SELECT":       ActionSelect,
	"HOVER":        ActionHover,
	"PLAN_MOVE":    ActionPlanMove,
	"PLAN_ATTACK":  ActionPlanAttack,
	"PLAN_RECRUIT": ActionPlanRecruit,
	"PLAN_RECALL":  ActionPlanRecall,
	"SUPPOSE_DEAD": ActionSupposeDead,
	"BUMP":         ActionBump,
	"REMOVE":       ActionRemove,
	"EXECUTE_NEXT": ActionExecuteNext,
	"DELETE_LAST":  ActionDeleteLast,
	"END_TURN":     ActionEndTurn,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionInit:        "INIT",
	ActionSelect:      "SELECT",
	ActionHover:       "HOVER",
	ActionPlanMove:    "PLAN_MOVE",
	ActionPlanAttack:  "PLAN_ATTACK",
	ActionPlanRecruit: "PLAN_RECRUIT",
	ActionPlanRecall:  "PLAN_RECALL",
	ActionSupposeDead: "SUPPOSE_DEAD",
	ActionBump:        "BUMP",
	ActionRemove:      "REMOVE",
	ActionExecuteNext: "EXECUTE_NEXT",
	ActionDeleteLast:  "DELETE_LAST",
	ActionEndTurn:     "END_TURN",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// MutatesQueue - команда меняет очередь планов стороны
func (a ActionType) MutatesQueue() bool {
	switch a {
	case ActionPlanMove, ActionPlanAttack, ActionPlanRecruit, ActionPlanRecall,
		ActionSupposeDead, ActionBump, ActionRemove, ActionExecuteNext, ActionDeleteLast:
		return true
	}
	return false
}
