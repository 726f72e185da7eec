package engine

import (
	"planboard/internal/domain"
	"planboard/internal/systems"
	"planboard/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TurnManager manages the side rotation of the match.
type TurnManager struct {
	state *domain.State
}

func NewTurnManager(state *domain.State) *TurnManager {
	return &TurnManager{state: state}
}

// Current returns the side holding the turn.
func (tm *TurnManager) Current() int {
	return tm.state.CurrentSide
}

// Turn returns the turn number (1-based).
func (tm *TurnManager) Turn() int {
	return tm.state.Turn
}

// Advance passes the turn to the next side. Wrapping past the last side starts a new turn.
// The incoming side gets its movement and attacks back.
func (tm *TurnManager) Advance() (side int, newTurn bool) {
	n := len(tm.state.Teams)
	if n == 0 {
		return 0, false
	}

	side = (tm.state.CurrentSide + 1) % n
	if side == 0 {
		tm.state.Turn++
		newTurn = true
	}
	tm.state.CurrentSide = side
	refreshed := systems.RefreshUnits(tm.state.Board, side)

	logger.Log.WithFields(logrus.Fields{
		"component": "turn_manager",
		"side":      side,
		"turn":      tm.state.Turn,
		"refreshed": refreshed,
	}).Info("Turn passed.")
	return side, newTurn
}

// DebugDump возвращает снимок ротации для отладки
func (tm *TurnManager) DebugDump() []map[string]interface{} {
	// Инициализируем как пустой слайс, а не nil. Тогда в JSON это будет "[]", а не "null"
	result := make([]map[string]interface{}, 0)

	for pos, side := range tm.state.TurnOrder(tm.state.CurrentSide) {
		team := tm.state.Team(side)
		result = append(result, map[string]interface{}{
			"side":     side,
			"name":     team.Name,
			"alliance": team.Alliance,
			"gold":     team.Gold,
			"units":    len(tm.state.Board.UnitsOf(side)),
			"order":    pos,
			"current":  pos == 0,
		})
	}
	return result
}
