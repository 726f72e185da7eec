package systems

import (
	"planboard/internal/domain"
	"planboard/pkg/logger"

	"github.com/sirupsen/logrus"
)

// defaultVisionBonus - если у юнита не задан Vision, он видит на MaxMovement+1
const defaultVisionBonus = 1

func visionRadius(u *domain.Unit) int {
	if u.Vision > 0 {
		return u.Vision
	}
	return u.MaxMovement + defaultVisionBonus
}

// VisibleHexes возвращает множество клеток, которые видит союз стороны side.
// Союзники делят обзор. Горы и лес обзор не перекрывают.
func VisibleHexes(state *domain.State, side int) map[domain.Hex]bool {
	board := state.Board
	visible := make(map[domain.Hex]bool)

	observers := 0
	for _, u := range board.Units() {
		if u.Side != side && state.AreEnemies(side, u.Side) {
			continue
		}
		observers++
		radius := visionRadius(u)
		for dq := -radius; dq <= radius; dq++ {
			for dr := max(-radius, -dq-radius); dr <= min(radius, -dq+radius); dr++ {
				h := domain.Hex{Q: u.Pos.Q + dq, R: u.Pos.R + dr}
				if board.InBounds(h) {
					visible[h] = true
				}
			}
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component":     "vision_system",
		"side":          side,
		"observers":     observers,
		"visible_tiles": len(visible),
	}).Debug("Vision calculation complete.")

	return visible
}

// CanSee - видит ли сторона viewer юнита u. Свои и союзные юниты видны всегда.
func CanSee(state *domain.State, viewer int, u *domain.Unit, visible map[domain.Hex]bool) bool {
	if u.Side == viewer || !state.AreEnemies(viewer, u.Side) {
		return true
	}
	if visible == nil {
		visible = VisibleHexes(state, viewer)
	}
	return visible[u.Pos]
}
