package whiteboard

import (
	"fmt"
	"planboard/internal/domain"
	"planboard/internal/systems"
	"planboard/pkg/logger"

	"github.com/sirupsen/logrus"
)

// mapBuilder накладывает на состояние дельты "как если бы планы уже исполнились".
type mapBuilder struct {
	walker
	ov  *overlay
	log *logrus.Entry
}

func newMapBuilder(state *domain.State, queues []*SideActions, viewer int) *mapBuilder {
	return &mapBuilder{
		walker: walker{state: state, queues: queues, viewer: viewer},
		ov:     newOverlay(state),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "mapbuilder",
			"viewer":    viewer,
		}),
	}
}

// preBuild: снимаем невидимых для viewer юнитов, затем восстанавливаем
// запас хода всем юнитам сторон, которые сейчас не ходят.
func (b *mapBuilder) preBuild() {
	state := b.state
	visible := systems.VisibleHexes(state, b.viewer)

	for _, u := range state.Board.Units() {
		if systems.CanSee(state, b.viewer, u, visible) {
			continue
		}
		if err := b.ov.do(&hideUnit{id: u.ID}); err != nil {
			b.log.WithError(err).Warn("Failed to hide unit.")
		}
	}

	for _, u := range state.Board.Units() {
		if u.Side == state.CurrentSide || u.Movement == u.MaxMovement {
			continue
		}
		if err := b.ov.do(&resetMovement{id: u.ID}); err != nil {
			b.log.WithError(err).Warn("Failed to reset movement.")
		}
	}
}

// fold вкладывает одно действие в проекцию
func (b *mapBuilder) fold(sa *SideActions, a Action) error {
	switch act := a.(type) {
	case *Move:
		return b.foldMove(act)
	case *Attack:
		return b.foldMove(&act.Move)
	case *Recruit:
		if err := b.ov.do(&placeRecruit{r: act}); err != nil {
			return err
		}
		return b.ov.do(&commitGold{queue: sa, amount: act.cost})
	case *Recall:
		team, err := b.state.MustTeam(act.side)
		if err != nil {
			return err
		}
		if err := b.ov.do(&placeRecall{rc: act}); err != nil {
			return err
		}
		return b.ov.do(&commitGold{queue: sa, amount: team.RecallCost})
	case *SupposeDead:
		u := b.state.Board.UnitAt(act.hex)
		if u == nil || u.ID != act.unit {
			return fmt.Errorf("suppose dead %s: %w", act.unit, ErrNoUnit)
		}
		return b.ov.do(&hideUnit{id: act.unit})
	default:
		return fmt.Errorf("fold: unhandled action kind %s", a.Kind())
	}
}

func (b *mapBuilder) foldMove(m *Move) error {
	return b.ov.do(&relocateUnit{
		id:   m.unit,
		from: m.source,
		to:   m.dest,
		cost: m.route.Cost,
	})
}

// visitProjection - обход при построении проекции: только читает валидность
func (b *mapBuilder) visitProjection(sa *SideActions, _ int, a Action) (bool, error) {
	if !a.Valid() {
		return false, nil
	}
	if err := b.fold(sa, a); err != nil {
		// Несогласованное действие пропускается как невалидное; разбираться будет валидатор
		b.log.WithError(err).WithField("action", a.String()).Debug("Skipping inconsistent action.")
		return false, nil
	}
	return true, nil
}

// build строит проекцию. Никогда не падает.
func (b *mapBuilder) build() {
	b.preBuild()
	_ = b.walk(true, b.visitProjection, settleTurns)
	b.log.WithField("deltas", b.ov.size()).Debug("Projection built.")
}

// teardown откатывает все дельты в обратном порядке
func (b *mapBuilder) teardown() error {
	err := b.ov.rollback()
	if err != nil {
		b.log.WithError(err).Error("Projection teardown failed.")
	}
	return err
}
