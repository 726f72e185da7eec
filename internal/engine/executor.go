package engine

import (
	"fmt"
	"planboard/internal/domain"
	"planboard/internal/systems"
	"planboard/internal/whiteboard"
	"planboard/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ReportFunc получает сообщения для игрового лога (бой, найм)
type ReportFunc func(text, logType string)

// Executor применяет запланированные действия к авторитетному состоянию.
// Реализует whiteboard.Executor.
type Executor struct {
	report ReportFunc
	log    *logrus.Entry
}

func NewExecutor(report ReportFunc) *Executor {
	if report == nil {
		report = func(string, string) {}
	}
	return &Executor{
		report: report,
		log:    logger.Log.WithField("component", "executor"),
	}
}

// Execute возвращает finished=false, если перемещение прервано и остаток маршрута ещё впереди
func (e *Executor) Execute(state *domain.State, a whiteboard.Action) (bool, error) {
	e.log.WithFields(logrus.Fields{
		"side":   a.Side(),
		"action": a.String(),
	}).Debug("Executing action.")

	switch act := a.(type) {
	case *whiteboard.Move:
		return e.move(state, act)
	case *whiteboard.Attack:
		return e.attack(state, act)
	case *whiteboard.Recruit:
		return true, e.recruit(state, act)
	case *whiteboard.Recall:
		return true, e.recall(state, act)
	case *whiteboard.SupposeDead:
		return false, fmt.Errorf("%s: %w", a, whiteboard.ErrNotExecutable)
	default:
		return false, fmt.Errorf("execute kind %s: %w", a.Kind(), whiteboard.ErrUnknownAction)
	}
}

// move ведет юнита по маршруту, пока хватает очков движения.
// Через союзников проходит, но останавливается только на свободной клетке.
// Враг на пути (не видимый при планировании) прерывает движение.
func (e *Executor) move(state *domain.State, mv *whiteboard.Move) (bool, error) {
	board := state.Board
	u := board.Unit(mv.UnitID())
	if u == nil {
		return false, fmt.Errorf("move %s: %w", mv.UnitID(), domain.ErrUnitNotFound)
	}
	if u.Pos != mv.Source() {
		return false, fmt.Errorf("move %s at %s, planned from %s: %w", u.ID, u.Pos, mv.Source(), ErrUnitMoved)
	}

	steps := mv.Route().Steps
	last, lastSpent, spent := 0, 0, 0
	for i := 1; i < len(steps); i++ {
		c := systems.StepCost(board, steps[i])
		if spent+c > u.Movement {
			break
		}
		other := board.UnitAt(steps[i])
		if other != nil && state.AreEnemies(u.Side, other.Side) {
			e.log.WithFields(logrus.Fields{
				"unit_id": u.ID,
				"hex":     steps[i],
			}).Info("Move interrupted by enemy unit.")
			break
		}
		spent += c
		if other == nil {
			last, lastSpent = i, spent
		}
	}

	if last > 0 {
		if err := board.Relocate(u.ID, steps[last]); err != nil {
			return false, err
		}
		u.Movement -= lastSpent
	}

	if last == len(steps)-1 {
		return true, nil
	}

	// Остаток маршрута - на следующие ходы
	mv.Reroute(domain.Route{
		Steps: append([]domain.Hex(nil), steps[last:]...),
		Cost:  systems.RouteCost(board, steps[last:]),
	})
	return false, nil
}

func (e *Executor) attack(state *domain.State, atk *whiteboard.Attack) (bool, error) {
	board := state.Board
	attacker := board.Unit(atk.UnitID())
	if attacker == nil {
		return false, fmt.Errorf("attack by %s: %w", atk.UnitID(), domain.ErrUnitNotFound)
	}
	if attacker.Attacks <= 0 {
		return false, fmt.Errorf("attack by %s: %w", attacker.ID, ErrNoAttacksLeft)
	}

	finished, err := e.move(state, &atk.Move)
	if err != nil || !finished {
		return finished, err
	}

	defender := board.UnitAt(atk.Target())
	if defender == nil || !state.AreEnemies(attacker.Side, defender.Side) || !attacker.Pos.IsAdjacent(defender.Pos) {
		return false, fmt.Errorf("attack %s from %s: %w", atk.Target(), attacker.Pos, whiteboard.ErrInvalidTarget)
	}

	res := systems.ResolveAttack(attacker, defender)
	e.report(res.Message, "COMBAT")

	if res.DefenderDied {
		if _, err := board.Extract(defender.ID); err != nil {
			return true, err
		}
	}
	if res.AttackerDied {
		if _, err := board.Extract(attacker.ID); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (e *Executor) recruit(state *domain.State, r *whiteboard.Recruit) error {
	team, err := state.MustTeam(r.Side())
	if err != nil {
		return err
	}
	if _, ok := state.Recruitable(r.Side(), r.TypeID()); !ok {
		return fmt.Errorf("recruit %q: %w", r.TypeID(), whiteboard.ErrNotRecruitable)
	}
	if err := checkPlacement(state, r.Side(), r.Dest()); err != nil {
		return fmt.Errorf("recruit %q: %w", r.TypeID(), err)
	}
	if r.Cost() > team.Gold {
		return fmt.Errorf("recruit %q costs %d, gold %d: %w", r.TypeID(), r.Cost(), team.Gold, whiteboard.ErrInsufficientGold)
	}

	proto, err := r.Materialize(state)
	if err != nil {
		return err
	}
	u := proto.Clone()
	if err := state.Board.Insert(u); err != nil {
		return err
	}
	team.Gold -= r.Cost()

	e.report(fmt.Sprintf("%s нанимает %s.", team.Name, u.Name), "INFO")
	return nil
}

func (e *Executor) recall(state *domain.State, r *whiteboard.Recall) error {
	team, err := state.MustTeam(r.Side())
	if err != nil {
		return err
	}
	if team.RecallIndex(r.UnitID()) < 0 {
		return fmt.Errorf("recall %s: %w", r.UnitID(), whiteboard.ErrNotInRecallList)
	}
	if err := checkPlacement(state, r.Side(), r.Dest()); err != nil {
		return fmt.Errorf("recall %s: %w", r.UnitID(), err)
	}
	if team.RecallCost > team.Gold {
		return fmt.Errorf("recall costs %d, gold %d: %w", team.RecallCost, team.Gold, whiteboard.ErrInsufficientGold)
	}

	u, idx, _ := team.TakeRecall(r.UnitID())
	u.Pos = r.Dest()
	u.Movement = 0
	u.Attacks = 0
	if err := state.Board.Insert(u); err != nil {
		u.Pos = domain.NullHex
		team.PutRecall(u, idx)
		return err
	}
	team.Gold -= team.RecallCost

	e.report(fmt.Sprintf("%s отзывает %s.", team.Name, u.Name), "INFO")
	return nil
}

// checkPlacement - клетка свободна и лидер стороны может на неё нанимать
func checkPlacement(state *domain.State, side int, hex domain.Hex) error {
	if !state.Board.IsFree(hex) {
		return fmt.Errorf("at %s: %w", hex, whiteboard.ErrHexOccupied)
	}
	if systems.FindRecruiter(state.Board, side, hex) == nil {
		return fmt.Errorf("at %s: %w", hex, whiteboard.ErrNoRecruiter)
	}
	return nil
}
