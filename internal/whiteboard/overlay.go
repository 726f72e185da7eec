package whiteboard

import (
	"errors"
	"fmt"
	"planboard/internal/domain"
)

// delta - одно обратимое изменение состояния.
// apply либо выполняется целиком, либо не меняет состояние.
type delta interface {
	apply(s *domain.State) error
	revert(s *domain.State) error
}

// overlay - журнал применённых дельт. Откат строго в обратном порядке.
type overlay struct {
	state *domain.State
	log   []delta
}

func newOverlay(state *domain.State) *overlay {
	return &overlay{state: state}
}

// do применяет дельту и записывает её в журнал
func (o *overlay) do(d delta) error {
	if err := d.apply(o.state); err != nil {
		return err
	}
	o.log = append(o.log, d)
	return nil
}

func (o *overlay) size() int {
	return len(o.log)
}

// rollback отменяет все дельты от последней к первой
func (o *overlay) rollback() error {
	var errs []error
	for i := len(o.log) - 1; i >= 0; i-- {
		if err := o.log[i].revert(o.state); err != nil {
			errs = append(errs, err)
		}
	}
	o.log = nil
	return errors.Join(errs...)
}

// hideUnit снимает юнита с карты (невидимый юнит или "допустим, погиб")
type hideUnit struct {
	id   domain.UnitID
	unit *domain.Unit
}

func (d *hideUnit) apply(s *domain.State) error {
	u, err := s.Board.Extract(d.id)
	if err != nil {
		return err
	}
	d.unit = u
	return nil
}

func (d *hideUnit) revert(s *domain.State) error {
	return s.Board.Insert(d.unit)
}

// resetMovement восстанавливает юниту полный запас хода
type resetMovement struct {
	id  domain.UnitID
	old int
}

func (d *resetMovement) apply(s *domain.State) error {
	u := s.Board.Unit(d.id)
	if u == nil {
		return fmt.Errorf("reset movement %s: %w", d.id, domain.ErrUnitNotFound)
	}
	d.old = u.Movement
	u.Movement = u.MaxMovement
	return nil
}

func (d *resetMovement) revert(s *domain.State) error {
	u := s.Board.Unit(d.id)
	if u == nil {
		return fmt.Errorf("restore movement %s: %w", d.id, domain.ErrUnitNotFound)
	}
	u.Movement = d.old
	return nil
}

// relocateUnit перемещает юнита и списывает стоимость маршрута
type relocateUnit struct {
	id       domain.UnitID
	from, to domain.Hex
	cost     int
	old      int
}

func (d *relocateUnit) apply(s *domain.State) error {
	u := s.Board.Unit(d.id)
	if u == nil {
		return fmt.Errorf("relocate %s: %w", d.id, domain.ErrUnitNotFound)
	}
	if u.Pos != d.from {
		return fmt.Errorf("relocate %s: unit at %s, expected %s", d.id, u.Pos, d.from)
	}
	if err := s.Board.Relocate(d.id, d.to); err != nil {
		return err
	}
	d.old = u.Movement
	u.Movement = max(0, u.Movement-d.cost)
	return nil
}

func (d *relocateUnit) revert(s *domain.State) error {
	if err := s.Board.Relocate(d.id, d.from); err != nil {
		return err
	}
	s.Board.Unit(d.id).Movement = d.old
	return nil
}

// placeRecruit ставит прототип найма на карту; карта владеет им до отката
type placeRecruit struct {
	r *Recruit
}

func (d *placeRecruit) apply(s *domain.State) error {
	proto, err := d.r.Materialize(s)
	if err != nil {
		return err
	}
	proto.Pos = d.r.dest
	if err := s.Board.Insert(proto); err != nil {
		return err
	}
	d.r.folded = true
	return nil
}

func (d *placeRecruit) revert(s *domain.State) error {
	if _, err := s.Board.Extract(d.r.unit); err != nil {
		return err
	}
	d.r.folded = false
	return nil
}

// placeRecall вынимает ветерана из списка отзыва и ставит на карту
type placeRecall struct {
	rc *Recall

	unit     *domain.Unit
	index    int
	oldPos   domain.Hex
	oldMoves int
	oldAtk   int
}

func (d *placeRecall) apply(s *domain.State) error {
	team, err := s.MustTeam(d.rc.side)
	if err != nil {
		return err
	}
	u, idx, ok := team.TakeRecall(d.rc.unit)
	if !ok {
		return fmt.Errorf("recall %s: %w", d.rc.unit, ErrNotInRecallList)
	}
	d.unit, d.index = u, idx
	d.oldPos, d.oldMoves, d.oldAtk = u.Pos, u.Movement, u.Attacks

	u.Pos = d.rc.dest
	u.Movement = 0
	u.Attacks = 0
	if err := s.Board.Insert(u); err != nil {
		d.restore(team)
		return err
	}
	return nil
}

func (d *placeRecall) restore(team *domain.Team) {
	d.unit.Pos, d.unit.Movement, d.unit.Attacks = d.oldPos, d.oldMoves, d.oldAtk
	team.PutRecall(d.unit, d.index)
}

func (d *placeRecall) revert(s *domain.State) error {
	team, err := s.MustTeam(d.rc.side)
	if err != nil {
		return err
	}
	if _, err := s.Board.Extract(d.unit.ID); err != nil {
		return err
	}
	d.restore(team)
	return nil
}

// commitGold учитывает золото, потраченное запланированным наймом/отзывом
type commitGold struct {
	queue  *SideActions
	amount int
}

func (d *commitGold) apply(*domain.State) error {
	d.queue.goldSpent += d.amount
	return nil
}

func (d *commitGold) revert(*domain.State) error {
	d.queue.goldSpent -= d.amount
	return nil
}
