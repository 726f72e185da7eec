package domain

import "fmt"

// State - авторитетное состояние партии
type State struct {
	Board       *Board
	Teams       []*Team
	Catalog     Catalog
	CurrentSide int // Сторона, которая сейчас ходит
	Turn        int // Номер хода, начиная с 1

	nextIndex map[int]uint32
}

func NewState(board *Board, teams []*Team, catalog Catalog) *State {
	if catalog == nil {
		catalog = Catalog{}
	}
	s := &State{
		Board:     board,
		Teams:     teams,
		Catalog:   catalog,
		Turn:      1,
		nextIndex: make(map[int]uint32),
	}
	for i, t := range teams {
		t.Side = i
	}
	return s
}

// Team возвращает команду стороны или nil
func (s *State) Team(side int) *Team {
	if side < 0 || side >= len(s.Teams) {
		return nil
	}
	return s.Teams[side]
}

// MustTeam - как Team, но с ошибкой
func (s *State) MustTeam(side int) (*Team, error) {
	t := s.Team(side)
	if t == nil {
		return nil, fmt.Errorf("side %d: %w", side, ErrUnknownSide)
	}
	return t, nil
}

// AreEnemies - стороны a и b враждуют
func (s *State) AreEnemies(a, b int) bool {
	ta, tb := s.Team(a), s.Team(b)
	if ta == nil || tb == nil {
		return false
	}
	return ta.IsEnemy(tb)
}

// TurnOrder возвращает порядок сторон, начиная с from: from..n-1, 0..from-1
func (s *State) TurnOrder(from int) []int {
	n := len(s.Teams)
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		order = append(order, (from+i)%n)
	}
	return order
}

// NextUnitID выдает новый идентификатор для юнита стороны
func (s *State) NextUnitID(side int) UnitID {
	if s.nextIndex == nil {
		s.nextIndex = make(map[int]uint32)
	}
	// Индексы не пересекаются с уже выданными (сценарий, отзыв)
	if s.nextIndex[side] == 0 {
		var maxIdx uint32
		for _, u := range s.Board.registry {
			if int(u.ID.Side()) == side+1 && u.ID.Index() > maxIdx {
				maxIdx = u.ID.Index()
			}
		}
		if t := s.Team(side); t != nil {
			for _, u := range t.RecallList {
				if int(u.ID.Side()) == side+1 && u.ID.Index() > maxIdx {
					maxIdx = u.ID.Index()
				}
			}
		}
		s.nextIndex[side] = maxIdx
	}
	s.nextIndex[side]++
	return PackUnitID(uint8(side+1), 0, s.nextIndex[side])
}

// ReserveUnitID отмечает идентификатор как выданный (восстановленные планы найма)
func (s *State) ReserveUnitID(id UnitID) {
	side := int(id.Side()) - 1
	if side < 0 {
		return
	}
	// Первичное сканирование карты, если счётчик ещё не инициализирован
	if s.nextIndex == nil || s.nextIndex[side] == 0 {
		s.NextUnitID(side)
		s.nextIndex[side]--
	}
	if id.Index() > s.nextIndex[side] {
		s.nextIndex[side] = id.Index()
	}
}

// Recruitable возвращает тип юнита, если сторона может его нанять
func (s *State) Recruitable(side int, typeID string) (UnitType, bool) {
	t := s.Team(side)
	if t == nil || !t.CanRecruitType(typeID) {
		return UnitType{}, false
	}
	ut, ok := s.Catalog[typeID]
	return ut, ok
}
