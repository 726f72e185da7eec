package engine

import (
	"planboard/internal/domain"
	"planboard/internal/systems"
	"planboard/internal/whiteboard"
	"planboard/pkg/api"
	"strconv"
	"strings"
)

// publishUpdate рассылает актуальное состояние всем подключенным сторонам.
func (s *Session) publishUpdate() {
	for side := range s.State.Teams {
		if s.Hub.HasSubscriber(side) {
			state := s.BuildStateFor(side)
			s.Hub.SendTo(side, *state)
		}
	}

	// Очищаем логи и уведомления после рассылки
	s.Logs = []api.LogEntry{}
	s.pendingSync = make(map[int][]api.SyncNotice)
}

// BuildStateFor создает "снимок" партии глазами стороны side:
// туман войны, юниты в спроецированных позициях, очереди своей стороны и союзников.
func (s *Session) BuildStateFor(side int) *api.ServerResponse {
	m := s.Manager(side)
	board := s.State.Board

	// Реальные позиции до проекции (чтобы отметить сдвинутых и "призраков")
	realPos := make(map[domain.UnitID]domain.Hex)
	for _, u := range board.Units() {
		realPos[u.ID] = u.Pos
	}

	scope := m.PushProjection()
	defer scope.Release()

	// 1. Поле зрения союза стороны
	visible := systems.VisibleHexes(s.State, side)

	// 2. Карта
	mapDTO := make([]api.TileView, 0, board.Width*board.Height)
	for r := 0; r < board.Height; r++ {
		for q := 0; q < board.Width; q++ {
			h := domain.Hex{Q: q, R: r}
			tile := board.Tile(h)
			mapDTO = append(mapDTO, api.TileView{
				Q:       q,
				R:       r,
				Terrain: strings.ToLower(tile.Terrain.String()),
				Keep:    tile.Keep,
				Village: tile.Village,
				Visible: visible[h],
			})
		}
	}

	// 3. Юниты
	var units []api.UnitView
	for _, u := range board.Units() {
		if !systems.CanSee(s.State, side, u, visible) {
			continue
		}
		view := toUnitView(u)
		pos, existed := realPos[u.ID]
		view.Ghost = !existed
		view.Planned = existed && pos != u.Pos
		units = append(units, view)
	}

	// 4. Очереди в порядке исполнения, начиная со стороны, которая ходит
	var queue []api.ActionView
	for _, qs := range s.State.TurnOrder(s.State.CurrentSide) {
		if qs != side && s.State.AreEnemies(side, qs) {
			continue
		}
		for i, a := range m.Queue(qs).Actions() {
			queue = append(queue, toActionView(a, i))
		}
	}

	team := s.State.Team(side)
	logsCopy := make([]api.LogEntry, len(s.Logs))
	copy(logsCopy, s.Logs)

	return &api.ServerResponse{
		Type:        "UPDATE",
		Turn:        s.State.Turn,
		CurrentSide: s.State.CurrentSide,
		MySide:      side,
		Grid:        &api.GridMeta{Width: board.Width, Height: board.Height},
		Map:         mapDTO,
		Units:       units,
		Queue:       queue,
		Gold:        team.Gold,
		SpentGold:   m.SpentGold(side),
		Highlight:   toHighlightView(m.Highlight()),
		Logs:        logsCopy,
		Sync:        append([]api.SyncNotice(nil), s.pendingSync[side]...),
	}
}

func toUnitView(u *domain.Unit) api.UnitView {
	return api.UnitView{
		ID:          formatUnitID(u.ID),
		Type:        u.Type,
		Name:        u.Name,
		Side:        u.Side,
		Pos:         toHexView(u.Pos),
		Movement:    u.Movement,
		MaxMovement: u.MaxMovement,
		HP:          u.HP,
		MaxHP:       u.MaxHP,
	}
}

// toActionView конвертирует план в DTO. Метка хода берется из последней проекции.
func toActionView(a whiteboard.Action, index int) api.ActionView {
	rec := whiteboard.RecordOf(a)
	view := api.ActionView{
		ID:       a.ID().String(),
		Index:    index,
		Kind:     a.Kind().String(),
		Side:     a.Side(),
		Unit:     formatUnitID(a.UnitID()),
		Source:   hexViewPtr(rec.Source),
		Dest:     hexViewPtr(rec.Dest),
		Target:   hexViewPtr(rec.Target),
		UnitType: rec.UnitType,
		Cost:     rec.Cost,
		Valid:    a.Valid(),
	}
	if rec.Route != nil {
		view.Cost = rec.Route.Cost
		for _, step := range rec.Route.Steps {
			view.Route = append(view.Route, toHexView(step))
		}
	}

	switch act := a.(type) {
	case *whiteboard.Move:
		view.Turn = act.TurnNumber()
	case *whiteboard.Attack:
		view.Turn = act.TurnNumber()
	}
	return view
}

func toHighlightView(hs whiteboard.HighlightSet) *api.HighlightView {
	if hs.Empty() && hs.Unit.IsNil() && hs.Hex.IsNull() {
		return nil
	}
	view := &api.HighlightView{}
	if !hs.Hex.IsNull() {
		hv := toHexView(hs.Hex)
		view.Hex = &hv
	}
	if !hs.Unit.IsNil() {
		view.Unit = formatUnitID(hs.Unit)
	}
	if hs.Main != nil {
		view.Main = hs.Main.ID().String()
	}
	for _, a := range hs.Secondary {
		view.Secondary = append(view.Secondary, a.ID().String())
	}
	return view
}

func toHexView(h domain.Hex) api.HexView {
	return api.HexView{Q: h.Q, R: h.R}
}

func hexViewPtr(h *domain.Hex) *api.HexView {
	if h == nil {
		return nil
	}
	v := toHexView(*h)
	return &v
}

func formatUnitID(id domain.UnitID) string {
	return strconv.FormatUint(uint64(id), 10)
}
