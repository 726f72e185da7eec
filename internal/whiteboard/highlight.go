package whiteboard

import (
	"planboard/internal/domain"
)

// HighlightSet - действия, связанные с выбранным юнитом или клеткой под курсором
type HighlightSet struct {
	Hex       domain.Hex
	Unit      domain.UnitID
	Main      Action   // Первое связанное действие
	Secondary []Action // Остальные связанные
}

// Empty - подсвечивать нечего
func (hs HighlightSet) Empty() bool {
	return hs.Main == nil
}

// Highlight собирает подсветку. Очереди и валидность не меняются.
// Выбранный юнит имеет приоритет над клеткой под курсором.
func (m *Manager) Highlight() HighlightSet {
	hs := HighlightSet{Hex: m.hovered, Unit: m.selected}

	byHex := m.selected.IsNil() && !m.hovered.IsNull()
	if byHex {
		scope := m.PushProjection()
		if u := m.state.Board.UnitAt(m.hovered); u != nil {
			hs.Unit = u.ID
		}
		scope.Release()
	}

	for _, a := range m.localQueue().actions {
		related := (!hs.Unit.IsNil() && a.UnitID() == hs.Unit) || (byHex && a.RelatedTo(m.hovered))
		if !related {
			continue
		}
		if hs.Main == nil {
			hs.Main = a
		} else {
			hs.Secondary = append(hs.Secondary, a)
		}
	}
	return hs
}
