package domain

// Team - сторона (игрок) в партии
type Team struct {
	Side     int    `json:"side"`
	Name     string `json:"name"`
	Alliance int    `json:"alliance"` // Стороны с одинаковым Alliance - союзники

	Gold       int      `json:"gold"`
	Recruits   []string `json:"recruits"`   // Типы, доступные для найма
	RecallList []*Unit  `json:"recallList"` // Ветераны прошлых сценариев
	RecallCost int      `json:"recallCost"`
}

// IsEnemy - стороны из разных союзов
func (t *Team) IsEnemy(other *Team) bool {
	return t.Alliance != other.Alliance
}

// CanRecruitType проверяет список найма
func (t *Team) CanRecruitType(typeID string) bool {
	for _, r := range t.Recruits {
		if r == typeID {
			return true
		}
	}
	return false
}

// RecallIndex возвращает позицию юнита в списке отзыва или -1
func (t *Team) RecallIndex(id UnitID) int {
	for i, u := range t.RecallList {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// TakeRecall вынимает юнита из списка отзыва. Возвращает его и прежний индекс.
func (t *Team) TakeRecall(id UnitID) (*Unit, int, bool) {
	idx := t.RecallIndex(id)
	if idx < 0 {
		return nil, -1, false
	}
	u := t.RecallList[idx]
	t.RecallList = append(t.RecallList[:idx], t.RecallList[idx+1:]...)
	return u, idx, true
}

// PutRecall возвращает юнита в список отзыва на индекс idx (с обрезкой по длине)
func (t *Team) PutRecall(u *Unit, idx int) {
	if idx < 0 || idx > len(t.RecallList) {
		idx = len(t.RecallList)
	}
	t.RecallList = append(t.RecallList, nil)
	copy(t.RecallList[idx+1:], t.RecallList[idx:])
	t.RecallList[idx] = u
}
