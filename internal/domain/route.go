package domain

// Route - путь юнита: клетки от старта до цели включительно и суммарная стоимость
type Route struct {
	Steps []Hex `json:"steps"`
	Cost  int   `json:"cost"`
}

// Len - число клеток в маршруте
func (r Route) Len() int {
	return len(r.Steps)
}

// Empty - маршрут не найден или не задан
func (r Route) Empty() bool {
	return len(r.Steps) == 0
}

// Dest возвращает последнюю клетку маршрута
func (r Route) Dest() Hex {
	if r.Empty() {
		return NullHex
	}
	return r.Steps[len(r.Steps)-1]
}

// Equal сравнивает маршруты по клеткам и стоимости
func (r Route) Equal(other Route) bool {
	if r.Cost != other.Cost || len(r.Steps) != len(other.Steps) {
		return false
	}
	for i := range r.Steps {
		if r.Steps[i] != other.Steps[i] {
			return false
		}
	}
	return true
}
