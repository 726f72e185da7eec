package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Это "снимок" партии глазами одной стороны: юниты показаны так,
// как будто все валидные планы уже исполнены.
type ServerResponse struct {
	// Type тип сообщения: UPDATE или ERROR.
	Type string `json:"type"`

	// Turn номер хода, начиная с 1.
	Turn int `json:"turn"`

	// CurrentSide сторона, которая сейчас ходит.
	// КЛИЕНТ СРАВНИВАЕТ ЭТО ПОЛЕ С MySide, чтобы понять, можно ли исполнять планы.
	CurrentSide int `json:"currentSide"`

	// MySide сторона, которой управляет данный клиент.
	MySide int `json:"mySide"`

	// Grid размеры карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map все клетки карты с флагом видимости.
	Map []TileView `json:"map,omitempty"`

	// Units видимые юниты в спроецированных позициях.
	Units []UnitView `json:"units,omitempty"`

	// Queue планы своей стороны и союзников в порядке исполнения.
	Queue []ActionView `json:"queue,omitempty"`

	// Gold текущее золото стороны, SpentGold - зарезервировано планами.
	Gold      int `json:"gold"`
	SpentGold int `json:"spentGold"`

	// Highlight действия, связанные с выбранным юнитом или клеткой под курсором.
	Highlight *HighlightView `json:"highlight,omitempty"`

	// Logs новые сообщения с прошлой рассылки.
	Logs []LogEntry `json:"logs,omitempty"`

	// Sync изменения очередей союзников с прошлой рассылки.
	Sync []SyncNotice `json:"sync,omitempty"`

	// Error текст ошибки последней команды (для Type == ERROR).
	Error string `json:"error,omitempty"`
}

// GridMeta содержит размеры карты.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// HexView - клетка в осевых координатах
type HexView struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// TileView это DTO одной клетки карты.
type TileView struct {
	Q       int    `json:"q"`
	R       int    `json:"r"`
	Terrain string `json:"terrain"`
	Keep    bool   `json:"keep,omitempty"`
	Village bool   `json:"village,omitempty"`

	// Visible true, если клетка сейчас в поле зрения стороны или её союзников.
	Visible bool `json:"visible"`
}

// UnitView это DTO юнита.
type UnitView struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	Name string  `json:"name"`
	Side int     `json:"side"`
	Pos  HexView `json:"pos"`

	Movement    int `json:"movement"`
	MaxMovement int `json:"maxMovement"`
	HP          int `json:"hp"`
	MaxHP       int `json:"maxHp"`

	// Planned - позиция получена из планов, а не из реального состояния.
	Planned bool `json:"planned,omitempty"`

	// Ghost - юнит существует только в планах (запланированный найм или отзыв).
	Ghost bool `json:"ghost,omitempty"`
}

// ActionView это DTO одного запланированного действия.
type ActionView struct {
	ID    string `json:"id"`
	Index int    `json:"index"` // Позиция в очереди стороны
	Kind  string `json:"kind"`  // move, attack, recruit, recall, suppose_dead
	Side  int    `json:"side"`
	Unit  string `json:"unit"`

	Source *HexView  `json:"source,omitempty"`
	Dest   *HexView  `json:"dest,omitempty"`
	Target *HexView  `json:"target,omitempty"`
	Route  []HexView `json:"route,omitempty"`
	Cost   int       `json:"cost,omitempty"`

	UnitType string `json:"unitType,omitempty"`

	Valid bool `json:"valid"`

	// Turn ожидаемый ход завершения многоходового перемещения (0 - без метки).
	Turn int `json:"turn,omitempty"`
}

// HighlightView - подсветка связанных действий
type HighlightView struct {
	Hex       *HexView `json:"hex,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Main      string   `json:"main,omitempty"`
	Secondary []string `json:"secondary,omitempty"`
}

// SyncNotice - изменение очереди союзника (вставка, удаление, сдвиг, замена, очистка)
type SyncNotice struct {
	Type     string `json:"type"`
	Side     int    `json:"side"`
	ActionID string `json:"actionId,omitempty"`
	Index    int    `json:"index,omitempty"`
}

// LogEntry представляет одну запись в игровом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, PLAN, COMBAT, TURN, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token имя стороны, от имени которой играет клиент.
	// Обязателен только для первого сообщения.
	Token string `json:"token,omitempty"`

	// Action название действия (PLAN_MOVE, BUMP, END_TURN, ...).
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// HexPayload - клетка карты (HOVER, PLAN_MOVE, SUPPOSE_DEAD).
type HexPayload struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// AttackPayload - атака клетки Target. Если From задан, юнит сначала идет туда.
type AttackPayload struct {
	Target HexPayload  `json:"target"`
	From   *HexPayload `json:"from,omitempty"`
}

// UnitPayload - выбор юнита (SELECT). Пустой UnitID снимает выделение.
type UnitPayload struct {
	UnitID string `json:"unitId"`
}

// RecruitPayload - найм юнита типа Type на клетку Hex.
type RecruitPayload struct {
	Type string     `json:"type"`
	Hex  HexPayload `json:"hex"`
}

// RecallPayload - отзыв ветерана UnitID на клетку Hex.
type RecallPayload struct {
	UnitID string     `json:"unitId"`
	Hex    HexPayload `json:"hex"`
}

// BumpPayload - сдвиг действия Index на одну позицию (Direction -1 раньше, +1 позже).
type BumpPayload struct {
	Index     int `json:"index"`
	Direction int `json:"direction"`
}

// ActionRefPayload - ссылка на действие в очереди своей стороны (REMOVE).
type ActionRefPayload struct {
	Index int `json:"index"`
}
