package server

import (
	"context"
	"encoding/json"
	"net/http"
	"planboard/internal/engine"
	"planboard/internal/whiteboard"
	"planboard/pkg/logger"
	"strconv"
	"time"
)

// debugTimeout - сколько ждать цикл партии
const debugTimeout = 2 * time.Second

// DebugHandler предоставляет доступ к внутреннему состоянию партии.
// Все чтения идут через Session.Do, в горутине партии.
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/queues", h.handleQueues)
	mux.HandleFunc("/debug/board", h.handleBoard)
}

// QueueDump - очереди глазами менеджера одной стороны
type QueueDump struct {
	Viewer     int                   `json:"viewer"`
	Projection bool                  `json:"projection"`
	Queues     [][]whiteboard.Record `json:"queues"`
}

// /debug/queues?side=0 - очереди всех сторон в менеджере стороны side (по умолчанию все менеджеры)
func (h *DebugHandler) handleQueues(w http.ResponseWriter, r *http.Request) {
	only := -1
	if s := r.URL.Query().Get("side"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || h.Service.Session.Manager(v) == nil {
			http.Error(w, "Unknown side", http.StatusNotFound)
			return
		}
		only = v
	}

	var dump []QueueDump
	err := h.do(r.Context(), func(session *engine.Session) {
		for _, m := range session.Managers {
			if only >= 0 && m.Local() != only {
				continue
			}
			d := QueueDump{Viewer: m.Local(), Projection: m.HasProjection()}
			for side := range session.State.Teams {
				recs := make([]whiteboard.Record, 0)
				for _, a := range m.Queue(side).Actions() {
					recs = append(recs, whiteboard.RecordOf(a))
				}
				d.Queues = append(d.Queues, recs)
			}
			dump = append(dump, d)
		}
	})
	if err != nil {
		http.Error(w, "Session is not responding", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, dump)
}

// /debug/board - реальные юниты и ротация сторон (без тумана и проекции)
func (h *DebugHandler) handleBoard(w http.ResponseWriter, r *http.Request) {
	type BoardDump struct {
		Turn        int                      `json:"turn"`
		CurrentSide int                      `json:"current_side"`
		Units       interface{}              `json:"units"`
		Sides       []map[string]interface{} `json:"sides"`
	}

	var dump BoardDump
	err := h.do(r.Context(), func(session *engine.Session) {
		dump = BoardDump{
			Turn:        session.State.Turn,
			CurrentSide: session.State.CurrentSide,
			Units:       session.State.Board.Units(),
			Sides:       session.TurnManager.DebugDump(),
		}
	})
	if err != nil {
		http.Error(w, "Session is not responding", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, dump)
}

func (h *DebugHandler) do(ctx context.Context, fn func(session *engine.Session)) error {
	ctx, cancel := context.WithTimeout(ctx, debugTimeout)
	defer cancel()
	session := h.Service.Session
	return session.Do(ctx, func() { fn(session) })
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Warn("debug: encode response failed")
	}
}
