package server

import (
	"net/http"
	"planboard/internal/engine"
	"planboard/pkg/api"
	"planboard/pkg/logger"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService
type Client struct {
	Game *engine.GameService
	Conn *websocket.Conn
	Send chan api.ServerResponse
	Side int
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	return &Client{
		Game: game,
		Conn: conn,
		Send: make(chan api.ServerResponse, 256),
		Side: -1,
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE: первый пакет несет имя стороны
	var loginCmd api.ClientCommand
	if err := c.Conn.ReadJSON(&loginCmd); err != nil {
		logger.Log.WithError(err).Warn("Handshake failed")
		close(c.Send)
		return
	}

	side, err := c.Game.SideByToken(loginCmd.Token)
	if err != nil {
		logger.Log.WithError(err).Warn("Handshake rejected")
		c.Send <- api.ServerResponse{Type: "ERROR", MySide: -1, Error: err.Error()}
		close(c.Send)
		return
	}
	c.Side = side

	clientLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ws_client",
		"side":      side,
		"remote":    c.Conn.RemoteAddr().String(),
	})
	clientLogger.Info("Client logged in")

	// 2. ПОДПИСКА НА ОБНОВЛЕНИЯ (вытесняет прежнее подключение стороны)
	gameUpdates := c.Game.Hub.Register(side)
	defer func() {
		if c.Game.Hub.Unregister(side, gameUpdates) {
			c.Game.Leave(side)
		}
		clientLogger.Info("Client disconnected")
	}()
	c.Game.Join(side)

	// Пересылка обновлений из Hub в writePump
	go func() {
		for msg := range gameUpdates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	// INIT - триггер первой отрисовки
	c.Game.ProcessCommand(side, api.ClientCommand{Action: "INIT"})

	// 3. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				clientLogger.WithError(err).Error("WS read error")
			}
			break
		}
		// Сторона закреплена рукопожатием, токен в командах игнорируется
		c.Game.ProcessCommand(side, cmd)
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
