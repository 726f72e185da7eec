package engine

import (
	"fmt"
	"planboard/pkg/api"
	"planboard/pkg/logger"
	"time"

	"github.com/sirupsen/logrus"
)

// AddLog добавляет запись в игровой лог партии
func (s *Session) AddLog(text, logType string) {
	s.Logs = append(s.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", s.State.Turn, time.Now().UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	logger.Log.WithFields(logrus.Fields{
		"turn":      s.State.Turn,
		"component": "game_log",
		"log_type":  logType,
	}).Info(text)
}
