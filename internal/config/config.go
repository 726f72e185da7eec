package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix - префикс переменных окружения сервера
const EnvPrefix = "WB_"

// Config хранит параметры запуска сервера.
// Значения берутся из окружения (WB_PORT, WB_SAVE_DIR, ...), флаги командной строки
// перекрывают их в cmd/server.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	// SaveDir - куда пишутся снимки планов при остановке
	SaveDir string `env:"SAVE_DIR" envDefault:"saves"`

	// ScenarioPath - YAML-сценарий; пустой - встроенная демо-карта
	ScenarioPath string `env:"SCENARIO"`

	// PlansPath - снимок планов, который восстанавливается при старте
	PlansPath string `env:"PLANS"`

	// TurnTimeout - сколько ждать END_TURN от стороны. 0 - без ограничения.
	TurnTimeout time.Duration `env:"TURN_TIMEOUT" envDefault:"5m"`
}

// Load читает конфиг из окружения
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя проверить тегами
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.TurnTimeout < 0 {
		return errors.New("turn timeout cannot be negative")
	}
	if c.SaveDir == "" {
		return errors.New("save dir is required")
	}
	return nil
}
