package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"planboard/internal/config"
	"planboard/internal/domain"
	"planboard/internal/engine"
	"planboard/internal/scenario"
	"planboard/internal/server"
	"planboard/internal/version"
	"planboard/pkg/logger"
	"syscall"
	"time"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфигурация: окружение, затем флаги
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal("Config error: ", err)
	}

	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flag.StringVar(&cfg.ScenarioPath, "scenario", cfg.ScenarioPath, "Path to YAML scenario (empty for the built-in map)")
	flag.StringVar(&cfg.PlansPath, "plans", cfg.PlansPath, "Path to .wbpl plan snapshot to restore")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("Config error: ", err)
	}
	if cfg.LogLevel != "" || cfg.LogFormat != "" {
		logger.Configure(logger.Settings{Level: cfg.LogLevel, Format: cfg.LogFormat})
	}

	logger.Log.WithFields(version.Current().Fields()).Info("Starting planboard...")

	// 2. Сценарий
	var state *domain.State
	if cfg.ScenarioPath != "" {
		state, err = scenario.Load(cfg.ScenarioPath)
	} else {
		state, err = scenario.Default()
	}
	if err != nil {
		logger.Log.Fatal("Failed to load scenario: ", err)
	}

	gameService, err := engine.NewService(cfg, state)
	if err != nil {
		logger.Log.Fatal("Failed to create game service: ", err)
	}

	if cfg.PlansPath != "" {
		if err := gameService.LoadPlans(cfg.PlansPath); err != nil {
			logger.Log.Fatal("Failed to restore plans: ", err)
		}
		logger.Log.Infof("Plans restored from %s", cfg.PlansPath)
	}

	sessionCtx, stopSession := context.WithCancel(context.Background())
	gameService.Start(sessionCtx)

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(gameService, cfg.Port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Планы сохраняются, пока цикл партии ещё работает
	if path, err := gameService.SavePlans(ctx); err != nil {
		logger.Log.WithError(err).Error("Failed to save plans")
	} else {
		logger.Log.Infof("Plans saved to %s", path)
	}

	stopSession()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown failed")
	}

	logger.Log.Info("Done.")
}
