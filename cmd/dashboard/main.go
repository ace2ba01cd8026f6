package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ChartDesk/internal/app"
	"ChartDesk/internal/config"
	"ChartDesk/internal/logger"
	"ChartDesk/internal/model"
	"ChartDesk/internal/scheduler"
	"ChartDesk/internal/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Environment); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation", logger.ErrorField(err))
	}
	logger.Info("ChartDesk starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("init app", logger.ErrorField(err))
	}
	defer a.Close()

	period, err := model.ParsePeriod(cfg.Schedule.Period)
	if err != nil {
		logger.Fatal("schedule period", logger.ErrorField(err))
	}
	freq, err := model.ParseFrequency(cfg.Schedule.Frequency)
	if err != nil {
		logger.Fatal("schedule frequency", logger.ErrorField(err))
	}

	if len(cfg.Schedule.Watchlist) > 0 {
		sched := scheduler.NewScheduler(ctx, a.Collector, a.Pipeline, cfg.Schedule.Watchlist, period, freq)
		if err := sched.RegisterAll(cfg.Schedule.WarmupCron, cfg.Schedule.ScanCron); err != nil {
			logger.Fatal("register cron tasks", logger.ErrorField(err))
		}
		sched.Start()
		defer sched.Stop()

		if cfg.Schedule.RunOnStart {
			logger.Info("RUN_ON_START enabled, warming watchlist now")
			go sched.RunWarmupNow()
		}
	}

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, a.Pipeline)
	if err := srv.Start(ctx); err != nil {
		logger.Error("http server", logger.ErrorField(err))
		return
	}
	logger.Info("ChartDesk stopped")
}
