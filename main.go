package main

import (
	"context"
	"log"
	"os"

	"github.com/josebdo/Cristal-Event-Planner/app/cmd"
	"github.com/josebdo/Cristal-Event-Planner/app/configs"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := configs.LoadEnv()
	if err != nil {
		log.Fatal("Config failed: ", err)
	}

	logg, err := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Console:    cfg.LogConsole,
	})
	if err != nil {
		log.Fatal("Logger failed: ", err)
	}
	defer logg.Sync()

	if err := cmd.RunCli(context.Background(), cfg, os.Args); err != nil {
		zap.S().Errorw("Command failed", "error", err)
		logg.Sync()
		os.Exit(1)
	}
}
