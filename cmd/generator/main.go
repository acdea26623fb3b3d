package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/rmachado/captcha-race/internal/app"
	"github.com/rmachado/captcha-race/internal/config"
	"github.com/rmachado/captcha-race/internal/platform/logging"
)

// Generates one day's captcha set and exits. Meant to run from a scheduler
// shortly after midnight in the configured day timezone.
func main() {
	dateFlag := flag.String("date", "", "day key to generate (YYYY-MM-DD, defaults to today)")
	timeoutFlag := flag.Duration("timeout", 2*time.Minute, "overall job timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	generator, err := app.NewGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Error("build generator", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := generator.Close(); err != nil {
			logger.Error("close generator", "error", err)
		}
	}()

	dateKey := strings.TrimSpace(*dateFlag)
	if dateKey == "" {
		dateKey = generator.DateKey
	}

	set, err := generator.Service.GenerateDailySet(ctx, dateKey)
	if err != nil {
		logger.Error("generate daily set failed", "date", dateKey, "error", err)
		os.Exit(1)
	}

	logger.Info("daily set generated", "date", set.Date, "challenges", len(set.Captchas))
}
