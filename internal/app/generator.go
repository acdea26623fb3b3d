package app

import (
	"context"

	captcharender "github.com/rmachado/captcha-race/internal/infrastructure/captcha"
	"github.com/rmachado/captcha-race/internal/config"
	"github.com/rmachado/captcha-race/internal/platform/logging"
	"github.com/rmachado/captcha-race/internal/usecase"
)

// Generator is the one-shot wiring used by the daily job binary.
type Generator struct {
	Service *usecase.GeneratorService
	DateKey string

	app *Application
}

func NewGenerator(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Generator, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	app := &Application{}

	dayRepo, _, err := app.buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	blobStore, err := app.buildBlobStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	renderer := captcharender.NewRenderer(captcharender.Config{
		Width:  cfg.DisplayWidth,
		Height: cfg.DisplayHeight,
	})

	challengeSvc := usecase.NewChallengeService(
		dayRepo,
		logger,
		cfg.MediaBaseURL,
		cfg.DisplayWidth,
		cfg.DisplayHeight,
		cfg.DayTimezone,
	)

	return &Generator{
		Service: usecase.NewGeneratorService(renderer, blobStore, dayRepo, logger, cfg.ChallengesPerDay),
		DateKey: challengeSvc.TodayKey(),
		app:     app,
	}, nil
}

func (g *Generator) Close() error {
	return g.app.Close()
}
