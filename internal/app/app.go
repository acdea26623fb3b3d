package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/rmachado/captcha-race/internal/config"
	"github.com/rmachado/captcha-race/internal/domain/challenge"
	"github.com/rmachado/captcha-race/internal/domain/leaderboard"
	captcharender "github.com/rmachado/captcha-race/internal/infrastructure/captcha"
	cacherepo "github.com/rmachado/captcha-race/internal/infrastructure/repository/cache"
	"github.com/rmachado/captcha-race/internal/infrastructure/repository/memory"
	"github.com/rmachado/captcha-race/internal/infrastructure/repository/postgres"
	"github.com/rmachado/captcha-race/internal/infrastructure/storage/gcs"
	"github.com/rmachado/captcha-race/internal/interfaces/httpapi"
	basecache "github.com/rmachado/captcha-race/internal/platform/cache"
	idgen "github.com/rmachado/captcha-race/internal/platform/id"
	"github.com/rmachado/captcha-race/internal/platform/logging"
	"github.com/rmachado/captcha-race/internal/usecase"
)

// Application bundles the HTTP server with the resources it owns.
type Application struct {
	Server *http.Server

	races *usecase.RaceService
	db    *sqlx.DB
	blobs *gcs.Store
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	app := &Application{}

	dayRepo, scoreRepo, err := app.buildRepositories(cfg, logger)
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
	leaderboardSvc := usecase.NewLeaderboardService(scoreRepo, logger, cfg.DayTimezone)
	generatorSvc := usecase.NewGeneratorService(renderer, blobStore, dayRepo, logger, cfg.ChallengesPerDay)

	raceSvc := usecase.NewRaceService(challengeSvc, leaderboardSvc, idgen.NewRandomGenerator(), logger)
	raceSvc.SetTiming(cfg.RaceTickInterval, cfg.RaceSessionTTL)
	app.races = raceSvc

	handler := httpapi.NewHandler(challengeSvc, raceSvc, leaderboardSvc, generatorSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if app.Server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return app, nil
}

// Close releases everything New acquired, in reverse order of creation.
func (a *Application) Close() error {
	if a.races != nil {
		a.races.Close()
	}

	var firstErr error
	if a.blobs != nil {
		if err := a.blobs.Close(); err != nil {
			firstErr = fmt.Errorf("close blob store: %w", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close db: %w", err)
		}
	}
	return firstErr
}

func (a *Application) buildRepositories(cfg config.Config, logger *logging.Logger) (challenge.Repository, leaderboard.Repository, error) {
	var dayRepo challenge.Repository
	var scoreRepo leaderboard.Repository

	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		dayRepo = memory.NewChallengeDayRepository()
		scoreRepo = memory.NewScoreRepository()
	} else {
		dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		db, err := otelsqlx.Connect("postgres", dsn,
			otelsql.WithDBName(dbNameFromURL(dsn)),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.db = db
		dayRepo = postgres.NewChallengeDayRepository(db)
		scoreRepo = postgres.NewScoreRepository(db)
		logger.Info("using postgres repositories", "db", dbNameFromURL(dsn))
	}

	if cfg.CacheEnabled {
		dayRepo = cacherepo.NewChallengeDayRepository(dayRepo, basecache.NewStore(cfg.CacheTTL))
	}
	// Leaderboard reads stay uncached: ranks must reflect the latest scores.

	return dayRepo, scoreRepo, nil
}

func (a *Application) buildBlobStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (challenge.BlobStore, error) {
	if cfg.BlobBucket == "" {
		logger.Info("using in-memory blob store", "reason", "BLOB_BUCKET empty")
		return memory.NewBlobStore(), nil
	}

	store, err := gcs.NewStore(ctx, cfg.BlobBucket)
	if err != nil {
		return nil, fmt.Errorf("create gcs store: %w", err)
	}
	a.blobs = store
	return store, nil
}
