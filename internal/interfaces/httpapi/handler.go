package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/rmachado/captcha-race/internal/platform/logging"
	"github.com/rmachado/captcha-race/internal/usecase"
)

type Handler struct {
	challengeService   *usecase.ChallengeService
	raceService        *usecase.RaceService
	leaderboardService *usecase.LeaderboardService
	generatorService   *usecase.GeneratorService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	challengeService *usecase.ChallengeService,
	raceService *usecase.RaceService,
	leaderboardService *usecase.LeaderboardService,
	generatorService *usecase.GeneratorService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Handler{
		challengeService:   challengeService,
		raceService:        raceService,
		leaderboardService: leaderboardService,
		generatorService:   generatorService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSONBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
