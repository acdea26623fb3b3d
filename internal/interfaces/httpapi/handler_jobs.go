package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/rmachado/captcha-race/internal/usecase"
)

type generateDailyJobRequest struct {
	// Date is optional; empty means today in the configured day timezone.
	Date string `json:"date"`
}

type generateDailyJobResponseDTO struct {
	Date       string `json:"date"`
	Challenges int    `json:"challenges"`
}

func decodeGenerateDailyJobRequest(r *http.Request) (generateDailyJobRequest, error) {
	var req generateDailyJobRequest

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty bodies are fine; the job defaults to today.
			return generateDailyJobRequest{}, nil
		}
		return generateDailyJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	req.Date = strings.TrimSpace(req.Date)
	return req, nil
}

func (h *Handler) RunGenerateDailyJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunGenerateDailyJob")
	defer span.End()

	if h.generatorService == nil {
		writeError(ctx, w, fmt.Errorf("%w: generator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeGenerateDailyJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dateKey := req.Date
	if dateKey == "" {
		dateKey = h.challengeService.TodayKey()
	}

	set, err := h.generatorService.GenerateDailySet(ctx, dateKey)
	if err != nil {
		h.logger.WarnContext(ctx, "generate daily job failed", "date", dateKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, generateDailyJobResponseDTO{
		Date:       set.Date,
		Challenges: len(set.Captchas),
	})
}
