package httpapi

import (
	"net/http"
	"strings"

	"github.com/rmachado/captcha-race/internal/usecase"
)

type createRaceRequest struct {
	PlayerName string `json:"playerName" validate:"required,max=20"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

type raceDTO struct {
	ID              string  `json:"id"`
	PlayerName      string  `json:"playerName"`
	Date            string  `json:"date"`
	State           string  `json:"state"`
	Countdown       int     `json:"countdown,omitempty"`
	ChallengeIndex  int     `json:"challengeIndex"`
	ChallengeTotal  int     `json:"challengeTotal"`
	CurrentImageURL string  `json:"currentImageUrl,omitempty"`
	Score           float64 `json:"score,omitempty"`
	Rank            int     `json:"rank,omitempty"`
}

type answerOutcomeDTO struct {
	Correct   bool    `json:"correct"`
	Completed bool    `json:"completed"`
	Score     float64 `json:"score,omitempty"`
	Rank      int     `json:"rank,omitempty"`
}

func raceToDTO(view usecase.RaceView) raceDTO {
	return raceDTO{
		ID:              view.ID,
		PlayerName:      view.PlayerName,
		Date:            view.Date,
		State:           view.State,
		Countdown:       view.Countdown,
		ChallengeIndex:  view.ChallengeIndex,
		ChallengeTotal:  view.ChallengeTotal,
		CurrentImageURL: view.CurrentImageURL,
		Score:           view.Score,
		Rank:            view.Rank,
	}
}

func (h *Handler) CreateRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRace")
	defer span.End()

	var req createRaceRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.raceService.Create(ctx, req.PlayerName)
	if err != nil {
		h.logger.WarnContext(ctx, "create race failed", "player", req.PlayerName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, raceToDTO(view))
}

func (h *Handler) GetRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRace")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))
	view, err := h.raceService.Get(ctx, raceID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceToDTO(view))
}

func (h *Handler) SubmitRaceAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRaceAnswer")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))

	var req submitAnswerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.raceService.SubmitAnswer(ctx, raceID, req.Answer)
	if err != nil {
		h.logger.WarnContext(ctx, "submit race answer failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, answerOutcomeDTO{
		Correct:   outcome.Correct,
		Completed: outcome.Completed,
		Score:     outcome.Score,
		Rank:      outcome.Rank,
	})
}
