package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rmachado/captcha-race/internal/usecase"
)

type submitScoreRequest struct {
	PlayerName string  `json:"playerName" validate:"required,max=20"`
	Score      float64 `json:"score" validate:"required,gt=0"`
}

type standingDTO struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"playerName"`
	Score      float64 `json:"score"`
}

type leaderboardDTO struct {
	Date             string        `json:"date"`
	Standings        []standingDTO `json:"standings"`
	TotalPlayers     int           `json:"totalPlayers"`
	SecondsToNextDay int           `json:"secondsToNextDay"`
}

type submitScoreResponseDTO struct {
	Date       string  `json:"date"`
	PlayerName string  `json:"playerName"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

// standingsLimit reads an optional ?limit= for top-K display. Absent, empty
// or unparseable values mean no truncation; TotalPlayers always reflects the
// full board.
func standingsLimit(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}

func standingsToDTO(view usecase.StandingsView, limit int) leaderboardDTO {
	standings := view.Standings
	if limit > 0 && limit < len(standings) {
		standings = standings[:limit]
	}

	items := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingDTO{
			Rank:       s.Rank,
			PlayerName: s.PlayerName,
			Score:      s.Score,
		})
	}

	return leaderboardDTO{
		Date:             view.Date,
		Standings:        items,
		TotalPlayers:     view.TotalPlayers,
		SecondsToNextDay: view.SecondsToNextDay,
	}
}

func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitScore")
	defer span.End()

	date := strings.TrimSpace(r.PathValue("date"))

	var req submitScoreRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rank, err := h.leaderboardService.SubmitScore(ctx, date, req.PlayerName, req.Score)
	if err != nil {
		h.logger.WarnContext(ctx, "submit score failed", "date", date, "player", req.PlayerName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submitScoreResponseDTO{
		Date:       date,
		PlayerName: req.PlayerName,
		Score:      req.Score,
		Rank:       rank,
	})
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	date := strings.TrimSpace(r.PathValue("date"))
	view, err := h.leaderboardService.Standings(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(view, standingsLimit(r)))
}

func (h *Handler) GetTodaysLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTodaysLeaderboard")
	defer span.End()

	view, err := h.leaderboardService.Standings(ctx, h.leaderboardService.TodayKey())
	if err != nil {
		h.logger.WarnContext(ctx, "get today's leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(view, standingsLimit(r)))
}
