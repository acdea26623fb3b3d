package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/challenges/today", handler.ListTodaysChallenges)

	mux.HandleFunc("POST /v1/races", handler.CreateRace)
	mux.HandleFunc("GET /v1/races/{raceID}", handler.GetRace)
	mux.HandleFunc("POST /v1/races/{raceID}/answers", handler.SubmitRaceAnswer)

	mux.HandleFunc("GET /v1/leaderboard/today", handler.GetTodaysLeaderboard)
	mux.HandleFunc("GET /v1/leaderboard/{date}", handler.GetLeaderboard)
	mux.HandleFunc("POST /v1/leaderboard/{date}/scores", handler.SubmitScore)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/generate-daily", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunGenerateDailyJob)))
}
