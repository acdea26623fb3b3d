package httpapi

import (
	"net/http"
)

// challengePublicDTO deliberately omits the solution; answers are checked
// server-side through the race endpoints.
type challengePublicDTO struct {
	ChallengeNumber string `json:"challengeNumber"`
	ImageURL        string `json:"imageUrl"`
}

type challengeListDTO struct {
	Date       string               `json:"date"`
	Count      int                  `json:"count"`
	Challenges []challengePublicDTO `json:"challenges"`
}

func (h *Handler) ListTodaysChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTodaysChallenges")
	defer span.End()

	challenges, err := h.challengeService.TodaysChallenges(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list today's challenges failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]challengePublicDTO, 0, len(challenges))
	for _, c := range challenges {
		items = append(items, challengePublicDTO{
			ChallengeNumber: c.ChallengeNumber,
			ImageURL:        c.ImageURL,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, challengeListDTO{
		Date:       h.challengeService.TodayKey(),
		Count:      len(items),
		Challenges: items,
	})
}
