package postgres

import (
	"time"

	"github.com/rmachado/captcha-race/internal/domain/challenge"
)

type challengeDayTableModel struct {
	ID         int64     `db:"id"`
	DayKey     string    `db:"day_key"`
	Challenges []byte    `db:"challenges"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// challengeRecord is the JSONB element shape inside challenge_days.challenges.
type challengeRecord struct {
	ChallengeNumber string    `json:"challengeNumber"`
	CreatedAt       time.Time `json:"createdAt"`
	ImageURL        string    `json:"imageUrl"`
	Solution        string    `json:"solution"`
}

func recordsFromDomain(captchas []challenge.Challenge) []challengeRecord {
	out := make([]challengeRecord, 0, len(captchas))
	for _, c := range captchas {
		out = append(out, challengeRecord{
			ChallengeNumber: c.ChallengeNumber,
			CreatedAt:       c.CreatedAt,
			ImageURL:        c.ImageURL,
			Solution:        c.Solution,
		})
	}
	return out
}

func recordsToDomain(records []challengeRecord) []challenge.Challenge {
	out := make([]challenge.Challenge, 0, len(records))
	for _, rec := range records {
		out = append(out, challenge.Challenge{
			ChallengeNumber: rec.ChallengeNumber,
			CreatedAt:       rec.CreatedAt,
			ImageURL:        rec.ImageURL,
			Solution:        rec.Solution,
		})
	}
	return out
}
