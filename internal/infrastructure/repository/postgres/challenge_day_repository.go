package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/rmachado/captcha-race/internal/domain/challenge"
)

const (
	selectChallengeDayQuery = `
SELECT id, day_key, challenges, created_at, updated_at
FROM challenge_days
WHERE day_key = $1`

	replaceChallengeDayQuery = `
INSERT INTO challenge_days (day_key, challenges)
VALUES ($1, $2)
ON CONFLICT (day_key) DO UPDATE
SET challenges = EXCLUDED.challenges,
    updated_at = now()`
)

type ChallengeDayRepository struct {
	db *sqlx.DB
}

func NewChallengeDayRepository(db *sqlx.DB) *ChallengeDayRepository {
	return &ChallengeDayRepository{db: db}
}

func (r *ChallengeDayRepository) GetByDate(ctx context.Context, dateKey string) (challenge.DaySet, bool, error) {
	var row challengeDayTableModel
	if err := r.db.GetContext(ctx, &row, selectChallengeDayQuery, dateKey); err != nil {
		if isNotFound(err) {
			return challenge.DaySet{}, false, nil
		}
		return challenge.DaySet{}, false, fmt.Errorf("get challenge day: %w", err)
	}

	var records []challengeRecord
	if err := sonic.Unmarshal(row.Challenges, &records); err != nil {
		return challenge.DaySet{}, false, fmt.Errorf("decode challenges for %s: %w", dateKey, err)
	}

	return challenge.DaySet{
		Date:     row.DayKey,
		Captchas: recordsToDomain(records),
	}, true, nil
}

func (r *ChallengeDayRepository) Replace(ctx context.Context, set challenge.DaySet) error {
	payload, err := sonic.Marshal(recordsFromDomain(set.Captchas))
	if err != nil {
		return fmt.Errorf("encode challenges for %s: %w", set.Date, err)
	}

	if _, err := r.db.ExecContext(ctx, replaceChallengeDayQuery, set.Date, payload); err != nil {
		return fmt.Errorf("replace challenge day %s: %w", set.Date, err)
	}
	return nil
}
