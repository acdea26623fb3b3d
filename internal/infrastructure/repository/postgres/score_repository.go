package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rmachado/captcha-race/internal/domain/leaderboard"
)

const (
	// The WHERE clause on the conflict branch keeps the stored score when it
	// is already better, so concurrent submissions cannot regress a result.
	upsertScoreQuery = `
INSERT INTO leaderboard_scores (day_key, player_name, score)
VALUES ($1, $2, $3)
ON CONFLICT (day_key, player_name) DO UPDATE
SET score      = EXCLUDED.score,
    updated_at = now()
WHERE leaderboard_scores.score > EXCLUDED.score`

	selectScoresByDayQuery = `
SELECT player_name, score
FROM leaderboard_scores
WHERE day_key = $1
ORDER BY score, player_name`
)

type scoreRowModel struct {
	PlayerName string  `db:"player_name"`
	Score      float64 `db:"score"`
}

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) UpsertIfBetter(ctx context.Context, dateKey string, entry leaderboard.ScoreEntry) error {
	if _, err := r.db.ExecContext(ctx, upsertScoreQuery, dateKey, entry.PlayerName, entry.Score); err != nil {
		return fmt.Errorf("upsert score for %s/%s: %w", dateKey, entry.PlayerName, err)
	}
	return nil
}

func (r *ScoreRepository) ListByDate(ctx context.Context, dateKey string) ([]leaderboard.ScoreEntry, error) {
	var rows []scoreRowModel
	if err := r.db.SelectContext(ctx, &rows, selectScoresByDayQuery, dateKey); err != nil {
		return nil, fmt.Errorf("select scores for %s: %w", dateKey, err)
	}

	out := make([]leaderboard.ScoreEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.ScoreEntry{
			PlayerName: row.PlayerName,
			Score:      row.Score,
		})
	}
	return out, nil
}
