package leaderboard

import "context"

// Repository stores per-day score entries keyed by player name.
type Repository interface {
	// UpsertIfBetter inserts the entry, or lowers the stored score when the
	// new one is strictly better. Implementations must make the comparison
	// atomic so concurrent submissions cannot clobber a better score.
	UpsertIfBetter(ctx context.Context, dateKey string, entry ScoreEntry) error
	ListByDate(ctx context.Context, dateKey string) ([]ScoreEntry, error)
}
