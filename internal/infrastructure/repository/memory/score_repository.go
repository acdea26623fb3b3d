package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rmachado/captcha-race/internal/domain/leaderboard"
)

// ScoreRepository keeps per-day scores in process memory. The mutex makes
// UpsertIfBetter an atomic compare and set.
type ScoreRepository struct {
	mu     sync.RWMutex
	byDate map[string]map[string]float64
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{byDate: make(map[string]map[string]float64)}
}

func (r *ScoreRepository) UpsertIfBetter(_ context.Context, dateKey string, entry leaderboard.ScoreEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day, ok := r.byDate[dateKey]
	if !ok {
		day = make(map[string]float64)
		r.byDate[dateKey] = day
	}

	if current, exists := day[entry.PlayerName]; exists && current <= entry.Score {
		return nil
	}
	day[entry.PlayerName] = entry.Score
	return nil
}

func (r *ScoreRepository) ListByDate(_ context.Context, dateKey string) ([]leaderboard.ScoreEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := r.byDate[dateKey]
	out := make([]leaderboard.ScoreEntry, 0, len(day))
	for name, score := range day {
		out = append(out, leaderboard.ScoreEntry{PlayerName: name, Score: score})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out, nil
}
