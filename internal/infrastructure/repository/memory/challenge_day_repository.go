package memory

import (
	"context"
	"sync"

	"github.com/rmachado/captcha-race/internal/domain/challenge"
)

// ChallengeDayRepository keeps day sets in process memory. Used for local
// development and tests where no database is configured.
type ChallengeDayRepository struct {
	mu   sync.RWMutex
	days map[string]challenge.DaySet
}

func NewChallengeDayRepository() *ChallengeDayRepository {
	return &ChallengeDayRepository{days: make(map[string]challenge.DaySet)}
}

func (r *ChallengeDayRepository) GetByDate(_ context.Context, dateKey string) (challenge.DaySet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.days[dateKey]
	if !ok {
		return challenge.DaySet{}, false, nil
	}

	copied := challenge.DaySet{
		Date:     set.Date,
		Captchas: append([]challenge.Challenge(nil), set.Captchas...),
	}
	return copied, true, nil
}

func (r *ChallengeDayRepository) Replace(_ context.Context, set challenge.DaySet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.days[set.Date] = challenge.DaySet{
		Date:     set.Date,
		Captchas: append([]challenge.Challenge(nil), set.Captchas...),
	}
	return nil
}
