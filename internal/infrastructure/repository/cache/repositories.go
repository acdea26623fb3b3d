package cache

import (
	"context"

	"github.com/rmachado/captcha-race/internal/domain/challenge"
	basecache "github.com/rmachado/captcha-race/internal/platform/cache"
)

// ChallengeDayRepository is a read-through cache in front of the day-set
// store. Replace writes through and drops the cached day so readers see the
// regenerated set immediately.
type ChallengeDayRepository struct {
	next  challenge.Repository
	cache *basecache.Store
}

func NewChallengeDayRepository(next challenge.Repository, cache *basecache.Store) *ChallengeDayRepository {
	return &ChallengeDayRepository{next: next, cache: cache}
}

func dayKey(dateKey string) string {
	return "challenge:day:" + dateKey
}

func (r *ChallengeDayRepository) GetByDate(ctx context.Context, dateKey string) (challenge.DaySet, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, dayKey(dateKey), func(ctx context.Context) (any, error) {
		set, exists, err := r.next.GetByDate(ctx, dateKey)
		if err != nil {
			return nil, err
		}
		return cachedDaySet{value: set, exists: exists}, nil
	})
	if err != nil {
		return challenge.DaySet{}, false, err
	}

	cached, _ := v.(cachedDaySet)
	return cached.value, cached.exists, nil
}

func (r *ChallengeDayRepository) Replace(ctx context.Context, set challenge.DaySet) error {
	if err := r.next.Replace(ctx, set); err != nil {
		return err
	}
	r.cache.Delete(ctx, dayKey(set.Date))
	return nil
}

type cachedDaySet struct {
	value  challenge.DaySet
	exists bool
}
