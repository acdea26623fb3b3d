package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rmachado/captcha-race/internal/domain/challenge"
	"github.com/rmachado/captcha-race/internal/platform/logging"
)

const (
	defaultChallengesPerDay = 10
	defaultUploadWorkers    = 4
	blobPathPrefix          = "captchas/"
)

// GeneratorService produces the full challenge set for one calendar day:
// N rendered images in blob storage plus a single aggregate DaySet record.
//
// There is no rollback. A failure partway through leaves orphaned blobs and
// no DaySet; the invocation fails and the scheduler's retry is the recovery
// path. Re-running for the same date regenerates everything, so the day's
// answers change even though the record key does not.
type GeneratorService struct {
	renderer      challenge.Renderer
	blobs         challenge.BlobStore
	days          challenge.Repository
	logger        *logging.Logger
	perDay        int
	uploadWorkers int
	now           func() time.Time
	pickMath      func() bool
}

func NewGeneratorService(
	renderer challenge.Renderer,
	blobs challenge.BlobStore,
	days challenge.Repository,
	logger *logging.Logger,
	challengesPerDay int,
) *GeneratorService {
	if logger == nil {
		logger = logging.NewNop()
	}
	if challengesPerDay <= 0 {
		challengesPerDay = defaultChallengesPerDay
	}

	return &GeneratorService{
		renderer:      renderer,
		blobs:         blobs,
		days:          days,
		logger:        logger,
		perDay:        challengesPerDay,
		uploadWorkers: defaultUploadWorkers,
		now:           time.Now,
		pickMath:      func() bool { return rand.IntN(2) == 0 },
	}
}

type renderedItem struct {
	index    int
	path     string
	rendered challenge.Rendered
}

func (s *GeneratorService) GenerateDailySet(ctx context.Context, dateKey string) (challenge.DaySet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GeneratorService.GenerateDailySet")
	defer span.End()

	dateKey = strings.TrimSpace(dateKey)
	if !challenge.ValidDateKey(dateKey) {
		return challenge.DaySet{}, fmt.Errorf("%w: invalid date key %q", ErrInvalidInput, dateKey)
	}

	items := make([]renderedItem, 0, s.perDay)
	for i := 0; i < s.perDay; i++ {
		kind := challenge.KindText
		render := s.renderer.RenderText
		if s.pickMath() {
			kind = challenge.KindMath
			render = s.renderer.RenderMath
		}

		rendered, err := render(ctx)
		if err != nil {
			return challenge.DaySet{}, fmt.Errorf("render %s challenge %d: %w", kind, i, err)
		}

		items = append(items, renderedItem{
			index:    i,
			path:     blobPathPrefix + challenge.Number(dateKey, i) + imageExtension(rendered.ContentType),
			rendered: rendered,
		})
	}

	if err := s.uploadAll(ctx, items); err != nil {
		return challenge.DaySet{}, err
	}

	createdAt := s.now().UTC()
	captchas := make([]challenge.Challenge, 0, len(items))
	for _, item := range items {
		captchas = append(captchas, challenge.Challenge{
			ChallengeNumber: challenge.Number(dateKey, item.index),
			CreatedAt:       createdAt,
			ImageURL:        s.blobs.ObjectURL(item.path),
			Solution:        item.rendered.Solution,
		})
	}

	set := challenge.DaySet{Date: dateKey, Captchas: captchas}
	if err := set.Validate(); err != nil {
		return challenge.DaySet{}, fmt.Errorf("generated day set: %w", err)
	}

	if err := s.days.Replace(ctx, set); err != nil {
		return challenge.DaySet{}, fmt.Errorf("store day set %s: %w", dateKey, err)
	}

	s.logger.InfoContext(ctx, "daily challenge set generated",
		"date", dateKey,
		"challenges", len(captchas),
	)

	return set, nil
}

// uploadAll writes the rendered images concurrently. The writes are
// independent, so order does not matter; the first failure fails the run.
func (s *GeneratorService) uploadAll(ctx context.Context, items []renderedItem) error {
	workers := s.uploadWorkers
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("create upload pool: %w", err)
	}
	defer pool.Release()

	errs := make(chan error, len(items))
	var wg sync.WaitGroup
	for _, item := range items {
		item := item
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := s.blobs.Put(ctx, item.path, item.rendered.Image, item.rendered.ContentType); err != nil {
				errs <- fmt.Errorf("upload blob %s: %w", item.path, err)
			}
		}); err != nil {
			wg.Done()
			return fmt.Errorf("submit upload to pool: %w", err)
		}
	}

	wg.Wait()
	close(errs)

	return <-errs
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".png"
	}
}
