package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rmachado/captcha-race/internal/domain/race"
	"github.com/rmachado/captcha-race/internal/platform/logging"
)

// raceFixture wires a race service against stub stores with a controllable
// clock and a ticker interval long enough that tests drive advance directly.
type raceFixture struct {
	svc     *RaceService
	days    *stubDayRepository
	scores  *stubScoreRepository
	current time.Time
}

func newRaceFixture(t *testing.T) *raceFixture {
	t.Helper()

	days := newStubDayRepository()
	scores := newStubScoreRepository()

	f := &raceFixture{
		days:    days,
		scores:  scores,
		current: time.Date(2025, 6, 22, 15, 0, 0, 0, time.UTC),
	}

	challengeSvc := NewChallengeService(days, logging.NewNop(), testMediaBaseURL, 300, 120, time.UTC)
	challengeSvc.now = func() time.Time { return f.current }
	boardSvc := NewLeaderboardService(scores, logging.NewNop(), time.UTC)
	boardSvc.now = func() time.Time { return f.current }

	f.svc = NewRaceService(challengeSvc, boardSvc, nil, logging.NewNop())
	f.svc.now = func() time.Time { return f.current }
	f.svc.tick = time.Hour
	t.Cleanup(f.svc.Close)

	return f
}

func (f *raceFixture) countdownToStart(t *testing.T, raceID string) {
	t.Helper()
	for i := 0; i < race.CountdownStart; i++ {
		f.svc.advance(raceID)
	}
}

func TestRaceService_FullRace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRaceFixture(t)
	seedDay(t, f.days, "2025-06-22", 3)

	view, err := f.svc.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.State != "countdown" || view.ChallengeTotal != 3 {
		t.Fatalf("created view = %+v", view)
	}

	f.countdownToStart(t, view.ID)
	got, err := f.svc.Get(ctx, view.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != "in_progress" || got.ChallengeIndex != 0 {
		t.Fatalf("after countdown: %+v", got)
	}
	if got.CurrentImageURL == "" {
		t.Fatalf("expected current image url while in progress")
	}

	// A wrong answer costs nothing but the running clock.
	f.current = f.current.Add(2 * time.Second)
	outcome, err := f.svc.SubmitAnswer(ctx, view.ID, "wrong")
	if err != nil {
		t.Fatalf("wrong answer: %v", err)
	}
	if outcome.Correct || outcome.Completed {
		t.Fatalf("wrong answer outcome = %+v", outcome)
	}

	f.current = f.current.Add(3 * time.Second)
	if outcome, err = f.svc.SubmitAnswer(ctx, view.ID, "sol2025-06-22-0"); err != nil || !outcome.Correct || outcome.Completed {
		t.Fatalf("first solve: outcome=%+v err=%v", outcome, err)
	}
	f.current = f.current.Add(3 * time.Second)
	if outcome, err = f.svc.SubmitAnswer(ctx, view.ID, "SOL2025-06-22-1"); err != nil || !outcome.Correct {
		t.Fatalf("second solve: outcome=%+v err=%v", outcome, err)
	}

	f.current = f.current.Add(6500 * time.Millisecond)
	outcome, err = f.svc.SubmitAnswer(ctx, view.ID, "sol2025-06-22-2")
	if err != nil {
		t.Fatalf("final solve: %v", err)
	}
	if !outcome.Completed {
		t.Fatalf("final outcome = %+v", outcome)
	}
	// 2 + 3 + 3 + 6.5 seconds since the countdown finished.
	if outcome.Score != 14.5 {
		t.Fatalf("score = %v, want 14.5", outcome.Score)
	}
	if outcome.Rank != 1 {
		t.Fatalf("rank = %d, want 1", outcome.Rank)
	}

	got, err = f.svc.Get(ctx, view.ID)
	if err != nil {
		t.Fatalf("get after completion: %v", err)
	}
	if got.State != "complete" || got.Score != 14.5 || got.Rank != 1 {
		t.Fatalf("final view = %+v", got)
	}

	entries, err := f.scores.ListByDate(ctx, "2025-06-22")
	if err != nil || len(entries) != 1 || entries[0].Score != 14.5 {
		t.Fatalf("stored entries = %+v err=%v", entries, err)
	}
}

func TestRaceService_EmptyDayStallsInAwaiting(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRaceFixture(t)

	view, err := f.svc.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.State != "awaiting_challenges" {
		t.Fatalf("state = %s", view.State)
	}

	// No challenge set: ticks keep waiting, no timeout.
	for i := 0; i < 10; i++ {
		f.svc.advance(view.ID)
	}
	got, err := f.svc.Get(ctx, view.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != "awaiting_challenges" {
		t.Fatalf("state after ticks = %s", got.State)
	}

	// Once the generator publishes the day, the next tick picks it up.
	seedDay(t, f.days, "2025-06-22", 2)
	f.svc.advance(view.ID)
	got, err = f.svc.Get(ctx, view.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != "countdown" || got.ChallengeTotal != 2 {
		t.Fatalf("after late attach: %+v", got)
	}
}

func TestRaceService_SubmitBeforeStart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRaceFixture(t)
	seedDay(t, f.days, "2025-06-22", 1)

	view, err := f.svc.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Still counting down.
	if _, err := f.svc.SubmitAnswer(ctx, view.ID, "sol2025-06-22-0"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput during countdown, got %v", err)
	}
}

func TestRaceService_UnknownRace(t *testing.T) {
	t.Parallel()

	f := newRaceFixture(t)
	if _, err := f.svc.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.SubmitAnswer(context.Background(), "nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRaceService_EmptyAnswerRejected(t *testing.T) {
	t.Parallel()

	f := newRaceFixture(t)
	if _, err := f.svc.SubmitAnswer(context.Background(), "any", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRaceService_SessionExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRaceFixture(t)
	seedDay(t, f.days, "2025-06-22", 1)
	f.svc.sessionTTL = time.Minute

	view, err := f.svc.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.current = f.current.Add(2 * time.Minute)
	if done := f.svc.advance(view.ID); !done {
		t.Fatalf("expected expired session to stop its ticker")
	}
	if _, err := f.svc.Get(ctx, view.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRaceService_CompletedSessionExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRaceFixture(t)
	seedDay(t, f.days, "2025-06-22", 1)
	f.svc.sessionTTL = time.Minute

	view, err := f.svc.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.countdownToStart(t, view.ID)
	f.current = f.current.Add(5 * time.Second)
	outcome, err := f.svc.SubmitAnswer(ctx, view.ID, "sol2025-06-22-0")
	if err != nil || !outcome.Completed {
		t.Fatalf("solve: outcome=%+v err=%v", outcome, err)
	}

	// The completed session stays readable and its ticker keeps running
	// until the TTL passes.
	if done := f.svc.advance(view.ID); done {
		t.Fatal("ticker stopped before the session ttl")
	}
	if _, err := f.svc.Get(ctx, view.ID); err != nil {
		t.Fatalf("get completed session: %v", err)
	}

	f.current = f.current.Add(2 * time.Minute)
	if done := f.svc.advance(view.ID); !done {
		t.Fatal("expected expired session to stop its ticker")
	}
	if _, err := f.svc.Get(ctx, view.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRaceService_ExpiredSessionNotFoundBeforeSweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRaceFixture(t)
	seedDay(t, f.days, "2025-06-22", 1)
	f.svc.sessionTTL = time.Minute

	view, err := f.svc.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// No tick has run since the TTL passed; the lookup itself must treat
	// the session as gone.
	f.current = f.current.Add(2 * time.Minute)
	if _, err := f.svc.Get(ctx, view.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
	if _, err := f.svc.SubmitAnswer(ctx, view.ID, "sol2025-06-22-0"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from submit, got %v", err)
	}
}

func TestRaceService_InvalidPlayerName(t *testing.T) {
	t.Parallel()

	f := newRaceFixture(t)
	if _, err := f.svc.Create(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
