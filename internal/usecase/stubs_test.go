package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rmachado/captcha-race/internal/domain/challenge"
	"github.com/rmachado/captcha-race/internal/domain/leaderboard"
)

type stubDayRepository struct {
	mu         sync.Mutex
	sets       map[string]challenge.DaySet
	getErr     error
	replaceErr error
}

func newStubDayRepository() *stubDayRepository {
	return &stubDayRepository{sets: make(map[string]challenge.DaySet)}
}

func (r *stubDayRepository) GetByDate(_ context.Context, dateKey string) (challenge.DaySet, bool, error) {
	if r.getErr != nil {
		return challenge.DaySet{}, false, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[dateKey]
	return set, ok, nil
}

func (r *stubDayRepository) Replace(_ context.Context, set challenge.DaySet) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[set.Date] = set
	return nil
}

type stubBlobStore struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	types  map[string]string
	putErr error
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{
		blobs: make(map[string][]byte),
		types: make(map[string]string),
	}
}

func (b *stubBlobStore) Put(_ context.Context, path string, data []byte, contentType string) error {
	if b.putErr != nil {
		return b.putErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[path] = data
	b.types[path] = contentType
	return nil
}

func (b *stubBlobStore) ObjectURL(path string) string {
	return "https://storage.googleapis.com/test-bucket/" + path
}

// stubRenderer hands out a fresh solution on every call, so two generations
// of the same day never coincide.
type stubRenderer struct {
	mu        sync.Mutex
	calls     int
	mathCalls int
	textCalls int
	renderErr error
}

func (r *stubRenderer) RenderText(context.Context) (challenge.Rendered, error) {
	return r.render("text", &r.textCalls)
}

func (r *stubRenderer) RenderMath(context.Context) (challenge.Rendered, error) {
	return r.render("math", &r.mathCalls)
}

func (r *stubRenderer) render(kind string, counter *int) (challenge.Rendered, error) {
	if r.renderErr != nil {
		return challenge.Rendered{}, r.renderErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	*counter++
	return challenge.Rendered{
		Image:       []byte{0x89, 'P', 'N', 'G', byte(r.calls)},
		Solution:    fmt.Sprintf("%s-%d", kind, r.calls),
		ContentType: "image/png",
	}, nil
}

type stubScoreRepository struct {
	mu      sync.Mutex
	byDate  map[string]map[string]float64
	listErr error
}

func newStubScoreRepository() *stubScoreRepository {
	return &stubScoreRepository{byDate: make(map[string]map[string]float64)}
}

func (r *stubScoreRepository) UpsertIfBetter(_ context.Context, dateKey string, entry leaderboard.ScoreEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	day, ok := r.byDate[dateKey]
	if !ok {
		day = make(map[string]float64)
		r.byDate[dateKey] = day
	}
	existing, ok := day[entry.PlayerName]
	if !ok || entry.Score < existing {
		day[entry.PlayerName] = entry.Score
	}
	return nil
}

func (r *stubScoreRepository) ListByDate(_ context.Context, dateKey string) ([]leaderboard.ScoreEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	day := r.byDate[dateKey]
	out := make([]leaderboard.ScoreEntry, 0, len(day))
	for name, score := range day {
		out = append(out, leaderboard.ScoreEntry{PlayerName: name, Score: score})
	}
	return out, nil
}
