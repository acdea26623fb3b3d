package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rmachado/captcha-race/internal/platform/logging"
)

func newTestGenerator(renderer *stubRenderer, blobs *stubBlobStore, days *stubDayRepository, perDay int) *GeneratorService {
	svc := NewGeneratorService(renderer, blobs, days, logging.NewNop(), perDay)
	svc.now = func() time.Time { return time.Date(2025, 6, 22, 3, 0, 0, 0, time.UTC) }
	return svc
}

func TestGeneratorService_GenerateDailySet(t *testing.T) {
	t.Parallel()

	renderer := &stubRenderer{}
	blobs := newStubBlobStore()
	days := newStubDayRepository()
	svc := newTestGenerator(renderer, blobs, days, 10)

	set, err := svc.GenerateDailySet(context.Background(), "2025-06-22")
	if err != nil {
		t.Fatalf("GenerateDailySet: %v", err)
	}

	if set.Date != "2025-06-22" {
		t.Fatalf("date = %q", set.Date)
	}
	if len(set.Captchas) != 10 {
		t.Fatalf("expected 10 challenges, got %d", len(set.Captchas))
	}
	for i, c := range set.Captchas {
		if c.ChallengeNumber == "" || c.Solution == "" {
			t.Fatalf("challenge %d missing fields: %+v", i, c)
		}
		if !strings.HasPrefix(c.ImageURL, "https://storage.googleapis.com/test-bucket/captchas/2025-06-22-") {
			t.Fatalf("challenge %d image url = %q", i, c.ImageURL)
		}
	}
	// Solve order is the stored order.
	if set.Captchas[0].ChallengeNumber != "2025-06-22-0" || set.Captchas[9].ChallengeNumber != "2025-06-22-9" {
		t.Fatalf("unexpected ordering: first=%s last=%s", set.Captchas[0].ChallengeNumber, set.Captchas[9].ChallengeNumber)
	}

	if len(blobs.blobs) != 10 {
		t.Fatalf("expected 10 blob writes, got %d", len(blobs.blobs))
	}
	for path, ct := range blobs.types {
		if ct != "image/png" {
			t.Fatalf("blob %s content type = %q", path, ct)
		}
	}

	stored, ok, err := days.GetByDate(context.Background(), "2025-06-22")
	if err != nil || !ok {
		t.Fatalf("stored day set missing: ok=%v err=%v", ok, err)
	}
	if len(stored.Captchas) != 10 {
		t.Fatalf("stored %d challenges", len(stored.Captchas))
	}
}

func TestGeneratorService_RegenerationReplacesAnswers(t *testing.T) {
	t.Parallel()

	renderer := &stubRenderer{}
	blobs := newStubBlobStore()
	days := newStubDayRepository()
	svc := newTestGenerator(renderer, blobs, days, 5)

	first, err := svc.GenerateDailySet(context.Background(), "2025-06-22")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.GenerateDailySet(context.Background(), "2025-06-22")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	// Same key, fresh content: re-running a date changes the day's answers.
	if len(days.sets) != 1 {
		t.Fatalf("expected exactly one stored day set, got %d", len(days.sets))
	}
	for i := range first.Captchas {
		if first.Captchas[i].Solution == second.Captchas[i].Solution {
			t.Fatalf("challenge %d solution unchanged across regeneration: %q", i, first.Captchas[i].Solution)
		}
	}
}

func TestGeneratorService_KindSelection(t *testing.T) {
	t.Parallel()

	renderer := &stubRenderer{}
	svc := newTestGenerator(renderer, newStubBlobStore(), newStubDayRepository(), 6)
	svc.pickMath = func() bool { return true }

	if _, err := svc.GenerateDailySet(context.Background(), "2025-06-22"); err != nil {
		t.Fatalf("GenerateDailySet: %v", err)
	}
	if renderer.mathCalls != 6 || renderer.textCalls != 0 {
		t.Fatalf("math=%d text=%d, want 6/0", renderer.mathCalls, renderer.textCalls)
	}
}

func TestGeneratorService_InvalidDateKey(t *testing.T) {
	t.Parallel()

	svc := newTestGenerator(&stubRenderer{}, newStubBlobStore(), newStubDayRepository(), 3)
	if _, err := svc.GenerateDailySet(context.Background(), "22-06-2025"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGeneratorService_BlobFailureIsFatal(t *testing.T) {
	t.Parallel()

	blobs := newStubBlobStore()
	blobs.putErr = errors.New("bucket unavailable")
	days := newStubDayRepository()
	svc := newTestGenerator(&stubRenderer{}, blobs, days, 3)

	if _, err := svc.GenerateDailySet(context.Background(), "2025-06-22"); err == nil {
		t.Fatalf("expected upload failure to fail the run")
	}
	// No rollback, but also no partial day set record.
	if len(days.sets) != 0 {
		t.Fatalf("day set stored despite failed uploads")
	}
}

func TestGeneratorService_RenderFailureIsFatal(t *testing.T) {
	t.Parallel()

	renderer := &stubRenderer{renderErr: errors.New("font missing")}
	days := newStubDayRepository()
	svc := newTestGenerator(renderer, newStubBlobStore(), days, 3)

	if _, err := svc.GenerateDailySet(context.Background(), "2025-06-22"); err == nil {
		t.Fatalf("expected render failure to fail the run")
	}
	if len(days.sets) != 0 {
		t.Fatalf("day set stored despite render failure")
	}
}
