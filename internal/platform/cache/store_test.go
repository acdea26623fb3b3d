package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(time.Minute)

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	s.Set(ctx, "k", 42)
	v, ok := s.Get(ctx, "k")
	if !ok || v != 42 {
		t.Fatalf("got %v ok=%v", v, ok)
	}

	s.Delete(ctx, "k")
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(10 * time.Millisecond)

	s.Set(ctx, "k", "v")
	time.Sleep(25 * time.Millisecond)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_GetOrLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(time.Minute)

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		v, err := s.GetOrLoad(ctx, "k", loader)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if v != "loaded" {
			t.Fatalf("got %v", v)
		}
	}
	if loads != 1 {
		t.Fatalf("loader ran %d times, want 1", loads)
	}
}

func TestStore_GetOrLoad_ErrorNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(time.Minute)

	boom := errors.New("boom")
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return "ok", nil
	}

	if _, err := s.GetOrLoad(ctx, "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	v, err := s.GetOrLoad(ctx, "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("second call: v=%v err=%v", v, err)
	}
}
