package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/leavehub/leavehub/internal/cache"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	c.Set(ctx, "k", []byte(`{"items":[]}`))

	got, ok := c.Get(ctx, "k")

	if !ok {
		t.Fatalf("expected hit after Set")
	}

	if string(got) != `{"items":[]}` {
		t.Errorf("got %q", got)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(10 * time.Millisecond)

	c.Set(ctx, "k", []byte("v"))

	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3"))

	c.Delete(ctx, "a", "b")

	if _, ok := c.Get(ctx, "a"); ok {
		t.Errorf("a survived Delete")
	}

	if _, ok := c.Get(ctx, "b"); ok {
		t.Errorf("b survived Delete")
	}

	if _, ok := c.Get(ctx, "c"); !ok {
		t.Errorf("c deleted unexpectedly")
	}
}
