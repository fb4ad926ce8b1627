package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisKV(t *testing.T) *RedisKV {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := NewRedisKV(mr.Addr(), 0)
	t.Cleanup(func() {
		if err := kv.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return kv
}

func TestRedisKV(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		kv := newTestRedisKV(t)
		if _, err := kv.Get(ctx, "board"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set then get round trips", func(t *testing.T) {
		kv := newTestRedisKV(t)
		want := []byte(`{"schema_version":1,"tasks":[]}`)
		if err := kv.Set(ctx, "board", want); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := kv.Get(ctx, "board")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Get: got %q, want %q", got, want)
		}
	})

	t.Run("set replaces the previous value", func(t *testing.T) {
		kv := newTestRedisKV(t)
		if err := kv.Set(ctx, "board", []byte("first")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := kv.Set(ctx, "board", []byte("second")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := kv.Get(ctx, "board")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "second" {
			t.Errorf("Get: got %q, want %q", got, "second")
		}
	})
}
