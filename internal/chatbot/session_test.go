package chatbot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreAppendAndHistory(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		turn := Turn{
			Message:   fmt.Sprintf("message %d", i),
			Response:  "ok",
			Intent:    "general",
			Timestamp: time.Date(2026, 3, 1, 10, i, 0, 0, time.UTC),
		}
		if err := store.Append(ctx, "s1", turn); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d turns, want 3", len(history))
	}
	for i, turn := range history {
		if want := fmt.Sprintf("message %d", i); turn.Message != want {
			t.Errorf("turn[%d] = %q, want %q", i, turn.Message, want)
		}
	}
}

func TestRedisStoreTrimsOldestFirst(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	for i := 0; i < maxTurns+5; i++ {
		turn := Turn{Message: fmt.Sprintf("message %d", i)}
		if err := store.Append(ctx, "s1", turn); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != maxTurns {
		t.Fatalf("got %d turns, want %d", len(history), maxTurns)
	}
	if history[0].Message != "message 5" {
		t.Errorf("oldest retained = %q, want message 5", history[0].Message)
	}
	if history[len(history)-1].Message != fmt.Sprintf("message %d", maxTurns+4) {
		t.Errorf("newest = %q", history[len(history)-1].Message)
	}
}

func TestRedisStoreSessionsIsolated(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "a", Turn{Message: "for a"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, "b", Turn{Message: "for b"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	historyA, err := store.History(ctx, "a")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(historyA) != 1 || historyA[0].Message != "for a" {
		t.Errorf("session a history = %+v", historyA)
	}
}

func TestMemoryStoreTrims(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < maxTurns+2; i++ {
		if err := store.Append(ctx, "s1", Turn{Message: fmt.Sprintf("message %d", i)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != maxTurns {
		t.Fatalf("got %d turns, want %d", len(history), maxTurns)
	}
	if history[0].Message != "message 2" {
		t.Errorf("oldest retained = %q, want message 2", history[0].Message)
	}
}
