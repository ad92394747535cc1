package mood_test

import (
	"context"
	"errors"
	"testing"

	moodservice "github.com/zenstudent/backend/internal/service/mood"
	"github.com/zenstudent/backend/internal/store"
)

func TestRecordAndHistoryOrder(t *testing.T) {
	ledger := moodservice.NewLedger(store.NewMemoryStore(), 10, 0, 5)
	ctx := context.Background()

	for _, score := range []int{2, 4, 1} {
		if _, err := ledger.Record(ctx, score); err != nil {
			t.Fatalf("Record(%d) err: %v", score, err)
		}
	}

	history := ledger.History()
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	for i, want := range []int{2, 4, 1} {
		if history[i].Score != want {
			t.Fatalf("entry %d: got score %d want %d", i, history[i].Score, want)
		}
	}
}

func TestRecordEvictsOldestBeyondCapacity(t *testing.T) {
	ledger := moodservice.NewLedger(store.NewMemoryStore(), 10, 0, 5)
	ctx := context.Background()

	first, err := ledger.Record(ctx, 0)
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := ledger.Record(ctx, (i+1)%6); err != nil {
			t.Fatalf("Record err: %v", err)
		}
	}

	history := ledger.History()
	if len(history) != 10 {
		t.Fatalf("expected capacity of 10 entries, got %d", len(history))
	}
	for _, entry := range history {
		if entry.ID == first.ID {
			t.Fatal("oldest entry must be evicted on overflow")
		}
	}
}

func TestRecordRejectsOutOfRangeScore(t *testing.T) {
	ledger := moodservice.NewLedger(store.NewMemoryStore(), 10, 0, 5)
	ctx := context.Background()

	for _, score := range []int{-1, 6, 42} {
		if _, err := ledger.Record(ctx, score); !errors.Is(err, moodservice.ErrScoreOutOfRange) {
			t.Fatalf("Record(%d): expected ErrScoreOutOfRange, got %v", score, err)
		}
	}
	if len(ledger.History()) != 0 {
		t.Fatal("rejected scores must not change the ledger")
	}
}

func TestLoadRestoresPersistedEntries(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()

	ledger := moodservice.NewLedger(kv, 10, 0, 5)
	recorded, err := ledger.Record(ctx, 3)
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}

	reloaded := moodservice.NewLedger(kv, 10, 0, 5)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load err: %v", err)
	}

	history := reloaded.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 restored entry, got %d", len(history))
	}
	got := history[0]
	if got.ID != recorded.ID || got.Score != recorded.Score {
		t.Fatalf("restored entry mismatch: %+v vs %+v", got, recorded)
	}
	if !got.CreatedAt.Equal(recorded.CreatedAt) {
		t.Fatalf("timestamp did not round-trip: %v vs %v", got.CreatedAt, recorded.CreatedAt)
	}
}
