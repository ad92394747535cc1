package mood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zenstudent/backend/internal/model/mood"
	"github.com/zenstudent/backend/internal/store"
)

var ErrScoreOutOfRange = errors.New("mood score out of range")

// Defaults match the product configuration: scores 0..5, ten retained entries.
const (
	DefaultCapacity = 10
	DefaultMinScore = 0
	DefaultMaxScore = 5
)

// Ledger is the bounded, ordered record of mood samples. Insertion order
// defines recency; overflowing the capacity evicts the chronologically
// oldest entry.
type Ledger struct {
	kv       store.KV
	capacity int
	minScore int
	maxScore int

	mu      sync.RWMutex
	entries []mood.Entry
}

// NewLedger builds a ledger persisting through kv. Non-positive capacity
// falls back to the default.
func NewLedger(kv store.KV, capacity, minScore, maxScore int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxScore <= minScore {
		minScore, maxScore = DefaultMinScore, DefaultMaxScore
	}
	return &Ledger{kv: kv, capacity: capacity, minScore: minScore, maxScore: maxScore}
}

// Load restores previously persisted entries. A missing key leaves the
// ledger empty.
func (l *Ledger) Load(ctx context.Context) error {
	blob, ok, err := l.kv.Get(ctx, store.KeyMoods)
	if err != nil {
		return fmt.Errorf("failed to load mood ledger: %w", err)
	}
	if !ok {
		return nil
	}

	var entries []mood.Entry
	if err := json.Unmarshal(blob, &entries); err != nil {
		return fmt.Errorf("failed to decode mood ledger: %w", err)
	}

	l.mu.Lock()
	l.entries = entries
	l.trimLocked()
	l.mu.Unlock()
	return nil
}

// Record validates and stores one mood sample. Out-of-range scores are
// rejected, never clamped.
func (l *Ledger) Record(ctx context.Context, score int) (mood.Entry, error) {
	if score < l.minScore || score > l.maxScore {
		return mood.Entry{}, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrScoreOutOfRange, score, l.minScore, l.maxScore)
	}

	entry := mood.Entry{
		ID:        uuid.NewString(),
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.trimLocked()
	snapshot := append([]mood.Entry(nil), l.entries...)
	l.mu.Unlock()

	if err := l.persist(ctx, snapshot); err != nil {
		return entry, err
	}
	return entry, nil
}

// History returns the retained entries, oldest first.
func (l *Ledger) History() []mood.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]mood.Entry(nil), l.entries...)
}

// MaxScore exposes the upper bound for user-facing confirmations.
func (l *Ledger) MaxScore() int { return l.maxScore }

func (l *Ledger) trimLocked() {
	if overflow := len(l.entries) - l.capacity; overflow > 0 {
		l.entries = append(l.entries[:0:0], l.entries[overflow:]...)
	}
}

func (l *Ledger) persist(ctx context.Context, entries []mood.Entry) error {
	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode mood ledger: %w", err)
	}
	if err := l.kv.Set(ctx, store.KeyMoods, blob); err != nil {
		return fmt.Errorf("failed to persist mood ledger: %w", err)
	}
	return nil
}
