package mood

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	moodModel "github.com/zenstudent/backend/internal/model/mood"
	"github.com/zenstudent/backend/internal/model/profile"
	moodService "github.com/zenstudent/backend/internal/service/mood"
	"github.com/zenstudent/backend/internal/store"
)

type recordingCompanion struct {
	notes []string
}

func (c *recordingCompanion) AppendCompanionNote(_ context.Context, text string) error {
	c.notes = append(c.notes, text)
	return nil
}

type fixedProfiles struct{}

func (fixedProfiles) Current() profile.Profile { return profile.Default() }

func setupRouter(t *testing.T) (*chi.Mux, *recordingCompanion) {
	t.Helper()
	ledger := moodService.NewLedger(store.NewMemoryStore(),
		moodService.DefaultCapacity, moodService.DefaultMinScore, moodService.DefaultMaxScore)
	if err := ledger.Load(context.Background()); err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	companion := &recordingCompanion{}
	handler := New(ledger, companion, fixedProfiles{})

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, companion
}

func TestRecordMoodAppendsAcknowledgement(t *testing.T) {
	r, companion := setupRouter(t)
	payload := []byte(`{"score": 4}`)

	req := httptest.NewRequest(http.MethodPost, "/mood", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var entry moodModel.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if entry.Score != 4 {
		t.Fatalf("expected score 4, got %d", entry.Score)
	}
	if len(companion.notes) != 1 {
		t.Fatalf("expected one acknowledgement note, got %d", len(companion.notes))
	}
}

func TestRecordMoodRejectsOutOfRangeScore(t *testing.T) {
	r, companion := setupRouter(t)
	payload := []byte(`{"score": 9}`)

	req := httptest.NewRequest(http.MethodPost, "/mood", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(companion.notes) != 0 {
		t.Fatalf("expected no acknowledgement, got %d", len(companion.notes))
	}
}

func TestRecordMoodRequiresScore(t *testing.T) {
	r, _ := setupRouter(t)
	payload := []byte(`{}`)

	req := httptest.NewRequest(http.MethodPost, "/mood", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestMoodHistoryStartsEmpty(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/mood", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
