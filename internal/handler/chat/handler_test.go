package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/zenstudent/backend/internal/model/chat"
	"github.com/zenstudent/backend/internal/model/profile"
	"github.com/zenstudent/backend/internal/service/notify"
	sessionService "github.com/zenstudent/backend/internal/service/session"
	"github.com/zenstudent/backend/internal/store"
)

type staticResponder struct{}

func (staticResponder) GenerateReply(_ context.Context, _ []chatModel.Message, _, _ string) string {
	return "I hear you."
}

type noopEscalator struct{}

func (noopEscalator) OnHighRisk(_ context.Context, _ profile.Profile) notify.Payload {
	return notify.Payload{}
}

type fixedProfiles struct{}

func (fixedProfiles) Current() profile.Profile { return profile.Default() }

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	coordinator := sessionService.NewCoordinator(
		store.NewMemoryStore(), staticResponder{}, noopEscalator{}, fixedProfiles{}, 8)
	if err := coordinator.Load(context.Background()); err != nil {
		t.Fatalf("load coordinator: %v", err)
	}
	handler := New(coordinator)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestSendMessageReturnsPair(t *testing.T) {
	r := setupRouter(t)
	payload, _ := json.Marshal(map[string]string{"text": "hard day at school"})

	req := httptest.NewRequest(http.MethodPost, "/chat/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var body struct {
		UserMessage chatModel.Message `json:"userMessage"`
		Reply       chatModel.Message `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.UserMessage.Text != "hard day at school" {
		t.Fatalf("unexpected user message text: %q", body.UserMessage.Text)
	}
	if body.Reply.Text != "I hear you." {
		t.Fatalf("unexpected reply text: %q", body.Reply.Text)
	}
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	r := setupRouter(t)
	payload := []byte(`{"text": "   "}`)

	req := httptest.NewRequest(http.MethodPost, "/chat/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestListMessagesIncludesGreeting(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/chat/messages", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var messages []chatModel.Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected seeded greeting only, got %d messages", len(messages))
	}
	if messages[0].Role != chatModel.RoleAssistant {
		t.Fatalf("expected assistant greeting, got role %q", messages[0].Role)
	}
}
