package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zenstudent/backend/internal/analysis/risk"
	"github.com/zenstudent/backend/internal/model/chat"
	"github.com/zenstudent/backend/internal/model/profile"
	"github.com/zenstudent/backend/internal/service/notify"
	"github.com/zenstudent/backend/internal/store"
)

var (
	ErrEmptyMessage = errors.New("message text is empty")
	ErrSendInFlight = errors.New("a send is already in flight")
)

// Responder produces the next companion reply. Implementations must always
// return a usable string; failures degrade to a fallback message instead of
// an error so a broken upstream can never wedge the session.
type Responder interface {
	GenerateReply(ctx context.Context, history []chat.Message, userMessage, lang string) string
}

// Escalator receives the crisis handoff when a message classifies high risk.
// The built payload is the escalator's concern; the coordinator ignores it.
type Escalator interface {
	OnHighRisk(ctx context.Context, p profile.Profile) notify.Payload
}

// Profiles exposes read access to the session profile.
type Profiles interface {
	Current() profile.Profile
}

// Coordinator owns the message log and orchestrates one conversation turn:
// classify, append, escalate, ask the responder, append the reply. At most
// one send may be in flight per session.
type Coordinator struct {
	kv        store.KV
	responder Responder
	crisis    Escalator
	profiles  Profiles
	window    int

	mu       sync.Mutex
	messages []chat.Message
	inFlight bool
}

// NewCoordinator builds a coordinator with a bounded context window of the
// last `window` messages per upstream request.
func NewCoordinator(kv store.KV, responder Responder, crisis Escalator, profiles Profiles, window int) *Coordinator {
	if window <= 0 {
		window = 8
	}
	return &Coordinator{
		kv:        kv,
		responder: responder,
		crisis:    crisis,
		profiles:  profiles,
		window:    window,
	}
}

// Load restores the persisted message log, seeding the companion greeting
// when the log is empty.
func (c *Coordinator) Load(ctx context.Context) error {
	blob, ok, err := c.kv.Get(ctx, store.KeyMessages)
	if err != nil {
		return fmt.Errorf("failed to load message log: %w", err)
	}

	var messages []chat.Message
	if ok {
		if err := json.Unmarshal(blob, &messages); err != nil {
			return fmt.Errorf("failed to decode message log: %w", err)
		}
	}

	c.mu.Lock()
	c.messages = messages
	c.mu.Unlock()

	if len(messages) == 0 {
		return c.AppendCompanionNote(ctx, greeting(c.profiles.Current().Language))
	}
	return nil
}

// Send runs one conversation turn. Empty text and concurrent sends are
// rejected without touching the log.
func (c *Coordinator) Send(ctx context.Context, text string) (userMsg, reply chat.Message, err error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return chat.Message{}, chat.Message{}, ErrEmptyMessage
	}

	p := c.profiles.Current()
	verdict := risk.Classify(trimmed, p.Language)

	userMsg = chat.Message{
		ID:        uuid.NewString(),
		Role:      chat.RoleUser,
		Text:      trimmed,
		HighRisk:  verdict.HighRisk,
		CreatedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return chat.Message{}, chat.Message{}, ErrSendInFlight
	}
	c.inFlight = true
	c.messages = append(c.messages, userMsg)
	history := c.windowLocked()
	snapshot := append([]chat.Message(nil), c.messages...)
	c.mu.Unlock()

	// The guard must be released on every path so a failed turn never
	// blocks future sends.
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	c.persist(ctx, snapshot)

	if verdict.HighRisk {
		log.Printf("[session] high-risk message detected, escalating")
		c.crisis.OnHighRisk(ctx, p)
	}

	replyText := c.responder.GenerateReply(ctx, history, trimmed, p.Language)
	reply = chat.Message{
		ID:        uuid.NewString(),
		Role:      chat.RoleAssistant,
		Text:      replyText,
		CreatedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	c.messages = append(c.messages, reply)
	snapshot = append([]chat.Message(nil), c.messages...)
	c.mu.Unlock()

	c.persist(ctx, snapshot)
	return userMsg, reply, nil
}

// Messages returns a copy of the full log in append order.
func (c *Coordinator) Messages() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chat.Message(nil), c.messages...)
}

// AppendCompanionNote appends an assistant-authored message outside the
// normal turn flow, e.g. the greeting or a mood acknowledgement.
func (c *Coordinator) AppendCompanionNote(ctx context.Context, text string) error {
	note := chat.Message{
		ID:        uuid.NewString(),
		Role:      chat.RoleAssistant,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	c.messages = append(c.messages, note)
	snapshot := append([]chat.Message(nil), c.messages...)
	c.mu.Unlock()

	c.persist(ctx, snapshot)
	return nil
}

// windowLocked returns the bounded context for the upstream request: the
// last `window` messages preceding the just-appended user message, plus the
// user message itself. Callers must hold c.mu.
func (c *Coordinator) windowLocked() []chat.Message {
	total := len(c.messages)
	start := total - 1 - c.window
	if start < 0 {
		start = 0
	}
	return append([]chat.Message(nil), c.messages[start:]...)
}

func (c *Coordinator) persist(ctx context.Context, messages []chat.Message) {
	blob, err := json.Marshal(messages)
	if err != nil {
		log.Printf("[session] failed to encode message log: %v", err)
		return
	}
	if err := c.kv.Set(ctx, store.KeyMessages, blob); err != nil {
		log.Printf("[session] failed to persist message log: %v", err)
	}
}

func greeting(lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), "ru") {
		return "Привет! Я ZenStudent. Я здесь, чтобы поддержать тебя. О чем ты думаешь сейчас?"
	}
	return "Hi! I'm ZenStudent. I'm here to support you. What's on your mind right now?"
}
