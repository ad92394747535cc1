package crisis

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/zenstudent/backend/internal/model/profile"
	"github.com/zenstudent/backend/internal/service/notify"
)

// Placeholders used when the user configured no trusted contact. Payload
// construction must not fail even with zero contacts.
const (
	placeholderName    = "trusted contact"
	placeholderAddress = ""
)

// DefaultNoticeTimeout is how long the visible alert text stays up before it
// self-clears. Crisis mode itself persists until explicit dismissal.
const DefaultNoticeTimeout = 8 * time.Second

// State is a snapshot of the crisis mode. It is process-local and never
// persisted across restarts.
type State struct {
	Active         bool      `json:"active"`
	Notice         string    `json:"notice,omitempty"`
	LastNotifiedAt time.Time `json:"lastNotifiedAt,omitzero"`
}

// Controller owns crisis-mode state. It enters crisis mode when a high-risk
// message is classified, builds the outbound notification, and manages the
// auto-clearing banner notice.
type Controller struct {
	dispatcher    notify.Dispatcher
	noticeTimeout time.Duration

	mu          sync.Mutex
	active      bool
	notice      string
	notifiedAt  time.Time
	noticeTimer *time.Timer
}

// NewController wires the controller to its notification dispatcher.
func NewController(dispatcher notify.Dispatcher, noticeTimeout time.Duration) *Controller {
	if noticeTimeout <= 0 {
		noticeTimeout = DefaultNoticeTimeout
	}
	return &Controller{dispatcher: dispatcher, noticeTimeout: noticeTimeout}
}

// OnHighRisk transitions the session into crisis mode and dispatches a
// notification built from the first configured trusted contact. Re-entering
// while already active keeps the state and re-arms the banner timer. The
// dispatch is fire-and-forget; delivery failures are invisible here.
func (c *Controller) OnHighRisk(ctx context.Context, p profile.Profile) notify.Payload {
	payload := buildPayload(p)

	c.mu.Lock()
	c.active = true
	c.notifiedAt = time.Now().UTC()
	c.notice = fmt.Sprintf("alert sent to %s (%s)", payload.RecipientName, payload.RecipientAddress)
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
	}
	c.noticeTimer = time.AfterFunc(c.noticeTimeout, c.clearNotice)
	c.mu.Unlock()

	log.Printf("[crisis] entering crisis mode, notifying %s", payload.RecipientName)
	// The dispatch must outlive the request that triggered it, so the
	// caller's cancellation is stripped from the detached context.
	go c.dispatcher.Dispatch(context.WithoutCancel(ctx), payload)

	return payload
}

// Dismiss clears crisis mode immediately and cancels any pending banner
// timer. Dismissing an inactive controller is a no-op.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
	if c.active {
		log.Printf("[crisis] dismissed by user")
	}
	c.active = false
	c.notice = ""
}

// Snapshot returns the current crisis state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Active: c.active, Notice: c.notice, LastNotifiedAt: c.notifiedAt}
}

func (c *Controller) clearNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = ""
	c.noticeTimer = nil
}

func buildPayload(p profile.Profile) notify.Payload {
	name, address := placeholderName, placeholderAddress
	if contact, ok := p.FirstContact(); ok {
		if contact.Name != "" {
			name = contact.Name
		}
		address = contact.Address
	}
	return notify.Payload{
		RecipientName:    name,
		RecipientAddress: address,
		Message: "You were listed as a trusted contact. The person who trusts you " +
			"may need support right now. Please reach out to them.",
	}
}
