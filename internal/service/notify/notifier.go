package notify

import (
	"context"
	"log"
	"sync"
)

// Payload carries everything needed to reach a trusted contact. Delivery
// itself is out of scope: dispatchers only record the decision to notify.
type Payload struct {
	RecipientName    string `json:"recipientName"`
	RecipientAddress string `json:"recipientAddress"`
	Message          string `json:"message"`
}

// Dispatcher hands a payload to a delivery channel. Implementations must not
// block the caller on delivery and must never return the failure to it: the
// human-facing fallback is the crisis banner, not notification success.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload Payload)
}

// LogDispatcher writes the payload to the process log. It stands in for the
// real email/SMS gateway.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(_ context.Context, payload Payload) {
	log.Printf("[notify] alert dispatched to %s (%s): %s",
		payload.RecipientName, payload.RecipientAddress, payload.Message)
}

// Recorder retains dispatched payloads for tests.
type Recorder struct {
	mu       sync.Mutex
	payloads []Payload
}

func (r *Recorder) Dispatch(_ context.Context, payload Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
}

// Dispatched returns a copy of everything recorded so far.
func (r *Recorder) Dispatched() []Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Payload(nil), r.payloads...)
}
