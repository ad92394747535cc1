package crisis_test

import (
	"context"
	"testing"
	"time"

	"github.com/zenstudent/backend/internal/model/profile"
	"github.com/zenstudent/backend/internal/service/crisis"
	"github.com/zenstudent/backend/internal/service/notify"
)

func TestOnHighRiskWithoutContactsUsesPlaceholders(t *testing.T) {
	recorder := &notify.Recorder{}
	controller := crisis.NewController(recorder, time.Minute)

	payload := controller.OnHighRisk(context.Background(), profile.Profile{})

	if payload.RecipientName != "trusted contact" {
		t.Fatalf("unexpected placeholder name: %q", payload.RecipientName)
	}
	if payload.RecipientAddress != "" {
		t.Fatalf("expected empty placeholder address, got %q", payload.RecipientAddress)
	}
	if payload.Message == "" {
		t.Fatal("payload message must not be empty")
	}

	state := controller.Snapshot()
	if !state.Active {
		t.Fatal("crisis mode must be active after a high-risk message")
	}
	if state.LastNotifiedAt.IsZero() {
		t.Fatal("expected lastNotifiedAt to be set")
	}
}

func TestOnHighRiskUsesFirstConfiguredContact(t *testing.T) {
	recorder := &notify.Recorder{}
	controller := crisis.NewController(recorder, time.Minute)

	p := profile.Profile{Contacts: []profile.TrustedContact{
		{Name: "Olga", Address: "olga@example.com"},
		{Name: "Ivan", Address: "ivan@example.com"},
	}}
	payload := controller.OnHighRisk(context.Background(), p)

	if payload.RecipientName != "Olga" || payload.RecipientAddress != "olga@example.com" {
		t.Fatalf("expected first contact in payload, got %+v", payload)
	}

	waitForDispatch(t, recorder, 1)
	if got := recorder.Dispatched()[0]; got != payload {
		t.Fatalf("dispatched payload mismatch: %+v", got)
	}
}

func TestNoticeSelfClearsButCrisisStaysActive(t *testing.T) {
	controller := crisis.NewController(&notify.Recorder{}, 20*time.Millisecond)
	controller.OnHighRisk(context.Background(), profile.Profile{})

	if state := controller.Snapshot(); state.Notice == "" {
		t.Fatal("expected visible notice right after escalation")
	}

	deadline := time.Now().Add(time.Second)
	for {
		state := controller.Snapshot()
		if state.Notice == "" {
			if !state.Active {
				t.Fatal("auto-clear must not deactivate crisis mode")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("notice did not self-clear")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDismissClearsStateAndCancelsTimer(t *testing.T) {
	controller := crisis.NewController(&notify.Recorder{}, time.Minute)
	controller.OnHighRisk(context.Background(), profile.Profile{})
	controller.Dismiss()

	state := controller.Snapshot()
	if state.Active || state.Notice != "" {
		t.Fatalf("expected inactive, clear state after dismissal, got %+v", state)
	}

	// Dismiss when already inactive is a no-op.
	controller.Dismiss()
}

func TestReentryIsIdempotentOnState(t *testing.T) {
	recorder := &notify.Recorder{}
	controller := crisis.NewController(recorder, time.Minute)
	ctx := context.Background()

	controller.OnHighRisk(ctx, profile.Profile{})
	first := controller.Snapshot()
	controller.OnHighRisk(ctx, profile.Profile{})
	second := controller.Snapshot()

	if !first.Active || !second.Active {
		t.Fatal("crisis mode must stay active across re-entry")
	}
	waitForDispatch(t, recorder, 2)
}

// gatedDispatcher holds the dispatch until the caller's context has been
// cancelled, then reports whether its own context survived.
type gatedDispatcher struct {
	callerCancelled chan struct{}
	dispatchErr     chan error
}

func (d *gatedDispatcher) Dispatch(ctx context.Context, _ notify.Payload) {
	<-d.callerCancelled
	d.dispatchErr <- ctx.Err()
}

func TestDispatchOutlivesCallerContext(t *testing.T) {
	dispatcher := &gatedDispatcher{
		callerCancelled: make(chan struct{}),
		dispatchErr:     make(chan error, 1),
	}
	controller := crisis.NewController(dispatcher, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	controller.OnHighRisk(ctx, profile.Profile{})
	cancel()
	close(dispatcher.callerCancelled)

	select {
	case err := <-dispatcher.dispatchErr:
		if err != nil {
			t.Fatalf("dispatch context died with the caller: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("dispatch never ran")
	}
}

func waitForDispatch(t *testing.T, recorder *notify.Recorder, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for len(recorder.Dispatched()) < want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d dispatches, got %d", want, len(recorder.Dispatched()))
		}
		time.Sleep(time.Millisecond)
	}
}
