package exercise

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	exerciseService "github.com/zenstudent/backend/internal/service/exercise"
	"github.com/zenstudent/backend/pkg/utils"
)

// Handler streams exercise phase events to the client over a websocket.
// Closing the socket cancels the running exercise.
type Handler struct {
	manager  *exerciseService.Manager
	upgrader websocket.Upgrader
}

func New(manager *exerciseService.Manager) *Handler {
	return &Handler{
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/exercise", h.handleActive)
	r.Post("/exercise/stop", h.handleStop)
	r.Get("/exercise/ws/{kind}", h.handleStream)
}

func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"active": h.manager.Active()})
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	h.manager.Stop()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"active": ""})
}

// wsEvent is one message pushed to the exercise overlay.
type wsEvent struct {
	Event     string `json:"event"`
	Phase     string `json:"phase,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Cycle     int    `json:"cycle,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	program, err := exerciseService.ProgramByKind(kind)
	if err != nil {
		if errors.Is(err, exerciseService.ErrUnknownKind) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[exercise] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[exercise] websocket open, kind=%s", kind)

	// Sequencer callbacks push into the channel; a single writer loop owns
	// the connection. Pushes never block so a gone writer cannot wedge the
	// sequencer.
	events := make(chan wsEvent, 64)
	push := func(ev wsEvent) {
		select {
		case events <- ev:
		default:
		}
	}

	// Completion is signalled out of band: a closed channel cannot be
	// dropped the way a full event buffer can.
	completed := make(chan struct{})

	handle, err := h.manager.Start(program, exerciseService.Listener{
		OnTick: func(phase exerciseService.Phase, remaining, cycle int) {
			push(wsEvent{Event: "tick", Phase: string(phase), Remaining: remaining, Cycle: cycle})
		},
		OnPhaseChange: func(phase exerciseService.Phase, cycle int) {
			push(wsEvent{Event: "phase", Phase: string(phase), Cycle: cycle})
		},
		OnComplete: func() {
			close(completed)
		},
	})
	if err != nil {
		log.Printf("[exercise] start failed: %v", err)
		return
	}
	defer handle.Stop()

	// Client close (or any read error) ends the stream and cancels the
	// exercise via the deferred Stop.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push(wsEvent{Event: "started", Phase: program.Name})

	for {
		select {
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("[exercise] write failed: %v", err)
				return
			}
		case <-completed:
			drainEvents(conn, events)
			if err := conn.WriteJSON(wsEvent{Event: "complete"}); err != nil {
				log.Printf("[exercise] write failed: %v", err)
				return
			}
			deadline := time.Now().Add(time.Second)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "complete"), deadline)
			return
		case <-clientGone:
			log.Printf("[exercise] client closed, stopping %s", kind)
			return
		}
	}
}

// drainEvents flushes any ticks still buffered ahead of the final frame.
func drainEvents(conn *websocket.Conn, events chan wsEvent) {
	for {
		select {
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		default:
			return
		}
	}
}
