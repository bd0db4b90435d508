package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/domain/orientation"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/platform"
)

// Inbound websocket message types.
const (
	MessageTilt        = "tilt"
	MessageOrientation = "orientation"
	MessageLock        = "lock"
	MessageUnlock      = "unlock"
	MessageDismiss     = "dismiss"
)

// Outbound websocket event types.
const (
	EventState = "state"
	EventError = "error"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{ //nolint:gochecknoglobals // Stateless and shared by every connection.
	CheckOrigin: func(*http.Request) bool {
		return true // The demo page is served from anywhere on the local network.
	},
}

// Message is sent by the browser.
type Message struct {
	Type        string  `json:"type"`
	Beta        float64 `json:"beta,omitempty"`
	Gamma       float64 `json:"gamma,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
}

// Event is sent to the browser.
type Event struct {
	Type  string     `json:"type"`
	State *lock.View `json:"state,omitempty"`
	Error string     `json:"error,omitempty"`
}

// serveWS owns all writes to the connection; the read loop hands errors
// over through a channel.
func (h *handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnKV(r.Context(), "Websocket upgrade failed", "error", err)

		return
	}

	defer func() {
		_ = conn.Close()
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	logger.InfoKV(ctx, "Websocket client connected", "remote", r.RemoteAddr)

	errs := make(chan string, 1)

	go h.readLoop(ctx, cancel, conn, errs)

	views, unsubscribe := h.svc.Subscribe()
	defer unsubscribe()

	for {
		var event Event

		select {
		case <-ctx.Done():
			logger.InfoKV(ctx, "Websocket client disconnected", "remote", r.RemoteAddr)

			return
		case view, ok := <-views:
			if !ok {
				return
			}

			event = Event{Type: EventState, State: &view}
		case msg := <-errs:
			event = Event{Type: EventError, Error: msg}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))

		if err := conn.WriteJSON(event); err != nil {
			logger.WarnKV(ctx, "Websocket write failed", "error", err)

			return
		}
	}
}

func (h *handler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, errs chan<- string) {
	defer cancel()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.DebugKV(ctx, "Websocket read ended", "error", err)
			}

			return
		}

		if err := h.handleMessage(ctx, msg); err != nil {
			select {
			case errs <- err.Error():
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *handler) handleMessage(ctx context.Context, msg Message) error {
	switch msg.Type {
	case MessageTilt:
		if h.sink == nil {
			return errNoSink
		}

		h.sink.EmitTilt(orientation.TiltSample{Beta: msg.Beta, Gamma: msg.Gamma})
	case MessageOrientation:
		if h.sink == nil {
			return errNoSink
		}

		if msg.Orientation == "" {
			return errEmptyOrientation
		}

		h.sink.ReportOrientation(msg.Orientation)
	case MessageLock:
		_, err := h.svc.Lock(platform.WithUserGesture(ctx))

		return err
	case MessageUnlock:
		_, err := h.svc.Unlock(platform.WithUserGesture(ctx))

		return err
	case MessageDismiss:
		h.svc.DismissAlert(ctx)
	default:
		return unknownMessageError(msg.Type)
	}

	return nil
}
