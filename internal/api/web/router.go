package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/platform"
)

// Service abstracts the controller operations the HTTP layer depends on.
type Service interface {
	Lock(ctx context.Context) (lock.View, error)
	Unlock(ctx context.Context) (lock.View, error)
	DismissAlert(ctx context.Context) lock.View
	View() lock.View
	Subscribe() (<-chan lock.View, func())
}

// StateResponse is the body of every API response.
type StateResponse struct {
	State lock.View `json:"state"`
	Error string    `json:"error,omitempty"`
}

type handler struct {
	svc Service
	// sink receives readings pushed over the websocket; nil rejects them.
	sink platform.Sink
}

// NewRouter builds the HTTP API. Requests log through the logger carried by ctx.
func NewRouter(ctx context.Context, svc Service, sink platform.Sink) *mux.Router {
	h := &handler{svc: svc, sink: sink}
	base := logger.FromContext(ctx)

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqCtx := logger.ToContext(req.Context(), base)
			logger.DebugKV(reqCtx, "HTTP request", "method", req.Method, "path", req.URL.Path)
			next.ServeHTTP(w, req.WithContext(reqCtx))
		})
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/state", h.getState).Methods(http.MethodGet)
	r.HandleFunc("/api/lock", h.lock).Methods(http.MethodPost)
	r.HandleFunc("/api/unlock", h.unlock).Methods(http.MethodPost)
	r.HandleFunc("/api/alert/dismiss", h.dismiss).Methods(http.MethodPost)
	r.HandleFunc("/api/ws", h.serveWS).Methods(http.MethodGet)

	return r
}

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, StateResponse{State: h.svc.View()})
}

// lock runs as a user gesture: the POST is the result of a button tap.
func (h *handler) lock(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Lock(platform.WithUserGesture(r.Context()))
	writeResult(r.Context(), w, view, err)
}

func (h *handler) unlock(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Unlock(platform.WithUserGesture(r.Context()))
	writeResult(r.Context(), w, view, err)
}

func (h *handler) dismiss(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, StateResponse{State: h.svc.DismissAlert(r.Context())})
}

func writeResult(ctx context.Context, w http.ResponseWriter, view lock.View, err error) {
	if err != nil {
		writeJSON(ctx, w, StatusCode(err), StateResponse{State: view, Error: err.Error()})

		return
	}

	writeJSON(ctx, w, http.StatusOK, StateResponse{State: view})
}

// StatusCode maps a controller error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, lock.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, lock.ErrOrientationLockUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, lock.ErrOrientationLockRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lock.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WarnKV(ctx, "Failed to write HTTP response", "error", err)
	}
}
