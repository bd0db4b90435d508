package lock

import (
	"context"
	"time"

	"google.golang.org/grpc"

	domain "github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/platform"
)

// Service abstracts the controller operations the transport layer depends on.
type Service interface {
	Lock(ctx context.Context) (domain.View, error)
	Unlock(ctx context.Context) (domain.View, error)
	DismissAlert(ctx context.Context) domain.View
	View() domain.View
	Subscribe() (<-chan domain.View, func())
}

// Server implements LockServiceServer.
type Server struct {
	// service provides the lock orchestration.
	service Service
	// now stamps responses.
	now func() time.Time
}

var _ LockServiceServer = (*Server)(nil)

// NewServer wires the provided service into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
		now:     time.Now,
	}
}

// Lock locks the screen orientation. A remote lock is a user action, so
// the call runs as a user gesture.
func (s *Server) Lock(ctx context.Context, req *LockRequest) (*StateResponse, error) {
	var actor *domain.Actor
	if req != nil {
		actor = req.Actor
	}

	ctx = platform.WithUserGesture(logger.WithKV(ctx, "actor", actor.String()))

	view, err := s.service.Lock(ctx)
	if err != nil {
		return nil, ToStatus(err)
	}

	return s.response(view), nil
}

// Unlock releases the orientation lock.
func (s *Server) Unlock(ctx context.Context, req *UnlockRequest) (*StateResponse, error) {
	var actor *domain.Actor
	if req != nil {
		actor = req.Actor
	}

	ctx = platform.WithUserGesture(logger.WithKV(ctx, "actor", actor.String()))

	view, err := s.service.Unlock(ctx)
	if err != nil {
		return nil, ToStatus(err)
	}

	return s.response(view), nil
}

// GetState returns the current view.
func (s *Server) GetState(ctx context.Context, req *GetStateRequest) (*StateResponse, error) {
	if req != nil && req.RequestingActor != nil {
		logger.DebugKV(ctx, "State requested", "actor", req.RequestingActor.String())
	}

	return s.response(s.service.View()), nil
}

// DismissAlert hides the alert popup.
func (s *Server) DismissAlert(ctx context.Context, req *DismissAlertRequest) (*StateResponse, error) {
	var actor *domain.Actor
	if req != nil {
		actor = req.Actor
	}

	view := s.service.DismissAlert(logger.WithKV(ctx, "actor", actor.String()))

	return s.response(view), nil
}

// WatchState streams the current view and then every change until the
// client goes away or the controller shuts down.
func (s *Server) WatchState(req *WatchStateRequest, stream grpc.ServerStreamingServer[StateResponse]) error {
	ctx := stream.Context()

	var actor *domain.Actor
	if req != nil {
		actor = req.RequestingActor
	}

	logger.InfoKV(ctx, "State watcher connected", "actor", actor.String())

	views, cancel := s.service.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case view, ok := <-views:
			if !ok {
				return nil
			}

			if err := stream.Send(s.response(view)); err != nil {
				return err
			}
		}
	}
}

func (s *Server) response(view domain.View) *StateResponse {
	return &StateResponse{
		Timestamp: s.now().UTC(),
		State:     view,
	}
}
