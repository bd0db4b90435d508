package watcher

import (
	"context"
	"fmt"
	"time"

	api "github.com/oshokin/orientation-lock/internal/api/grpc/lock"
	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/service/client"
	"github.com/oshokin/orientation-lock/internal/service/common"
	"github.com/oshokin/orientation-lock/internal/version"
)

// Options controls the watcher.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// ReconnectInterval is the delay before reopening a broken stream.
	ReconnectInterval time.Duration
	// OnView, when set, is called with every received view.
	OnView func(lock.View)
}

// DefaultReconnectInterval is the delay between reconnection attempts.
const DefaultReconnectInterval = 2 * time.Second

// stream opens one view stream and blocks until it ends.
type stream func(ctx context.Context, fn func(*api.StateResponse) error) error

// Run watches the server until ctx is cancelled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "orientation-lock-ctl")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Determine server address: command line argument overrides config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	actor, err := common.DetectActor()
	if err != nil {
		return fmt.Errorf("detect actor: %w", err)
	}

	c, err := common.Dial(ctx, serverAddress,
		common.WithCallTimeout(cfg.Timeout),
		common.WithUserAgent(version.UserAgent("orientation-lock-ctl")))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = c.Close()
	}()

	logger.InfoKV(ctx, "Watching lock state", "server_address", serverAddress)

	open := func(ctx context.Context, fn func(*api.StateResponse) error) error {
		return c.WatchState(ctx, actor, fn)
	}

	return watch(ctx, open, opts.ReconnectInterval, opts.OnView)
}

// watch keeps a stream open, logging each view that differs from the
// previous one, until ctx is cancelled.
func watch(ctx context.Context, open stream, interval time.Duration, onView func(lock.View)) error {
	if interval <= 0 {
		interval = DefaultReconnectInterval
	}

	var (
		last lock.View
		seen bool
	)

	handle := func(resp *api.StateResponse) error {
		view := resp.GetState()
		if seen && view == last {
			return nil
		}

		last, seen = view, true
		logger.Infof(ctx, "Orientation lock: %s", client.FormatView(view))

		if onView != nil {
			onView(view)
		}

		return nil
	}

	for {
		err := open(ctx, handle)

		if ctx.Err() != nil {
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		}

		if err != nil {
			logger.ErrorKV(ctx, "State stream failed", "error", err)
		} else {
			logger.Warnf(ctx, "State stream closed by server")
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-time.After(interval):
		}
	}
}
