package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	api "github.com/oshokin/orientation-lock/internal/api/grpc/lock"
	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/service/common"
	"github.com/oshokin/orientation-lock/internal/version"
)

// Action is a single orientation-lock-ctl operation.
type Action string

// Supported actions.
const (
	ActionLock    Action = "lock"
	ActionUnlock  Action = "unlock"
	ActionStatus  Action = "status"
	ActionDismiss Action = "dismiss"
)

// Options configures a client run.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Action is the operation to perform.
	Action Action
	// Attempts bounds retries on transport errors; zero means defaultAttempts.
	Attempts int
}

const (
	// defaultAttempts is the number of tries for transport failures.
	defaultAttempts = 3
	// defaultRetryInterval is the delay between tries.
	defaultRetryInterval = 1 * time.Second
)

var errUnknownAction = errors.New("unknown action")

// call performs one action against the server. It has the shape of a
// method expression on *common.Client.
//
//nolint:revive // The receiver comes first in method expressions.
type call func(client *common.Client, ctx context.Context, actor *lock.Actor) (*api.StateResponse, error)

// Run performs opts.Action and returns the resulting view.
func Run(ctx context.Context, opts *Options) (lock.View, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "orientation-lock-ctl")

	do, err := actionCall(opts.Action)
	if err != nil {
		return lock.View{}, err
	}

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return lock.View{}, err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for the server log.
	actor, err := common.DetectActor()
	if err != nil {
		return lock.View{}, err
	}

	client, err := common.Dial(ctx, serverAddress,
		common.WithCallTimeout(cfg.Timeout),
		common.WithUserAgent(version.UserAgent("orientation-lock-ctl")))
	if err != nil {
		return lock.View{}, err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Sending request", "server_address", serverAddress, "action", string(opts.Action))

	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	resp, err := retry(ctx, attempts, defaultRetryInterval, func() (*api.StateResponse, error) {
		return do(client, ctx, actor)
	})
	if err != nil {
		return lock.View{}, err
	}

	view := resp.GetState()
	logger.Infof(ctx, "Orientation lock: %s", FormatView(view))

	return view, nil
}

func actionCall(action Action) (call, error) {
	switch action {
	case ActionLock:
		return (*common.Client).Lock, nil
	case ActionUnlock:
		return (*common.Client).Unlock, nil
	case ActionStatus:
		return (*common.Client).GetState, nil
	case ActionDismiss:
		return (*common.Client).DismissAlert, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownAction, action)
	}
}

// retry calls fn until it succeeds, fails with a domain error, or attempts run out.
func retry(
	ctx context.Context,
	attempts int,
	interval time.Duration,
	fn func() (*api.StateResponse, error),
) (*api.StateResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := fn()
		if err == nil {
			return resp, nil
		}

		if isDomainError(err) {
			return nil, err
		}

		lastErr = err
		logger.WarnKV(ctx, "Request failed", "attempt", attempt, "error", err)

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}

	return nil, lastErr
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{
		lock.ErrPermissionDenied,
		lock.ErrOrientationLockUnsupported,
		lock.ErrOrientationLockRejected,
		lock.ErrUnlockFailed,
		lock.ErrBusy,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}

// FormatView renders a view as one human-readable line.
func FormatView(v lock.View) string {
	var b strings.Builder

	b.WriteString(v.State.String())

	if v.State == lock.Locked {
		fmt.Fprintf(&b, " to %s", v.Reference)
	}

	orientationType := v.Orientation
	if orientationType == "" {
		orientationType = "<unknown>"
	}

	fmt.Fprintf(&b, ", orientation %s", orientationType)

	if v.Busy() {
		fmt.Fprintf(&b, ", %s", v.Pending)
	}

	if v.Alerting {
		b.WriteString(", ALERT")

		if !v.PopupVisible {
			b.WriteString(" (dismissed)")
		}
	}

	fmt.Fprintf(&b, ", %d alert(s)", v.Alerts)

	if v.Error != "" {
		fmt.Fprintf(&b, ", last error: %s", v.Error)
	}

	return b.String()
}
