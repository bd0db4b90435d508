//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	api "github.com/oshokin/orientation-lock/internal/api/grpc/lock"
	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/domain/lock"
)

// Client wraps the lock service gRPC client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the lock server.
	conn *grpc.ClientConn
	// api is the lock service client.
	api api.LockServiceClient

	// callTimeout is the default timeout for unary calls.
	callTimeout time.Duration
	// userAgent is sent with every request when set.
	userAgent string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls. Streams are not limited.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithUserAgent sets the user agent reported to the server.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial prepares a gRPC connection to the lock server. The connection is
// established lazily on the first call.
// Note: this uses insecure transport credentials; run it on a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if client.userAgent != "" {
		dialOptions = append(dialOptions, grpc.WithUserAgent(client.userAgent))
	}

	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial lock server: %w", err)
	}

	client.conn = conn
	client.api = api.NewLockServiceClient(conn)

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Lock asks the server to lock the screen orientation. Domain errors are
// restored, so errors.Is(err, lock.ErrPermissionDenied) works on the result.
func (c *Client) Lock(ctx context.Context, actor *lock.Actor) (*api.StateResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Lock(callCtx, &api.LockRequest{Actor: actor})
	if err != nil {
		return nil, fmt.Errorf("lock: %w", api.FromStatus(err))
	}

	return resp, nil
}

// Unlock asks the server to release the orientation lock.
func (c *Client) Unlock(ctx context.Context, actor *lock.Actor) (*api.StateResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Unlock(callCtx, &api.UnlockRequest{Actor: actor})
	if err != nil {
		return nil, fmt.Errorf("unlock: %w", api.FromStatus(err))
	}

	return resp, nil
}

// GetState retrieves the current view.
func (c *Client) GetState(ctx context.Context, actor *lock.Actor) (*api.StateResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetState(callCtx, &api.GetStateRequest{RequestingActor: actor})
	if err != nil {
		return nil, fmt.Errorf("get state: %w", api.FromStatus(err))
	}

	return resp, nil
}

// DismissAlert hides the alert popup on the server.
func (c *Client) DismissAlert(ctx context.Context, actor *lock.Actor) (*api.StateResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.DismissAlert(callCtx, &api.DismissAlertRequest{Actor: actor})
	if err != nil {
		return nil, fmt.Errorf("dismiss alert: %w", api.FromStatus(err))
	}

	return resp, nil
}

// WatchState calls fn with every view snapshot until ctx is cancelled, fn
// returns an error or the stream ends.
func (c *Client) WatchState(
	ctx context.Context,
	actor *lock.Actor,
	fn func(*api.StateResponse) error,
) error {
	stream, err := c.api.WatchState(ctx, &api.WatchStateRequest{RequestingActor: actor})
	if err != nil {
		return fmt.Errorf("watch state: %w", err)
	}

	for {
		resp, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("receive state: %w", err)
		}

		if err := fn(resp); err != nil {
			return err
		}
	}
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
