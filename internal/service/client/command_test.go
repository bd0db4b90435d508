package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/oshokin/orientation-lock/internal/api/grpc/lock"
	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

var errTestUnavailable = errors.New("connection refused")

// TestFormatView renders the interesting view combinations.
func TestFormatView(t *testing.T) {
	t.Parallel()

	require.Equal(t, "unlocked, orientation <unknown>, 0 alert(s)", FormatView(lock.View{}))

	v := lock.View{
		State:       lock.Locked,
		Reference:   orientation.Portrait,
		Orientation: orientation.TypePortraitPrimary,
		Alerting:    true,
		Alerts:      2,
		Error:       "boom",
	}
	require.Equal(t,
		"locked to portrait, orientation portrait-primary, ALERT (dismissed), 2 alert(s), last error: boom",
		FormatView(v))

	v = lock.View{Pending: lock.OpLocking, Orientation: orientation.TypeLandscapePrimary}
	require.Equal(t, "unlocked, orientation landscape-primary, locking, 0 alert(s)", FormatView(v))
}

// TestActionCall rejects unknown actions.
func TestActionCall(t *testing.T) {
	t.Parallel()

	for _, a := range []Action{ActionLock, ActionUnlock, ActionStatus, ActionDismiss} {
		fn, err := actionCall(a)
		require.NoError(t, err)
		require.NotNil(t, fn)
	}

	_, err := actionCall("reboot")
	require.ErrorIs(t, err, errUnknownAction)

	_, err = Run(context.Background(), &Options{Action: "reboot"})
	require.ErrorIs(t, err, errUnknownAction)
}

// TestRetry retries transport errors but not domain errors.
func TestRetry(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		calls := 0
		resp, err := retry(t.Context(), 3, time.Second, func() (*api.StateResponse, error) {
			calls++
			if calls < 3 {
				return nil, errTestUnavailable
			}

			return &api.StateResponse{State: lock.View{State: lock.Locked}}, nil
		})
		require.NoError(t, err)
		require.Equal(t, lock.Locked, resp.GetState().State)
		require.Equal(t, 3, calls)

		calls = 0
		_, err = retry(t.Context(), 3, time.Second, func() (*api.StateResponse, error) {
			calls++

			return nil, fmt.Errorf("lock: %w", lock.ErrPermissionDenied)
		})
		require.ErrorIs(t, err, lock.ErrPermissionDenied)
		require.Equal(t, 1, calls)

		calls = 0
		_, err = retry(t.Context(), 2, time.Second, func() (*api.StateResponse, error) {
			calls++

			return nil, errTestUnavailable
		})
		require.ErrorIs(t, err, errTestUnavailable)
		require.Equal(t, 2, calls)
	})
}
