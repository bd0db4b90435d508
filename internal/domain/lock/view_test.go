package lock

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

// TestView_LockLifecycle walks a lock, an alert and an unlock through the transitions.
func TestView_LockLifecycle(t *testing.T) {
	t.Parallel()

	v := View{}.OrientationChanged(orientation.TypePortraitPrimary)

	v = v.LockRequested()
	require.True(t, v.Busy())
	require.Equal(t, Unlocked, v.State)

	v = v.PermissionGrantedEvent().LockSucceeded(orientation.Portrait)
	require.False(t, v.Busy())
	require.Equal(t, Locked, v.State)
	require.Equal(t, orientation.Portrait, v.Reference)
	require.True(t, v.PermissionGranted)

	v = v.AlertRaised()
	require.True(t, v.Alerting)
	require.True(t, v.PopupVisible)
	require.Equal(t, 1, v.Alerts)

	v = v.PopupDismissed()
	require.True(t, v.Alerting)
	require.False(t, v.PopupVisible)

	v = v.UnlockRequested().UnlockSucceeded()
	require.Equal(t, Unlocked, v.State)
	require.Equal(t, orientation.Unknown, v.Reference)
	require.False(t, v.Alerting)
	require.True(t, v.PermissionGranted, "permission is never reset within a session")
}

// TestView_AlertRequiresLocked checks that alerts cannot appear while unlocked.
func TestView_AlertRequiresLocked(t *testing.T) {
	t.Parallel()

	v := View{}.AlertRaised()
	require.False(t, v.Alerting)
	require.Zero(t, v.Alerts)
}

// TestView_FailuresKeepState checks that failed operations only touch Pending and Error.
func TestView_FailuresKeepState(t *testing.T) {
	t.Parallel()

	v := View{}.LockRequested().LockFailed(fmt.Errorf("%w: fullscreen required", ErrOrientationLockRejected))
	require.Equal(t, Unlocked, v.State)
	require.False(t, v.Busy())
	require.Contains(t, v.Error, "rejected")

	v = v.LockRequested()
	require.Empty(t, v.Error)

	v = v.LockSucceeded(orientation.Landscape).UnlockRequested().UnlockFailed(ErrUnlockFailed)
	require.Equal(t, Locked, v.State)
	require.Equal(t, ErrUnlockFailed.Error(), v.Error)
}

// TestView_JSON checks the wire names used by the HTTP and gRPC layers.
func TestView_JSON(t *testing.T) {
	t.Parallel()

	v := View{}.
		OrientationChanged(orientation.TypeLandscapePrimary).
		LockRequested().
		LockSucceeded(orientation.Landscape)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"state": "locked",
		"pending": "none",
		"orientation": "landscape-primary",
		"reference": "landscape",
		"permission_granted": false,
		"alerting": false,
		"popup_visible": false,
		"alerts": 0
	}`, string(data))

	var back View
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, v, back)
}

// TestParseTarget covers the accepted lock target spellings.
func TestParseTarget(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Target{
		"":          TargetPortrait,
		"portrait":  TargetPortrait,
		" Current ": TargetCurrent,
	} {
		got, err := ParseTarget(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseTarget("sideways")
	require.ErrorIs(t, err, ErrUnknownTarget)
}

// TestActor verifies Clone and String, including nil handling.
func TestActor(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Actor)(nil).Clone())
	require.Equal(t, "<unknown>", (*Actor)(nil).String())

	a := &Actor{Hostname: "pixel", Username: "o.shokin"}
	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
	require.Equal(t, "o.shokin@pixel", a.String())
}
