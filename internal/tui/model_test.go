package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/domain/orientation"
	"github.com/oshokin/orientation-lock/internal/platform/simulated"
	"github.com/oshokin/orientation-lock/internal/service/controller"
)

func newTestModel(t *testing.T, opts simulated.Options) (*Model, *simulated.Device, *controller.Controller) {
	t.Helper()

	dev := simulated.New(opts)

	ctrl, err := controller.New(controller.Devices{Screen: dev, Fullscreen: dev, Permission: dev, Tilt: dev})
	require.NoError(t, err)
	require.NoError(t, ctrl.Start(t.Context()))
	t.Cleanup(ctrl.Close)

	return NewModel(t.Context(), ctrl, dev, 0), dev, ctrl
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press sends a key and runs the returned command once, feeding its message
// back followed by the snapshot the subscription would deliver.
func press(t *testing.T, m *Model, s string) {
	t.Helper()

	_, cmd := m.Update(key(s))
	if cmd == nil {
		return
	}

	if msg, ok := cmd().(resultMsg); ok {
		m.Update(msg)
		m.Update(viewMsg(m.service.View()))
	}
}

// TestModel_LockIsUserGesture locks from a key press, which may prompt for the sensor.
func TestModel_LockIsUserGesture(t *testing.T) {
	t.Parallel()

	m, dev, _ := newTestModel(t, simulated.Options{})

	press(t, m, "l")
	require.Equal(t, lock.Locked, m.view.State)
	require.True(t, m.view.PermissionGranted)
	require.Equal(t, 1, dev.Stats().PermissionRequests)
	require.Contains(t, m.View(), "locked")

	press(t, m, "u")
	require.Equal(t, lock.Unlocked, m.view.State)
}

// TestModel_TiltKeysRaiseAlert tilts the device sideways while locked.
func TestModel_TiltKeysRaiseAlert(t *testing.T) {
	t.Parallel()

	m, _, ctrl := newTestModel(t, simulated.Options{})

	press(t, m, "l")

	// Upright is beta 90; lay it on its side.
	for range 6 {
		press(t, m, "down")
	}

	for range 5 {
		press(t, m, "right")
	}

	require.Equal(t, orientation.TiltSample{Beta: 0, Gamma: 75}, m.tilt)
	require.True(t, ctrl.View().Alerting)

	m.Update(viewMsg(ctrl.View()))
	require.Contains(t, m.View(), "Rotate the device back to portrait")

	press(t, m, "d")
	require.False(t, m.view.PopupVisible)
	require.NotContains(t, m.View(), "Rotate the device back")
}

// TestModel_RotateKeys cycles the reported orientation.
func TestModel_RotateKeys(t *testing.T) {
	t.Parallel()

	m, dev, _ := newTestModel(t, simulated.Options{})

	press(t, m, "o")
	require.Equal(t, orientation.TypeLandscapePrimary, dev.Type())

	press(t, m, "o")
	require.Equal(t, orientation.TypePortraitSecondary, dev.Type())

	press(t, m, "p")
	require.Equal(t, orientation.TypePortraitPrimary, dev.Type())
}

// TestModel_LockErrorShown renders a denied permission.
func TestModel_LockErrorShown(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t, simulated.Options{Permission: simulated.PermissionDenied})

	press(t, m, "l")
	require.ErrorIs(t, m.lastErr, lock.ErrPermissionDenied)
	require.Contains(t, m.View(), lock.ErrPermissionDenied.Error())
}

// TestModel_ResultKeepsNewerSnapshot does not roll the view back when a lock
// finishes after the subscription already delivered a later snapshot.
func TestModel_ResultKeepsNewerSnapshot(t *testing.T) {
	t.Parallel()

	m, dev, ctrl := newTestModel(t, simulated.Options{})

	_, cmd := m.Update(key("l"))
	require.NotNil(t, cmd)

	result := cmd()

	dev.EmitTilt(orientation.TiltSample{Beta: 10, Gamma: 80})

	latest := ctrl.View()
	require.True(t, latest.Alerting)

	m.Update(viewMsg(latest))
	m.Update(result)

	require.Equal(t, latest, m.view)
	require.NoError(t, m.lastErr)
	require.Contains(t, m.View(), "Rotate the device back to portrait")
}

// TestModel_Quit unsubscribes and stops the program.
func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t, simulated.Options{})

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Empty(t, m.View())

	// The channel is closed once the buffered snapshot is drained.
	for range m.views {
	}
}

// TestClamp keeps tilt inside sensor ranges.
func TestClamp(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 90.0, clamp(105, -90, 90), 0)
	require.InDelta(t, -180.0, clamp(-200, -180, 180), 0)
	require.InDelta(t, 10.0, clamp(10, -90, 90), 0)
}
