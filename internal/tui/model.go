package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/domain/orientation"
	"github.com/oshokin/orientation-lock/internal/platform"
)

// Service is the part of the controller the model drives.
type Service interface {
	Lock(ctx context.Context) (lock.View, error)
	Unlock(ctx context.Context) (lock.View, error)
	DismissAlert(ctx context.Context) lock.View
	View() lock.View
	Subscribe() (<-chan lock.View, func())
}

// tiltStep is how far one arrow key press tilts the device, in degrees.
const tiltStep = 15

// rotation is the order the o key cycles through.
//
//nolint:gochecknoglobals // Fixed lookup table.
var rotation = []string{
	orientation.TypePortraitPrimary,
	orientation.TypeLandscapePrimary,
	orientation.TypePortraitSecondary,
	orientation.TypeLandscapeSecondary,
}

type (
	// viewMsg carries a snapshot from the controller subscription.
	viewMsg lock.View
	// resultMsg carries the error of a lock or unlock. The view arrives
	// through the subscription.
	resultMsg struct {
		err error
	}
	// closedMsg reports that the subscription ended.
	closedMsg struct{}
)

// Model is the bubbletea model of the demo.
type Model struct {
	ctx       context.Context //nolint:containedctx // Key presses run under the program's context.
	service   Service
	sink      platform.Sink
	threshold float64

	views       <-chan lock.View
	unsubscribe func()

	view     lock.View
	tilt     orientation.TiltSample
	rotation int
	lastErr  error
	quitting bool
}

// NewModel subscribes to service and returns a model that feeds tilt and
// orientation changes into sink.
func NewModel(ctx context.Context, service Service, sink platform.Sink, threshold float64) *Model {
	if threshold <= 0 {
		threshold = orientation.DefaultTiltThreshold
	}

	views, unsubscribe := service.Subscribe()
	view := service.View()

	m := &Model{
		ctx:         ctx,
		service:     service,
		sink:        sink,
		threshold:   threshold,
		views:       views,
		unsubscribe: unsubscribe,
		view:        view,
		tilt:        orientation.TiltSample{Beta: 90},
	}

	for i, t := range rotation {
		if t == view.Orientation {
			m.rotation = i
		}
	}

	return m
}

// Init starts listening for controller snapshots.
func (m *Model) Init() tea.Cmd {
	return m.waitForView()
}

// Update handles key presses and controller messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = lock.View(msg)

		return m, m.waitForView()
	case closedMsg:
		return m, nil
	case resultMsg:
		m.lastErr = msg.err

		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.unsubscribe()

		return m, tea.Quit
	case "l":
		return m, m.run(m.service.Lock)
	case "u":
		return m, m.run(m.service.Unlock)
	case "d":
		m.view = m.service.DismissAlert(m.ctx)
	case "up":
		m.tiltBy(tiltStep, 0)
	case "down":
		m.tiltBy(-tiltStep, 0)
	case "right":
		m.tiltBy(0, tiltStep)
	case "left":
		m.tiltBy(0, -tiltStep)
	case "p":
		m.rotation = 0
		m.sink.ReportOrientation(rotation[m.rotation])
	case "o":
		m.rotation = (m.rotation + 1) % len(rotation)
		m.sink.ReportOrientation(rotation[m.rotation])
	}

	return m, nil
}

// run performs a lock or unlock off the update loop. Key presses are user
// gestures, so the controller may prompt for the sensor permission.
func (m *Model) run(op func(context.Context) (lock.View, error)) tea.Cmd {
	ctx := platform.WithUserGesture(m.ctx)

	return func() tea.Msg {
		_, err := op(ctx)

		return resultMsg{err: err}
	}
}

func (m *Model) tiltBy(beta, gamma float64) {
	m.tilt.Beta = clamp(m.tilt.Beta+beta, -180, 180)
	m.tilt.Gamma = clamp(m.tilt.Gamma+gamma, -90, 90)
	m.sink.EmitTilt(m.tilt)
}

func (m *Model) waitForView() tea.Cmd {
	views := m.views

	return func() tea.Msg {
		view, ok := <-views
		if !ok {
			return closedMsg{}
		}

		return viewMsg(view)
	}
}

// View renders the device state, the tilt and the alert popup.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Orientation lock"))
	b.WriteString("\n\n")

	physical := orientation.ClassifyTilt(m.tilt, m.threshold)

	rows := []string{
		row("Lock", m.renderState()),
		row("Screen", m.view.Orientation),
		row("Reference", m.view.Reference.String()),
		row("Tilt", fmt.Sprintf("beta %+4.0f  gamma %+4.0f", m.tilt.Beta, m.tilt.Gamma)),
		row("Held as", physical.String()),
		row("Sensor", permission(m.view.PermissionGranted)),
		row("Alerts", strconv.Itoa(m.view.Alerts)),
	}

	if m.lastErr != nil {
		rows = append(rows, row("Error", errorStyle.Render(m.lastErr.Error())))
	} else if m.view.Error != "" {
		rows = append(rows, row("Error", errorStyle.Render(m.view.Error)))
	}

	b.WriteString(panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	if m.view.PopupVisible {
		b.WriteString(popupStyle.Render("Rotate the device back to " + m.view.Reference.String() + " (d to dismiss)"))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("l lock  u unlock  d dismiss  arrows tilt  p portrait  o rotate  q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderState() string {
	switch {
	case m.view.Busy():
		return busyStyle.Render(m.view.Pending.String() + "...")
	case m.view.State == lock.Locked:
		return lockedStyle.Render("locked")
	default:
		return unlockedStyle.Render("unlocked")
	}
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func permission(granted bool) string {
	if granted {
		return "granted"
	}

	return "not granted"
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
