package viz

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravbox/internal/authoring"
	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/universe"
	"gonum.org/v1/gonum/spatial/r2"
)

// 1e6 m per dot; 10ms of real time is one simulated second
func newTestModel(t *testing.T) Model {
	t.Helper()
	u, err := universe.New(1e6, 100)
	if err != nil {
		t.Fatal(err)
	}
	sb := sim.New(u, camera.New(r2.Vec{}), authoring.DefaultConfig())
	return NewModel(sb, Options{Width: 20, Height: 10})
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestScreenPoint(t *testing.T) {
	if got := ScreenPoint(1, 1); got != (r2.Vec{X: 1, Y: 2}) {
		t.Errorf("first cell = %v", got)
	}
	if got := ScreenPoint(4, 3); got != (r2.Vec{X: 7, Y: 10}) {
		t.Errorf("cell (4,3) = %v", got)
	}
}

func TestNewModel_CentresCamera(t *testing.T) {
	m := newTestModel(t)
	if got := m.Sandbox().Camera().Centre(); got != (r2.Vec{X: 20, Y: 20}) {
		t.Errorf("centre = %v, want (20, 20)", got)
	}

	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.Canvas().Width != 62 || m.Canvas().Height != 28 {
		t.Errorf("canvas = %dx%d, want 62x28", m.Canvas().Width, m.Canvas().Height)
	}
	if got := m.Sandbox().Camera().Centre(); got != (r2.Vec{X: 62, Y: 56}) {
		t.Errorf("centre after resize = %v", got)
	}
}

func TestModel_DragAndFling(t *testing.T) {
	m := newTestModel(t)
	t0 := time.Now()

	m = send(t, m, mouse(5, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	m = send(t, m, TickMsg(t0))
	m = send(t, m, TickMsg(t0.Add(10*time.Millisecond)))
	m = send(t, m, mouse(6, 5, tea.MouseActionMotion, tea.MouseButtonLeft))
	m = send(t, m, TickMsg(t0.Add(20*time.Millisecond)))

	if !m.Sandbox().Session().Active() {
		t.Fatal("expected a drag in progress")
	}
	m = send(t, m, mouse(7, 5, tea.MouseActionRelease, tea.MouseButtonNone))

	sb := m.Sandbox()
	if sb.BodyCount() != 1 {
		t.Fatalf("expected 1 body, got %d", sb.BodyCount())
	}
	v := sb.Frame().Bodies[0].Velocity
	// 2 dots over one simulated second, halved by damping
	if math.Abs(v.X-1e6) > 1e-3 || v.Y != 0 {
		t.Errorf("velocity = %v, want (1e6, 0)", v)
	}
	if m.Notice() != "" {
		t.Errorf("unexpected notice %q", m.Notice())
	}
}

func TestModel_OtherButtonKeepsDrag(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, mouse(5, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	m = send(t, m, mouse(5, 5, tea.MouseActionPress, tea.MouseButtonRight))
	m = send(t, m, mouse(5, 5, tea.MouseActionRelease, tea.MouseButtonRight))

	if !m.Sandbox().Session().Active() {
		t.Fatal("right button release ended the drag")
	}
	if n := m.Sandbox().BodyCount(); n != 0 {
		t.Fatalf("bodies = %d, want 0 before the left release", n)
	}

	m = send(t, m, mouse(5, 5, tea.MouseActionRelease, tea.MouseButtonLeft))
	if m.Sandbox().Session().Active() {
		t.Error("left release did not end the drag")
	}
	if n := m.Sandbox().BodyCount(); n != 1 {
		t.Errorf("bodies = %d, want 1", n)
	}
}

func TestModel_CtrlReleaseAtRest(t *testing.T) {
	m := newTestModel(t)
	t0 := time.Now()

	m = send(t, m, mouse(5, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	m = send(t, m, TickMsg(t0))
	m = send(t, m, TickMsg(t0.Add(10*time.Millisecond)))
	release := mouse(9, 5, tea.MouseActionRelease, tea.MouseButtonNone)
	release.Ctrl = true
	m = send(t, m, release)

	if v := m.Sandbox().Frame().Bodies[0].Velocity; v != (r2.Vec{}) {
		t.Errorf("velocity = %v, want rest", v)
	}
}

func TestModel_InstantReleaseWarns(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, mouse(5, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	m = send(t, m, mouse(5, 5, tea.MouseActionRelease, tea.MouseButtonNone))

	if m.Sandbox().BodyCount() != 1 {
		t.Fatal("body should be committed")
	}
	if !strings.Contains(m.Notice(), "no time passed") {
		t.Errorf("notice = %q", m.Notice())
	}
}

func TestModel_PressOutsideCanvas(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, mouse(50, 5, tea.MouseActionPress, tea.MouseButtonLeft))

	if m.Sandbox().Session().Active() {
		t.Error("press on the panel started a drag")
	}
}

func TestModel_Wheel(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, mouse(5, 5, tea.MouseActionPress, tea.MouseButtonWheelUp))
	if z := m.Sandbox().Camera().ZoomScale(); z != 2 {
		t.Errorf("zoom = %g, want 2", z)
	}

	m = send(t, m, mouse(5, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	shifted := mouse(5, 5, tea.MouseActionPress, tea.MouseButtonWheelUp)
	shifted.Shift = true
	m = send(t, m, shifted)
	if got := m.Sandbox().Session().MassMultiplier(); math.Abs(got-math.Cbrt(4)) > 1e-12 {
		t.Errorf("multiplier = %g, want cbrt(4)", got)
	}
	if z := m.Sandbox().Camera().ZoomScale(); z != 2 {
		t.Error("wheel during a drag zoomed the camera")
	}
}

func TestModel_Keys(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, key("."))
	m = send(t, m, key("."))
	m = send(t, m, key(","))
	if ts := m.Sandbox().Universe().TimeScale(); ts != 200 {
		t.Errorf("time scale = %g, want 200", ts)
	}

	m = send(t, m, key("x"))
	if !m.Sandbox().SuppressVelocity() {
		t.Error("x did not toggle suppression")
	}

	theme := m.Theme().Name
	m = send(t, m, key("t"))
	if m.Theme().Name == theme {
		t.Error("t did not change theme")
	}

	m = send(t, m, key(" "))
	if !m.Sandbox().Paused() {
		t.Fatal("space did not pause")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view does not show pause")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestModel_HeldPan(t *testing.T) {
	m := newTestModel(t)
	t0 := time.Now()

	m = send(t, m, TickMsg(t0))
	m = send(t, m, key("d"))
	m = send(t, m, TickMsg(t0.Add(10*time.Millisecond)))

	pan := m.Sandbox().Camera().PanOffset()
	if math.Abs(pan.X-3) > 1e-9 {
		t.Errorf("pan = %v, want x=3", pan)
	}

	// long after the last press the key no longer counts as held
	m = send(t, m, TickMsg(t0.Add(time.Second)))
	if got := m.Sandbox().Camera().PanOffset(); got != pan {
		t.Errorf("pan moved without a held key: %v", got)
	}
}

func TestModel_Snapshot(t *testing.T) {
	m := newTestModel(t)
	var got *Canvas
	m.opts.Snapshot = func(c *Canvas) (string, error) {
		got = c
		return "shot.svg", nil
	}

	m = send(t, m, key("e"))
	if got != m.Canvas() {
		t.Error("snapshot hook not called with the canvas")
	}
	if m.Notice() != "saved shot.svg" {
		t.Errorf("notice = %q", m.Notice())
	}

	m.opts.Snapshot = func(*Canvas) (string, error) { return "", errors.New("disk full") }
	m = send(t, m, key("e"))
	if !strings.Contains(m.Notice(), "disk full") {
		t.Errorf("notice = %q", m.Notice())
	}
}

func TestModel_DrawsBodies(t *testing.T) {
	m := newTestModel(t)
	t0 := time.Now()

	m = send(t, m, mouse(5, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	m = send(t, m, TickMsg(t0))

	c := m.Canvas()
	cellX, cellY := 5-originX, 5-originY
	if c.Grid[cellY][cellX] == blank {
		t.Error("provisional body not drawn under the pointer")
	}
	if c.Colors[cellY][cellX] == "" {
		t.Error("body drawn without a colour")
	}
}

func TestModel_ViewShowsDiagnostics(t *testing.T) {
	m := newTestModel(t)
	for _, x := range []int{4, 9} {
		m = send(t, m, mouse(x, 5, tea.MouseActionPress, tea.MouseButtonLeft))
		m = send(t, m, mouse(x, 5, tea.MouseActionRelease, tea.MouseButtonLeft))
	}

	view := m.View()
	for _, want := range []string{"Energy", "Spin"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
