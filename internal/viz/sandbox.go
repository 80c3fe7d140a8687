package viz

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24

	panelWidth = 36
	// origin of the canvas inside its border, in terminal cells
	originX, originY = 1, 1

	// Terminals report key presses but not releases, so a pan key counts as
	// held for this long after its last press or auto-repeat.
	holdWindow = 120 * time.Millisecond
	maxFrameDt = 0.25
	noticeTTL  = 3 * time.Second

	historyCapacity = 300
	scaleBarUnits   = 100
)

type TickMsg time.Time

type Options struct {
	Title  string
	Theme  string
	FPS    int
	Width  int
	Height int
	Logger *slog.Logger
	// Snapshot is called with the current canvas when "e" is pressed and
	// returns where the snapshot was written.
	Snapshot func(*Canvas) (string, error)
}

// Model is the interactive sandbox view.
type Model struct {
	sb     *sim.Sandbox
	opts   Options
	theme  Theme
	st     styles
	canvas *Canvas
	frame  sim.Frame

	last    time.Time
	pressed map[string]time.Time

	energy     []float64
	lastBodies int

	notice   string
	noticeAt time.Time
	showHelp bool
	logger   *slog.Logger
}

func NewModel(sb *sim.Sandbox, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}
	if opts.Title == "" {
		opts.Title = "GRAVBOX"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	theme := GetTheme(opts.Theme)
	m := Model{
		sb:      sb,
		opts:    opts,
		theme:   theme,
		st:      newStyles(theme),
		canvas:  NewCanvas(opts.Width, opts.Height),
		pressed: make(map[string]time.Time),
		energy:  make([]float64, 0, historyCapacity),
		logger:  logger,
	}
	m.centreCamera()
	m.frame = sb.Frame()
	return m
}

func (m Model) Sandbox() *sim.Sandbox { return m.sb }
func (m Model) Canvas() *Canvas       { return m.canvas }
func (m Model) Theme() Theme          { return m.theme }
func (m Model) Notice() string        { return m.notice }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the sandbox.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := max(msg.Width-panelWidth-2*originX, 10)
		h := max(msg.Height-2*originY, 5)
		m.canvas.Resize(w, h)
		m.centreCamera()
		m.draw()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		m.step(time.Time(msg))
		m.draw()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case ".", ">":
		m.report(m.sb.AccelerateTime(2))
	case ",", "<":
		m.report(m.sb.AccelerateTime(0.5))
	case "w", "a", "s", "d", "up", "down", "left", "right":
		m.pressed[panDirection(key)] = now
	case "x":
		m.sb.SetSuppressVelocity(!m.sb.SuppressVelocity())
		if m.sb.SuppressVelocity() {
			m.say("bodies are released at rest")
		} else {
			m.say("bodies keep their drag velocity")
		}
	case " ":
		m.sb.SetPaused(!m.sb.Paused())
	case "esc":
		m.sb.Session().Cancel()
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.st = newStyles(m.theme)
	case "e":
		m.snapshot()
	case "?":
		m.showHelp = !m.showHelp
	}
	m.frame = m.sb.Frame()
	return m, nil
}

func panDirection(key string) string {
	switch key {
	case "w", "up":
		return "up"
	case "s", "down":
		return "down"
	case "a", "left":
		return "left"
	default:
		return "right"
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := ScreenPoint(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.report(m.sb.Scroll(1, msg.Shift))
	case msg.Button == tea.MouseButtonWheelDown:
		m.report(m.sb.Scroll(-1, msg.Shift))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.inside(msg.X, msg.Y) {
			m.report(m.sb.PointerDown(p))
		}
	case msg.Action == tea.MouseActionMotion:
		m.sb.PointerMove(p)
	case msg.Action == tea.MouseActionRelease && primary(msg.Button):
		if m.sb.Session().Active() {
			m.report(m.sb.PointerUp(p, msg.Ctrl))
		}
	}
	m.frame = m.sb.Frame()
}

// primary reports whether a release came from the left button. X10 mouse
// encoding reports every release without a button.
func primary(b tea.MouseButton) bool {
	return b == tea.MouseButtonLeft || b == tea.MouseButtonNone
}

// ScreenPoint maps a terminal cell to the dot at its centre.
func ScreenPoint(x, y int) r2.Vec {
	return r2.Vec{X: float64(2*(x-originX) + 1), Y: float64(4*(y-originY) + 2)}
}

func (m *Model) inside(x, y int) bool {
	x, y = x-originX, y-originY
	return x >= 0 && y >= 0 && x < m.canvas.Width && y < m.canvas.Height
}

func (m *Model) centreCamera() {
	m.sb.Camera().SetCentre(r2.Vec{
		X: float64(m.canvas.SubWidth()) / 2,
		Y: float64(m.canvas.SubHeight()) / 2,
	})
}

func (m *Model) step(now time.Time) {
	var dt float64
	if !m.last.IsZero() {
		dt = math.Min(now.Sub(m.last).Seconds(), maxFrameDt)
	}
	m.last = now

	m.sb.SetHeld(m.held(now))
	m.frame = m.sb.Tick(dt)

	if n := len(m.frame.Bodies); n != m.lastBodies {
		m.energy = m.energy[:0]
		m.lastBodies = n
	}
	if m.lastBodies >= 2 && !math.IsNaN(m.frame.Energy) && !math.IsInf(m.frame.Energy, 0) {
		m.energy = append(m.energy, m.frame.Energy)
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}

	if m.notice != "" && now.Sub(m.noticeAt) > noticeTTL {
		m.notice = ""
	}
}

func (m *Model) held(now time.Time) camera.Directions {
	down := func(dir string) bool {
		t, ok := m.pressed[dir]
		return ok && now.Sub(t) < holdWindow
	}
	return camera.Directions{
		Up:    down("up"),
		Down:  down("down"),
		Left:  down("left"),
		Right: down("right"),
	}
}

func (m *Model) say(msg string) {
	m.notice = msg
	m.noticeAt = time.Now()
}

// report turns an input error into a notice.
func (m *Model) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, dynamo.ErrZeroElapsedTime):
		m.say("released at rest: no time passed during the drag")
	case errors.Is(err, dynamo.ErrInvalidZoom):
		m.say("zoom limit reached")
	case errors.Is(err, dynamo.ErrInvalidTimeScale):
		m.say("time scale limit reached")
	case errors.Is(err, dynamo.ErrInvalidMass):
		m.say("mass limit reached")
	default:
		m.say(err.Error())
	}
}

func (m *Model) snapshot() {
	if m.opts.Snapshot == nil {
		return
	}
	path, err := m.opts.Snapshot(m.canvas)
	if err != nil {
		m.logger.Error("snapshot failed", "err", err)
		m.say("snapshot failed: " + err.Error())
		return
	}
	m.logger.Info("snapshot saved", "path", path)
	m.say("saved " + path)
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, b := range m.frame.Bodies {
		m.drawBody(b)
	}
	if p := m.frame.Provisional; p != nil {
		m.drawBody(*p)
	}
	m.drawScaleBar()
}

func (m *Model) drawBody(b sim.BodyView) {
	p := m.sb.ScreenOf(b.Position)
	r, filled := DrawRadius(b.Mass, m.frame.Zoom, m.sb.Universe().DistanceScale())

	w, h := float64(m.canvas.SubWidth()), float64(m.canvas.SubHeight())
	if !(p.X+r >= 0 && p.X-r < w && p.Y+r >= 0 && p.Y-r < h) {
		// off screen, or not finite
		return
	}
	ri := int(math.Round(math.Min(r, 2*(w+h))))
	x, y := int(math.Round(p.X)), int(math.Round(p.Y))

	color := BodyHex(b.Mass)
	if filled {
		m.canvas.FillCircle(x, y, ri, color)
	} else {
		m.canvas.DrawCircle(x, y, ri, color)
	}
}

func (m *Model) drawScaleBar() {
	units := scaleBarUnits
	for units+8 > m.canvas.SubWidth() && units > 10 {
		units /= 2
	}
	y := m.canvas.SubHeight() - 3
	color := string(m.theme.Space)
	m.canvas.DrawLine(4, y, 4+units, y, color)
	m.canvas.DrawLine(4, y-2, 4, y+1, color)
	m.canvas.DrawLine(4+units, y-2, 4+units, y+1, color)

	label := ReadableDistance(float64(units) * m.frame.MetresPerUnit)
	m.canvas.Text(2, m.canvas.Height-2, label, string(m.theme.Muted))
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := m.st.canvas.Render(m.canvas.Render(string(m.theme.Space)))
	panel := m.st.panel.Render(m.panel())
	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panel)
	if m.showHelp {
		return m.st.help.Render(helpText) + "\n" + view
	}
	return view
}

func (m Model) panel() string {
	f := m.frame
	var s strings.Builder

	s.WriteString(m.st.header.Render(m.opts.Title) + "\n")

	switch {
	case f.Unstable:
		s.WriteString(m.st.alert.Render("UNSTABLE, slow time down (,)"))
	case f.Paused:
		s.WriteString(m.st.paused.Render("PAUSED"))
	default:
		s.WriteString(m.st.running.Render("RUNNING"))
	}
	if f.SuppressVelocity {
		s.WriteString(m.st.hint.Render("  at rest"))
	}
	s.WriteString("\n\n")

	row := func(label, value string) {
		s.WriteString(m.st.label.Render(label) + m.st.value.Render(value) + "\n")
	}
	row("Elapsed", ElapsedTime(f.TotalTime))
	row("Speed", TimeScale(f.TimeScale))
	row("Bodies", fmt.Sprintf("%d", len(f.Bodies)))
	row("Zoom", fmt.Sprintf("%.3gx", f.Zoom))
	row("Unit", ReadableDistance(f.MetresPerUnit))
	if len(f.Bodies) >= 2 {
		row("Energy", fmt.Sprintf("%.4g J", f.Energy))
		row("Spin", fmt.Sprintf("%.4g kg m²/s", f.AngularMomentum))
	}
	if f.Degenerate > 0 {
		row("Overlap", fmt.Sprintf("%d pairs", f.Degenerate))
	}
	if p := f.Provisional; p != nil {
		s.WriteString("\n")
		row("Mass", fmt.Sprintf("%.3g kg", p.Mass))
		row("", fmt.Sprintf("x%.3g reference", f.MassMultiplier))
		row("Colour", lipgloss.NewStyle().Foreground(lipgloss.Color(BodyHex(p.Mass))).Render("●"))
	}

	if chart := m.energyChart(); chart != "" {
		s.WriteString("\n" + m.st.graph.Render(chart) + "\n")
	}

	if m.notice != "" {
		s.WriteString("\n" + m.st.notice.Render(m.notice) + "\n")
	}

	s.WriteString("\n" + m.st.separator(panelWidth-2) + "\n")
	s.WriteString(m.st.hint.Render("drag:fling  wheel:zoom/mass\n.,:time  wasd:pan  ?:help"))
	return s.String()
}

// energyChart plots total energy normalised by its largest magnitude so the
// axis labels stay narrow.
func (m Model) energyChart() string {
	if len(m.energy) < 2 {
		return ""
	}
	scale := 0.0
	for _, e := range m.energy {
		scale = math.Max(scale, math.Abs(e))
	}
	if scale == 0 {
		return ""
	}
	data := make([]float64, len(m.energy))
	for i, e := range m.energy {
		data[i] = e / scale
	}
	return asciigraph.Plot(data,
		asciigraph.Height(4),
		asciigraph.Width(panelWidth-12),
		asciigraph.Precision(3),
		asciigraph.Caption(fmt.Sprintf("energy / %.2g J", scale)),
	)
}

const helpText = `KEYBOARD AND MOUSE
  drag         author a body, release to fling
  ctrl+release release at rest
  wheel        zoom, or mass while dragging
  shift+wheel  mass in larger steps
  . / ,        time x2 / x0.5
  w a s d      pan
  x            toggle release at rest
  space        pause
  esc          drop the body being dragged
  t            cycle themes
  e            save snapshot
  ?            toggle this help
  q            quit`
