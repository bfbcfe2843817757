// Package tui is a terminal surface for the building canvas. Terminal
// cells map onto canvas units, so blocks render as coloured cell runs and
// the mouse drives the same placement session as the desktop app.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/model"
	"github.com/piwi3910/blockbuilder/internal/project"
)

// Canvas units covered by one terminal cell.
const (
	UnitsPerColumn = 10.0
	UnitsPerRow    = 20.0
)

// Rows used above and below the canvas: a title line on top, the palette
// and status lines at the bottom.
const (
	headerRows = 1
	footerRows = 2
)

type screen int

const (
	screenBuilds screen = iota
	screenBuilding
	screenRenaming
	screenConfirmDelete
)

// notice is shared with session callbacks, which outlive any one copy of
// the model.
type notice struct {
	text string
}

// Model is the bubbletea model.
type Model struct {
	ws     *project.Workspace
	screen screen

	builds []model.Build
	cursor int

	session *engine.Session
	notice  *notice
	originX float64
	originY float64

	rename textinput.Model

	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true)

	canvasStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1C2833"))

	invalidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#E53935"))

	ghostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#43A047"))

	selectedToolStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(lipgloss.Color("#FFC107")).
				Bold(true)

	emptyToolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))
)

// NewModel creates the terminal model over an open workspace.
func NewModel(ws *project.Workspace) Model {
	ti := textinput.New()
	ti.Placeholder = "Build name"
	ti.CharLimit = 40
	ti.Width = 30

	m := Model{
		ws:     ws,
		rename: ti,
		notice: &notice{},
		width:  80,
		height: 24,
	}
	m.reloadBuilds()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.leaveSession()
			return m, tea.Quit
		}
		switch m.screen {
		case screenBuilds:
			return m.updateBuilds(msg)
		case screenConfirmDelete:
			return m.updateConfirmDelete(msg)
		case screenBuilding:
			return m.updateBuilding(msg)
		case screenRenaming:
			return m.updateRenaming(msg)
		}
	case tea.MouseMsg:
		if m.screen == screenBuilding {
			m.handleMouse(msg)
		}
		return m, nil
	}
	if m.screen == screenRenaming {
		var cmd tea.Cmd
		m.rename, cmd = m.rename.Update(msg)
		return m, cmd
	}
	return m, nil
}

// ─── Builds Screen ─────────────────────────────────────────

func (m *Model) reloadBuilds() {
	builds, err := m.ws.Builds()
	if err != nil {
		logrus.WithError(err).Error("failed to list builds")
		m.notice.text = fmt.Sprintf("Could not read builds: %v", err)
	}
	m.builds = builds
	if m.cursor >= len(m.builds) {
		m.cursor = max(len(m.builds)-1, 0)
	}
}

func (m Model) updateBuilds(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.builds)-1 {
			m.cursor++
		}
	case "n":
		m.enter(m.ws.NewBuild(m.callbacks()))
	case "enter":
		if len(m.builds) == 0 {
			return m, nil
		}
		s, err := m.ws.EditBuild(m.builds[m.cursor].ID, m.callbacks())
		if err != nil {
			m.notice.text = err.Error()
			return m, nil
		}
		m.enter(s)
	case "d":
		if len(m.builds) > 0 {
			m.screen = screenConfirmDelete
		}
	}
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.screen = screenBuilds
	if msg.String() != "y" {
		m.notice.text = ""
		return m, nil
	}
	b := m.builds[m.cursor]
	if err := m.ws.DeleteBuilds(b.ID); err != nil {
		m.notice.text = err.Error()
	} else {
		m.notice.text = fmt.Sprintf("Deleted %q, %d block(s) returned", b.Name, len(b.Blocks))
	}
	m.reloadBuilds()
	return m, nil
}

// ─── Build Screen ──────────────────────────────────────────

func (m *Model) callbacks() engine.Callbacks {
	n := m.notice
	return engine.Callbacks{
		OnReject: func(r engine.Rejection) { n.text = r.Message },
	}
}

func (m *Model) enter(s *engine.Session) {
	m.session = s
	m.screen = screenBuilding
	m.originX, m.originY = 0, 0
	m.notice.text = ""
	if s.Tool() == "" {
		if tools := m.tools(); len(tools) > 1 {
			s.SelectTool(tools[1])
		}
	}
}

// leaveSession exits build mode without saving, restoring the inventory.
func (m *Model) leaveSession() {
	if m.session == nil {
		return
	}
	m.session.Handle(engine.Cancel())
	if err := m.ws.ExitSession(m.session); err != nil {
		logrus.WithError(err).Error("failed to restore inventory")
	}
	m.session = nil
	m.screen = screenBuilds
	m.reloadBuilds()
}

func (m Model) updateBuilding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch msg.String() {
	case "esc":
		m.leaveSession()
		m.notice.text = "Left without saving"
	case "tab":
		m.cycleTool(1)
	case "shift+tab":
		m.cycleTool(-1)
	case "a":
		s.SelectTool(model.Air)
	case "r":
		if id, ok := s.Selected(); ok {
			if err := s.Rotate(id); err == nil {
				m.notice.text = ""
			}
		}
	case "x":
		if id, ok := s.Selected(); ok {
			_ = s.Delete(id)
		}
	case "n":
		m.rename.SetValue(s.Name())
		m.rename.Focus()
		m.screen = screenRenaming
		return m, textinput.Blink
	case "s":
		if err := m.ws.SaveSession(s); err != nil {
			m.notice.text = err.Error()
		} else {
			m.notice.text = fmt.Sprintf("Saved %q", s.Name())
		}
	case "left":
		m.originX -= UnitsPerColumn * 4
	case "right":
		m.originX += UnitsPerColumn * 4
	case "up":
		m.originY -= UnitsPerRow
	case "down":
		m.originY += UnitsPerRow
	}
	return m, nil
}

func (m Model) updateRenaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if name := strings.TrimSpace(m.rename.Value()); name != "" {
			m.session.SetName(name)
		}
		m.rename.Blur()
		m.screen = screenBuilding
		return m, nil
	case tea.KeyEsc:
		m.rename.Blur()
		m.screen = screenBuilding
		return m, nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

// tools lists the palette entries: the erase tool, then every type the
// inventory holds, in catalog order.
func (m Model) tools() []model.ObjectType {
	tools := []model.ObjectType{model.Air}
	inv := m.session.Inventory()
	for _, t := range m.ws.Catalog().Order() {
		if inv.Count(t) > 0 {
			tools = append(tools, t)
		}
	}
	return tools
}

func (m Model) cycleTool(step int) {
	tools := m.tools()
	current := 0
	for i, t := range tools {
		if t == m.session.Tool() {
			current = i
		}
	}
	next := ((current+step)%len(tools) + len(tools)) % len(tools)
	m.session.SelectTool(tools[next])
}

// ─── Mouse ─────────────────────────────────────────────────

// CellToCanvas converts a terminal cell to canvas units.
func (m Model) CellToCanvas(col, row int) (float64, float64) {
	return m.originX + float64(col)*UnitsPerColumn, m.originY + float64(row-headerRows)*UnitsPerRow
}

func (m Model) canvasRows() int {
	return max(m.height-headerRows-footerRows, 1)
}

func (m Model) paletteRow() int {
	return headerRows + m.canvasRows()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	s := m.session
	x, y := m.CellToCanvas(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonRight {
			return
		}
		button := engine.ButtonPrimary
		if msg.Button == tea.MouseButtonRight {
			button = engine.ButtonSecondary
		}
		target := engine.Target{}
		if msg.Y == m.paletteRow() {
			t, ok := m.paletteAt(msg.X)
			if !ok {
				return
			}
			target = engine.PaletteTarget(t)
		} else if id, ok := s.ObjectAt(x, y); ok {
			target = engine.ObjectTarget(id)
		}
		s.Handle(engine.PointerEvent{Phase: engine.PointerDown, X: x, Y: y, Button: button, Target: target})
	case tea.MouseActionMotion:
		s.Handle(engine.Move(x, y))
	case tea.MouseActionRelease:
		s.Handle(engine.Up(x, y))
	}
}

// paletteLabel is how a palette entry is drawn.
func (m Model) paletteLabel(t model.ObjectType) string {
	if t == model.Air {
		return " Remove "
	}
	return fmt.Sprintf(" %s:%d ", t, m.session.Inventory().Count(t))
}

// paletteAt returns the palette entry drawn at a column.
func (m Model) paletteAt(col int) (model.ObjectType, bool) {
	x := 0
	for _, t := range m.tools() {
		w := lipgloss.Width(m.paletteLabel(t))
		if col >= x && col < x+w {
			return t, true
		}
		x += w
	}
	return "", false
}

// ─── View ──────────────────────────────────────────────────

// View implements tea.Model.
func (m Model) View() string {
	switch m.screen {
	case screenBuilding, screenRenaming:
		return m.viewBuilding()
	default:
		return m.viewBuilds()
	}
}

func (m Model) viewBuilds() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("My Builds") + "\n\n")
	if len(m.builds) == 0 {
		b.WriteString("  No builds yet.\n")
	}
	for i, build := range m.builds {
		line := fmt.Sprintf("  %-30s %4d blocks  %s", build.Name, len(build.Blocks),
			build.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	if m.screen == screenConfirmDelete {
		b.WriteString(fmt.Sprintf("Delete %q and return its blocks? (y/n)\n", m.builds[m.cursor].Name))
	} else if m.notice.text != "" {
		b.WriteString(m.notice.text + "\n")
	}
	b.WriteString(helpStyle.Render("enter: edit  n: new build  d: delete  q: quit"))
	return b.String()
}

func (m Model) viewBuilding() string {
	s := m.session
	title := titleStyle.Render(s.Name())
	if m.screen == screenRenaming {
		title = "Rename: " + m.rename.View()
	}

	lines := []string{title}
	lines = append(lines, m.renderCanvas()...)
	lines = append(lines, m.renderPalette())

	status := m.notice.text
	if status == "" {
		status = helpStyle.Render("tab: tool  a: remove  r: rotate  x: delete  n: rename  s: save  esc: exit")
	}
	lines = append(lines, status)
	return strings.Join(lines, "\n")
}

// renderCanvas draws every visible cell. A cell shows the topmost object
// whose box covers the cell's top-left corner.
func (m Model) renderCanvas() []string {
	frame := m.session.Frame()
	rows := m.canvasRows()
	cols := max(m.width, 1)

	out := make([]string, rows)
	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < cols; c++ {
			x, y := m.CellToCanvas(c, r+headerRows)
			line.WriteString(m.renderCell(frame, x, y))
		}
		out[r] = line.String()
	}
	return out
}

func (m Model) renderCell(frame engine.Frame, x, y float64) string {
	cx, cy := x+UnitsPerColumn/2, y+UnitsPerRow/2
	if g := frame.Ghost; g != nil {
		box := engine.Box{X: g.X, Y: g.Y, Width: g.Size.Width, Height: g.Size.Height}
		if box.Contains(cx, cy) {
			if !g.Valid {
				return invalidStyle.Render("░")
			}
			return ghostStyle.Render("░")
		}
	}
	for i := len(frame.Objects) - 1; i >= 0; i-- {
		o := frame.Objects[i]
		box := engine.Box{X: o.X, Y: o.Y, Width: o.Size.Width, Height: o.Size.Height}
		if !box.Contains(cx, cy) {
			continue
		}
		if o.Invalid {
			return invalidStyle.Render(glyph(o.Type))
		}
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(hexColor(o.Color.R, o.Color.G, o.Color.B)))
		if o.Selected {
			style = style.Bold(true).Reverse(true)
		}
		return style.Render(glyph(o.Type))
	}
	if math.Mod(x, engine.GridSize*2) == 0 && math.Mod(y, engine.GridSize*2) == 0 {
		return canvasStyle.Render("·")
	}
	return canvasStyle.Render(" ")
}

func (m Model) renderPalette() string {
	var b strings.Builder
	tool := m.session.Tool()
	inv := m.session.Inventory()
	for _, t := range m.tools() {
		label := m.paletteLabel(t)
		switch {
		case t == tool:
			b.WriteString(selectedToolStyle.Render(label))
		case t != model.Air && inv.Count(t) == 0:
			b.WriteString(emptyToolStyle.Render(label))
		default:
			b.WriteString(label)
		}
	}
	return b.String()
}

func glyph(t model.ObjectType) string {
	if t == "" {
		return "?"
	}
	return string([]rune(string(t))[0])
}

func hexColor(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Run starts the terminal program and blocks until it exits.
func Run(ws *project.Workspace) error {
	p := tea.NewProgram(NewModel(ws), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
