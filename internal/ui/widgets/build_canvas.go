package widgets

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/model"
)

// Canvas colours.
var (
	canvasBackground = color.NRGBA{R: 236, G: 244, B: 250, A: 255}
	gridColor        = color.NRGBA{R: 200, G: 214, B: 226, A: 255}
	outlineColor     = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	selectedColor    = color.NRGBA{R: 255, G: 193, B: 7, A: 255}
	invalidColor     = color.NRGBA{R: 229, G: 57, B: 53, A: 255}
	ghostValidColor  = color.NRGBA{R: 67, G: 160, B: 71, A: 255}
)

// BuildCanvas draws a placement session and turns fyne input into session
// pointer events. Mouse input arrives through desktop.Mouseable and
// fyne.Draggable; touch input arrives as taps and drags only, so the first
// drag event of a touch gesture stands in for the pointer-down.
type BuildCanvas struct {
	widget.BaseWidget

	session *engine.Session
	view    Viewport

	// ShowGrid draws the snap grid behind the objects.
	ShowGrid bool
	// OnChanged runs after every event that may have changed the session.
	OnChanged func()

	hasMouse   bool
	dragActive bool
	panning    bool
	lastPos    fyne.Position
	paletteAbs fyne.Position
}

// NewBuildCanvas creates a canvas over a session.
func NewBuildCanvas(s *engine.Session) *BuildCanvas {
	bc := &BuildCanvas{session: s, view: DefaultViewport(), ShowGrid: true}
	bc.ExtendBaseWidget(bc)
	return bc
}

// Session returns the session the canvas drives.
func (bc *BuildCanvas) Session() *engine.Session { return bc.session }

// Viewport returns the current view.
func (bc *BuildCanvas) Viewport() Viewport { return bc.view }

// SetViewport replaces the view and redraws.
func (bc *BuildCanvas) SetViewport(v Viewport) {
	bc.view = v
	bc.Refresh()
}

// ZoomIn and ZoomOut scale the view around the widget centre.
func (bc *BuildCanvas) ZoomIn()  { bc.zoom(1.25) }
func (bc *BuildCanvas) ZoomOut() { bc.zoom(0.8) }

func (bc *BuildCanvas) zoom(factor float64) {
	size := bc.Size()
	bc.SetViewport(bc.view.Zoom(factor, fyne.NewPos(size.Width/2, size.Height/2)))
}

// CreateRenderer implements fyne.Widget.
func (bc *BuildCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &buildCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

// ─── Input ─────────────────────────────────────────────────

// MouseDown implements desktop.Mouseable.
func (bc *BuildCanvas) MouseDown(ev *desktop.MouseEvent) {
	bc.hasMouse = true
	if ev.Button == desktop.MouseButtonTertiary {
		bc.panning = true
		return
	}
	if ev.Button == desktop.MouseButtonSecondary {
		bc.pointerDown(ev.Position, engine.ButtonSecondary)
		return
	}
	bc.lastPos = ev.Position
	bc.pointerDown(ev.Position, engine.ButtonPrimary)
}

// MouseUp implements desktop.Mouseable. A release after a drag has already
// been handled by DragEnd and is ignored by the session.
func (bc *BuildCanvas) MouseUp(ev *desktop.MouseEvent) {
	if bc.panning {
		bc.panning = false
		return
	}
	bc.dispatch(engine.Up(bc.view.ToCanvas(ev.Position)))
}

// Dragged implements fyne.Draggable.
func (bc *BuildCanvas) Dragged(ev *fyne.DragEvent) {
	if bc.panning {
		bc.SetViewport(bc.view.Pan(ev.Dragged.DX, ev.Dragged.DY))
		return
	}
	if !bc.dragActive && !bc.hasMouse {
		start := ev.Position.Subtract(fyne.NewPos(ev.Dragged.DX, ev.Dragged.DY))
		bc.pointerDown(start, engine.ButtonPrimary)
	}
	bc.dragActive = true
	bc.lastPos = ev.Position
	bc.dispatch(engine.Move(bc.view.ToCanvas(ev.Position)))
}

// DragEnd implements fyne.Draggable.
func (bc *BuildCanvas) DragEnd() {
	bc.dragActive = false
	if bc.panning {
		bc.panning = false
		return
	}
	bc.dispatch(engine.Up(bc.view.ToCanvas(bc.lastPos)))
}

// Tapped implements fyne.Tappable. Mouse clicks were already delivered as
// MouseDown and MouseUp.
func (bc *BuildCanvas) Tapped(ev *fyne.PointEvent) {
	if bc.hasMouse {
		return
	}
	bc.pointerDown(ev.Position, engine.ButtonPrimary)
	bc.dispatch(engine.Up(bc.view.ToCanvas(ev.Position)))
}

// TappedSecondary implements fyne.SecondaryTappable: right click or long
// press. It selects the object under the pointer and opens its menu.
func (bc *BuildCanvas) TappedSecondary(ev *fyne.PointEvent) {
	if !bc.hasMouse {
		bc.pointerDown(ev.Position, engine.ButtonSecondary)
	}
	id, ok := bc.contextTarget(ev.Position)
	if !ok {
		return
	}
	c := fyne.CurrentApp().Driver().CanvasForObject(bc)
	if c == nil {
		return
	}
	widget.ShowPopUpMenuAtPosition(bc.ContextMenu(id), c, ev.AbsolutePosition)
}

// Scrolled implements fyne.Scrollable by panning the view.
func (bc *BuildCanvas) Scrolled(ev *fyne.ScrollEvent) {
	bc.SetViewport(bc.view.Pan(ev.Scrolled.DX, ev.Scrolled.DY))
}

// Cursor implements desktop.Cursorable.
func (bc *BuildCanvas) Cursor() desktop.Cursor {
	if bc.session.Tool() == model.Air {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

// ContextMenu returns the Rotate/Delete menu for an object.
func (bc *BuildCanvas) ContextMenu(id string) *fyne.Menu {
	return fyne.NewMenu("",
		fyne.NewMenuItem("Rotate", func() {
			// Rejections reach the user through the session's OnReject hook.
			_ = bc.session.Rotate(id)
			bc.changed()
		}),
		fyne.NewMenuItem("Delete", func() {
			_ = bc.session.Delete(id)
			bc.changed()
		}),
	)
}

// SelectTool applies a palette tap: the erase tool is always available,
// other entries only while the inventory holds some.
func (bc *BuildCanvas) SelectTool(t model.ObjectType) {
	if t != model.Air && bc.session.Inventory().Count(t) <= 0 {
		return
	}
	bc.session.SelectTool(t)
	bc.changed()
}

// PaletteDrag forwards a drag that started on a palette entry. abs is the
// absolute pointer position; the first call of a gesture is its pointer-down.
func (bc *BuildCanvas) PaletteDrag(t model.ObjectType, abs fyne.Position) {
	x, y := bc.view.ToCanvas(bc.toLocal(abs))
	bc.paletteAbs = abs
	if bc.session.State() != engine.DraggingFromPalette {
		bc.dispatch(engine.Down(x, y, engine.PaletteTarget(t)))
		return
	}
	bc.dispatch(engine.Move(x, y))
}

// PaletteDragEnd drops the palette ghost where the pointer was last seen.
func (bc *BuildCanvas) PaletteDragEnd() {
	if bc.session.State() != engine.DraggingFromPalette {
		return
	}
	x, y := bc.view.ToCanvas(bc.toLocal(bc.paletteAbs))
	bc.dispatch(engine.Up(x, y))
}

// CancelGesture abandons any drag, for example when the window loses focus.
func (bc *BuildCanvas) CancelGesture() {
	bc.dragActive = false
	bc.panning = false
	bc.dispatch(engine.Cancel())
}

func (bc *BuildCanvas) pointerDown(pos fyne.Position, button engine.Button) {
	x, y := bc.view.ToCanvas(pos)
	target := engine.Target{}
	if id, ok := bc.session.ObjectAt(x, y); ok {
		target = engine.ObjectTarget(id)
	}
	bc.dispatch(engine.PointerEvent{Phase: engine.PointerDown, X: x, Y: y, Button: button, Target: target})
}

// contextTarget returns the object a secondary tap at pos opens the menu
// for: the one under the pointer, never an earlier selection.
func (bc *BuildCanvas) contextTarget(pos fyne.Position) (string, bool) {
	id, ok := bc.session.ObjectAt(bc.view.ToCanvas(pos))
	if !ok {
		return "", false
	}
	if selected, _ := bc.session.Selected(); selected != id {
		return "", false
	}
	return id, true
}

func (bc *BuildCanvas) dispatch(ev engine.PointerEvent) {
	bc.session.Handle(ev)
	bc.changed()
}

func (bc *BuildCanvas) changed() {
	bc.Refresh()
	if bc.OnChanged != nil {
		bc.OnChanged()
	}
}

// toLocal converts an absolute position to one relative to the canvas.
func (bc *BuildCanvas) toLocal(abs fyne.Position) fyne.Position {
	app := fyne.CurrentApp()
	if app == nil || app.Driver().CanvasForObject(bc) == nil {
		return abs
	}
	return abs.Subtract(app.Driver().AbsolutePositionForObject(bc))
}

// ─── Rendering ─────────────────────────────────────────────

type buildCanvasRenderer struct {
	bc      *BuildCanvas
	objects []fyne.CanvasObject
}

func (r *buildCanvasRenderer) rebuild() {
	r.objects = nil
	size := r.bc.Size()
	view := r.bc.view

	bg := canvas.NewRectangle(canvasBackground)
	bg.Resize(size)
	r.objects = append(r.objects, bg)

	if r.bc.ShowGrid {
		r.drawGrid(size, view)
	}

	frame := r.bc.session.Frame()
	for _, o := range frame.Objects {
		fill := o.Color
		stroke := outlineColor
		strokeWidth := float32(1)
		switch {
		case o.Invalid:
			fill.A = 140
			stroke = invalidColor
			strokeWidth = 3
		case o.Dragging:
			fill.A = 200
		}
		if o.Selected {
			stroke = selectedColor
			strokeWidth = 3
		}
		r.addBox(view, o.X, o.Y, o.Size, fill, stroke, strokeWidth)

		// Type name, only if the block is wide enough on screen
		if px := view.ScaleSize(o.Size.Width, o.Size.Height); px.Width > 60 && px.Height > 16 {
			label := canvas.NewText(string(o.Type), color.Black)
			label.TextSize = 10
			label.Move(view.ToScreen(o.X, o.Y).Add(fyne.NewPos(3, 2)))
			r.objects = append(r.objects, label)
		}
	}

	if g := frame.Ghost; g != nil {
		fill := ghostValidColor
		if !g.Valid {
			fill = invalidColor
		}
		stroke := fill
		fill.A = 110
		r.addBox(view, g.X, g.Y, g.Size, fill, stroke, 2)
	}
}

func (r *buildCanvasRenderer) addBox(view Viewport, x, y float64, size model.Size, fill, stroke color.NRGBA, strokeWidth float32) {
	rect := canvas.NewRectangle(fill)
	rect.StrokeColor = stroke
	rect.StrokeWidth = strokeWidth
	rect.Resize(view.ScaleSize(size.Width, size.Height))
	rect.Move(view.ToScreen(x, y))
	r.objects = append(r.objects, rect)
}

// drawGrid draws the snap grid lines that fall inside the widget.
func (r *buildCanvasRenderer) drawGrid(size fyne.Size, view Viewport) {
	if view.ScaleSize(engine.GridSize, 0).Width < 6 {
		return
	}
	minX, minY := view.ToCanvas(fyne.NewPos(0, 0))
	maxX, maxY := view.ToCanvas(fyne.NewPos(size.Width, size.Height))
	for x := math.Ceil(minX/engine.GridSize) * engine.GridSize; x <= maxX; x += engine.GridSize {
		p := view.ToScreen(x, 0)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(p.X, 0)
		line.Position2 = fyne.NewPos(p.X, size.Height)
		r.objects = append(r.objects, line)
	}
	for y := math.Ceil(minY/engine.GridSize) * engine.GridSize; y <= maxY; y += engine.GridSize {
		p := view.ToScreen(0, y)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(0, p.Y)
		line.Position2 = fyne.NewPos(size.Width, p.Y)
		r.objects = append(r.objects, line)
	}
}

func (r *buildCanvasRenderer) Layout(size fyne.Size)        { r.rebuild() }
func (r *buildCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *buildCanvasRenderer) Destroy()                     {}
func (r *buildCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *buildCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(480, 360) }
