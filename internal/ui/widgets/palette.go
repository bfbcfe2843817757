package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// PaletteItem is one palette entry: a colour swatch, the type name and the
// inventory count. Tapping selects the tool; dragging places a new block.
type PaletteItem struct {
	widget.BaseWidget

	Type  model.ObjectType
	Color color.NRGBA

	// OnTapped, OnDragged and OnDragEnd forward input to the canvas.
	// OnDragged receives absolute positions.
	OnTapped  func(t model.ObjectType)
	OnDragged func(t model.ObjectType, abs fyne.Position)
	OnDragEnd func(t model.ObjectType)

	count    int
	selected bool

	background *canvas.Rectangle
	label      *widget.Label
}

// NewPaletteItem creates an entry for a catalog type.
func NewPaletteItem(t model.ObjectType, c color.NRGBA) *PaletteItem {
	item := &PaletteItem{Type: t, Color: c}
	item.ExtendBaseWidget(item)
	return item
}

// SetCount updates the displayed inventory count.
func (p *PaletteItem) SetCount(n int) {
	p.count = n
	p.Refresh()
}

// Count returns the displayed inventory count.
func (p *PaletteItem) Count() int { return p.count }

// SetSelected highlights the entry as the current tool.
func (p *PaletteItem) SetSelected(selected bool) {
	p.selected = selected
	p.Refresh()
}

// Text returns the entry caption.
func (p *PaletteItem) Text() string {
	if p.Type == model.Air {
		return "Remove"
	}
	return fmt.Sprintf("%s (%d)", p.Type, p.count)
}

// CreateRenderer implements fyne.Widget.
func (p *PaletteItem) CreateRenderer() fyne.WidgetRenderer {
	p.background = canvas.NewRectangle(color.Transparent)
	p.label = widget.NewLabel(p.Text())

	var swatch fyne.CanvasObject
	if p.Type == model.Air {
		icon := canvas.NewImageFromResource(theme.ContentClearIcon())
		icon.SetMinSize(fyne.NewSize(24, 24))
		swatch = icon
	} else {
		rect := canvas.NewRectangle(p.Color)
		rect.StrokeColor = outlineColor
		rect.StrokeWidth = 1
		rect.SetMinSize(fyne.NewSize(24, 24))
		swatch = rect
	}

	p.applyState()
	row := container.NewBorder(nil, nil, container.NewCenter(swatch), nil, p.label)
	return widget.NewSimpleRenderer(container.NewStack(p.background, row))
}

// Refresh updates the caption and highlight.
func (p *PaletteItem) Refresh() {
	if p.label != nil {
		p.applyState()
	}
	p.BaseWidget.Refresh()
}

func (p *PaletteItem) applyState() {
	p.label.SetText(p.Text())
	p.label.Importance = widget.MediumImportance
	if p.Type != model.Air && p.count <= 0 {
		p.label.Importance = widget.LowImportance
	}
	if p.selected {
		p.background.FillColor = theme.Color(theme.ColorNameSelection)
	} else {
		p.background.FillColor = color.Transparent
	}
	p.background.Refresh()
}

// Tapped implements fyne.Tappable.
func (p *PaletteItem) Tapped(*fyne.PointEvent) {
	if p.OnTapped != nil {
		p.OnTapped(p.Type)
	}
}

// Dragged implements fyne.Draggable.
func (p *PaletteItem) Dragged(ev *fyne.DragEvent) {
	if p.OnDragged != nil {
		p.OnDragged(p.Type, ev.AbsolutePosition)
	}
}

// DragEnd implements fyne.Draggable.
func (p *PaletteItem) DragEnd() {
	if p.OnDragEnd != nil {
		p.OnDragEnd(p.Type)
	}
}

// Palette groups palette items by catalog category, with the Remove tool
// first.
type Palette struct {
	items map[model.ObjectType]*PaletteItem
	order []model.ObjectType
	root  fyne.CanvasObject
}

// NewPalette builds palette entries for every catalog type and wires them
// to a canvas.
func NewPalette(cat *model.Catalog, bc *BuildCanvas) *Palette {
	p := &Palette{items: make(map[model.ObjectType]*PaletteItem)}

	newItem := func(t model.ObjectType, c color.NRGBA) *PaletteItem {
		item := NewPaletteItem(t, c)
		item.OnTapped = bc.SelectTool
		item.OnDragged = bc.PaletteDrag
		item.OnDragEnd = func(model.ObjectType) { bc.PaletteDragEnd() }
		p.items[t] = item
		p.order = append(p.order, t)
		return item
	}

	remove := newItem(model.Air, color.NRGBA{})
	accordion := widget.NewAccordion()
	for _, category := range cat.Categories() {
		box := container.NewVBox()
		for _, t := range category.Types {
			spec, _ := cat.Lookup(t)
			box.Add(newItem(t, spec.Color))
		}
		accordion.Append(widget.NewAccordionItem(category.Name, box))
	}
	if len(accordion.Items) > 0 {
		accordion.Open(0)
	}

	p.root = container.NewBorder(remove, nil, nil, nil, container.NewVScroll(accordion))
	p.Update(bc.Session().Inventory(), bc.Session().Tool())
	return p
}

// Object returns the palette's root canvas object.
func (p *Palette) Object() fyne.CanvasObject { return p.root }

// Item returns the entry for a type.
func (p *Palette) Item(t model.ObjectType) (*PaletteItem, bool) {
	item, ok := p.items[t]
	return item, ok
}

// Update refreshes counts and the tool highlight.
func (p *Palette) Update(inv model.Inventory, tool model.ObjectType) {
	for _, t := range p.order {
		item := p.items[t]
		if item.count != inv.Count(t) || item.selected != (t == tool) {
			item.count = inv.Count(t)
			item.selected = t == tool
			item.Refresh()
		}
	}
}
