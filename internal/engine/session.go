package engine

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/blockbuilder/internal/model"
)

var (
	// ErrObjectNotFound is returned when an id does not name a placed object.
	ErrObjectNotFound = errors.New("object not found")
	// ErrRotationBlocked is returned when the rotated footprint would collide.
	ErrRotationBlocked = errors.New("rotation blocked")
)

// RotationBlockedMessage is the acknowledgement shown for a rejected rotation.
const RotationBlockedMessage = "Cannot rotate block, it would overlap another block!"

// State is the placement session's interaction state.
type State int

const (
	Idle State = iota
	DraggingExisting
	DraggingFromPalette
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DraggingExisting:
		return "dragging-existing"
	case DraggingFromPalette:
		return "dragging-from-palette"
	default:
		return "unknown"
	}
}

// Rejection describes an action the session refused and that the user must
// acknowledge.
type Rejection struct {
	ObjectID string
	Err      error
	Message  string
}

// Callbacks are the session's outbound hooks. Any of them may be nil.
type Callbacks struct {
	// OnInventoryUpdate receives the new inventory after every debit or credit.
	OnInventoryUpdate func(inv model.Inventory)
	// OnSave persists the build; the caller assigns an id to new builds.
	OnSave func(name string, objects []model.PlacedObject) error
	// OnReject is told about rejected rotations.
	OnReject func(r Rejection)
}

// Seed is what a session starts from. A zero Seed is a fresh build.
type Seed struct {
	ID      string
	Name    string
	Objects []model.PlacedObject
}

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator replaces the object id source.
func WithIDGenerator(next func() string) Option {
	return func(s *Session) { s.newID = next }
}

// WithLogger replaces the session logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.log = l }
}

// WithTool sets the initial palette selection.
func WithTool(t model.ObjectType) Option {
	return func(s *Session) { s.tool = t }
}

// existingDrag tracks an object being moved.
type existingDrag struct {
	objectID     string
	grabX, grabY float64
	origX, origY float64
	valid        bool
}

// Ghost is the preview of a palette placement.
type Ghost struct {
	Type  model.ObjectType
	X, Y  float64
	Size  model.Size
	Valid bool
}

// Session is one build-editing session: the placed objects, the palette
// selection, the context selection and at most one in-flight drag. It is
// not safe for concurrent use; surfaces feed it from their event loop.
type Session struct {
	cat *model.Catalog
	cb  Callbacks
	log logrus.FieldLogger

	buildID string
	name    string
	objects []model.PlacedObject

	inventory model.Inventory
	onEnter   model.Inventory

	tool     model.ObjectType
	selected string

	state State
	drag  *existingDrag
	ghost *Ghost

	newID func() string
}

// NewSession opens a session over seed. inv is the player's inventory at
// the moment build mode is entered; it is also kept as the snapshot an
// exit without saving restores.
func NewSession(cat *model.Catalog, seed Seed, inv model.Inventory, cb Callbacks, opts ...Option) *Session {
	name := seed.Name
	if name == "" {
		name = model.DefaultBuildName
	}
	s := &Session{
		cat:       cat,
		cb:        cb,
		log:       logrus.StandardLogger(),
		buildID:   seed.ID,
		name:      name,
		objects:   model.CopyObjects(seed.Objects),
		inventory: inv.Clone(),
		onEnter:   inv.Clone(),
		newID:     model.NewObjectID,
	}
	if s.objects == nil {
		s.objects = []model.PlacedObject{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedFromBuild turns a stored build into a session seed with fresh object
// ids. Blocks whose type the catalog does not know are dropped and logged.
func SeedFromBuild(cat *model.Catalog, b model.Build) Seed {
	blocks := make([]model.Block, 0, len(b.Blocks))
	for i, blk := range b.Blocks {
		if !cat.Has(blk.Type) {
			logrus.WithFields(logrus.Fields{
				"build": b.ID,
				"index": i,
				"type":  blk.Type,
			}).Warn("skipping block of unknown type")
			continue
		}
		if _, err := model.ParseRotation(int(blk.Rotation)); err != nil {
			logrus.WithFields(logrus.Fields{
				"build":    b.ID,
				"index":    i,
				"rotation": blk.Rotation,
			}).Warn("resetting invalid block rotation")
			blk.Rotation = model.Rotation0
		}
		blocks = append(blocks, blk)
	}
	return Seed{ID: b.ID, Name: b.Name, Objects: model.ObjectsFromBlocks(blocks)}
}

// Catalog returns the catalog the session resolves types against.
func (s *Session) Catalog() *model.Catalog { return s.cat }

// BuildID returns the id of the build being edited, empty until first saved.
func (s *Session) BuildID() string { return s.buildID }

// SetBuildID records the id the build store assigned.
func (s *Session) SetBuildID(id string) { s.buildID = id }

// Name returns the build name.
func (s *Session) Name() string { return s.name }

// SetName renames the build.
func (s *Session) SetName(name string) { s.name = name }

// State returns the interaction state.
func (s *Session) State() State { return s.state }

// Tool returns the palette selection.
func (s *Session) Tool() model.ObjectType { return s.tool }

// SelectTool changes the palette selection. model.Air selects the erase tool.
func (s *Session) SelectTool(t model.ObjectType) { s.tool = t }

// Selected returns the id of the object selected for the context menu.
func (s *Session) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

// Select marks an object for the context menu.
func (s *Session) Select(id string) error {
	if s.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	s.selected = id
	return nil
}

// ClearSelection drops the context selection.
func (s *Session) ClearSelection() { s.selected = "" }

// Inventory returns the session's current inventory.
func (s *Session) Inventory() model.Inventory { return s.inventory.Clone() }

// InventoryOnEnter returns the snapshot to restore on exit without saving.
func (s *Session) InventoryOnEnter() model.Inventory { return s.onEnter.Clone() }

// Objects returns a copy of the placed objects in placement order. During a
// drag the moving object is reported at its live position.
func (s *Session) Objects() []model.PlacedObject {
	return model.CopyObjects(s.objects)
}

// Object returns a placed object by id.
func (s *Session) Object(id string) (model.PlacedObject, bool) {
	if i := s.index(id); i >= 0 {
		return s.objects[i], true
	}
	return model.PlacedObject{}, false
}

// Ghost returns the palette preview, if a palette drag is in flight.
func (s *Session) Ghost() (Ghost, bool) {
	if s.ghost == nil {
		return Ghost{}, false
	}
	return *s.ghost, true
}

// ObjectAt returns the topmost object whose box contains the point.
func (s *Session) ObjectAt(x, y float64) (string, bool) {
	for i := len(s.objects) - 1; i >= 0; i-- {
		if box, ok := BoxOf(s.cat, s.objects[i]); ok && box.Contains(x, y) {
			return s.objects[i].ID, true
		}
	}
	return "", false
}

// Handle feeds one pointer event to the state machine.
func (s *Session) Handle(ev PointerEvent) {
	switch ev.Phase {
	case PointerDown:
		s.pointerDown(ev)
	case PointerMove:
		s.pointerMove(ev.X, ev.Y)
	case PointerUp:
		s.pointerUp(ev.X, ev.Y)
	case PointerCancel:
		s.cancelDrag()
	}
}

func (s *Session) pointerDown(ev PointerEvent) {
	// Selecting for the context menu starts no drag, so it works in any state.
	if ev.Button == ButtonSecondary && ev.Target.Kind == TargetObject {
		_ = s.Select(ev.Target.ObjectID)
		return
	}
	if s.state != Idle {
		return
	}
	switch ev.Target.Kind {
	case TargetObject:
		if s.tool == model.Air {
			_ = s.Delete(ev.Target.ObjectID)
			return
		}
		s.startExistingDrag(ev)
	case TargetPalette:
		if ev.Target.Type == model.Air {
			s.tool = model.Air
			return
		}
		if ev.Button == ButtonSecondary || s.inventory.Count(ev.Target.Type) <= 0 {
			return
		}
		s.tool = ev.Target.Type
		s.state = DraggingFromPalette
		s.ghost = &Ghost{Type: ev.Target.Type}
		s.updateGhost(ev.X, ev.Y)
	default:
		s.selected = ""
	}
}

func (s *Session) startExistingDrag(ev PointerEvent) {
	i := s.index(ev.Target.ObjectID)
	if i < 0 {
		return
	}
	o := s.objects[i]
	s.drag = &existingDrag{
		objectID: o.ID,
		grabX:    ev.X - o.X,
		grabY:    ev.Y - o.Y,
		origX:    o.X,
		origY:    o.Y,
		valid:    IsValid(s.cat, o, s.objects),
	}
	s.state = DraggingExisting
}

func (s *Session) pointerMove(x, y float64) {
	switch s.state {
	case DraggingExisting:
		i := s.index(s.drag.objectID)
		if i < 0 {
			s.endDrag()
			return
		}
		o := s.objects[i]
		size := EffectiveDimensions(s.cat, o.Type, o.Rotation)
		snapped := Snap(x-s.drag.grabX, y-s.drag.grabY, size, s.obstacles(o.ID))
		o.X, o.Y = snapped.X, snapped.Y
		s.objects[i] = o
		s.drag.valid = IsValid(s.cat, o, s.objects)
	case DraggingFromPalette:
		s.updateGhost(x, y)
	}
}

func (s *Session) pointerUp(x, y float64) {
	switch s.state {
	case DraggingExisting:
		i := s.index(s.drag.objectID)
		if i >= 0 && !IsValid(s.cat, s.objects[i], s.objects) {
			s.objects[i].X, s.objects[i].Y = s.drag.origX, s.drag.origY
		}
		s.endDrag()
	case DraggingFromPalette:
		s.updateGhost(x, y)
		g := *s.ghost
		s.endDrag()
		if g.Valid {
			s.place(g)
		}
	}
}

// cancelDrag abandons the gesture: a moved object goes back to where it
// was and a ghost is dropped.
func (s *Session) cancelDrag() {
	if s.state == DraggingExisting {
		if i := s.index(s.drag.objectID); i >= 0 {
			s.objects[i].X, s.objects[i].Y = s.drag.origX, s.drag.origY
		}
	}
	s.endDrag()
}

func (s *Session) endDrag() {
	s.state = Idle
	s.drag = nil
	s.ghost = nil
}

// updateGhost centres the ghost under the pointer, snaps it against the
// placed objects and revalidates it.
func (s *Session) updateGhost(x, y float64) {
	g := s.ghost
	g.Size = EffectiveDimensions(s.cat, g.Type, model.Rotation0)
	snapped := Snap(x-g.Size.Width/2, y-g.Size.Height/2, g.Size, s.obstacles(""))
	g.X, g.Y = snapped.X, snapped.Y
	g.Valid = IsValid(s.cat, model.PlacedObject{Type: g.Type, X: g.X, Y: g.Y}, s.objects)
}

// place commits a ghost as a new object, debiting one unit.
func (s *Session) place(g Ghost) {
	inv, err := s.inventory.Debit(g.Type)
	if err != nil {
		s.log.WithField("type", g.Type).Debug("placement refused: no inventory left")
		return
	}
	o := model.PlacedObject{ID: s.newID(), Type: g.Type, X: g.X, Y: g.Y, Rotation: model.Rotation0}
	s.objects = append(s.objects, o)
	s.setInventory(inv)
}

// Rotate turns an object 90 degrees clockwise in place. A rotation whose
// footprint would collide is refused without any change and reported
// through OnReject.
func (s *Session) Rotate(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	rotated := s.objects[i]
	rotated.Rotation = rotated.Rotation.Next()
	if !IsValid(s.cat, rotated, s.objects) {
		err := fmt.Errorf("%w: %s to %d", ErrRotationBlocked, rotated.Type, rotated.Rotation)
		s.log.WithFields(logrus.Fields{"object": id, "rotation": rotated.Rotation}).Debug("rotation rejected")
		if s.cb.OnReject != nil {
			s.cb.OnReject(Rejection{ObjectID: id, Err: err, Message: RotationBlockedMessage})
		}
		return err
	}
	s.objects[i] = rotated
	return nil
}

// Delete removes an object and credits one unit of its type.
func (s *Session) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	if s.drag != nil && s.drag.objectID == id {
		s.endDrag()
	}
	removed := s.objects[i]
	s.objects = append(s.objects[:i:i], s.objects[i+1:]...)
	s.selected = ""
	s.setInventory(s.inventory.Credit(removed.Type))
	return nil
}

// StampResult reports what Stamp placed and what it skipped.
type StampResult struct {
	Placed  []string
	Skipped []string
}

// Stamp places objects from an outside source (an imported file or a share
// code) at their exact positions. Each one goes through the same checks as
// a palette drop: it must be valid against everything already placed and
// the inventory must cover it. Objects that fail are skipped with a reason.
// Nothing is stamped while a drag is in flight.
func (s *Session) Stamp(objects []model.PlacedObject) StampResult {
	var result StampResult
	if s.state != Idle {
		result.Skipped = append(result.Skipped, "finish the current drag first")
		return result
	}
	inv := s.inventory.Clone()
	for i, o := range objects {
		label := fmt.Sprintf("%s #%d at (%.0f, %.0f)", o.Type, i+1, o.X, o.Y)
		if !s.cat.Has(o.Type) {
			result.Skipped = append(result.Skipped, label+": unknown type")
			continue
		}
		o.ID = ""
		if !IsValid(s.cat, o, s.objects) {
			result.Skipped = append(result.Skipped, label+": overlaps another block")
			continue
		}
		next, err := inv.Debit(o.Type)
		if err != nil {
			result.Skipped = append(result.Skipped, label+": none left in inventory")
			continue
		}
		inv = next
		o.ID = s.newID()
		s.objects = append(s.objects, o)
		result.Placed = append(result.Placed, o.ID)
	}
	if len(result.Placed) > 0 {
		s.setInventory(inv)
	}
	s.log.WithFields(logrus.Fields{"placed": len(result.Placed), "skipped": len(result.Skipped)}).Info("stamped objects")
	return result
}

// Save hands the name and committed objects to OnSave. It never changes the
// objects or the inventory; on success the entry snapshot is replaced by the
// current inventory, since saved changes are final.
func (s *Session) Save() error {
	if s.cb.OnSave == nil {
		return nil
	}
	if err := s.cb.OnSave(s.name, s.committedObjects()); err != nil {
		return err
	}
	s.onEnter = s.inventory.Clone()
	return nil
}

// committedObjects is the object list as it would stand if the current drag
// ended now: an invalid drag counts at its original position.
func (s *Session) committedObjects() []model.PlacedObject {
	out := model.CopyObjects(s.objects)
	if s.drag == nil {
		return out
	}
	if i := s.index(s.drag.objectID); i >= 0 && !IsValid(s.cat, out[i], out) {
		out[i].X, out[i].Y = s.drag.origX, s.drag.origY
	}
	return out
}

// obstacles returns the boxes of every placed object except one.
func (s *Session) obstacles(exclude string) []Box {
	boxes := make([]Box, 0, len(s.objects))
	for _, o := range s.objects {
		if exclude != "" && o.ID == exclude {
			continue
		}
		if box, ok := BoxOf(s.cat, o); ok {
			boxes = append(boxes, box)
		}
	}
	return boxes
}

func (s *Session) setInventory(inv model.Inventory) {
	s.inventory = inv
	if s.cb.OnInventoryUpdate != nil {
		s.cb.OnInventoryUpdate(inv.Clone())
	}
}

func (s *Session) index(id string) int {
	if id == "" {
		return -1
	}
	for i, o := range s.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// RenderedObject is one object as a surface should draw it.
type RenderedObject struct {
	model.PlacedObject
	Size     model.Size
	Color    color.NRGBA
	Dragging bool
	Invalid  bool
	Selected bool
}

// Frame is everything a surface needs to draw the canvas.
type Frame struct {
	Objects  []RenderedObject
	Ghost    *Ghost
	Selected string
	Tool     model.ObjectType
	State    State
}

// Frame returns the current render data.
func (s *Session) Frame() Frame {
	f := Frame{
		Objects:  make([]RenderedObject, 0, len(s.objects)),
		Selected: s.selected,
		Tool:     s.tool,
		State:    s.state,
	}
	for _, o := range s.objects {
		spec, _ := s.cat.Lookup(o.Type)
		r := RenderedObject{
			PlacedObject: o,
			Size:         EffectiveDimensions(s.cat, o.Type, o.Rotation),
			Color:        spec.Color,
			Selected:     o.ID == s.selected,
		}
		if s.drag != nil && s.drag.objectID == o.ID {
			r.Dragging = true
			r.Invalid = !s.drag.valid
		}
		f.Objects = append(f.Objects, r)
	}
	if s.ghost != nil {
		g := *s.ghost
		f.Ghost = &g
	}
	return f
}
