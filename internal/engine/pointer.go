package engine

import "github.com/piwi3910/blockbuilder/internal/model"

// Phase is the stage of a pointer gesture.
type Phase int

const (
	PointerDown Phase = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (p Phase) String() string {
	switch p {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Button distinguishes the primary action from the context action. Surfaces
// map right-click and long-press to ButtonSecondary.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// TargetKind says what a pointer-down landed on.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetObject
	TargetPalette
)

// Target identifies the element under a pointer-down.
type Target struct {
	Kind     TargetKind
	ObjectID string           // set for TargetObject
	Type     model.ObjectType // set for TargetPalette
}

// PointerEvent is the device-neutral input the session consumes. Mouse and
// touch sources are both reduced to this before reaching the session.
// Coordinates are canvas units relative to the canvas origin.
type PointerEvent struct {
	Phase  Phase
	X, Y   float64
	Button Button
	Target Target
}

// ObjectTarget targets a placed object.
func ObjectTarget(id string) Target {
	return Target{Kind: TargetObject, ObjectID: id}
}

// PaletteTarget targets a palette entry.
func PaletteTarget(t model.ObjectType) Target {
	return Target{Kind: TargetPalette, Type: t}
}

// Down builds a primary pointer-down event.
func Down(x, y float64, target Target) PointerEvent {
	return PointerEvent{Phase: PointerDown, X: x, Y: y, Target: target}
}

// Move builds a pointer-move event.
func Move(x, y float64) PointerEvent {
	return PointerEvent{Phase: PointerMove, X: x, Y: y}
}

// Up builds a pointer-up event.
func Up(x, y float64) PointerEvent {
	return PointerEvent{Phase: PointerUp, X: x, Y: y}
}

// Cancel builds a pointer-cancel event.
func Cancel() PointerEvent {
	return PointerEvent{Phase: PointerCancel}
}
