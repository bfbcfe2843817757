package engine

import "github.com/piwi3910/blockbuilder/internal/model"

// IsValid decides whether candidate may occupy its position given every
// object currently on the canvas. It always looks at the whole set, so the
// answer does not depend on the order edits were made in.
//
// Exempt types never collide. A non-exempt candidate is checked against the
// other non-exempt objects only, and an entry sharing the candidate's id
// (its own previous position) is skipped. A type without dimensions is
// never valid.
func IsValid(cat *model.Catalog, candidate model.PlacedObject, all []model.PlacedObject) bool {
	box, ok := BoxOf(cat, candidate)
	if !ok {
		return false
	}
	if cat.IsExempt(candidate.Type) {
		return true
	}
	for _, other := range all {
		if candidate.ID != "" && other.ID == candidate.ID {
			continue
		}
		if cat.IsExempt(other.Type) {
			continue
		}
		obox, ok := BoxOf(cat, other)
		if !ok {
			continue
		}
		if Overlaps(box, obox) {
			return false
		}
	}
	return true
}

// Collisions returns the ids of non-exempt objects the candidate overlaps.
func Collisions(cat *model.Catalog, candidate model.PlacedObject, all []model.PlacedObject) []string {
	box, ok := BoxOf(cat, candidate)
	if !ok || cat.IsExempt(candidate.Type) {
		return nil
	}
	var ids []string
	for _, other := range all {
		if (candidate.ID != "" && other.ID == candidate.ID) || cat.IsExempt(other.Type) {
			continue
		}
		if obox, ok := BoxOf(cat, other); ok && Overlaps(box, obox) {
			ids = append(ids, other.ID)
		}
	}
	return ids
}
