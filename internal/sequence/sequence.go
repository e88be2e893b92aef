// Package sequence maintains the dense visit-order invariant for one itinerary
// day's attractions: after every successful operation the visit orders of the
// day's attractions are exactly 1..N, with relative order preserved.
//
// All functions are pure. They take the day's current attraction set (as read
// from storage, ordered by visit order) and return the new assignment for the
// caller to persist atomically. Nothing here touches the database; the
// service layer wraps each call in a per-day transaction.
package sequence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"travenion/internal/domain"
)

// Append assigns the next visit order to a: max existing order + 1, or 1 when
// the day has no attractions. No other attraction is touched.
func Append(existing []domain.Attraction, a domain.Attraction) domain.Attraction {
	next := 0
	for _, e := range existing {
		if e.VisitOrder > next {
			next = e.VisitOrder
		}
	}
	a.VisitOrder = next + 1
	return a
}

// Remove deletes the attraction with the given ID from the set and compacts
// the orders above it downward by one, so the remaining set is dense 1..N-1.
// Returns the full remaining set in visit order.
// Returns domain.ErrNotFound if no attraction in the set has that ID.
func Remove(existing []domain.Attraction, id uuid.UUID) ([]domain.Attraction, error) {
	removed, err := find(existing, id)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Attraction, 0, len(existing)-1)
	for _, e := range existing {
		if e.ID == id {
			continue
		}
		if e.VisitOrder > removed.VisitOrder {
			e.VisitOrder--
		}
		out = append(out, e)
	}
	sortByOrder(out)
	return out, nil
}

// Reorder moves the attraction with the given ID to newOrder, shifting the
// attractions between its old and new positions by one. This is a
// single-element move, not a swap: the relative order of all other attractions
// is preserved.
//
// Returns domain.ErrNotFound if the ID is not in the set, and
// domain.ErrValidation unless 1 <= newOrder <= len(existing).
// Moving an attraction to its current position returns the set unchanged.
func Reorder(existing []domain.Attraction, id uuid.UUID, newOrder int) ([]domain.Attraction, error) {
	moved, err := find(existing, id)
	if err != nil {
		return nil, err
	}
	if newOrder < 1 || newOrder > len(existing) {
		return nil, fmt.Errorf("%w: order must be between 1 and %d", domain.ErrValidation, len(existing))
	}

	oldOrder := moved.VisitOrder
	out := make([]domain.Attraction, len(existing))
	copy(out, existing)

	for i := range out {
		switch {
		case out[i].ID == id:
			out[i].VisitOrder = newOrder
		case oldOrder < newOrder && out[i].VisitOrder > oldOrder && out[i].VisitOrder <= newOrder:
			out[i].VisitOrder--
		case oldOrder > newOrder && out[i].VisitOrder >= newOrder && out[i].VisitOrder < oldOrder:
			out[i].VisitOrder++
		}
	}
	sortByOrder(out)
	return out, nil
}

// BulkReplace builds the replacement set for a wholesale day edit: entries
// receive visit orders 1..N by list position. The result is independent of any
// previously stored set, so applying the same list twice yields the same
// assignment.
//
// Returns domain.ErrValidation if any entry has an empty name.
func BulkReplace(entries []domain.Attraction) ([]domain.Attraction, error) {
	out := make([]domain.Attraction, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("%w: attraction %d: name is required", domain.ErrValidation, i+1)
		}
		e.VisitOrder = i + 1
		out[i] = e
	}
	return out, nil
}

// find returns the attraction with the given ID, or domain.ErrNotFound.
func find(existing []domain.Attraction, id uuid.UUID) (domain.Attraction, error) {
	for _, e := range existing {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Attraction{}, fmt.Errorf("attraction %s: %w", id, domain.ErrNotFound)
}

// sortByOrder sorts in place ascending by visit order.
func sortByOrder(attrs []domain.Attraction) {
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].VisitOrder < attrs[j].VisitOrder
	})
}
