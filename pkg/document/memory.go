package document

import (
	"context"
	"fmt"
	"slices"

	"github.com/varigrid/varigrid/pkg/report"
)

// =============================================================================
// Item - Leaf Node
// =============================================================================

// Item is an in-memory leaf node: a variant candidate, possibly with nested
// child nodes (vectors, groups) that inherit anchoring resets.
type Item struct {
	NodeID     string
	NodeName   string
	Attrs      map[string]string
	X, Y       float64
	W, H       float64
	Rot        float64
	AnchorMode string
	Kids       []*Item
}

func (it *Item) ID() string                     { return it.NodeID }
func (it *Item) Name() string                   { return it.NodeName }
func (it *Item) Attributes() map[string]string  { return it.Attrs }
func (it *Item) Position() (float64, float64)   { return it.X, it.Y }
func (it *Item) SetPosition(x, y float64)       { it.X, it.Y = x, y }
func (it *Item) Size() (float64, float64)       { return it.W, it.H }
func (it *Item) Resize(w, h float64)            { it.W, it.H = w, h }
func (it *Item) Rotation() float64              { return it.Rot }
func (it *Item) Anchor() string                 { return it.AnchorMode }
func (it *Item) SetAnchor(mode string)          { it.AnchorMode = mode }

// Children returns the nested child nodes.
func (it *Item) Children() []Node {
	out := make([]Node, len(it.Kids))
	for i, k := range it.Kids {
		out[i] = k
	}
	return out
}

// Capability checks, compile-time.
var (
	_ Attributed   = (*Item)(nil)
	_ Positionable = (*Item)(nil)
	_ Resizable    = (*Item)(nil)
	_ Rotated      = (*Item)(nil)
	_ Anchorable   = (*Item)(nil)
	_ Parent       = (*Item)(nil)
)

// =============================================================================
// Set - Variant-Set Container
// =============================================================================

// Set is an in-memory variant-set container.
type Set struct {
	NodeID   string
	NodeName string
	X, Y     float64
	W, H     float64
	Items    []*Item
}

func (s *Set) ID() string                   { return s.NodeID }
func (s *Set) Name() string                 { return s.NodeName }
func (s *Set) Position() (float64, float64) { return s.X, s.Y }
func (s *Set) SetPosition(x, y float64)     { s.X, s.Y = x, y }
func (s *Set) Size() (float64, float64)     { return s.W, s.H }
func (s *Set) Resize(w, h float64)          { s.W, s.H = w, h }

// Children returns the direct child items.
func (s *Set) Children() []Node {
	out := make([]Node, len(s.Items))
	for i, it := range s.Items {
		out[i] = it
	}
	return out
}

// Reorder permutes the children into the given ID order.
func (s *Set) Reorder(ids []string) error {
	if len(ids) != len(s.Items) {
		return fmt.Errorf("reorder %s: got %d ids for %d children", s.NodeID, len(ids), len(s.Items))
	}
	byID := make(map[string]*Item, len(s.Items))
	for _, it := range s.Items {
		byID[it.NodeID] = it
	}
	ordered := make([]*Item, len(ids))
	for i, id := range ids {
		it, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder %s: unknown child id %q", s.NodeID, id)
		}
		ordered[i] = it
		delete(byID, id)
	}
	s.Items = ordered
	return nil
}

var _ Container = (*Set)(nil)

// =============================================================================
// Document - In-Memory Host
// =============================================================================

// PlacedReport records a report payload inserted into the document.
type PlacedReport struct {
	Payload report.Payload
	X, Y    float64
}

// Document is the in-memory host implementation. It records notifications,
// inserted reports, and reveal requests so callers (and tests) can inspect
// the run's side effects.
type Document struct {
	Sets     []*Set
	Selected []string // container IDs in the current selection

	Notifications []string
	Reports       []PlacedReport
	Revealed      []string
}

// Containers returns all variant-set containers in the document.
func (d *Document) Containers(ctx context.Context) ([]Container, error) {
	out := make([]Container, len(d.Sets))
	for i, s := range d.Sets {
		out[i] = s
	}
	return out, nil
}

// Selection returns the selected containers, in document order.
func (d *Document) Selection(ctx context.Context) ([]Container, error) {
	var out []Container
	for _, s := range d.Sets {
		if slices.Contains(d.Selected, s.NodeID) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Notify records a user-facing message.
func (d *Document) Notify(msg string) {
	d.Notifications = append(d.Notifications, msg)
}

// InsertReport records a styled report payload at the given position.
func (d *Document) InsertReport(ctx context.Context, p report.Payload, x, y float64) error {
	d.Reports = append(d.Reports, PlacedReport{Payload: p, X: x, Y: y})
	return nil
}

// Reveal records a request to bring nodes into view.
func (d *Document) Reveal(ids []string) {
	d.Revealed = append(d.Revealed, ids...)
}

// SetByID returns the container with the given ID, or nil.
func (d *Document) SetByID(id string) *Set {
	for _, s := range d.Sets {
		if s.NodeID == id {
			return s
		}
	}
	return nil
}

var _ Host = (*Document)(nil)
