// Package document defines the host-document boundary for varigrid.
//
// The layout core never reaches for an ambient document handle. Instead it
// receives collaborators through two abstractions:
//
//   - Node capability interfaces (Attributed, Positionable, Resizable,
//     Rotated, Anchorable, Parent) that the core pattern-matches with type
//     assertions instead of probing for incidental properties
//   - The Host interface, covering scope queries, user notification, report
//     insertion, and viewport control
//
// The package also ships an in-memory document implementation with JSON
// import/export, which backs the CLI, the HTTP API, and the tests. A real
// canvas binding would provide its own implementations of the same
// interfaces.
package document

import (
	"context"

	"github.com/varigrid/varigrid/pkg/report"
)

// AnchorTopLeft is the fixed anchoring mode the applier resets nodes to
// before placement, so container resizes never stretch content.
const AnchorTopLeft = "top-left"

// Node is the minimal identity every document node exposes.
type Node interface {
	ID() string
	Name() string
}

// Attributed is a node carrying an attribute mapping.
type Attributed interface {
	Node
	Attributes() map[string]string
}

// Positionable is a node whose position can be read and written.
type Positionable interface {
	Node
	Position() (x, y float64)
	SetPosition(x, y float64)
}

// Sizable is a node with readable dimensions.
type Sizable interface {
	Node
	Size() (w, h float64)
}

// Resizable is a sizable node that can also be resized.
type Resizable interface {
	Sizable
	Resize(w, h float64)
}

// Rotated is a node exposing its rotation in degrees.
type Rotated interface {
	Node
	Rotation() float64
}

// Anchorable is a node whose resize anchoring can be reset.
type Anchorable interface {
	Node
	Anchor() string
	SetAnchor(mode string)
}

// Parent is a node with direct children.
type Parent interface {
	Node
	Children() []Node
}

// Orderable is a parent whose child storage order can be re-sequenced.
type Orderable interface {
	Parent
	// Reorder permutes the children into the given ID order. The IDs must
	// be exactly a permutation of the current children.
	Reorder(ids []string) error
}

// Container is the variant-set node: an orderable parent that can be moved
// and resized.
type Container interface {
	Orderable
	Positionable
	Resizable
}

// Host is the collaborator contract the pipeline runs against.
type Host interface {
	// Containers returns all variant-set containers in the current scope.
	Containers(ctx context.Context) ([]Container, error)

	// Selection returns the current user selection filtered to containers.
	Selection(ctx context.Context) ([]Container, error)

	// Notify emits a short user-facing status or error message.
	Notify(msg string)

	// InsertReport places a styled report payload into the scope at the
	// given anchor position. Failure degrades the report to a plain
	// notification; it is never fatal to the run.
	InsertReport(ctx context.Context, p report.Payload, x, y float64) error

	// Reveal brings the given nodes into view.
	Reveal(ids []string)
}
