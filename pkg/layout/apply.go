package layout

import (
	"math"
	"slices"

	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/errors"
	"github.com/varigrid/varigrid/pkg/variant"
)

// Apply writes a computed plan onto a container:
//
//  1. Every variant node (and its descendants) is pinned to top-left
//     anchoring and zeroed. The two-phase zero-then-place keeps re-runs
//     deterministic: stale anchoring can never compound offsets.
//  2. Planned positions are written by canonical key; a variant whose key is
//     absent from the plan stays at the zeroed position.
//  3. The container's child storage order is re-sequenced to the row-major
//     visual order (y ascending, then x).
//  4. All children are translated so the tight bounding box's top-left lands
//     at (padding, padding), and the container is resized to the box plus
//     uniform padding.
//
// A container with no children is a no-op.
func Apply(info variant.Info, plan map[string]Point, c document.Container, cfg Config) error {
	byID := make(map[string]document.Node)
	for _, child := range c.Children() {
		byID[child.ID()] = child
	}

	// Phase 1: reset anchoring, zero positions.
	for _, v := range info.Variants {
		node, ok := byID[v.NodeID]
		if !ok {
			continue
		}
		resetAnchors(node)
		if p, ok := node.(document.Positionable); ok {
			p.SetPosition(0, 0)
		}
	}

	// Phase 2: place.
	for _, v := range info.Variants {
		node, ok := byID[v.NodeID]
		if !ok {
			continue
		}
		pt, ok := plan[v.Key(info.PropertyKeys)]
		if !ok {
			continue
		}
		if p, ok := node.(document.Positionable); ok {
			p.SetPosition(pt.X, pt.Y)
		}
	}

	children := c.Children()
	if len(children) == 0 {
		return nil
	}

	// Phase 3: storage order follows visual order.
	ordered := slices.Clone(children)
	slices.SortStableFunc(ordered, func(a, b document.Node) int {
		ax, ay := position(a)
		bx, by := position(b)
		switch {
		case ay < by:
			return -1
		case ay > by:
			return 1
		case ax < bx:
			return -1
		case ax > bx:
			return 1
		}
		return 0
	})
	ids := make([]string, len(ordered))
	for i, n := range ordered {
		ids[i] = n.ID()
	}
	if err := c.Reorder(ids); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "reorder children of %s", c.Name())
	}

	// Phase 4: tight bounding box plus uniform padding.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range children {
		x, y := position(n)
		w, h := dimensions(n)
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x+w)
		maxY = math.Max(maxY, y+h)
	}

	for _, n := range children {
		if p, ok := n.(document.Positionable); ok {
			x, y := p.Position()
			p.SetPosition(x-minX+cfg.Padding, y-minY+cfg.Padding)
		}
	}
	c.Resize(maxX-minX+2*cfg.Padding, maxY-minY+2*cfg.Padding)

	return nil
}

// resetAnchors pins node and every descendant to top-left anchoring.
func resetAnchors(node document.Node) {
	if a, ok := node.(document.Anchorable); ok {
		a.SetAnchor(document.AnchorTopLeft)
	}
	if p, ok := node.(document.Parent); ok {
		for _, child := range p.Children() {
			resetAnchors(child)
		}
	}
}

func position(n document.Node) (float64, float64) {
	if p, ok := n.(document.Positionable); ok {
		return p.Position()
	}
	return 0, 0
}

func dimensions(n document.Node) (float64, float64) {
	if s, ok := n.(document.Sizable); ok {
		return s.Size()
	}
	return 0, 0
}
