// Package validate implements the pre-mutation checks that gate a layout
// run: rotation conformance, duplicate canonical keys, and required-axis
// attribute presence.
//
// The rotation check is the only global gate - any non-conforming variant
// anywhere in scope aborts the entire run before a single mutation, because
// arranging rotated content into a grid produces a misleading result that is
// worse than doing nothing. Duplicate and missing-attribute findings skip
// only the affected set.
package validate

import (
	"math"

	"github.com/varigrid/varigrid/pkg/layout"
	"github.com/varigrid/varigrid/pkg/variant"
)

// RotationEpsilon is the tolerance, in degrees, within which a rotation
// counts as zero.
const RotationEpsilon = 0.001

// NormalizeRotation maps a rotation in degrees into [0, 360).
func NormalizeRotation(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// Conforming reports whether a rotation is zero within RotationEpsilon,
// after normalization. Values just below 360 conform: they normalize to a
// hair under a full turn.
func Conforming(deg float64) bool {
	n := NormalizeRotation(deg)
	return n <= RotationEpsilon || 360-n <= RotationEpsilon
}

// CheckRotation returns the display names of non-conforming variants, in
// stored order. An empty result means the set passes the gate.
func CheckRotation(info variant.Info) []string {
	var names []string
	for _, v := range info.Variants {
		if !Conforming(v.Rotation) {
			names = append(names, v.Name)
		}
	}
	return names
}

// CheckDuplicates iterates variants in stored order, building canonical keys
// over the full property-key list, and returns the first repeated key.
func CheckDuplicates(info variant.Info) (string, bool) {
	seen := make(map[string]bool, len(info.Variants))
	for _, v := range info.Variants {
		key := v.Key(info.PropertyKeys)
		if seen[key] {
			return key, true
		}
		seen[key] = true
	}
	return "", false
}

// CheckRequired returns the configured axis attribute names (style, color,
// size) that no variant in the set carries. The set attribute is optional
// and not checked: variants without it fall into the shared default bucket.
func CheckRequired(info variant.Info, b layout.Bindings) []string {
	var missing []string
	for _, name := range []string{b.Style, b.Color, b.Size} {
		if len(info.Values(name)) == 0 {
			missing = append(missing, name)
		}
	}
	return missing
}
