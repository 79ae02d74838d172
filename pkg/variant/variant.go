// Package variant defines the data model for grid arrangement: variants,
// their attribute mappings, canonical keys, and the axis orderings that
// drive grid placement.
//
// A variant is one leaf item inside a variant set. It carries an attribute
// mapping (e.g. Set/Style/Color/Size), a display name used for tie-break
// ordering, its current dimensions, and its rotation. Variants are scanned
// fresh from a container on every run and discarded afterwards; nothing in
// this package is persisted.
package variant

import (
	"slices"
	"strings"
)

// Attributes maps attribute names to values. Keys are case-sensitive and
// matched exactly against the configured bindings.
type Attributes map[string]string

// Clone returns a shallow copy of the attribute mapping.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Variant is one item being arranged. NodeID is an opaque reference back
// into the host document; the planner never dereferences it.
type Variant struct {
	NodeID     string
	Name       string
	Attributes Attributes
	Width      float64
	Height     float64
	Rotation   float64
}

// Key builds the variant's canonical key over the given ordered key list.
func (v Variant) Key(orderedKeys []string) string {
	return BuildKey(v.Attributes, orderedKeys)
}

// Info is the analysis result for one variant set: the union of attribute
// names encountered, the distinct values observed per name, and the variants
// ordered by display name. Recomputed per set per run.
type Info struct {
	// PropertyKeys is the sorted union of attribute names across all variants.
	PropertyKeys []string

	// PropertyValues maps each attribute name to its sorted distinct values.
	PropertyValues map[string][]string

	// Variants holds the scanned variants, ordered by display name ascending.
	Variants []Variant
}

// Empty reports whether the set has no variants.
func (in Info) Empty() bool { return len(in.Variants) == 0 }

// Values returns the distinct values for the given attribute name, or nil.
func (in Info) Values(name string) []string { return in.PropertyValues[name] }

// Collect scans the variants and produces the analysis result. The input
// slice is not mutated; the returned Info owns its own ordering.
func Collect(variants []Variant) Info {
	ordered := slices.Clone(variants)
	slices.SortStableFunc(ordered, func(a, b Variant) int {
		return strings.Compare(a.Name, b.Name)
	})

	seen := make(map[string]map[string]bool)
	for _, v := range ordered {
		for name, value := range v.Attributes {
			if seen[name] == nil {
				seen[name] = make(map[string]bool)
			}
			seen[name][value] = true
		}
	}

	keys := make([]string, 0, len(seen))
	values := make(map[string][]string, len(seen))
	for name, set := range seen {
		keys = append(keys, name)
		vals := make([]string, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		slices.Sort(vals)
		values[name] = vals
	}
	slices.Sort(keys)

	return Info{
		PropertyKeys:   keys,
		PropertyValues: values,
		Variants:       ordered,
	}
}
