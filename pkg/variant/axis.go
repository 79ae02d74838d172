package variant

import (
	"slices"
	"strconv"
	"strings"
)

// Axis kinds. Each grid axis carries its own comparator.
const (
	AxisStyle = "style"
	AxisColor = "color"
	AxisSize  = "size"
)

// Axis is an ordered list of distinct attribute values plus the derived
// value→index lookup. Index positions are a plain enumeration 0..n-1.
type Axis struct {
	Values []string
	Index  map[string]int
}

// Len returns the number of distinct values on the axis.
func (a Axis) Len() int { return len(a.Values) }

// IndexOf returns the axis position for value. Values absent from the axis
// map to 0; valid input never hits that path, it only guards planning
// against attribute mutations mid-run.
func (a Axis) IndexOf(value string) int { return a.Index[value] }

// BuildAxis orders values according to the axis kind and returns the axis:
//
//   - size: numeric ascending ("8" < "16" < "24"); non-numeric values sort
//     after all numeric ones, lexicographically
//   - style: lexicographic, direction per the descending flag
//   - color: neutral bucket (prefix n/N) first, semantic bucket (prefix s/S)
//     second, remainder third; lexicographic ascending within a bucket
//
// The descending flag applies to the style axis only; size and color
// orderings are fixed by their comparators.
func BuildAxis(values []string, kind string, descending bool) Axis {
	ordered := slices.Clone(values)

	switch kind {
	case AxisSize:
		slices.SortFunc(ordered, compareSize)
	case AxisColor:
		slices.SortFunc(ordered, compareColor)
	default:
		slices.Sort(ordered)
		if descending {
			slices.Reverse(ordered)
		}
	}

	index := make(map[string]int, len(ordered))
	for i, v := range ordered {
		index[v] = i
	}
	return Axis{Values: ordered, Index: index}
}

// compareSize orders numerically when both values parse as numbers.
func compareSize(a, b string) int {
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// colorBucket assigns the three-bucket priority for the color axis.
func colorBucket(v string) int {
	if v == "" {
		return 2
	}
	switch v[0] {
	case 'n', 'N':
		return 0
	case 's', 'S':
		return 1
	}
	return 2
}

func compareColor(a, b string) int {
	if d := colorBucket(a) - colorBucket(b); d != 0 {
		return d
	}
	return strings.Compare(a, b)
}
