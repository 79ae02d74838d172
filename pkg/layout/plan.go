package layout

import (
	"slices"
	"strings"

	"github.com/varigrid/varigrid/pkg/errors"
	"github.com/varigrid/varigrid/pkg/variant"
)

// DefaultSetBucket is the block bucket for variants without a set attribute.
const DefaultSetBucket = "default"

// Point is a planned position for one variant.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Plan computes the coordinate mapping for one variant set: canonical key →
// position. It has no side effects on the variants.
//
// Variants group horizontally into blocks by the set attribute, vertically
// into sections by style, into rows by color, and order within a block by
// numeric size. Within a grid cell the variant is either top-aligned or
// vertically centered, per cfg.VAlign.
//
// Returns a MISSING_ATTRIBUTES error when any of the style, color, or size
// axes has no values for this set.
func Plan(info variant.Info, cfg Config) (map[string]Point, error) {
	styles := variant.BuildAxis(info.Values(cfg.Attributes.Style), variant.AxisStyle, cfg.SortDescending)
	colors := variant.BuildAxis(info.Values(cfg.Attributes.Color), variant.AxisColor, false)
	sizes := variant.BuildAxis(info.Values(cfg.Attributes.Size), variant.AxisSize, false)

	if missing := missingAxes(cfg, styles, colors, sizes); len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeMissingAttributes,
			"missing required attributes: %s", strings.Join(missing, ", "))
	}

	// Group variants into blocks by the set attribute.
	blocks := make(map[string][]variant.Variant)
	for _, v := range info.Variants {
		bucket := v.Attributes[cfg.Attributes.Set]
		if bucket == "" {
			bucket = DefaultSetBucket
		}
		blocks[bucket] = append(blocks[bucket], v)
	}

	// Block iteration order follows the same direction policy as the
	// style axis.
	order := make([]string, 0, len(blocks))
	for bucket := range blocks {
		order = append(order, bucket)
	}
	slices.Sort(order)
	if cfg.SortDescending {
		slices.Reverse(order)
	}

	cell := cfg.CellSize
	plan := make(map[string]Point, len(info.Variants))
	baseX := 0.0
	for _, bucket := range order {
		for _, v := range blocks[bucket] {
			sizeIdx := sizes.IndexOf(v.Attributes[cfg.Attributes.Size])
			styleIdx := styles.IndexOf(v.Attributes[cfg.Attributes.Style])
			colorIdx := colors.IndexOf(v.Attributes[cfg.Attributes.Color])

			x := baseX + float64(sizeIdx)*cell + cfg.Padding
			cellTop := float64(styleIdx)*float64(colors.Len())*cell + float64(colorIdx)*cell + cfg.Padding
			y := cellTop
			if cfg.VAlign == VAlignCenter {
				y = cellTop + cell/2 - v.Height/2
			}

			// Keyed over the FULL property-key list: attributes beyond the
			// grid axes disambiguate the key without moving the variant.
			plan[v.Key(info.PropertyKeys)] = Point{X: x, Y: y}
		}
		baseX += float64(sizes.Len())*cell + cfg.BlockGap
	}

	return plan, nil
}

// missingAxes names the required axes that have no values for this set.
func missingAxes(cfg Config, styles, colors, sizes variant.Axis) []string {
	var missing []string
	if styles.Len() == 0 {
		missing = append(missing, cfg.Attributes.Style)
	}
	if colors.Len() == 0 {
		missing = append(missing, cfg.Attributes.Color)
	}
	if sizes.Len() == 0 {
		missing = append(missing, cfg.Attributes.Size)
	}
	return missing
}
