package pipeline

import (
	"encoding/json"

	"github.com/varigrid/varigrid/pkg/cache"
	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/errors"
	"github.com/varigrid/varigrid/pkg/variant"
)

// Scan collects the attribute-tagged variants among a container's direct
// children. Children without attributes (labels, decorations) are not
// variants and are left out; nested descendants are never scanned.
//
// The distinction between an empty container and a container whose children
// all lack attributes matters for error reporting, so Scan also returns the
// direct child count.
func Scan(c document.Container) (variant.Info, int) {
	children := c.Children()

	var variants []variant.Variant
	for _, child := range children {
		a, ok := child.(document.Attributed)
		if !ok || len(a.Attributes()) == 0 {
			continue
		}
		v := variant.Variant{
			NodeID:     child.ID(),
			Name:       child.Name(),
			Attributes: variant.Attributes(a.Attributes()).Clone(),
		}
		if s, ok := child.(document.Sizable); ok {
			v.Width, v.Height = s.Size()
		}
		if r, ok := child.(document.Rotated); ok {
			v.Rotation = r.Rotation()
		}
		variants = append(variants, v)
	}

	return variant.Collect(variants), len(children)
}

// CheckSet classifies a scanned container as usable or skippable. It returns
// a per-set error for empty containers and containers without any attributed
// children; axis and duplicate checks happen later against the config.
func CheckSet(info variant.Info, childCount int) error {
	if childCount == 0 {
		return errors.New(errors.ErrCodeNoVariants, "container has no children")
	}
	if len(info.Variants) == 0 {
		return errors.New(errors.ErrCodeNoAttributes, "no child carries variant attributes")
	}
	return nil
}

// InfoHash returns the content hash of a scanned set, used for plan cache
// keys. Collect sorts variants and keys, and JSON encodes maps with sorted
// keys, so equal variant data always hashes equally.
func InfoHash(info variant.Info) string {
	data, _ := json.Marshal(info)
	return cache.Hash(data)
}
