package variant

import "strings"

// KeySeparator joins attribute values in a canonical key. A pipe is not a
// legal character in attribute values, so joined keys cannot collide with
// keys built from different value splits.
const KeySeparator = "|"

// BuildKey builds a canonical key by concatenating, in orderedKeys order,
// the variant's value for each key. Absent attributes degrade to an empty
// field rather than erroring: two variants that omit the same key and agree
// on all present keys produce the same canonical key, and the duplicate
// check is responsible for surfacing that collision.
//
// The function is pure and total. Permuting orderedKeys changes the result
// unless all values are identical.
func BuildKey(attrs Attributes, orderedKeys []string) string {
	parts := make([]string, len(orderedKeys))
	for i, k := range orderedKeys {
		parts[i] = attrs[k]
	}
	return strings.Join(parts, KeySeparator)
}
