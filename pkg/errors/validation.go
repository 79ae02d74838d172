package errors

import "unicode"

// ValidateAttributeName validates a configured attribute binding (the name
// looked up on each variant, e.g. "Style"). Bindings come from user config,
// so the rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No pipe character (reserved as the canonical key separator)
//   - Maximum length of 64 characters
func ValidateAttributeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "attribute name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidConfig, "attribute name too long (max 64 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "attribute name contains control characters")
		}
		if r == '|' {
			return New(ErrCodeInvalidConfig, "attribute name cannot contain %q", "|")
		}
	}
	return nil
}
