package helpers

import "strings"

// NullIfEmpty returns nil for a blank string so it is stored as SQL NULL.
// Otherwise, returns a pointer to the trimmed value.
func NullIfEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NullableInt32 converts an optional int from a request body to the column type.
func NullableInt32(i *int) *int32 {
	if i == nil {
		return nil
	}
	v := int32(*i)
	return &v
}
