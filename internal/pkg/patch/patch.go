package patch

import "strings"

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// FirstNonBlank returns the first value that is not empty after trimming.
func FirstNonBlank(values ...*string) string {
	for _, v := range values {
		if s := strings.TrimSpace(Coalesce(v, "")); s != "" {
			return s
		}
	}
	return ""
}
