package models

import "strings"

// trimAll trims surrounding whitespace from every given field in place.
func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// Normalizer is implemented by entities that clean up their own fields
// (trimming, lowercasing) before validation and on every save.
type Normalizer interface {
	Normalize()
}

// Normalize calls v.Normalize when v implements Normalizer.
func Normalize(v any) {
	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}
}
