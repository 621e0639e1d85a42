package model

import (
	"fmt"
	"strings"
)

// Category is the coarse engine/airframe class. Engines only serve aircraft of
// the same category.
type Category string

const (
	NarrowBody Category = "NB"
	WideBody   Category = "WB"
)

// ParseCategory accepts the feed codes (NB, WB) and the long forms used in
// fleet files.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nb", "narrow", "narrow-body", "narrowbody":
		return NarrowBody, nil
	case "wb", "wide", "wide-body", "widebody":
		return WideBody, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == NarrowBody || c == WideBody
}

func (c Category) String() string { return string(c) }
