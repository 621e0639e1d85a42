package model

import "strings"

// Normalize strips every non-alphanumeric character and upper-cases the rest.
// "b767f-absa" becomes "B767FABSA".
func Normalize(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BaseFamily reduces an operator type code to the family token used for
// ceilings and redeployment checks:
//
//	A319JJ     -> A319
//	A3204C     -> A320
//	B767F-ABSA -> B767F
//	B767J18    -> B767J
func BaseFamily(code string) string {
	c := Normalize(code)
	switch {
	case strings.HasPrefix(c, "A32"):
		return prefix(c, 4)
	case strings.HasPrefix(c, "B767"):
		if len(c) >= 5 {
			return c[:5]
		}
		return "B767"
	default:
		return prefix(c, 4)
	}
}

// SameBaseFamily reports whether two codes share a base family.
func SameBaseFamily(a, b string) bool {
	return BaseFamily(a) == BaseFamily(b)
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
