// Package util holds small string helpers for the command surface.
// Editor shells quote their arguments and double interior quotes; these
// undo that before anything is parsed.
package util

import "strings"

// TrimQuotes removes leading and trailing double quotes from a string,
// only when both are present.
func TrimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// FixEscapeQuotes replaces doubled double quotes with single ones.
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArgs applies TrimQuotes and FixEscapeQuotes to every element,
// returning a new slice.
func CleanArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = FixEscapeQuotes(TrimQuotes(a))
	}
	return out
}

// ParseStringArray parses a bracketed, comma separated list of quoted
// strings, e.g. `["alpha3","pro","cw"]`. Quotes around elements are
// optional; whitespace around elements is dropped. Commas inside quoted
// elements are preserved.
func ParseStringArray(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == ',' && !inQuotes:
			out = append(out, cleanElement(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	out = append(out, cleanElement(cur.String()))
	return out
}

func cleanElement(s string) string {
	return FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s)))
}
