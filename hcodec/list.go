package hcodec

import "strings"

// ParseList splits a list written as "[a, b, c]" into its items.
//
// The surrounding brackets are optional,
// but are only removed when both are present.
// Items are separated by commas and trimmed of surrounding whitespace;
// items left empty after trimming are dropped.
func ParseList(s string) [][]byte {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}

	var out [][]byte
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, []byte(item))
	}
	return out
}
