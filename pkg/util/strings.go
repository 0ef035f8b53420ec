package util

import "strings"

// SplitSymbols splits a comma separated list, trimming blanks and dropping
// empty and repeated entries. Order of first appearance is kept.
func SplitSymbols(s string) []string {
	return DedupSymbols(strings.Split(s, ","))
}

// DedupSymbols trims entries and drops empty and repeated ones.
func DedupSymbols(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
