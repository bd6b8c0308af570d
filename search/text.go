package search

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/poiesic/clipkeep/core"
)

// folded is a case- and diacritic-insensitive view of a string. Every
// folded rune remembers the index of the original rune it came from, so
// match positions translate back to highlight ranges in the source text.
type folded struct {
	runes []rune
	idx   []int
	orig  int // rune length of the original string
}

// foldString lowercases the string and strips combining marks rune by
// rune. Decomposing per source rune keeps the index map exact even when
// a precomposed character expands to several code points.
func foldString(s string) folded {
	f := folded{}
	i := 0
	for _, r := range s {
		for _, d := range norm.NFD.String(string(r)) {
			if unicode.Is(unicode.Mn, d) {
				continue
			}
			f.runes = append(f.runes, unicode.ToLower(d))
			f.idx = append(f.idx, i)
		}
		i++
	}
	f.orig = i
	return f
}

// find locates the first occurrence of needle at or after the given
// folded offset. Returned positions are in folded coordinates.
func (f folded) find(needle []rune, from int) (start int, ok bool) {
	if len(needle) == 0 || from < 0 {
		return 0, false
	}
	limit := len(f.runes) - len(needle)
	for i := from; i <= limit; i++ {
		if slices.Equal(f.runes[i:i+len(needle)], needle) {
			return i, true
		}
	}
	return 0, false
}

// toOriginal translates a half-open folded span into a range of original
// rune indexes.
func (f folded) toOriginal(start, end int) core.Range {
	if start >= end || end > len(f.runes) {
		return core.Range{}
	}
	return core.Range{Start: f.idx[start], End: f.idx[end-1] + 1}
}

// MergeRanges coalesces overlapping and adjacent highlight ranges into
// the minimal set of non-overlapping spans, ordered by start position.
func MergeRanges(ranges []core.Range) []core.Range {
	if len(ranges) == 0 {
		return nil
	}

	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b core.Range) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})

	merged := []core.Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// tokenize lowercases the query, splits it on whitespace and drops
// repeated tokens while preserving first-seen order. A query with no
// tokens (all whitespace) falls back to the whole lowercased query.
func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return []string{strings.ToLower(query)}
	}

	seen := make(map[string]bool, len(fields))
	tokens := fields[:0]
	for _, tok := range fields {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// runeOffset converts a byte offset into s to the index of the rune that
// starts at or contains that offset.
func runeOffset(s string, byteOff int) int {
	n := 0
	for i := range s {
		if i >= byteOff {
			return n
		}
		n++
	}
	return n
}

// truncateRunes caps s at limit runes.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
