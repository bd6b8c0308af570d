package core

// Range is a half-open span of rune indexes into an entry's title,
// used for match highlighting.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// SearchResult pairs an entry with its ranking score and the character
// ranges that matched the query. Scored is false for neutral results
// (empty query or unscored strategies); such results keep input order.
// Lower score means better rank.
type SearchResult struct {
	Entry  *Entry
	Score  float64
	Scored bool
	Ranges []Range
}
