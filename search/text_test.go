package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/clipkeep/core"
)

func TestMergeRanges(t *testing.T) {
	tests := []struct {
		name   string
		ranges []core.Range
		want   []core.Range
	}{
		{
			name:   "overlapping ranges coalesce",
			ranges: []core.Range{{Start: 0, End: 3}, {Start: 2, End: 5}},
			want:   []core.Range{{Start: 0, End: 5}},
		},
		{
			name:   "disjoint ranges stay separate",
			ranges: []core.Range{{Start: 0, End: 3}, {Start: 5, End: 8}},
			want:   []core.Range{{Start: 0, End: 3}, {Start: 5, End: 8}},
		},
		{
			name:   "adjacent ranges coalesce",
			ranges: []core.Range{{Start: 0, End: 3}, {Start: 3, End: 5}},
			want:   []core.Range{{Start: 0, End: 5}},
		},
		{
			name:   "unsorted input",
			ranges: []core.Range{{Start: 6, End: 9}, {Start: 0, End: 2}, {Start: 1, End: 4}},
			want:   []core.Range{{Start: 0, End: 4}, {Start: 6, End: 9}},
		},
		{
			name:   "contained range absorbed",
			ranges: []core.Range{{Start: 0, End: 10}, {Start: 2, End: 4}},
			want:   []core.Range{{Start: 0, End: 10}},
		},
		{
			name:   "empty input",
			ranges: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeRanges(tt.ranges))
		})
	}
}

func TestMergeRanges_DoesNotMutateInput(t *testing.T) {
	input := []core.Range{{Start: 5, End: 8}, {Start: 0, End: 3}}
	MergeRanges(input)
	assert.Equal(t, []core.Range{{Start: 5, End: 8}, {Start: 0, End: 3}}, input)
}

func TestFoldString(t *testing.T) {
	t.Run("lowercases", func(t *testing.T) {
		f := foldString("HeLLo")
		assert.Equal(t, []rune("hello"), f.runes)
	})

	t.Run("strips diacritics with index map", func(t *testing.T) {
		f := foldString("Café")
		assert.Equal(t, []rune("cafe"), f.runes)
		assert.Equal(t, []int{0, 1, 2, 3}, f.idx)
		assert.Equal(t, 4, f.orig)
	})

	t.Run("find and translate back", func(t *testing.T) {
		f := foldString("über Grün")
		start, ok := f.find([]rune("grun"), 0)
		require.True(t, ok)
		assert.Equal(t, core.Range{Start: 5, End: 9}, f.toOriginal(start, start+4))
	})

	t.Run("find from offset", func(t *testing.T) {
		f := foldString("abcabc")
		start, ok := f.find([]rune("abc"), 1)
		require.True(t, ok)
		assert.Equal(t, 3, start)
	})

	t.Run("missing needle", func(t *testing.T) {
		_, ok := foldString("hello").find([]rune("xyz"), 0)
		assert.False(t, ok)
	})
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "lowercase split on whitespace",
			query: "Alpha\tBETA  gamma",
			want:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:  "duplicates dropped preserving order",
			query: "foo bar foo baz bar",
			want:  []string{"foo", "bar", "baz"},
		},
		{
			name:  "whitespace only falls back to whole query",
			query: "   ",
			want:  []string{"   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.query))
		})
	}
}

func TestRuneOffset(t *testing.T) {
	s := "αβγ abc"
	assert.Equal(t, 0, runeOffset(s, 0))
	assert.Equal(t, 1, runeOffset(s, 2))
	assert.Equal(t, 4, runeOffset(s, 7))
	assert.Equal(t, 7, runeOffset(s, len(s)))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "αβ", truncateRunes("αβγ", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "", truncateRunes("abc", 0))

	long := strings.Repeat("é", fuzzyTitleCutoff+10)
	assert.Equal(t, fuzzyTitleCutoff, len([]rune(truncateRunes(long, fuzzyTitleCutoff))))
}
