package search

import (
	"cmp"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
	"github.com/xrash/smetrics"

	"github.com/poiesic/clipkeep/core"
)

const (
	// Titles longer than this are truncated before fuzzy scoring to
	// bound the cost of approximate matching.
	fuzzyTitleCutoff = 5000
	// Normalized distance above this is rejected as a false positive.
	fuzzyThreshold = 0.7
	// Offset added to fuzzy-only scores in mixed mode so they always
	// rank below exact, token and regexp hits.
	fuzzyPenalty = 1000

	// Score bonuses, subtracted so lower stays better.
	startOfTitleBonus = 150
	wordBoundaryBonus = 50
	verbatimBonus     = 200
)

// Engine scores and ranks entries against a query under the configured
// mode. It is stateless apart from configuration and safe for concurrent
// use.
type Engine struct {
	mode   Mode
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a search engine for the given mode.
func NewEngine(mode Mode, opts ...Option) (*Engine, error) {
	e := &Engine{
		mode:   mode,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Mode returns the configured matching strategy.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Search ranks the already-filtered entries against the query. An empty
// query returns every entry unscored in input order without touching any
// scoring machinery. Matching entries carry highlight ranges expressed
// as rune indexes into their titles.
func (e *Engine) Search(query string, entries []*core.Entry) []core.SearchResult {
	if query == "" {
		return neutralResults(entries)
	}

	switch e.mode {
	case ModeExact:
		return e.searchExact(query, entries)
	case ModeRegexp:
		return e.searchRegexp(query, entries)
	case ModeFuzzy:
		return e.searchFuzzy(query, entries)
	default:
		return e.searchMixed(query, entries)
	}
}

func neutralResults(entries []*core.Entry) []core.SearchResult {
	results := make([]core.SearchResult, len(entries))
	for i, entry := range entries {
		results[i] = core.SearchResult{Entry: entry}
	}
	return results
}

// searchExact performs a case-insensitive substring match on the title.
// Only one match per entry is possible, so results stay unscored in
// input order.
func (e *Engine) searchExact(query string, entries []*core.Entry) []core.SearchResult {
	needle := lowerRunes(query)

	var results []core.SearchResult
	for _, entry := range entries {
		haystack := lowerRunes(entry.Title)
		start, ok := indexRunes(haystack, needle)
		if !ok {
			continue
		}
		results = append(results, core.SearchResult{
			Entry:  entry,
			Ranges: []core.Range{{Start: start, End: start + len(needle)}},
		})
	}
	return results
}

// searchRegexp interprets the query as a case-insensitive pattern. A
// malformed pattern matches nothing. Results are ordered by the position
// of their first match.
func (e *Engine) searchRegexp(query string, entries []*core.Entry) []core.SearchResult {
	re := e.compilePattern(query)
	if re == nil {
		return nil
	}

	var results []core.SearchResult
	for _, entry := range entries {
		spans := re.FindAllStringIndex(entry.Title, -1)
		if len(spans) == 0 {
			continue
		}
		ranges := spansToRanges(entry.Title, spans)
		results = append(results, core.SearchResult{
			Entry:  entry,
			Score:  float64(ranges[0].Start),
			Scored: true,
			Ranges: ranges,
		})
	}

	sortByScore(results)
	return results
}

// searchFuzzy performs approximate matching, best score first.
func (e *Engine) searchFuzzy(query string, entries []*core.Entry) []core.SearchResult {
	titles := make([]string, len(entries))
	for i, entry := range entries {
		titles[i] = truncateRunes(entry.Title, fuzzyTitleCutoff)
	}

	byIndex := make(map[int]fuzzy.Match)
	for _, m := range fuzzy.Find(query, titles) {
		if _, dup := byIndex[m.Index]; !dup {
			byIndex[m.Index] = m
		}
	}

	var results []core.SearchResult
	for i, entry := range entries {
		m, ok := byIndex[i]
		if !ok {
			continue
		}
		dist, ranges, ok := fuzzyDistance(query, titles[i], m)
		if !ok {
			continue
		}
		results = append(results, core.SearchResult{
			Entry:  entry,
			Score:  dist,
			Scored: true,
			Ranges: ranges,
		})
	}

	sortByScore(results)
	return results
}

// searchMixed is the union strategy: a verbatim case/diacritic-insensitive
// match wins outright, then token AND matching, then a regexp hit, then a
// fuzzy hit pushed down by a fixed penalty. Each entry contributes at most
// one result; final order is ascending score with input order breaking ties.
func (e *Engine) searchMixed(query string, entries []*core.Entry) []core.SearchResult {
	queryFold := foldString(query)
	rawTokens := tokenize(query)
	tokens := make([][]rune, len(rawTokens))
	for i, tok := range rawTokens {
		tokens[i] = foldString(tok).runes
	}
	re := e.compilePattern(query)

	var results []core.SearchResult
	for _, entry := range entries {
		if result, ok := e.mixedResult(entry, query, queryFold, tokens, re); ok {
			results = append(results, result)
		}
	}

	sortByScore(results)
	return results
}

func (e *Engine) mixedResult(entry *core.Entry, query string, queryFold folded, tokens [][]rune, re *regexp.Regexp) (core.SearchResult, bool) {
	titleFold := foldString(entry.Title)
	titleRunes := []rune(entry.Title)

	// Verbatim hit: the full untrimmed query as one contiguous substring.
	if start, ok := titleFold.find(queryFold.runes, 0); ok {
		rng := titleFold.toOriginal(start, start+len(queryFold.runes))
		return core.SearchResult{
			Entry:  entry,
			Score:  matchScore(rng, titleRunes, true),
			Scored: true,
			Ranges: []core.Range{rng},
		}, true
	}

	// Token hit: every token must match somewhere in the title.
	if result, ok := tokenResult(entry, titleFold, titleRunes, tokens); ok {
		return result, true
	}

	// Regexp hit on the raw query.
	if re != nil {
		if spans := re.FindAllStringIndex(entry.Title, -1); len(spans) > 0 {
			ranges := spansToRanges(entry.Title, spans)
			return core.SearchResult{
				Entry:  entry,
				Score:  float64(ranges[0].Start),
				Scored: true,
				Ranges: ranges,
			}, true
		}
	}

	// Fuzzy hit, penalized below every other strategy.
	title := truncateRunes(entry.Title, fuzzyTitleCutoff)
	if ms := fuzzy.Find(query, []string{title}); len(ms) > 0 {
		if dist, ranges, ok := fuzzyDistance(query, title, ms[0]); ok {
			return core.SearchResult{
				Entry:  entry,
				Score:  dist + fuzzyPenalty,
				Scored: true,
				Ranges: ranges,
			}, true
		}
	}

	return core.SearchResult{}, false
}

func tokenResult(entry *core.Entry, titleFold folded, titleRunes []rune, tokens [][]rune) (core.SearchResult, bool) {
	if len(tokens) == 0 {
		return core.SearchResult{}, false
	}

	var total float64
	ranges := make([]core.Range, 0, len(tokens))
	for _, tok := range tokens {
		start, ok := titleFold.find(tok, 0)
		if !ok {
			return core.SearchResult{}, false
		}
		rng := titleFold.toOriginal(start, start+len(tok))
		total += matchScore(rng, titleRunes, false)
		ranges = append(ranges, rng)
	}

	return core.SearchResult{
		Entry:  entry,
		Score:  total,
		Scored: true,
		Ranges: MergeRanges(ranges),
	}, true
}

// matchScore implements the shared ranking formula: distance from the
// title start plus the match/title length ratio, minus positional and
// verbatim bonuses. Lower is better.
func matchScore(rng core.Range, titleRunes []rune, verbatim bool) float64 {
	score := float64(rng.Start)
	if len(titleRunes) > 0 {
		score += float64(rng.Len()) / float64(len(titleRunes))
	}

	switch {
	case rng.Start == 0:
		score -= startOfTitleBonus
	case rng.Start <= len(titleRunes) && !isAlphanumeric(titleRunes[rng.Start-1]):
		score -= wordBoundaryBonus
	}

	if verbatim {
		score -= verbatimBonus
	}
	return score
}

// fuzzyDistance turns a fuzzy match into a normalized distance in [0,1]
// and highlight ranges. The distance compares the query against the
// matched window of the title; matches above the threshold are rejected.
func fuzzyDistance(query, title string, m fuzzy.Match) (float64, []core.Range, bool) {
	if len(m.MatchedIndexes) == 0 {
		return 0, nil, false
	}

	first := m.MatchedIndexes[0]
	last := m.MatchedIndexes[len(m.MatchedIndexes)-1]
	_, lastLen := utf8.DecodeRuneInString(title[last:])
	window := title[first : last+lastLen]

	dist := 1 - smetrics.JaroWinkler(strings.ToLower(query), strings.ToLower(window), 0.7, 4)
	if dist > fuzzyThreshold {
		return 0, nil, false
	}

	ranges := make([]core.Range, 0, len(m.MatchedIndexes))
	for _, idx := range m.MatchedIndexes {
		pos := runeOffset(title, idx)
		ranges = append(ranges, core.Range{Start: pos, End: pos + 1})
	}
	return dist, MergeRanges(ranges), true
}

// compilePattern builds a case-insensitive regexp from the query. An
// invalid pattern is not an error: it simply matches nothing.
func (e *Engine) compilePattern(query string) *regexp.Regexp {
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		e.logger.Debug("invalid search pattern", "query", query, "err", err)
		return nil
	}
	return re
}

func spansToRanges(title string, spans [][]int) []core.Range {
	ranges := make([]core.Range, 0, len(spans))
	for _, span := range spans {
		ranges = append(ranges, core.Range{
			Start: runeOffset(title, span[0]),
			End:   runeOffset(title, span[1]),
		})
	}
	return ranges
}

func sortByScore(results []core.SearchResult) {
	slices.SortStableFunc(results, func(a, b core.SearchResult) int {
		return cmp.Compare(a.Score, b.Score)
	})
}

func lowerRunes(s string) []rune {
	return []rune(strings.ToLower(s))
}

func indexRunes(haystack, needle []rune) (int, bool) {
	if len(needle) == 0 {
		return 0, false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if slices.Equal(haystack[i:i+len(needle)], needle) {
			return i, true
		}
	}
	return 0, false
}
