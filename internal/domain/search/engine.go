// Package search answers interactive dictionary queries: filtered, relevance-
// bucketed matching over the in-memory indices, with an edit-distance fallback
// when standard matching comes up short.
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nadir/snabblex/internal/domain/classify"
	"github.com/nadir/snabblex/internal/domain/index"
	"github.com/nadir/snabblex/internal/domain/norm"
	"github.com/nadir/snabblex/internal/ports"
)

// Mode restricts how the free-text query is matched.
type Mode string

const (
	ModeAll        Mode = "all"        // substring in either language
	ModePrefix     Mode = "prefix"     // starts-with in either language
	ModeSuffix     Mode = "suffix"     // ends-with in either language
	ModeExact      Mode = "exact"      // full-string equality
	ModeDefinition Mode = "definition" // substring of the Swedish definition
	ModeTraining   Mode = "training"   // training-marked entries only
	ModeFavorites  Mode = "favorites"  // favorite entries only
)

// Sort selects the result ordering.
type Sort string

const (
	SortRelevance Sort = "relevance" // bucket order: exact, prefix, partial, fuzzy
	SortAlphaAsc  Sort = "alpha_asc"
	SortAlphaDesc Sort = "alpha_desc"
)

// Options are the query parameters for one search invocation.
type Options struct {
	Query string
	Mode  Mode
	// Type keeps only entries of one grammatical category ("" or "all" keeps
	// everything).
	Type string
	// Topic keeps only entries whose tags contain this topic ("" keeps
	// everything).
	Topic string
	Sort  Sort
}

// FuzzyConfig bounds the edit-distance fallback.
type FuzzyConfig struct {
	// MinResults: the fallback only runs when the standard buckets together
	// hold fewer results than this.
	MinResults int
	// MinQueryLen: queries shorter than this never trigger the fallback.
	MinQueryLen int
	// MaxDistance is the edit-distance threshold for short queries.
	MaxDistance int
	// MaxDistanceLong applies instead when the query is longer than
	// LongQueryLen, allowing one more edit on longer words.
	MaxDistanceLong int
	LongQueryLen    int
}

// DefaultFuzzy mirrors the constants the product shipped with. Nobody ever
// wrote down why five and three; they are tunable, not sacred.
var DefaultFuzzy = FuzzyConfig{
	MinResults:      5,
	MinQueryLen:     3,
	MaxDistance:     2,
	MaxDistanceLong: 3,
	LongQueryLen:    6,
}

// Engine runs queries against one immutable artifact snapshot.
//
// The favorite and training id sets are owned by external collaborators (the
// favorites UI and the training store); callers push updated sets in, the
// engine never persists them.
type Engine struct {
	idx       *index.Artifacts
	fuzzy     FuzzyConfig
	favorites map[string]bool
	training  map[string]bool
}

// New creates an engine over a built artifact set. Zero-valued fuzzy fields
// take their defaults individually, so a caller tuning one threshold keeps the
// shipped values for the rest.
func New(idx *index.Artifacts, fuzzy FuzzyConfig) *Engine {
	if fuzzy.MinResults == 0 {
		fuzzy.MinResults = DefaultFuzzy.MinResults
	}
	if fuzzy.MinQueryLen == 0 {
		fuzzy.MinQueryLen = DefaultFuzzy.MinQueryLen
	}
	if fuzzy.MaxDistance == 0 {
		fuzzy.MaxDistance = DefaultFuzzy.MaxDistance
	}
	if fuzzy.MaxDistanceLong == 0 {
		fuzzy.MaxDistanceLong = DefaultFuzzy.MaxDistanceLong
	}
	if fuzzy.LongQueryLen == 0 {
		fuzzy.LongQueryLen = DefaultFuzzy.LongQueryLen
	}
	return &Engine{idx: idx, fuzzy: fuzzy}
}

// SetFavoriteIDs replaces the favorite-entry id set.
func (e *Engine) SetFavoriteIDs(ids map[string]bool) { e.favorites = ids }

// SetTrainingIDs replaces the training-marked id set.
func (e *Engine) SetTrainingIDs(ids map[string]bool) { e.training = ids }

// Search runs one query and returns matching entries in rank order.
//
// One linear pass buckets every filter-surviving position as exact, prefix or
// partial; bucket concatenation in that order IS the relevance ranking, stable
// to corpus order within a bucket. A sparse result set triggers the fuzzy
// fallback, appended after the buckets sorted by ascending distance. An
// explicit alphabetical sort replaces the relevance ordering entirely.
//
// "No results" is a normal empty slice, never an error.
func (e *Engine) Search(opts Options) []ports.Entry {
	qPrimary, qSecondary := norm.Query(opts.Query)
	mode := opts.Mode
	if mode == "" {
		mode = ModeAll
	}

	var exact, prefix, partial []int
	for i := 0; i < e.idx.Len(); i++ {
		if !e.passesFilters(i, opts) {
			continue
		}

		swe := e.idx.Primary[i]
		arb := e.idx.Secondary[i]
		entry := e.idx.Entries[i]

		// Mode-specific predicate. Restrictive modes pin the bucket; the
		// pass-through modes (all, training, favorites) fall to standard
		// bucket classification below.
		switch mode {
		case ModePrefix:
			if !hasPrefix(swe, qPrimary) && !hasPrefix(arb, qSecondary) {
				continue
			}
			prefix = append(prefix, i)
			continue
		case ModeSuffix:
			if !hasSuffix(swe, qPrimary) && !hasSuffix(arb, qSecondary) {
				continue
			}
			partial = append(partial, i)
			continue
		case ModeExact:
			if swe != qPrimary && arb != qSecondary {
				continue
			}
			exact = append(exact, i)
			continue
		case ModeDefinition:
			if !contains(norm.Primary(entry.Definition), qPrimary) {
				continue
			}
			partial = append(partial, i)
			continue
		}

		if qPrimary == "" {
			// Filter-only browse: everything surviving is a partial match.
			partial = append(partial, i)
			continue
		}
		switch {
		case swe == qPrimary || arb == qSecondary:
			exact = append(exact, i)
		case hasPrefix(swe, qPrimary) || hasPrefix(arb, qSecondary):
			prefix = append(prefix, i)
		case contains(swe, qPrimary) || contains(arb, qSecondary):
			partial = append(partial, i)
		}
	}

	merged := make([]int, 0, len(exact)+len(prefix)+len(partial))
	merged = append(merged, exact...)
	merged = append(merged, prefix...)
	merged = append(merged, partial...)

	if fuzzy := e.fuzzyFallback(qPrimary, mode, merged, opts); len(fuzzy) > 0 {
		merged = append(merged, fuzzy...)
	}

	if opts.Sort == SortAlphaAsc || opts.Sort == SortAlphaDesc {
		// Swedish ordering: å, ä, ö sort after z, not as accented a/o. The
		// collator buffers state between comparisons and is not safe for
		// concurrent use, so each call gets its own.
		col := collate.New(language.Swedish)
		desc := opts.Sort == SortAlphaDesc
		sort.SliceStable(merged, func(a, b int) bool {
			x, y := merged[a], merged[b]
			if desc {
				x, y = y, x
			}
			return col.CompareString(e.idx.Primary[x], e.idx.Primary[y]) < 0
		})
	}

	out := make([]ports.Entry, len(merged))
	for i, pos := range merged {
		out[i] = e.idx.Entries[pos]
	}
	return out
}

// passesFilters applies the filter chain for position i, cheapest first:
// type (memoized map lookup), topic, favorites, training.
func (e *Engine) passesFilters(i int, opts Options) bool {
	entry := e.idx.Entries[i]

	if opts.Type != "" && opts.Type != "all" {
		if string(e.idx.TypeOf(entry).Category) != opts.Type {
			return false
		}
	}
	if opts.Topic != "" && opts.Topic != "all" {
		if !contains(norm.Primary(entry.Tags), norm.Primary(opts.Topic)) &&
			e.idx.TypeOf(entry).Topic != opts.Topic {
			return false
		}
	}
	if opts.Mode == ModeFavorites && !e.favorites[entry.ID] {
		return false
	}
	if opts.Mode == ModeTraining && !e.training[entry.ID] {
		return false
	}
	return true
}

// fuzzyFallback finds near-miss headwords by edit distance. It only runs when
// the standard buckets are sparse, the query is long enough to be meaningful,
// and no restrictive mode pins the match shape.
func (e *Engine) fuzzyFallback(qPrimary string, mode Mode, matched []int, opts Options) []int {
	if len(matched) >= e.fuzzy.MinResults {
		return nil
	}
	qLen := len([]rune(qPrimary))
	if qLen < e.fuzzy.MinQueryLen || mode != ModeAll {
		return nil
	}

	maxDist := e.fuzzy.MaxDistance
	if qLen > e.fuzzy.LongQueryLen {
		maxDist = e.fuzzy.MaxDistanceLong
	}

	seen := make(map[int]bool, len(matched))
	for _, i := range matched {
		seen[i] = true
	}

	type candidate struct {
		pos  int
		dist int
	}
	var candidates []candidate
	for i := 0; i < e.idx.Len(); i++ {
		if seen[i] || !e.passesFilters(i, opts) {
			continue
		}
		swe := e.idx.Primary[i]
		// Length pre-filter: a length gap above the threshold already implies
		// the distance exceeds it, skip the O(len²) table.
		if absDiff(len([]rune(swe)), qLen) > maxDist {
			continue
		}
		if d := levenshtein.ComputeDistance(swe, qPrimary); d <= maxDist {
			candidates = append(candidates, candidate{pos: i, dist: d})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].dist < candidates[b].dist
	})
	out := make([]int, len(candidates))
	for i, c := range candidates {
		out[i] = c.pos
	}
	return out
}

// Suggest returns up to limit autocomplete candidates for a partial query:
// Swedish prefix matches first, then Arabic prefix matches, then fuzzy
// backfill when the prefix passes leave slots open.
func (e *Engine) Suggest(query string, limit int) []ports.Entry {
	qPrimary, qSecondary := norm.Query(query)
	if qPrimary == "" || limit <= 0 {
		return nil
	}

	var picks []int
	seen := make(map[int]bool)
	for i := 0; i < e.idx.Len() && len(picks) < limit; i++ {
		if hasPrefix(e.idx.Primary[i], qPrimary) {
			picks = append(picks, i)
			seen[i] = true
		}
	}
	for i := 0; i < e.idx.Len() && len(picks) < limit; i++ {
		if !seen[i] && hasPrefix(e.idx.Secondary[i], qSecondary) {
			picks = append(picks, i)
			seen[i] = true
		}
	}

	if len(picks) < limit && len([]rune(qPrimary)) >= e.fuzzy.MinQueryLen {
		for _, pos := range e.fuzzyFallback(qPrimary, ModeAll, picks, Options{}) {
			if len(picks) >= limit {
				break
			}
			picks = append(picks, pos)
		}
	}

	out := make([]ports.Entry, len(picks))
	for i, pos := range picks {
		out[i] = e.idx.Entries[pos]
	}
	return out
}

// TypeCounts tallies entries per grammatical category, for filter badges.
func (e *Engine) TypeCounts() map[classify.Category]int {
	counts := make(map[classify.Category]int)
	for _, entry := range e.idx.Entries {
		counts[e.idx.TypeOf(entry).Category]++
	}
	return counts
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func hasPrefix(s, q string) bool {
	return q != "" && strings.HasPrefix(s, q)
}

func hasSuffix(s, q string) bool {
	return q != "" && strings.HasSuffix(s, q)
}

func contains(s, q string) bool {
	return strings.Contains(s, q)
}
