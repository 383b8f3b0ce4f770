// Package index builds the in-memory lookup structures the query engine runs
// against. Build is the one expensive O(n) pass per corpus load; query time
// must never repeat it.
package index

import (
	"fmt"

	"github.com/nadir/snabblex/internal/domain/classify"
	"github.com/nadir/snabblex/internal/domain/norm"
	"github.com/nadir/snabblex/internal/ports"
)

// Artifacts holds the derived lookup structures for one corpus snapshot.
//
// Entries, Primary and Secondary are parallel: position i in each refers to
// the same dictionary entry. Types is keyed by entry id rather than position,
// so a reordered corpus cannot silently misalign cached classifications.
//
// Artifacts are immutable after Build. Corpus changes rebuild the whole set
// and swap it in atomically; nothing edits an artifact in place, so a reader
// can never observe the three arrays at different lengths.
type Artifacts struct {
	Entries []ports.Entry
	// Primary is the lower-cased Swedish headword per position.
	Primary []string
	// Secondary is the diacritic-stripped, lower-cased Arabic translation
	// per position.
	Secondary []string
	// Types memoizes the heuristic grammatical classification per entry id.
	Types map[string]classify.Result
}

// Build derives all artifacts from a corpus in a single pass.
func Build(entries []ports.Entry) *Artifacts {
	a := &Artifacts{
		Entries:   entries,
		Primary:   make([]string, len(entries)),
		Secondary: make([]string, len(entries)),
		Types:     make(map[string]classify.Result, len(entries)),
	}
	for i, e := range entries {
		a.Primary[i] = norm.Primary(e.Swedish)
		a.Secondary[i] = norm.Secondary(e.Arabic)
		a.Types[e.ID] = classify.Classify(e)
	}
	return a
}

// Len returns the number of indexed entries.
func (a *Artifacts) Len() int {
	return len(a.Entries)
}

// TypeOf returns the memoized classification for an entry.
func (a *Artifacts) TypeOf(e ports.Entry) classify.Result {
	return a.Types[e.ID]
}

// Validate checks the parallel-array invariant. Build cannot produce a
// misaligned artifact set; this exists for tests and debug assertions.
func (a *Artifacts) Validate() error {
	if len(a.Primary) != len(a.Entries) || len(a.Secondary) != len(a.Entries) {
		return fmt.Errorf("index misaligned: %d entries, %d primary, %d secondary",
			len(a.Entries), len(a.Primary), len(a.Secondary))
	}
	return nil
}
