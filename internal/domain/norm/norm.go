// Package norm canonicalizes text for comparison. Display strings are never
// modified; only the derived comparison strings pass through here.
//
// Swedish (primary language) folds to lower case. Arabic (secondary language)
// additionally drops the combining diacritics (tashkeel) and the invisible
// bidi control marks that dictionary data tends to carry, so that قِطَّة and
// قطة compare equal while the stored original keeps its vocalization.
package norm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// tashkeel covers the Arabic combining marks stripped before comparison:
// fatha, damma, kasra, sukun, shadda, the tanwin forms (U+064B–U+065F) and
// the superscript alef (U+0670).
var tashkeel = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x064B, Hi: 0x065F, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
	},
}

// bidiControls are the direction marks (LRM, RLM, LRE..PDF) that sneak into
// mixed-script dictionary cells and break exact-equality checks.
var bidiControls = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200E, Hi: 0x200F, Stride: 1},
		{Lo: 0x202A, Hi: 0x202E, Stride: 1},
	},
}

// secondaryFolder strips tashkeel and bidi controls in one pass.
var secondaryFolder = transform.Chain(
	runes.Remove(runes.In(tashkeel)),
	runes.Remove(runes.In(bidiControls)),
)

// Primary returns the comparison form of a Swedish string: trimmed and
// lower-cased. Idempotent.
func Primary(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Secondary returns the comparison form of an Arabic string: diacritics and
// bidi controls stripped, then trimmed and lower-cased (lower-casing is a
// no-op for Arabic script but keeps mixed Latin/Arabic cells consistent).
// Idempotent.
func Secondary(s string) string {
	folded, _, err := transform.String(secondaryFolder, s)
	if err != nil {
		// Remove-transformers only fail on malformed UTF-8; fall back to the
		// raw string rather than dropping the entry from comparisons.
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Query folds free query text for matching against both indices: the primary
// fold for the Swedish side and the secondary fold for the Arabic side.
func Query(s string) (primary, secondary string) {
	primary = Primary(s)
	secondary = Secondary(primary)
	return primary, secondary
}
