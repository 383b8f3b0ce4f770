// Package classify assigns a grammatical category to a dictionary entry.
//
// The dictionary's own type column is unreliable — it mixes grammatical labels
// with topic labels ("medicin", "juridik") and is frequently blank — so
// classification leans primarily on the inflection-forms string and on Swedish
// suffix morphology, falling back to the type column last.
//
// The result is a heuristic approximation. Irregular words can and do
// misclassify; that is accepted behavior, not a bug. Callers memoize the
// result per entry (see domain/index), because classification walks several
// rule tables per word.
package classify

import (
	"regexp"
	"strings"

	"github.com/nadir/snabblex/internal/domain/norm"
	"github.com/nadir/snabblex/internal/ports"
)

// Category is a coarse grammatical class.
type Category string

const (
	NounEn       Category = "en"
	NounEtt      Category = "ett"
	Verb         Category = "verb"
	Adjective    Category = "adjective"
	Adverb       Category = "adverb"
	Preposition  Category = "preposition"
	Conjunction  Category = "conjunction"
	Pronoun      Category = "pronoun"
	Interjection Category = "interjection"
	Numeral      Category = "numeral"
	Phrasal      Category = "phrasal"
	Unknown      Category = "default"
)

// IsNoun reports whether the category is either noun gender.
func (c Category) IsNoun() bool { return c == NounEn || c == NounEtt }

// Result is the classification outcome for one entry.
type Result struct {
	Category Category
	// VerbGroup is 1-4 for verbs when the forms pattern identifies the
	// conjugation group, 0 otherwise.
	VerbGroup int
	// Topic is the specialized domain tag ("medical", "legal", ...) when the
	// type column carries one, independent of the grammatical category.
	Topic string
}

// typeAliases maps the dictionary's type-column spellings to categories.
// Only grammatical labels appear here; topic labels live in topicAliases.
var typeAliases = map[string]Category{
	"subst": NounEn, "substantiv": NounEn, "noun": NounEn,
	"en": NounEn, "ett": NounEtt,
	"förkortning": NounEn, "namn": NounEn,
	"adj": Adjective, "adjektiv": Adjective,
	"adv": Adverb, "adverb": Adverb,
	"prep": Preposition, "preposition": Preposition,
	"konj": Conjunction, "konjunktion": Conjunction,
	"pron": Pronoun, "pronomen": Pronoun,
	"interj": Interjection, "interjektion": Interjection,
	"räkn": Numeral, "räkneord": Numeral, "num": Numeral,
	"verbmn": Phrasal, "förled": Phrasal, "efterled": Phrasal,
}

// topicAliases maps specialized type-column labels to topic tags.
var topicAliases = map[string]string{
	"med": "medical", "medicin": "medical", "tandvård": "medical",
	"jur": "legal", "juridik": "legal",
	"bygg": "construction",
	"tekn": "tech", "teknik": "tech", "data": "tech", "dator": "tech",
	"nat": "science", "natur": "science",
	"rel": "religion", "religion": "religion", "islam": "religion",
	"pol": "politics", "politik": "politics", "samhälle": "politics",
	"migration": "politics", "utbildning": "politics",
	"ekon": "economy", "ekonomi": "economy", "arbetsmarknad": "economy",
	"försäkring": "economy",
	"mil": "military", "militär": "military",
}

// Closed word classes: O(1) fast path before any morphology runs.
var (
	pronouns = toSet("jag", "du", "han", "hon", "den", "det", "vi", "ni", "de",
		"honom", "henne", "oss", "er", "dem", "min", "din", "sin", "vår",
		"deras", "någon", "ingen", "alla", "man", "själv")
	prepositions = toSet("i", "på", "till", "från", "med", "utan", "av",
		"under", "över", "vid", "för", "om", "mellan", "hos", "genom", "mot")
	conjunctions = toSet("och", "men", "eller", "att", "eftersom", "när",
		"då", "medan", "fast", "samt")
)

// Noun-deriving suffixes with a reliable gender.
var nounSuffixes = []struct {
	suffix string
	gender Category
}{
	{"het", NounEn}, {"ning", NounEn}, {"ing", NounEn},
	{"tion", NounEn}, {"ssion", NounEn}, {"sion", NounEn},
	{"else", NounEn}, {"nad", NounEn}, {"ism", NounEn}, {"ist", NounEn},
	{"lek", NounEn}, {"logi", NounEn}, {"grafi", NounEn},
	{"ans", NounEn}, {"ens", NounEn}, {"itet", NounEn}, {"dom", NounEn},
	{"are", NounEn},
	{"ande", NounEtt}, {"ende", NounEtt}, {"um", NounEtt}, {"em", NounEtt},
	{"eri", NounEtt}, {"tek", NounEtt}, {"ment", NounEtt},
}

// Compound heads whose gender carries to the whole compound.
var (
	ettHeads = []string{"rum", "hus", "tak", "golv", "bord", "berg", "land",
		"ljus", "block", "kort", "slag", "spel", "verk", "djur", "krig",
		"skap", "vatten", "fönster", "papper", "system", "arbete", "centrum",
		"museum", "program", "dokument", "brott", "mord", "äktenskap", "språk"}
	enHeads = []string{"gård", "väg", "gata", "plats", "dörr", "bil",
		"maskin", "station", "motor", "dag", "natt", "stad", "feber", "bok",
		"tidning", "skola", "blomma"}
)

var adjectiveSuffixes = []string{"lig", "ig", "isk", "sam", "bar", "full",
	"lös", "aktig", "mässig"}

var adverbSuffixes = []string{"ligen", "vis", "ledes", "lunda"}

var (
	pretGr1Re = regexp.MustCompile(`\w+ade(?:[,\s]|$)`)
	pretGr2Re = regexp.MustCompile(`\w+(?:de|te)(?:[,\s]|$)`)
	pretGr3Re = regexp.MustCompile(`\w+dde(?:[,\s]|$)`)
	supGr4Re  = regexp.MustCompile(`\w+(?:it|its|ats|ett)(?:[,\s]|$)`)
	passiveRe = regexp.MustCompile(`\w+(?:ades|des)(?:[,\s]|$)`)
)

var typePunctRe = regexp.MustCompile(`[.()]`)

// Classify determines the grammatical category of an entry.
//
// Rule order matters and mirrors the reliability of each signal:
//  1. explicit grammatical label in the type column
//  2. closed word classes
//  3. noun/adjective suffix morphology
//  4. Arabic present-tense marker (translation starting with ي)
//  5. explicit gender column
//  6. inflection-forms analysis (verb groups, noun gender, adjective shape)
//  7. word-suffix gender heuristics
//  8. type-column fallback
func Classify(e ports.Entry) Result {
	word := strings.ToLower(strings.TrimSpace(e.Swedish))
	forms := strings.ToLower(e.Forms)
	rawType := strings.TrimSpace(typePunctRe.ReplaceAllString(strings.ToLower(e.Type), ""))
	gender := strings.ToLower(strings.TrimSpace(e.Gender))

	topic := detectTopic(rawType)

	// 1. Explicit grammatical label.
	if cat, ok := explicitCategory(rawType); ok {
		switch cat {
		case NounEn, NounEtt:
			g := detectNounGender(forms, word)
			if g == Unknown {
				g = cat
				if gender == "ett" {
					g = NounEtt
				}
			}
			return Result{Category: g, Topic: topic}
		case Verb:
			if strings.Contains(word, " ") {
				return Result{Category: Phrasal, Topic: topic}
			}
			return Result{Category: Verb, VerbGroup: detectVerbGroup(forms, word), Topic: topic}
		default:
			return Result{Category: cat, Topic: topic}
		}
	}

	// 2. Closed classes.
	switch {
	case pronouns[word]:
		return Result{Category: Pronoun, Topic: topic}
	case prepositions[word]:
		return Result{Category: Preposition, Topic: topic}
	case conjunctions[word]:
		return Result{Category: Conjunction, Topic: topic}
	}

	// 3. Suffix morphology. Runs before the Arabic heuristic so derived nouns
	// whose translation happens to start with ت or ي stay nouns.
	for _, rule := range nounSuffixes {
		if strings.HasSuffix(word, rule.suffix) {
			return Result{Category: rule.gender, Topic: topic}
		}
	}
	// Reflexive verbs end in "sig" and would otherwise trip the -ig rule.
	if !strings.HasSuffix(word, "sig") {
		for _, s := range adjectiveSuffixes {
			if strings.HasSuffix(word, s) {
				return Result{Category: Adjective, Topic: topic}
			}
		}
	}

	// 4. Arabic present-tense marker: a translation starting with ي is a
	// strong verb signal once explicit nouns are ruled out.
	if arb := norm.Secondary(e.Arabic); strings.HasPrefix(arb, "ي") {
		return Result{Category: Verb, VerbGroup: detectVerbGroup(forms, word), Topic: topic}
	}

	// 5. Explicit gender column.
	switch gender {
	case "ett":
		return Result{Category: NounEtt, Topic: topic}
	case "en":
		return Result{Category: NounEn, Topic: topic}
	}

	// 6. Forms analysis.
	if g := detectVerbGroup(forms, word); g > 0 {
		return Result{Category: Verb, VerbGroup: g, Topic: topic}
	}
	if g := detectNounGender(forms, word); g != Unknown {
		return Result{Category: g, Topic: topic}
	}
	if detectAdjective(forms, word) {
		return Result{Category: Adjective, Topic: topic}
	}

	// 7. Word-suffix heuristics.
	for _, s := range adverbSuffixes {
		if strings.HasSuffix(word, s) {
			return Result{Category: Adverb, Topic: topic}
		}
	}
	for _, h := range ettHeads {
		if strings.HasSuffix(word, h) {
			return Result{Category: NounEtt, Topic: topic}
		}
	}
	for _, h := range enHeads {
		if strings.HasSuffix(word, h) {
			return Result{Category: NounEn, Topic: topic}
		}
	}

	// 8. Type-column fallback.
	switch {
	case strings.Contains(rawType, "verbmn") || (strings.Contains(rawType, "verb") && strings.Contains(word, " ")):
		return Result{Category: Phrasal, Topic: topic}
	case strings.Contains(rawType, "verb"):
		return Result{Category: Verb, Topic: topic}
	case strings.Contains(rawType, "subst"):
		return Result{Category: NounEn, Topic: topic}
	case strings.Contains(rawType, "adj"):
		return Result{Category: Adjective, Topic: topic}
	case strings.Contains(rawType, "adv"):
		return Result{Category: Adverb, Topic: topic}
	case strings.Contains(rawType, "prep"):
		return Result{Category: Preposition, Topic: topic}
	case strings.Contains(rawType, "konj"):
		return Result{Category: Conjunction, Topic: topic}
	case strings.Contains(rawType, "pron"):
		return Result{Category: Pronoun, Topic: topic}
	case strings.Contains(rawType, "interj"):
		return Result{Category: Interjection, Topic: topic}
	}

	// A topic label without a grammatical signal is almost always a noun.
	if topic != "" {
		return Result{Category: NounEn, Topic: topic}
	}
	return Result{Category: Unknown}
}

// explicitCategory resolves an unambiguous grammatical label from the type
// column. Multi-word labels like "subst. medicin" resolve through their parts.
func explicitCategory(rawType string) (Category, bool) {
	if rawType == "" {
		return Unknown, false
	}
	if cat, ok := typeAliases[rawType]; ok {
		return cat, true
	}
	for _, part := range strings.Fields(rawType) {
		if cat, ok := typeAliases[part]; ok {
			return cat, true
		}
	}
	switch {
	case strings.Contains(rawType, "adjektiv"):
		return Adjective, true
	case strings.Contains(rawType, "adverb"):
		return Adverb, true
	case strings.Contains(rawType, "subst"):
		return NounEn, true
	case strings.Contains(rawType, "verb"):
		return Verb, true
	}
	return Unknown, false
}

// detectTopic extracts a specialized domain tag from the type column.
func detectTopic(rawType string) string {
	if rawType == "" {
		return ""
	}
	if t, ok := topicAliases[rawType]; ok {
		return t
	}
	for _, part := range strings.Fields(rawType) {
		if t, ok := topicAliases[part]; ok {
			return t
		}
	}
	for alias, t := range topicAliases {
		if len(alias) >= 4 && strings.Contains(rawType, alias) {
			return t
		}
	}
	return ""
}

// detectVerbGroup identifies the conjugation group (1-4) from the forms
// string, or 0 when the forms do not look like verb forms.
//
// Verb forms list present, preterite, supine (arbetar, arbetade, arbetat);
// noun forms list definite and plural shapes. Requiring the tense endings in
// the right positions keeps plural nouns in -ar/-er from matching.
func detectVerbGroup(forms, word string) int {
	parts := splitForms(forms)
	if len(parts) < 2 {
		return 0
	}
	// Descriptive cells like "Juridisk term: brottsplats" are not forms.
	if strings.Contains(forms, "term:") || strings.Contains(forms, "term ") {
		return 0
	}
	first := parts[0]

	switch {
	case strings.HasSuffix(first, "ar") && pretGr1Re.MatchString(forms):
		return 1
	case strings.HasSuffix(first, "er") && pretGr2Re.MatchString(forms):
		return 2
	case pretGr3Re.MatchString(forms):
		return 3
	case supGr4Re.MatchString(forms):
		// Exclude definite-neuter nouns (huset) and -it loanwords (bandit).
		if !strings.HasSuffix(first, "et") && !strings.HasSuffix(word, "it") {
			return 4
		}
	}
	if strings.HasSuffix(word, "as") && passiveRe.MatchString(forms) {
		return 4
	}
	return 0
}

// detectNounGender reads the definite-singular form (second position) for the
// en/ett distinction: bilen/flickan vs huset.
func detectNounGender(forms, word string) Category {
	parts := splitForms(forms)
	if len(parts) >= 2 {
		def := parts[1]
		switch {
		case strings.HasSuffix(def, "et"):
			return NounEtt
		case strings.HasSuffix(def, "en"), strings.HasSuffix(def, "an"):
			return NounEn
		}
	}
	if strings.HasPrefix(forms, "en ") {
		return NounEn
	}
	if strings.HasPrefix(forms, "ett ") {
		return NounEtt
	}
	for _, h := range ettHeads {
		if strings.HasSuffix(word, h) {
			return NounEtt
		}
	}
	return Unknown
}

// detectAdjective recognizes the three-form adjective shape:
// grundform, neuter -t, plural/definite -a (stor, stort, stora).
func detectAdjective(forms, word string) bool {
	parts := splitForms(forms)
	if len(parts) >= 3 {
		base, tForm, aForm := parts[0], parts[1], parts[2]
		if strings.HasSuffix(tForm, "t") && strings.HasSuffix(aForm, "a") {
			switch {
			case tForm == base+"t",
				strings.TrimSuffix(aForm, "a") == base,
				strings.HasSuffix(base, "er") && strings.HasSuffix(tForm, "ert"),
				strings.HasSuffix(base, "el") && strings.HasSuffix(tForm, "elt"),
				strings.HasSuffix(base, "en") && strings.HasSuffix(tForm, "et"):
				return true
			}
		}
	}
	if strings.HasSuffix(word, "sig") {
		return false
	}
	for _, s := range adjectiveSuffixes {
		if strings.HasSuffix(word, s) {
			return true
		}
	}
	return false
}

func splitForms(forms string) []string {
	if strings.TrimSpace(forms) == "" {
		return nil
	}
	raw := strings.Split(forms, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
