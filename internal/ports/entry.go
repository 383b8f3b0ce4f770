package ports

import (
	"encoding/json"
	"fmt"
	"time"
)

// Column positions in the raw corpus row format. The loader and the external
// word editor both emit rows in this fixed order; it is the wire contract and
// must never be reshuffled.
const (
	colID = iota
	colType
	colSwedish
	colArabic
	colArabicExt
	colDefinition
	colForms
	colExampleSwe
	colExampleArb
	colIdiomSwe
	colIdiomArb
	colTags
	colReserved
	colGender

	// rowWidth is the number of columns a fully populated row carries.
	// Shorter rows are legal; missing trailing columns read as empty.
	rowWidth = 14
)

// Entry is one dictionary record. Entries are immutable for the lifetime of a
// corpus load: the engine only ever reads them, and user-authored entries are
// appended through the external editor, never mutated in place.
type Entry struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Swedish    string `json:"swe"`
	Arabic     string `json:"arb"`
	ArabicExt  string `json:"arbExt,omitempty"`
	Definition string `json:"sweDef,omitempty"`
	Forms      string `json:"forms,omitempty"`
	ExampleSwe string `json:"sweEx,omitempty"`
	ExampleArb string `json:"arbEx,omitempty"`
	IdiomSwe   string `json:"idiomSwe,omitempty"`
	IdiomArb   string `json:"idiomArb,omitempty"`
	Tags       string `json:"tags,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

// Stub reports whether the entry is an orphan placeholder: a record synthesized
// from a mark whose entry no longer exists in the store.
func (e Entry) Stub() bool {
	return e.Swedish == "" && e.Arabic == ""
}

// EntryFromRow converts one positional corpus row into an Entry. This is the
// single conversion boundary for the array wire format; everything past it
// works with named fields.
func EntryFromRow(row []string) (Entry, error) {
	if len(row) < 4 {
		return Entry{}, fmt.Errorf("corpus row too short: %d columns", len(row))
	}
	at := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	if at(colID) == "" {
		return Entry{}, fmt.Errorf("corpus row missing id")
	}
	return Entry{
		ID:         at(colID),
		Type:       at(colType),
		Swedish:    at(colSwedish),
		Arabic:     at(colArabic),
		ArabicExt:  at(colArabicExt),
		Definition: at(colDefinition),
		Forms:      at(colForms),
		ExampleSwe: at(colExampleSwe),
		ExampleArb: at(colExampleArb),
		IdiomSwe:   at(colIdiomSwe),
		IdiomArb:   at(colIdiomArb),
		Tags:       at(colTags),
		Gender:     at(colGender),
	}, nil
}

// Row renders the entry back into the positional wire format.
func (e Entry) Row() []string {
	row := make([]string, rowWidth)
	row[colID] = e.ID
	row[colType] = e.Type
	row[colSwedish] = e.Swedish
	row[colArabic] = e.Arabic
	row[colArabicExt] = e.ArabicExt
	row[colDefinition] = e.Definition
	row[colForms] = e.Forms
	row[colExampleSwe] = e.ExampleSwe
	row[colExampleArb] = e.ExampleArb
	row[colIdiomSwe] = e.IdiomSwe
	row[colIdiomArb] = e.IdiomArb
	row[colTags] = e.Tags
	row[colGender] = e.Gender
	return row
}

// Row is the raw positional form of an entry as it appears in data.json.
// Columns are heterogeneous in the source (the id is sometimes a bare number),
// so decoding coerces every cell to a string.
type Row []string

// UnmarshalJSON accepts a JSON array of mixed scalars and coerces each cell
// to its string form. Null cells become empty strings.
func (r *Row) UnmarshalJSON(data []byte) error {
	var cells []any
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = v
		case float64:
			// Integer ids arrive as float64 through encoding/json.
			if v == float64(int64(v)) {
				out[i] = fmt.Sprintf("%d", int64(v))
			} else {
				out[i] = fmt.Sprintf("%g", v)
			}
		case bool:
			out[i] = fmt.Sprintf("%t", v)
		default:
			out[i] = fmt.Sprintf("%v", v)
		}
	}
	*r = out
	return nil
}

// TrainingMark queues an entry for deliberate practice. Presence is the flag;
// AddedAt orders the practice queue and is captured once, on first insert.
type TrainingMark struct {
	ID      string    `json:"id"`
	AddedAt time.Time `json:"addedAt"`
}

// NoteMark is a free-text personal annotation attached to an entry.
type NoteMark struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updatedAt"`
}
