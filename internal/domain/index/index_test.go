package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadir/snabblex/internal/domain/classify"
	"github.com/nadir/snabblex/internal/ports"
)

func TestBuildAlignsArrays(t *testing.T) {
	entries := []ports.Entry{
		{ID: "1", Swedish: "Hund", Arabic: "كَلْب"},
		{ID: "2", Swedish: "Katt ", Arabic: "قِطَّة"},
		{ID: "3", Swedish: "springa", Arabic: "يركض"},
	}

	a := Build(entries)
	require.NoError(t, a.Validate())
	require.Equal(t, 3, a.Len())

	// Position i in every array refers to the same entry.
	assert.Equal(t, "hund", a.Primary[0])
	assert.Equal(t, "كلب", a.Secondary[0])
	assert.Equal(t, "katt", a.Primary[1])
	assert.Equal(t, "قطة", a.Secondary[1])

	// Classification is memoized per id.
	assert.Equal(t, classify.Verb, a.TypeOf(entries[2]).Category)
	assert.Len(t, a.Types, 3)
}

func TestBuildEmpty(t *testing.T) {
	a := Build(nil)
	require.NoError(t, a.Validate())
	assert.Zero(t, a.Len())
}

func TestTypeOfKeyedByID(t *testing.T) {
	entries := []ports.Entry{
		{ID: "7", Swedish: "utbildning", Arabic: "تعليم"},
	}
	a := Build(entries)

	// Lookup goes through the id, so a reordered copy of the entry still
	// resolves to the same cached classification.
	copyEntry := ports.Entry{ID: "7", Swedish: "utbildning"}
	assert.Equal(t, classify.NounEn, a.TypeOf(copyEntry).Category)
}

func TestValidateDetectsMisalignment(t *testing.T) {
	a := Build([]ports.Entry{{ID: "1", Swedish: "hund", Arabic: "كلب"}})
	a.Primary = append(a.Primary, "extra")
	assert.Error(t, a.Validate())
}
