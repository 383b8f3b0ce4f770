package ports

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryFromRow(t *testing.T) {
	row := []string{"42", "subst.", "hund", "كلب", "كلبة", "tamdjur",
		"hund, hunden, hundar", "Hunden skäller.", "الكلب ينبح", "", "", "djur", "", "en"}

	e, err := EntryFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, "42", e.ID)
	assert.Equal(t, "hund", e.Swedish)
	assert.Equal(t, "كلب", e.Arabic)
	assert.Equal(t, "djur", e.Tags)
	assert.Equal(t, "en", e.Gender)
}

func TestEntryFromRowShort(t *testing.T) {
	// Trailing columns are optional; the first four are not.
	e, err := EntryFromRow([]string{"1", "subst.", "hus", "بيت"})
	require.NoError(t, err)
	assert.Equal(t, "hus", e.Swedish)
	assert.Empty(t, e.Gender)

	_, err = EntryFromRow([]string{"1", "subst.", "hus"})
	assert.Error(t, err)

	_, err = EntryFromRow([]string{"", "subst.", "hus", "بيت"})
	assert.Error(t, err)
}

func TestRowCoercesMixedScalars(t *testing.T) {
	var r Row
	require.NoError(t, json.Unmarshal([]byte(`[7, "verb", "gå", "يمشي", null, true]`), &r))
	assert.Equal(t, Row{"7", "verb", "gå", "يمشي", "", "true"}, r)
}

func TestStub(t *testing.T) {
	assert.True(t, Entry{ID: "9"}.Stub())
	assert.False(t, Entry{ID: "9", Swedish: "hund", Arabic: "كلب"}.Stub())
}
