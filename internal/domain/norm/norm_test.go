package norm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimary(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hund", "hund"},
		{"  Springa  ", "springa"},
		{"SKÄRGÅRD", "skärgård"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Primary(tt.in), "Primary(%q)", tt.in)
	}
}

func TestSecondaryStripsDiacritics(t *testing.T) {
	// قِطَّة carries kasra, shadda and fatha; the bare form is قطة.
	assert.Equal(t, "قطة", Secondary("قِطَّة"))
	// Fully vocalized يَكْتُبُ folds to يكتب.
	assert.Equal(t, "يكتب", Secondary("يَكْتُبُ"))
	// Superscript alef (U+0670).
	assert.Equal(t, "هذا", Secondary("هٰذا"))
}

func TestSecondaryStripsBidiControls(t *testing.T) {
	// RLM and LRM sneak in from mixed-script editors.
	assert.Equal(t, "كلب", Secondary("‏كلب‎"))
	assert.Equal(t, "بيت", Secondary("‫بيت‬"))
}

func TestSecondaryLeavesBareTextAlone(t *testing.T) {
	assert.Equal(t, "كلب", Secondary("كلب"))
	assert.Equal(t, "abc", Secondary("ABC"))
}

func TestIdempotence(t *testing.T) {
	inputs := []string{"Hund", "قِطَّة", "‏يَكْتُبُ‎", "  Blandad كلب  "}
	for _, in := range inputs {
		p := Primary(in)
		assert.Equal(t, p, Primary(p), "Primary not idempotent on %q", in)
		s := Secondary(in)
		assert.Equal(t, s, Secondary(s), "Secondary not idempotent on %q", in)
	}
}

func TestQuery(t *testing.T) {
	p, s := Query("  قِطَّة  ")
	assert.Equal(t, "قِطَّة", p)
	assert.Equal(t, "قطة", s)

	p, s = Query("Hund")
	assert.Equal(t, "hund", p)
	assert.Equal(t, "hund", s)
}
