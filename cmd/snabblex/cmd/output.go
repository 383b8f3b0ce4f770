package cmd

import (
	"fmt"
	"strings"

	"github.com/nadir/snabblex/internal/ports"
)

// formatEntryLine renders one entry as a compact result row.
func formatEntryLine(e ports.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-12s %-24s %s", e.ID, e.Type, e.Swedish, e.Arabic)
	if e.ArabicExt != "" {
		fmt.Fprintf(&b, " (%s)", e.ArabicExt)
	}
	return b.String()
}

// formatEntryFull renders one entry with all populated fields.
func formatEntryFull(e ports.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  —  %s\n", e.Swedish, e.Arabic)
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %-12s %s\n", label+":", value)
		}
	}
	field("id", e.ID)
	field("typ", e.Type)
	field("genus", e.Gender)
	field("former", e.Forms)
	field("definition", e.Definition)
	field("utökat", e.ArabicExt)
	field("exempel", e.ExampleSwe)
	field("مثال", e.ExampleArb)
	field("idiom", e.IdiomSwe)
	field("تعبير", e.IdiomArb)
	field("ämnen", e.Tags)
	return b.String()
}
