package generation

import (
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedAny  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")

	smartQuotes = strings.NewReplacer(
		"‘", "'", "’", "'",
		"“", `"`, "”", `"`,
	)
)

// extractJSON pulls the JSON document out of model text: markdown fences
// are stripped, smart quotes normalised, and comments and trailing commas
// removed.
func extractJSON(text string) []byte {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		text = m[1]
	} else if m := fencedAny.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = smartQuotes.Replace(strings.TrimSpace(text))
	return jsonc.ToJSON([]byte(text))
}
