package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const MaxInputLength = 5000

var minInputLength = map[InputType]int{
	InputURL:        10,
	InputTranscript: 50,
	InputNotes:      30,
}

var urlPattern = regexp.MustCompile(`(?i)^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

// ValidationIssue is one rejected input rule, with English and Telugu text.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Telugu  string `json:"te,omitempty"`
}

func (v ValidationIssue) String() string {
	if v.Telugu == "" {
		return v.Message
	}
	return v.Telugu + " / " + v.Message
}

// ValidateInput checks raw story input. Lengths are counted in characters
// after trimming.
func ValidateInput(input string, typ InputType) []ValidationIssue {
	var issues []ValidationIssue
	if !typ.Valid() {
		return append(issues, ValidationIssue{
			Field:   "type",
			Message: fmt.Sprintf("Input type must be one of url, transcript, notes (got %q)", typ),
		})
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return append(issues, ValidationIssue{
			Field:   "input",
			Message: "Please enter content",
			Telugu:  "దయచేసి కంటెంట్ నమోదు చేయండి",
		})
	}

	n := utf8.RuneCountInString(trimmed)
	if least := minInputLength[typ]; n < least {
		issues = append(issues, ValidationIssue{
			Field:   "input",
			Message: fmt.Sprintf("%s must be at least %d characters", titleCase(string(typ)), least),
			Telugu:  fmt.Sprintf("%s కనీసం %d అక్షరాలు ఉండాలి", teluguTypeName(typ), least),
		})
	}
	if n > MaxInputLength {
		issues = append(issues, ValidationIssue{
			Field:   "input",
			Message: fmt.Sprintf("Input cannot exceed %d characters", MaxInputLength),
			Telugu:  fmt.Sprintf("ఇన్‌పుట్ %d అక్షరాలకు మించకూడదు", MaxInputLength),
		})
	}
	if typ == InputURL && !urlPattern.MatchString(trimmed) {
		issues = append(issues, ValidationIssue{
			Field:   "input",
			Message: "Please enter a valid URL (e.g., https://example.com/article)",
			Telugu:  "దయచేసి చెల్లుబాటు అయ్యే URL నమోదు చేయండి",
		})
	}
	return issues
}

// JoinIssues renders issues as one message.
func JoinIssues(issues []ValidationIssue) string {
	parts := make([]string, 0, len(issues))
	for _, i := range issues {
		parts = append(parts, i.String())
	}
	return strings.Join(parts, "; ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func teluguTypeName(t InputType) string {
	switch t {
	case InputURL:
		return "URL"
	case InputTranscript:
		return "ట్రాన్స్క్రిప్ట్"
	default:
		return "నోట్స్"
	}
}
