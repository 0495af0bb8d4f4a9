package advisor

import (
	"strings"

	"github.com/webaxs/webaxs/internal/model"
)

// Tag prefixes recognized by ParseSuggestions. The model is prompted with the
// Spanish tags; the English ones are accepted because models occasionally
// answer with translated labels.
var (
	problemTags     = []string{"Problema:", "Problem:"}
	solutionTags    = []string{"Solución:", "Solution:"}
	codeExampleTags = []string{"Ejemplo de Código:", "Code Example:"}
)

func matchTag(line string, tags []string) (string, bool) {
	for _, tag := range tags {
		if strings.HasPrefix(line, tag) {
			return strings.TrimSpace(strings.TrimPrefix(line, tag)), true
		}
	}
	return "", false
}

// ParseSuggestions converts the advisor's semi-structured reply into a
// SuggestionSet. The text is scanned line by line keeping one in-progress
// entry: a Problem line starts or overwrites it, a Solution line fills the
// solution, and a Code Example line closes the entry and appends it. Lines
// matching none of the tags are ignored. An entry closed with missing fields
// keeps empty strings for them; a trailing entry that never sees its closing
// line is dropped.
//
// The function is pure and deterministic for identical input.
func ParseSuggestions(text string) *model.SuggestionSet {
	set := &model.SuggestionSet{Violations: []model.SuggestionEntry{}}
	var current model.SuggestionEntry

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := matchTag(line, problemTags); ok {
			current.Problem = v
		} else if v, ok := matchTag(line, solutionTags); ok {
			current.Solution = v
		} else if v, ok := matchTag(line, codeExampleTags); ok {
			current.CodeExample = v
			set.Violations = append(set.Violations, current)
			current = model.SuggestionEntry{}
		}
	}

	return set
}
