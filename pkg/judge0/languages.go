package judge0

import "strings"

// languageIDs maps human-readable language labels to the engine's internal
// identifiers. The table is a fixed enumeration: unknown labels resolve to
// nothing rather than a guess, and judging cannot proceed without a match.
var languageIDs = map[string]int{
	"c":          50,
	"c++":        54,
	"cpp":        54,
	"c++17":      54,
	"python":     71,
	"python3":    71,
	"java":       91,
	"javascript": 93,
	"js":         93,
	"typescript": 94,
}

// LanguageID resolves a language label to the engine's language identifier.
// Matching is case-insensitive; the second return value is false when the
// label is not part of the supported enumeration.
func LanguageID(label string) (int, bool) {
	id, ok := languageIDs[strings.ToLower(strings.TrimSpace(label))]
	return id, ok
}

// SupportedLanguages returns the distinct labels accepted by LanguageID.
func SupportedLanguages() []string {
	labels := make([]string, 0, len(languageIDs))
	for label := range languageIDs {
		labels = append(labels, label)
	}
	return labels
}
