package risk

import "strings"

// Verdict is the result of scanning one outgoing message.
type Verdict struct {
	HighRisk bool
}

// keywordSets holds self-harm-adjacent terms per language. The match is a
// plain substring check over lowercase-normalized text, a heuristic rather
// than language understanding, so false positives and negatives are expected.
var keywordSets = map[string][]string{
	"ru": {
		"убить", "суицид", "смерть", "порезать", "навредить себе",
		"самоубийство", "конец всему", "вскрыть вены", "умереть",
	},
	"en": {
		"kill myself", "suicide", "want to die", "end it all",
		"self harm", "self-harm", "hurt myself", "cut myself", "no reason to live",
	},
}

// Classify scans text against the keyword set for lang. An unknown or empty
// lang scans every configured set. Empty or whitespace-only text is never
// high risk; callers reject empty sends before classification anyway.
func Classify(text, lang string) Verdict {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Verdict{}
	}

	if keywords, ok := keywordSets[strings.ToLower(strings.TrimSpace(lang))]; ok {
		return Verdict{HighRisk: containsAny(normalized, keywords)}
	}

	for _, keywords := range keywordSets {
		if containsAny(normalized, keywords) {
			return Verdict{HighRisk: true}
		}
	}
	return Verdict{}
}

func containsAny(normalized string, keywords []string) bool {
	for _, word := range keywords {
		if word == "" {
			continue
		}
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}
