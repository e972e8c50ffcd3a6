package geo

import "strings"

// congoVariants are the known spellings of the Democratic Republic of
// the Congo across datasets. Any two names from this list are the same
// country.
var congoVariants = map[string]bool{
	"democratic republic of the congo":      true,
	"dem. rep. congo":                       true,
	"dr congo":                              true,
	"drc":                                   true,
	"congo-kinshasa":                        true,
	"congo, the democratic republic of the": true,
}

var trivialTokens = map[string]bool{
	"the":      true,
	"of":       true,
	"and":      true,
	"republic": true,
}

// tokenOverlapThreshold is the share of non-trivial tokens that must
// correspond for the heuristic stage to accept a match.
const tokenOverlapThreshold = 0.7

// LabelsEquivalent reports whether two country labels refer to the same
// country. The matchers run in order, each returning a definitive
// answer: exact → normalized → case-insensitive → Congo variant list →
// token overlap. The final stage is a permissive heuristic: false
// positives are possible and tolerated for display purposes.
func LabelsEquivalent(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}

	if a == b {
		return true
	}
	if NormalizeLabel(a) == NormalizeLabel(b) {
		return true
	}
	if strings.EqualFold(a, b) {
		return true
	}
	if congoVariants[strings.ToLower(a)] && congoVariants[strings.ToLower(b)] {
		return true
	}
	return tokenOverlap(a, b) >= tokenOverlapThreshold
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	tokens := fields[:0]
	for _, f := range fields {
		if !trivialTokens[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func tokenOverlap(a, b string) float64 {
	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(tb))
	for _, t := range tb {
		set[t] = true
	}
	matched := 0
	for _, t := range ta {
		if set[t] {
			matched++
		}
	}

	longer := len(ta)
	if len(tb) > longer {
		longer = len(tb)
	}
	return float64(matched) / float64(longer)
}
