package classifier

import (
	"log"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultThreshold is the probability above which an utterance is
// treated as filler.
const DefaultThreshold = 0.64

// Feature weights. Additive, clamped to 1.0. Hand-tuned, not trained.
const (
	weightTerse          = 0.25
	weightRepetition     = 0.20
	weightShort          = 0.15
	weightPattern        = 0.30
	weightVowelStretch   = 0.10
	weightDiscourseCombo = 0.35
)

// Stretched interjections, discourse markers, sentence starters,
// informal contractions.
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(uh+|um+|hmm+|mm+|er+|ah+)\b`),
	regexp.MustCompile(`\b(like|you know|basically|actually|literally)\b`),
	regexp.MustCompile(`^(well|so|yeah|okay|right)\b`),
	regexp.MustCompile(`\b(kinda|sorta|gonna|wanna)\b`),
}

var vowelStretchRe = regexp.MustCompile(`[aeiou]{3,}`)

// Standalone multi-word fillers. The whole utterance must match; a
// longer sentence containing one of these is not a combo.
var discourseCombos = []string{
	"like you know",
	"basically yeah",
	"basically right",
	"you know",
	"i mean",
	"gonna tell you",
}

var discourseComboPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^like\s+you\s+know$`),
	regexp.MustCompile(`^basically\s+(yeah|right)$`),
	regexp.MustCompile(`^you\s+know$`),
	regexp.MustCompile(`^i\s+mean$`),
}

// Classifier scores utterances for filler likelihood from cheap
// lexical features. Stateless after construction.
type Classifier struct {
	threshold float64
	debug     bool
}

func New(threshold float64, debug bool) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{threshold: threshold, debug: debug}
}

// Predict reports whether the utterance scores at or above the
// configured filler threshold.
func (c *Classifier) Predict(text string) bool {
	p := c.Probability(text)
	isFiller := p >= c.threshold
	if c.debug {
		verdict := "genuine"
		if isFiller {
			verdict = "filler"
		}
		log.Printf("[classifier] %q -> %s (prob=%.2f threshold=%.2f)", text, verdict, p, c.threshold)
	}
	return isFiller
}

// Probability returns the filler probability in [0,1]. Empty or
// whitespace-only text is exactly 0.
func (c *Classifier) Probability(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}
	lower := strings.ToLower(text)

	score := 0.0
	if len(strings.Fields(text)) <= 2 {
		score += weightTerse
	}
	if hasRepetition(lower) {
		score += weightRepetition
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < 10 {
		score += weightShort
	}
	if matchesFillerPattern(lower) {
		score += weightPattern
	}
	if vowelStretchRe.MatchString(lower) {
		score += weightVowelStretch
	}
	if hasDiscourseCombo(lower) {
		score += weightDiscourseCombo
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// hasRepetition reports a run of 3+ identical characters (uhhh, mmmm).
// RE2 has no backreferences, so this is a plain scan.
func hasRepetition(text string) bool {
	run := 1
	var prev rune
	for i, r := range text {
		if i > 0 && r == prev {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}

func matchesFillerPattern(lower string) bool {
	for _, re := range fillerPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func hasDiscourseCombo(lower string) bool {
	trimmed := strings.TrimSpace(lower)
	for _, combo := range discourseCombos {
		if trimmed == combo {
			return true
		}
	}
	for _, re := range discourseComboPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}
