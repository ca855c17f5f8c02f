package interrupt

import (
	"log"
	"os"
	"strings"
	"sync"

	"murmur/agent/internal/classifier"
)

// BlockedPhrasesEnv names the comma-separated fallback list consulted
// once at construction when no override is configured.
const BlockedPhrasesEnv = "BLOCKED_INTERRUPTION_PHRASES"

// DefaultMinConfidence is the ASR confidence floor below which every
// utterance is suppressed.
const DefaultMinConfidence = 0.5

// defaultBlockedPhrases are common single-token fillers suppressed out
// of the box.
var defaultBlockedPhrases = []string{
	"uh", "uhh", "um", "umm", "hmm", "hm",
	"haan", "yeah", "mhm", "mm", "mmm",
	"err", "ah", "oh", "erm", "uh-huh",
}

// Config is fixed at construction. Only the phrase set and counters
// mutate afterwards.
type Config struct {
	// BlockedPhrases overrides the default filler set. Nil falls back
	// to BLOCKED_INTERRUPTION_PHRASES, then to the built-in set.
	BlockedPhrases []string
	MinConfidence  float64
	// UseClassifier attaches the linguistic scorer as a second signal.
	UseClassifier       bool
	ClassifierThreshold float64
	Debug               bool
}

func DefaultConfig() Config {
	return Config{
		MinConfidence:       DefaultMinConfidence,
		ClassifierThreshold: classifier.DefaultThreshold,
	}
}

// Snapshot is a copy of the engine counters at one point in time.
type Snapshot struct {
	SuppressedInterrupts int `json:"suppressed_interrupts"`
	AllowedInterrupts    int `json:"allowed_interrupts"`
	LowConfidenceBlocks  int `json:"low_confidence_blocks"`
	TotalProcessed       int `json:"total_processed"`
	MLPredictions        int `json:"ml_predictions"`
}

// Engine decides whether a transcribed utterance is a conversational
// filler to suppress or genuine speech to act on. It combines a
// confidence gate, a lexical blocklist gate, and an optional
// classifier gate, and keeps running counters.
type Engine struct {
	mu      sync.Mutex
	blocked map[string]bool
	cfg     Config
	clf     *classifier.Classifier
	metrics Snapshot
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		blocked: normalizePhrases(phrasesOrFallback(cfg.BlockedPhrases, cfg.Debug)),
		cfg:     cfg,
	}
	if cfg.UseClassifier {
		e.clf = classifier.New(cfg.ClassifierThreshold, cfg.Debug)
	}
	if cfg.Debug {
		log.Printf("[interrupt] engine initialized: blocked_phrases=%d classifier=%v min_confidence=%.2f",
			len(e.blocked), e.clf != nil, cfg.MinConfidence)
	}
	return e
}

func phrasesOrFallback(override []string, debug bool) []string {
	if override != nil {
		return override
	}
	if env := os.Getenv(BlockedPhrasesEnv); env != "" {
		phrases := strings.Split(env, ",")
		if debug {
			log.Printf("[interrupt] loaded %d blocked phrases from %s", len(phrases), BlockedPhrasesEnv)
		}
		return phrases
	}
	return defaultBlockedPhrases
}

// normalizePhrases lowercases and trims, dropping empties and entries
// with internal whitespace (the blocklist holds single tokens only).
func normalizePhrases(phrases []string) map[string]bool {
	out := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		tok := strings.ToLower(strings.TrimSpace(p))
		if tok == "" || strings.ContainsAny(tok, " \t\n") {
			continue
		}
		out[tok] = true
	}
	return out
}

// Evaluate returns true if the utterance should be suppressed rather
// than forwarded as an interruption. Confidence is compared as given;
// out-of-range values are the producer's business.
//
// Empty or whitespace-only text is not a signal: it returns false
// without touching any counter.
func (e *Engine) Evaluate(text string, confidence float64) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.metrics.TotalProcessed++
	metricProcessed.Inc()

	if confidence < e.cfg.MinConfidence {
		e.metrics.LowConfidenceBlocks++
		e.metrics.SuppressedInterrupts++
		metricLowConfidenceBlocks.Inc()
		metricSuppressed.Inc()
		if e.cfg.Debug {
			log.Printf("[interrupt] low confidence blocked: %q (score=%.2f min=%.2f)", text, confidence, e.cfg.MinConfidence)
		}
		return true
	}

	tokens := tokenize(text)
	ruleBlocked := len(tokens) > 0
	for _, tok := range tokens {
		if !e.blocked[tok] {
			ruleBlocked = false
			break
		}
	}

	classifierBlocked := false
	if e.clf != nil {
		classifierBlocked = e.clf.Predict(text)
		e.metrics.MLPredictions++
		metricClassifierPredictions.Inc()
		if e.cfg.Debug && classifierBlocked != ruleBlocked {
			log.Printf("[interrupt] classifier disagrees with rules: rule=%v classifier=%v text=%q", ruleBlocked, classifierBlocked, text)
		}
	}

	suppressed := ruleBlocked || classifierBlocked
	if suppressed {
		e.metrics.SuppressedInterrupts++
		metricSuppressed.Inc()
		if e.cfg.Debug {
			method := "rule"
			if classifierBlocked && !ruleBlocked {
				method = "classifier"
			}
			log.Printf("[interrupt] suppressed (%s): %q", method, text)
		}
	} else {
		e.metrics.AllowedInterrupts++
		metricAllowed.Inc()
		if e.cfg.Debug {
			log.Printf("[interrupt] genuine speech: %q", text)
		}
	}
	return suppressed
}

// HasGenuineContent reports whether the utterance carries at least one
// token outside the blocked set, provided confidence clears the floor.
//
// This is a read-only convenience predicate and does not update
// metrics. It intentionally ignores the classifier and the
// all-tokens-blocked rule, so it can disagree with Evaluate on inputs
// like a single-token filler the classifier scores high: Evaluate
// suppresses it while this predicate still reports genuine content.
func (e *Engine) HasGenuineContent(text string, confidence float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if confidence < e.cfg.MinConfidence {
		return false
	}
	for _, tok := range tokenize(text) {
		if !e.blocked[tok] {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(text)))
}

// Metrics returns a copy of the current counters.
func (e *Engine) Metrics() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics
}

// ResetMetrics zeroes every counter.
func (e *Engine) ResetMetrics() {
	e.mu.Lock()
	e.metrics = Snapshot{}
	e.mu.Unlock()
	if e.cfg.Debug {
		log.Printf("[interrupt] metrics reset")
	}
}

// UpdateBlockedPhrases replaces the whole blocklist.
func (e *Engine) UpdateBlockedPhrases(phrases []string) {
	e.mu.Lock()
	old := len(e.blocked)
	e.blocked = normalizePhrases(phrases)
	now := len(e.blocked)
	e.mu.Unlock()
	log.Printf("[interrupt] blocked phrases replaced: %d -> %d", old, now)
}

// AddBlockedPhrases merges new phrases into the blocklist.
func (e *Engine) AddBlockedPhrases(phrases []string) {
	e.mu.Lock()
	for tok := range normalizePhrases(phrases) {
		e.blocked[tok] = true
	}
	e.mu.Unlock()
}

// RemoveBlockedPhrases deletes phrases from the blocklist.
func (e *Engine) RemoveBlockedPhrases(phrases []string) {
	e.mu.Lock()
	for tok := range normalizePhrases(phrases) {
		delete(e.blocked, tok)
	}
	e.mu.Unlock()
}

// BlockedPhrases returns a copy of the current blocklist.
func (e *Engine) BlockedPhrases() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.blocked))
	for tok := range e.blocked {
		out = append(out, tok)
	}
	return out
}
