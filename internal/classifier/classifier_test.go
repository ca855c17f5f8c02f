package classifier

import "testing"

func TestProbabilityEmpty(t *testing.T) {
	c := New(0, false)
	if p := c.Probability(""); p != 0.0 {
		t.Fatalf("empty text should score 0.0, got %f", p)
	}
	if p := c.Probability("   \t "); p != 0.0 {
		t.Fatalf("whitespace text should score 0.0, got %f", p)
	}
}

func TestProbabilityBounds(t *testing.T) {
	c := New(0, false)
	inputs := []string{
		"uh", "uhhhhhh", "like you know", "wait stop",
		"can you explain the quarterly report in detail please",
		"basically yeah", "sooooo", "mmm", "ok",
	}
	for _, in := range inputs {
		p := c.Probability(in)
		if p < 0.0 || p > 1.0 {
			t.Errorf("probability out of range for %q: %f", in, p)
		}
	}
}

func TestStretchedFillerScoresHigh(t *testing.T) {
	c := New(DefaultThreshold, false)
	// terse, repetition, short and pattern all fire
	p := c.Probability("uhhhhhh")
	if p < DefaultThreshold {
		t.Fatalf("stretched filler should cross threshold, got %f", p)
	}
	if !c.Predict("uhhhhhh") {
		t.Fatal("Predict should report filler for stretched interjection")
	}
}

func TestDiscourseCombo(t *testing.T) {
	c := New(DefaultThreshold, false)
	// pattern and combo together cross the threshold
	if !c.Predict("like you know") {
		t.Fatal("standalone discourse combo should be filler")
	}
	// Same phrase inside a real sentence is not a standalone combo.
	p := c.Probability("like you know the deployment failed last night")
	if p >= DefaultThreshold {
		t.Fatalf("combo buried in a sentence should not cross threshold, got %f", p)
	}
}

func TestGenuineSpeechScoresLow(t *testing.T) {
	c := New(DefaultThreshold, false)
	for _, in := range []string{
		"wait stop",
		"can you help me with this",
		"please hold on a moment",
	} {
		if c.Predict(in) {
			t.Errorf("genuine speech %q predicted as filler (prob=%f)", in, c.Probability(in))
		}
	}
}

func TestShortTextCountsRunes(t *testing.T) {
	c := New(0, false)
	// 7 characters but 13 bytes: terse, repetition and the short-text
	// feature all fire.
	p := c.Probability("ééé ööö")
	if p < 0.59 {
		t.Fatalf("multibyte short utterance should score terse+repetition+short, got %f", p)
	}
}

func TestRepetitionDetection(t *testing.T) {
	if !hasRepetition("uhhh") {
		t.Error("uhhh has a 3-run")
	}
	if hasRepetition("uhh") {
		t.Error("uhh only repeats twice")
	}
	if hasRepetition("banana") {
		t.Error("banana has no consecutive run")
	}
}

func TestMonotonicInFeatures(t *testing.T) {
	c := New(0, false)
	// "hello everyone at the meeting today" fires nothing;
	// "hmm" fires terse+short+pattern; "uhhhhhh" adds repetition+stretch.
	none := c.Probability("hello everyone at the meeting today")
	some := c.Probability("hmm")
	more := c.Probability("uhhhhhh")
	if !(none < some && some < more) {
		t.Fatalf("expected increasing scores, got %f %f %f", none, some, more)
	}
}

func TestDefaultThresholdApplied(t *testing.T) {
	c := New(0, false)
	if c.threshold != DefaultThreshold {
		t.Fatalf("zero threshold should fall back to default, got %f", c.threshold)
	}
}
