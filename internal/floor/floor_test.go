package floor

import (
	"testing"

	"murmur/agent/internal/interrupt"
)

func newEngine() *interrupt.Engine {
	cfg := interrupt.DefaultConfig()
	return interrupt.NewEngine(cfg)
}

func TestGenuineSpeechTriggersStop(t *testing.T) {
	f := New(newEngine())
	f.OnTTSStarted("u1", 1000)
	d := f.OnTranscript("wait stop", 0.9)
	if !d.ShouldStop || d.Reason != "barge_in" || d.StopUtteranceID != "u1" {
		t.Fatalf("expected stop on genuine interruption, got %+v", d)
	}
}

func TestFillerDoesNotStealFloor(t *testing.T) {
	f := New(newEngine())
	f.OnTTSStarted("u1", 1000)
	d := f.OnTranscript("uh", 0.9)
	if d.ShouldStop || !d.Suppressed {
		t.Fatalf("filler should be suppressed without stopping, got %+v", d)
	}
}

func TestLowConfidenceDoesNotStealFloor(t *testing.T) {
	f := New(newEngine())
	f.OnTTSStarted("u1", 1000)
	d := f.OnTranscript("wait stop", 0.1)
	if d.ShouldStop || !d.Suppressed {
		t.Fatalf("low confidence transcript should be suppressed, got %+v", d)
	}
}

func TestTranscriptWhileIdleDoesNothing(t *testing.T) {
	f := New(newEngine())
	d := f.OnTranscript("wait stop", 0.9)
	if d.ShouldStop || d.Suppressed {
		t.Fatalf("idle floor should just process, got %+v", d)
	}
}

func TestTTSStoppedClearsSpeaking(t *testing.T) {
	f := New(newEngine())
	f.OnTTSStarted("u1", 1000)
	f.OnTTSStopped("u1", 2000, "completed")
	d := f.OnTranscript("wait stop", 0.9)
	if d.ShouldStop {
		t.Fatalf("should not request stop after tts stopped, got %+v", d)
	}
}
