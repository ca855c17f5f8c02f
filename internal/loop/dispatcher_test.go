package loop

import (
	"testing"

	"murmur/agent/internal/gateway"
	"murmur/agent/internal/interrupt"
	"murmur/agent/internal/store"
	"murmur/agent/internal/types"
)

func newFixture(t *testing.T) (*Dispatcher, *store.Store) {
	t.Helper()
	st := store.New(0)
	sess := &types.Session{ID: "s1", Status: "created"}
	if err := st.CreateSession(sess, interrupt.NewEngine(interrupt.DefaultConfig())); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return New(gateway.NewRegistry(), st), st
}

func confPtr(v float64) *float64 { return &v }

func lastEvent(t *testing.T, st *store.Store, sid string) types.Event {
	t.Helper()
	evts := st.ListEvents(sid)
	if len(evts) == 0 {
		t.Fatal("expected at least one event")
	}
	return evts[len(evts)-1]
}

func TestFillerDuringSpeechSuppressed(t *testing.T) {
	d, st := newFixture(t)
	d.OnMessage("s1", gateway.Message{Type: "tts_started", UtteranceID: "u1", TsMs: 1000})
	d.OnMessage("s1", gateway.Message{Type: "transcript_final", Text: "umm", Confidence: confPtr(0.9)})
	if evt := lastEvent(t, st, "s1"); evt.Type != "interrupt_suppressed" {
		t.Fatalf("expected interrupt_suppressed, got %q", evt.Type)
	}
}

func TestGenuineSpeechSendsStop(t *testing.T) {
	d, st := newFixture(t)
	d.OnMessage("s1", gateway.Message{Type: "tts_started", UtteranceID: "u1", TsMs: 1000})
	d.OnMessage("s1", gateway.Message{Type: "transcript_final", Text: "wait stop", Confidence: confPtr(0.9)})
	evt := lastEvent(t, st, "s1")
	if evt.Type != "stop_tts_sent" {
		t.Fatalf("expected stop_tts_sent, got %q", evt.Type)
	}
	if evt.Payload["utterance_id"] != "u1" {
		t.Fatalf("stop should target active utterance, got %v", evt.Payload)
	}
}

func TestDuplicateStopNotSentWhileStopping(t *testing.T) {
	d, st := newFixture(t)
	d.OnMessage("s1", gateway.Message{Type: "tts_started", UtteranceID: "u1", TsMs: 1000})
	d.OnMessage("s1", gateway.Message{Type: "transcript_final", Text: "wait stop", Confidence: confPtr(0.9)})
	d.OnMessage("s1", gateway.Message{Type: "transcript_final", Text: "please stop now", Confidence: confPtr(0.9)})
	var stops int
	for _, evt := range st.ListEvents("s1") {
		if evt.Type == "stop_tts_sent" {
			stops++
		}
	}
	if stops != 1 {
		t.Fatalf("expected a single stop while one is pending, got %d", stops)
	}
}

func TestMissingConfidenceDefaultsToOne(t *testing.T) {
	d, st := newFixture(t)
	// No tts_started: floor is idle, genuine speech is just processed.
	d.OnMessage("s1", gateway.Message{Type: "transcript_final", Text: "hello there"})
	evt := lastEvent(t, st, "s1")
	if evt.Type != "transcript_processed" {
		t.Fatalf("expected transcript_processed, got %q", evt.Type)
	}
	if evt.Payload["confidence"] != 1.0 {
		t.Fatalf("absent confidence should default to 1.0, got %v", evt.Payload["confidence"])
	}
}

func TestTTSStoppedClearsPending(t *testing.T) {
	d, st := newFixture(t)
	d.OnMessage("s1", gateway.Message{Type: "tts_started", UtteranceID: "u1", TsMs: 1000})
	d.OnMessage("s1", gateway.Message{Type: "transcript_final", Text: "wait stop", Confidence: confPtr(0.9)})
	d.OnMessage("s1", gateway.Message{Type: "tts_stopped", UtteranceID: "u1", TsMs: 2000,
		Payload: map[string]any{"reason": "interrupted"}})
	// Floor is free again; the next transcript is processed, not a stop.
	d.OnMessage("s1", gateway.Message{Type: "transcript_final", Text: "thanks a lot", Confidence: confPtr(0.9)})
	if evt := lastEvent(t, st, "s1"); evt.Type != "transcript_processed" {
		t.Fatalf("expected transcript_processed after floor cleared, got %q", evt.Type)
	}
}

func TestUnknownSessionIgnored(t *testing.T) {
	d, st := newFixture(t)
	d.OnMessage("ghost", gateway.Message{Type: "transcript_final", Text: "wait stop"})
	if evts := st.ListEvents("ghost"); len(evts) != 0 {
		t.Fatalf("unknown session should produce no events, got %d", len(evts))
	}
}

func TestEngineMetricsReflectDispatch(t *testing.T) {
	d, st := newFixture(t)
	d.OnMessage("s1", gateway.Message{Type: "transcript_final", Text: "umm", Confidence: confPtr(0.9)})
	d.OnMessage("s1", gateway.Message{Type: "transcript_final", Text: "hello there", Confidence: confPtr(0.9)})
	m := st.Engine("s1").Metrics()
	if m.SuppressedInterrupts != 1 || m.AllowedInterrupts != 1 || m.TotalProcessed != 2 {
		t.Fatalf("unexpected engine metrics after dispatch: %+v", m)
	}
}
