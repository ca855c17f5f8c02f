package floor

import "murmur/agent/internal/interrupt"

// Decision represents the action the floor manager wants to take for
// one transcript.
type Decision struct {
	ShouldStop      bool
	Suppressed      bool
	StopUtteranceID string
	Reason          string // e.g., "barge_in"
}

// Manager tracks whether the agent holds the floor (is speaking) and
// arbitrates incoming transcripts through the filter engine. While the
// agent is quiet a transcript is just processed; while it speaks, only
// genuine speech wins the floor.
type Manager struct {
	engine            *interrupt.Engine
	speaking          bool
	activeUtteranceID string
	lastTTSStartTsMs  int64
}

func New(engine *interrupt.Engine) *Manager {
	return &Manager{engine: engine}
}

func (m *Manager) Speaking() bool { return m.speaking }

func (m *Manager) OnTTSStarted(utteranceID string, tsMs int64) Decision {
	m.speaking = true
	m.activeUtteranceID = utteranceID
	m.lastTTSStartTsMs = tsMs
	return Decision{}
}

func (m *Manager) OnTTSStopped(utteranceID string, tsMs int64, reason string) Decision {
	// Regardless of ID match, stopping clears speaking.
	m.speaking = false
	m.activeUtteranceID = ""
	return Decision{}
}

// OnTranscript runs the filter over a finalized transcript. A
// suppressed utterance never interrupts playback; an allowed one stops
// the active utterance when the agent is speaking.
func (m *Manager) OnTranscript(text string, confidence float64) Decision {
	if m.engine.Evaluate(text, confidence) {
		return Decision{Suppressed: true}
	}
	if m.speaking {
		return Decision{ShouldStop: true, StopUtteranceID: m.activeUtteranceID, Reason: "barge_in"}
	}
	return Decision{}
}
