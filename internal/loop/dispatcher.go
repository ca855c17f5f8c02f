package loop

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"murmur/agent/internal/floor"
	"murmur/agent/internal/gateway"
	"murmur/agent/internal/store"
)

// Dispatcher routes pipeline messages into the floor manager and sends
// stop commands back when a genuine interruption wins the floor.
type Dispatcher struct {
	reg   *gateway.Registry
	store *store.Store

	mu       sync.Mutex
	sessions map[string]*sessState
}

type sessState struct {
	fsm          *floor.Manager
	stopping     bool
	pendingCmdID string
}

func New(reg *gateway.Registry, st *store.Store) *Dispatcher {
	return &Dispatcher{reg: reg, store: st, sessions: make(map[string]*sessState)}
}

func (d *Dispatcher) state(sessionID string) *sessState {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.sessions[sessionID]
	if s == nil {
		s = &sessState{fsm: floor.New(d.store.Engine(sessionID))}
		d.sessions[sessionID] = s
	}
	return s
}

// OnMessage processes a pipeline message and may send commands back.
func (d *Dispatcher) OnMessage(sessionID string, msg gateway.Message) {
	if d.store.Engine(sessionID) == nil {
		return
	}
	s := d.state(sessionID)

	switch msg.Type {
	case "tts_started":
		s.fsm.OnTTSStarted(msg.UtteranceID, msg.TsMs)
		d.store.AppendEvent(sessionID, "tts_started", map[string]any{"utterance_id": msg.UtteranceID})
	case "tts_stopped":
		reason := ""
		if msg.Payload != nil {
			if v, ok := msg.Payload["reason"].(string); ok {
				reason = v
			}
		}
		s.fsm.OnTTSStopped(msg.UtteranceID, msg.TsMs, reason)
		s.stopping = false
		s.pendingCmdID = ""
		d.store.AppendEvent(sessionID, "tts_stopped", map[string]any{"utterance_id": msg.UtteranceID, "reason": reason})
	case "transcript_interim":
		// Interims are recorded but never drive suppression; only
		// finals carry a usable confidence.
		d.store.AppendEvent(sessionID, "transcript_interim", map[string]any{"text": msg.Text})
	case "transcript_final":
		d.handleFinal(sessionID, s, msg)
	case "cmd_ack":
		note := map[string]any{"command_id": msg.CommandID}
		if msg.CommandID == "" || msg.CommandID != s.pendingCmdID {
			note["note"] = "unexpected"
		}
		d.store.AppendEvent(sessionID, "cmd_ack", note)
	case "pipeline_hello":
		// Reset floor state on reconnect.
		s.fsm = floor.New(d.store.Engine(sessionID))
		s.stopping = false
		s.pendingCmdID = ""
		d.store.AppendEvent(sessionID, "pipeline_hello", nil)
	}
}

func (d *Dispatcher) handleFinal(sessionID string, s *sessState, msg gateway.Message) {
	confidence := 1.0
	if msg.Confidence != nil {
		confidence = *msg.Confidence
	}
	dec := s.fsm.OnTranscript(msg.Text, confidence)

	switch {
	case dec.Suppressed:
		d.store.AppendEvent(sessionID, "interrupt_suppressed", map[string]any{
			"text": msg.Text, "confidence": confidence, "utterance_id": msg.UtteranceID,
		})
	case dec.ShouldStop && !s.stopping:
		s.stopping = true
		cmdID := uuid.New().String()
		s.pendingCmdID = cmdID
		out := gateway.Message{
			Type:        "stop_tts",
			TsMs:        time.Now().UnixMilli(),
			SessionID:   sessionID,
			CommandID:   cmdID,
			UtteranceID: dec.StopUtteranceID,
			Payload:     map[string]any{"reason": dec.Reason},
		}
		// Best-effort send; append event regardless
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.reg.SendJSON(ctx, sessionID, out); err != nil {
			log.Printf("[loop] stop_tts send failed sid=%s: %v", sessionID, err)
		}
		cancel()
		d.store.AppendEvent(sessionID, "stop_tts_sent", map[string]any{
			"command_id": cmdID, "utterance_id": dec.StopUtteranceID, "text": msg.Text,
		})
	default:
		d.store.AppendEvent(sessionID, "transcript_processed", map[string]any{
			"text": msg.Text, "confidence": confidence,
		})
	}
}
