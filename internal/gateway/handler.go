package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"murmur/agent/internal/auth"
	"murmur/agent/internal/config"
	"murmur/agent/internal/store"

	ws "nhooyr.io/websocket"
)

// Message is the JSON frame exchanged with the speech pipeline.
// Inbound types: transcript_final, transcript_interim, tts_started,
// tts_stopped, cmd_ack, pipeline_hello. Outbound: stop_tts.
type Message struct {
	Type        string         `json:"type"`
	TsMs        int64          `json:"ts_ms"`
	SessionID   string         `json:"session_id"`
	Seq         int64          `json:"seq"`
	CommandID   string         `json:"command_id,omitempty"`
	UtteranceID string         `json:"utterance_id,omitempty"`
	Text        string         `json:"text,omitempty"`
	Confidence  *float64       `json:"confidence,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

type Server struct {
	Cfg   config.Config
	Store *store.Store
	Reg   *Registry

	// OnMessage is invoked for every decoded frame.
	OnMessage func(sessionID string, msg Message)
}

func NewServer(cfg config.Config, st *store.Store, reg *Registry) *Server {
	return &Server{Cfg: cfg, Store: st, Reg: reg}
}

func (s *Server) HandleTranscriptWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessionID := q.Get("session_id")
	if sessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}
	if s.Store.GetSession(sessionID) == nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	// Auth header
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	token := strings.TrimPrefix(authz, "Bearer ")
	if s.Cfg.Gateway.TokenSecret == "" {
		http.Error(w, "gateway auth not configured", http.StatusUnauthorized)
		return
	}
	if _, _, err := auth.ValidateGatewayToken(s.Cfg.Gateway.TokenSecret, token, sessionID, time.Now(), s.Cfg.Gateway.TokenSkewSecs); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	c, err := ws.Accept(w, r, nil)
	if err != nil {
		log.Printf("[gateway] ws accept: %v", err)
		return
	}
	if s.Reg.Replace(sessionID, c) {
		s.Store.AppendEvent(sessionID, "pipeline_replaced", nil)
	}
	s.Store.AppendEvent(sessionID, "pipeline_connected", nil)

	ctx := r.Context()
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			break
		}
		if typ != ws.MessageText && typ != ws.MessageBinary {
			continue
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.Store.AppendEvent(sessionID, "pipeline_msg_invalid", map[string]any{"error": err.Error()})
			continue
		}
		if s.OnMessage != nil {
			s.OnMessage(sessionID, msg)
		}
	}
	_ = c.Close(ws.StatusNormalClosure, "done")
	s.Reg.RemoveConn(sessionID, c)
	s.Store.AppendEvent(sessionID, "pipeline_disconnected", nil)
}
