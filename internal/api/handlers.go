package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"murmur/agent/internal/auth"
	"murmur/agent/internal/config"
	"murmur/agent/internal/interrupt"
	"murmur/agent/internal/store"
	"murmur/agent/internal/types"
)

type Handlers struct {
	cfg   config.Config
	store *store.Store
}

func NewHandlers(cfg config.Config, st *store.Store) *Handlers {
	return &Handlers{cfg: cfg, store: st}
}

func (h *Handlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	sess := &types.Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Status:    "created",
	}
	eng := interrupt.NewEngine(h.cfg.EngineConfig())
	if err := h.store.CreateSession(sess, eng); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.store.AppendEvent(id, "session_created", nil)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": id,
		"created_at": sess.CreatedAt,
	})
}

func (h *Handlers) HandleGetMetrics(w http.ResponseWriter, r *http.Request, id string) {
	eng := h.store.Engine(id)
	if eng == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(eng.Metrics())
}

func (h *Handlers) HandleResetMetrics(w http.ResponseWriter, r *http.Request, id string) {
	eng := h.store.Engine(id)
	if eng == nil {
		http.NotFound(w, r)
		return
	}
	eng.ResetMetrics()
	h.store.AppendEvent(id, "metrics_reset", nil)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

// HandlePhrases serves the blocklist mutation API:
// GET lists, PUT replaces, POST adds, DELETE removes.
func (h *Handlers) HandlePhrases(w http.ResponseWriter, r *http.Request, id string) {
	eng := h.store.Engine(id)
	if eng == nil {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"phrases": eng.BlockedPhrases()})
		return
	}

	var body struct {
		Phrases []string `json:"phrases"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		eng.UpdateBlockedPhrases(body.Phrases)
		h.store.AppendEvent(id, "phrases_replaced", map[string]any{"count": len(body.Phrases)})
	case http.MethodPost:
		eng.AddBlockedPhrases(body.Phrases)
		h.store.AppendEvent(id, "phrases_added", map[string]any{"count": len(body.Phrases)})
	case http.MethodDelete:
		eng.RemoveBlockedPhrases(body.Phrases)
		h.store.AppendEvent(id, "phrases_removed", map[string]any{"count": len(body.Phrases)})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "phrases": eng.BlockedPhrases()})
}

func (h *Handlers) HandleListEvents(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"events": h.store.ListEvents(id)})
}

func (h *Handlers) HandleMintWSCreds(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	if h.cfg.Gateway.TokenSecret == "" {
		http.Error(w, "gateway auth not configured", http.StatusBadRequest)
		return
	}
	exp := time.Now().Add(time.Duration(h.cfg.Gateway.TokenExpMin) * time.Minute).Unix()
	token := auth.GenerateGatewayToken(h.cfg.Gateway.TokenSecret, id, exp)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token": token,
		"exp":   exp,
		"url":   "/ws/transcripts?session_id=" + id,
	})
}
