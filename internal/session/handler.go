package session

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/auth"
)

// Handler serves the widget websocket and the widget listing. Both
// expect auth.AuthMiddleware in front of them.
type Handler struct {
	hub     *Hub
	layout  anchor.Layout
	origins []string
}

func NewHandler(hub *Hub, layout anchor.Layout, origins []string) *Handler {
	return &Handler{hub: hub, layout: layout, origins: origins}
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionIDFromContext(r.Context())
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.hub.log.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(h.hub, conn, sessionID, clientID, h.layout)

	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// List returns the live widgets of the caller's session.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.hub.registry.List(sessionID))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionIDFromContext(r.Context())
	widgetID := mux.Vars(r)["widgetId"]

	snap, ok := h.hub.registry.Get(widgetID)
	if !ok || snap.SessionID != sessionID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "widget not found"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
