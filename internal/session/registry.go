package session

import (
	"sort"
	"sync"
	"time"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/clip"
)

// WidgetSnapshot is the last known state of a live widget.
type WidgetSnapshot struct {
	ID        string           `json:"id"`
	SessionID string           `json:"sessionId"`
	ClientID  string           `json:"clientId"`
	Shape     clip.Shape       `json:"shape"`
	Menu      anchor.MenuState `json:"menu"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Registry tracks widget snapshots across all clients. The widgets
// themselves live in their client's read goroutine; the registry only
// holds copies.
type Registry struct {
	mu      sync.RWMutex
	widgets map[string]WidgetSnapshot // widgetID -> snapshot
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		widgets: make(map[string]WidgetSnapshot),
		now:     time.Now,
	}
}

func (r *Registry) Put(s WidgetSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.UpdatedAt = r.now()
	r.widgets[s.ID] = s
}

func (r *Registry) Remove(widgetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.widgets, widgetID)
}

// RemoveClient drops every widget owned by clientID.
func (r *Registry) RemoveClient(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.widgets {
		if s.ClientID == clientID {
			delete(r.widgets, id)
		}
	}
}

func (r *Registry) Get(widgetID string) (WidgetSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.widgets[widgetID]
	return s, ok
}

// List returns the widgets of a session ordered by id.
func (r *Registry) List(sessionID string) []WidgetSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]WidgetSnapshot, 0, len(r.widgets))
	for _, s := range r.widgets {
		if s.SessionID == sessionID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
