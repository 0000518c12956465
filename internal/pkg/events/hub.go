package events

import (
	"sync"
)

// Event types published by the attendance engine for external dispatchers
// (notification senders, payroll pollers).
const (
	TypeRecordCreated          = "attendance.record.created"
	TypeRecordUpdated          = "attendance.record.updated"
	TypeRegularizationResolved = "attendance.regularization.resolved"
)

// Event is one attendance-change fact. Data is a JSON-serializable payload.
type Event struct {
	OrgID  string      `json:"org_id"`
	UserID string      `json:"user_id"`
	Type   string      `json:"type"`
	Data   interface{} `json:"data"`
}

// Publisher is the interface services publish through.
type Publisher interface {
	Publish(event Event)
}

// Hub fans attendance-change events out to per-org subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for an org's events and returns the event
// channel and a cleanup function.
func (h *Hub) Subscribe(orgID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)

	if h.subscribers[orgID] == nil {
		h.subscribers[orgID] = make(map[chan Event]struct{})
	}
	h.subscribers[orgID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[orgID], ch)
		close(ch)
		if len(h.subscribers[orgID]) == 0 {
			delete(h.subscribers, orgID)
		}
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of its org. Slow subscribers are
// skipped rather than blocking the punch path.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[event.OrgID]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for an org.
func (h *Hub) SubscriberCount(orgID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[orgID]; ok {
		return len(subs)
	}
	return 0
}
