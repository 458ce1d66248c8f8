package service

import "sync"

// EventType names the realtime events the coordinator publishes. The
// transport layer forwards them verbatim, so these strings are part of the
// client contract.
type EventType string

const (
	EventSessionStateChanged EventType = "session-state-changed"
	EventParticipantJoined   EventType = "participant-joined"
	EventParticipantLeft     EventType = "participant-left"
	EventAbilityUsed         EventType = "ability-used"
	EventError               EventType = "error"
)

// Event is one state-change notification scoped to a session channel.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Payload   any       `json:"payload,omitempty"`
}

// subscriber buffer; events beyond it are dropped rather than blocking the
// session's writer.
const subscriberBuffer = 32

// Bus is a per-session publish/subscribe fan-out. Delivery is
// fire-and-forget: a lagging subscriber loses events, but the ones it does
// receive arrive in mutation order for that session.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers an observer for one session's events. The returned
// cancel function must be called to release the subscription.
func (b *Bus) Subscribe(sessionID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[int]chan Event)
	}
	b.subs[sessionID][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if chans, ok := b.subs[sessionID]; ok {
			if c, ok := chans[id]; ok {
				delete(chans, id)
				close(c)
			}
			if len(chans) == 0 {
				delete(b.subs, sessionID)
			}
		}
	}
	return ch, cancel
}

// Publish delivers evt to every subscriber of its session without blocking.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[evt.SessionID] {
		select {
		case ch <- evt:
		default:
			// subscriber is not keeping up; drop rather than stall the duel
		}
	}
}
