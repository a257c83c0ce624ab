package realtime

import (
	"sync"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

// Hub is the in-process topic router: it maps topic names to the set of
// currently connected sessions and fans a published event out to them.
// It holds no history; a session only receives events published while it
// is subscribed.
type Hub struct {
	mu sync.RWMutex

	// topics maps a topic name to its member sessions. members is the
	// reverse index so dropping a session is proportional to its own
	// subscriptions, not to the number of topics.
	topics  map[string]map[*Session]struct{}
	members map[*Session]map[string]struct{}
}

var _ domain.Broadcaster = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*Session]struct{}),
		members: make(map[*Session]map[string]struct{}),
	}
}

// Subscribe joins a session to a topic. Subscribing twice is a no-op.
func (h *Hub) Subscribe(s *Session, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Session]struct{})
	}
	h.topics[topic][s] = struct{}{}

	if h.members[s] == nil {
		h.members[s] = make(map[string]struct{})
	}
	h.members[s][topic] = struct{}{}
}

// Unsubscribe removes a session from a topic. Unsubscribing a non-member
// is a no-op.
func (h *Hub) Unsubscribe(s *Session, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s, topic)
}

func (h *Hub) removeLocked(s *Session, topic string) {
	if set, ok := h.topics[topic]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.topics, topic)
		}
	}
	if set, ok := h.members[s]; ok {
		delete(set, topic)
		if len(set) == 0 {
			delete(h.members, s)
		}
	}
}

// DropChannel removes the session from every topic it belongs to.
// Invoked on disconnect.
func (h *Hub) DropChannel(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic := range h.members[s] {
		if set, ok := h.topics[topic]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	delete(h.members, s)
}

// Publish delivers ev to every session subscribed to topic at this
// instant. The member set is snapshotted under the read lock and each
// delivery is non-blocking, so a slow consumer can neither corrupt the
// registry nor stall the publisher.
func (h *Hub) Publish(topic string, ev domain.Event) {
	h.mu.RLock()
	set := h.topics[topic]
	sessions := make([]*Session, 0, len(set))
	for s := range set {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.deliver(ev)
	}
}

// topicCount reports how many sessions a topic currently has.
func (h *Hub) topicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
