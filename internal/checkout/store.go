package checkout

import (
	"sync"
	"time"
)

const defaultFlowTTL = 45 * time.Minute

// FlowStore keeps active flows server-side, keyed by session ID, so
// card details never travel inside the session cookie. Entries expire
// after a period of inactivity; an expired or missing entry simply
// restarts the flow from the address step.
type FlowStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*flowEntry
}

type flowEntry struct {
	flow    *Flow
	expires time.Time
}

// NewFlowStore constructs a store; ttl <= 0 uses the default.
func NewFlowStore(ttl time.Duration) *FlowStore {
	if ttl <= 0 {
		ttl = defaultFlowTTL
	}
	return &FlowStore{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]*flowEntry{},
	}
}

// Get returns the live flow for a session, refreshing its expiry.
func (s *FlowStore) Get(sessionID string) (*Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	e, ok := s.entries[sessionID]
	if !ok {
		return nil, false
	}
	e.expires = s.now().Add(s.ttl)
	return e.flow, true
}

// Put stores (or replaces) the flow for a session.
func (s *FlowStore) Put(sessionID string, f *Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[sessionID] = &flowEntry{flow: f, expires: s.now().Add(s.ttl)}
}

// Delete discards the flow for a session, e.g. after success or
// logout.
func (s *FlowStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

// Len reports the number of live flows.
func (s *FlowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.entries)
}

func (s *FlowStore) sweepLocked() {
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
}
