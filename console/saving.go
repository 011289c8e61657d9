package console

import "sync"

type SavingState int

const (
	SavingIdle SavingState = iota
	SavingInProgress
)

func (s SavingState) String() string {
	if s == SavingInProgress {
		return "saving"
	}
	return "idle"
}

// SavingStore tracks which documents have an update in flight. Each console
// owns one store, shared by its detail modals and list rows.
type SavingStore struct {
	m           sync.Mutex
	states      map[string]SavingState
	subscribers map[int]func(id string, state SavingState)
	next        int
}

func NewSavingStore() *SavingStore {
	return &SavingStore{
		states:      make(map[string]SavingState),
		subscribers: make(map[int]func(id string, state SavingState)),
	}
}

func (s *SavingStore) Get(id string) SavingState {
	s.m.Lock()
	defer s.m.Unlock()
	return s.states[id]
}

// Set changes the state of a document and notifies subscribers if it
// changed. Subscribers are called in the order they subscribed.
func (s *SavingStore) Set(id string, state SavingState) {
	s.m.Lock()
	if s.states[id] == state {
		s.m.Unlock()
		return
	}
	if state == SavingIdle {
		delete(s.states, id)
	} else {
		s.states[id] = state
	}
	subs := make([]func(string, SavingState), 0, len(s.subscribers))
	for i := 0; i < s.next; i++ {
		if f, ok := s.subscribers[i]; ok {
			subs = append(subs, f)
		}
	}
	s.m.Unlock()
	for _, f := range subs {
		f(id, state)
	}
}

// Subscribe registers f to be called on every state change. Call the
// returned function to stop receiving changes.
func (s *SavingStore) Subscribe(f func(id string, state SavingState)) (unsubscribe func()) {
	s.m.Lock()
	defer s.m.Unlock()
	key := s.next
	s.next++
	s.subscribers[key] = f
	return func() {
		s.m.Lock()
		defer s.m.Unlock()
		delete(s.subscribers, key)
	}
}
