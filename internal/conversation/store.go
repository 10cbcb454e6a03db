package conversation

import "sync"

// Store keeps intake sessions keyed by chat ID. Each chat runs its own
// independent state machine; the store only guards the map itself.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]Session)}
}

// Begin creates a fresh session for the chat, replacing any abandoned one.
func (s *Store) Begin(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = Session{Step: StepProduct}
}

func (s *Store) Get(chatID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	return sess, ok
}

func (s *Store) Set(chatID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = sess
}

func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
