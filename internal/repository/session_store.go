package repository

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"codeshare/internal/model"
)

// ErrNotFound is returned when a session id is not registered.
var ErrNotFound = errors.New("session not found")

// SessionStore owns all live sessions in the process. Get returns a
// copy; mutations only stick when written back through Update or
// UpdateText. UpdateText stamps the update time inside the store lock
// so the (text, timestamp) pair is always consistent for readers.
type SessionStore interface {
	Create(owner string) (*model.Session, error)
	Get(id string) (*model.Session, bool)
	Update(session *model.Session) error
	Remove(id string)
	UpdateText(id string, role model.Role, text string) (time.Time, bool)
	SetOpen(id string, open bool) error
	SetComments(id string, comments string) bool
	ListOpen(owner string) []*model.Session
	ListClosed(owner string) []*model.Session
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	retired  map[string]struct{}
}

// NewMemorySessionStore creates the in-memory session store.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]*model.Session),
		retired:  make(map[string]struct{}),
	}
}

func (s *memorySessionStore) Create(owner string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.generateCode()
	if err != nil {
		return nil, err
	}

	sess := &model.Session{
		ID:        id,
		Owner:     owner,
		Open:      true,
		CreatedAt: time.Now(),
	}
	s.sessions[id] = sess

	cp := *sess
	return &cp, nil
}

func (s *memorySessionStore) Get(id string) (*model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	cp := *sess
	return &cp, true
}

func (s *memorySessionStore) Update(session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return ErrNotFound
	}
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

// Remove is idempotent. Removed ids are retired for the lifetime of
// the process so a deleted session can never be resurrected under the
// same code.
func (s *memorySessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		s.retired[id] = struct{}{}
	}
}

// UpdateText writes one role's text on an open session. The timestamp
// is taken while holding the lock, which keeps per-role update times
// monotonic and the text/timestamp pair atomic. Returns false when the
// session is missing or closed; the write is dropped.
func (s *memorySessionStore) UpdateText(id string, role model.Role, text string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || !sess.Open {
		return time.Time{}, false
	}
	now := time.Now()
	sess.SetText(role, text, now)
	return now, true
}

// SetOpen flips the lifecycle flag without touching any other field,
// so it cannot revert a text write racing with it.
func (s *memorySessionStore) SetOpen(id string, open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Open = open
	return nil
}

// SetComments stores the interviewer's comments on an open session.
// Returns false when the session is missing or closed; the write is
// dropped.
func (s *memorySessionStore) SetComments(id string, comments string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || !sess.Open {
		return false
	}
	sess.Comments = comments
	return true
}

func (s *memorySessionStore) ListOpen(owner string) []*model.Session {
	return s.list(owner, true)
}

func (s *memorySessionStore) ListClosed(owner string) []*model.Session {
	return s.list(owner, false)
}

func (s *memorySessionStore) list(owner string, open bool) []*model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Session, 0)
	for _, sess := range s.sessions {
		if sess.Owner == owner && sess.Open == open {
			cp := *sess
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// generateCode creates a 6-char join code from an alphabet without
// lookalike characters. Codes are checked against both live and
// retired sessions. Caller must hold the write lock.
func (s *memorySessionStore) generateCode() (string, error) {
	const chars = "abcdefghjkmnpqrstuvwxyz23456789"
	const codeLen = 6

	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}

		code := make([]byte, codeLen)
		for i := range code {
			code[i] = chars[int(b[i])%len(chars)]
		}
		codeStr := string(code)

		if _, live := s.sessions[codeStr]; live {
			continue
		}
		if _, used := s.retired[codeStr]; used {
			continue
		}
		return codeStr, nil
	}

	return "", fmt.Errorf("failed to generate unique session code")
}
