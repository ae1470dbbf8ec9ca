package service

import (
	"errors"
	"log"

	"codeshare/internal/model"
	"codeshare/internal/repository"
)

// ErrUnauthorized is returned when an actor is not allowed to manage a
// session. It must be returned before any session content.
var ErrUnauthorized = errors.New("unauthorized: not session owner")

// SessionService owns session lifecycle and the differential-refresh
// protocol between the two roles.
type SessionService struct {
	store repository.SessionStore
}

// NewSessionService creates a new session service
func NewSessionService(store repository.SessionStore) *SessionService {
	return &SessionService{store: store}
}

// Create allocates a fresh open session owned by the interviewer.
func (s *SessionService) Create(owner string) (*model.Session, error) {
	sess, err := s.store.Create(owner)
	if err != nil {
		return nil, err
	}
	log.Printf("session %s created by %s", sess.ID, owner)
	return sess, nil
}

// Get returns the session, or nil when the id is unknown. Absence is
// an expected outcome, not an error.
func (s *SessionService) Get(id string) *model.Session {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil
	}
	return sess
}

// ListOpen returns the owner's open sessions, oldest first.
func (s *SessionService) ListOpen(owner string) []*model.Session {
	return s.store.ListOpen(owner)
}

// ListClosed returns the owner's closed sessions, oldest first.
func (s *SessionService) ListClosed(owner string) []*model.Session {
	return s.store.ListClosed(owner)
}

// Close flips an open session to closed. Owner or admin only.
func (s *SessionService) Close(id string, actor model.Actor) error {
	sess, ok := s.store.Get(id)
	if !ok {
		return repository.ErrNotFound
	}
	if !canManage(actor, sess) {
		return ErrUnauthorized
	}
	return s.store.SetOpen(id, false)
}

// Reopen flips a closed session back to open. Owner or admin only.
func (s *SessionService) Reopen(id string, actor model.Actor) error {
	sess, ok := s.store.Get(id)
	if !ok {
		return repository.ErrNotFound
	}
	if !canManage(actor, sess) {
		return ErrUnauthorized
	}
	return s.store.SetOpen(id, true)
}

// Delete removes the session permanently. Owner or admin only.
// Deleting an already-removed id is a no-op.
func (s *SessionService) Delete(id string, actor model.Actor) error {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil
	}
	if !canManage(actor, sess) {
		return ErrUnauthorized
	}
	s.store.Remove(id)
	log.Printf("session %s deleted by %s", id, actor.Username)
	return nil
}

// Refresh reports whether the other role's text changed since the
// caller last saw update time lastSeen (unix millis). A missing or
// closed session yields sessionOpen:false, telling the caller to stop
// polling.
func (s *SessionService) Refresh(id string, caller model.Role, lastSeen int64) model.RefreshResult {
	sess, ok := s.store.Get(id)
	return refreshed(sess, ok, caller, lastSeen)
}

// UpdateText records the caller's text, then evaluates the refresh for
// the caller in the same call, mirroring the poll-and-write cycle the
// clients run. Writes against closed or missing sessions are dropped
// silently; the refresh result still reflects current state.
func (s *SessionService) UpdateText(id string, caller model.Role, text string, lastSeen int64) model.RefreshResult {
	if _, ok := s.store.UpdateText(id, caller, text); !ok {
		log.Printf("%s: dropped text update, session %s missing or closed", caller, id)
	}
	sess, ok := s.store.Get(id)
	return refreshed(sess, ok, caller, lastSeen)
}

// UpdateComments stores the interviewer's private comments. Comments
// are a write-only side channel, not part of the refresh protocol, so
// no update time is stamped. Dropped when the session is closed.
func (s *SessionService) UpdateComments(id string, comments string) {
	if !s.store.SetComments(id, comments) {
		log.Printf("interviewer: dropped comments update, session %s missing or closed", id)
	}
}

func refreshed(sess *model.Session, ok bool, caller model.Role, lastSeen int64) model.RefreshResult {
	if !ok || !sess.Open {
		return model.RefreshResult{SessionOpen: false}
	}

	// Compare at millisecond granularity: clients echo back the millis
	// value from a previous result, so a finer-grained comparison would
	// report the same write as new twice.
	text, updatedAt := sess.TextFor(caller.Other())
	if !updatedAt.IsZero() && updatedAt.UnixMilli() > lastSeen {
		return model.RefreshResult{
			SessionOpen:         true,
			HasOtherText:        true,
			OtherText:           text,
			LastOtherUpdateTime: updatedAt.UnixMilli(),
		}
	}

	return model.RefreshResult{SessionOpen: true, HasOtherText: false}
}

func canManage(actor model.Actor, sess *model.Session) bool {
	return actor.Admin || actor.Username == sess.Owner
}
