package model

import "time"

// Role identifies one of the two fixed participants in a session.
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// Other returns the opposite side of the session.
func (r Role) Other() Role {
	if r == RoleInterviewer {
		return RoleCandidate
	}
	return RoleInterviewer
}

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleInterviewer || r == RoleCandidate
}

// Session is a single interviewer/candidate pairing. The ID doubles as
// the join code handed to the candidate. A zero UpdatedAt means the
// role has never written.
type Session struct {
	ID                   string    `json:"id"`
	Owner                string    `json:"owner"`
	Open                 bool      `json:"open"`
	InterviewerText      string    `json:"interviewerText"`
	InterviewerUpdatedAt time.Time `json:"interviewerUpdatedAt"`
	CandidateText        string    `json:"candidateText"`
	CandidateUpdatedAt   time.Time `json:"candidateUpdatedAt"`
	Comments             string    `json:"comments"`
	CreatedAt            time.Time `json:"createdAt"`
}

// TextFor returns the text and last-update time for one role.
func (s *Session) TextFor(role Role) (string, time.Time) {
	if role == RoleInterviewer {
		return s.InterviewerText, s.InterviewerUpdatedAt
	}
	return s.CandidateText, s.CandidateUpdatedAt
}

// SetText records a role's text together with its update time.
func (s *Session) SetText(role Role, text string, at time.Time) {
	if role == RoleInterviewer {
		s.InterviewerText = text
		s.InterviewerUpdatedAt = at
		return
	}
	s.CandidateText = text
	s.CandidateUpdatedAt = at
}

// RefreshResult is the differential-refresh payload. Timestamps travel
// as unix milliseconds so clients can echo them back unmodified.
type RefreshResult struct {
	SessionOpen         bool   `json:"sessionOpen"`
	HasOtherText        bool   `json:"hasOtherText"`
	OtherText           string `json:"otherText"`
	LastOtherUpdateTime int64  `json:"lastOtherUpdateTime"`
}

// SessionView is the candidate-facing projection of a session. It
// omits the interviewer's private comments.
type SessionView struct {
	ID    string `json:"id"`
	Open  bool   `json:"open"`
	Owner string `json:"owner"`
}

// View returns the candidate-facing projection of s.
func (s *Session) View() *SessionView {
	return &SessionView{ID: s.ID, Open: s.Open, Owner: s.Owner}
}
