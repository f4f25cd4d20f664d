package models

// Identity is the authentication principal issued at sign-in. It is
// immutable for the lifetime of a session.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Session is the live session reported by the session store: the identity
// plus the bearer token that proves it.
type Session struct {
	Identity Identity `json:"identity"`
	Token    string   `json:"-"`
}

// AuthenticatedUser is the process-wide published auth state: an identity
// with an optionally resolved profile. A nil Profile is the degraded
// "authenticated but role unknown" state; routing must treat it as if the
// user were unauthenticated rather than guess a role.
type AuthenticatedUser struct {
	Identity Identity `json:"identity"`
	Profile  *Profile `json:"profile,omitempty"`
}

// Role returns the profile role, or "" in the degraded state.
func (u *AuthenticatedUser) Role() string {
	if u == nil || u.Profile == nil {
		return ""
	}
	return u.Profile.Role
}

// SessionEventType identifies an auth-state transition.
type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
	SessionResolved  SessionEventType = "session_resolved"
)

// SessionEvent is delivered to session-change subscribers. Session is nil
// for signed_out events.
type SessionEvent struct {
	Type    SessionEventType `json:"type"`
	Session *Session         `json:"session,omitempty"`
}
