package model

import "time"

// SessionTTL is how long a conversation session stays alive without
// activity. Each update slides the window.
const SessionTTL = time.Hour

// Session holds the state of an in-progress multi-turn conversation.
// One session exists per (user, session) pair at most.
type Session struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      map[string]any
	SessionID string
	Flow      string
	State     string
	UserID    int64
}

// Expired reports whether the session has outlived its TTL as of now.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.UpdatedAt) > SessionTTL
}
