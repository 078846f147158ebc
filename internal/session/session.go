package session

import (
	"time"

	"github.com/google/uuid"
)

// MinContentLength is the minimum trimmed length of a submitted or edited post
const MinContentLength = 60

// Role identifies who authored a turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single entry in the session log. Its position in the log is its identity.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Params is the parameter set used to rewrite a post
type Params struct {
	Audience     string `json:"audience"`
	Theme        string `json:"theme"`
	Tone         string `json:"tone"`
	HashtagCount int    `json:"hashtag_count"`
}

// Session is the conversation log of one interactive run plus its transient
// edit pointer and one-shot error slot. A Session is not safe for concurrent
// use; every user gets their own.
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`

	history      []Turn
	editing      *int
	pendingError *string
	params       Params
}

// New creates an empty session
func New(params Params) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		params:    params,
	}
}

// History returns a copy of the log
func (s *Session) History() []Turn {
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of turns
func (s *Session) Len() int {
	return len(s.history)
}

// Turn returns the turn at index
func (s *Session) Turn(index int) (Turn, error) {
	if index < 0 || index >= len(s.history) {
		return Turn{}, outOfRange(index, len(s.history))
	}
	return s.history[index], nil
}

// Editing returns the index under edit, if any
func (s *Session) Editing() (int, bool) {
	if s.editing == nil {
		return 0, false
	}
	return *s.editing, true
}

// Params returns the last used parameter set
func (s *Session) Params() Params {
	return s.params
}

// SetParams records the parameter set used by the latest request
func (s *Session) SetParams(p Params) {
	s.params = p
}

// SetError stores a message to be shown to the user once
func (s *Session) SetError(msg string) {
	s.pendingError = &msg
}

// TakeError moves the pending error out of the session; a second call returns nothing
func (s *Session) TakeError() (string, bool) {
	if s.pendingError == nil {
		return "", false
	}
	msg := *s.pendingError
	s.pendingError = nil
	return msg, true
}

// PairedUserIndex returns the position of the User turn an Assistant turn
// answers: the nearest preceding User turn.
func PairedUserIndex(history []Turn, index int) (int, bool) {
	if index < 0 || index >= len(history) {
		return 0, false
	}
	for i := index - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return i, true
		}
	}
	return 0, false
}
