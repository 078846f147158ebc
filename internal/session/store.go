package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidInput is returned when submitted or edited content fails validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotEditing is returned when an edit is committed while no edit is open
	ErrNotEditing = errors.New("no edit in progress")
	// ErrOutOfRange is returned for a turn index outside the log
	ErrOutOfRange = errors.New("turn index out of range")
	// ErrInvariantViolation signals a log that no longer alternates User/Assistant
	ErrInvariantViolation = errors.New("session invariant violated")
)

// User-facing messages stored in the pending error slot
var (
	MsgEditTooShort        = fmt.Sprintf("Please provide more detailed content (at least %d characters).", MinContentLength)
	MsgMissingInstructions = "Please provide edit instructions to explain what you'd like to change."
)

// Reviser produces a new version of an assistant turn from edit instructions.
// Failures are reported in-band, so Revise never returns an error.
type Reviser interface {
	Revise(ctx context.Context, original, draft, instructions string, p Params) string
}

// EditTarget describes the turn an open edit refers to
type EditTarget struct {
	Index int
	Turn  Turn
	// Original is the paired User turn content when Turn is an Assistant turn
	Original    string
	HasOriginal bool
}

func outOfRange(index, n int) error {
	return fmt.Errorf("%w: %d (history has %d turns)", ErrOutOfRange, index, n)
}

// ContentLength counts the characters of s after trimming surrounding space
func ContentLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// AppendUserTurn adds a User turn. The log is left untouched on failure.
func (s *Session) AppendUserTurn(text string) error {
	if n := ContentLength(text); n < MinContentLength {
		return fmt.Errorf("%w: content has %d characters, need at least %d", ErrInvalidInput, n, MinContentLength)
	}
	if len(s.history) > 0 && s.history[len(s.history)-1].Role != RoleAssistant {
		return fmt.Errorf("%w: user turn must follow an assistant turn", ErrInvariantViolation)
	}
	s.history = append(s.history, Turn{Role: RoleUser, Content: text})
	return nil
}

// AppendAssistantTurn adds an Assistant turn. Content is stored as-is,
// including error strings produced by the rewriter.
func (s *Session) AppendAssistantTurn(text string) error {
	if len(s.history) == 0 || s.history[len(s.history)-1].Role != RoleUser {
		return fmt.Errorf("%w: assistant turn must follow a user turn", ErrInvariantViolation)
	}
	s.history = append(s.history, Turn{Role: RoleAssistant, Content: text})
	return nil
}

// BeginEdit opens the edit form on the turn at index
func (s *Session) BeginEdit(index int) (EditTarget, error) {
	if index < 0 || index >= len(s.history) {
		return EditTarget{}, outOfRange(index, len(s.history))
	}
	target := EditTarget{Index: index, Turn: s.history[index]}
	if target.Turn.Role == RoleAssistant {
		ui, ok := PairedUserIndex(s.history, index)
		if !ok {
			return EditTarget{}, fmt.Errorf("%w: assistant turn %d has no preceding user turn", ErrInvariantViolation, index)
		}
		target.Original = s.history[ui].Content
		target.HasOriginal = true
	}
	s.editing = &index
	return target, nil
}

// CancelEdit closes the edit form without touching the log
func (s *Session) CancelEdit() {
	s.editing = nil
}

// CommitEdit applies the open edit.
//
// For a User turn newContent replaces the turn. For an Assistant turn the
// reviser is called once with the paired original, the draft (newContent,
// or the stored content when newContent is blank) and the instructions, and
// its result replaces the turn. Validation failures store a pending error,
// keep the edit open and return ErrInvalidInput. Any other outcome closes it.
func (s *Session) CommitEdit(ctx context.Context, newContent, instructions string, p Params, reviser Reviser) error {
	if s.editing == nil {
		return ErrNotEditing
	}
	index := *s.editing
	if index >= len(s.history) {
		s.editing = nil
		return outOfRange(index, len(s.history))
	}

	turn := s.history[index]
	switch turn.Role {
	case RoleUser:
		if ContentLength(newContent) < MinContentLength {
			s.SetError(MsgEditTooShort)
			return fmt.Errorf("%w: edited content too short", ErrInvalidInput)
		}
		s.history[index].Content = newContent

	case RoleAssistant:
		if strings.TrimSpace(instructions) == "" {
			s.SetError(MsgMissingInstructions)
			return fmt.Errorf("%w: edit instructions are empty", ErrInvalidInput)
		}
		ui, ok := PairedUserIndex(s.history, index)
		if !ok {
			s.editing = nil
			return fmt.Errorf("%w: assistant turn %d has no preceding user turn", ErrInvariantViolation, index)
		}
		if reviser == nil {
			s.editing = nil
			return errors.New("no reviser configured")
		}
		draft := newContent
		if strings.TrimSpace(draft) == "" {
			draft = turn.Content
		}
		s.history[index].Content = reviser.Revise(ctx, s.history[ui].Content, draft, instructions, p)
		s.params = p

	default:
		s.editing = nil
		return fmt.Errorf("%w: turn %d has unknown role %q", ErrInvariantViolation, index, turn.Role)
	}

	s.editing = nil
	return nil
}
