package session

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const longPost = "This is a sufficiently long post about a new product launch event happening soon."

type fakeReviser struct {
	out   string
	calls []reviseCall
}

type reviseCall struct {
	original, draft, instructions string
	params                        Params
}

func (f *fakeReviser) Revise(_ context.Context, original, draft, instructions string, p Params) string {
	f.calls = append(f.calls, reviseCall{original, draft, instructions, p})
	return f.out
}

func defaultParams() Params {
	return Params{Audience: "General", Theme: "General", Tone: "Professional", HashtagCount: 10}
}

func twoTurnSession(t *testing.T) *Session {
	t.Helper()
	s := New(defaultParams())
	require.NoError(t, s.AppendUserTurn(longPost))
	require.NoError(t, s.AppendAssistantTurn("Final V1"))
	return s
}

func requireAlternates(t *testing.T, s *Session) {
	t.Helper()
	for i, turn := range s.History() {
		if i%2 == 0 {
			require.Equal(t, RoleUser, turn.Role, "turn %d", i)
		} else {
			require.Equal(t, RoleAssistant, turn.Role, "turn %d", i)
		}
	}
}

func TestAppendUserTurn_TooShort(t *testing.T) {
	s := New(defaultParams())
	err := s.AppendUserTurn("short")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, 0, s.Len())

	// surrounding whitespace does not count
	err = s.AppendUserTurn("   " + strings.Repeat("x", MinContentLength-1) + "\n\n")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, 0, s.Len())

	require.NoError(t, s.AppendUserTurn(strings.Repeat("x", MinContentLength)))
	require.Equal(t, 1, s.Len())
}

func TestAppend_Alternation(t *testing.T) {
	s := New(defaultParams())
	require.ErrorIs(t, s.AppendAssistantTurn("orphan"), ErrInvariantViolation)

	require.NoError(t, s.AppendUserTurn(longPost))
	require.ErrorIs(t, s.AppendUserTurn(longPost), ErrInvariantViolation)
	require.NoError(t, s.AppendAssistantTurn("Error: boom"))
	require.ErrorIs(t, s.AppendAssistantTurn("again"), ErrInvariantViolation)
	require.NoError(t, s.AppendUserTurn(longPost))
	require.NoError(t, s.AppendAssistantTurn("ok"))

	require.Equal(t, 4, s.Len())
	requireAlternates(t, s)
	last, err := s.Turn(1)
	require.NoError(t, err)
	require.Equal(t, "Error: boom", last.Content)
}

func TestBeginEdit(t *testing.T) {
	s := twoTurnSession(t)

	_, err := s.BeginEdit(2)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.BeginEdit(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, editing := s.Editing()
	require.False(t, editing)

	target, err := s.BeginEdit(1)
	require.NoError(t, err)
	require.True(t, target.HasOriginal)
	require.Equal(t, longPost, target.Original)
	require.Equal(t, RoleAssistant, target.Turn.Role)
	idx, editing := s.Editing()
	require.True(t, editing)
	require.Equal(t, 1, idx)

	target, err = s.BeginEdit(0)
	require.NoError(t, err)
	require.False(t, target.HasOriginal)
	idx, _ = s.Editing()
	require.Equal(t, 0, idx)
}

func TestBeginEditThenCancel_LeavesHistory(t *testing.T) {
	s := twoTurnSession(t)
	before := s.History()

	_, err := s.BeginEdit(1)
	require.NoError(t, err)
	s.CancelEdit()
	require.Equal(t, before, s.History())
	_, editing := s.Editing()
	require.False(t, editing)

	s.CancelEdit()
	_, editing = s.Editing()
	require.False(t, editing)
	require.Equal(t, before, s.History())
}

func TestCommitEdit_NotEditing(t *testing.T) {
	s := twoTurnSession(t)
	err := s.CommitEdit(context.Background(), longPost, "x", defaultParams(), &fakeReviser{})
	require.ErrorIs(t, err, ErrNotEditing)
}

func TestCommitEdit_UserTurn(t *testing.T) {
	s := twoTurnSession(t)
	rev := &fakeReviser{out: "unused"}

	_, err := s.BeginEdit(0)
	require.NoError(t, err)

	err = s.CommitEdit(context.Background(), "too short", "", Params{}, rev)
	require.ErrorIs(t, err, ErrInvalidInput)
	turn, _ := s.Turn(0)
	require.Equal(t, longPost, turn.Content)
	idx, editing := s.Editing()
	require.True(t, editing)
	require.Equal(t, 0, idx)
	msg, ok := s.TakeError()
	require.True(t, ok)
	require.Equal(t, MsgEditTooShort, msg)

	edited := longPost + " Now with early-bird tickets."
	require.NoError(t, s.CommitEdit(context.Background(), edited, "", Params{}, rev))
	turn, _ = s.Turn(0)
	require.Equal(t, edited, turn.Content)
	_, editing = s.Editing()
	require.False(t, editing)
	require.Empty(t, rev.calls)
	require.Equal(t, defaultParams(), s.Params())
	requireAlternates(t, s)
}

// Scenario C
func TestCommitEdit_AssistantTurnMissingInstructions(t *testing.T) {
	s := twoTurnSession(t)
	rev := &fakeReviser{out: "Final V2"}

	_, err := s.BeginEdit(1)
	require.NoError(t, err)
	err = s.CommitEdit(context.Background(), "Final V1", "   ", defaultParams(), rev)
	require.ErrorIs(t, err, ErrInvalidInput)

	msg, ok := s.TakeError()
	require.True(t, ok)
	require.Equal(t, MsgMissingInstructions, msg)
	idx, editing := s.Editing()
	require.True(t, editing)
	require.Equal(t, 1, idx)
	turn, _ := s.Turn(1)
	require.Equal(t, "Final V1", turn.Content)
	require.Empty(t, rev.calls)
}

// Scenario D
func TestCommitEdit_AssistantTurnRevised(t *testing.T) {
	s := twoTurnSession(t)
	rev := &fakeReviser{out: "Final V2"}
	p := Params{Audience: "Foodies", Theme: "Food", Tone: "Casual", HashtagCount: 5}

	_, err := s.BeginEdit(1)
	require.NoError(t, err)
	require.NoError(t, s.CommitEdit(context.Background(), "Final V1", "make it punchier", p, rev))

	turn, _ := s.Turn(1)
	require.Equal(t, "Final V2", turn.Content)
	_, editing := s.Editing()
	require.False(t, editing)
	require.Len(t, rev.calls, 1)
	require.Equal(t, reviseCall{longPost, "Final V1", "make it punchier", p}, rev.calls[0])
	require.Equal(t, p, s.Params())
	require.Equal(t, 2, s.Len())
	requireAlternates(t, s)
}

func TestCommitEdit_AssistantTurnKeepsErrorResult(t *testing.T) {
	s := twoTurnSession(t)
	rev := &fakeReviser{out: "Error: quota exceeded"}

	_, err := s.BeginEdit(1)
	require.NoError(t, err)
	require.NoError(t, s.CommitEdit(context.Background(), "", "shorter", defaultParams(), rev))

	turn, _ := s.Turn(1)
	require.Equal(t, "Error: quota exceeded", turn.Content)
	// blank form content falls back to the stored draft
	require.Equal(t, "Final V1", rev.calls[0].draft)
}

func TestTakeError_SingleRead(t *testing.T) {
	s := New(defaultParams())
	_, ok := s.TakeError()
	require.False(t, ok)

	s.SetError("first")
	s.SetError("second")
	msg, ok := s.TakeError()
	require.True(t, ok)
	require.Equal(t, "second", msg)
	_, ok = s.TakeError()
	require.False(t, ok)
}

func TestPairedUserIndex(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "a"},
		{Role: RoleAssistant, Content: "b"},
		{Role: RoleUser, Content: "c"},
		{Role: RoleAssistant, Content: "d"},
	}
	i, ok := PairedUserIndex(history, 3)
	require.True(t, ok)
	require.Equal(t, 2, i)

	i, ok = PairedUserIndex(history, 1)
	require.True(t, ok)
	require.Equal(t, 0, i)

	_, ok = PairedUserIndex(history, 0)
	require.False(t, ok)
	_, ok = PairedUserIndex(history, 9)
	require.False(t, ok)

	// pairing walks back past non-user turns
	skewed := []Turn{{Role: RoleUser}, {Role: RoleAssistant}, {Role: RoleAssistant}}
	i, ok = PairedUserIndex(skewed, 2)
	require.True(t, ok)
	require.Equal(t, 0, i)
}

func TestHistoryIsCopy(t *testing.T) {
	s := twoTurnSession(t)
	h := s.History()
	h[0].Content = "mutated"
	turn, _ := s.Turn(0)
	require.Equal(t, longPost, turn.Content)
}
