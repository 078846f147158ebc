package optimizer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ThinkWhy/internal/session"
)

const longPost = "We are launching our new eco-friendly water bottle next week at the downtown store."

type fakeRewriter struct {
	rewriteOut string
	reviseOut  string
	rewrites   []string
	revisions  []reviseCall
}

type reviseCall struct {
	original, draft, instructions string
	params                        session.Params
}

func (f *fakeRewriter) Rewrite(_ context.Context, content string, _ session.Params) string {
	f.rewrites = append(f.rewrites, content)
	return f.rewriteOut
}

func (f *fakeRewriter) Revise(_ context.Context, original, draft, instructions string, p session.Params) string {
	f.revisions = append(f.revisions, reviseCall{original, draft, instructions, p})
	return f.reviseOut
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(rw *fakeRewriter) *Controller {
	return NewController(session.New(DefaultParams()), rw, discardLogger())
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	require.Equal(t, "General", p.Audience)
	require.Equal(t, "General", p.Theme)
	require.Equal(t, "Professional", p.Tone)
	require.Equal(t, 10, p.HashtagCount)
}

func TestSubmit_AppendsPair(t *testing.T) {
	rw := &fakeRewriter{rewriteOut: "Optimized V1 #launch"}
	c := newTestController(rw)
	p := DefaultParams()
	p.Tone = "Casual"

	require.NoError(t, c.Submit(context.Background(), longPost, p))

	history := c.Session().History()
	require.Len(t, history, 2)
	require.Equal(t, session.Turn{Role: session.RoleUser, Content: longPost}, history[0])
	require.Equal(t, session.Turn{Role: session.RoleAssistant, Content: "Optimized V1 #launch"}, history[1])
	require.Equal(t, []string{longPost}, rw.rewrites)
	require.Equal(t, p, c.Session().Params())
}

func TestSubmit_TooShort(t *testing.T) {
	rw := &fakeRewriter{rewriteOut: "unused"}
	c := newTestController(rw)

	require.NoError(t, c.Submit(context.Background(), "too short", DefaultParams()))
	require.Zero(t, c.Session().Len())
	require.Empty(t, rw.rewrites)

	msg, ok := c.Session().TakeError()
	require.True(t, ok)
	require.Equal(t, MsgSubmitTooShort, msg)
}

func TestSubmit_ErrorResultIsKept(t *testing.T) {
	rw := &fakeRewriter{rewriteOut: "Error: quota exceeded"}
	c := newTestController(rw)

	require.NoError(t, c.Submit(context.Background(), longPost, DefaultParams()))
	turn, err := c.Session().Turn(1)
	require.NoError(t, err)
	require.Equal(t, "Error: quota exceeded", turn.Content)
}

func TestSubmit_WhileAwaitingAssistant(t *testing.T) {
	c := newTestController(&fakeRewriter{})
	require.NoError(t, c.Session().AppendUserTurn(longPost))

	err := c.Submit(context.Background(), longPost, DefaultParams())
	require.ErrorIs(t, err, session.ErrInvariantViolation)
	require.Equal(t, 1, c.Session().Len())
}

func TestEdit_AssistantTurn(t *testing.T) {
	rw := &fakeRewriter{rewriteOut: "Final V1", reviseOut: "Final V2"}
	c := newTestController(rw)
	ctx := context.Background()
	require.NoError(t, c.Submit(ctx, longPost, DefaultParams()))

	target, err := c.BeginEdit(2)
	require.NoError(t, err)
	require.Equal(t, 1, target.Index)
	require.True(t, target.HasOriginal)
	require.Equal(t, longPost, target.Original)

	p := DefaultParams()
	p.Audience = "Teens"
	applied, err := c.SubmitEdit(ctx, "", "Make it shorter", p)
	require.NoError(t, err)
	require.True(t, applied)

	require.Len(t, rw.revisions, 1)
	require.Equal(t, reviseCall{longPost, "Final V1", "Make it shorter", p}, rw.revisions[0])
	turn, err := c.Session().Turn(1)
	require.NoError(t, err)
	require.Equal(t, "Final V2", turn.Content)
	_, editing := c.Session().Editing()
	require.False(t, editing)
}

func TestEdit_RejectedStaysOpen(t *testing.T) {
	rw := &fakeRewriter{rewriteOut: "Final V1"}
	c := newTestController(rw)
	ctx := context.Background()
	require.NoError(t, c.Submit(ctx, longPost, DefaultParams()))

	_, err := c.BeginEdit(2)
	require.NoError(t, err)
	applied, err := c.SubmitEdit(ctx, "", "   ", DefaultParams())
	require.NoError(t, err)
	require.False(t, applied)

	index, editing := c.Session().Editing()
	require.True(t, editing)
	require.Equal(t, 1, index)
	msg, ok := c.Session().TakeError()
	require.True(t, ok)
	require.Equal(t, session.MsgMissingInstructions, msg)
	require.Empty(t, rw.revisions)
}

func TestEdit_UserTurn(t *testing.T) {
	rw := &fakeRewriter{rewriteOut: "Final V1"}
	c := newTestController(rw)
	ctx := context.Background()
	require.NoError(t, c.Submit(ctx, longPost, DefaultParams()))

	_, err := c.BeginEdit(1)
	require.NoError(t, err)
	replacement := strings.Repeat("a", 70)
	applied, err := c.SubmitEdit(ctx, replacement, "", DefaultParams())
	require.NoError(t, err)
	require.True(t, applied)

	history := c.Session().History()
	require.Equal(t, replacement, history[0].Content)
	require.Equal(t, "Final V1", history[1].Content)
	require.Empty(t, rw.revisions)
	require.Len(t, rw.rewrites, 1)
}

func TestEdit_Misuse(t *testing.T) {
	c := newTestController(&fakeRewriter{rewriteOut: "Final V1"})
	ctx := context.Background()

	_, err := c.SubmitEdit(ctx, "x", "y", DefaultParams())
	require.ErrorIs(t, err, session.ErrNotEditing)

	_, err = c.BeginEdit(1)
	require.ErrorIs(t, err, session.ErrOutOfRange)

	require.NoError(t, c.Submit(ctx, longPost, DefaultParams()))
	_, err = c.BeginEdit(3)
	require.ErrorIs(t, err, session.ErrOutOfRange)
	_, err = c.BeginEdit(0)
	require.ErrorIs(t, err, session.ErrOutOfRange)

	_, err = c.BeginEdit(2)
	require.NoError(t, err)
	c.CancelEdit()
	_, editing := c.Session().Editing()
	require.False(t, editing)
	require.Equal(t, "Final V1", c.Session().History()[1].Content)
}
