package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ThinkWhy/internal/config"
	"ThinkWhy/internal/session"
)

// MsgSubmitTooShort is shown when a new post is below the minimum length
var MsgSubmitTooShort = fmt.Sprintf("Please provide more detailed content (at least %d characters) for better optimization results.", session.MinContentLength)

// Rewriter is the text transformation the controller drives
type Rewriter interface {
	session.Reviser
	Rewrite(ctx context.Context, content string, p session.Params) string
}

// DefaultParams returns the parameter set preselected in a fresh session
func DefaultParams() session.Params {
	return session.Params{
		Audience:     config.Audiences[0],
		Theme:        config.Themes[0],
		Tone:         config.Tones[0],
		HashtagCount: config.DefaultHashtags,
	}
}

// Controller sequences submissions and edits against one session.
// Validation failures end up in the session's pending error slot; misuse
// (no open edit, bad index) is returned as an error.
type Controller struct {
	sess     *session.Session
	rewriter Rewriter
	logger   *slog.Logger
}

// NewController binds a session to a rewriter
func NewController(sess *session.Session, rewriter Rewriter, logger *slog.Logger) *Controller {
	return &Controller{sess: sess, rewriter: rewriter, logger: logger}
}

// Session returns the controlled session
func (c *Controller) Session() *session.Session {
	return c.sess
}

// Submit appends text as a User turn, rewrites it and appends the result.
// Nothing is appended when text is too short.
func (c *Controller) Submit(ctx context.Context, text string, p session.Params) error {
	if err := c.sess.AppendUserTurn(text); err != nil {
		if errors.Is(err, session.ErrInvalidInput) {
			c.logger.Info("submission rejected", "session_id", c.sess.ID, "reason", err)
			c.sess.SetError(MsgSubmitTooShort)
			return nil
		}
		return err
	}
	c.sess.SetParams(p)

	out := c.rewriter.Rewrite(ctx, text, p)
	if err := c.sess.AppendAssistantTurn(out); err != nil {
		return err
	}
	c.logger.Info("post optimized", "session_id", c.sess.ID, "turns", c.sess.Len())
	return nil
}

// BeginEdit opens the edit form for the turn shown as number n (1-based)
func (c *Controller) BeginEdit(n int) (session.EditTarget, error) {
	target, err := c.sess.BeginEdit(n - 1)
	if err != nil {
		return session.EditTarget{}, err
	}
	c.logger.Debug("edit started", "session_id", c.sess.ID, "index", target.Index, "role", target.Turn.Role)
	return target, nil
}

// SubmitEdit commits the open edit form. It reports whether the edit was
// applied; a rejected form stays open with a pending error.
func (c *Controller) SubmitEdit(ctx context.Context, content, instructions string, p session.Params) (bool, error) {
	index, _ := c.sess.Editing()
	err := c.sess.CommitEdit(ctx, content, instructions, p, c.rewriter)
	switch {
	case err == nil:
		c.logger.Info("edit committed", "session_id", c.sess.ID, "index", index)
		return true, nil
	case errors.Is(err, session.ErrInvalidInput):
		c.logger.Info("edit rejected", "session_id", c.sess.ID, "index", index, "reason", err)
		return false, nil
	default:
		return false, err
	}
}

// CancelEdit closes the edit form
func (c *Controller) CancelEdit() {
	c.sess.CancelEdit()
}
