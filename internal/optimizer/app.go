package optimizer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"ThinkWhy/internal/config"
	"ThinkWhy/internal/session"
)

// Archiver stores session transcripts on /new-session and exit
type Archiver interface {
	Save(ctx context.Context, sess *session.Session) error
}

// App is the interactive front end of the optimizer
type App struct {
	ctrl     *Controller
	rewriter Rewriter
	archive  Archiver
	logger   *slog.Logger
	params   session.Params

	// draft replaces the stored content of an assistant turn being edited
	draft string

	in  *bufio.Scanner
	out io.Writer

	// Clipboard receives the content of /copy N
	Clipboard func(string) error
}

// NewApp creates an App with a fresh session. archive may be nil.
func NewApp(rewriter Rewriter, archive Archiver, logger *slog.Logger, in io.Reader, out io.Writer) *App {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	a := &App{
		rewriter:  rewriter,
		archive:   archive,
		logger:    logger,
		params:    DefaultParams(),
		in:        scanner,
		out:       out,
		Clipboard: clipboard.WriteAll,
	}
	a.ctrl = a.newController()
	return a
}

func (a *App) newController() *Controller {
	sess := session.New(a.params)
	a.logger.Info("created new session", "session_id", sess.ID)
	return NewController(sess, a.rewriter, a.logger)
}

// Session returns the active session
func (a *App) Session() *session.Session {
	return a.ctrl.Session()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// readInput reads one logical input. Lines ending in a backslash continue
// on the next line.
func (a *App) readInput(prompt string) (string, bool) {
	a.printf("%s", prompt)
	var lines []string
	for a.in.Scan() {
		line := a.in.Text()
		if strings.HasSuffix(line, `\`) {
			lines = append(lines, strings.TrimSuffix(line, `\`))
			a.printf("... ")
			continue
		}
		lines = append(lines, line)
		return strings.Join(lines, "\n"), true
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), true
	}
	return "", false
}

func (a *App) flushError() {
	if msg, ok := a.Session().TakeError(); ok {
		a.println(renderError(msg))
	}
}

func (a *App) save(ctx context.Context) {
	if a.archive == nil {
		return
	}
	if err := a.archive.Save(ctx, a.Session()); err != nil {
		a.logger.Error("failed to archive session", "session_id", a.Session().ID, "error", err)
	}
}

// Run reads input until /quit or end of input
func (a *App) Run(ctx context.Context) error {
	a.println("=== ThinkWhy Post Optimizer ===")
	a.printf("Session: %s\n", a.Session().ID)
	a.println(renderParams(a.params))
	a.printf("Paste a post (at least %d characters) to optimize it. End a line with \\ to continue it.\n", session.MinContentLength)
	a.println("Type /help for commands, /quit to exit")
	a.println()

	for {
		a.flushError()

		prompt := "You: "
		if _, editing := a.Session().Editing(); editing {
			prompt = "Edit: "
		}
		input, ok := a.readInput(prompt)
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "/") {
			shouldQuit, err := a.handleCommand(ctx, trimmed)
			if err != nil {
				a.println(renderError(fmt.Sprintf("Error: %v", err)))
				a.logger.Error("command error", "error", err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		if err := a.handleText(ctx, input); err != nil {
			a.println(renderError(fmt.Sprintf("Error: %v", err)))
			a.logger.Error("failed to handle input", "error", err)
		}
	}

	a.save(ctx)
	a.println("Goodbye!")
	return nil
}

// handleText routes plain input to the open edit form or to a new submission.
// Content is stored exactly as typed.
func (a *App) handleText(ctx context.Context, input string) error {
	sess := a.Session()
	index, editing := sess.Editing()
	if !editing {
		before := sess.Len()
		if err := a.ctrl.Submit(ctx, input, a.params); err != nil {
			return err
		}
		history := sess.History()
		for i := before; i < len(history); i++ {
			a.println(renderTurn(i+1, history[i]))
		}
		a.println()
		return nil
	}

	turn, err := sess.Turn(index)
	if err != nil {
		return err
	}
	content, instructions := input, ""
	if turn.Role == session.RoleAssistant {
		content, instructions = a.draft, input
	}
	applied, err := a.ctrl.SubmitEdit(ctx, content, instructions, a.params)
	if err != nil {
		a.draft = ""
		return err
	}
	if applied {
		a.draft = ""
		updated, err := sess.Turn(index)
		if err != nil {
			return err
		}
		a.println(renderTurn(index+1, updated))
		a.println()
	}
	return nil
}

func (a *App) intArg(parts []string, usage string) (int, error) {
	if len(parts) < 2 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	return n, nil
}

func (a *App) chooseOption(kind string, options []string, arg string, set func(string)) error {
	if arg == "" {
		a.printf("%ss: %s\n", kind, strings.Join(options, ", "))
		return nil
	}
	v, err := config.Match(options, arg)
	if err != nil {
		return err
	}
	set(v)
	a.println(renderParams(a.params))
	return nil
}

func (a *App) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(cmd, parts[0]))

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/new-session":
		a.save(ctx)
		a.draft = ""
		a.ctrl = a.newController()
		a.println("Started new session:", a.Session().ID)
		return false, nil

	case "/audience":
		return false, a.chooseOption("Audience", config.Audiences, arg, func(v string) { a.params.Audience = v })

	case "/theme":
		return false, a.chooseOption("Theme", config.Themes, arg, func(v string) { a.params.Theme = v })

	case "/tone":
		return false, a.chooseOption("Tone", config.Tones, arg, func(v string) { a.params.Tone = v })

	case "/hashtags":
		usage := fmt.Sprintf("/hashtags <%d-%d>", config.MinHashtags, config.MaxHashtags)
		n, err := a.intArg(parts, usage)
		if err != nil {
			return false, err
		}
		if n < config.MinHashtags || n > config.MaxHashtags {
			return false, fmt.Errorf("usage: %s", usage)
		}
		a.params.HashtagCount = n
		a.println(renderParams(a.params))
		return false, nil

	case "/params":
		a.println(renderParams(a.params))
		return false, nil

	case "/options":
		a.println(renderOptions())
		return false, nil

	case "/history":
		a.println(renderHistory(a.Session().History()))
		return false, nil

	case "/edit":
		n, err := a.intArg(parts, "/edit <turn number>")
		if err != nil {
			return false, err
		}
		target, err := a.ctrl.BeginEdit(n)
		if err != nil {
			return false, err
		}
		a.draft = ""
		a.println(renderEditTarget(n, target))
		return false, nil

	case "/draft":
		index, editing := a.Session().Editing()
		if !editing {
			return false, session.ErrNotEditing
		}
		turn, err := a.Session().Turn(index)
		if err != nil {
			return false, err
		}
		if turn.Role != session.RoleAssistant {
			return false, errors.New("/draft only applies when editing an optimized post")
		}
		a.draft = arg
		a.println(hintStyle.Render("Draft updated. Now enter edit instructions."))
		return false, nil

	case "/cancel":
		a.ctrl.CancelEdit()
		a.draft = ""
		a.println("Edit cancelled.")
		return false, nil

	case "/copy":
		n, err := a.intArg(parts, "/copy <turn number>")
		if err != nil {
			return false, err
		}
		turn, err := a.Session().Turn(n - 1)
		if err != nil {
			return false, err
		}
		if err := a.Clipboard(turn.Content); err != nil {
			return false, fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		a.printf("Copied [%d] to clipboard.\n", n)
		return false, nil

	case "/help":
		a.println("Available commands:")
		a.println("  /audience [name]    - Show or set the target audience")
		a.println("  /theme [name]       - Show or set the content theme")
		a.println("  /tone [name]        - Show or set the tone")
		a.printf("  /hashtags <n>       - Set the number of hashtags (%d-%d)\n", config.MinHashtags, config.MaxHashtags)
		a.println("  /params             - Show the current settings")
		a.println("  /options            - List every audience, theme and tone")
		a.println("  /history            - Show the conversation")
		a.println("  /edit <n>           - Edit turn n")
		a.println("  /draft <text>       - Replace the draft of the optimized post being edited")
		a.println("  /cancel             - Stop editing")
		a.println("  /copy <n>           - Copy turn n to the clipboard")
		a.println("  /new-session        - Start a new session")
		a.println("  /quit, /exit        - Exit")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command: %s (try /help)", parts[0])
	}
}
