package optimizer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ThinkWhy/internal/config"
	"ThinkWhy/internal/rewriter"
	"ThinkWhy/internal/session"
)

var (
	userStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(lipgloss.Color("#0963eb")).PaddingLeft(1)
	botStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(lipgloss.Color("#65dba8")).PaddingLeft(1)
	errorStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(lipgloss.Color("#ff5757")).PaddingLeft(1).Foreground(lipgloss.Color("#ff5757"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

func renderTurn(n int, t session.Turn) string {
	if t.Role == session.RoleUser {
		return userStyle.Render(labelStyle.Render(fmt.Sprintf("[%d] You", n)) + "\n" + t.Content)
	}
	label := fmt.Sprintf("[%d] Optimized post", n)
	if rewriter.IsError(t.Content) {
		return errorStyle.Render(labelStyle.Render(label) + "\n" + t.Content)
	}
	return botStyle.Render(labelStyle.Render(label)+"\n"+t.Content) + "\n" +
		hintStyle.Render(fmt.Sprintf("/edit %d to refine, /copy %d to copy", n, n))
}

func renderHistory(history []session.Turn) string {
	if len(history) == 0 {
		return hintStyle.Render("No posts yet. Paste a post to optimize it.")
	}
	parts := make([]string, len(history))
	for i, t := range history {
		parts[i] = renderTurn(i+1, t)
	}
	return strings.Join(parts, "\n\n")
}

func renderError(msg string) string {
	return errorStyle.Render(msg)
}

func renderParams(p session.Params) string {
	return fmt.Sprintf("Audience: %s | Theme: %s | Tone: %s | Hashtags: %d",
		p.Audience, p.Theme, p.Tone, p.HashtagCount)
}

func renderEditTarget(n int, target session.EditTarget) string {
	var sb strings.Builder
	sb.WriteString(labelStyle.Render(fmt.Sprintf("Editing [%d]", n)))
	sb.WriteString("\n")
	if target.Turn.Role == session.RoleAssistant {
		sb.WriteString(userStyle.Render(labelStyle.Render("Original post") + "\n" + target.Original))
		sb.WriteString("\n")
		sb.WriteString(botStyle.Render(labelStyle.Render("Current optimized content") + "\n" + target.Turn.Content))
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("Enter edit instructions (e.g. 'Make it more casual', 'Add more details about pricing'). /cancel to stop editing."))
	} else {
		sb.WriteString(userStyle.Render(labelStyle.Render("Your post") + "\n" + target.Turn.Content))
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render(fmt.Sprintf("Enter the new post (at least %d characters). /cancel to stop editing.", session.MinContentLength)))
	}
	return sb.String()
}

func renderOptions() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Audiences: %s\n", strings.Join(config.Audiences, ", "))
	fmt.Fprintf(&sb, "Themes:    %s\n", strings.Join(config.Themes, ", "))
	fmt.Fprintf(&sb, "Tones:     %s\n", strings.Join(config.Tones, ", "))
	fmt.Fprintf(&sb, "Hashtags:  %d-%d (default %d)", config.MinHashtags, config.MaxHashtags, config.DefaultHashtags)
	return sb.String()
}
