package news

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
)

const (
	displayDateLayout = "Jan 02, 2006 • 03:04 PM"
	previewLength     = 150
)

// Output formats understood by Report
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

var (
	indexStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	linkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32")).Underline(true)
	itemStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(lipgloss.Color("#4CAF50")).PaddingLeft(1).MarginBottom(1)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6A23C"))
	noteStyle  = lipgloss.NewStyle().Italic(true)
)

// FormatDate renders an RFC 3339 timestamp for display, falling back to the input
func FormatDate(date string) string {
	if date == "" {
		return "Unknown date"
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return date
	}
	return t.Format(displayDateLayout)
}

func withDefaults(a Article) Article {
	if a.Title == "" {
		a.Title = "No title"
	}
	if a.URL == "" {
		a.URL = "#"
	}
	if a.Source == "" {
		a.Source = "Unknown source"
	}
	if a.Body == "" {
		a.Body = "No description available"
	}
	return a
}

func keywordSuffix(keywords string) string {
	if kw := strings.TrimSpace(keywords); kw != "" {
		return " with keywords: " + kw
	}
	return ""
}

// Summary is the headline shown above a successful search
func Summary(topic, keywords string, n int) string {
	return fmt.Sprintf("Found %d news articles for '%s'%s", n, topic, keywordSuffix(keywords))
}

// Scope describes the filters a search ran with
func Scope(topic, regionName, timeLabel string) string {
	return fmt.Sprintf("Showing results for %s from %s, %s", topic, regionName, strings.ToLower(timeLabel))
}

// NoResults is the warning shown when a search returns nothing
func NoResults(topic, keywords string) string {
	return fmt.Sprintf("No news found for '%s'%s. Try another topic or check your connection.", topic, keywordSuffix(keywords))
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewLength {
		return body
	}
	r := []rune(body)
	return strings.TrimSpace(string(r[:previewLength])) + "…"
}

var (
	linkTextEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)
	linkDestEscaper = strings.NewReplacer("<", "%3C", ">", "%3E", "\n", "")
)

// linkDest wraps u in angle brackets so parentheses and spaces survive
func linkDest(u string) string {
	return "<" + linkDestEscaper.Replace(u) + ">"
}

// Markdown renders articles as a markdown document
func Markdown(articles []Article) string {
	var sb strings.Builder
	for i, a := range articles {
		a = withDefaults(a)
		fmt.Fprintf(&sb, "### %d. [%s](%s)\n\n", i+1, linkTextEscaper.Replace(a.Title), linkDest(a.URL))
		if a.Image != "" {
			fmt.Fprintf(&sb, "![thumbnail](%s)\n\n", linkDest(a.Image))
		}
		fmt.Fprintf(&sb, "**Source:** %s | **Published:** %s\n\n", a.Source, FormatDate(a.Date))
		fmt.Fprintf(&sb, "%s\n\n", a.Body)
		fmt.Fprintf(&sb, "[Read Full Article](%s)\n\n", linkDest(a.URL))
	}
	return sb.String()
}

// HTML renders articles as an HTML fragment
func HTML(articles []Article) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(articles)), &buf); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return buf.String(), nil
}

// Text renders articles for a terminal
func Text(articles []Article) string {
	var sb strings.Builder
	for i, a := range articles {
		a = withDefaults(a)
		lines := []string{
			indexStyle.Render(fmt.Sprintf("#%d", i+1)) + " " + titleStyle.Render(a.Title),
			metaStyle.Render(fmt.Sprintf("Source: %s | Published: %s", a.Source, FormatDate(a.Date))),
			preview(a.Body),
			"Read Full Article: " + linkStyle.Render(a.URL),
		}
		sb.WriteString(itemStyle.Render(strings.Join(lines, "\n")))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Report renders a complete search outcome in the requested format
func Report(format string, q Query, regionName, timeLabel string, articles []Article) (string, error) {
	if len(articles) == 0 {
		msg := NoResults(q.Topic, q.Keywords)
		if format == FormatText {
			return warnStyle.Render(msg) + "\n", nil
		}
		return msg + "\n", nil
	}

	summary := Summary(q.Topic, q.Keywords, len(articles))
	scope := Scope(q.Topic, regionName, timeLabel)
	switch format {
	case FormatText:
		return okStyle.Render(summary) + "\n" + noteStyle.Render(scope) + "\n\n" + Text(articles), nil
	case FormatMarkdown:
		return summary + "\n\n*" + scope + "*\n\n" + Markdown(articles), nil
	case FormatHTML:
		body, err := HTML(articles)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<p>%s</p>\n<p><em>%s</em></p>\n%s", html.EscapeString(summary), html.EscapeString(scope), body), nil
	default:
		return "", fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatText, FormatMarkdown, FormatHTML)
	}
}
