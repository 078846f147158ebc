package rewriter

import (
	"fmt"
	"strings"

	"ThinkWhy/internal/session"
)

func writeConstraints(sb *strings.Builder, p session.Params) {
	fmt.Fprintf(sb, "1. Target audience: %s\n", p.Audience)
	fmt.Fprintf(sb, "2. Content theme: %s\n", p.Theme)
	fmt.Fprintf(sb, "3. Tone of voice: %s\n", p.Tone)
	fmt.Fprintf(sb, "4. Include exactly %d relevant hashtags\n", p.HashtagCount)
	sb.WriteString("5. Include a natural call-to-action\n")
	sb.WriteString("6. Make it engaging while preserving the original message\n")
	sb.WriteString("7. Keep it within Instagram's character limits\n")
	sb.WriteString("8. Create a comprehensive and detailed post (at least 3-4 paragraphs)\n")
}

// BuildRewritePrompt builds the instruction payload for a first rewrite
func BuildRewritePrompt(content string, p session.Params) string {
	var sb strings.Builder
	sb.WriteString("Optimize the following Instagram post while maintaining its authentic voice:\n\n")
	sb.WriteString(content)
	sb.WriteString("\n\nPlease enhance it based on these specifications:\n")
	writeConstraints(&sb, p)
	sb.WriteString("\nReturn only the optimized post, don't explain your changes.\n")
	return sb.String()
}

// BuildRevisionPrompt builds the instruction payload for revising a draft
func BuildRevisionPrompt(original, draft, instructions string, p session.Params) string {
	var sb strings.Builder
	sb.WriteString("I need to improve an Instagram post based on specific feedback.\n\n")
	sb.WriteString("ORIGINAL USER POST:\n")
	sb.WriteString(original)
	sb.WriteString("\n\nCURRENT OPTIMIZED VERSION:\n")
	sb.WriteString(draft)
	sb.WriteString("\n\nEDIT INSTRUCTIONS FROM USER:\n")
	sb.WriteString(instructions)
	sb.WriteString("\n\nPlease create a new optimized version with these specifications:\n")
	writeConstraints(&sb, p)
	sb.WriteString("9. Focus specifically on addressing the edit instructions\n")
	sb.WriteString("\nReturn only the re-optimized post, don't explain your changes.\n")
	return sb.String()
}
