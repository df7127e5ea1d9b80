package llm

import "strings"

// ExtractJSON pulls a JSON object out of a free-form model reply: markdown
// code fences are stripped and anything outside the outermost braces is
// discarded. Returns "" when no object is present.
func ExtractJSON(response string) string {
	s := strings.TrimSpace(response)

	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	} else if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(s[start : end+1])
}
