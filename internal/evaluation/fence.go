package evaluation

import "strings"

// StripFences removes markdown code fences (optionally tagged with a language)
// and any chatter surrounding the outermost JSON object in a model reply.
func StripFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 {
			tag := strings.TrimSpace(text[:idx])
			if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
				text = text[idx+1:]
			}
		} else {
			text = strings.TrimPrefix(text, "json")
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return text
}
