package roster

import "strings"

// unfoldLines splits raw feed text into logical lines, reassembling
// folded field values. A physical line starting with a space or tab
// continues the previous logical line; exactly one leading whitespace
// character is stripped before concatenation.
func unfoldLines(raw string) []string {
	physical := splitPhysicalLines(raw)
	var logical []string
	for _, line := range physical {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			if len(logical) == 0 {
				// Continuation with nothing to continue; drop it.
				continue
			}
			logical[len(logical)-1] += line[1:]
			continue
		}
		logical = append(logical, line)
	}
	return logical
}

func splitPhysicalLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return strings.Split(raw, "\n")
}

// unescapeText expands the feed's escaping convention: a literal
// backslash-n sequence represents an embedded newline.
func unescapeText(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
