package roster

import (
	"strings"

	"github.com/crewlog/crewlog/internal/blocktime"
)

// Description tag scanners. Each pattern is extracted independently;
// absence of one never invalidates the others.

// scanZuluTag finds "<TAG> <HHMM>Z" in the body and returns the clock
// time. The first well-formed occurrence wins.
func scanZuluTag(body, tag string) (blocktime.ClockTime, bool) {
	for _, line := range strings.Split(body, "\n") {
		tokens := strings.Fields(line)
		for i, tok := range tokens {
			if tok != tag || i+1 >= len(tokens) {
				continue
			}
			next := tokens[i+1]
			if len(next) < 4 || next[len(next)-1] != 'Z' {
				continue
			}
			if c, ok := blocktime.ParseCompact(next[:len(next)-1]); ok {
				return c, true
			}
		}
	}
	return blocktime.ClockTime{}, false
}

// scanInterval finds "<TAG> <HH>:<MM>" (tag carries its colon, e.g.
// "Duration:" or "BLH:") and returns total minutes. The value may be
// glued to the tag or follow as the next token.
func scanInterval(body, tag string) (int, bool) {
	for _, line := range strings.Split(body, "\n") {
		tokens := strings.Fields(line)
		for i, tok := range tokens {
			var candidate string
			switch {
			case tok == tag && i+1 < len(tokens):
				candidate = tokens[i+1]
			case strings.HasPrefix(tok, tag) && len(tok) > len(tag):
				candidate = tok[len(tag):]
			default:
				continue
			}
			if m, ok := blocktime.ParseHoursMinutes(candidate); ok {
				return m, true
			}
		}
	}
	return 0, false
}

// scanAircraft extracts "Aircraft: <TYPE> - ... - <TAIL>".
func scanAircraft(body string) (string, string, bool) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "Aircraft:")
		if !ok {
			continue
		}
		parts := strings.Split(rest, " - ")
		if len(parts) < 2 {
			continue
		}
		acType := strings.TrimSpace(parts[0])
		tail := strings.TrimSpace(parts[len(parts)-1])
		if acType == "" || tail == "" {
			continue
		}
		return acType, tail, true
	}
	return "", "", false
}

// scanRoleTag recovers the role from an "RD: <CODE[,CODE...]>" tag; the
// first code wins.
func scanRoleTag(body string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "RD:")
		if !ok {
			continue
		}
		first, _, _ := strings.Cut(rest, ",")
		first = strings.TrimSpace(first)
		if first != "" {
			return first, true
		}
	}
	return "", false
}

// scanDutyLabel extracts a "(label)" override from the first non-empty
// body line of a duty event.
func scanDutyLabel(body string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "(") {
			return "", false
		}
		end := strings.IndexByte(line, ')')
		if end < 0 {
			return "", false
		}
		label := strings.TrimSpace(line[1:end])
		if label == "" {
			return "", false
		}
		return label, true
	}
	return "", false
}

// scanActivityNotes extracts the trailing "Activity notes:" free-text
// block: the remainder of the marker line plus everything after it.
func scanActivityNotes(body string) (string, bool) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Activity notes:")
		if !ok {
			continue
		}
		parts := []string{}
		if r := strings.TrimSpace(rest); r != "" {
			parts = append(parts, r)
		}
		for _, follow := range lines[i+1:] {
			parts = append(parts, strings.TrimSpace(follow))
		}
		return strings.TrimSpace(strings.Join(parts, "\n")), true
	}
	return "", false
}

// bodyMarksDeadhead reports a positioning segment flagged in free text
// rather than by flight-number prefix.
func bodyMarksDeadhead(body string) bool {
	return strings.Contains(strings.ToLower(body), "deadhead")
}
