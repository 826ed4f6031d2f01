// Package testutil provides roster feed builders shared across package
// tests.
package testutil

import "strings"

// VEvent describes one calendar event block for test feeds. Zero-value
// fields are omitted from the rendered block.
type VEvent struct {
	Summary     string
	Description string
	UID         string
	DTStart     string
	DTEnd       string
	Extra       []string // raw lines appended verbatim inside the block
}

// Render produces the BEGIN/END framed block with CRLF line endings, the
// form feeds actually arrive in.
func (e VEvent) Render() string {
	var b strings.Builder
	b.WriteString("BEGIN:VEVENT\r\n")
	writeField(&b, "SUMMARY", e.Summary)
	writeField(&b, "DESCRIPTION", e.Description)
	writeField(&b, "UID", e.UID)
	writeField(&b, "DTSTART", e.DTStart)
	writeField(&b, "DTEND", e.DTEnd)
	for _, line := range e.Extra {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	b.WriteString("END:VEVENT\r\n")
	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(key)
	b.WriteString(":")
	b.WriteString(value)
	b.WriteString("\r\n")
}

// Feed renders a sequence of event blocks wrapped in a calendar
// envelope.
func Feed(events ...VEvent) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	for _, e := range events {
		b.WriteString(e.Render())
	}
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// Flight builds a plausible flight event with the tagged description
// body used throughout the tests.
func Flight(uid, summary, date, startHHMMSS, endHHMMSS string, bodyTags ...string) VEvent {
	body := strings.Join(bodyTags, `\n`)
	return VEvent{
		Summary:     summary,
		Description: body,
		UID:         uid,
		DTStart:     date + "T" + startHHMMSS + "Z",
		DTEnd:       date + "T" + endHHMMSS + "Z",
	}
}
