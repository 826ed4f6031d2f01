package roster

import (
	"strings"
	"time"

	"github.com/crewlog/crewlog/internal/blocktime"
)

// zuluLayout matches the feed's timestamp form, always UTC.
const zuluLayout = "20060102T150405Z"

const (
	beginMarker = "BEGIN:VEVENT"
	endMarker   = "END:VEVENT"
)

var requiredFields = []string{"SUMMARY", "DESCRIPTION", "UID", "DTSTART", "DTEND"}

// Parse tokenizes raw feed text into flight and non-flight events.
// Records that cannot be classified or lack required fields are skipped
// and reported as diagnostics; Parse never fails on a single bad record.
func Parse(raw string) ([]FlightEvent, []NonFlightEvent, []Diagnostic) {
	var (
		flights []FlightEvent
		events  []NonFlightEvent
		diags   []Diagnostic
	)

	inEvent := false
	fields := map[string]string{}
	for _, line := range unfoldLines(raw) {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == beginMarker:
			inEvent = true
			fields = map[string]string{}
		case trimmed == endMarker:
			if inEvent && len(fields) > 0 {
				flight, event, diag := buildEvent(fields)
				switch {
				case flight != nil:
					flights = append(flights, *flight)
				case event != nil:
					events = append(events, *event)
				case diag != nil:
					diags = append(diags, *diag)
				}
			}
			inEvent = false
			fields = nil
		case inEvent:
			if key, value, ok := parseFieldLine(line); ok {
				fields[key] = value
			}
		}
	}
	return flights, events, diags
}

// parseFieldLine splits "KEY[;PARAM=...]:VALUE"; only the text before
// the first ';' is the key, parameters are discarded.
func parseFieldLine(line string) (string, string, bool) {
	rawKey, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	key, _, _ := strings.Cut(rawKey, ";")
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

func buildEvent(fields map[string]string) (*FlightEvent, *NonFlightEvent, *Diagnostic) {
	uid := strings.TrimSpace(fields["UID"])
	for _, f := range requiredFields {
		if strings.TrimSpace(fields[f]) == "" {
			return nil, nil, &Diagnostic{UID: uid, Kind: DiagMissingField, Field: f}
		}
	}

	start, err := time.Parse(zuluLayout, strings.TrimSpace(fields["DTSTART"]))
	if err != nil {
		return nil, nil, &Diagnostic{UID: uid, Kind: DiagMalformedField, Field: "DTSTART", Detail: fields["DTSTART"]}
	}
	end, err := time.Parse(zuluLayout, strings.TrimSpace(fields["DTEND"]))
	if err != nil {
		return nil, nil, &Diagnostic{UID: uid, Kind: DiagMalformedField, Field: "DTEND", Detail: fields["DTEND"]}
	}

	summary := strings.TrimSpace(fields["SUMMARY"])
	body := unescapeText(fields["DESCRIPTION"])

	if fs, ok := classifyFlightSummary(summary); ok {
		return buildFlightEvent(fs, uid, start, end, body), nil, nil
	}
	if ds, ok := classifyDutySummary(summary); ok {
		return nil, buildNonFlightEvent(ds, uid, start, end, body), nil
	}
	return nil, nil, &Diagnostic{UID: uid, Kind: DiagUnrecognizedSummary, Field: "SUMMARY", Detail: summary}
}

func buildFlightEvent(fs flightSummary, uid string, start, end time.Time, body string) *FlightEvent {
	ev := &FlightEvent{
		FlightNumber: fs.flightNumber,
		Origin:       fs.origin,
		Destination:  fs.destination,
		Role:         fs.role,
		Deadhead:     fs.deadhead || bodyMarksDeadhead(body),
		SourceUID:    uid,
		Start:        start,
		End:          end,
		Body:         body,
	}
	if ev.Role == "" {
		if role, ok := scanRoleTag(body); ok {
			ev.Role = role
		}
	}

	// Each Zulu tag anchors to the event's start date, rolling past
	// midnight when needed.
	if c, ok := scanZuluTag(body, "CI"); ok {
		ev.CheckIn = blocktime.AnchorAfter(c, start)
	}
	if c, ok := scanZuluTag(body, "STD"); ok {
		ev.ScheduledOut = blocktime.AnchorAfter(c, start)
	}
	if c, ok := scanZuluTag(body, "STA"); ok {
		ev.ScheduledIn = blocktime.AnchorAfter(c, start)
	}
	if c, ok := scanZuluTag(body, "CO"); ok {
		ev.CheckOut = blocktime.AnchorAfter(c, start)
	}
	if m, ok := scanInterval(body, "Duration:"); ok {
		ev.DutyMinutes = m
	}
	if m, ok := scanInterval(body, "BLH:"); ok {
		ev.BlockMinutes = m
	}
	if acType, tail, ok := scanAircraft(body); ok {
		ev.AircraftType = acType
		ev.TailNumber = tail
	}
	return ev
}

func buildNonFlightEvent(ds dutySummary, uid string, start, end time.Time, body string) *NonFlightEvent {
	ev := &NonFlightEvent{
		Type:      ds.typeCode,
		Label:     ds.typeCode.DefaultLabel(),
		Location:  ds.location,
		Start:     start,
		End:       end,
		SourceUID: uid,
		Body:      body,
	}
	if label, ok := scanDutyLabel(body); ok {
		ev.Label = label
	}
	if m, ok := scanInterval(body, "Duration:"); ok {
		ev.DurationMinutes = m
	}
	if notes, ok := scanActivityNotes(body); ok {
		ev.Notes = notes
	}
	return ev
}
