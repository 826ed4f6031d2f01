package roster

import "strings"

// deadheadPrefix marks a positioning segment in the summary, e.g.
// "DH/UJ100 ABC-DEF".
const deadheadPrefix = "DH/"

type flightSummary struct {
	flightNumber string
	role         string
	origin       string
	destination  string
	deadhead     bool
}

type dutySummary struct {
	typeCode NonFlightType
	location string
}

// classifyFlightSummary matches "<FLIGHTNO> [(<ROLE>)] <ORIG>-<DEST>".
func classifyFlightSummary(summary string) (flightSummary, bool) {
	tokens := strings.Fields(summary)
	if len(tokens) < 2 || len(tokens) > 3 {
		return flightSummary{}, false
	}

	var fs flightSummary
	numTok := tokens[0]
	if strings.HasPrefix(numTok, deadheadPrefix) {
		fs.deadhead = true
		numTok = numTok[len(deadheadPrefix):]
	}
	num, ok := parseFlightNumber(numTok)
	if !ok {
		return flightSummary{}, false
	}
	fs.flightNumber = num

	routeTok := tokens[len(tokens)-1]
	if len(tokens) == 3 {
		role, ok := parseRoleToken(tokens[1])
		if !ok {
			return flightSummary{}, false
		}
		fs.role = role
	}

	orig, dest, ok := parseRoute(routeTok)
	if !ok {
		return flightSummary{}, false
	}
	fs.origin = orig
	fs.destination = dest
	return fs, true
}

// classifyDutySummary matches "<TYPECODE> <LOCATION>" against the fixed
// non-flight vocabulary.
func classifyDutySummary(summary string) (dutySummary, bool) {
	tokens := strings.Fields(summary)
	if len(tokens) != 2 {
		return dutySummary{}, false
	}
	typeCode, ok := ParseNonFlightType(tokens[0])
	if !ok {
		return dutySummary{}, false
	}
	if !isLocationCode(tokens[1]) {
		return dutySummary{}, false
	}
	return dutySummary{typeCode: typeCode, location: tokens[1]}, true
}

// parseFlightNumber validates an airline flight number: a two-character
// designator containing at least one letter, one to four digits, and an
// optional single letter suffix.
func parseFlightNumber(s string) (string, bool) {
	if len(s) < 3 || len(s) > 7 {
		return "", false
	}
	d0, d1 := s[0], s[1]
	if !isAlnumUpper(d0) || !isAlnumUpper(d1) {
		return "", false
	}
	if !isUpper(d0) && !isUpper(d1) {
		return "", false
	}

	rest := s[2:]
	digits := 0
	for digits < len(rest) && isDigit(rest[digits]) {
		digits++
	}
	if digits < 1 || digits > 4 {
		return "", false
	}
	suffix := rest[digits:]
	if len(suffix) > 1 || (len(suffix) == 1 && !isUpper(suffix[0])) {
		return "", false
	}
	return s, true
}

func parseRoute(s string) (string, string, bool) {
	orig, dest, ok := strings.Cut(s, "-")
	if !ok || !isAirportCode(orig) || !isAirportCode(dest) {
		return "", "", false
	}
	return orig, dest, true
}

func parseRoleToken(s string) (string, bool) {
	if len(s) < 3 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	if !isUpperAlpha(inner) || len(inner) > 4 {
		return "", false
	}
	return inner, true
}

func isAirportCode(s string) bool {
	return len(s) == 3 && isUpperAlpha(s)
}

func isLocationCode(s string) bool {
	return (len(s) == 3 || len(s) == 4) && isUpperAlpha(s)
}

func isUpperAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isUpper(s[i]) {
			return false
		}
	}
	return true
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnumUpper(c byte) bool { return isUpper(c) || isDigit(c) }
