package roster

import "testing"

func TestParseFlightNumber(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"UJ100", true},
		{"U2155", true},
		{"2U99", true},
		{"UJ1", true},
		{"UJ1234", true},
		{"UJ100A", true},
		{"UJ12345", false}, // five digits
		{"12100", false},   // no letter in designator
		{"U100", true},     // "U1" designator + "00"
		{"UJ", false},      // no digits
		{"UJ1AA", false},   // two-letter suffix
		{"uj100", false},   // lowercase
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, ok := parseFlightNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseFlightNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}

func TestClassifyFlightSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		ok      bool
		want    flightSummary
	}{
		{
			"plain", "UJ100 KRK-WAW", true,
			flightSummary{flightNumber: "UJ100", origin: "KRK", destination: "WAW"},
		},
		{
			"with role", "UJ100 (CPT) KRK-WAW", true,
			flightSummary{flightNumber: "UJ100", role: "CPT", origin: "KRK", destination: "WAW"},
		},
		{
			"deadhead prefix", "DH/GT55 WAW-GDN", true,
			flightSummary{flightNumber: "GT55", origin: "WAW", destination: "GDN", deadhead: true},
		},
		{"four-letter airport", "UJ100 KRKX-WAW", false, flightSummary{}},
		{"missing route", "UJ100", false, flightSummary{}},
		{"bad role token", "UJ100 CPT KRK-WAW", false, flightSummary{}},
		{"too many tokens", "UJ100 (CPT) KRK-WAW EXTRA", false, flightSummary{}},
		{"lowercase route", "UJ100 krk-waw", false, flightSummary{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifyFlightSummary(tt.summary)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassifyDutySummary(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		ok      bool
	}{
		{"standby", "SBY KRK", true},
		{"four-letter location", "TRG WROC", true},
		{"unknown code", "ZZZ KRK", false},
		{"missing location", "REST", false},
		{"extra tokens", "REST KRK NOW", false},
		{"numeric location", "REST KR1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := classifyDutySummary(tt.summary)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
		})
	}
}

func TestUnfoldLines(t *testing.T) {
	raw := "KEY:one\r\n two\r\n\tthree\r\nNEXT:value"
	lines := unfoldLines(raw)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}
	if lines[0] != "KEY:onetwothree" {
		t.Fatalf("unfolded = %q, want KEY:onetwothree", lines[0])
	}
}

func TestUnfoldStripsExactlyOneWhitespaceChar(t *testing.T) {
	raw := "KEY:a\r\n  b" // two spaces: one is the fold marker, one is content
	lines := unfoldLines(raw)
	if len(lines) != 1 || lines[0] != "KEY:a b" {
		t.Fatalf("unfolded = %q, want [KEY:a b]", lines)
	}
}

func TestUnescapeText(t *testing.T) {
	if got := unescapeText(`a\nb\nc`); got != "a\nb\nc" {
		t.Fatalf("unescapeText = %q", got)
	}
	if got := unescapeText("plain"); got != "plain" {
		t.Fatalf("unescapeText = %q", got)
	}
}
