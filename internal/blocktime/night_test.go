package blocktime

import "testing"

func TestNightMinutes(t *testing.T) {
	rule := DefaultNightRule()

	tests := []struct {
		name string
		out  ClockTime
		in   ClockTime
		want int
	}{
		{"day flight", ClockTime{8, 0}, ClockTime{9, 30}, 0},
		{"both endpoints at night", ClockTime{20, 0}, ClockTime{23, 0}, 144}, // 80% of 180
		{"overnight both at night", ClockTime{23, 30}, ClockTime{1, 30}, 96}, // 80% of 120
		{"early morning both at night", ClockTime{4, 0}, ClockTime{5, 30}, 72},
		{"departure at night only", ClockTime{5, 0}, ClockTime{7, 0}, 48},    // 40% of 120
		{"arrival at night only", ClockTime{13, 0}, ClockTime{20, 0}, 168},  // 40% of 420, pre-dusk departure
		{"dusk departure night arrival", ClockTime{17, 0}, ClockTime{21, 0}, 96}, // 80% of 19:00-21:00
		{"dusk departure early-morning arrival", ClockTime{16, 0}, ClockTime{1, 30}, 312}, // 80% of 19:00-01:30
		{"afternoon into evening boundary", ClockTime{14, 0}, ClockTime{19, 0}, 120}, // one endpoint, 40% of 300
		{"zero block", ClockTime{12, 0}, ClockTime{12, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule.NightMinutes(tt.out, tt.in); got != tt.want {
				t.Fatalf("NightMinutes(%s, %s) = %d, want %d", tt.out, tt.in, got, tt.want)
			}
		})
	}
}

func TestNightMinutesDuskTakesPrecedenceOverSingleEndpoint(t *testing.T) {
	rule := DefaultNightRule()
	// 17:00 departure is dusk, 20:00 arrival is in the window. The dusk
	// attribution (80% of the post-19:00 hour) applies, not the flat 40%
	// of the whole three-hour block.
	got := rule.NightMinutes(ClockTime{17, 0}, ClockTime{20, 0})
	if got != 48 {
		t.Fatalf("NightMinutes = %d, want 48", got)
	}
}

func TestNightRuleInWindow(t *testing.T) {
	rule := DefaultNightRule()
	tests := []struct {
		c    ClockTime
		want bool
	}{
		{ClockTime{19, 0}, true},
		{ClockTime{23, 59}, true},
		{ClockTime{0, 0}, true},
		{ClockTime{5, 59}, true},
		{ClockTime{6, 0}, false},
		{ClockTime{18, 59}, false},
		{ClockTime{12, 0}, false},
	}
	for _, tt := range tests {
		if got := rule.InWindow(tt.c); got != tt.want {
			t.Errorf("InWindow(%s) = %v, want %v", tt.c, got, tt.want)
		}
	}
}
