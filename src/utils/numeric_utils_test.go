package utils

import "testing"

func TestParseLocaleFloat(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"decimal comma", "329,4", 329.4},
		{"thousands space and comma", "1 234,56", 1234.56},
		{"non-breaking space", "1 234,56", 1234.56},
		{"currency symbol stripped", "$120.50", 120.5},
		{"suffix stripped", "99,90 EUR", 99.9},
		{"already numeric", float64(42.5), 42.5},
		{"integer", 7, 7},
		{"negative", "-30", -30},
		{"empty string", "", 0},
		{"em dash placeholder", "—", 0},
		{"nil", nil, 0},
		{"garbage", "abc", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseLocaleFloat(tc.in); got != tc.want {
				t.Fatalf("ParseLocaleFloat(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
