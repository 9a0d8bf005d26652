package api

import (
	"testing"
	"time"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"101234567", 101234567},
		{"-3", -3},
		{"  42  ", 42},
		{"", 0},
		{"1.5", 0},
		{"invalid", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseInt(tt.input); got != tt.want {
				t.Errorf("ParseInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2.52", "2.52"},
		{"1000", "1000"},
		{" 0.5 ", "0.5"},
		{"", "0"},
		{"NaN", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseDecimal(tt.input).String(); got != tt.want {
				t.Errorf("ParseDecimal(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"TRUE", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseBool(tt.input); got != tt.want {
				t.Errorf("ParseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC).UnixMicro()

	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"utc", "2024-03-09T14:30:00Z", want},
		{"offset", "2024-03-09T15:30:00+01:00", want},
		{"fractional", "2024-03-09T14:30:00.000Z", want},
		{"no timezone", "2024-03-09T14:30:00", want},
		{"empty", "", 0},
		{"invalid", "yesterday", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTimestamp(tt.input); got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestNowMicro(t *testing.T) {
	before := time.Now().UnixMicro()
	got := NowMicro()
	after := time.Now().UnixMicro()

	if got < before || got > after {
		t.Errorf("NowMicro() = %d, want between %d and %d", got, before, after)
	}
}
