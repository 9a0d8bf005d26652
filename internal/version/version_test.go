package version

import "testing"

func TestUserAgent(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "1.2.3"
	if got := UserAgent(); got != "betfair-soap/1.2.3" {
		t.Errorf("UserAgent() = %q, want %q", got, "betfair-soap/1.2.3")
	}
	if got := String(); got != "1.2.3 (unknown) built unknown" {
		t.Errorf("String() = %q", got)
	}
}
