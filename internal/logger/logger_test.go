package logger

import "testing"

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"debug", DebugLevel, false},
		{"info", InfoLevel, false},
		{"", InfoLevel, false},
		{"WARN", WarnLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	defer SetLevel(InfoLevel)

	SetLevel(ErrorLevel)
	if enabled(WarnLevel) {
		t.Error("warn should be suppressed at error level")
	}
	if !enabled(ErrorLevel) {
		t.Error("error should be emitted at error level")
	}

	SetLevel(TraceLevel)
	if !enabled(DebugLevel) {
		t.Error("debug should be emitted at trace level")
	}
}
