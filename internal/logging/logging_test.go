package logging

import "testing"

func TestParseLogLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug", LogLevelDebug, false},
		{"info", LogLevelInfo, false},
		{"warning", LogLevelWarning, false},
		{"error", LogLevelError, false},
		{"", LogLevelError, true},
		{"verbose", LogLevelError, true},
		{"DEBUG", LogLevelError, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, err := ParseLogLevel(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error for input %q, got: %v", tc.input, err)
			}
			if level != tc.expected {
				t.Errorf("Expected level %v for input %q, got %v", tc.expected, tc.input, level)
			}
		})
	}
}

func TestLogLevelString(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "debug"},
		{LogLevelInfo, "info"},
		{LogLevelWarning, "warning"},
		{LogLevelError, "error"},
		{LogLevel(42), "error"},
	}

	for _, tc := range testCases {
		if got := tc.level.String(); got != tc.expected {
			t.Errorf("Expected %q for level %d, got %q", tc.expected, tc.level, got)
		}
	}
}

func TestLogLevelOrdering(t *testing.T) {
	if !(LogLevelDebug < LogLevelInfo && LogLevelInfo < LogLevelWarning && LogLevelWarning < LogLevelError) {
		t.Error("Log levels must be ordered from most to least verbose")
	}
}
