package output

import (
	"bytes"
	"testing"
)

func TestNewColorScheme(t *testing.T) {
	tests := []struct {
		name             string
		noColor          bool
		expectedDisabled bool
	}{
		{
			name:             "colors disabled with noColor flag",
			noColor:          true,
			expectedDisabled: true,
		},
		{
			name:             "colors disabled for non-TTY",
			noColor:          false,
			expectedDisabled: true, // bytes.Buffer is not a TTY
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := NewColorScheme(&bytes.Buffer{}, tt.noColor)

			if cs == nil {
				t.Fatal("NewColorScheme returned nil")
			}
			if cs.Disabled != tt.expectedDisabled {
				t.Errorf("Disabled = %v, want %v", cs.Disabled, tt.expectedDisabled)
			}
			if cs.ClusterName == nil || cs.Success == nil || cs.Error == nil || cs.Warning == nil || cs.Header == nil {
				t.Error("color function is nil")
			}
		})
	}
}

func TestColorScheme_Functions(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	tests := []struct {
		name     string
		fn       func(format string, a ...interface{}) string
		format   string
		args     []interface{}
		expected string
	}{
		{name: "ClusterName", fn: cs.ClusterName, format: "cluster-%d", args: []interface{}{1}, expected: "cluster-1"},
		{name: "Success", fn: cs.Success, format: "success: %s", args: []interface{}{"ok"}, expected: "success: ok"},
		{name: "Error", fn: cs.Error, format: "error: %s", args: []interface{}{"failed"}, expected: "error: failed"},
		{name: "Warning", fn: cs.Warning, format: "warning: %s", args: []interface{}{"caution"}, expected: "warning: caution"},
		{name: "Header", fn: cs.Header, format: "HEADER", expected: "HEADER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.fn(tt.format, tt.args...)
			if result != tt.expected {
				t.Errorf("got %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestColorScheme_StatusColor(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	if got := cs.StatusColor(false)("OK"); got != "OK" {
		t.Errorf("StatusColor(false) = %q, want OK", got)
	}
	if got := cs.StatusColor(true)("FAILED"); got != "FAILED" {
		t.Errorf("StatusColor(true) = %q, want FAILED", got)
	}
}

func TestColorScheme_PodStatusColor(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	for _, status := range []string{"Error", "Unknown", "Running"} {
		if got := cs.PodStatusColor(status); got != status {
			t.Errorf("PodStatusColor(%q) = %q with colors disabled", status, got)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if isTTY(&bytes.Buffer{}) {
		t.Error("isTTY(bytes.Buffer) = true, want false")
	}
}
