package output

import (
	"fmt"
	"testing"
)

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name         string
		format       Format
		opts         []Option
		expectedType string
	}{
		{name: "table formatter default", format: FormatTable, expectedType: "*output.TableFormatter"},
		{name: "json formatter", format: FormatJSON, expectedType: "*output.JSONFormatter"},
		{name: "yaml formatter", format: FormatYAML, expectedType: "*output.YAMLFormatter"},
		{name: "empty format defaults to table", format: "", expectedType: "*output.TableFormatter"},
		{name: "unknown format defaults to table", format: "unknown", expectedType: "*output.TableFormatter"},
		{
			name:         "table with multiple options",
			format:       FormatTable,
			opts:         []Option{WithNoColor(true), WithNoHeaders(true), WithWide(true)},
			expectedType: "*output.TableFormatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewFormatter(tt.format, tt.opts...)
			if formatter == nil {
				t.Fatal("NewFormatter returned nil")
			}
			if got := fmt.Sprintf("%T", formatter); got != tt.expectedType {
				t.Errorf("got type %s, want %s", got, tt.expectedType)
			}
		})
	}
}

func TestNewFormatterOptions(t *testing.T) {
	f, ok := NewFormatter(FormatTable, WithNoColor(true), WithNoHeaders(true), WithWide(true)).(*TableFormatter)
	if !ok {
		t.Fatal("expected *TableFormatter")
	}
	if !f.options.NoColor || !f.options.NoHeaders || !f.options.Wide {
		t.Errorf("options not applied: %+v", f.options)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "table", want: FormatTable},
		{input: "JSON", want: FormatJSON},
		{input: " yaml ", want: FormatYAML},
		{input: "", want: FormatTable},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
