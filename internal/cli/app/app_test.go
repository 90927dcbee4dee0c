package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aryankumar/podcleaner/internal/util"
	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, logFile string) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-file", "", "")
	flags.Bool("no-color", false, "")
	if logFile != "" {
		if err := flags.Set("log-file", logFile); err != nil {
			t.Fatalf("failed to set log-file: %v", err)
		}
	}
	return flags
}

func TestConfigure_LogFileReceivesRecords(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	logFile := filepath.Join(t.TempDir(), "logs", "pod_cleaner.log")
	errOut := &bytes.Buffer{}
	a := New(nil, &bytes.Buffer{}, errOut)

	if err := a.Configure("", newFlags(t, logFile)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	if a.logFile == nil {
		t.Fatal("expected a rotating log file writer")
	}
	if a.logFile.MaxSize != LogFileMaxSizeMB || a.logFile.MaxBackups != LogFileMaxBackups {
		t.Errorf("rotation = %dMB x %d, want %dMB x %d",
			a.logFile.MaxSize, a.logFile.MaxBackups, LogFileMaxSizeMB, LogFileMaxBackups)
	}

	a.Logger.Info("deleted pod", "cluster", "alpha", "pod", "ns1/p1")

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	for _, want := range []string{"deleted pod", "cluster=alpha", "pod=ns1/p1"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q:\n%s", want, data)
		}
	}

	if !strings.Contains(errOut.String(), "deleted pod") {
		t.Errorf("stderr missing log record:\n%s", errOut.String())
	}
}

func TestConfigure_NoLogFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	a := New(nil, &bytes.Buffer{}, &bytes.Buffer{})
	if err := a.Configure("", newFlags(t, "")); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	if a.logFile != nil {
		t.Error("expected no log file writer")
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestConfigure_UnusableLogDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := New(nil, &bytes.Buffer{}, &bytes.Buffer{})
	err := a.Configure("", newFlags(t, filepath.Join(blocker, "pod_cleaner.log")))
	if !util.IsConfigurationError(err) {
		t.Fatalf("Configure() error = %v, want configuration error", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			out := &bytes.Buffer{}
			a := New(strings.NewReader(tt.input), out, &bytes.Buffer{})

			if got := a.Confirm("Delete?"); got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "Delete? [y/N]: ") {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}
