package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/petrofore/wellrisk/pkg/errors"
)

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ToLogLevel(tt.in); got != tt.want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrAttrAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerTo(&buf, "info")

	err := errors.NewConfigurationError("risk.Run", "iterations", "must be positive", 0)
	slog.Error("run failed", ErrAttr(err))

	var record map[string]any
	if uerr := json.Unmarshal(buf.Bytes(), &record); uerr != nil {
		t.Fatalf("log output is not JSON: %v\n%s", uerr, buf.String())
	}

	trace, ok := record[StacktraceAttrKey].(string)
	if !ok || trace == "" {
		t.Fatalf("expected %q attribute, got: %s", StacktraceAttrKey, buf.String())
	}
	if msg, _ := record["msg"].(string); msg != "run failed" {
		t.Errorf("msg = %q, want %q", msg, "run failed")
	}
}

func TestPlainRecordHasNoStacktrace(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerTo(&buf, "info")

	slog.Info("hello", "region", "region_0")

	if strings.Contains(buf.String(), StacktraceAttrKey) {
		t.Errorf("unexpected stacktrace attribute: %s", buf.String())
	}
}
