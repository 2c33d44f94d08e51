package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
)

func TestTestLogger_Levels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("debug message", "key", "value")
	testLogger.Info("info message", RoundKey, 3)
	testLogger.Warn("warning message")
	testLogger.Error("error message", fmt.Errorf("boom"), ErrorCodeKey, ErrorNumerical)

	if strings.Contains(buffer.String(), "debug message") {
		t.Error("Debug message should be filtered at info level")
	}
	for _, msg := range []string{"info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}
	if !testLogger.ContainsField(RoundKey, 3.0) {
		t.Error("Expected round field")
	}
	if !testLogger.ContainsField(ErrorKey, "boom") {
		t.Error("Expected leading error to be recorded under the error key")
	}
}

func TestTestLogger_With(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	clientLogger := testLogger.With(ComponentKey, "optim", ClientIDKey, 7)
	clientLogger.Info("round done")

	if !testLogger.ContainsField(ComponentKey, "optim") {
		t.Error("Component context not found")
	}
	if !testLogger.ContainsField(ClientIDKey, 7.0) {
		t.Error("Client context not found")
	}

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestZerologLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug).With(ComponentKey, "federated")

	logger.Info("aggregated", RoundKey, 2, LossKey, 0.25)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["message"] != "aggregated" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry[ComponentKey] != "federated" {
		t.Errorf("component = %v", entry[ComponentKey])
	}
	if entry[RoundKey] != 2.0 {
		t.Errorf("round = %v", entry[RoundKey])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestZerologLogger_ErrorCarriesStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	err := errors.NewDimensionError("RunSGD", 3, 2, 1)
	logger.Error("round failed", err, ClientIDKey, 1)

	var entry map[string]interface{}
	if jerr := json.Unmarshal(buf.Bytes(), &entry); jerr != nil {
		t.Fatalf("output is not JSON: %v", jerr)
	}
	if !strings.Contains(fmt.Sprint(entry[ErrorKey]), "dimension mismatch") {
		t.Errorf("error field = %v", entry[ErrorKey])
	}
	if st, _ := entry[StacktraceKey].(string); st == "" {
		t.Error("expected stacktrace field")
	}
	detail, ok := entry["error.detail"].(map[string]interface{})
	if !ok || detail["type"] != "DimensionError" {
		t.Errorf("expected structured DimensionError detail, got %v", entry["error.detail"])
	}
}

func TestZerologLogger_Enabled(t *testing.T) {
	logger := NewZerologLogger(&bytes.Buffer{}, LevelWarn)
	ctx := context.Background()

	if logger.Enabled(ctx, LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestSetupLoggerTo_RoutesWarnings(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)
	defer errors.SetZerologWarnFunc(nil)

	var buf bytes.Buffer
	SetupLoggerTo(&buf, LevelInfo)
	errors.Warn(errors.NewConvergenceWarning("SCAFFOLD", 5, "objective increased"))

	if !strings.Contains(buf.String(), "objective increased") {
		t.Errorf("warning not routed to zerolog: %s", buf.String())
	}
}

func TestToLogLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
	}
	for in, want := range tests {
		if got := ToLogLevel(in); got != want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", in, got, want)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown level")
		}
	}()
	ToLogLevel("verbose")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	if err != nil || level != LevelWarn {
		t.Errorf("ParseLevel(\"warn\") = %v, %v", level, err)
	}

	_, err = ParseLevel("verbose")
	var valErr *errors.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.ParamName != "log_level" {
		t.Errorf("ParamName = %q, want log_level", valErr.ParamName)
	}
}
