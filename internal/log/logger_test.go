// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid json log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestConfigure_ServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "lensd-test", Version: "v0.0.1"})
	defer Configure(Config{})

	l := WithComponent("tracker")
	l.Info().Str(FieldEvent, "test.event").Msg("hello")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	entry := lines[0]
	if entry["service"] != "lensd-test" {
		t.Errorf("service = %v", entry["service"])
	}
	if entry["version"] != "v0.0.1" {
		t.Errorf("version = %v", entry["version"])
	}
	if entry[FieldComponent] != "tracker" {
		t.Errorf("component = %v", entry[FieldComponent])
	}
	if entry[FieldEvent] != "test.event" {
		t.Errorf("event = %v", entry[FieldEvent])
	}
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if !SetLevel("warn") {
		t.Fatal("expected warn to be accepted")
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("global level = %v, want warn", zerolog.GlobalLevel())
	}
	if SetLevel("shouting") {
		t.Error("expected unknown level to be rejected")
	}
	if SetLevel("") {
		t.Error("expected empty level to be rejected")
	}
}

func TestMiddleware_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})
	defer Configure(Config{})

	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/queryapi/queries/x", nil)
	req = req.WithContext(ContextWithRequestID(req.Context(), "req-9"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 access log line, got %d", len(lines))
	}
	entry := lines[0]
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry[FieldStatus] != float64(http.StatusNotFound) {
		t.Errorf("status = %v", entry[FieldStatus])
	}
	if entry[FieldRequestID] != "req-9" {
		t.Errorf("request_id = %v", entry[FieldRequestID])
	}
}
