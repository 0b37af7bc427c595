package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestClientIDRoundTrip(t *testing.T) {
	ctx := WithClientID(context.Background(), 7)
	if got := ClientIDFromContext(ctx); got != 7 {
		t.Errorf("ClientIDFromContext() = %d, want 7", got)
	}
	if got := ClientIDFromContext(context.Background()); got != 0 {
		t.Errorf("ClientIDFromContext() on empty context = %d, want 0", got)
	}
}

func TestFromContext_AttachesClientID(t *testing.T) {
	var buf bytes.Buffer
	base := NewQuiet(&buf)

	ctx := WithClientID(context.Background(), 7)
	FromContext(ctx, base).Warn("submitted")

	if !strings.Contains(buf.String(), "client_id=7") {
		t.Errorf("log line missing client_id: %q", buf.String())
	}
}

func TestFromContext_NoClientID(t *testing.T) {
	var buf bytes.Buffer
	base := NewQuiet(&buf)

	FromContext(context.Background(), base).Warn("submitted")

	if strings.Contains(buf.String(), "client_id") {
		t.Errorf("log line should not carry client_id: %q", buf.String())
	}
}

func TestNewQuiet_SuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewQuiet(&buf)

	log.Info("chatty")
	if buf.Len() != 0 {
		t.Errorf("info output should be suppressed, got %q", buf.String())
	}

	log.Warn("important")
	if buf.Len() == 0 {
		t.Error("warnings should be written")
	}
}

func TestNew_EmitsJSON(t *testing.T) {
	// New writes to stdout; check the handler shape indirectly by building
	// the same handler over a buffer.
	var buf bytes.Buffer
	log := newWithWriter(&buf)
	log.Info("hello", "key", "value")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "hello" || record["key"] != "value" {
		t.Errorf("unexpected record: %v", record)
	}
}
