package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerNotifier_LogsCode(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(zerolog.New(&buf))

	if err := n.NotifyOTP(context.Background(), "a@example.com", "123456"); err != nil {
		t.Fatalf("NotifyOTP: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["message"] != "otp issued" || line["email"] != "a@example.com" || line["otp"] != "123456" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestLoggerNotifier_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(zerolog.New(&buf))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.NotifyOTP(ctx, "a@example.com", "123456"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged, got %q", buf.String())
	}
}
