package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	log.WithContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Fatalf("expected request id in JSON output, got %s", buf.String())
	}
}

func TestUpstreamAttemptIsDebugOnly(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("production", &buf).UpstreamAttempt("areaCode2", 1, "ok", time.Millisecond)
	if buf.Len() != 0 {
		t.Fatalf("expected no debug output in production, got %s", buf.String())
	}

	buf.Reset()
	NewWithWriter("development", &buf).UpstreamAttempt("areaCode2", 1, "ok", time.Millisecond)
	if !strings.Contains(buf.String(), "upstream_attempt") {
		t.Fatalf("expected debug output in development, got %s", buf.String())
	}
}
