package logger

import (
	"context"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	l, _ := newBufferLogger(t, "info", "json")

	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("FromContext() did not return the stored logger")
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Error("FromContext() returned nil")
	}
}

func TestRequestIDFromContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_42")
	if got := RequestIDFromContext(ctx); got != "req_42" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q", got)
	}
}

func TestL_WithRequestID(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req_7")
	L(ctx).Info("no context passed")

	if got := decode(t, buf)["request_id"]; got != "req_7" {
		t.Errorf("request_id = %v", got)
	}
}

func TestContextKeyCollision(t *testing.T) {
	ctx := context.WithValue(context.Background(), "nsremover.request_id", "other") //nolint:staticcheck
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("string key collided with typed key: %q", got)
	}
}
