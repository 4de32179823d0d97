package context

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
}

func TestMissingValuesAreEmpty(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || UserIDFromContext(ctx) != "" || SessionIDFromContext(ctx) != "" {
		t.Fatal("expected empty values")
	}
}

func TestSessionIDRoundTrip(t *testing.T) {
	ctx := WithSessionID(WithUserID(context.Background(), "100"), "500")
	if SessionIDFromContext(ctx) != "500" || UserIDFromContext(ctx) != "100" {
		t.Fatal("expected both ids to survive")
	}
}
