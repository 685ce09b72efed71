package logging

import (
	"context"
	"testing"
)

func TestWithScopeKey(t *testing.T) {
	ctx := context.Background()
	scope := "session-123"

	ctx = WithScopeKey(ctx, scope)
	got := GetScopeKey(ctx)

	if got != scope {
		t.Errorf("GetScopeKey() = %q, want %q", got, scope)
	}
}

func TestGetScopeKey_NotPresent(t *testing.T) {
	ctx := context.Background()
	got := GetScopeKey(ctx)

	if got != "" {
		t.Errorf("GetScopeKey() = %q, want empty string", got)
	}
}
