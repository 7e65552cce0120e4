package settings

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if v, err := s.Get(ctx, KeyClientID); err != nil || v != "" {
		t.Fatalf("Get on empty store = %q, %v; want \"\", nil", v, err)
	}

	if err := s.Set(ctx, KeyClientID, "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := s.Get(ctx, KeyClientID); v != "abc" {
		t.Fatalf("Get = %q; want abc", v)
	}

	if err := s.Delete(ctx, KeyClientID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if v, _ := s.Get(ctx, KeyClientID); v != "" {
		t.Fatalf("Get after delete = %q; want \"\"", v)
	}
}
