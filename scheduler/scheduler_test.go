package scheduler

import (
	"testing"

	"efewire/notices"
	"efewire/settings"
)

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New("not a cron spec", nil, settings.NewMemoryStore(), notices.New())
	if err == nil {
		t.Fatal("expected an error for an invalid cron expression")
	}
}

func TestNewAcceptsDescriptors(t *testing.T) {
	for _, spec := range []string{"@every 1h", "0 * * * *", "*/15 * * * *"} {
		if _, err := New(spec, nil, settings.NewMemoryStore(), notices.New()); err != nil {
			t.Fatalf("New(%q) error: %v", spec, err)
		}
	}
}
