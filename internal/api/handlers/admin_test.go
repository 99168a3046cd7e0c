package handlers

import (
	"testing"
	"time"

	"github.com/quickloot/backend/internal/config"
)

func TestAdminSessionTTLFollowsConfig(t *testing.T) {
	cfg := &config.Config{SessionTimeoutMin: 90}
	if got := adminSessionTTL(cfg); got != 90*time.Minute {
		t.Errorf("TTL=%v want 90m", got)
	}
}

func TestAdminSessionTTLFallsBackWhenUnset(t *testing.T) {
	for _, minutes := range []int{0, -5} {
		cfg := &config.Config{SessionTimeoutMin: minutes}
		if got := adminSessionTTL(cfg); got != 4*time.Hour {
			t.Errorf("SessionTimeoutMin=%d: TTL=%v want 4h", minutes, got)
		}
	}
}
