package database

import (
	"testing"

	"github.com/kozaktomas/photoid/internal/config"
)

func TestNewPoolRequiresURL(t *testing.T) {
	if _, err := NewPool(nil); err == nil {
		t.Error("expected error for nil config")
	}

	if _, err := NewPool(&config.DatabaseConfig{}); err == nil {
		t.Error("expected error for empty database URL")
	}
}
