package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("BASIC_AUTH_CREDS", "")

	cfg, err := NewConfig(zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 25, cfg.Upstream.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Upstream.PageInterval)
	assert.Equal(t, 15*time.Second, cfg.Dispatch.Cooldown)
	assert.Equal(t, 2000, cfg.Dispatch.MaxMessageLength)
	assert.Equal(t, "json", cfg.Snapshots.Backend)
	assert.Equal(t, "2024RS", cfg.Render.Session)
	assert.Empty(t, cfg.GetCreds())
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("BASIC_AUTH_CREDS", "admin:secret, ops : hunter2")
	t.Setenv("UPSTREAM_PAGE_SIZE", "50")
	t.Setenv("POLL_INTERVAL", "1h")
	t.Setenv("MOTD_VERSION", "3")

	cfg, err := NewConfig(zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 50, cfg.Upstream.PageSize)
	assert.Equal(t, time.Hour, cfg.Poll.Interval)
	assert.Equal(t, 3, cfg.MOTD.Version)
	assert.Equal(t, map[string]string{"admin": "secret", "ops": "hunter2"}, cfg.GetCreds())
}

func TestNewConfigRejectsBadCredsOutsideDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("BASIC_AUTH_CREDS", "admin")

	_, err := NewConfig(zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "delimited by a colon")
}
