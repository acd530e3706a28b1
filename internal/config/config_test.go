package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "0 8 * * *", cfg.ReminderCron)
	assert.Equal(t, 3, cfg.ReminderDays)
	assert.NotEmpty(t, cfg.DBConn)
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REMINDER_DAYS", "7")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 7, cfg.ReminderDays)
}

func TestNewConfigRejectsBadReminderDays(t *testing.T) {
	t.Setenv("REMINDER_DAYS", "sometimes")
	_, err := NewConfig()
	assert.Error(t, err)
}
