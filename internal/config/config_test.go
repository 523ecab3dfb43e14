package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("REPORTING_TIMEZONE", "UTC")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "clinic", cfg.Database.Name)
	assert.Equal(t, 720, cfg.JWTExpirationMinutes)
	assert.Equal(t, "UTC", cfg.ReportingLocation().String())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_NAME", "clinic_test")
	t.Setenv("JWT_EXPIRATION_MINUTES", "60")
	t.Setenv("REPORTING_TIMEZONE", "UTC")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "clinic_test", cfg.Database.Name)
	assert.Equal(t, 60, cfg.JWTExpirationMinutes)
}

func TestLoadConfigBadExpiry(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_MINUTES", "soon")
	t.Setenv("REPORTING_TIMEZONE", "UTC")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigBadTimezone(t *testing.T) {
	t.Setenv("REPORTING_TIMEZONE", "Mars/Olympus_Mons")

	_, err := LoadConfig()
	assert.Error(t, err)
}
