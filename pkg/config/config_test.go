package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "ensalamento", cfg.Database.Name)
	assert.True(t, cfg.Occupancy.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Occupancy.CacheTTL)
	assert.Equal(t, time.Hour, cfg.Exports.SignedURLTTL)
	assert.Equal(t, 5, cfg.Display.AnnouncementLimit)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OCCUPANCY_CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "https://painel.escola.br, ,https://tv.escola.br")
	t.Setenv("JWT_EXPIRATION", "not-a-duration")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.Occupancy.CacheTTL)
	assert.Equal(t, []string{"https://painel.escola.br", "https://tv.escola.br"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration, "invalid durations fall back")
}
