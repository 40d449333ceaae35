package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("7d")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)

	d, err = ParseDuration(" 90m ")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = ParseDuration("xd")
	assert.Error(t, err)
	_, err = ParseDuration("soon")
	assert.Error(t, err)
}

func TestJWTExpire(t *testing.T) {
	t.Cleanup(func() { Set("JWT_EXPIRE", defaultJWTExpire) })

	Set("JWT_EXPIRE", "12h")
	assert.Equal(t, 12*time.Hour, JWTExpire())

	Set("JWT_EXPIRE", "-1h")
	assert.Equal(t, 7*24*time.Hour, JWTExpire(), "non-positive falls back to a week")

	Set("JWT_EXPIRE", "garbage")
	assert.Equal(t, 7*24*time.Hour, JWTExpire())
}

func TestSetAndTypedReads(t *testing.T) {
	t.Cleanup(func() {
		Set("RATE_LIMIT_PER_MINUTE", "")
		Set("CACHE_TTL", "")
		Set("WA_NUMBER", "")
	})

	Set("rate_limit_per_minute", "42")
	assert.Equal(t, 42, RateLimitPerMinute())

	Set("RATE_LIMIT_PER_MINUTE", "many")
	assert.Equal(t, 300, RateLimitPerMinute())

	Set("CACHE_TTL", "30s")
	assert.Equal(t, 30*time.Second, CacheTTL())

	assert.Equal(t, defaultWANumber, WANumber())
	Set("WA_NUMBER", "911234567890")
	assert.Equal(t, "911234567890", Get("WA_NUMBER", ""))
}

func TestDatabaseDSNDefaultsPerDriver(t *testing.T) {
	t.Cleanup(func() {
		Set("DB_DRIVER", defaultDatabaseDriver)
		Set("DATABASE_DSN", "")
	})

	cases := map[string]string{
		"sqlite":    defaultSQLiteDSN,
		"postgres":  defaultPostgresDSN,
		"mysql":     defaultMySQLDSN,
		"sqlserver": defaultSQLServerDSN,
		"oracle":    defaultSQLiteDSN,
	}
	for driver, dsn := range cases {
		Set("DB_DRIVER", driver)
		assert.Equal(t, dsn, DatabaseDSN(), driver)
	}

	Set("DB_DRIVER", "POSTGRES")
	assert.Equal(t, "postgres", DatabaseDriver())

	Set("DATABASE_DSN", "file:custom.db")
	assert.Equal(t, "file:custom.db", DatabaseDSN())
}

func TestLoadFromFilesPrecedence(t *testing.T) {
	mu.RLock()
	saved := values
	mu.RUnlock()
	t.Cleanup(func() {
		mu.Lock()
		values = saved
		mu.Unlock()
	})

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port": 8080, "wa_number": "910000000001", "debug": true}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("WA_NUMBER=910000000002\nJWT_SECRET=from-dotenv\n"), 0o644))
	t.Setenv("JWT_SECRET", "from-env")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "8080", get("APP_PORT", ""))
	assert.Equal(t, "true", get("DEBUG", ""))
	assert.Equal(t, "910000000002", get("WA_NUMBER", ""), ".env beats app.json")
	assert.Equal(t, "from-env", get("JWT_SECRET", ""), "environment beats .env")
}

func TestLoadFromFilesToleratesMissingFiles(t *testing.T) {
	mu.RLock()
	saved := values
	mu.RUnlock()
	t.Cleanup(func() {
		mu.Lock()
		values = saved
		mu.Unlock()
	})

	dir := t.TempDir()
	assert.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	assert.Error(t, loadFromFiles(bad, filepath.Join(dir, ".env")))
}

func TestDefaultSecretChecks(t *testing.T) {
	assert.True(t, IsDefaultJWTSecret(defaultJWTSecret))
	assert.False(t, IsDefaultJWTSecret("s3cret"))
	assert.True(t, IsDefaultAdminPassword(defaultAdminPassword))
	assert.False(t, IsDefaultAdminPassword("Other@456"))

	assert.True(t, IsProduction("production"))
	assert.True(t, IsProduction(" PROD "))
	assert.False(t, IsProduction("local"))
	assert.False(t, IsProduction(""))
}
