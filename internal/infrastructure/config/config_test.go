package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CREDIT_APP_NAME":                os.Getenv("CREDIT_APP_NAME"),
		"CREDIT_APP_ENV":                 os.Getenv("CREDIT_APP_ENV"),
		"CREDIT_APP_PORT":                os.Getenv("CREDIT_APP_PORT"),
		"CREDIT_DATABASE_HOST":           os.Getenv("CREDIT_DATABASE_HOST"),
		"CREDIT_DATABASE_PORT":           os.Getenv("CREDIT_DATABASE_PORT"),
		"CREDIT_DATABASE_USER":           os.Getenv("CREDIT_DATABASE_USER"),
		"CREDIT_DATABASE_PASSWORD":       os.Getenv("CREDIT_DATABASE_PASSWORD"),
		"CREDIT_DATABASE_DBNAME":         os.Getenv("CREDIT_DATABASE_DBNAME"),
		"CREDIT_DATABASE_SSLMODE":        os.Getenv("CREDIT_DATABASE_SSLMODE"),
		"CREDIT_DATABASE_MAX_OPEN_CONNS": os.Getenv("CREDIT_DATABASE_MAX_OPEN_CONNS"),
		"CREDIT_DATABASE_MAX_IDLE_CONNS": os.Getenv("CREDIT_DATABASE_MAX_IDLE_CONNS"),
		"CREDIT_REDIS_HOST":              os.Getenv("CREDIT_REDIS_HOST"),
		"CREDIT_LOG_LEVEL":               os.Getenv("CREDIT_LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "creditledger", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "creditledger", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("loads values from environment variables with CREDIT prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("CREDIT_APP_NAME", "test-app")
		os.Setenv("CREDIT_APP_ENV", "testing")
		os.Setenv("CREDIT_APP_PORT", "9000")
		os.Setenv("CREDIT_DATABASE_HOST", "testdb.local")
		os.Setenv("CREDIT_DATABASE_PORT", "5433")
		os.Setenv("CREDIT_DATABASE_USER", "testuser")
		os.Setenv("CREDIT_DATABASE_PASSWORD", "testpass")
		os.Setenv("CREDIT_DATABASE_DBNAME", "testdb")
		os.Setenv("CREDIT_DATABASE_SSLMODE", "require")
		os.Setenv("CREDIT_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("CREDIT_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("CREDIT_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("CREDIT_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("CREDIT_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("CREDIT_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("CREDIT_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"CREDIT_APP_ENV":                 os.Getenv("CREDIT_APP_ENV"),
		"CREDIT_DATABASE_PASSWORD":       os.Getenv("CREDIT_DATABASE_PASSWORD"),
		"CREDIT_DATABASE_SSLMODE":        os.Getenv("CREDIT_DATABASE_SSLMODE"),
		"CREDIT_HTTP_CORS_ALLOW_ORIGINS": os.Getenv("CREDIT_HTTP_CORS_ALLOW_ORIGINS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("CREDIT_APP_ENV", "production")
		os.Setenv("CREDIT_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("CREDIT_APP_ENV", "production")
		os.Setenv("CREDIT_DATABASE_PASSWORD", "secure-password")
		os.Setenv("CREDIT_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("CREDIT_APP_ENV", "production")
		os.Setenv("CREDIT_DATABASE_PASSWORD", "secure-password")
		os.Setenv("CREDIT_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "creditledger",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "creditledger")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
