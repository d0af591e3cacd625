package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 環境変数をクリア
	envVars := []string{
		"PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"BOOKING_HOLD_TTL", "BOOKING_SWEEP_INTERVAL", "BOOKING_TAX_RATE_PERCENT",
		"SCHEDULE_TURNAROUND_BUFFER",
		"ARCHIVE_ENABLED", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
	}
	for _, env := range envVars {
		os.Unsetenv(env)
	}

	cfg := Load()

	// Server defaults
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	// Booking defaults
	assert.Equal(t, 5*time.Minute, cfg.Booking.HoldTTL)
	assert.Equal(t, 5*time.Second, cfg.Booking.SweepInterval)
	assert.Equal(t, 10, cfg.Booking.TaxRatePercent)

	// Schedule defaults
	assert.Equal(t, 30*time.Minute, cfg.Schedule.TurnaroundBuffer)

	// Database defaults（アーカイブは無効）
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "postgres", cfg.Database.Password)
	assert.Equal(t, "cinema_reservation", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	// Redis defaults（キャッシュは無効）
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.Equal(t, "", cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoad_CustomValues(t *testing.T) {
	// 環境変数を設定
	os.Setenv("PORT", "9090")
	os.Setenv("BOOKING_HOLD_TTL", "10m")
	os.Setenv("BOOKING_SWEEP_INTERVAL", "1s")
	os.Setenv("BOOKING_TAX_RATE_PERCENT", "8")
	os.Setenv("SCHEDULE_TURNAROUND_BUFFER", "45m")
	os.Setenv("ARCHIVE_ENABLED", "true")
	os.Setenv("DB_HOST", "db.example.com")
	os.Setenv("DB_NAME", "testdb")
	os.Setenv("REDIS_ENABLED", "true")
	os.Setenv("REDIS_HOST", "redis.example.com")
	os.Setenv("REDIS_PORT", "6380")
	os.Setenv("REDIS_DB", "1")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("BOOKING_HOLD_TTL")
		os.Unsetenv("BOOKING_SWEEP_INTERVAL")
		os.Unsetenv("BOOKING_TAX_RATE_PERCENT")
		os.Unsetenv("SCHEDULE_TURNAROUND_BUFFER")
		os.Unsetenv("ARCHIVE_ENABLED")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("REDIS_ENABLED")
		os.Unsetenv("REDIS_HOST")
		os.Unsetenv("REDIS_PORT")
		os.Unsetenv("REDIS_DB")
	}()

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Booking.HoldTTL)
	assert.Equal(t, time.Second, cfg.Booking.SweepInterval)
	assert.Equal(t, 8, cfg.Booking.TaxRatePercent)
	assert.Equal(t, 45*time.Minute, cfg.Schedule.TurnaroundBuffer)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "testdb", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.example.com", cfg.Redis.Host)
	assert.Equal(t, "6380", cfg.Redis.Port)
	assert.Equal(t, 1, cfg.Redis.DB)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "user=postgres")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "dbname=testdb")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := &RedisConfig{
		Host: "localhost",
		Port: "6379",
	}

	addr := cfg.Addr()

	assert.Equal(t, "localhost:6379", addr)
}

func TestGetEnv(t *testing.T) {
	// 環境変数が設定されている場合
	os.Setenv("TEST_ENV_VAR", "custom_value")
	defer os.Unsetenv("TEST_ENV_VAR")

	result := getEnv("TEST_ENV_VAR", "default")
	assert.Equal(t, "custom_value", result)

	// 環境変数が設定されていない場合
	result = getEnv("NON_EXISTENT_VAR", "default")
	assert.Equal(t, "default", result)
}

func TestGetIntEnv(t *testing.T) {
	// 有効な整数
	os.Setenv("TEST_INT", "42")
	defer os.Unsetenv("TEST_INT")

	result := getIntEnv("TEST_INT", 0)
	assert.Equal(t, 42, result)

	// 無効な整数
	os.Setenv("TEST_INVALID_INT", "not_a_number")
	defer os.Unsetenv("TEST_INVALID_INT")

	result = getIntEnv("TEST_INVALID_INT", 99)
	assert.Equal(t, 99, result)

	// 存在しない変数
	result = getIntEnv("NON_EXISTENT_INT", 100)
	assert.Equal(t, 100, result)
}

func TestGetBoolEnv(t *testing.T) {
	// 有効な真偽値
	os.Setenv("TEST_BOOL", "true")
	defer os.Unsetenv("TEST_BOOL")

	result := getBoolEnv("TEST_BOOL", false)
	assert.True(t, result)

	// 無効な真偽値
	os.Setenv("TEST_INVALID_BOOL", "yes_please")
	defer os.Unsetenv("TEST_INVALID_BOOL")

	result = getBoolEnv("TEST_INVALID_BOOL", false)
	assert.False(t, result)

	// 存在しない変数
	result = getBoolEnv("NON_EXISTENT_BOOL", true)
	assert.True(t, result)
}

func TestGetDurationEnv(t *testing.T) {
	// 有効な期間
	os.Setenv("TEST_DURATION", "5m")
	defer os.Unsetenv("TEST_DURATION")

	result := getDurationEnv("TEST_DURATION", time.Second)
	assert.Equal(t, 5*time.Minute, result)

	// 無効な期間
	os.Setenv("TEST_INVALID_DURATION", "invalid")
	defer os.Unsetenv("TEST_INVALID_DURATION")

	result = getDurationEnv("TEST_INVALID_DURATION", 30*time.Second)
	assert.Equal(t, 30*time.Second, result)

	// 存在しない変数
	result = getDurationEnv("NON_EXISTENT_DURATION", time.Minute)
	assert.Equal(t, time.Minute, result)
}
