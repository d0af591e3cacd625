package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Booking  BookingConfig
	Schedule ScheduleConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// BookingConfig は予約エンジンの設定
type BookingConfig struct {
	// 仮押さえの有効期間
	HoldTTL time.Duration
	// 期限切れ仮押さえの掃き出し間隔
	SweepInterval time.Duration
	// 消費税率（パーセント）
	TaxRatePercent int
}

// ScheduleConfig は上映スケジュールの設定
type ScheduleConfig struct {
	// 上映間の転換時間（清掃・入れ替え）
	TurnaroundBuffer time.Duration
}

// DatabaseConfig は注文アーカイブ用データベース設定
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig は空席数キャッシュ用Redis設定
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Booking: BookingConfig{
			HoldTTL:        getDurationEnv("BOOKING_HOLD_TTL", 5*time.Minute),
			SweepInterval:  getDurationEnv("BOOKING_SWEEP_INTERVAL", 5*time.Second),
			TaxRatePercent: getIntEnv("BOOKING_TAX_RATE_PERCENT", 10),
		},
		Schedule: ScheduleConfig{
			TurnaroundBuffer: getDurationEnv("SCHEDULE_TURNAROUND_BUFFER", 30*time.Minute),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolEnv("ARCHIVE_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cinema_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
