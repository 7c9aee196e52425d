package models

import (
	"errors"
	"fmt"
	"time"
)

// Config 構造体はサーバー全体の設定情報を保持します。
// フラグ、環境変数、config.jsonのどれからでも読み込まれる
type Config struct {
	Bind   string `mapstructure:"bind"`
	Port   int    `mapstructure:"port"`
	Prefix string `mapstructure:"prefix"`
	Store  string `mapstructure:"store"` // "postgres" または "memory"

	DBHost     string `mapstructure:"db-host"`
	DBUser     string `mapstructure:"db-user"`
	DBPassword string `mapstructure:"db-password"`
	DBName     string `mapstructure:"db-name"`
	DBSSLMode  string `mapstructure:"db-sslmode"`

	RedisAddr     string `mapstructure:"redis-addr"` // 空の場合セッションIDは発行しない
	RedisPassword string `mapstructure:"redis-password"`
	RedisDB       int    `mapstructure:"redis-db"`

	PingInterval time.Duration `mapstructure:"ping-interval"`
	PongWait     time.Duration `mapstructure:"pong-wait"`
	WriteWait    time.Duration `mapstructure:"write-wait"`
	SendBuffer   int           `mapstructure:"send-buffer"`

	AllowOrigins  []string `mapstructure:"allow-origins"`
	StatsSchedule string   `mapstructure:"stats-schedule"`
	Verbose       bool     `mapstructure:"verbose"`
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return fmt.Errorf("unknown store %q (must be %q or %q)", c.Store, StorePostgres, StoreMemory)
	}
	if c.PingInterval <= 0 || c.WriteWait <= 0 {
		return errors.New("--ping-interval and --write-wait must be positive")
	}
	if c.PongWait <= c.PingInterval {
		return errors.New("--pong-wait must be longer than --ping-interval")
	}
	if c.SendBuffer < 1 {
		return fmt.Errorf("invalid send buffer: %d", c.SendBuffer)
	}
	return nil
}

// DSN はPostgreSQLの接続文字列を組み立てます。
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s dbname=%s password=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBName, c.DBPassword, c.DBSSLMode)
}
