package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"partyserver/models"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// 環境変数の影響を受けないように設定ファイルだけを読む
func testViper() *viper.Viper {
	return viper.New()
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"prefix": "/party/",
		"store": "memory",
		"db-host": "db",
		"ping-interval": "2s",
		"pong-wait": "6s",
		"write-wait": "1s",
		"send-buffer": 4,
		"allow-origins": ["http://party.local"]
	}`)

	cfg, err := loadConfig(testViper(), path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/party", cfg.Prefix)
	assert.Equal(t, models.StoreMemory, cfg.Store)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, 2*time.Second, cfg.PingInterval)
	assert.Equal(t, 6*time.Second, cfg.PongWait)
	assert.Equal(t, []string{"http://party.local"}, cfg.AllowOrigins)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeConfig(t, `{"port": 8080, "store": "mongo", "ping-interval": "1s", "pong-wait": "3s", "write-wait": "1s", "send-buffer": 1}`)
	_, err := loadConfig(testViper(), path)
	assert.Error(t, err)

	path = writeConfig(t, `{"port": 8080, "prefix": "api", "store": "memory", "ping-interval": "1s", "pong-wait": "3s", "write-wait": "1s", "send-buffer": 1}`)
	_, err = loadConfig(testViper(), path)
	assert.Error(t, err)
}

func TestNewCmdFlags(t *testing.T) {
	cmd := newCmd()
	fs := cmd.Flags()

	for _, name := range []string{"bind", "port", "prefix", "store", "db-host", "redis-addr", "ping-interval", "pong-wait", "send-buffer", "stats-schedule"} {
		assert.NotNil(t, fs.Lookup(name), name)
	}
	// アンダースコア区切りも受け付ける
	require.NoError(t, fs.Parse([]string{"--db_host", "pg"}))
	host, err := fs.GetString("db-host")
	require.NoError(t, err)
	assert.Equal(t, "pg", host)
}
