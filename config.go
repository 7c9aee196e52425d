package main

import (
	"errors"
	"os"
	"strings"
	"time"

	"partyserver/models"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultConfigFile = "config.json"

func newCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var configFile string

	cmd := &cobra.Command{
		Use:           "partyserver",
		Short:         "Game, player and round API with a shared websocket broadcast hub.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&configFile, "config", "c", "", "path to a JSON config file (default: ./config.json if present)")
	fs.StringP("bind", "b", "0.0.0.0", "address to bind to (env: BIND)")
	fs.IntP("port", "p", 4567, "port to listen on (env: PORT)")
	fs.String("prefix", "/api", "path to prepend to all routes (env: PREFIX)")
	fs.String("store", models.StorePostgres, "game store backend, postgres or memory (env: STORE)")
	fs.String("db-host", "localhost", "PostgreSQL host (env: DB_HOST)")
	fs.String("db-user", "postgres", "PostgreSQL user (env: DB_USER)")
	fs.String("db-password", "", "PostgreSQL password (env: DB_PASSWORD)")
	fs.String("db-name", "dev", "PostgreSQL database (env: DB_NAME)")
	fs.String("db-sslmode", "disable", "PostgreSQL sslmode (env: DB_SSLMODE)")
	fs.String("redis-addr", "", "Redis address for connection sessions, empty disables (env: REDIS_ADDR)")
	fs.String("redis-password", "", "Redis password (env: REDIS_PASSWORD)")
	fs.Int("redis-db", 0, "Redis database number (env: REDIS_DB)")
	fs.Duration("ping-interval", 5*time.Second, "interval between websocket keepalive pings (env: PING_INTERVAL)")
	fs.Duration("pong-wait", 15*time.Second, "time allowed without any frame from a client (env: PONG_WAIT)")
	fs.Duration("write-wait", 10*time.Second, "time allowed to write one frame to a client (env: WRITE_WAIT)")
	fs.Int("send-buffer", 16, "queued outbound frames per client before it is dropped (env: SEND_BUFFER)")
	fs.StringSlice("allow-origins", nil, "allowed CORS origins, empty allows all (env: ALLOW_ORIGINS)")
	fs.String("stats-schedule", "@hourly", "cron schedule for the stats log line (env: STATS_SCHEDULE)")
	fs.BoolP("verbose", "v", false, "display debug output (env: VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("partyserver v{{.Version}}\n")

	return cmd
}

// loadConfig はフラグ、環境変数、設定ファイルの順で優先して設定を読み込みます。
func loadConfig(v *viper.Viper, configFile string) (*models.Config, error) {
	if configFile == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			configFile = defaultConfigFile
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &models.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.Prefix = strings.TrimSuffix(cfg.Prefix, "/")
	if cfg.Prefix != "" && !strings.HasPrefix(cfg.Prefix, "/") {
		return nil, errors.New("--prefix must start with /")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
