package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Port:         4567,
		Store:        StoreMemory,
		PingInterval: 5 * time.Second,
		PongWait:     15 * time.Second,
		WriteWait:    10 * time.Second,
		SendBuffer:   16,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"postgres store", func(c *Config) { c.Store = StorePostgres }, false},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"unknown store", func(c *Config) { c.Store = "mongo" }, true},
		{"no ping interval", func(c *Config) { c.PingInterval = 0 }, true},
		{"pong wait too short", func(c *Config) { c.PongWait = c.PingInterval }, true},
		{"no write wait", func(c *Config) { c.WriteWait = 0 }, true},
		{"no send buffer", func(c *Config) { c.SendBuffer = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigDSN(t *testing.T) {
	c := Config{DBHost: "db", DBUser: "postgres", DBName: "dev", DBPassword: "secret", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=postgres dbname=dev password=secret sslmode=disable", c.DSN())
}

func TestGameFinishedAndClone(t *testing.T) {
	g := &Game{Players: []string{"Kristin"}, Rounds: []Round{{ID: "r1", Players: []string{"Kristin"}}}}
	assert.False(t, g.Finished())
	g.CurrentRound = 1
	assert.True(t, g.Finished())

	c := g.Clone()
	c.Players[0] = "Jeff"
	c.Rounds[0].Players[0] = "Jeff"
	assert.Equal(t, "Kristin", g.Players[0])
	assert.Equal(t, "Kristin", g.Rounds[0].Players[0])
}

func TestRoundJudgeIsPlayer(t *testing.T) {
	assert.True(t, Round{Players: []string{"Kristin"}}.JudgeIsPlayer())
	assert.True(t, Round{Players: []string{"Kristin"}, Judge: "Kristin"}.JudgeIsPlayer())
	assert.False(t, Round{Players: []string{"Kristin"}, Judge: "Jeff"}.JudgeIsPlayer())
}
