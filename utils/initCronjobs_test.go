package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCounter struct {
	games int64
	err   error
}

func (f fakeCounter) Count(context.Context) (int64, error) { return f.games, f.err }

type fakeConnections int

func (f fakeConnections) Len() int { return int(f) }

func TestStatsJob(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	StatsJob(fakeCounter{games: 3}, fakeConnections(7), zap.New(core))()

	entries := logs.FilterMessage("stats").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(3), fields["games"])
	assert.Equal(t, int64(7), fields["connections"])
}

func TestStatsJobCountError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	StatsJob(fakeCounter{err: errors.New("down")}, fakeConnections(0), zap.New(core))()

	assert.Equal(t, 0, logs.FilterMessage("stats").Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestCronStatsSchedule(t *testing.T) {
	c, err := CronStats("@every 1h", fakeCounter{}, fakeConnections(0), zap.NewNop())
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)

	_, err = CronStats("not a schedule", fakeCounter{}, fakeConnections(0), zap.NewNop())
	assert.Error(t, err)
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/games/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/games/abc", "/games/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/games/:id", entries[0].ContextMap()["route"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
}
