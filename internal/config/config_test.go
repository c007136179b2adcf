package config

import (
	"os"
	"testing"
	"time"

	"flipseven-server/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("FLIP7_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("FLIP7_JWT_SECRET", "from-env")
	defer clear2()
	clear3 := util.SetEnv("FLIP7_GAME_DRAW_DELAY_MILLIS", "250")
	defer clear3()

	config = Config{}

	a := assert.New(t)
	cfg := Instance()
	a.Equal(":8080", cfg.Host)
	a.Equal("from-env", cfg.JWT.Secret)
	a.Equal("sqlite", cfg.Storage.Driver)
	a.Equal("/var/lib/flipseven/saves.db", cfg.Storage.SQLitePath)
	a.Equal(150, cfg.Game.WinningScore)
	a.Equal(10*time.Second, cfg.Game.RestartDelay())
	a.Equal(250*time.Millisecond, cfg.Game.DrawDelay())
	a.Equal("debug", cfg.Log.Level)

	// values missing from the file keep their defaults
	a.Equal(3, cfg.Game.MinPlayers)
	a.Equal(6, cfg.Game.MaxPlayers)
	a.Equal("localhost:6379", cfg.Storage.RedisAddr)

	// ensure that it's only loaded once
	_ = os.Setenv("FLIP7_JWT_SECRET", "changed")
	// ensure we aren't using a pointer
	cfg.JWT.Secret = "bad"
	cfg = Instance()
	a.Equal("from-env", cfg.JWT.Secret)
}

func TestDefaults(t *testing.T) {
	clear1 := util.SetEnv("FLIP7_CONFIG_FILE", "testdata/missing.yaml")
	defer clear1()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, DefaultConfig().Game, cfg.Game)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 15*time.Second, cfg.Game.RestartDelay())
	assert.Equal(t, 7*24*time.Hour, cfg.Storage.RedisTTL())
}

func TestLoad_BadFile(t *testing.T) {
	clear1 := util.SetEnv("FLIP7_CONFIG_FILE", "testdata")
	defer clear1()

	assert.Error(t, Load())
}
