package config

import (
	"os"
	"time"

	"flipseven-server/internal/util"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the Flip Seven server
type Config struct {
	loaded         bool
	Host           string `yaml:"host" envconfig:"host"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		Secret string `yaml:"secret" envconfig:"secret"`
	} `yaml:"jwt"`
	Storage Storage `yaml:"storage"`
	Game    Game    `yaml:"game"`
	Log     struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
		Tail              int    `yaml:"tail" envconfig:"tail"`
	} `yaml:"log"`
}

// Storage selects where saved matches are kept
type Storage struct {
	// Driver is one of memory, postgres, sqlite or redis
	Driver        string `yaml:"driver" envconfig:"driver"`
	SQLitePath    string `yaml:"sqlitePath" envconfig:"sqlite_path"`
	RedisAddr     string `yaml:"redisAddr" envconfig:"redis_addr"`
	RedisPassword string `yaml:"redisPassword" envconfig:"redis_password"`
	RedisDB       int    `yaml:"redisDb" envconfig:"redis_db"`
	RedisTTLHours int    `yaml:"redisTtlHours" envconfig:"redis_ttl_hours"`
}

// Game holds the match settings
type Game struct {
	MinPlayers          int `yaml:"minPlayers" envconfig:"min_players"`
	MaxPlayers          int `yaml:"maxPlayers" envconfig:"max_players"`
	WinningScore        int `yaml:"winningScore" envconfig:"winning_score"`
	RestartDelaySeconds int `yaml:"restartDelaySeconds" envconfig:"restart_delay_seconds"`
	DrawDelayMillis     int `yaml:"drawDelayMillis" envconfig:"draw_delay_millis"`
	StartDelaySeconds   int `yaml:"startDelaySeconds" envconfig:"start_delay_seconds"`
}

// RestartDelay returns the pause between rounds
func (g Game) RestartDelay() time.Duration {
	return time.Duration(g.RestartDelaySeconds) * time.Second
}

// StartDelay returns the countdown before a match is dealt
func (g Game) StartDelay() time.Duration {
	return time.Duration(g.StartDelaySeconds) * time.Second
}

// DrawDelay returns the pause between forced draws
func (g Game) DrawDelay() time.Duration {
	return time.Duration(g.DrawDelayMillis) * time.Millisecond
}

// RedisTTL returns how long a save is kept in redis
func (s Storage) RedisTTL() time.Duration {
	return time.Duration(s.RedisTTLHours) * time.Hour
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	c := Config{
		Host:           ":5000",
		PGDSN:          "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		MigrationsPath: "./sql",
		Storage: Storage{
			Driver:        "memory",
			SQLitePath:    "flipseven.db",
			RedisAddr:     "localhost:6379",
			RedisTTLHours: 24 * 7,
		},
		Game: Game{
			MinPlayers:          3,
			MaxPlayers:          6,
			WinningScore:        200,
			RestartDelaySeconds: 15,
			DrawDelayMillis:     1000,
			StartDelaySeconds:   3,
		},
	}

	c.JWT.Secret = "change-me"
	c.Log.Level = "info"
	c.Log.Tail = 50
	return c
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The file is optional; environment variables prefixed with FLIP7_ take precedence
func Load() error {
	c := DefaultConfig()

	configFile := util.Getenv("FLIP7_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if file != nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&c); err != nil {
			return err
		}
	}

	if err := envconfig.Process("flip7", &c); err != nil {
		return err
	}

	c.loaded = true
	config = c
	return nil
}
