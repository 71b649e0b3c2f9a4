package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"

	DecayExponential = "exponential"
	DecayLinear      = "linear"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage  Storage `yaml:"storage"`
	Redis    Redis   `yaml:"redis"`
	Train    Train   `yaml:"train"`
	Play     Play    `yaml:"play"`
}

// Storage selects where the Q-table is persisted.
type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	FilePath   string `yaml:"file-path" env:"STORAGE_FILE_PATH" env-default:"q_table.json"`
	SQLitePath string `yaml:"sqlite-path" env:"STORAGE_SQLITE_PATH" env-default:"q_table.db"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB   int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	Key  string `yaml:"key" env:"REDIS_KEY" env-default:"qtable"`
}

// Train holds the hyperparameters of one self-play run.
type Train struct {
	Episodes     int     `yaml:"episodes" env:"TRAIN_EPISODES" env-default:"20000"`
	Alpha        float64 `yaml:"alpha" env:"TRAIN_ALPHA" env-default:"0.5"`
	Gamma        float64 `yaml:"gamma" env:"TRAIN_GAMMA" env-default:"0.9"`
	EpsilonStart float64 `yaml:"epsilon-start" env:"TRAIN_EPSILON_START" env-default:"1.0"`
	EpsilonEnd   float64 `yaml:"epsilon-end" env:"TRAIN_EPSILON_END" env-default:"0.01"`
	Decay        string  `yaml:"decay" env:"TRAIN_DECAY" env-default:"exponential"`
	Seed         uint64  `yaml:"seed" env:"TRAIN_SEED" env-default:"0"`
	Resume       bool    `yaml:"resume" env:"TRAIN_RESUME" env-default:"false"`
	LogEvery     int     `yaml:"log-every" env:"TRAIN_LOG_EVERY" env-default:"1000"`
	ChartPath    string  `yaml:"chart-path" env:"TRAIN_CHART_PATH" env-default:""`
	ChartWindow  int     `yaml:"chart-window" env:"TRAIN_CHART_WINDOW" env-default:"500"`
}

type Play struct {
	HumanMark    string `yaml:"human-mark" env:"PLAY_HUMAN_MARK" env-default:"X"`
	RequireTable bool   `yaml:"require-table" env:"PLAY_REQUIRE_TABLE" env-default:"true"`
	ZeroBased    bool   `yaml:"zero-based" env:"PLAY_ZERO_BASED" env-default:"false"`
	Colors       bool   `yaml:"colors" env:"PLAY_COLORS" env-default:"true"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads the yml file at path. When the file does not exist the
// configuration comes from the environment and defaults only.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return config, nil
}

// SetTableLocation points the selected storage driver at location: a file
// path, a sqlite database path or a redis key.
func (that *Config) SetTableLocation(location string) {
	switch that.Storage.Driver {
	case DriverRedis:
		that.Redis.Key = location
	case DriverSQLite:
		that.Storage.SQLitePath = location
	default:
		that.Storage.FilePath = location
	}
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Storage) Validate() error {
	switch that.Driver {
	case DriverFile, DriverRedis, DriverSQLite:
		return nil
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, that.Driver)
	}
}

func (that *Train) Validate() error {
	switch {
	case that.Episodes <= 0:
		return fmt.Errorf("%w: episodes must be positive, got %d", ErrInvalidConfig, that.Episodes)
	case that.Alpha <= 0 || that.Alpha > 1:
		return fmt.Errorf("%w: alpha must be in (0, 1], got %v", ErrInvalidConfig, that.Alpha)
	case that.Gamma < 0 || that.Gamma > 1:
		return fmt.Errorf("%w: gamma must be in [0, 1], got %v", ErrInvalidConfig, that.Gamma)
	case that.EpsilonStart < 0 || that.EpsilonStart > 1:
		return fmt.Errorf("%w: epsilon-start must be in [0, 1], got %v", ErrInvalidConfig, that.EpsilonStart)
	case that.EpsilonEnd < 0 || that.EpsilonEnd > that.EpsilonStart:
		return fmt.Errorf("%w: epsilon-end must be in [0, epsilon-start], got %v", ErrInvalidConfig, that.EpsilonEnd)
	}

	if that.Decay != DecayExponential && that.Decay != DecayLinear {
		return fmt.Errorf("%w: unknown decay %q", ErrInvalidConfig, that.Decay)
	}

	return nil
}

func (that *Play) Validate() error {
	if that.HumanMark != "X" && that.HumanMark != "O" {
		return fmt.Errorf("%w: human-mark must be X or O, got %q", ErrInvalidConfig, that.HumanMark)
	}

	return nil
}
