package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
)

// Config represents the full platform configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	EOP      EOPConfig      `mapstructure:"eop"`
	Frames   FramesConfig   `mapstructure:"frames"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig configures the PostgreSQL connection pool.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// LoggingConfig configures structured log output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// EOPConfig configures Earth orientation data handling.
type EOPConfig struct {
	// DataDir holds rapid and final Earth orientation files (IERS C04 and
	// Bulletin B / finals layouts are recognized).
	DataDir string `mapstructure:"data_dir"`
	// ContinuityDays is the largest tolerated hole in a merged series.
	ContinuityDays float64 `mapstructure:"continuity_days"`
}

// FramesConfig configures the frame registry.
type FramesConfig struct {
	// CacheSlots sets the sample cache size of interpolated frames.
	// Zero keeps the library default.
	CacheSlots int `mapstructure:"cache_slots"`
}

// LoadConfig reads configuration from ./config.yaml when present, with
// ASTRODYN_ prefixed environment variables taking precedence over the file.
func LoadConfig() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}
	return unmarshal(v)
}

// LoadFromFile reads configuration from an explicit path, with environment
// variables still taking precedence.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ASTRODYN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.database", "astrodyn")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 10*time.Minute)

	v.SetDefault("logging.level", "info")

	v.SetDefault("eop.data_dir", "./eop-data")
	v.SetDefault("eop.continuity_days", 5.0)

	v.SetDefault("frames.cache_slots", 0)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return errors.Newf("server.read_timeout must be positive, got %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.Newf("server.write_timeout must be positive, got %v", c.Server.WriteTimeout)
	}

	if c.Database.Host == "" {
		return errors.New("database.host cannot be empty")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return errors.Newf("database.port must be in (0, 65535], got %d", c.Database.Port)
	}
	switch c.Database.SSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return errors.Newf("database.ssl_mode %q is not a libpq mode", c.Database.SSLMode)
	}
	if c.Database.MaxOpenConns < c.Database.MaxIdleConns {
		return errors.Newf("database.max_open_conns %d is below max_idle_conns %d",
			c.Database.MaxOpenConns, c.Database.MaxIdleConns)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.Newf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	if c.EOP.ContinuityDays <= 0 {
		return errors.Newf("eop.continuity_days must be positive, got %g", c.EOP.ContinuityDays)
	}
	if c.Frames.CacheSlots < 0 {
		return errors.Newf("frames.cache_slots must be >= 0, got %d", c.Frames.CacheSlots)
	}
	return nil
}

// Conventions returns the IAU conventions the platform serves. All of them:
// the registry builds lazily, so unused conventions cost nothing.
func (c *Config) Conventions() []iau.Convention {
	return iau.Conventions
}
