package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       App
	HTTP      HTTP
	Postgres  Postgres
	Redis     Redis
	Reaper    Reaper
	Analytics Analytics
	Session   Session
	Bot       Bot
	Probe     Probe
	Metric    Metric
}

type App struct {
	// memory: всё в процессе, postgres: listings/claims в БД
	StorageDriver string     `env:"STORAGE_DRIVER" envDefault:"postgres"`
	LogFormat     string     `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel      slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTP struct {
	ListenAddress  string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	AllowedOrigins []string      `env:"HTTP_CORS_ORIGINS" envSeparator:","`
	AllowedPlaces  []string      `env:"HTTP_ALLOWED_PLACES" envSeparator:","`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"10s"`
}

type Redis struct {
	Address            string `env:"REDIS_ADDRESS"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
	KeyPrefix          string `env:"REDIS_KEY_PREFIX" envDefault:"auction_house:"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}

type Reaper struct {
	// local: свой тикер, asynq: тики ставит планировщик asynq
	Mode     string        `env:"REAPER_MODE" envDefault:"local"`
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"1s"`
	Lock     bool          `env:"REAPER_LOCK" envDefault:"false"`
}

type Analytics struct {
	Window      int           `env:"ANALYTICS_WINDOW" envDefault:"35"`
	ExtendDelta time.Duration `env:"EXTEND_DELTA" envDefault:"24h"`
}

type Session struct {
	// memory или redis
	Driver string        `env:"SESSION_DRIVER" envDefault:"memory"`
	TTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

type Bot struct {
	Token         string  `env:"BOT_TOKEN" json:"-"`
	ChatID        int64   `env:"BOT_CHAT_ID"`
	AdminIDs      []int64 `env:"BOT_ADMIN_IDS" envSeparator:","`
	AlertDiscount float64 `env:"BOT_ALERT_DISCOUNT" envDefault:"0.5"`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metric struct {
	ListenAddress string `env:"METRIC_LISTEN_ADDRESS" envDefault:":9090"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.App.StorageDriver {
	case "memory":
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("PG_DSN is required for STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.App.StorageDriver)
	}

	switch c.Reaper.Mode {
	case "local":
	case "asynq":
		if !c.Redis.Enabled() {
			return fmt.Errorf("REDIS_ADDRESS is required for REAPER_MODE=asynq")
		}
	default:
		return fmt.Errorf("unknown REAPER_MODE %q", c.Reaper.Mode)
	}

	if c.Reaper.Interval < time.Second {
		return fmt.Errorf("REAPER_INTERVAL must be at least 1s")
	}

	if c.Reaper.Lock && !c.Redis.Enabled() {
		return fmt.Errorf("REDIS_ADDRESS is required for REAPER_LOCK")
	}

	switch c.Session.Driver {
	case "memory":
	case "redis":
		if !c.Redis.Enabled() {
			return fmt.Errorf("REDIS_ADDRESS is required for SESSION_DRIVER=redis")
		}
	default:
		return fmt.Errorf("unknown SESSION_DRIVER %q", c.Session.Driver)
	}

	if c.Bot.Enabled() && c.Bot.ChatID == 0 {
		return fmt.Errorf("BOT_CHAT_ID is required when BOT_TOKEN is set")
	}

	return nil
}
