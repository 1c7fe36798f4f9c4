package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Mongo     MongoConfig
	Redis     RedisConfig
	Telegram  TelegramConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI      string `usage:"MongoDB connection URI (SHOP_MONGO_URI or MONGO_URI)" flag:"mongo-uri"`
	Database string `default:"shop" usage:"MongoDB database name" flag:"mongo-database"`
}

// RedisConfig holds the session cart cache settings. An empty Addr disables
// the cache.
type RedisConfig struct {
	Addr     string `default:"" usage:"Redis address; empty disables the cart cache" flag:"redis-addr"`
	Password string `default:"" usage:"Redis password" flag:"redis-password"`
	DB       int    `default:"0" usage:"Redis database number" flag:"redis-db"`
}

// TelegramConfig holds the order notification bot settings. An empty token
// disables notifications.
type TelegramConfig struct {
	BotToken string `default:"" usage:"Telegram bot token; empty disables order notifications" flag:"telegram-token"`
	ChatID   string `default:"" usage:"Telegram chat id for order notifications" flag:"telegram-chat"`
}

// RateLimitConfig controls the per-client fixed window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/shop/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.Mongo.URI == "" {
		return nil, errors.New("mongo URI is required: set SHOP_MONGO_URI or MONGO_URI")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables that use
// standard names like MONGO_URI and PORT to the SHOP_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Mongo.URI == "" {
		if v := os.Getenv("MONGO_URI"); v != "" {
			c.Mongo.URI = v
		}
	}
	if c.Redis.Addr == "" {
		if v := os.Getenv("REDIS_ADDR"); v != "" {
			c.Redis.Addr = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
