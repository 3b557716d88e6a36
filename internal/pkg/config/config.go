package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionTTL is the absolute lifetime of an issued session token.
	SessionTTL time.Duration `env:"SESSION_TTL, default=168h"`
	// SecureCookies marks session cookies Secure; enable behind TLS.
	SecureCookies bool `env:"SECURE_COOKIES, default=false"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Razorpay RazorpayConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// RazorpayConfig holds the gateway credentials. When the key pair is absent
// the service starts without a gateway and payment intents fail with a
// configuration error.
type RazorpayConfig struct {
	KeyID     string `env:"RAZORPAY_KEY_ID"`
	KeySecret string `env:"RAZORPAY_KEY_SECRET"`
	BaseURL   string `env:"RAZORPAY_BASE_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
