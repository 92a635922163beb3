package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// RememberMeSecret signs remember-me tokens. Must be set outside
	// development.
	RememberMeSecret string `env:"REMEMBER_ME_SECRET, default=uniqueAndSecret"`

	// BcryptCost tunes hashing difficulty; raising it does not invalidate
	// hashes stored at a lower cost.
	BcryptCost      int `env:"BCRYPT_COST,      default=10"`
	HashConcurrency int `env:"HASH_CONCURRENCY, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	Admin AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=student_monitor"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// AdminConfig seeds the one-time bootstrap admin when no ADMIN identity
// exists yet.
type AdminConfig struct {
	Username  string `env:"ADMIN_USERNAME, default=admin"`
	Email     string `env:"ADMIN_EMAIL,    default=admin@studentmonitor.com"`
	Password  string `env:"ADMIN_PASSWORD, default=admin123"`
	FirstName string `env:"ADMIN_FIRST_NAME, default=System"`
	LastName  string `env:"ADMIN_LAST_NAME,  default=Administrator"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
