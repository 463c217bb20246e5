package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Port string `env:"PORT,default=3001"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=0s"`

	StoreDriver        string `env:"STORE_DRIVER,default=postgres"`
	DatabaseURL        string `env:"DATABASE_URL"`
	MongoURL           string `env:"MONGO_URL"`
	MongoDatabase      string `env:"MONGO_DATABASE,default=socialpedia"`
	AtomicFriendToggle bool   `env:"ATOMIC_FRIEND_TOGGLE,default=false"`

	AssetsDir  string `env:"ASSETS_DIR,default=public/assets"`
	BcryptCost int    `env:"BCRYPT_COST,default=10"`
	CORSOrigin string `env:"CORS_ORIGIN,default=*"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load reads an optional .env file and decodes the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverMongo:
		if c.MongoURL == "" {
			return errors.New("MONGO_URL is required for the mongo store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTTTL < 0 {
		return errors.New("JWT_TTL cannot be negative")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
