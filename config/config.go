package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"tonotes/utils"

	"github.com/joho/godotenv"
)

type AuthConfig struct {
	JWTSecretKey           string
	Issuer                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	GoogleClientID         string
	GoogleClientSecret     string
}

type Config struct {
	Port               string
	Env                string
	RedisURL           string
	CORSAllowedOrigins []string
	MaxBodyBytes       int64
	Database           DatabaseConfig
	Auth               AuthConfig
}

// LoadEnvFile reads .env unless running under tests. A missing file is not fatal;
// the process environment may already carry everything.
func LoadEnvFile() {
	if os.Getenv("GO_ENV") == "test" {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
}

func Load() *Config {
	return &Config{
		Port:               utils.GetEnvAsString("PORT", "3001"),
		Env:                utils.GetEnvAsString("GO_ENV", "development"),
		RedisURL:           utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
		CORSAllowedOrigins: utils.GetEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxBodyBytes:       utils.GetEnvAsInt64("MAX_BODY_BYTES", 1<<20),
		Database:           LoadDatabaseConfig(),
		Auth: AuthConfig{
			JWTSecretKey:           utils.GetEnvAsString("JWT_SECRET_KEY", ""),
			Issuer:                 utils.GetEnvAsString("JWT_ISSUER", "toNotes"),
			AccessTokenExpiration:  utils.GetEnvAsDuration("JWT_EXPIRATION_TIME", time.Hour),
			RefreshTokenExpiration: utils.GetEnvAsDuration("REFRESH_TOKEN_EXPIRATION_TIME", 7*24*time.Hour),
			GoogleClientID:         utils.GetEnvAsString("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret:     utils.GetEnvAsString("GOOGLE_CLIENT_SECRET", ""),
		},
	}
}

// RequiredEnvVars lists the variables that have no safe default for the selected driver.
func (c *Config) RequiredEnvVars() []string {
	vars := []string{"JWT_SECRET_KEY", "REDIS_URL"}
	switch c.Database.Driver {
	case DriverMySQL:
		vars = append(vars, "MYSQL_DSN")
	default:
		vars = append(vars, "MONGO_URI", "MONGO_DB")
	}
	return vars
}

// Validate logs which required variables are set and fails on the first missing one.
func (c *Config) Validate() error {
	if c.Database.Driver != DriverMongo && c.Database.Driver != DriverMySQL {
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Database.Driver)
	}

	required := c.RequiredEnvVars()
	log.Println("Environment variables:")
	for _, envVar := range required {
		if os.Getenv(envVar) == "" {
			log.Printf("%s: not set", envVar)
		} else {
			log.Printf("%s: set", envVar)
		}
	}

	for _, envVar := range required {
		if os.Getenv(envVar) == "" {
			return fmt.Errorf("required environment variable %s is not set", envVar)
		}
	}

	if c.Auth.AccessTokenExpiration <= 0 || c.Auth.RefreshTokenExpiration <= 0 {
		return fmt.Errorf("token expiration times must be positive")
	}
	return nil
}
