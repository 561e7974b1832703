package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		old, had := os.LookupEnv(k)
		os.Setenv(k, v)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{"GO_ENV": "test"})
	os.Unsetenv("STORE_DRIVER")
	os.Unsetenv("JWT_EXPIRATION_TIME")

	cfg := Load()
	if cfg.Database.Driver != DriverMongo {
		t.Errorf("default driver = %q, want mongo", cfg.Database.Driver)
	}
	if cfg.Auth.AccessTokenExpiration != time.Hour {
		t.Errorf("default access expiry = %v", cfg.Auth.AccessTokenExpiration)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "mongo complete",
			env: map[string]string{
				"STORE_DRIVER":   "mongo",
				"JWT_SECRET_KEY": "secret",
				"REDIS_URL":      "redis://localhost:6379/0",
				"MONGO_URI":      "mongodb://localhost:27017",
				"MONGO_DB":       "tonotes_test",
			},
		},
		{
			name: "mysql missing dsn",
			env: map[string]string{
				"STORE_DRIVER":   "mysql",
				"JWT_SECRET_KEY": "secret",
				"REDIS_URL":      "redis://localhost:6379/0",
				"MYSQL_DSN":      "",
			},
			wantErr: true,
		},
		{
			name: "unknown driver",
			env: map[string]string{
				"STORE_DRIVER": "postgres",
			},
			wantErr: true,
		},
		{
			name: "expiry in seconds",
			env: map[string]string{
				"STORE_DRIVER":        "mongo",
				"JWT_SECRET_KEY":      "secret",
				"REDIS_URL":           "redis://localhost:6379/0",
				"MONGO_URI":           "mongodb://localhost:27017",
				"MONGO_DB":            "tonotes_test",
				"JWT_EXPIRATION_TIME": "3600",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			err := Load().Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
