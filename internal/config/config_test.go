package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:                 "8080",
		Environment:          "development",
		StoreDriver:          DriverPostgres,
		DBConnectionString:   "postgres://localhost:5432/courseapp",
		AdminUsername:        "admin",
		AdminPassword:        "s3cret",
		JWTSecret:            "jwt",
		AdminTokenTTL:        time.Hour,
		StudentIDMaxAttempts: 25,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid postgres", mutate: func(c *Config) {}},
		{name: "memory needs no dsn", mutate: func(c *Config) { c.StoreDriver = DriverMemory; c.DBConnectionString = "" }},
		{name: "mongo", mutate: func(c *Config) { c.StoreDriver = DriverMongo; c.MongoURI = "mongodb://x"; c.MongoDatabase = "db" }},
		{name: "mongo without database", mutate: func(c *Config) { c.StoreDriver = DriverMongo; c.MongoURI = "mongodb://x" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.DBConnectionString = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "sqlite" }, wantErr: true},
		{name: "no admin credential", mutate: func(c *Config) { c.AdminPassword = "" }, wantErr: true},
		{name: "secret without project", mutate: func(c *Config) { c.AdminPassword = ""; c.AdminPasswordSecret = "admin-pw" }, wantErr: true},
		{name: "secret with project", mutate: func(c *Config) {
			c.AdminPassword = ""
			c.AdminPasswordSecret = "admin-pw"
			c.GCPProjectID = "proj"
		}},
		{name: "topic without project", mutate: func(c *Config) { c.PubSubRegistrationTopic = "registrations" }, wantErr: true},
		{name: "zero id attempts", mutate: func(c *Config) { c.StudentIDMaxAttempts = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("ADMIN_TOKEN_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AdminUsername != "admin" {
		t.Fatalf("expected default admin username, got %s", cfg.AdminUsername)
	}
	if cfg.AdminTokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m token ttl, got %s", cfg.AdminTokenTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.StudentIDMaxAttempts != 25 {
		t.Fatalf("expected default id attempts 25, got %d", cfg.StudentIDMaxAttempts)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is empty")
	}
}
