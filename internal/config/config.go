package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// Store settings
	StoreDriver        string `envconfig:"STORE_DRIVER" default:"postgres"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING"`
	DBMaxConns         int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBAutoMigrate      bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	MongoURI           string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase      string `envconfig:"MONGODB_DATABASE" default:"courseapp"`

	// Admin & auth settings
	AdminUsername       string        `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword       string        `envconfig:"ADMIN_PASSWORD"`
	AdminPasswordSecret string        `envconfig:"ADMIN_PASSWORD_SECRET"`
	JWTSecret           string        `envconfig:"JWT_SECRET" required:"true"`
	AdminTokenTTL       time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"12h"`
	BcryptCost          int           `envconfig:"BCRYPT_COST" default:"10"`

	// Student id allocation
	StudentIDMaxAttempts int `envconfig:"STUDENT_ID_MAX_ATTEMPTS" default:"25"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// GCP settings (Pub/Sub events, Secret Manager)
	GCPProjectID            string `envconfig:"GCP_PROJECT_ID"`
	PubSubEmulatorHost      string `envconfig:"PUBSUB_EMULATOR_HOST"`
	PubSubRegistrationTopic string `envconfig:"PUBSUB_REGISTRATION_TOPIC"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBConnectionString == "" {
			return errors.New("DB_CONNECTION_STRING is required when STORE_DRIVER=postgres")
		}
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("MONGODB_URI and MONGODB_DATABASE are required when STORE_DRIVER=mongo")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.AdminUsername == "" {
		return errors.New("ADMIN_USERNAME must not be empty")
	}
	if c.AdminPassword == "" && c.AdminPasswordSecret == "" {
		return errors.New("one of ADMIN_PASSWORD or ADMIN_PASSWORD_SECRET is required")
	}
	if c.AdminPasswordSecret != "" && c.GCPProjectID == "" {
		return errors.New("GCP_PROJECT_ID is required when ADMIN_PASSWORD_SECRET is set")
	}
	if c.PubSubRegistrationTopic != "" && c.GCPProjectID == "" {
		return errors.New("GCP_PROJECT_ID is required when PUBSUB_REGISTRATION_TOPIC is set")
	}
	if c.StudentIDMaxAttempts < 1 {
		return errors.New("STUDENT_ID_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// IsProduction reports whether diagnostic details must be withheld from clients.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
