package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
}

type AppConfig struct {
	Port           string   `envconfig:"PORT" default:"8080"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"LOG_FORMAT" default:"json"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

type MongoConfig struct {
	URI      string `envconfig:"MONGODB_URI" required:"true"`
	Database string `envconfig:"DATABASE_NAME" required:"true"`
}

type RedisConfig struct {
	URL string `envconfig:"REDIS_URL" required:"true"`
}

// StorageConfig selects and configures the attachment backend. Backend is
// either "gcs" or "r2".
type StorageConfig struct {
	Backend           string `envconfig:"STORAGE_BACKEND" default:"gcs"`
	GCSBucket         string `envconfig:"GCS_BUCKET"`
	CredentialsFile   string `envconfig:"CREDENTIALS_FILE_LOCATION"`
	R2Bucket          string `envconfig:"R2_BUCKET"`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`
	R2Endpoint        string `envconfig:"R2_ENDPOINT"`
	R2PublicDomain    string `envconfig:"R2_PUBLIC_DOMAIN"`
}

// Load reads .env (when present) and resolves the full configuration from the
// environment. JWT, cookie and upload-limit settings are read directly from
// the environment by the helpers that use them.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
