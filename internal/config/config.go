package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds all service configuration, parsed from the environment.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Token  TokenConfig

	// VerificationCodeTTL bounds the validity window of a sign-up code.
	VerificationCodeTTL time.Duration `env:"VERIFICATION_CODE_TTL" envDefault:"1h"`

	// VerifyNotFoundAsInternal reproduces the legacy behaviour of answering
	// 500 instead of 404 when code verification targets an unknown user.
	// Kept as a compatibility switch; the legacy status is considered a defect.
	VerifyNotFoundAsInternal bool `env:"COMPAT_VERIFY_NOT_FOUND_500" envDefault:"false"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Addr            string        `env:"HTTP_ADDR"        envDefault:":8080"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS"  envDefault:"http://localhost:3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// MongoConfig holds the MongoDB connection configuration.
type MongoConfig struct {
	URI      string `env:"MONGODB_URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGODB_DATABASE" envDefault:"mystrymessage"`
}

// TokenConfig holds the session token configuration.
type TokenConfig struct {
	Secret    string        `env:"TOKEN_SECRET"`
	Issuer    string        `env:"TOKEN_ISSUER"     envDefault:"mystry-message-api"`
	Audience  string        `env:"TOKEN_AUDIENCE"   envDefault:"mystry-message"`
	ExpiresIn time.Duration `env:"TOKEN_EXPIRES_IN" envDefault:"24h"`
}

// NewConfig parses the configuration from environment variables.
func NewConfig(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("missing MONGODB_URI environment variable")
	}
	if c.VerificationCodeTTL <= 0 {
		return fmt.Errorf("VERIFICATION_CODE_TTL must be positive")
	}

	return nil
}
