package server

import (
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/logger"
	"github.com/rafacorp/recipes/postgres"
)

const (
	baseURLEnvVar     = "BASE_URL"
	environmentEnvVar = "ENVIRONMENT"
	hostEnvVar        = "HOST"
	logLevelEnvVar    = "LOG_LEVEL"
	portEnvVar        = "PORT"
	seedEnvVar        = "SEED_FIXTURES"

	jwtKeyEnvVar   = "JWT_SIGNING_KEY"
	tokenTTLEnvVar = "TOKEN_TTL"

	serverIdleTimeoutEnvVar  = "SERVER_IDLE_TIMEOUT"
	serverReadTimeoutEnvVar  = "SERVER_READ_TIMEOUT"
	serverWriteTimeoutEnvVar = "SERVER_WRITE_TIMEOUT"

	dbHostEnvVar    = "DATABASE_HOST"
	dbNameEnvVar    = "DATABASE_NAME"
	dbPassEnvVar    = "DATABASE_PASSWORD"
	dbPortEnvVar    = "DATABASE_PORT"
	dbSSLModeEnvVar = "DATABASE_SSLMODE"
	dbURLEnvVar     = "DATABASE_URL"
	dbUserEnvVar    = "DATABASE_USER"
	dbTestURLEnvVar = "TEST_DATABASE_URL"

	defaultHost         = "localhost"
	defaultPort         = ":3000"
	defaultIdleTimeout  = 120 * time.Second
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
	defaultTokenTTL     = 24 * time.Hour
)

// Config collects everything the environment tells the server about itself.
type Config struct {
	BaseURL      string
	Env          recipes.Environment
	Host         string
	Port         string
	JWTKey       string
	LogLevel     logger.LogLevel
	Seed         bool
	TokenTTL     time.Duration
	IdleTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DB           *postgres.CxnConfig
}

// NewConfig reads the server's configuration out of environment variables,
// falling back to development defaults. A .env file in the working
// directory is loaded first.
func NewConfig() *Config {
	env := recipes.EnvVarOrEnv(environmentEnvVar, recipes.Development)
	host := recipes.EnvVarOrString(hostEnvVar, defaultHost)
	port := recipes.EnvVarOrString(portEnvVar, defaultPort)

	return &Config{
		BaseURL:      recipes.EnvVarOrString(baseURLEnvVar, "http://"+host+port),
		Env:          env,
		Host:         host,
		Port:         port,
		JWTKey:       recipes.EnvVarOrString(jwtKeyEnvVar, ""),
		LogLevel:     logger.NewLogLevel(recipes.EnvVarOrString(logLevelEnvVar, "INFO")),
		Seed:         recipes.EnvVarOrBool(seedEnvVar, env.CanSeedFixtures()),
		TokenTTL:     recipes.EnvVarOrDuration(tokenTTLEnvVar, defaultTokenTTL),
		IdleTimeout:  recipes.EnvVarOrDuration(serverIdleTimeoutEnvVar, defaultIdleTimeout),
		ReadTimeout:  recipes.EnvVarOrDuration(serverReadTimeoutEnvVar, defaultReadTimeout),
		WriteTimeout: recipes.EnvVarOrDuration(serverWriteTimeoutEnvVar, defaultWriteTimeout),
		DB:           NewPostgresConfig(env),
	}
}

// NewPostgresConfig reads database connection values out of environment
// variables. In the Testing environment, the TEST_DATABASE_URL connection
// is used and the database is flagged for schema teardown.
func NewPostgresConfig(env recipes.Environment) *postgres.CxnConfig {
	if env.IsTesting() {
		return &postgres.CxnConfig{
			IsTestDB: true,
			URL:      recipes.EnvVarOrString(dbTestURLEnvVar, ""),
		}
	}

	return &postgres.CxnConfig{
		URL:      recipes.EnvVarOrString(dbURLEnvVar, ""),
		Host:     recipes.EnvVarOrString(dbHostEnvVar, "localhost"),
		Port:     recipes.EnvVarOrString(dbPortEnvVar, "5432"),
		Name:     recipes.EnvVarOrString(dbNameEnvVar, "recipes"),
		User:     recipes.EnvVarOrString(dbUserEnvVar, "recipes"),
		Password: recipes.EnvVarOrString(dbPassEnvVar, ""),
		SSLMode:  recipes.EnvVarOrString(dbSSLModeEnvVar, "prefer"),
	}
}
