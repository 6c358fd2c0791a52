package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (weights, timeouts, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Matching MatchingConfig
	Notify   NotifyConfig
	Rfq      RfqConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// MatchingConfig carries the supplier-scoring weights so tests can vary them
// deterministically instead of reading module-level constants.
type MatchingConfig struct {
	TierWeight         float64 `envconfig:"MATCH_TIER_WEIGHT" default:"2.0"`
	RatingWeight       float64 `envconfig:"MATCH_RATING_WEIGHT" default:"1.0"`
	ResponseRateWeight float64 `envconfig:"MATCH_RESPONSE_RATE_WEIGHT" default:"0.0"`
	Cap                int     `envconfig:"MATCH_CAP" default:"10"`
}

type NotifyConfig struct {
	EmailEnabled    bool          `envconfig:"NOTIFY_EMAIL_ENABLED" default:"true"`
	WhatsAppEnabled bool          `envconfig:"NOTIFY_WHATSAPP_ENABLED" default:"true"`
	Workers         int           `envconfig:"NOTIFY_WORKERS" default:"2"`
	BatchSize       int           `envconfig:"NOTIFY_BATCH_SIZE" default:"20"`
	PollInterval    time.Duration `envconfig:"NOTIFY_POLL_INTERVAL" default:"15s"`
}

type RfqConfig struct {
	ExpiryDays int `envconfig:"RFQ_EXPIRY_DAYS" default:"14"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Matching: MatchingConfig{
			TierWeight:   2.0,
			RatingWeight: 1.0,
			Cap:          10,
		},
		Notify: NotifyConfig{
			EmailEnabled:    true,
			WhatsAppEnabled: true,
			Workers:         1,
			BatchSize:       20,
			PollInterval:    time.Second,
		},
		Rfq: RfqConfig{ExpiryDays: 14},
	}
}
