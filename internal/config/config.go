package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Session backends.
const (
	SessionJWT   = "jwt"
	SessionRedis = "redis"
)

// Config holds runtime configuration sourced from env vars, optionally
// layered over a YAML file named by CONFIG_FILE.
type Config struct {
	Port        string
	StoreDriver string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	DatabaseURL     string

	SessionBackend string
	JWTSecret      string
	JWTIssuer      string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	KafkaBrokers  []string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	OTPTTL       time.Duration
	CORSOrigins  []string
	CookieSecure bool
}

// fileConfig mirrors the env keys for the YAML base file.
type fileConfig struct {
	Port        string `yaml:"port"`
	StoreDriver string `yaml:"storeDriver"`
	Mongo       struct {
		URI        string `yaml:"uri"`
		Database   string `yaml:"database"`
		Collection string `yaml:"collection"`
	} `yaml:"mongo"`
	DatabaseURL string `yaml:"databaseUrl"`
	Session     struct {
		Backend  string `yaml:"backend"`
		TTLHours int    `yaml:"ttlHours"`
	} `yaml:"session"`
	JWT struct {
		Secret string `yaml:"secret"`
		Issuer string `yaml:"issuer"`
	} `yaml:"jwt"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers  []string `yaml:"brokers"`
		Topic    string   `yaml:"topic"`
		Username string   `yaml:"username"`
		Password string   `yaml:"password"`
	} `yaml:"kafka"`
	OTPTTLMinutes int      `yaml:"otpTtlMinutes"`
	CORSOrigins   []string `yaml:"corsAllowedOrigins"`
	CookieSecure  bool     `yaml:"cookieSecure"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var file fileConfig
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg := Config{
		Port:            fallback(os.Getenv("PORT"), fallback(file.Port, "5000")),
		StoreDriver:     strings.ToLower(fallback(os.Getenv("STORE_DRIVER"), fallback(file.StoreDriver, DriverMongo))),
		MongoURI:        fallback(os.Getenv("MONGODB_URI"), file.Mongo.URI),
		MongoDatabase:   fallback(os.Getenv("MONGODB_DATABASE"), fallback(file.Mongo.Database, "km_agri")),
		MongoCollection: fallback(os.Getenv("MONGODB_COLLECTION_USERS"), fallback(file.Mongo.Collection, "users")),
		DatabaseURL:     fallback(os.Getenv("DATABASE_URL"), file.DatabaseURL),
		SessionBackend:  strings.ToLower(fallback(os.Getenv("SESSION_BACKEND"), fallback(file.Session.Backend, SessionJWT))),
		JWTSecret:       fallback(os.Getenv("JWT_SECRET"), file.JWT.Secret),
		JWTIssuer:       fallback(os.Getenv("JWT_ISSUER"), fallback(file.JWT.Issuer, "km-agri-backend")),
		RedisAddr:       fallback(os.Getenv("REDIS_ADDR"), fallback(file.Redis.Addr, "localhost:6379")),
		RedisPassword:   fallback(os.Getenv("REDIS_PASSWORD"), file.Redis.Password),
		RedisDB:         positiveInt(os.Getenv("REDIS_DB"), file.Redis.DB),
		KafkaTopic:      fallback(os.Getenv("KAFKA_TOPIC"), fallback(file.Kafka.Topic, "km-agri-events")),
		KafkaUsername:   fallback(os.Getenv("KAFKA_USERNAME"), file.Kafka.Username),
		KafkaPassword:   fallback(os.Getenv("KAFKA_PASSWORD"), file.Kafka.Password),
		CORSOrigins:     parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), fallback(strings.Join(file.CORSOrigins, ","), "*"))),
		CookieSecure:    parseBool(os.Getenv("COOKIE_SECURE"), file.CookieSecure),
	}
	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		cfg.KafkaBrokers = parseList(brokers)
	} else {
		cfg.KafkaBrokers = parseList(strings.Join(file.Kafka.Brokers, ","))
	}

	hours := positiveInt(os.Getenv("SESSION_TTL_HOURS"), file.Session.TTLHours)
	if hours <= 0 {
		hours = 7 * 24
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour

	minutes := positiveInt(os.Getenv("OTP_TTL_MINUTES"), file.OTPTTLMinutes)
	if minutes <= 0 {
		minutes = 5
	}
	cfg.OTPTTL = time.Duration(minutes) * time.Minute

	switch cfg.StoreDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGODB_URI is required")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	switch cfg.SessionBackend {
	case SessionJWT:
		if cfg.JWTSecret == "" {
			return Config{}, errors.New("JWT_SECRET is required")
		}
	case SessionRedis:
	default:
		return Config{}, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// KafkaEnabled reports whether events should go to a broker.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(value string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n >= 0 {
		return n
	}
	return def
}

func parseBool(value string, def bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
		return b
	}
	return def
}

func parseList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseCSV(input string) []string {
	out := parseList(input)
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
