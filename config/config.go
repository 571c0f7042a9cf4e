package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the whole runtime configuration, read once at startup.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Auth   AuthConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Observ ObservabilityConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// StoreConfig selects and tunes the document store.
type StoreConfig struct {
	Driver       string
	MongoURI     string
	DBName       string
	Transactions bool
	Timeout      time.Duration
}

type AuthConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

// RedisConfig is optional; an empty Addr switches cart locking to in-process mutexes.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// KafkaConfig is optional; no brokers means order events are not published.
type KafkaConfig struct {
	Brokers     []string
	TopicOrders string
}

type ObservabilityConfig struct {
	ServiceName    string
	JaegerEndpoint string
}

// LoadEnv reads a .env file when one is present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not read .env: %v", err)
	}
}

// Load reads .env when present, then the environment, filling defaults.
func Load() *Config {
	LoadEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     GetEnv("PORT", "8080"),
			Env:      GetEnv("ENV", "development"),
			LogLevel: GetEnv("LOG_LEVEL", ""),
		},
		Store: StoreConfig{
			Driver:       GetEnv("STORE_DRIVER", "mongo"),
			MongoURI:     GetEnv("MONGO_URI", "mongodb://localhost:27017"),
			DBName:       GetEnv("DB_NAME", "ECommerce"),
			Transactions: getBool("MONGO_TRANSACTIONS", false),
			Timeout:      getDuration("STORE_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			SecretKey: GetEnv("SECRET_KEY", ""),
			TokenTTL:  time.Duration(getInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", ""),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
			LockTTL:  getDuration("LOCK_TTL", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(GetEnv("KAFKA_BROKERS", "")),
			TopicOrders: GetEnv("KAFKA_TOPIC_ORDER_EVENTS", "order-events"),
		},
		Observ: ObservabilityConfig{
			ServiceName:    GetEnv("SERVICE_NAME", "storefront"),
			JaegerEndpoint: GetEnv("JAEGER_ENDPOINT", ""),
		},
	}

	return cfg
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return errMissing("SECRET_KEY")
	}
	switch c.Store.Driver {
	case "mongo":
		if c.Store.MongoURI == "" || c.Store.DBName == "" {
			return errMissing("MONGO_URI or DB_NAME")
		}
	case "memory":
	default:
		return &configError{msg: "unknown STORE_DRIVER " + strconv.Quote(c.Store.Driver)}
	}
	return nil
}

type configError struct{ msg string }

func (e *configError) Error() string { return "config: " + e.msg }

func errMissing(name string) error {
	return &configError{msg: name + " not set in environment variables"}
}

// GetEnv returns the variable key, or defaultVal when it is unset or empty.
func GetEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
