package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration for the bootstrap host.
type Server struct {
	Addr string

	// Instrumentation capability settings.
	APIKey         string
	RuntimeBaseURL string
	SampleRate     float64

	// Operator surface settings.
	JWTSigningKey      string
	OperatorSecretHash string

	Redis RedisConfig

	KafkaBrokers []string
	KafkaTopic   string
}

// RedisConfig holds connection settings for the runtime bundle cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultSampleRate is the fraction of sessions recorded when no override is
// configured. The production default records every session.
const DefaultSampleRate = 1.0

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CONSENTGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("CONSENTGATE_RUNTIME_BASE_URL")
	if baseURL == "" {
		baseURL = "https://cdn.amplitude.com"
	}

	sampleRate := DefaultSampleRate
	if raw := os.Getenv("CONSENTGATE_SAMPLE_RATE"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 && parsed <= 1 {
			sampleRate = parsed
		}
	}

	jwtSigningKey := os.Getenv("CONSENTGATE_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("CONSENTGATE_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	topic := os.Getenv("CONSENTGATE_KAFKA_TOPIC")
	if topic == "" {
		topic = "consentgate.audit"
	}

	return Server{
		Addr:               addr,
		APIKey:             os.Getenv("CONSENTGATE_API_KEY"),
		RuntimeBaseURL:     baseURL,
		SampleRate:         sampleRate,
		JWTSigningKey:      jwtSigningKey,
		OperatorSecretHash: os.Getenv("CONSENTGATE_OPERATOR_SECRET_HASH"),
		Redis:              redisFromEnv(),
		KafkaBrokers:       brokers,
		KafkaTopic:         topic,
	}
}

func redisFromEnv() RedisConfig {
	cfg := RedisConfig{
		URL:          os.Getenv("CONSENTGATE_REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if raw := os.Getenv("CONSENTGATE_REDIS_POOL_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.PoolSize = n
		}
	}
	return cfg
}
