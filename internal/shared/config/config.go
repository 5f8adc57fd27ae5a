package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the checkout service
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration (hotel catalog + bookings)
	Database DatabaseConfig

	// Redis configuration (checkout sessions, catalog cache, rate limits)
	Redis RedisConfig

	// Identity provider token validation
	JWT JWTConfig

	// Availability evaluation
	Availability AvailabilityConfig

	// Payment processing
	Payment PaymentConfig

	// Kafka notifications
	Kafka KafkaConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// TTL values for session-scoped state. Confirmations share the
	// session lifetime so the success screen can still read them once.
	CheckoutSessionTTL time.Duration
	CatalogCacheTTL    time.Duration
}

// JWTConfig holds identity provider token settings. The service never
// issues tokens; it only validates bearers minted by the external provider.
type JWTConfig struct {
	Secret string
}

// AvailabilityConfig holds availability evaluation settings
type AvailabilityConfig struct {
	// Mode selects the inventory source: "simulated" or "catalog"
	Mode string

	// Debounce is the input-quiescence window before re-evaluation
	Debounce time.Duration

	// SimulatedDelay stands in for the future inventory API round trip
	SimulatedDelay time.Duration

	// MaxStayNights is the longest bookable stay
	MaxStayNights int
}

// PaymentConfig holds payment processing settings
type PaymentConfig struct {
	// SimulatedDelay stands in for the gateway round trip
	SimulatedDelay time.Duration
	Currency       string
}

// KafkaConfig holds Kafka notification settings
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string

	// SMTP settings for the consumer-side email sender
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled          bool
	WindowDuration   time.Duration
	DefaultRequests  int
	CatalogRequests  int
	CheckoutRequests int
	PaymentRequests  int
	WhitelistedIPs   []string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "smartlodge_db"),
			User:     getEnv("DB_USER", "smartlodge_user"),
			Password: getEnv("DB_PASSWORD", "smartlodge_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			CheckoutSessionTTL: getDurationEnv("REDIS_CHECKOUT_SESSION_TTL", 2*time.Hour),
			CatalogCacheTTL:    getDurationEnv("REDIS_CATALOG_CACHE_TTL", 10*time.Minute),
		},

		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "identity-provider-shared-secret"),
		},

		Availability: AvailabilityConfig{
			Mode:           getEnv("AVAILABILITY_MODE", "simulated"),
			Debounce:       getDurationEnv("AVAILABILITY_DEBOUNCE", time.Second),
			SimulatedDelay: getDurationEnv("AVAILABILITY_SIMULATED_DELAY", 2*time.Second),
			MaxStayNights:  getIntEnv("AVAILABILITY_MAX_STAY_NIGHTS", 30),
		},

		Payment: PaymentConfig{
			SimulatedDelay: getDurationEnv("PAYMENT_SIMULATED_DELAY", 3*time.Second),
			Currency:       getEnv("PAYMENT_CURRENCY", "USD"),
		},

		Kafka: KafkaConfig{
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
			Brokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_NOTIFICATION_TOPIC", "booking-notifications"),

			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "bookings@smartlodge.com"),
		},

		RateLimit: RateLimitConfig{
			Enabled:          getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:   getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests:  getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			CatalogRequests:  getIntEnv("RATE_LIMIT_CATALOG_REQUESTS", 120),
			CheckoutRequests: getIntEnv("RATE_LIMIT_CHECKOUT_REQUESTS", 30),
			PaymentRequests:  getIntEnv("RATE_LIMIT_PAYMENT_REQUESTS", 10),
			WhitelistedIPs:   getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
