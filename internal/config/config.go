package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret      string
	JWTKeyID       string
	AccessTokenTTL time.Duration

	RateLimitPerMinute int

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	SMTPServer   string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	AdminEmail        string
	AdminPasswordHash string

	CORSOrigins []string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),

		Neo4jURI:      os.Getenv("NEO4J_URI"),
		Neo4jUser:     os.Getenv("NEO4J_USER"),
		Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),
		Neo4jDatabase: getEnvWithDefault("NEO4J_DATABASE", "neo4j"),

		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "rendez"),

		RedisAddr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getIntWithDefault("REDIS_DB", 0),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTKeyID:       getEnvWithDefault("JWT_KEY_ID", "rendez-v1"),
		AccessTokenTTL: time.Duration(getIntWithDefault("ACCESS_TOKEN_TTL_MINUTES", 30)) * time.Minute,

		RateLimitPerMinute: getIntWithDefault("RATE_LIMIT_PER_MINUTE", 10),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		SMTPServer:   getEnvWithDefault("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:     getIntWithDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromEmail:    os.Getenv("FROM_EMAIL"),
		FromName:     getEnvWithDefault("FROM_NAME", "Dating App"),

		AdminEmail:        getEnvWithDefault("ADMIN_EMAIL", "admin@datingapp.com"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		CORSOrigins: splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}

	// Validate required fields
	required := []struct{ key, value string }{
		{"NEO4J_URI", cfg.Neo4jURI},
		{"NEO4J_USER", cfg.Neo4jUser},
		{"NEO4J_PASSWORD", cfg.Neo4jPassword},
		{"JWT_SECRET", cfg.JWTSecret},
		{"MONGODB_URI", cfg.MongoDBURI},
		{"ADMIN_PASSWORD_HASH", cfg.AdminPasswordHash},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%s is required", r.key)
		}
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUsername
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// MailEnabled reports whether SMTP credentials are configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != ""
}

// CloudinaryEnabled reports whether photo uploads can be stored.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
