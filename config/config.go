package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var DB *gorm.DB

// AppConfig is the configuration loaded at startup
var AppConfig *Config

// Config holds all configuration for the application
type Config struct {
	Port string
	Env  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret      string
	JWTExpiryHours int
	SessionSecret  string
	AllowedOrigins []string
	FrontendURL    string
	AdminEmail     string
	AdminPassword  string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	StorageDriver string
	UploadDir     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3PublicURL   string

	RazorpayKey    string
	RazorpaySecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	LowStockThreshold int
	TaxRate           float64
	RateLimitRPS      float64
	RateLimitBurst    int
	LogLevel          string
	LogFormat         string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "storesphere")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("SESSION_SECRET", "storesphere-session")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("LOW_STOCK_THRESHOLD", 5)
	v.SetDefault("TAX_RATE", 0)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// LoadConfig loads configuration from the environment, reading .env first when present
func LoadConfig() (*Config, error) {
	// A missing .env is fine: production injects real environment variables.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		Env:                v.GetString("ENV"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSLMODE"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTExpiryHours:     v.GetInt("JWT_EXPIRY_HOURS"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
		FrontendURL:        v.GetString("FRONTEND_URL"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		CacheTTLSeconds:    v.GetInt("CACHE_TTL_SECONDS"),
		StorageDriver:      v.GetString("STORAGE_DRIVER"),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Region:           v.GetString("S3_REGION"),
		S3Endpoint:         v.GetString("S3_ENDPOINT"),
		S3AccessKey:        v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:        v.GetString("S3_SECRET_KEY"),
		S3PublicURL:        v.GetString("S3_PUBLIC_URL"),
		RazorpayKey:        v.GetString("RAZORPAY_KEY"),
		RazorpaySecret:     v.GetString("RAZORPAY_SECRET"),
		SMTPHost:           v.GetString("SMTP_HOST"),
		SMTPPort:           v.GetInt("SMTP_PORT"),
		SMTPUsername:       v.GetString("SMTP_USERNAME"),
		SMTPPassword:       v.GetString("SMTP_PASSWORD"),
		SMTPFrom:           v.GetString("SMTP_FROM"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		LowStockThreshold:  v.GetInt("LOW_STOCK_THRESHOLD"),
		TaxRate:            v.GetFloat64("TAX_RATE"),
		RateLimitRPS:       v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
	}

	if cfg.JWTSecret == "" && cfg.Env == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	if cfg.StorageDriver != "local" && cfg.StorageDriver != "s3" {
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	AppConfig = cfg
	return cfg, nil
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
