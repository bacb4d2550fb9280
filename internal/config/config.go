package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTExpiry   time.Duration
	SiteName    string
	SiteUrl     string

	// 邮件
	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	// 上映提醒任务
	NotifyInProcess bool
	NotifyInterval  time.Duration

	CORSOrigins  []string
	RateLimitRPS float64
}

// Load 加载配置
func Load() *Config {
	expiryHours, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "1"))
	if err != nil || expiryHours <= 0 {
		expiryHours = 1
	}

	notifyHours, err := strconv.Atoi(getEnv("NOTIFY_INTERVAL_HOURS", "24"))
	if err != nil || notifyHours <= 0 {
		notifyHours = 24
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		rps = 5
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbUser := getEnv("DB_USER", "postgres")
		dbPass := getEnv("DB_PASSWORD", "postgres")
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "cinelog")
		dbSSL := getEnv("DB_SSLMODE", "disable")

		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
	}

	secret := getEnv("JWT_SECRET", getEnv("APP_SECRET", defaultSecret))

	return &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "5000"),
		DatabaseURL:     dbURL,
		JWTSecret:       secret,
		JWTExpiry:       time.Duration(expiryHours) * time.Hour,
		SiteName:        getEnv("SITE_NAME", "Cinelog"),
		SiteUrl:         getEnv("SITE_URL", "http://localhost:5000"),
		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		MailFrom:        getEnv("MAIL_FROM", "no-reply@cinelog.local"),
		MailFromName:    getEnv("MAIL_FROM_NAME", "Cinelog"),
		NotifyInProcess: getEnv("NOTIFY_IN_PROCESS", "false") == "true",
		NotifyInterval:  time.Duration(notifyHours) * time.Hour,
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPS:    rps,
	}
}

// UsesDefaultSecret 是否仍在使用默认签名密钥
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultSecret
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
