package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/attendance"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	OAuth2Google OAuth2GoogleConfig
	Attendance   AttendanceConfig
	Profile      ProfileConfig
	Cron         CronConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
	// AdminEmails get the admin role when their profile is first created.
	AdminEmails []string
}

type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// AttendanceConfig holds the business clock and classification rules.
type AttendanceConfig struct {
	Location         *time.Location
	LateCutoff       *attendance.TimeOfDay
	HalfDayThreshold decimal.Decimal
	WorkingDays      []string
	Holidays         []string
}

type ProfileConfig struct {
	RetryAttempts  int
	RetryBackoff   time.Duration
	AttemptTimeout time.Duration
}

type CronConfig struct {
	OpenAttendanceInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
		AdminEmails:    getEnvSlice("ADMIN_EMAILS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{config.App.FrontendURL}
	}

	config.Store = StoreConfig{Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres))}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 1)
	if err != nil {
		return nil, err
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "dayflow"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}
	if len(config.OAuth2Google.Scopes) == 0 {
		config.OAuth2Google.Scopes = []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		}
	}

	// Attendance rules
	if config.Attendance, err = loadAttendance(); err != nil {
		return nil, err
	}

	// Profile fetch retries
	attempts, err := getEnvInt("PROFILE_RETRY_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	backoff, err := getEnvDuration("PROFILE_RETRY_BACKOFF", 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	attemptTimeout, err := getEnvDuration("PROFILE_ATTEMPT_TIMEOUT", 2*time.Second)
	if err != nil {
		return nil, err
	}
	config.Profile = ProfileConfig{
		RetryAttempts:  attempts,
		RetryBackoff:   backoff,
		AttemptTimeout: attemptTimeout,
	}

	interval, err := getEnvDuration("CRON_OPEN_ATTENDANCE_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	config.Cron = CronConfig{OpenAttendanceInterval: interval}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadAttendance() (AttendanceConfig, error) {
	cfg := AttendanceConfig{
		WorkingDays: getEnvSlice("WORKING_DAYS"),
		Holidays:    getEnvSlice("HOLIDAYS"),
	}
	if len(cfg.WorkingDays) == 0 {
		cfg.WorkingDays = []string{"MO", "TU", "WE", "TH", "FR"}
	}

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	// An explicitly empty LATE_CUTOFF disables late classification.
	if cutoff, ok := os.LookupEnv("LATE_CUTOFF"); !ok || cutoff != "" {
		if !ok {
			cutoff = "09:30"
		}
		t, err := attendance.ParseTimeOfDay(cutoff)
		if err != nil {
			return AttendanceConfig{}, fmt.Errorf("invalid LATE_CUTOFF: %w", err)
		}
		cfg.LateCutoff = &t
	}

	threshold, err := decimal.NewFromString(getEnv("HALF_DAY_THRESHOLD_HOURS", "5"))
	if err != nil || threshold.IsNegative() {
		return AttendanceConfig{}, fmt.Errorf("invalid HALF_DAY_THRESHOLD_HOURS: %q", os.Getenv("HALF_DAY_THRESHOLD_HOURS"))
	}
	cfg.HalfDayThreshold = threshold

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.OAuth2Google.ClientID == "" {
		return fmt.Errorf("CLIENT_ID is required")
	}
	if c.OAuth2Google.ClientSecret == "" {
		return fmt.Errorf("CLIENT_SECRET is required")
	}
	if c.OAuth2Google.RedirectURL == "" {
		return fmt.Errorf("REDIRECT_URL is required")
	}
	if c.Profile.RetryAttempts < 1 {
		return fmt.Errorf("PROFILE_RETRY_ATTEMPTS must be at least 1")
	}
	if c.Cron.OpenAttendanceInterval <= 0 {
		return fmt.Errorf("CRON_OPEN_ATTENDANCE_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
