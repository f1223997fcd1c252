package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is read once at process start.
type Config struct {
	Port        string   `yaml:"port"`
	Environment string   `yaml:"environment"`
	LogLevel    string   `yaml:"log_level"`
	Timezone    string   `yaml:"timezone"`
	CORSOrigins []string `yaml:"cors_origins"`

	Database Database `yaml:"database"`
	Session  Session  `yaml:"session"`
	Auth     Auth     `yaml:"auth"`
	Twilio   Twilio   `yaml:"twilio"`
	Reminder Reminder `yaml:"reminder"`
}

// Database selects the store. Driver is one of postgres, mysql, mongo or memory.
type Database struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type Session struct {
	Secret        string        `yaml:"secret"`
	TTL           time.Duration `yaml:"ttl"`
	CookieName    string        `yaml:"cookie_name"`
	PurgeSchedule string        `yaml:"purge_schedule"`
}

// Auth is the single shared staff account.
type Auth struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
	BcryptCost   int    `yaml:"bcrypt_cost"`
}

type Twilio struct {
	AccountSID  string `yaml:"account_sid"`
	AuthToken   string `yaml:"auth_token"`
	FromNumber  string `yaml:"from_number"`
	CountryCode string `yaml:"country_code"`
}

// Enabled reports whether SMS reminders can be sent.
func (t Twilio) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

type Reminder struct {
	Schedule string        `yaml:"schedule"`
	Window   time.Duration `yaml:"window"`
}

const devSessionSecret = "defaultsecret"

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Port:        "8080",
		Environment: "development",
		LogLevel:    "info",
		Timezone:    "America/Halifax",
		CORSOrigins: []string{"http://localhost:3000"},
		Database: Database{
			Driver:          "postgres",
			Name:            "laundromat",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Session: Session{
			TTL:           24 * time.Hour,
			CookieName:    "session",
			PurgeSchedule: "@every 10m",
		},
		Auth: Auth{
			BcryptCost: 10,
		},
		Twilio: Twilio{
			CountryCode: "+1",
		},
		Reminder: Reminder{
			Schedule: "@every 15m",
			Window:   2 * time.Hour,
		},
	}
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE, then
// environment variables, later sources overriding earlier ones.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found")
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("APP_ENV", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Timezone = getEnv("TIMEZONE", c.Timezone)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = splitList(origins)
	}

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.URL = getEnv("DB_URL", c.Database.URL)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.MaxOpenConns = getInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)

	c.Session.Secret = getEnv("SESSION_SECRET", c.Session.Secret)
	c.Session.TTL = getDuration("SESSION_TTL", c.Session.TTL)
	c.Session.CookieName = getEnv("SESSION_COOKIE", c.Session.CookieName)
	c.Session.PurgeSchedule = getEnv("SESSION_PURGE_SCHEDULE", c.Session.PurgeSchedule)

	c.Auth.Username = getEnv("AUTH_USERNAME", c.Auth.Username)
	c.Auth.Password = getEnv("AUTH_PASSWORD", c.Auth.Password)
	c.Auth.PasswordHash = getEnv("AUTH_PASSWORD_HASH", c.Auth.PasswordHash)
	c.Auth.BcryptCost = getInt("BCRYPT_COST", c.Auth.BcryptCost)

	c.Twilio.AccountSID = getEnv("TWILIO_ACCOUNT_SID", c.Twilio.AccountSID)
	c.Twilio.AuthToken = getEnv("TWILIO_AUTH_TOKEN", c.Twilio.AuthToken)
	c.Twilio.FromNumber = getEnv("TWILIO_PHONE_NUMBER", c.Twilio.FromNumber)
	c.Twilio.CountryCode = getEnv("SMS_COUNTRY_CODE", c.Twilio.CountryCode)

	c.Reminder.Schedule = getEnv("REMINDER_SCHEDULE", c.Reminder.Schedule)
	c.Reminder.Window = getDuration("REMINDER_WINDOW", c.Reminder.Window)
}

// Validate fills development defaults and rejects unusable settings.
func (c *Config) Validate() error {
	if c.Auth.Username == "" {
		return errors.New("AUTH_USERNAME is not set")
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return errors.New("AUTH_PASSWORD or AUTH_PASSWORD_HASH must be set")
	}
	if c.Session.Secret == "" {
		if c.IsProduction() {
			return errors.New("SESSION_SECRET is not set")
		}
		logrus.Warn("SESSION_SECRET not set, using the development default")
		c.Session.Secret = devSessionSecret
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// IsProduction controls secure cookies, gin release mode and JSON logs.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Location returns the business time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
		logrus.Warnf("ignoring %s=%q: not an integer", key, val)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		// plain numbers are hours, like the old JWT_EXPIRY_HOURS
		if h, err := strconv.Atoi(val); err == nil {
			return time.Duration(h) * time.Hour
		}
		logrus.Warnf("ignoring %s=%q: not a duration", key, val)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
