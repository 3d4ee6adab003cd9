package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultDatabase = "ledo-sports-academy"

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	Redis      RedisConfig      `yaml:"redis"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Email      EmailConfig      `yaml:"email"`
	Fees       FeesConfig       `yaml:"fees"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Static     StaticConfig     `yaml:"static"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug, release, test
}

type MongoConfig struct {
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// RedisConfig enables cross-process locks when URL is set.
type RedisConfig struct {
	URL string `yaml:"url"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

type EmailConfig struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
}

type FeesConfig struct {
	DefaultAmount int64  `yaml:"default_amount"`
	SeedDate      string `yaml:"seed_date"`
}

type DashboardConfig struct {
	RefreshOnWrite bool   `yaml:"refresh_on_write"`
	SnapshotCron   string `yaml:"snapshot_cron"`
}

type StaticConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 5000, Mode: "release"},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017/" + defaultDatabase,
			TimeoutSeconds: 5,
		},
		Log:        LogConfig{Level: "info", Format: "text"},
		CORS:       CORSConfig{AllowOrigins: []string{"*"}},
		Cloudinary: CloudinaryConfig{Folder: "gallery"},
		Email:      EmailConfig{APIURL: "https://api.zeptomail.com/v1.1/email"},
		Fees:       FeesConfig{DefaultAmount: 20, SeedDate: "2025-08-03"},
	}
}

// Load reads .env (if present), then the YAML file at path (if non-empty),
// then environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.overrideWithEnv(); err != nil {
		return nil, err
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = databaseFromURI(cfg.Mongo.URI)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) overrideWithEnv() error {
	if val := os.Getenv("PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("PORT must be a number: %w", err)
		}
		c.Server.Port = port
	}
	setString(&c.Server.Mode, "GIN_MODE")

	setString(&c.Mongo.URI, "MONGODB_URI")
	setString(&c.Mongo.Database, "MONGODB_DB")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if val := os.Getenv("CORS_ORIGINS"); val != "" {
		c.CORS.AllowOrigins = splitList(val)
	}

	setString(&c.Redis.URL, "REDIS_URL")

	setString(&c.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&c.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&c.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setString(&c.Cloudinary.Folder, "CLOUDINARY_FOLDER")

	setString(&c.Email.APIURL, "ZEPTO_API_URL")
	setString(&c.Email.APIKey, "ZEPTO_API_KEY")
	setString(&c.Email.From, "EMAIL_FROM")

	if val := os.Getenv("WEEKLY_FEE_AMOUNT"); val != "" {
		amount, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("WEEKLY_FEE_AMOUNT must be a number: %w", err)
		}
		c.Fees.DefaultAmount = amount
	}
	setString(&c.Fees.SeedDate, "WEEKLY_FEE_SEED_DATE")

	if val := os.Getenv("DASHBOARD_REFRESH_ON_WRITE"); val != "" {
		on, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("DASHBOARD_REFRESH_ON_WRITE must be a boolean: %w", err)
		}
		c.Dashboard.RefreshOnWrite = on
	}
	setString(&c.Dashboard.SnapshotCron, "DASHBOARD_SNAPSHOT_CRON")
	setString(&c.Static.Dir, "STATIC_DIR")
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Mongo.URI == "" {
		return errors.New("mongo uri is required")
	}
	if c.Mongo.Database == "" {
		return errors.New("mongo database is required")
	}
	if c.Mongo.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid mongo timeout: %d", c.Mongo.TimeoutSeconds)
	}
	if c.Fees.DefaultAmount <= 0 {
		return fmt.Errorf("fees default amount must be positive: %d", c.Fees.DefaultAmount)
	}
	if _, err := c.SeedDate(); err != nil {
		return err
	}
	if c.Dashboard.SnapshotCron != "" {
		if _, err := cron.ParseStandard(c.Dashboard.SnapshotCron); err != nil {
			return fmt.Errorf("invalid dashboard snapshot cron %q: %w", c.Dashboard.SnapshotCron, err)
		}
	}
	return nil
}

// SeedDate is the date of the first payment on a new member's ledger.
func (c *Config) SeedDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Fees.SeedDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid fees seed date %q: %w", c.Fees.SeedDate, err)
	}
	return t.UTC(), nil
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) MongoTimeout() time.Duration {
	return time.Duration(c.Mongo.TimeoutSeconds) * time.Second
}

func (c *Config) CloudinaryEnabled() bool {
	return c.Cloudinary.CloudName != "" && c.Cloudinary.APIKey != "" && c.Cloudinary.APISecret != ""
}

func (c *Config) EmailEnabled() bool {
	return c.Email.APIURL != "" && c.Email.APIKey != "" && c.Email.From != ""
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
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

// databaseFromURI returns the path component of a mongodb URI.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabase
}
