package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rx0a/rayspace/internal/common"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	SiteURL   string `mapstructure:"SITE_URL"`
	SiteName  string `mapstructure:"SITE_NAME"`
	PagesDir  string `mapstructure:"PAGES_DIR"`
	AssetsDir string `mapstructure:"ASSETS_DIR"`

	DBHost         string `mapstructure:"POSTGRES_HOST"`
	DBPort         string `mapstructure:"POSTGRES_PORT"`
	DBUser         string `mapstructure:"POSTGRES_USER"`
	DBPassword     string `mapstructure:"POSTGRES_PASSWORD"`
	DBName         string `mapstructure:"POSTGRES_DB"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`
	MigrateOnStart bool   `mapstructure:"MIGRATE_ON_START"`

	SecretKey string `mapstructure:"SECRET_KEY"`

	GithubClientID     string `mapstructure:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `mapstructure:"GITHUB_CLIENT_SECRET"`
	GithubRedirectURL  string `mapstructure:"GITHUB_REDIRECT_URL"`
	GithubRepoOwner    string `mapstructure:"GITHUB_REPO_OWNER"`
	GithubRepoName     string `mapstructure:"GITHUB_REPO_NAME"`
	GithubAPIURL       string `mapstructure:"GITHUB_API_URL"`
	AdminUserID        string `mapstructure:"ADMIN_USER_ID"`
	EditorUserIDs      string `mapstructure:"EDITOR_USER_IDS"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`
	OwnerEmail   string `mapstructure:"OWNER_EMAIL"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	LimiterEnabled bool    `mapstructure:"LIMITER_ENABLED"`
	LimiterRPS     float64 `mapstructure:"LIMITER_RPS"`
	LimiterBurst   int     `mapstructure:"LIMITER_BURST"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("VERSION", "dev")
	v.SetDefault("SITE_URL", "http://localhost:8080")
	v.SetDefault("SITE_NAME", "Ray Space")
	v.SetDefault("PAGES_DIR", "./web/pages")
	v.SetDefault("ASSETS_DIR", "./web/assets")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("MIGRATE_ON_START", false)
	v.SetDefault("GITHUB_REDIRECT_URL", "http://localhost:8080/auth/github/callback")
	v.SetDefault("GITHUB_API_URL", "https://api.github.com")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("RABBITMQ_PORT", "5672")
	v.SetDefault("LIMITER_ENABLED", true)
	v.SetDefault("LIMITER_RPS", 4)
	v.SetDefault("LIMITER_BURST", 8)
}

// loadConfig reads path as a dotenv file; values in the environment win.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{"SECRET_KEY", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "GITHUB_REPO_OWNER", "GITHUB_REPO_NAME", "ADMIN_USER_ID", "EDITOR_USER_IDS", "OWNER_EMAIL", "POSTGRES_HOST", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "MAIL_HOST", "MAIL_USER", "MAIL_PASSWORD", "MAIL_SENDER", "RABBITMQ_HOST", "RABBITMQ_USER", "RABBITMQ_PASSWORD"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	var errs []error

	required := map[string]string{
		"POSTGRES_HOST":     c.DBHost,
		"POSTGRES_USER":     c.DBUser,
		"POSTGRES_DB":       c.DBName,
		"SECRET_KEY":        c.SecretKey,
		"ADMIN_USER_ID":     c.AdminUserID,
		"GITHUB_REPO_OWNER": c.GithubRepoOwner,
		"GITHUB_REPO_NAME":  c.GithubRepoName,
		"RABBITMQ_HOST":     c.MQHost,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%s must be set", key))
		}
	}

	if c.SecretKey != "" {
		if _, err := c.secretKey(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.LimiterEnabled && (c.LimiterRPS <= 0 || c.LimiterBurst <= 0) {
		errs = append(errs, errors.New("LIMITER_RPS and LIMITER_BURST must be positive when the limiter is enabled"))
	}

	return errors.Join(errs...)
}

// secretKey decodes SECRET_KEY, which must hold at least 32 bytes of hex.
func (c *Config) secretKey() ([]byte, error) {
	key, err := hex.DecodeString(c.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("SECRET_KEY must be hex encoded: %w", err)
	}
	if len(key) < 32 {
		return nil, errors.New("SECRET_KEY must be at least 32 bytes")
	}
	return key, nil
}

func (c *Config) editorIDs() []string {
	var ids []string
	for _, id := range strings.Split(c.EditorUserIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Config) dsn() string {
	return common.DSN(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func (c *Config) isProduction() bool {
	return c.Environment == "production"
}
