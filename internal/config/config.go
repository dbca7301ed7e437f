package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultExternalHTTPTimeout = 30 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

type Config struct {
	DirectoryBaseURL string `yaml:"directory_base_url"`
	SnapshotPath     string `yaml:"snapshot_path"`
	RegistryPath     string `yaml:"registry_path"`
	AuditDBPath      string `yaml:"audit_db_path"`

	RateLimitMS                int `yaml:"rate_limit_ms"`
	PageSize                   int `yaml:"page_size"`
	MaxPages                   int `yaml:"max_pages"`
	ExternalHTTPTimeoutSeconds int `yaml:"external_http_timeout_seconds"`

	// SyncSchedule is a 5-field cron expression. Empty disables the
	// scheduler, leaving only one-shot syncs via the command line.
	SyncSchedule  string   `yaml:"sync_schedule"`
	SyncFaculties []string `yaml:"sync_faculties"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	Timezone string `yaml:"timezone"`

	Location *time.Location `yaml:"-"` // computed from Timezone, not from YAML
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.DirectoryBaseURL, "DIRECTORY_BASE_URL")
	envOverride(&cfg.SnapshotPath, "SNAPSHOT_PATH")
	envOverride(&cfg.RegistryPath, "REGISTRY_PATH")
	envOverride(&cfg.AuditDBPath, "AUDIT_DB_PATH")
	envOverrideInt(&cfg.RateLimitMS, "RATE_LIMIT_MS")
	envOverrideInt(&cfg.PageSize, "PAGE_SIZE")
	envOverrideInt(&cfg.MaxPages, "MAX_PAGES")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")
	envOverride(&cfg.SyncSchedule, "SYNC_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.Timezone, "TIMEZONE")

	if names := os.Getenv("SYNC_FACULTIES"); names != "" {
		cfg.SyncFaculties = nil
		for _, name := range strings.Split(names, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.SyncFaculties = append(cfg.SyncFaculties, name)
			}
		}
	}

	if cfg.DirectoryBaseURL == "" {
		cfg.DirectoryBaseURL = "https://www2.utar.edu.my"
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = "./staff_directory.json"
	}
	if cfg.RegistryPath == "" {
		cfg.RegistryPath = "./units.yaml"
	}
	if cfg.AuditDBPath == "" {
		cfg.AuditDBPath = "./staffdir.db"
	}
	if cfg.RateLimitMS == 0 {
		cfg.RateLimitMS = 500
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 30
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = 20
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	if cfg.RateLimitMS < 0 {
		log.Fatalf("invalid rate_limit_ms '%d': must be >= 0", cfg.RateLimitMS)
	}
	if cfg.PageSize < 1 {
		log.Fatalf("invalid page_size '%d': must be >= 1", cfg.PageSize)
	}
	if cfg.MaxPages < 1 {
		log.Fatalf("invalid max_pages '%d': must be >= 1", cfg.MaxPages)
	}
	if cfg.ExternalHTTPTimeoutSeconds < 5 {
		log.Fatalf("invalid external_http_timeout_seconds '%d': must be >= 5", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.ReportChannelID != "" && cfg.SlackBotToken == "" {
		log.Fatalf("report_channel_id is set but slack_bot_token is not")
	}
	if cfg.SlackBotToken != "" && cfg.ReportChannelID == "" {
		log.Printf("WARNING: slack_bot_token is set but report_channel_id is not. Sync summaries will not be posted.")
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

// RateLimit returns the crawl delay between page fetches.
func (c Config) RateLimit() time.Duration {
	return time.Duration(c.RateLimitMS) * time.Millisecond
}
