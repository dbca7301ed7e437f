package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DIRECTORY_BASE_URL", "SNAPSHOT_PATH", "REGISTRY_PATH", "AUDIT_DB_PATH",
		"RATE_LIMIT_MS", "PAGE_SIZE", "MAX_PAGES", "EXTERNAL_HTTP_TIMEOUT_SECONDS",
		"SYNC_SCHEDULE", "SYNC_FACULTIES", "SLACK_BOT_TOKEN", "REPORT_CHANNEL_ID", "TIMEZONE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	t.Setenv("TIMEZONE", "UTC")

	cfg := LoadConfig()

	if cfg.DirectoryBaseURL != "https://www2.utar.edu.my" {
		t.Fatalf("unexpected base URL default: %q", cfg.DirectoryBaseURL)
	}
	if cfg.SnapshotPath != "./staff_directory.json" {
		t.Fatalf("unexpected snapshot path default: %q", cfg.SnapshotPath)
	}
	if cfg.RegistryPath != "./units.yaml" {
		t.Fatalf("unexpected registry path default: %q", cfg.RegistryPath)
	}
	if cfg.AuditDBPath != "./staffdir.db" {
		t.Fatalf("unexpected audit db path default: %q", cfg.AuditDBPath)
	}
	if cfg.RateLimitMS != 500 || cfg.PageSize != 30 || cfg.MaxPages != 20 {
		t.Fatalf("unexpected crawl defaults: rate=%d page=%d max=%d", cfg.RateLimitMS, cfg.PageSize, cfg.MaxPages)
	}
	if cfg.ExternalHTTPTimeoutSeconds != int(defaultExternalHTTPTimeout/time.Second) {
		t.Fatalf("unexpected external HTTP timeout default: %d", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.RateLimit() != 500*time.Millisecond {
		t.Fatalf("RateLimit() = %s", cfg.RateLimit())
	}
	if cfg.Location == nil || cfg.Location.String() != "UTC" {
		t.Fatalf("unexpected location: %v", cfg.Location)
	}
	if cfg.SlackConfigured() {
		t.Fatal("Slack should not be configured by default")
	}
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	clearConfigEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
directory_base_url: "https://yaml.example"
snapshot_path: "/data/staff.json"
rate_limit_ms: 250
page_size: 15
sync_schedule: "0 3 * * 0"
sync_faculties: [LKCFES, FICT]
timezone: "UTC"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("SYNC_FACULTIES", "FBF, FAS")

	cfg := LoadConfig()

	if cfg.DirectoryBaseURL != "https://yaml.example" {
		t.Fatalf("yaml base URL not applied: %q", cfg.DirectoryBaseURL)
	}
	if cfg.SnapshotPath != "/data/staff.json" {
		t.Fatalf("yaml snapshot path not applied: %q", cfg.SnapshotPath)
	}
	if cfg.RateLimitMS != 250 {
		t.Fatalf("yaml rate limit not applied: %d", cfg.RateLimitMS)
	}
	if cfg.PageSize != 25 {
		t.Fatalf("env override lost to yaml: page_size=%d", cfg.PageSize)
	}
	if cfg.SyncSchedule != "0 3 * * 0" {
		t.Fatalf("yaml schedule not applied: %q", cfg.SyncSchedule)
	}
	if len(cfg.SyncFaculties) != 2 || cfg.SyncFaculties[0] != "FBF" || cfg.SyncFaculties[1] != "FAS" {
		t.Fatalf("env faculties override not applied: %v", cfg.SyncFaculties)
	}
}

func TestLoadConfigSlackConfigured(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("REPORT_CHANNEL_ID", "C123456")

	cfg := LoadConfig()
	if !cfg.SlackConfigured() {
		t.Fatal("Slack should be configured when both token and channel are set")
	}
}
