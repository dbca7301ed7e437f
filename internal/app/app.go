package app

import (
	"log"
	"os"
	"strings"
	"time"

	"staffdir/internal/config"
	"staffdir/internal/crawler"
	"staffdir/internal/httpx"
	"staffdir/internal/notify"
	"staffdir/internal/storage/sqlite"
	"staffdir/internal/sync"
	"staffdir/internal/units"

	"github.com/robfig/cron/v3"
)

func Main() {
	cfg := config.LoadConfig()
	appliedHTTPTimeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf(
		"Config loaded. BaseURL=%s Snapshot=%s Registry=%s RateLimit=%s PageSize=%d MaxPages=%d Timezone=%s ExternalHTTPTimeout=%s",
		cfg.DirectoryBaseURL,
		cfg.SnapshotPath,
		cfg.RegistryPath,
		cfg.RateLimit(),
		cfg.PageSize,
		cfg.MaxPages,
		cfg.Timezone,
		appliedHTTPTimeout,
	)

	registry, err := units.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		log.Fatalf("Failed to load unit registry: %v", err)
	}
	log.Printf("Unit registry loaded from %s (%d units)", cfg.RegistryPath, len(registry.Units()))

	db, err := sqlite.InitDB(cfg.AuditDBPath)
	if err != nil {
		log.Fatalf("Failed to init audit database: %v", err)
	}
	log.Printf("Audit database initialized at %s", cfg.AuditDBPath)
	defer db.Close()

	cr := crawler.New(cfg.DirectoryBaseURL, registry)
	cr.Delay = cfg.RateLimit()
	cr.PageSize = cfg.PageSize
	cr.MaxPages = cfg.MaxPages

	engine := sync.NewEngine(registry, cr, cfg.SnapshotPath, db)
	notifier := notify.New(cfg.SlackBotToken, cfg.ReportChannelID)

	if len(os.Args) > 1 && os.Args[1] == "sync" {
		runOnce(cfg, registry, engine, notifier, os.Args[2:])
		return
	}

	startSyncScheduler(cfg, registry, engine, notifier)
	select {}
}

// runOnce performs a single sync and exits. With no argument (or "all")
// every faculty in the registry is synced; otherwise the argument is a
// comma-separated list of faculty acronyms.
func runOnce(cfg config.Config, registry *units.Registry, engine *sync.Engine, notifier *notify.Notifier, args []string) {
	acronyms := targetFaculties(cfg, registry, args)
	entry, err := engine.Sync(acronyms)
	summary := sync.FormatSyncSummary(entry)
	if err != nil {
		log.Printf("Sync finished with errors: %v", err)
	}
	log.Printf("Sync complete: %s", summary)
	notifier.PostSyncSummary(summary)
	if err != nil {
		os.Exit(1)
	}
}

// startSyncScheduler runs periodic syncs on a standard 5-field cron
// expression (minute hour day-of-month month day-of-week).
// Examples: "0 3 * * *" (daily 3am), "0 3 * * 0" (Sundays 3am).
func startSyncScheduler(cfg config.Config, registry *units.Registry, engine *sync.Engine, notifier *notify.Notifier) {
	schedule := strings.TrimSpace(cfg.SyncSchedule)
	if schedule == "" {
		log.Println("Scheduled sync disabled (sync_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Fatalf("Invalid sync_schedule '%s': %v", schedule, err)
	}

	acronyms := targetFaculties(cfg, registry, nil)
	log.Printf("Sync scheduled (cron: %s) for %s", schedule, strings.Join(acronyms, ", "))

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next sync at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			entry, syncErr := engine.Sync(acronyms)
			summary := sync.FormatSyncSummary(entry)
			if syncErr != nil {
				log.Printf("Scheduled sync error: %v", syncErr)
			}
			log.Printf("Scheduled sync complete: %s", summary)
			notifier.PostSyncSummary(summary)
		}
	}()
}

func targetFaculties(cfg config.Config, registry *units.Registry, args []string) []string {
	spec := strings.Join(args, ",")
	if spec == "" {
		spec = strings.Join(cfg.SyncFaculties, ",")
	}
	if spec == "" || strings.EqualFold(spec, "all") {
		var all []string
		for _, u := range registry.Units() {
			if u.Type == "Faculty" {
				all = append(all, u.Acronym)
			}
		}
		return all
	}
	var acronyms []string
	for _, a := range strings.Split(spec, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			acronyms = append(acronyms, strings.ToUpper(a))
		}
	}
	return acronyms
}
