// Package sync drives a full scrape-and-replace cycle of the staff
// directory snapshot. A sync run is an explicit batch operation: it may
// take minutes and never sits on a query path.
package sync

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"staffdir/internal/directory"
	"staffdir/internal/storage/sqlite"
	"staffdir/internal/units"
)

const maxHistoryEntries = 10

// UnitCrawler is the crawl capability the engine depends on.
type UnitCrawler interface {
	CrawlUnit(facultyAcronym, departmentID string) ([]directory.StaffRecord, error)
}

// Engine wires the registry, crawler, snapshot path, and optional audit
// database into a sync pipeline.
type Engine struct {
	Registry     *units.Registry
	Crawler      UnitCrawler
	SnapshotPath string
	Audit        *sql.DB // optional; nil disables the audit log
	Now          func() time.Time
}

func NewEngine(registry *units.Registry, crawler UnitCrawler, snapshotPath string, audit *sql.DB) *Engine {
	return &Engine{
		Registry:     registry,
		Crawler:      crawler,
		SnapshotPath: snapshotPath,
		Audit:        audit,
		Now:          time.Now,
	}
}

// Sync re-scrapes the requested faculties and replaces their rosters in
// the snapshot. Faculties are processed independently: after each one the
// snapshot is recomputed and persisted, so a transport failure later in
// the run never discards earlier progress. The returned history entry is
// also appended to the snapshot (newest first, capped at 10) and recorded
// in the audit log.
func (e *Engine) Sync(facultyAcronyms []string) (directory.SyncHistoryEntry, error) {
	start := e.Now()
	log.Printf("[sync] Starting staff directory sync: %s", strings.Join(facultyAcronyms, ", "))

	dir, err := directory.Load(e.SnapshotPath)
	if err != nil {
		return directory.SyncHistoryEntry{}, err
	}
	if dir == nil {
		log.Printf("[sync] No existing snapshot, creating a new one")
		dir = directory.NewDirectory()
	}

	var tally directory.SyncChange
	unknownPrefixes := map[string]bool{}
	var runErrors []string
	var processed []string

	for _, facultyAcronym := range facultyAcronyms {
		facultyUnit, ok := e.Registry.FacultyByAcronym(facultyAcronym)
		if !ok {
			log.Printf("[sync] Faculty %s not in unit registry, skipping", facultyAcronym)
			runErrors = append(runErrors, fmt.Sprintf("%s: not in unit registry", facultyAcronym))
			continue
		}

		departments := e.Registry.DepartmentsOf(facultyUnit.Canonical)
		log.Printf("[sync] Faculty %s: %d departments", facultyAcronym, len(departments))

		faculty := dir.Faculties[facultyAcronym]
		if faculty == nil {
			faculty = &directory.Faculty{
				Canonical:   facultyUnit.Canonical,
				Acronym:     facultyAcronym,
				Aliases:     facultyUnit.Aliases,
				Type:        facultyUnit.Type,
				Departments: map[string]*directory.Department{},
			}
			dir.Faculties[facultyAcronym] = faculty
		}

		facultyErr := e.syncFaculty(faculty, facultyAcronym, departments, &tally, unknownPrefixes)
		if facultyErr != nil {
			log.Printf("[sync] Faculty %s aborted: %v", facultyAcronym, facultyErr)
			runErrors = append(runErrors, fmt.Sprintf("%s: %v", facultyAcronym, facultyErr))
		} else {
			processed = append(processed, facultyAcronym)
		}

		// Per-faculty commit: whatever completed so far survives a later
		// faculty's failure.
		directory.RecomputeAggregates(dir)
		dir.LastUpdated = e.Now().UTC().Format(time.RFC3339)
		dir.SyncDuration = formatDuration(e.Now().Sub(start))
		if err := directory.Save(e.SnapshotPath, dir); err != nil {
			return directory.SyncHistoryEntry{}, fmt.Errorf("persisting after %s: %w", facultyAcronym, err)
		}
	}

	directory.RecomputeAggregates(dir)

	status := "success"
	if len(runErrors) > 0 {
		status = "partial"
		if len(processed) == 0 {
			status = "failed"
		}
	}

	now := e.Now()
	entry := directory.SyncHistoryEntry{
		Timestamp:          now.UTC().Format(time.RFC3339),
		Duration:           formatDuration(now.Sub(start)),
		Changes:            tally,
		TotalStaff:         dir.Metadata.StaffCount,
		Status:             status,
		FacultiesProcessed: facultyAcronyms,
		CentresProcessed:   []string{},
		TopLevelProcessed:  []string{},
		UnknownPrefixes:    sortedKeys(unknownPrefixes),
	}

	dir.SyncHistory = append([]directory.SyncHistoryEntry{entry}, dir.SyncHistory...)
	if len(dir.SyncHistory) > maxHistoryEntries {
		dir.SyncHistory = dir.SyncHistory[:maxHistoryEntries]
	}
	dir.LastUpdated = entry.Timestamp
	dir.SyncDuration = entry.Duration

	if err := directory.Save(e.SnapshotPath, dir); err != nil {
		return directory.SyncHistoryEntry{}, fmt.Errorf("persisting snapshot: %w", err)
	}

	e.recordAudit(start, entry, runErrors)

	log.Printf("[sync] Complete: %s", FormatSyncSummary(entry))
	if len(runErrors) > 0 {
		return entry, fmt.Errorf("sync finished with errors: %s", strings.Join(runErrors, "; "))
	}
	return entry, nil
}

// syncFaculty crawls every department of one faculty and replaces its
// staff lists wholesale, accumulating the change tally. The first
// transport error aborts the remainder of this faculty's crawl.
func (e *Engine) syncFaculty(
	faculty *directory.Faculty,
	facultyAcronym string,
	departments []units.Unit,
	tally *directory.SyncChange,
	unknownPrefixes map[string]bool,
) error {
	for _, deptUnit := range departments {
		deptAcronym := deptUnit.Acronym
		deptID := deptUnit.DepartmentID
		if deptID == "" {
			deptID = "All"
		}

		staffList, err := e.Crawler.CrawlUnit(facultyAcronym, deptID)
		if err != nil {
			return fmt.Errorf("department %s: %w", deptAcronym, err)
		}

		for _, staff := range staffList {
			if staff.StaffType == directory.Unknown {
				if prefix := directory.ExtractPrefix(staff.IdentityCode); prefix != "" {
					unknownPrefixes[prefix] = true
				}
			}
		}

		dept := faculty.Departments[deptAcronym]
		if dept == nil {
			deptType := directory.AcademicDept
			if deptUnit.Type == "Admin Department" || deptUnit.Type == "Administrative Department" {
				deptType = directory.AdministrativeDept
			}
			dept = &directory.Department{
				Canonical:      deptUnit.Canonical,
				Acronym:        deptAcronym,
				Aliases:        deptUnit.Aliases,
				DepartmentID:   deptID,
				Parent:         facultyAcronym,
				Type:           deptUnit.Type,
				DepartmentType: deptType,
			}
			faculty.Departments[deptAcronym] = dept
		}

		diffStaffLists(dept.Staff, staffList, tally)
		dept.Staff = staffList
		log.Printf("[sync] %s/%s: %d staff", facultyAcronym, deptAcronym, len(staffList))
	}
	return nil
}

// diffStaffLists classifies each record of the old and new lists as
// added, updated, deleted, or unchanged, keyed by identity code. A record
// counts as updated when its name, designation, email, or administrative
// post list differs.
func diffStaffLists(old, live []directory.StaffRecord, tally *directory.SyncChange) {
	existing := make(map[string]directory.StaffRecord, len(old))
	for _, s := range old {
		existing[s.IdentityCode] = s
	}
	liveIDs := make(map[string]bool, len(live))

	for _, s := range live {
		liveIDs[s.IdentityCode] = true
		prev, ok := existing[s.IdentityCode]
		if !ok {
			tally.Added++
			log.Printf("[sync]   [+] NEW: %s", s.Name)
			continue
		}
		if recordChanged(prev, s) {
			tally.Updated++
			log.Printf("[sync]   [~] UPDATED: %s", s.Name)
		} else {
			tally.Unchanged++
		}
	}

	for _, s := range old {
		if !liveIDs[s.IdentityCode] {
			tally.Deleted++
			log.Printf("[sync]   [-] DELETED: %s", s.Name)
		}
	}
}

func recordChanged(a, b directory.StaffRecord) bool {
	if a.Name != b.Name || a.Designation != b.Designation || a.Email != b.Email {
		return true
	}
	if len(a.AdminPosts) != len(b.AdminPosts) {
		return true
	}
	for i := range a.AdminPosts {
		if a.AdminPosts[i] != b.AdminPosts[i] {
			return true
		}
	}
	return false
}

func (e *Engine) recordAudit(start time.Time, entry directory.SyncHistoryEntry, runErrors []string) {
	if e.Audit == nil {
		return
	}
	run := sqlite.SyncRun{
		StartedAt:       start,
		DurationMS:      e.Now().Sub(start).Milliseconds(),
		Faculties:       strings.Join(entry.FacultiesProcessed, ","),
		Added:           entry.Changes.Added,
		Updated:         entry.Changes.Updated,
		Deleted:         entry.Changes.Deleted,
		Unchanged:       entry.Changes.Unchanged,
		TotalStaff:      entry.TotalStaff,
		Status:          entry.Status,
		UnknownPrefixes: strings.Join(entry.UnknownPrefixes, ","),
		Error:           strings.Join(runErrors, "; "),
	}
	if err := sqlite.InsertSyncRun(e.Audit, run); err != nil {
		log.Printf("[sync] Audit log insert failed: %v", err)
	}
}

// FormatSyncSummary returns a human-readable one-line summary of a sync
// run, suitable for logs and operator notifications.
func FormatSyncSummary(entry directory.SyncHistoryEntry) string {
	msg := fmt.Sprintf("%s sync of %s in %s: %d staff total (%d added, %d updated, %d deleted, %d unchanged)",
		entry.Status,
		strings.Join(entry.FacultiesProcessed, ", "),
		entry.Duration,
		entry.TotalStaff,
		entry.Changes.Added, entry.Changes.Updated, entry.Changes.Deleted, entry.Changes.Unchanged)
	if len(entry.UnknownPrefixes) > 0 {
		msg += fmt.Sprintf("\nUnknown identity-code prefixes found: %s", strings.Join(entry.UnknownPrefixes, ", "))
	}
	return msg
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
