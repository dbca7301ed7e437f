// Package search answers structured queries against an already-loaded
// snapshot. The snapshot is treated as an immutable value: every operation
// takes it as an explicit argument and performs no I/O.
package search

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"staffdir/internal/directory"
)

// Detailed results are capped at this many records; the cap is always
// signaled via Note, never applied silently.
const maxDetailedResults = 50

const snapshotMissingMsg = "Staff directory not available. Please ask an administrator to sync the staff database."

// Filters is the explicit filter set for staff queries. All fields are
// optional. Acronym implies, and overrides, faculty and department text
// matching; the remaining filters narrow the scoped staff list.
type Filters struct {
	Acronym     string // faculty or department acronym (exact)
	Faculty     string // free-text faculty name match
	Department  string // free-text department name match ("All" means faculty-wide)
	Name        string // fuzzy
	Expertise   string // substring against each expertise entry
	Role        string // exact against admin posts, substring against position/designation
	Designation string // normalized via the designation synonym table
}

func (f Filters) countOnly() bool {
	return f.Name == "" && f.Expertise == "" && f.Role == "" && f.Designation == ""
}

// QueryResult is the structured answer to a staff directory query.
type QueryResult struct {
	Available  bool
	Message    string
	Suggestion string
	Staff      []directory.StaffRecord
	TotalCount int
	Counts     directory.StaffCounts
	Note       string // set when results were truncated
	LastSynced string
}

func notAvailable() CountsResult {
	return CountsResult{Message: snapshotMissingMsg}
}

// QueryStaffDirectory answers a query from the snapshot only, never the
// live site. Count-only acronym queries are served from precomputed
// aggregates; anything else scans and filters the scoped staff lists.
func QueryStaffDirectory(dir *directory.Directory, f Filters) QueryResult {
	if dir == nil {
		return QueryResult{
			Message:    snapshotMissingMsg,
			Suggestion: "Run the sync command to build the staff directory snapshot.",
		}
	}

	if f.countOnly() && f.Acronym != "" {
		counts := UnitCounts(dir, f.Acronym, "")
		if counts.Found {
			return QueryResult{
				Available:  true,
				Message:    counts.Message,
				TotalCount: counts.Counts.StaffCount,
				Counts:     counts.Counts,
				LastSynced: dir.LastUpdated,
			}
		}
	}

	results := SearchStaff(dir, f)
	if len(results) == 0 {
		return QueryResult{
			Available:  true,
			Message:    "No staff found matching your criteria.",
			LastSynced: dir.LastUpdated,
		}
	}

	counts := directory.CalculateStaffCounts(results)
	out := QueryResult{
		Available:  true,
		Message:    fmt.Sprintf("Found %s", strings.TrimPrefix(countsMessage("", counts), "There are ")),
		Staff:      results,
		TotalCount: len(results),
		Counts:     counts,
		LastSynced: dir.LastUpdated,
	}
	if len(results) > maxDetailedResults {
		out.Staff = results[:maxDetailedResults]
		out.Note = fmt.Sprintf("Showing first %d of %d results. Refine your search for more specific results.",
			maxDetailedResults, len(results))
	}
	return out
}

// SearchStaff filters the snapshot's staff lists. The result is the full
// uncapped match list; callers that cap must signal truncation.
func SearchStaff(dir *directory.Directory, f Filters) []directory.StaffRecord {
	if dir == nil {
		return nil
	}

	scoped := scopeStaff(dir, f)
	log.Printf("[search] %d staff in scope before filtering", len(scoped))

	results := scoped
	if f.Name != "" {
		results = filterByName(results, f.Name)
	}
	if f.Expertise != "" {
		results = filterByExpertise(results, f.Expertise)
	}
	if f.Role != "" {
		results = filterByRole(results, f.Role)
	}
	if f.Designation != "" {
		results = filterByDesignation(results, f.Designation)
	}
	return results
}

// scopeStaff collects the staff lists the filters address: by exact
// acronym when given, by faculty/department text match otherwise, or the
// whole directory.
func scopeStaff(dir *directory.Directory, f Filters) []directory.StaffRecord {
	var staff []directory.StaffRecord

	if f.Acronym != "" {
		if fac, ok := dir.Faculties[f.Acronym]; ok {
			for _, dept := range fac.Departments {
				staff = append(staff, dept.Staff...)
			}
			return staff
		}
		for _, fac := range dir.Faculties {
			if dept, ok := fac.Departments[f.Acronym]; ok {
				// All departments carrying this acronym contribute; an
				// acronym shared across faculties is aggregated, not
				// first-match resolved.
				staff = append(staff, dept.Staff...)
			}
		}
		if rc, ok := dir.ResearchCentres[f.Acronym]; ok {
			staff = append(staff, rc.Staff...)
		}
		if tld, ok := dir.TopLevelDepartments[f.Acronym]; ok {
			staff = append(staff, tld.Staff...)
		}
		return staff
	}

	if f.Faculty != "" || f.Department != "" {
		facultyQuery := strings.ToLower(f.Faculty)
		deptQuery := strings.ToLower(f.Department)
		if deptQuery == "all" {
			deptQuery = ""
		}

		for facAcronym, fac := range dir.Faculties {
			if !unitTextMatches(facultyQuery, fac.Canonical, facAcronym, fac.Aliases) {
				continue
			}
			for deptAcronym, dept := range fac.Departments {
				if deptQuery == "" || unitTextMatches(deptQuery, dept.Canonical, deptAcronym, dept.Aliases) {
					staff = append(staff, dept.Staff...)
				}
			}
		}
		return staff
	}

	for _, fac := range dir.Faculties {
		for _, dept := range fac.Departments {
			staff = append(staff, dept.Staff...)
		}
	}
	for _, rc := range dir.ResearchCentres {
		staff = append(staff, rc.Staff...)
	}
	for _, tld := range dir.TopLevelDepartments {
		staff = append(staff, tld.Staff...)
	}
	return staff
}

func unitTextMatches(query, canonical, acronym string, aliases []string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(canonical), query) ||
		strings.Contains(strings.ToLower(acronym), query) {
		return true
	}
	for _, alias := range aliases {
		if strings.Contains(strings.ToLower(alias), query) {
			return true
		}
	}
	return false
}

// filterByName keeps fuzzy name matches, best first.
func filterByName(staff []directory.StaffRecord, query string) []directory.StaffRecord {
	names := make([]string, len(staff))
	for i, s := range staff {
		names[i] = s.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	out := make([]directory.StaffRecord, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, staff[rank.OriginalIndex])
	}
	return out
}

func filterByExpertise(staff []directory.StaffRecord, query string) []directory.StaffRecord {
	q := strings.ToLower(query)
	var out []directory.StaffRecord
	for _, s := range staff {
		for _, area := range s.Expertise {
			if strings.Contains(strings.ToLower(area), q) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// filterByRole matches administrative posts exactly for precision, then
// falls back to substring matches on position and designation.
func filterByRole(staff []directory.StaffRecord, query string) []directory.StaffRecord {
	q := strings.ToLower(query)
	var out []directory.StaffRecord
	for _, s := range staff {
		if roleMatches(s, q) {
			out = append(out, s)
		}
	}
	return out
}

func roleMatches(s directory.StaffRecord, q string) bool {
	for _, post := range s.AdminPosts {
		if strings.ToLower(post) == q {
			return true
		}
	}
	if strings.Contains(strings.ToLower(s.Position), q) {
		return true
	}
	return strings.Contains(strings.ToLower(s.Designation), q)
}

func filterByDesignation(staff []directory.StaffRecord, query string) []directory.StaffRecord {
	want := NormalizeDesignation(query)
	var out []directory.StaffRecord
	for _, s := range staff {
		if strings.EqualFold(s.Designation, want) {
			out = append(out, s)
		}
	}
	return out
}
