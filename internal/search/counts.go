package search

import (
	"fmt"
	"log"
	"strings"

	"staffdir/internal/directory"
)

// UnitBreakdown is one unit's contribution to an aggregated counts result.
type UnitBreakdown struct {
	Acronym  string
	Name     string
	Faculty  string // containing faculty acronym, empty for faculty-level units
	UnitType string // "faculty", "department", "research-centre", or "top-level-department"
	Counts   directory.StaffCounts
}

// CountsResult answers a count-only query from precomputed aggregates.
type CountsResult struct {
	Found      bool
	Message    string
	Unit       string
	UnitType   string
	Counts     directory.StaffCounts
	Breakdown  []UnitBreakdown // more than one entry when an acronym matched several faculties
	LastSynced string
}

// UnitCounts returns the precomputed staff counts for a unit acronym with
// no staff-list scan. When the acronym names a department that exists in
// more than one faculty and no containing faculty was given, the counts
// are aggregated across all matches and a per-faculty breakdown attached
// rather than guessing one.
func UnitCounts(dir *directory.Directory, acronym, facultyAcronym string) CountsResult {
	if dir == nil {
		return notAvailable()
	}

	if facultyAcronym == "" {
		if fac, ok := dir.Faculties[acronym]; ok {
			return CountsResult{
				Found:      true,
				Unit:       fac.Canonical,
				UnitType:   "faculty",
				Counts:     fac.StaffCounts,
				Breakdown:  []UnitBreakdown{{Acronym: acronym, Name: fac.Canonical, UnitType: "faculty", Counts: fac.StaffCounts}},
				Message:    countsMessage(fac.Canonical, fac.StaffCounts),
				LastSynced: dir.LastUpdated,
			}
		}
		if rc, ok := dir.ResearchCentres[acronym]; ok {
			return CountsResult{
				Found:      true,
				Unit:       rc.Canonical,
				UnitType:   "research-centre",
				Counts:     rc.StaffCounts,
				Message:    countsMessage(rc.Canonical, rc.StaffCounts),
				LastSynced: dir.LastUpdated,
			}
		}
		if tld, ok := dir.TopLevelDepartments[acronym]; ok {
			return CountsResult{
				Found:      true,
				Unit:       tld.Canonical,
				UnitType:   "top-level-department",
				Counts:     tld.StaffCounts,
				Message:    countsMessage(tld.Canonical, tld.StaffCounts),
				LastSynced: dir.LastUpdated,
			}
		}
	}

	// Department lookup, optionally scoped to one faculty.
	var matches []UnitBreakdown
	for facAcronym, fac := range dir.Faculties {
		if facultyAcronym != "" && facAcronym != facultyAcronym {
			continue
		}
		if dept, ok := fac.Departments[acronym]; ok {
			matches = append(matches, UnitBreakdown{
				Acronym:  acronym,
				Name:     dept.Canonical,
				Faculty:  facAcronym,
				UnitType: "department",
				Counts:   dept.StaffCounts,
			})
		}
	}

	switch len(matches) {
	case 0:
		return CountsResult{
			Found:      false,
			Message:    fmt.Sprintf("No unit found for acronym %q.", acronym),
			LastSynced: dir.LastUpdated,
		}
	case 1:
		m := matches[0]
		return CountsResult{
			Found:      true,
			Unit:       m.Name,
			UnitType:   "department",
			Counts:     m.Counts,
			Breakdown:  matches,
			Message:    countsMessage(m.Name, m.Counts),
			LastSynced: dir.LastUpdated,
		}
	}

	// The acronym exists in several faculties: aggregate and report the
	// per-faculty breakdown instead of picking one.
	log.Printf("[search] Acronym %s matched %d faculties, aggregating", acronym, len(matches))
	var total directory.StaffCounts
	var parts []string
	for _, m := range matches {
		total.StaffCount += m.Counts.StaffCount
		total.FullTimeCount += m.Counts.FullTimeCount
		total.AdjunctCount += m.Counts.AdjunctCount
		total.PartTimeCount += m.Counts.PartTimeCount
		total.ExpatriateCount += m.Counts.ExpatriateCount
		total.EmeritusCount += m.Counts.EmeritusCount
		total.UnknownCount += m.Counts.UnknownCount
		parts = append(parts, fmt.Sprintf("%s: %d", m.Faculty, m.Counts.StaffCount))
	}
	return CountsResult{
		Found:     true,
		Unit:      acronym,
		UnitType:  "department",
		Counts:    total,
		Breakdown: matches,
		Message: fmt.Sprintf("%q exists in %d faculties (%s). Combined: %s",
			acronym, len(matches), strings.Join(parts, ", "),
			countsMessage("", total)),
		LastSynced: dir.LastUpdated,
	}
}

// MultiUnitCountsResult aggregates counts over several units in one call.
type MultiUnitCountsResult struct {
	Found       bool
	Message     string
	Units       []UnitBreakdown
	TotalStaff  int
	TotalUnique int
}

// MultiUnitCounts returns per-unit counts for a list of acronyms plus the
// gross total and the de-duplicated unique staff total across all of them.
func MultiUnitCounts(dir *directory.Directory, acronyms []string) MultiUnitCountsResult {
	if dir == nil {
		return MultiUnitCountsResult{Message: snapshotMissingMsg}
	}
	if len(acronyms) == 0 {
		return MultiUnitCountsResult{Message: "No acronyms provided."}
	}

	var results []UnitBreakdown
	totalStaff := 0
	unique := map[string]bool{}

	for _, acronym := range acronyms {
		if fac, ok := dir.Faculties[acronym]; ok {
			results = append(results, UnitBreakdown{
				Acronym: acronym, Name: fac.Canonical, UnitType: "faculty", Counts: fac.StaffCounts,
			})
			totalStaff += fac.StaffCount
			for _, dept := range fac.Departments {
				for _, s := range dept.Staff {
					unique[s.IdentityCode] = true
				}
			}
			continue
		}

		found := false
		for facAcronym, fac := range dir.Faculties {
			dept, ok := fac.Departments[acronym]
			if !ok {
				continue
			}
			results = append(results, UnitBreakdown{
				Acronym: acronym, Name: dept.Canonical, Faculty: facAcronym,
				UnitType: "department", Counts: dept.StaffCounts,
			})
			totalStaff += dept.StaffCount
			for _, s := range dept.Staff {
				unique[s.IdentityCode] = true
			}
			found = true
			break
		}
		if !found {
			log.Printf("[search] Acronym not found: %s", acronym)
		}
	}

	if len(results) == 0 {
		return MultiUnitCountsResult{
			Message: fmt.Sprintf("No units found for acronyms: %s", strings.Join(acronyms, ", ")),
		}
	}

	var lines []string
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("%s (%s): %d staff", r.Name, r.Acronym, r.Counts.StaffCount))
	}
	message := fmt.Sprintf("Found %d unit(s):\n%s\nTotal: %d staff positions (%d unique staff)",
		len(results), strings.Join(lines, "\n"), totalStaff, len(unique))

	return MultiUnitCountsResult{
		Found:       true,
		Message:     message,
		Units:       results,
		TotalStaff:  totalStaff,
		TotalUnique: len(unique),
	}
}

func countsMessage(unit string, c directory.StaffCounts) string {
	var breakdown []string
	if c.FullTimeCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d full-time", c.FullTimeCount))
	}
	if c.AdjunctCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d adjunct", c.AdjunctCount))
	}
	if c.PartTimeCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d part-time", c.PartTimeCount))
	}
	if c.ExpatriateCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d expatriate", c.ExpatriateCount))
	}
	if c.EmeritusCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d emeritus", c.EmeritusCount))
	}
	if c.UnknownCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d unknown", c.UnknownCount))
	}

	subject := "There are"
	if unit != "" {
		subject = unit + " has"
	}
	if len(breakdown) == 0 {
		return fmt.Sprintf("%s %d staff members.", subject, c.StaffCount)
	}
	return fmt.Sprintf("%s %d staff members (%s).", subject, c.StaffCount, strings.Join(breakdown, ", "))
}
