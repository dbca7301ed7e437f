// Package compare diffs two directory snapshots by immutable identity
// code. It is a pure function of its inputs: no I/O, no mutation.
package compare

import (
	"sort"
	"time"

	"staffdir/internal/directory"
)

// Academic rank order; lower is more senior.
var academicRanks = map[string]int{
	"Senior Professor":    1,
	"Professor":           2,
	"Associate Professor": 3,
	"Assistant Professor": 4,
	"Senior Lecturer":     5,
	"Lecturer":            6,
	"Tutor":               7,
}

// Administrative rank order; lower is more senior.
var adminRanks = map[string]int{
	"Senior Specialist": 1,
	"Specialist 2":      2,
	"Specialist 1":      3,
	"Senior Officer":    4,
	"Officer":           5,
	"Assistant Officer": 6,
}

type ChangeType string

const (
	Promotion ChangeType = "promotion"
	Demotion  ChangeType = "demotion"
	Lateral   ChangeType = "lateral"
	Unclear   ChangeType = "unknown"
)

// PositionChange records one person's designation change between the two
// snapshots.
type PositionChange struct {
	IdentityCode   string
	Name           string
	Faculty        string
	Department     string
	OldDesignation string
	NewDesignation string
	ChangeType     ChangeType
}

// AdminPostChange records a difference in a person's administrative post
// set, independent of any designation change.
type AdminPostChange struct {
	IdentityCode string
	Name         string
	Faculty      string
	Department   string
	OldPosts     []string
	NewPosts     []string
	Added        []string
	Removed      []string
}

// StaffCountChange is a unit whose headcount changed between snapshots.
// PercentChange is 100 when the prior count was zero.
type StaffCountChange struct {
	Unit          string
	UnitType      string // "faculty" or "department"
	OldCount      int
	NewCount      int
	Change        int
	PercentChange float64
}

type Summary struct {
	TotalStaffYear1  int
	TotalStaffYear2  int
	NetChange        int
	Promotions       int
	Demotions        int
	LateralMoves     int
	AdminPostChanges int
	NewHires         int
	Departures       int
}

// Result is the ephemeral outcome of diffing two snapshots. It is never
// persisted.
type Result struct {
	Year1                  int
	Year2                  int
	Summary                Summary
	PositionChanges        []PositionChange
	AdminPostChanges       []AdminPostChange
	FacultyCountChanges    []StaffCountChange
	DepartmentCountChanges []StaffCountChange
	NewHires               []directory.StaffRecord
	Departures             []directory.StaffRecord
}

type locatedStaff struct {
	record     directory.StaffRecord
	faculty    string
	department string
}

// Compare diffs dir1 (year 1) against dir2 (year 2). Comparing a snapshot
// against itself yields the zero result.
func Compare(dir1, dir2 *directory.Directory) Result {
	staff1 := flatten(dir1)
	staff2 := flatten(dir2)

	result := Result{
		Year1: snapshotYear(dir1),
		Year2: snapshotYear(dir2),
	}

	for _, code := range sortedCodes(staff1) {
		s1 := staff1[code]
		s2, ok := staff2[code]
		if !ok {
			result.Departures = append(result.Departures, s1.record)
			continue
		}

		if s1.record.Designation != s2.record.Designation {
			result.PositionChanges = append(result.PositionChanges, PositionChange{
				IdentityCode:   code,
				Name:           s1.record.Name,
				Faculty:        s1.faculty,
				Department:     s1.department,
				OldDesignation: s1.record.Designation,
				NewDesignation: s2.record.Designation,
				ChangeType:     classifyPositionChange(s1.record.Designation, s2.record.Designation),
			})
		}

		added, removed := diffPostSets(s1.record.AdminPosts, s2.record.AdminPosts)
		if len(added) > 0 || len(removed) > 0 {
			result.AdminPostChanges = append(result.AdminPostChanges, AdminPostChange{
				IdentityCode: code,
				Name:         s1.record.Name,
				Faculty:      s1.faculty,
				Department:   s1.department,
				OldPosts:     s1.record.AdminPosts,
				NewPosts:     s2.record.AdminPosts,
				Added:        added,
				Removed:      removed,
			})
		}
	}

	for _, code := range sortedCodes(staff2) {
		if _, ok := staff1[code]; !ok {
			result.NewHires = append(result.NewHires, staff2[code].record)
		}
	}

	result.FacultyCountChanges = facultyCountChanges(dir1, dir2)
	result.DepartmentCountChanges = departmentCountChanges(dir1, dir2)

	for _, c := range result.PositionChanges {
		switch c.ChangeType {
		case Promotion:
			result.Summary.Promotions++
		case Demotion:
			result.Summary.Demotions++
		case Lateral:
			result.Summary.LateralMoves++
		}
	}
	result.Summary.AdminPostChanges = len(result.AdminPostChanges)
	result.Summary.NewHires = len(result.NewHires)
	result.Summary.Departures = len(result.Departures)
	result.Summary.TotalStaffYear1 = dir1.Metadata.UniqueStaffCount
	result.Summary.TotalStaffYear2 = dir2.Metadata.UniqueStaffCount
	result.Summary.NetChange = dir2.Metadata.UniqueStaffCount - dir1.Metadata.UniqueStaffCount

	return result
}

// classifyPositionChange ranks both designations in the academic table,
// then the administrative table. When the two designations are not both
// present in one table the change is unknown — never guessed.
func classifyPositionChange(oldDesignation, newDesignation string) ChangeType {
	if oldDesignation == newDesignation {
		return Lateral
	}

	for _, ranks := range []map[string]int{academicRanks, adminRanks} {
		oldRank, oldOK := ranks[oldDesignation]
		newRank, newOK := ranks[newDesignation]
		if !oldOK || !newOK {
			continue
		}
		switch {
		case newRank < oldRank:
			return Promotion
		case newRank > oldRank:
			return Demotion
		default:
			return Lateral
		}
	}
	return Unclear
}

// diffPostSets compares administrative post lists as sets, ignoring
// order.
func diffPostSets(oldPosts, newPosts []string) (added, removed []string) {
	oldSet := map[string]bool{}
	for _, p := range oldPosts {
		oldSet[p] = true
	}
	newSet := map[string]bool{}
	for _, p := range newPosts {
		newSet[p] = true
	}

	for _, p := range newPosts {
		if !oldSet[p] {
			added = append(added, p)
		}
	}
	for _, p := range oldPosts {
		if !newSet[p] {
			removed = append(removed, p)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func facultyCountChanges(dir1, dir2 *directory.Directory) []StaffCountChange {
	all := map[string]bool{}
	for k := range dir1.Faculties {
		all[k] = true
	}
	for k := range dir2.Faculties {
		all[k] = true
	}

	var changes []StaffCountChange
	for _, key := range sortedSet(all) {
		oldCount, newCount := 0, 0
		if fac, ok := dir1.Faculties[key]; ok {
			oldCount = fac.UniqueStaffCount
		}
		if fac, ok := dir2.Faculties[key]; ok {
			newCount = fac.UniqueStaffCount
		}
		if change := newCount - oldCount; change != 0 {
			changes = append(changes, StaffCountChange{
				Unit:          key,
				UnitType:      "faculty",
				OldCount:      oldCount,
				NewCount:      newCount,
				Change:        change,
				PercentChange: percentChange(oldCount, change),
			})
		}
	}
	return changes
}

func departmentCountChanges(dir1, dir2 *directory.Directory) []StaffCountChange {
	type deptKey struct{ faculty, dept string }
	all := map[deptKey]bool{}
	for facKey, fac := range dir1.Faculties {
		for deptAcronym := range fac.Departments {
			all[deptKey{facKey, deptAcronym}] = true
		}
	}
	for facKey, fac := range dir2.Faculties {
		for deptAcronym := range fac.Departments {
			all[deptKey{facKey, deptAcronym}] = true
		}
	}

	keys := make([]deptKey, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].faculty != keys[j].faculty {
			return keys[i].faculty < keys[j].faculty
		}
		return keys[i].dept < keys[j].dept
	})

	var changes []StaffCountChange
	for _, key := range keys {
		oldCount := deptStaffCount(dir1, key.faculty, key.dept)
		newCount := deptStaffCount(dir2, key.faculty, key.dept)
		if change := newCount - oldCount; change != 0 {
			changes = append(changes, StaffCountChange{
				Unit:          key.faculty + " - " + key.dept,
				UnitType:      "department",
				OldCount:      oldCount,
				NewCount:      newCount,
				Change:        change,
				PercentChange: percentChange(oldCount, change),
			})
		}
	}
	return changes
}

func deptStaffCount(dir *directory.Directory, facultyKey, deptKey string) int {
	fac, ok := dir.Faculties[facultyKey]
	if !ok {
		return 0
	}
	dept, ok := fac.Departments[deptKey]
	if !ok {
		return 0
	}
	return dept.StaffCount
}

func percentChange(oldCount, change int) float64 {
	if oldCount == 0 {
		return 100
	}
	return float64(change) / float64(oldCount) * 100
}

func flatten(dir *directory.Directory) map[string]locatedStaff {
	out := map[string]locatedStaff{}
	for facKey, fac := range dir.Faculties {
		for deptKey, dept := range fac.Departments {
			for _, s := range dept.Staff {
				out[s.IdentityCode] = locatedStaff{record: s, faculty: facKey, department: deptKey}
			}
		}
	}
	return out
}

func snapshotYear(dir *directory.Directory) int {
	if dir.LegacyMetadata != nil && dir.LegacyMetadata.SnapshotYear != 0 {
		return dir.LegacyMetadata.SnapshotYear
	}
	if t, err := time.Parse(time.RFC3339, dir.LastUpdated); err == nil {
		return t.Year()
	}
	return 0
}

func sortedCodes(staff map[string]locatedStaff) []string {
	codes := make([]string, 0, len(staff))
	for code := range staff {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func sortedSet(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
