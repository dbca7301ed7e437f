package search

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"staffdir/internal/directory"
)

// DesignationStatsResult reports rank counts for one unit, or a single
// rank's count and member list when a designation was requested.
type DesignationStatsResult struct {
	Found             bool
	Message           string
	Unit              string
	UnitType          string // "faculty" or "department"
	Designation       string // normalized, set for single-designation queries
	Count             int
	Staff             []directory.DesignationMember
	DesignationCounts map[string]int
	DesignationLists  map[string][]directory.DesignationMember
	TotalStaff        int
}

// DesignationStats answers rank queries from the precomputed designation
// aggregates of a faculty or department, never by scanning staff lists.
func DesignationStats(dir *directory.Directory, f Filters) DesignationStatsResult {
	if dir == nil {
		return DesignationStatsResult{Message: snapshotMissingMsg}
	}

	unit, faculty, unitName := findStatsUnit(dir, f)
	if unit == nil && faculty == nil {
		return DesignationStatsResult{
			Message: "Could not find the requested faculty or department.",
		}
	}

	var counts map[string]int
	var lists map[string][]directory.DesignationMember
	var totalStaff int
	unitType := "faculty"
	if unit != nil {
		counts, lists, totalStaff = unit.DesignationCounts, unit.DesignationLists, unit.StaffCount
		unitType = "department"
	} else {
		counts, lists, totalStaff = faculty.DesignationCounts, faculty.DesignationLists, faculty.StaffCount
	}

	if f.Designation != "" {
		normalized := NormalizeDesignation(f.Designation)
		log.Printf("[search] Normalized designation %q -> %q", f.Designation, normalized)
		count := counts[normalized]
		plural := ""
		if count != 1 {
			plural = "s"
		}
		return DesignationStatsResult{
			Found:       true,
			Unit:        unitName,
			UnitType:    unitType,
			Designation: normalized,
			Count:       count,
			Staff:       lists[normalized],
			Message:     fmt.Sprintf("%s has %d %s%s.", unitName, count, normalized, plural),
		}
	}

	var breakdown []string
	for _, designation := range sortedDesignations(counts) {
		breakdown = append(breakdown, fmt.Sprintf("%s: %d", designation, counts[designation]))
	}
	return DesignationStatsResult{
		Found:             true,
		Unit:              unitName,
		UnitType:          unitType,
		DesignationCounts: counts,
		DesignationLists:  lists,
		TotalStaff:        totalStaff,
		Message: fmt.Sprintf("%s has %d total staff across %d designation categories: %s.",
			unitName, totalStaff, len(counts), strings.Join(breakdown, ", ")),
	}
}

// findStatsUnit resolves the filters to a department (preferred) or a
// faculty. Department is non-nil only when a department matched.
func findStatsUnit(dir *directory.Directory, f Filters) (*directory.Department, *directory.Faculty, string) {
	if f.Acronym != "" {
		if fac, ok := dir.Faculties[f.Acronym]; ok {
			return nil, fac, fac.Canonical
		}
		for _, fac := range dir.Faculties {
			if dept, ok := fac.Departments[f.Acronym]; ok {
				return dept, fac, fmt.Sprintf("%s (%s)", dept.Canonical, fac.Acronym)
			}
		}
		return nil, nil, ""
	}

	if f.Faculty == "" {
		return nil, nil, ""
	}

	facQuery := strings.ToLower(f.Faculty)
	for facAcronym, fac := range dir.Faculties {
		if !unitTextMatches(facQuery, fac.Canonical, facAcronym, fac.Aliases) &&
			strings.ToLower(facAcronym) != facQuery {
			continue
		}
		if f.Department != "" {
			deptQuery := strings.ToLower(f.Department)
			for deptAcronym, dept := range fac.Departments {
				if unitTextMatches(deptQuery, dept.Canonical, deptAcronym, dept.Aliases) ||
					strings.ToLower(deptAcronym) == deptQuery {
					return dept, fac, fmt.Sprintf("%s (%s)", dept.Canonical, fac.Acronym)
				}
			}
		}
		return nil, fac, fac.Canonical
	}
	return nil, nil, ""
}

// DepartmentDesignation is one department's standing in a cross-department
// comparison.
type DepartmentDesignation struct {
	Department        string
	Acronym           string
	Count             int // holders of the requested designation
	TotalStaff        int
	DesignationCounts map[string]int
}

type DesignationComparisonResult struct {
	Found                      bool
	Message                    string
	Faculty                    string
	Designation                string
	Departments                []DepartmentDesignation
	TotalDepartments           int
	DepartmentsWithDesignation int
}

// CompareDesignationsAcrossDepartments ranks a faculty's departments by
// how many members hold a designation (or by total staff when none was
// requested), and counts the departments with at least one holder.
func CompareDesignationsAcrossDepartments(dir *directory.Directory, f Filters) DesignationComparisonResult {
	if dir == nil {
		return DesignationComparisonResult{Message: snapshotMissingMsg}
	}

	facultyQuery := f.Acronym
	if facultyQuery == "" {
		facultyQuery = f.Faculty
	}
	if facultyQuery == "" {
		return DesignationComparisonResult{Message: "A faculty or acronym must be specified."}
	}

	faculty := dir.Faculties[facultyQuery]
	if faculty == nil {
		q := strings.ToLower(facultyQuery)
		for facAcronym, fac := range dir.Faculties {
			if unitTextMatches(q, fac.Canonical, facAcronym, fac.Aliases) ||
				strings.ToLower(facAcronym) == q {
				faculty = fac
				break
			}
		}
	}
	if faculty == nil {
		return DesignationComparisonResult{
			Message: fmt.Sprintf("Faculty not found: %s", facultyQuery),
		}
	}

	var comparison []DepartmentDesignation
	for deptAcronym, dept := range faculty.Departments {
		comparison = append(comparison, DepartmentDesignation{
			Department:        dept.Canonical,
			Acronym:           deptAcronym,
			TotalStaff:        dept.StaffCount,
			DesignationCounts: dept.DesignationCounts,
		})
	}
	sort.Slice(comparison, func(i, j int) bool {
		if comparison[i].TotalStaff != comparison[j].TotalStaff {
			return comparison[i].TotalStaff > comparison[j].TotalStaff
		}
		return comparison[i].Acronym < comparison[j].Acronym
	})

	if f.Designation == "" {
		return DesignationComparisonResult{
			Found:            true,
			Faculty:          faculty.Canonical,
			Departments:      comparison,
			TotalDepartments: len(comparison),
			Message:          fmt.Sprintf("Comparison of %d departments in %s.", len(comparison), faculty.Canonical),
		}
	}

	designation := NormalizeDesignation(f.Designation)
	withDesignation := 0
	for i := range comparison {
		comparison[i].Count = comparison[i].DesignationCounts[designation]
		if comparison[i].Count > 0 {
			withDesignation++
		}
	}
	sort.Slice(comparison, func(i, j int) bool {
		if comparison[i].Count != comparison[j].Count {
			return comparison[i].Count > comparison[j].Count
		}
		return comparison[i].Acronym < comparison[j].Acronym
	})

	return DesignationComparisonResult{
		Found:                      true,
		Faculty:                    faculty.Canonical,
		Designation:                designation,
		Departments:                comparison,
		TotalDepartments:           len(comparison),
		DepartmentsWithDesignation: withDesignation,
		Message: fmt.Sprintf("%d out of %d departments in %s have %ss.",
			withDesignation, len(comparison), faculty.Canonical, designation),
	}
}

func sortedDesignations(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
