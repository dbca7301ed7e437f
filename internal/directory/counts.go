package directory

import "strings"

// Designation categories tracked in per-unit designation stats. Anything
// else is bucketed under Other.
var designationCategories = []string{
	"Senior Professor",
	"Professor",
	"Emeritus Professor",
	"Associate Professor",
	"Assistant Professor",
	"Adjunct Professor",
	"Lecturer",
	"Senior Lecturer",
	"Other",
}

// CalculateStaffCounts tallies a staff list by employment type. The five
// typed sub-counts plus UnknownCount always sum to StaffCount.
func CalculateStaffCounts(staff []StaffRecord) StaffCounts {
	counts := StaffCounts{StaffCount: len(staff)}
	for _, member := range staff {
		switch member.StaffType {
		case FullTime:
			counts.FullTimeCount++
		case Adjunct:
			counts.AdjunctCount++
		case PartTime:
			counts.PartTimeCount++
		case Expatriate:
			counts.ExpatriateCount++
		case Emeritus:
			counts.EmeritusCount++
		default:
			counts.UnknownCount++
		}
	}
	return counts
}

// CalculateDesignationStats builds rank -> count and rank -> member list
// maps for a staff list. Empty categories are dropped.
func CalculateDesignationStats(staff []StaffRecord) (map[string]int, map[string][]DesignationMember) {
	counts := map[string]int{}
	lists := map[string][]DesignationMember{}

	known := make(map[string]bool, len(designationCategories))
	for _, d := range designationCategories {
		known[d] = true
	}

	for _, member := range staff {
		key := member.Designation
		if key == "" || !known[key] {
			key = "Other"
		}
		counts[key]++
		lists[key] = append(lists[key], DesignationMember{
			Name:        member.Name,
			Email:       member.Email,
			Department:  member.Department,
			DeptAcronym: member.DeptAcronym,
		})
	}
	return counts, lists
}

// DepartmentAcademicCategory classifies an academic department as
// Engineering or Non-Engineering by its name; administrative departments
// are N/A.
func DepartmentAcademicCategory(name string, deptType DepartmentType) AcademicCategory {
	if deptType == AdministrativeDept {
		return CategoryNA
	}
	if strings.HasSuffix(strings.TrimSpace(name), "Engineering") {
		return Engineering
	}
	return NonEngineering
}

// RecomputeAggregates recalculates every count field bottom-up: department
// counts from staff lists, faculty counts from departments, and global
// metadata from faculties, research centres, and top-level departments.
// Faculty- and global-level unique counts de-duplicate identity codes that
// appear in more than one child unit.
func RecomputeAggregates(dir *Directory) {
	globalUnique := map[string]bool{}
	var global StaffCounts

	for _, fac := range dir.Faculties {
		var facTotal StaffCounts
		facUnique := map[string]bool{}
		var facStaff []StaffRecord

		for _, dept := range fac.Departments {
			dept.StaffCounts = CalculateStaffCounts(dept.Staff)
			dept.DesignationCounts, dept.DesignationLists = CalculateDesignationStats(dept.Staff)
			dept.AcademicCategory = DepartmentAcademicCategory(dept.Canonical, dept.DepartmentType)

			addCounts(&facTotal, dept.StaffCounts)
			for _, s := range dept.Staff {
				facUnique[s.IdentityCode] = true
				globalUnique[s.IdentityCode] = true
			}
			facStaff = append(facStaff, dept.Staff...)
		}

		facTotal.UniqueStaffCount = len(facUnique)
		fac.StaffCounts = facTotal
		fac.DesignationCounts, fac.DesignationLists = CalculateDesignationStats(facStaff)

		addCounts(&global, fac.StaffCounts)
	}

	for _, rc := range dir.ResearchCentres {
		rc.StaffCounts = CalculateStaffCounts(rc.Staff)
		addCounts(&global, rc.StaffCounts)
		for _, s := range rc.Staff {
			globalUnique[s.IdentityCode] = true
		}
	}
	for _, tld := range dir.TopLevelDepartments {
		tld.StaffCounts = CalculateStaffCounts(tld.Staff)
		addCounts(&global, tld.StaffCounts)
		for _, s := range tld.Staff {
			globalUnique[s.IdentityCode] = true
		}
	}

	global.UniqueStaffCount = len(globalUnique)
	dir.Metadata.StaffCounts = global
	dir.Metadata.FacultiesCount = len(dir.Faculties)
	dir.Metadata.ResearchCentresCount = len(dir.ResearchCentres)
	dir.Metadata.TopLevelDepartmentsCount = len(dir.TopLevelDepartments)

	totalDepartments := 0
	for _, fac := range dir.Faculties {
		totalDepartments += len(fac.Departments)
	}
	dir.Metadata.DepartmentsCount = totalDepartments
}

func addCounts(dst *StaffCounts, src StaffCounts) {
	dst.StaffCount += src.StaffCount
	dst.FullTimeCount += src.FullTimeCount
	dst.AdjunctCount += src.AdjunctCount
	dst.PartTimeCount += src.PartTimeCount
	dst.ExpatriateCount += src.ExpatriateCount
	dst.EmeritusCount += src.EmeritusCount
	dst.UnknownCount += src.UnknownCount
}
