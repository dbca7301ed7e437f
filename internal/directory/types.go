package directory

// EmploymentType is the employment category decoded from an identity code.
type EmploymentType string

const (
	FullTime   EmploymentType = "full-time"
	Adjunct    EmploymentType = "adjunct"
	PartTime   EmploymentType = "part-time"
	Expatriate EmploymentType = "expatriate"
	Emeritus   EmploymentType = "emeritus"
	Unknown    EmploymentType = "unknown"
)

type DepartmentType string

const (
	AcademicDept       DepartmentType = "Academic"
	AdministrativeDept DepartmentType = "Administrative"
)

type AcademicCategory string

const (
	Engineering    AcademicCategory = "Engineering"
	NonEngineering AcademicCategory = "Non-Engineering"
	CategoryNA     AcademicCategory = "N/A"
)

// StaffRecord is one staff member's state as observed at snapshot time.
// IdentityCode is externally assigned and immutable; it is the stable key
// across snapshots and the source of employment-type and join-order
// inference.
type StaffRecord struct {
	IdentityCode   string         `json:"identityCode"`
	StaffType      EmploymentType `json:"staffType"`
	EmploymentType string         `json:"employmentType"` // human-readable label
	Name           string         `json:"name"`
	Position       string         `json:"position"`
	Email          string         `json:"email,omitempty"`
	Faculty        string         `json:"faculty"`
	FacultyAcronym string         `json:"facultyAcronym"`
	Department     string         `json:"department"`
	DeptAcronym    string         `json:"departmentAcronym"`
	Designation    string         `json:"designation"`
	AdminPosts     []string       `json:"administrativePosts,omitempty"`
	ScholarURL     string         `json:"googleScholarUrl,omitempty"`
	ScopusURL      string         `json:"scopusUrl,omitempty"`
	OrcidURL       string         `json:"orcidUrl,omitempty"`
	HomepageURL    string         `json:"homepageUrl,omitempty"`
	Expertise      []string       `json:"areasOfExpertise,omitempty"`
	JoinYear       int            `json:"joiningYear"`
	JoinSequence   int            `json:"joiningSequence"`
}

// StaffCounts is the exact employment-type breakdown of a unit's staff
// list. UniqueStaffCount is populated at faculty and global scope only,
// where one person can legitimately appear in several departments.
type StaffCounts struct {
	StaffCount       int `json:"staffCount"`
	UniqueStaffCount int `json:"uniqueStaffCount,omitempty"`
	FullTimeCount    int `json:"fullTimeCount"`
	AdjunctCount     int `json:"adjunctCount"`
	PartTimeCount    int `json:"partTimeCount"`
	ExpatriateCount  int `json:"expatriateCount"`
	EmeritusCount    int `json:"emeritusCount"`
	UnknownCount     int `json:"unknownCount,omitempty"`
}

// DesignationMember is the compact entry kept in per-rank member lists.
type DesignationMember struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department,omitempty"`
	DeptAcronym string `json:"departmentAcronym,omitempty"`
}

type Department struct {
	StaffCounts
	Canonical         string                         `json:"canonical"`
	Acronym           string                         `json:"acronym"`
	Aliases           []string                       `json:"aliases,omitempty"`
	DepartmentID      string                         `json:"departmentId"`
	Parent            string                         `json:"parent"`
	Type              string                         `json:"type"`
	DepartmentType    DepartmentType                 `json:"departmentType"`
	AcademicCategory  AcademicCategory               `json:"academicCategory,omitempty"`
	DesignationCounts map[string]int                 `json:"designationCounts,omitempty"`
	DesignationLists  map[string][]DesignationMember `json:"designationLists,omitempty"`
	Staff             []StaffRecord                  `json:"staff"`
}

type Faculty struct {
	StaffCounts
	Canonical         string                         `json:"canonical"`
	Acronym           string                         `json:"acronym"`
	Aliases           []string                       `json:"aliases,omitempty"`
	Type              string                         `json:"type"`
	DesignationCounts map[string]int                 `json:"designationCounts,omitempty"`
	DesignationLists  map[string][]DesignationMember `json:"designationLists,omitempty"`
	Departments       map[string]*Department         `json:"departments"`
}

type ResearchCentre struct {
	StaffCounts
	Canonical string        `json:"canonical"`
	Acronym   string        `json:"acronym"`
	Aliases   []string      `json:"aliases,omitempty"`
	Type      string        `json:"type"`
	Staff     []StaffRecord `json:"staff"`
}

type TopLevelDepartment struct {
	StaffCounts
	Canonical      string         `json:"canonical"`
	Acronym        string         `json:"acronym"`
	Aliases        []string       `json:"aliases,omitempty"`
	Type           string         `json:"type"`
	DepartmentType DepartmentType `json:"departmentType"`
	Staff          []StaffRecord  `json:"staff"`
}

// SyncChange is the per-run tally of record-level changes.
type SyncChange struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}

type SyncHistoryEntry struct {
	Timestamp          string     `json:"timestamp"`
	Duration           string     `json:"duration"`
	Changes            SyncChange `json:"changes"`
	TotalStaff         int        `json:"totalStaff"`
	Status             string     `json:"status"` // success, partial, or failed
	FacultiesProcessed []string   `json:"facultiesProcessed"`
	CentresProcessed   []string   `json:"researchCentresProcessed"`
	TopLevelProcessed  []string   `json:"topLevelDepartmentsProcessed"`
	UnknownPrefixes    []string   `json:"unknownPrefixes,omitempty"`
}

type Metadata struct {
	StaffCounts
	FacultiesCount           int `json:"facultiesCount"`
	DepartmentsCount         int `json:"departmentsCount"`
	ResearchCentresCount     int `json:"researchCentresCount"`
	TopLevelDepartmentsCount int `json:"topLevelDepartmentsCount"`
}

// EmploymentTypeMapping is the self-documenting prefix legend embedded in
// the snapshot so the file explains its own identity-code conventions.
type EmploymentTypeMapping struct {
	Description string            `json:"description"`
	Patterns    map[string]string `json:"patterns"`
}

// LegacyMetadata is carried for older archived snapshots whose year is not
// derivable from lastUpdated.
type LegacyMetadata struct {
	SnapshotYear int    `json:"snapshotYear"`
	SnapshotDate string `json:"snapshotDate"`
	Note         string `json:"note,omitempty"`
}

// Directory is one versioned snapshot of the whole staff roster. It is
// replaced wholesale by each sync and treated as immutable once loaded.
type Directory struct {
	Version               string                         `json:"version"`
	LastUpdated           string                         `json:"lastUpdated"`
	SyncDuration          string                         `json:"syncDuration"`
	Metadata              Metadata                       `json:"metadata"`
	Faculties             map[string]*Faculty            `json:"faculties"`
	ResearchCentres       map[string]*ResearchCentre     `json:"researchCentres"`
	TopLevelDepartments   map[string]*TopLevelDepartment `json:"topLevelDepartments"`
	SyncHistory           []SyncHistoryEntry             `json:"syncHistory"`
	EmploymentTypeMapping EmploymentTypeMapping          `json:"employmentTypeMapping"`
	LegacyMetadata        *LegacyMetadata                `json:"legacyMetadata,omitempty"`
}

// NewDirectory returns an empty snapshot with the identity-code legend
// filled in.
func NewDirectory() *Directory {
	return &Directory{
		Version:             "1.0.0",
		Faculties:           map[string]*Faculty{},
		ResearchCentres:     map[string]*ResearchCentre{},
		TopLevelDepartments: map[string]*TopLevelDepartment{},
		EmploymentTypeMapping: EmploymentTypeMapping{
			Description: "Identity code patterns for employment type detection",
			Patterns: map[string]string{
				"full-time":  "Numeric only (e.g., 16072, 22083)",
				"adjunct":    "AP prefix (e.g., AP2201, AP1903)",
				"part-time":  "J prefix (e.g., J2105, J1908)",
				"expatriate": "E prefix other than EP/EM (e.g., E2001)",
				"emeritus":   "EP or EM prefix (e.g., EP1801, EM1501)",
			},
		},
	}
}
