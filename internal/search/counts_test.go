package search

import (
	"strings"
	"testing"
)

func TestUnitCountsFaculty(t *testing.T) {
	res := UnitCounts(testDirectory(), "FICT", "")
	if !res.Found {
		t.Fatalf("FICT not found: %s", res.Message)
	}
	if res.UnitType != "faculty" || res.Counts.StaffCount != 4 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Message, "has 4 staff members") {
		t.Fatalf("message = %q", res.Message)
	}
	if !strings.Contains(res.Message, "full-time") || !strings.Contains(res.Message, "adjunct") {
		t.Fatalf("breakdown missing from message: %q", res.Message)
	}
}

func TestUnitCountsSingleDepartment(t *testing.T) {
	res := UnitCounts(testDirectory(), "DCS", "")
	if !res.Found || res.UnitType != "department" {
		t.Fatalf("DCS not found as department: %+v", res)
	}
	if res.Counts.StaffCount != 3 || res.Counts.AdjunctCount != 1 {
		t.Fatalf("DCS counts = %+v", res.Counts)
	}
}

func TestUnitCountsSharedAcronymAggregates(t *testing.T) {
	res := UnitCounts(testDirectory(), "FGO", "")
	if !res.Found {
		t.Fatalf("FGO not found: %s", res.Message)
	}
	if len(res.Breakdown) != 2 {
		t.Fatalf("breakdown has %d entries; want 2", len(res.Breakdown))
	}
	if res.Counts.StaffCount != 3 {
		t.Fatalf("aggregated count = %d; want 3", res.Counts.StaffCount)
	}
	if !strings.Contains(res.Message, "exists in 2 faculties") {
		t.Fatalf("message does not explain the aggregation: %q", res.Message)
	}
}

func TestUnitCountsScopedToFaculty(t *testing.T) {
	res := UnitCounts(testDirectory(), "FGO", "FBF")
	if !res.Found {
		t.Fatalf("FGO in FBF not found: %s", res.Message)
	}
	if res.Counts.StaffCount != 2 {
		t.Fatalf("FBF/FGO count = %d; want 2", res.Counts.StaffCount)
	}
}

func TestUnitCountsCentreAndTopLevel(t *testing.T) {
	dir := testDirectory()

	if res := UnitCounts(dir, "CRCC", ""); !res.Found || res.UnitType != "research-centre" {
		t.Fatalf("CRCC lookup: %+v", res)
	}
	if res := UnitCounts(dir, "DSA", ""); !res.Found || res.UnitType != "top-level-department" {
		t.Fatalf("DSA lookup: %+v", res)
	}
}

func TestUnitCountsNotFound(t *testing.T) {
	res := UnitCounts(testDirectory(), "XYZ", "")
	if res.Found {
		t.Fatalf("XYZ should not be found: %+v", res)
	}
	if !strings.Contains(res.Message, "XYZ") {
		t.Fatalf("message does not name the acronym: %q", res.Message)
	}
}

func TestMultiUnitCounts(t *testing.T) {
	res := MultiUnitCounts(testDirectory(), []string{"FICT", "DF"})
	if !res.Found {
		t.Fatalf("multi-unit lookup failed: %s", res.Message)
	}
	if len(res.Units) != 2 {
		t.Fatalf("got %d units; want 2", len(res.Units))
	}
	if res.TotalStaff != 6 {
		t.Fatalf("total staff = %d; want 6", res.TotalStaff)
	}
	if res.TotalUnique != 6 {
		t.Fatalf("unique staff = %d; want 6", res.TotalUnique)
	}
	if !strings.Contains(res.Message, "6 staff positions (6 unique staff)") {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestMultiUnitCountsEmptyInput(t *testing.T) {
	if res := MultiUnitCounts(testDirectory(), nil); res.Found {
		t.Fatal("empty acronym list should not succeed")
	}
}

func TestMultiUnitCountsAllUnknown(t *testing.T) {
	res := MultiUnitCounts(testDirectory(), []string{"AAA", "BBB"})
	if res.Found {
		t.Fatalf("unknown acronyms should not succeed: %+v", res)
	}
	if !strings.Contains(res.Message, "AAA") {
		t.Fatalf("message = %q", res.Message)
	}
}
