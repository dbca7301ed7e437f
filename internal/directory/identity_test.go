package directory

import "testing"

func TestClassifyEmploymentType(t *testing.T) {
	tests := []struct {
		code      string
		wantType  EmploymentType
		wantLabel string
	}{
		{"22083", FullTime, "Full-Time"},
		{"16072", FullTime, "Full-Time"},
		{"AP2201", Adjunct, "Adjunct"},
		{"J2105", PartTime, "Part-Time"},
		{"EP1801", Emeritus, "Emeritus Professor"},
		{"EM1501", Emeritus, "Emeritus Professor"},
		{"E2001", Expatriate, "Expatriate (Contract)"},
		{"ap2201", Adjunct, "Adjunct"},
		{"ZZ99", Unknown, "Unknown"},
		{"", Unknown, "Unknown"},
	}
	for _, tt := range tests {
		gotType, gotLabel := ClassifyEmploymentType(tt.code)
		if gotType != tt.wantType || gotLabel != tt.wantLabel {
			t.Errorf("ClassifyEmploymentType(%q) = %v, %q; want %v, %q",
				tt.code, gotType, gotLabel, tt.wantType, tt.wantLabel)
		}
	}
}

func TestParseJoinInfo(t *testing.T) {
	tests := []struct {
		code     string
		wantYear int
		wantSeq  int
	}{
		{"22083", 2022, 83},
		{"16072", 2016, 72},
		{"AP2201", 2022, 1},
		{"J2105", 2021, 5},
		{"EP1801", 2018, 1},
		{"EM1501", 2015, 1},
		{"E2001", 2020, 1},
	}
	for _, tt := range tests {
		got := ParseJoinInfo(tt.code)
		if got.Year != tt.wantYear || got.Sequence != tt.wantSeq {
			t.Errorf("ParseJoinInfo(%q) = year %d seq %d; want year %d seq %d",
				tt.code, got.Year, got.Sequence, tt.wantYear, tt.wantSeq)
		}
		if got.SortKey != tt.wantYear*10000+tt.wantSeq {
			t.Errorf("ParseJoinInfo(%q) sort key = %d; want %d",
				tt.code, got.SortKey, tt.wantYear*10000+tt.wantSeq)
		}
	}
}

func TestParseJoinInfoMalformed(t *testing.T) {
	for _, code := range []string{"", "ZZ99", "AP", "J2", "APAB01"} {
		if got := ParseJoinInfo(code); got != (JoinInfo{}) {
			t.Errorf("ParseJoinInfo(%q) = %+v; want zero value", code, got)
		}
	}
}

func TestParseJoinInfoOrdersChronologically(t *testing.T) {
	earlier := ParseJoinInfo("2105")
	later := ParseJoinInfo("2203")
	if earlier.SortKey >= later.SortKey {
		t.Fatalf("expected 2105 (%d) to sort before 2203 (%d)", earlier.SortKey, later.SortKey)
	}
	sameYearEarly := ParseJoinInfo("2203")
	sameYearLate := ParseJoinInfo("2250")
	if sameYearEarly.SortKey >= sameYearLate.SortKey {
		t.Fatalf("expected seq 3 (%d) to sort before seq 50 (%d) within a year",
			sameYearEarly.SortKey, sameYearLate.SortKey)
	}
}

func TestExtractPrefix(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"AP2201", "AP"},
		{"J2105", "J"},
		{"22083", ""},
		{"zz99", "ZZ"},
	}
	for _, tt := range tests {
		if got := ExtractPrefix(tt.code); got != tt.want {
			t.Errorf("ExtractPrefix(%q) = %q; want %q", tt.code, got, tt.want)
		}
	}
}
