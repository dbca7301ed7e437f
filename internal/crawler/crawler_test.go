package crawler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"staffdir/internal/units"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func listingHTML(ids ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, id := range ids {
		fmt.Fprintf(&b, `<table onclick="window.location='staffListDetailV2.jsp?searchId=%s'"><tr><td>%s</td></tr></table>`, id, id)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func detailHTML(name, email, designation string, adminPosts ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><table>")
	fmt.Fprintf(&b, "<tr><td>Name</td><td>: %s</td></tr>", name)
	fmt.Fprintf(&b, "<tr><td>Email</td><td>: %s</td></tr>", email)
	b.WriteString("<tr><td>Faculty</td><td>: Faculty of Information and Communication Technology</td></tr>")
	b.WriteString("<tr><td>Department</td><td>: Department of Computer Science</td></tr>")
	fmt.Fprintf(&b, "<tr><td>Designation</td><td>: %s</td></tr>", designation)
	for _, post := range adminPosts {
		fmt.Fprintf(&b, "<tr><td>Administrative Post</td><td>: %s</td></tr>", post)
	}
	b.WriteString("<tr><td>Area(s) of Expertise</td><td>: Machine Learning; Computer Vision, Robotics</td></tr>")
	b.WriteString(`<tr><td>Google Scholar</td><td><a href="https://scholar.example/x">link</a></td></tr>`)
	b.WriteString("</table></body></html>")
	return b.String()
}

func newTestCrawler(t *testing.T, pages map[string]string) *Crawler {
	t.Helper()
	c := New("https://staff.example", units.NewRegistry([]units.Unit{
		{Canonical: "Faculty of Information and Communication Technology", Acronym: "FICT", Type: "Faculty"},
		{Canonical: "Department of Computer Science", Acronym: "DCS", Type: "Academic Department",
			Parent: "Faculty of Information and Communication Technology", DepartmentID: "71"},
	}))
	c.Delay = 0
	c.Fetch = func(url string) (*goquery.Document, error) {
		html, ok := pages[url]
		if !ok {
			return nil, fmt.Errorf("unexpected fetch: %s", url)
		}
		if html == "ERROR" {
			return nil, fmt.Errorf("boom")
		}
		return docFrom(t, html), nil
	}
	return c
}

func listURL(faculty, deptID string) string {
	return fmt.Sprintf("https://staff.example/staffListSearchV2.jsp?searchDept=%s&searchDiv=%s&searchExpertise=&searchName=&searchResult=Y&submit=Search", faculty, deptID)
}

func detailURL(id string) string {
	return "https://staff.example/staffListDetailV2.jsp?searchId=" + id
}

func TestCrawlUnitParsesDetailPages(t *testing.T) {
	pages := map[string]string{
		listURL("FICT", "71"): listingHTML("22083", "AP2201"),
		detailURL("22083"):    detailHTML("Dr. Tan Ah Kow", "tanak@example.edu", "Professor", "Dean", "Head of Programme"),
		detailURL("AP2201"):   detailHTML("Dr. Lim Bee Hwa", "", "Adjunct Professor"),
	}
	c := newTestCrawler(t, pages)

	records, err := c.CrawlUnit("FICT", "71")
	if err != nil {
		t.Fatalf("CrawlUnit failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2", len(records))
	}

	first := records[0]
	if first.Name != "Dr. Tan Ah Kow" || first.Email != "tanak@example.edu" {
		t.Errorf("unexpected identity fields: %+v", first)
	}
	if first.StaffType != "full-time" || first.JoinYear != 2022 {
		t.Errorf("employment inference wrong: type=%s year=%d", first.StaffType, first.JoinYear)
	}
	if len(first.AdminPosts) != 2 || first.AdminPosts[0] != "Dean" || first.AdminPosts[1] != "Head of Programme" {
		t.Errorf("admin posts = %v; want both rows captured", first.AdminPosts)
	}
	if first.Position != "Dean; Head of Programme (Professor)" {
		t.Errorf("position = %q", first.Position)
	}
	if len(first.Expertise) != 3 {
		t.Errorf("expertise = %v; want 3 areas", first.Expertise)
	}
	if first.ScholarURL != "https://scholar.example/x" {
		t.Errorf("scholar url = %q", first.ScholarURL)
	}
	if first.FacultyAcronym != "FICT" || first.DeptAcronym != "DCS" {
		t.Errorf("unit acronyms not resolved: faculty=%q dept=%q", first.FacultyAcronym, first.DeptAcronym)
	}

	second := records[1]
	if second.StaffType != "adjunct" || second.Position != "Adjunct Professor" {
		t.Errorf("unexpected adjunct record: %+v", second)
	}
}

func TestCrawlUnitPaginatesAndDeduplicates(t *testing.T) {
	pages := map[string]string{
		listURL("FICT", "71"):              listingHTML("22083", "22084"),
		listURL("FICT", "71") + "&iPage=2": listingHTML("22084", "22085"),
	}
	for _, id := range []string{"22083", "22084", "22085"} {
		pages[detailURL(id)] = detailHTML("Staff "+id, id+"@example.edu", "Lecturer")
	}
	c := newTestCrawler(t, pages)
	c.PageSize = 2

	records, err := c.CrawlUnit("FICT", "71")
	if err != nil {
		t.Fatalf("CrawlUnit failed: %v", err)
	}
	// Page 2 is short (1 new of 2 listed), so page 3 is never requested.
	if len(records) != 3 {
		t.Fatalf("got %d records; want 3 after dedup", len(records))
	}
}

func TestCrawlUnitStopsOnEmptyPage(t *testing.T) {
	pages := map[string]string{
		listURL("FICT", "71"): "<html><body>No results</body></html>",
	}
	c := newTestCrawler(t, pages)

	records, err := c.CrawlUnit("FICT", "71")
	if err != nil {
		t.Fatalf("CrawlUnit failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records; want 0", len(records))
	}
}

func TestCrawlUnitSkipsFailedDetail(t *testing.T) {
	pages := map[string]string{
		listURL("FICT", "71"): listingHTML("22083", "22084"),
		detailURL("22083"):    "ERROR",
		detailURL("22084"):    detailHTML("Staff 22084", "s@example.edu", "Lecturer"),
	}
	c := newTestCrawler(t, pages)

	records, err := c.CrawlUnit("FICT", "71")
	if err != nil {
		t.Fatalf("CrawlUnit failed: %v", err)
	}
	if len(records) != 1 || records[0].IdentityCode != "22084" {
		t.Fatalf("got %+v; want only 22084", records)
	}
}

func TestCrawlUnitAbortsOnListingError(t *testing.T) {
	pages := map[string]string{
		listURL("FICT", "71"): "ERROR",
	}
	c := newTestCrawler(t, pages)

	if _, err := c.CrawlUnit("FICT", "71"); err == nil {
		t.Fatal("expected error when listing fetch fails")
	}
}

func TestCrawlUnitDiscardsNamelessDetail(t *testing.T) {
	pages := map[string]string{
		listURL("FICT", "All"): listingHTML("22083"),
		detailURL("22083"):     "<html><body><table><tr><td>Email</td><td>: x@example.edu</td></tr></table></body></html>",
	}
	c := newTestCrawler(t, pages)

	records, err := c.CrawlUnit("FICT", "")
	if err != nil {
		t.Fatalf("CrawlUnit failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("nameless record kept: %+v", records)
	}
}

func TestCrawlUnitRespectsMaxPages(t *testing.T) {
	pages := map[string]string{
		listURL("FICT", "71"): listingHTML("22083", "22084"),
	}
	for page := 2; page <= 5; page++ {
		ids := []string{fmt.Sprintf("230%d1", page), fmt.Sprintf("230%d2", page)}
		pages[fmt.Sprintf("%s&iPage=%d", listURL("FICT", "71"), page)] = listingHTML(ids...)
	}
	ids := []string{"22083", "22084", "23021", "23022", "23031", "23032", "23041", "23042", "23051", "23052"}
	for _, id := range ids {
		pages[detailURL(id)] = detailHTML("Staff "+id, id+"@example.edu", "Lecturer")
	}

	c := newTestCrawler(t, pages)
	c.PageSize = 2
	c.MaxPages = 3

	records, err := c.CrawlUnit("FICT", "71")
	if err != nil {
		t.Fatalf("CrawlUnit failed: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("got %d records; want 6 (3 pages x 2)", len(records))
	}
}
