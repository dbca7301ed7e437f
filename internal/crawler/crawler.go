// Package crawler scrapes the external staff directory site: it paginates
// a unit's listing pages, follows each staff card to its detail page, and
// assembles StaffRecords.
package crawler

import (
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"staffdir/internal/directory"
	"staffdir/internal/httpx"
	"staffdir/internal/units"
)

const (
	defaultPageSize = 30 // listing page size used by the source site
	defaultMaxPages = 20 // hard cap to bound runaway pagination
	defaultDelay    = 500 * time.Millisecond
)

var detailIDPattern = regexp.MustCompile(`(?i)staffListDetailV2\.jsp\?searchId=([A-Z0-9]+)`)

// Crawler fetches and parses a unit's staff listing. Fetch is injectable
// so pagination and extraction logic can be tested against canned HTML.
type Crawler struct {
	BaseURL  string
	Registry *units.Registry
	Fetch    func(url string) (*goquery.Document, error)
	Delay    time.Duration
	PageSize int
	MaxPages int
}

// New returns a crawler using the shared external HTTP client.
func New(baseURL string, registry *units.Registry) *Crawler {
	return &Crawler{
		BaseURL:  baseURL,
		Registry: registry,
		Fetch:    fetchDocument,
		Delay:    defaultDelay,
		PageSize: defaultPageSize,
		MaxPages: defaultMaxPages,
	}
}

func fetchDocument(pageURL string) (*goquery.Document, error) {
	resp, err := httpx.Client().Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return doc, nil
}

// CrawlUnit scrapes every staff member listed for a faculty (and
// optionally one department id, or "All"). A failed detail fetch skips
// that member; a failed listing fetch aborts the unit with an error. The
// configured delay is enforced after every fetch, listing and detail
// alike.
func (c *Crawler) CrawlUnit(facultyAcronym, departmentID string) ([]directory.StaffRecord, error) {
	if departmentID == "" {
		departmentID = "All"
	}

	params := url.Values{}
	searchDept := facultyAcronym
	if searchDept == "All" {
		searchDept = "ALL"
	}
	params.Set("searchDept", searchDept)
	params.Set("searchDiv", departmentID)
	params.Set("searchName", "")
	params.Set("searchExpertise", "")
	params.Set("submit", "Search")
	params.Set("searchResult", "Y")
	listURL := fmt.Sprintf("%s/staffListSearchV2.jsp?%s", c.BaseURL, params.Encode())

	log.Printf("[crawler] Scraping %s / %s", facultyAcronym, departmentID)

	var results []directory.StaffRecord
	seen := map[string]bool{}

	for page := 1; page <= c.MaxPages; page++ {
		pageURL := listURL
		if page > 1 {
			pageURL = fmt.Sprintf("%s&iPage=%d", listURL, page)
		}

		doc, err := c.Fetch(pageURL)
		c.sleep()
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}

		ids := extractCardIDs(doc)
		log.Printf("[crawler] Page %d: %d staff cards", page, len(ids))
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true

			record, err := c.scrapeDetail(id)
			c.sleep()
			if err != nil {
				log.Printf("[crawler] Skipping %s: %v", id, err)
				continue
			}
			if record == nil {
				continue
			}
			results = append(results, *record)
		}

		// A short page unambiguously signals the last page.
		if len(ids) < c.PageSize {
			break
		}
	}

	log.Printf("[crawler] Scraped %d staff from %s / %s", len(results), facultyAcronym, departmentID)
	return results, nil
}

func (c *Crawler) sleep() {
	if c.Delay > 0 {
		time.Sleep(c.Delay)
	}
}

func extractCardIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find(`table[onclick*="staffListDetailV2.jsp"]`).Each(func(_ int, card *goquery.Selection) {
		onclick, _ := card.Attr("onclick")
		m := detailIDPattern.FindStringSubmatch(onclick)
		if m != nil {
			ids = append(ids, strings.ToUpper(m[1]))
		}
	})
	return ids
}

// scrapeDetail fetches and parses one staff detail page. A record without
// a name is unusable and dropped; a missing email is expected for some
// employment types and tolerated.
func (c *Crawler) scrapeDetail(identityCode string) (*directory.StaffRecord, error) {
	detailURL := fmt.Sprintf("%s/staffListDetailV2.jsp?searchId=%s", c.BaseURL, identityCode)
	doc, err := c.Fetch(detailURL)
	if err != nil {
		return nil, fmt.Errorf("detail page: %w", err)
	}

	var (
		name, email, faculty, department, designation string
		scholarURL, scopusURL, orcidURL, homepageURL  string
		adminPosts, expertise                         []string
	)

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		value := cells.Last()
		valueText := stripLeadingColon(strings.TrimSpace(value.Text()))
		labelLower := strings.ToLower(label)

		switch {
		case strings.Contains(label, "Name"):
			name = valueText
		case strings.Contains(label, "Email"):
			email = valueText
		case strings.Contains(label, "Faculty"), strings.Contains(label, "Division"):
			faculty = valueText
		case strings.Contains(label, "Department"), strings.Contains(label, "Unit"):
			department = valueText
		case strings.Contains(label, "Designation"):
			designation = valueText
		case strings.Contains(labelLower, "administrative") && strings.Contains(labelLower, "post"):
			// A person may hold several posts; every row is captured.
			if valueText != "" {
				adminPosts = append(adminPosts, valueText)
			}
		case strings.Contains(labelLower, "area") && strings.Contains(labelLower, "expertise"):
			expertise = splitExpertise(valueText)
		case strings.Contains(label, "Google Scholar"):
			scholarURL = linkHref(value)
		case strings.Contains(label, "Scopus"):
			scopusURL = linkHref(value)
		case strings.Contains(label, "Orcid"):
			orcidURL = linkHref(value)
		case strings.Contains(label, "Homepage URL"):
			homepageURL = linkHref(value)
		}
	})

	if name == "" {
		log.Printf("[crawler] Missing name for %s, discarding", identityCode)
		return nil, nil
	}
	if email == "" {
		log.Printf("[crawler] No email for %s (%s)", name, identityCode)
	}

	staffType, label := directory.ClassifyEmploymentType(identityCode)
	join := directory.ParseJoinInfo(identityCode)

	facultyRes := c.Registry.Resolve(faculty)
	deptRes := c.Registry.Resolve(department)

	record := directory.StaffRecord{
		IdentityCode:   identityCode,
		StaffType:      staffType,
		EmploymentType: label,
		Name:           name,
		Position:       buildPosition(adminPosts, designation),
		Email:          email,
		Faculty:        faculty,
		Department:     department,
		Designation:    designation,
		AdminPosts:     adminPosts,
		ScholarURL:     scholarURL,
		ScopusURL:      scopusURL,
		OrcidURL:       orcidURL,
		HomepageURL:    homepageURL,
		Expertise:      expertise,
		JoinYear:       join.Year,
		JoinSequence:   join.Sequence,
	}
	if facultyRes.Matched() {
		record.FacultyAcronym = facultyRes.Acronym
	}
	if deptRes.Matched() {
		record.DeptAcronym = deptRes.Acronym
	}
	return &record, nil
}

func buildPosition(adminPosts []string, designation string) string {
	position := strings.Join(adminPosts, "; ")
	if designation != "" {
		if position != "" {
			position += fmt.Sprintf(" (%s)", designation)
		} else {
			position = designation
		}
	}
	if position == "" {
		position = "Staff"
	}
	return position
}

func stripLeadingColon(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, ":"))
}

func splitExpertise(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == '\n'
	}) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func linkHref(value *goquery.Selection) string {
	href, _ := value.Find("a").Attr("href")
	return href
}
