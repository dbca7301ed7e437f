package units

import (
	"log"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Queries whose best normalized edit distance exceeds this are rejected
// rather than resolved to an unrelated unit (0 is a perfect match).
const maxResolveDistance = 0.4

// Resolution is the outcome of resolving free text to a registry unit.
// When no unit matched confidently, Canonical carries the original query
// and Err explains why, so callers can pass the text through rather than
// guess.
type Resolution struct {
	Canonical string
	Acronym   string
	Type      string
	Err       string
}

// Matched reports whether the resolution found a registry unit.
func (res Resolution) Matched() bool {
	return res.Err == ""
}

// Resolve maps a free-text unit reference to its canonical registry entry.
// Exact matches on canonical name, acronym, or alias win immediately;
// otherwise the closest fuzzy candidate within the distance threshold is
// returned, and failing that an explicit no-match result.
func (r *Registry) Resolve(query string) Resolution {
	query = strings.TrimSpace(query)
	if query == "" {
		return Resolution{Err: "empty query"}
	}

	if u, ok := r.FindExact(query); ok {
		return Resolution{Canonical: u.Canonical, Acronym: u.Acronym, Type: u.Type}
	}

	q := strings.ToLower(query)
	best := -1
	bestDist := 1.0
	for i, u := range r.units {
		for _, candidate := range candidateNames(u) {
			d := normalizedDistance(q, strings.ToLower(candidate))
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
	}

	if best >= 0 && bestDist <= maxResolveDistance {
		u := r.units[best]
		log.Printf("[units] Fuzzy-resolved %q -> %s (distance %.2f)", query, u.Canonical, bestDist)
		return Resolution{Canonical: u.Canonical, Acronym: u.Acronym, Type: u.Type}
	}

	return Resolution{Canonical: query, Err: "no confident match found"}
}

func candidateNames(u Unit) []string {
	names := make([]string, 0, len(u.Aliases)+2)
	names = append(names, u.Canonical)
	if u.Acronym != "" {
		names = append(names, u.Acronym)
	}
	return append(names, u.Aliases...)
}

// normalizedDistance scales Levenshtein distance into [0,1] by the longer
// string's length. A candidate that contains the query as a whole word
// scores by the matched portion only, so partial names like "Civil
// Engineering" still resolve to their department.
func normalizedDistance(query, candidate string) float64 {
	if query == candidate {
		return 0
	}
	longest := len(query)
	if len(candidate) > longest {
		longest = len(candidate)
	}
	if longest == 0 {
		return 1
	}
	dist := float64(fuzzy.LevenshteinDistance(query, candidate)) / float64(longest)

	if strings.Contains(candidate, query) && len(query) >= 4 {
		partial := 1 - float64(len(query))/float64(len(candidate))
		if partial < dist {
			dist = partial
		}
	}
	return dist
}
