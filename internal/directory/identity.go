package directory

import (
	"strconv"
	"strings"
)

// ClassifyEmploymentType decodes an identity code's prefix into an
// employment type and its display label. Rules, in priority order: AP is
// adjunct, J is part-time, EP/EM are emeritus (checked before the bare E
// rule), any other E is expatriate, all-digit codes are full-time, anything
// else is unknown.
func ClassifyEmploymentType(code string) (EmploymentType, string) {
	if code == "" {
		return Unknown, "Unknown"
	}
	id := strings.ToUpper(code)

	switch {
	case strings.HasPrefix(id, "AP"):
		return Adjunct, "Adjunct"
	case strings.HasPrefix(id, "J"):
		return PartTime, "Part-Time"
	case strings.HasPrefix(id, "EP"), strings.HasPrefix(id, "EM"):
		return Emeritus, "Emeritus Professor"
	case strings.HasPrefix(id, "E"):
		return Expatriate, "Expatriate (Contract)"
	case allDigits(id):
		return FullTime, "Full-Time"
	}
	return Unknown, "Unknown"
}

// JoinInfo is the join year and intra-year sequence encoded in an identity
// code. SortKey orders staff chronologically without separate timestamps.
type JoinInfo struct {
	Year     int
	Sequence int
	SortKey  int
}

// ParseJoinInfo extracts the 2-digit join year and sequence number from an
// identity code. The year offset depends on the prefix length: numeric
// codes start with the year, J/E codes skip one character, AP/EP/EM codes
// skip two. Unknown or malformed codes return zeroed fields.
func ParseJoinInfo(code string) JoinInfo {
	if code == "" {
		return JoinInfo{}
	}
	id := strings.ToUpper(code)

	var yearStart int
	switch {
	case strings.HasPrefix(id, "AP"), strings.HasPrefix(id, "EP"), strings.HasPrefix(id, "EM"):
		yearStart = 2
	case strings.HasPrefix(id, "J"), strings.HasPrefix(id, "E"):
		yearStart = 1
	case allDigits(id):
		yearStart = 0
	default:
		return JoinInfo{}
	}

	if len(id) < yearStart+2 {
		return JoinInfo{}
	}
	yy, err := strconv.Atoi(id[yearStart : yearStart+2])
	if err != nil {
		return JoinInfo{}
	}
	seq := 0
	if rest := id[yearStart+2:]; rest != "" {
		seq, err = strconv.Atoi(rest)
		if err != nil {
			return JoinInfo{}
		}
	}

	year := 2000 + yy
	return JoinInfo{Year: year, Sequence: seq, SortKey: year*10000 + seq}
}

// ExtractPrefix returns the leading letters of an identity code, used to
// surface unrecognized prefixes to operators.
func ExtractPrefix(code string) string {
	id := strings.ToUpper(code)
	for i, r := range id {
		if r < 'A' || r > 'Z' {
			return id[:i]
		}
	}
	return id
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
