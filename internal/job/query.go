package job

import (
	"slices"
	"strings"
)

// StatusAll disables status filtering.
const StatusAll = "All"

// Query selects records for display. Zero value matches everything.
type Query struct {
	Search string // case-insensitive substring of companyName or jobTitle
	Status string // exact status, "" or "All" for any
}

// Matches reports whether r satisfies both the search term and the status filter.
func (q Query) Matches(r Record) bool {
	if q.Status != "" && q.Status != StatusAll && string(r.Status) != q.Status {
		return false
	}
	if q.Search == "" {
		return true
	}
	term := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(r.CompanyName), term) ||
		strings.Contains(strings.ToLower(r.JobTitle), term)
}

// Filter returns the records matching q, preserving their order.
func Filter(records []Record, q Query) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortByAppliedDate sorts records by appliedDate descending, in place, and
// returns them. Records with equal dates keep their relative order.
// YYYY-MM-DD strings order lexically the same way as the dates they name.
func SortByAppliedDate(records []Record) []Record {
	slices.SortStableFunc(records, func(a, b Record) int {
		return strings.Compare(b.AppliedDate, a.AppliedDate)
	})
	return records
}

// Stats holds per-status counts over a collection.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
}

// CountByStatus counts records per status. Every known status is present in
// the result, with zero when unused.
func CountByStatus(records []Record) Stats {
	st := Stats{Total: len(records), ByStatus: make(map[Status]int, len(Statuses))}
	for _, s := range Statuses {
		st.ByStatus[s] = 0
	}
	for _, r := range records {
		st.ByStatus[r.Status]++
	}
	return st
}
