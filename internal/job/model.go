package job

import (
	"regexp"
	"strings"
	"time"
)

type Status string

const (
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer"
	StatusRejected     Status = "Rejected"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

// IsValid reports whether s is one of the four known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// TimestampLayout is the lastUpdated / exportDate format (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t the way lastUpdated is stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Record is one tracked job application.
type Record struct {
	ID           string `json:"id"`
	CompanyName  string `json:"companyName"`
	JobTitle     string `json:"jobTitle"`
	Status       Status `json:"status"`
	AppliedDate  string `json:"appliedDate"`
	Notes        string `json:"notes,omitempty"`
	Location     string `json:"location,omitempty"`
	Salary       string `json:"salary,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	URL          string `json:"url,omitempty"`
	LastUpdated  string `json:"lastUpdated"`
}

// Fields is the user-editable part of a Record: everything but id and lastUpdated.
type Fields struct {
	CompanyName  string `json:"companyName"`
	JobTitle     string `json:"jobTitle"`
	Status       Status `json:"status"`
	AppliedDate  string `json:"appliedDate"`
	Notes        string `json:"notes,omitempty"`
	Location     string `json:"location,omitempty"`
	Salary       string `json:"salary,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Fields returns the editable part of r.
func (r Record) Fields() Fields {
	return Fields{
		CompanyName:  r.CompanyName,
		JobTitle:     r.JobTitle,
		Status:       r.Status,
		AppliedDate:  r.AppliedDate,
		Notes:        r.Notes,
		Location:     r.Location,
		Salary:       r.Salary,
		ContactEmail: r.ContactEmail,
		ContactName:  r.ContactName,
		URL:          r.URL,
	}
}

// withFields returns r with every editable field replaced by f.
func (r Record) withFields(f Fields) Record {
	r.CompanyName = f.CompanyName
	r.JobTitle = f.JobTitle
	r.Status = f.Status
	r.AppliedDate = f.AppliedDate
	r.Notes = f.Notes
	r.Location = f.Location
	r.Salary = f.Salary
	r.ContactEmail = f.ContactEmail
	r.ContactName = f.ContactName
	r.URL = f.URL
	return r
}

// datePattern only checks the shape of the date; 2024-13-40 is accepted.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate checks the fields a user must fill in before a record can be
// created or edited. The returned map is empty when f is acceptable.
func Validate(f Fields) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(f.CompanyName) == "" {
		errs["companyName"] = "Company name is required"
	}
	if strings.TrimSpace(f.JobTitle) == "" {
		errs["jobTitle"] = "Job title is required"
	}
	if strings.TrimSpace(f.AppliedDate) == "" {
		errs["appliedDate"] = "Application date is required"
	} else if !datePattern.MatchString(f.AppliedDate) {
		errs["appliedDate"] = "Invalid date format (YYYY-MM-DD)"
	}
	return errs
}

// validateForStore is Validate plus the status invariant the store enforces.
func validateForStore(f Fields) error {
	errs := Validate(f)
	if !f.Status.IsValid() {
		errs["status"] = "Invalid status"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
