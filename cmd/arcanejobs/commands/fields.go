package commands

import (
	"github.com/spf13/cobra"

	"github.com/arcanejobs/arcanejobs/internal/job"
)

// fieldFlags binds one flag per editable job field.
type fieldFlags struct {
	f      job.Fields
	status string
}

var fieldFlagNames = []string{
	"company", "title", "status", "date", "notes", "location", "salary", "contact-name", "contact-email", "url",
}

func (ff *fieldFlags) register(cmd *cobra.Command, defaultStatus, defaultDate string) {
	fs := cmd.Flags()
	fs.StringVar(&ff.f.CompanyName, "company", "", "Company name")
	fs.StringVar(&ff.f.JobTitle, "title", "", "Job title")
	fs.StringVar(&ff.status, "status", defaultStatus, "Applied, Interviewing, Offer or Rejected")
	fs.StringVar(&ff.f.AppliedDate, "date", defaultDate, "Application date (YYYY-MM-DD)")
	fs.StringVar(&ff.f.Notes, "notes", "", "Free-form notes")
	fs.StringVar(&ff.f.Location, "location", "", "Location")
	fs.StringVar(&ff.f.Salary, "salary", "", "Salary range")
	fs.StringVar(&ff.f.ContactName, "contact-name", "", "Contact name")
	fs.StringVar(&ff.f.ContactEmail, "contact-email", "", "Contact email")
	fs.StringVar(&ff.f.URL, "url", "", "Job posting URL")
}

// fields returns every flag value, defaults included.
func (ff *fieldFlags) fields() job.Fields {
	f := ff.f
	f.Status = job.Status(ff.status)
	return f
}

// applyChanged copies only the flags set on the command line onto r.
func (ff *fieldFlags) applyChanged(cmd *cobra.Command, r *job.Record) {
	set := ff.fields()
	for _, name := range fieldFlagNames {
		if !cmd.Flags().Changed(name) {
			continue
		}
		switch name {
		case "company":
			r.CompanyName = set.CompanyName
		case "title":
			r.JobTitle = set.JobTitle
		case "status":
			r.Status = set.Status
		case "date":
			r.AppliedDate = set.AppliedDate
		case "notes":
			r.Notes = set.Notes
		case "location":
			r.Location = set.Location
		case "salary":
			r.Salary = set.Salary
		case "contact-name":
			r.ContactName = set.ContactName
		case "contact-email":
			r.ContactEmail = set.ContactEmail
		case "url":
			r.URL = set.URL
		}
	}
}
