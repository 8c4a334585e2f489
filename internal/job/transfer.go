package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"
)

const (
	ExportVersion = "1.0"
	AppName       = "ARCANE JOBS"
)

// ExportMetadata describes an export file.
type ExportMetadata struct {
	ExportDate string `json:"exportDate"`
	Version    string `json:"version"`
	AppName    string `json:"appName"`
	JobCount   int    `json:"jobCount"`
}

// ExportFile is the envelope written by Export and accepted back by Import.
type ExportFile struct {
	Metadata ExportMetadata `json:"metadata"`
	Jobs     []Record       `json:"jobs"`
}

// NewExportFile wraps records in an export envelope stamped with at.
func NewExportFile(records []Record, at time.Time) ExportFile {
	if records == nil {
		records = []Record{}
	}
	return ExportFile{
		Metadata: ExportMetadata{
			ExportDate: Timestamp(at),
			Version:    ExportVersion,
			AppName:    AppName,
			JobCount:   len(records),
		},
		Jobs: records,
	}
}

// ExportFilename is the suggested download name for an export made at t.
func ExportFilename(t time.Time) string {
	return "arcane-jobs-export-" + t.UTC().Format(time.DateOnly) + ".json"
}

// Export writes the whole collection as an indented export envelope and
// returns the number of records written.
func (s *Store) Export(w io.Writer) (int, error) {
	file := NewExportFile(s.All(), s.now())
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return file.Metadata.JobCount, nil
}

type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

// ImportResult reports what an import did to the collection.
type ImportResult struct {
	Mode    ImportMode `json:"mode"`
	Added   int        `json:"added"`
	Skipped int        `json:"skipped"`
}

// Message renders the result for the user.
func (r ImportResult) Message() string {
	if r.Mode == ImportMerge {
		return fmt.Sprintf("Successfully imported %d new jobs (%d duplicates skipped)", r.Added, r.Skipped)
	}
	if r.Skipped > 0 {
		return fmt.Sprintf("Successfully imported %d jobs (%d duplicates skipped)", r.Added, r.Skipped)
	}
	return fmt.Sprintf("Successfully imported %d jobs", r.Added)
}

// Import parses raw and applies it to the collection. With merge=false the
// imported records replace the collection; with merge=true records whose id
// already exists are skipped and the rest appended. A record repeating an id
// seen earlier in the same payload is skipped in both modes. Any parse or
// validation failure leaves the collection untouched.
func (s *Store) Import(ctx context.Context, raw []byte, merge bool) (ImportResult, error) {
	incoming, err := ParseImport(raw)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Mode: ImportReplace}
	if merge {
		res.Mode = ImportMerge
	}

	err = s.mutate(ctx, func(cur []Record) ([]Record, *Change, error) {
		taken := make(map[string]bool, len(cur)+len(incoming))
		if merge {
			for _, r := range cur {
				taken[r.ID] = true
			}
		}

		stamp := Timestamp(s.now())
		added := make([]Record, 0, len(incoming))
		for _, r := range incoming {
			if r.ID == "" {
				r.ID = s.newID()
			}
			if r.LastUpdated == "" {
				r.LastUpdated = stamp
			}
			if taken[r.ID] {
				res.Skipped++
				continue
			}
			taken[r.ID] = true
			added = append(added, r)
		}
		res.Added = len(added)

		next := added
		if merge {
			next = append(slices.Clone(cur), added...)
		}
		return next, &Change{Kind: ChangeImported}, nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

// importPayload is one of the accepted top-level import shapes. Each shape
// maps its items onto canonical field names.
type importPayload interface {
	objects() ([]map[string]json.RawMessage, error)
}

// bareArray is a top-level JSON array of records.
type bareArray []json.RawMessage

// envelope is an export file: {"metadata": ..., "jobs": [...]}.
type envelope struct{ jobs []json.RawMessage }

// legacyEnvelope is {"applications": [...]} using company/title/position/dateApplied.
type legacyEnvelope struct{ applications []json.RawMessage }

func (b bareArray) objects() ([]map[string]json.RawMessage, error) {
	return decodeObjects(b)
}

func (e envelope) objects() ([]map[string]json.RawMessage, error) {
	return decodeObjects(e.jobs)
}

func (l legacyEnvelope) objects() ([]map[string]json.RawMessage, error) {
	objs, err := decodeObjects(l.applications)
	if err != nil {
		return nil, err
	}
	for _, m := range objs {
		coalesce(m, "companyName", "company", "companyName")
		coalesce(m, "jobTitle", "title", "jobTitle", "position")
		coalesce(m, "appliedDate", "appliedDate", "dateApplied")
	}
	return objs, nil
}

// coalesce sets m[target] to the first of keys holding a non-empty string.
func coalesce(m map[string]json.RawMessage, target string, keys ...string) {
	for _, k := range keys {
		v, ok, err := stringField(m, k)
		if err == nil && ok && v != "" {
			m[target] = m[k]
			return
		}
	}
}

// detectPayload decides which import shape raw is. "jobs" wins over
// "applications" when an object carries both.
func detectPayload(raw []byte) (importPayload, error) {
	raw = bytes.TrimSpace(raw)
	if items, ok := asArray(raw); ok {
		return bareArray(items), nil
	}

	var top map[string]json.RawMessage
	if len(raw) == 0 || raw[0] != '{' || json.Unmarshal(raw, &top) != nil {
		return nil, formatError("invalid import format")
	}
	if items, ok := asArray(top["jobs"]); ok {
		return envelope{jobs: items}, nil
	}
	if items, ok := asArray(top["applications"]); ok {
		return legacyEnvelope{applications: items}, nil
	}
	return nil, formatError("invalid import format")
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, true
}

func decodeObjects(items []json.RawMessage) ([]map[string]json.RawMessage, error) {
	objs := make([]map[string]json.RawMessage, 0, len(items))
	for i, item := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(item, &m); err != nil || m == nil {
			return nil, &ImportFormatError{Reason: "invalid job data structure", Index: i}
		}
		objs = append(objs, m)
	}
	return objs, nil
}

// stringField reads m[key]. ok is false when the key is absent or null;
// err is set when the value is present but not a string.
func stringField(m map[string]json.RawMessage, key string) (v string, ok bool, err error) {
	raw, present := m[key]
	if !present || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false, fmt.Errorf("field %s is not a string", key)
	}
	return v, true, nil
}

var (
	requiredKeys = []string{"companyName", "jobTitle", "status", "appliedDate"}
	optionalKeys = []string{"id", "notes", "location", "salary", "contactEmail", "contactName", "url", "lastUpdated"}
)

// ParseImport turns a raw import payload into canonical records. Records may
// lack id and lastUpdated; the store back-fills those.
func ParseImport(raw []byte) ([]Record, error) {
	payload, err := detectPayload(raw)
	if err != nil {
		return nil, err
	}
	objs, err := payload.objects()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(objs))
	for i, m := range objs {
		r, reason := recordFrom(m)
		if reason != "" {
			return nil, &ImportFormatError{Reason: reason, Index: i}
		}
		records = append(records, r)
	}
	return records, nil
}

// recordFrom builds a record from one object with canonical keys. It returns
// the rejection reason, or "" when m is acceptable. Required fields must be
// present strings and status must be one of the known values; the content of
// companyName, jobTitle and appliedDate is not checked.
func recordFrom(m map[string]json.RawMessage) (Record, string) {
	vals := make(map[string]string, len(requiredKeys)+len(optionalKeys))
	for _, k := range requiredKeys {
		v, ok, err := stringField(m, k)
		if err != nil || !ok {
			return Record{}, "invalid job data structure"
		}
		vals[k] = v
	}
	for _, k := range optionalKeys {
		v, _, err := stringField(m, k)
		if err != nil {
			return Record{}, "invalid job data structure"
		}
		vals[k] = v
	}

	status := Status(vals["status"])
	if !status.IsValid() {
		return Record{}, "invalid job status values"
	}

	return Record{
		ID:           vals["id"],
		CompanyName:  vals["companyName"],
		JobTitle:     vals["jobTitle"],
		Status:       status,
		AppliedDate:  vals["appliedDate"],
		Notes:        vals["notes"],
		Location:     vals["location"],
		Salary:       vals["salary"],
		ContactEmail: vals["contactEmail"],
		ContactName:  vals["contactName"],
		URL:          vals["url"],
		LastUpdated:  vals["lastUpdated"],
	}, ""
}
