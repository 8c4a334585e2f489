package job

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned by Update when no record has the given id.
var ErrNotFound = errors.New("job not found")

// ValidationErrors maps a field name to a user-facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ImportFormatError describes why an import payload was rejected.
// Index is the offending record position, or -1 when the whole payload is at fault.
type ImportFormatError struct {
	Reason string
	Index  int
}

func (e *ImportFormatError) Error() string {
	if e.Index < 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s (record %d)", e.Reason, e.Index)
}

func formatError(reason string) *ImportFormatError {
	return &ImportFormatError{Reason: reason, Index: -1}
}
