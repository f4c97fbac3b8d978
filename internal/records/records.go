// Package records describes the hosted tabular store the site writes form submissions into.
// A store is addressed by a base and holds named tables of loosely typed rows.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMissingCredentials is returned by store constructors when the base id or API key for a
// base is not configured. Callers use it to run the affected routes in a degraded mode.
var ErrMissingCredentials = errors.New("store credentials missing")

// Record is one row of a table.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// CreatedField names the creation-time column. Stores without such a column sort on the
// creation time of the row instead.
const CreatedField = "Created"

// Direction is the sort direction of a List call.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sort orders the result of a List call by a single field.
type Sort struct {
	Field     string
	Direction Direction
}

// TagFilter keeps rows where one element of Field equals Value exactly. The field may be a
// single string or a list of strings (multiple select, linked records); a single string is a
// one-element list. Value must not contain a comma.
type TagFilter struct {
	Field string
	Value string
}

// ListOptions control a List call. The zero value lists every row in store order.
type ListOptions struct {
	Filter     *TagFilter
	Sort       []Sort
	Fields     []string
	MaxRecords int
}

// Store creates and lists rows. Implementations do not retry: a failed call is returned to the
// caller as is.
type Store interface {
	Create(ctx context.Context, table string, fields map[string]any) (Record, error)
	List(ctx context.Context, table string, opts ListOptions) ([]Record, error)
}

// Backend pairs a store with the error that prevented its construction. Exactly one of the two
// is set.
type Backend struct {
	Store Store
	Err   error
}

// NewBackend wraps the result of a store constructor.
func NewBackend(store Store, err error) Backend {
	if err != nil {
		return Backend{Err: err}
	}
	if store == nil {
		return Backend{Err: fmt.Errorf("no store: %w", ErrMissingCredentials)}
	}
	return Backend{Store: store}
}

// Available reports whether the backend can serve requests.
func (b Backend) Available() bool {
	return b.Err == nil && b.Store != nil
}

// StringField reads a string field, returning "" when it is absent or of another type.
func StringField(fields map[string]any, name string) string {
	if s, ok := fields[name].(string); ok {
		return s
	}
	return ""
}

// StringsField reads a list of strings. A single string is returned as a one-element list.
// Non-string elements are skipped.
func StringsField(fields map[string]any, name string) []string {
	switch v := fields[name].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
