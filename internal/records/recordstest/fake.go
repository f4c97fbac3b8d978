// Package recordstest provides an in-memory records.Store for handler tests.
package recordstest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
)

// Created is one recorded Create call.
type Created struct {
	Table  string
	Fields map[string]any
}

// ListCall is one recorded List call.
type ListCall struct {
	Table   string
	Options records.ListOptions
}

// Store keeps created rows in memory and counts calls. CreateErr and ListErr, when set, are
// returned instead of touching the rows.
type Store struct {
	mu        sync.Mutex
	Rows      map[string][]records.Record
	Creates   []Created
	Lists     []ListCall
	CreateErr error
	ListErr   error
	next      int
}

// New returns an empty store.
func New() *Store {
	return &Store{Rows: map[string][]records.Record{}}
}

// Seed adds rows to a table without counting them as Create calls.
func (s *Store) Seed(table string, rows ...records.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rows[table] = append(s.Rows[table], rows...)
}

// CreateCount returns the number of Create calls.
func (s *Store) CreateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Creates)
}

func (s *Store) Create(_ context.Context, table string, fields map[string]any) (records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Creates = append(s.Creates, Created{Table: table, Fields: fields})
	if s.CreateErr != nil {
		return records.Record{}, s.CreateErr
	}
	s.next++
	rec := records.Record{
		ID:          fmt.Sprintf("rec%014d", s.next),
		CreatedTime: time.Date(2026, time.March, 1, 9, 0, s.next, 0, time.UTC),
		Fields:      fields,
	}
	s.Rows[table] = append(s.Rows[table], rec)
	return rec, nil
}

func (s *Store) List(_ context.Context, table string, opts records.ListOptions) ([]records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lists = append(s.Lists, ListCall{Table: table, Options: opts})
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var out []records.Record
	for _, rec := range s.Rows[table] {
		if opts.Filter != nil && !slices.Contains(records.StringsField(rec.Fields, opts.Filter.Field), opts.Filter.Value) {
			continue
		}
		out = append(out, rec)
	}
	for i := len(opts.Sort) - 1; i >= 0; i-- {
		srt := opts.Sort[i]
		slices.SortStableFunc(out, func(a, b records.Record) int {
			c := strings.Compare(records.StringField(a.Fields, srt.Field), records.StringField(b.Fields, srt.Field))
			if srt.Field == records.CreatedField {
				c = a.CreatedTime.Compare(b.CreatedTime)
			}
			if srt.Direction == records.Descending {
				return -c
			}
			return c
		})
	}
	if opts.MaxRecords > 0 && len(out) > opts.MaxRecords {
		out = out[:opts.MaxRecords]
	}
	return out, nil
}
