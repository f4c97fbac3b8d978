package sqlstore

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
)

// createMockStore builds a store on a mock database and returns the mock object for defining
// the expected SQL calls.
func createMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	mock.ExpectPrepare("INSERT INTO records")
	mock.ExpectPrepare("SELECT (.+) FROM records")
	store, err := New(sqlx.NewDb(sqlDB, "mysql"), "appCONTACT")
	require.NoError(t, err)
	return store, mock
}

// jsonArg matches a JSON encoded fields argument against the expected map.
type jsonArg map[string]any

func (j jsonArg) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		return false
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		return false
	}
	want, _ := json.Marshal(map[string]any(j))
	have, _ := json.Marshal(got)
	return string(want) == string(have)
}

func fieldsJSON(t *testing.T, fields map[string]any) []byte {
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	return raw
}

// TestCreate expects that a row is inserted with the base id, the table name and the JSON
// encoded fields.
func TestCreate(t *testing.T) {
	store, mock := createMockStore(t)
	mock.ExpectExec("INSERT INTO records").
		WithArgs(sqlmock.AnyArg(), "appCONTACT", "Contact Form", jsonArg{"Email": "erika@example.com"}, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := store.Create(context.Background(), "Contact Form", map[string]any{"Email": "erika@example.com"})
	require.NoError(t, err)
	assert.Len(t, rec.ID, 17)
	assert.Regexp(t, "^rec[0-9A-F]{14}$", rec.ID)
	assert.False(t, rec.CreatedTime.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCreateFailure expects that a database error is returned wrapped.
func TestCreateFailure(t *testing.T) {
	store, mock := createMockStore(t)
	mock.ExpectExec("INSERT INTO records").WillReturnError(errors.New("Table 'test.records' doesn't exist"))

	_, err := store.Create(context.Background(), "Contact Form", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Contact Form")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestListFilterSortProject expects that the tag filter matches whole list elements only, and
// that sorting and field projection are applied to the remaining rows.
func TestListFilterSortProject(t *testing.T) {
	store, mock := createMockStore(t)
	t0 := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := mock.NewRows([]string{"id", "base_id", "table_name", "fields", "created_time"}).
		AddRow("rec1", "appCONTACT", "Contacts", fieldsJSON(t, map[string]any{"Name": "zoe", "Email": "z@x", "Tags": []string{"Speaker POC"}}), t0).
		AddRow("rec2", "appCONTACT", "Contacts", fieldsJSON(t, map[string]any{"Name": "Bob", "Tags": []string{"Staff"}}), t0.Add(time.Hour)).
		AddRow("rec3", "appCONTACT", "Contacts", fieldsJSON(t, map[string]any{"Name": "Ava", "Email": "a@x", "Tags": []string{"Staff", "Speaker POC"}}), t0.Add(2*time.Hour)).
		AddRow("rec4", "appCONTACT", "Contacts", fieldsJSON(t, map[string]any{"Name": "Cy", "Tags": []string{"Speaker POC Lead"}}), t0.Add(3*time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM records").
		WithArgs("appCONTACT", "Contacts").
		WillReturnRows(rows)

	recs, err := store.List(context.Background(), "Contacts", records.ListOptions{
		Filter: &records.TagFilter{Field: "Tags", Value: "Speaker POC"},
		Sort:   []records.Sort{{Field: "Name", Direction: records.Ascending}},
		Fields: []string{"Name", "Email"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "rec3", recs[0].ID)
	assert.Equal(t, "rec1", recs[1].ID)
	assert.Equal(t, map[string]any{"Name": "Ava", "Email": "a@x"}, recs[0].Fields)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestListNewestFirst expects that sorting on the creation column uses the row's creation time.
func TestListNewestFirst(t *testing.T) {
	store, mock := createMockStore(t)
	t0 := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := mock.NewRows([]string{"id", "base_id", "table_name", "fields", "created_time"}).
		AddRow("recOLD", "appCONTACT", "Keynote Nominations", []byte(`{}`), t0).
		AddRow("recNEW", "appCONTACT", "Keynote Nominations", []byte(`{}`), t0.Add(time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM records").WillReturnRows(rows)

	recs, err := store.List(context.Background(), "Keynote Nominations", records.ListOptions{
		Sort:       []records.Sort{{Field: records.CreatedField, Direction: records.Descending}},
		MaxRecords: 1,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "recNEW", recs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithoutBase(t *testing.T) {
	_, err := New(nil, "")
	assert.ErrorIs(t, err, records.ErrMissingCredentials)
}
