// Package sqlstore keeps the rows of the tabular store in a MySQL table. It is used instead of
// Airtable for local development and for self-hosted deployments.
package sqlstore

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
)

// DSNConfig holds the connection parameters of the database.
type DSNConfig struct {
	User     string
	Password string
	Host     string
	Database string
}

// Open returns a database handle for the given connection parameters. The connection itself is
// only established on first use.
func Open(cfg DSNConfig) (*sqlx.DB, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host
	mc.DBName = cfg.Database
	mc.ParseTime = true
	db, err := sqlx.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// row is a table row as stored on the database.
type row struct {
	ID          string    `db:"id"`
	BaseID      string    `db:"base_id"`
	Table       string    `db:"table_name"`
	Fields      []byte    `db:"fields"`
	CreatedTime time.Time `db:"created_time"`
}

// Store implements records.Store for one base.
type Store struct {
	baseID string

	// insert is a prepared statement for creating a row.
	insert *sqlx.NamedStmt

	// selectTable is a prepared statement for reading all rows of a table.
	selectTable *sqlx.Stmt
}

// New prepares the statements of a store for baseID. The database argument can be a real
// database or a mock database within unit tests.
func New(db *sqlx.DB, baseID string) (*Store, error) {
	if db == nil || baseID == "" {
		return nil, fmt.Errorf("sqlstore: %w", records.ErrMissingCredentials)
	}
	insert, err := db.PrepareNamed(`
		INSERT INTO records (id, base_id, table_name, fields, created_time)
		VALUES (:id, :base_id, :table_name, :fields, :created_time)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: prepare insert: %w", err)
	}
	selectTable, err := db.Preparex(`
		SELECT id, base_id, table_name, fields, created_time
		FROM records
		WHERE base_id = ? AND table_name = ?
		ORDER BY created_time, id
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: prepare select: %w", err)
	}
	return &Store{baseID: baseID, insert: insert, selectTable: selectTable}, nil
}

// newID returns an id in the style of the hosted store: "rec" followed by 14 characters.
func newID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "rec" + strings.ToUpper(hex[:14])
}

func (s *Store) Create(ctx context.Context, table string, fields map[string]any) (records.Record, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return records.Record{}, fmt.Errorf("sqlstore: encode fields: %w", err)
	}
	r := row{
		ID:          newID(),
		BaseID:      s.baseID,
		Table:       table,
		Fields:      encoded,
		CreatedTime: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.insert.ExecContext(ctx, &r); err != nil {
		return records.Record{}, fmt.Errorf("sqlstore: insert into %q: %w", table, err)
	}
	return records.Record{ID: r.ID, CreatedTime: r.CreatedTime, Fields: fields}, nil
}

// List reads all rows of the table and applies filter, sort and limit in memory. Tables of this
// site hold hundreds of rows at most.
func (s *Store) List(ctx context.Context, table string, opts records.ListOptions) ([]records.Record, error) {
	var rows []row
	if err := s.selectTable.SelectContext(ctx, &rows, s.baseID, table); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlstore: select from %q: %w", table, err)
	}
	out := make([]records.Record, 0, len(rows))
	for _, r := range rows {
		fields := map[string]any{}
		if err := json.Unmarshal(r.Fields, &fields); err != nil {
			return nil, fmt.Errorf("sqlstore: decode row %s: %w", r.ID, err)
		}
		rec := records.Record{ID: r.ID, CreatedTime: r.CreatedTime, Fields: fields}
		if opts.Filter != nil && !slices.Contains(records.StringsField(fields, opts.Filter.Field), opts.Filter.Value) {
			continue
		}
		out = append(out, project(rec, opts.Fields))
	}
	sortRecords(out, opts.Sort)
	if opts.MaxRecords > 0 && len(out) > opts.MaxRecords {
		out = out[:opts.MaxRecords]
	}
	return out, nil
}

// project keeps only the named fields. No names keeps everything.
func project(rec records.Record, names []string) records.Record {
	if len(names) == 0 {
		return rec
	}
	kept := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := rec.Fields[name]; ok {
			kept[name] = v
		}
	}
	rec.Fields = kept
	return rec
}

func sortRecords(recs []records.Record, order []records.Sort) {
	if len(order) == 0 {
		return
	}
	slices.SortStableFunc(recs, func(a, b records.Record) int {
		for _, o := range order {
			var c int
			if o.Field == records.CreatedField {
				c = a.CreatedTime.Compare(b.CreatedTime)
			} else {
				c = cmp.Compare(
					strings.ToLower(records.StringField(a.Fields, o.Field)),
					strings.ToLower(records.StringField(b.Fields, o.Field)))
			}
			if o.Direction == records.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}
