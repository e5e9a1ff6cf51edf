package store

import (
	"context"
	"fmt"
	"strings"

	"samarth-qa/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	// The modernc driver registers as "sqlite", which sqlx does not know
	// about; bind it so Rebind produces ? placeholders.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store wraps the relational database holding the agriculture tables and
// executes whatever SQL the agent hands it. Statement types are not
// sandboxed; restricting execution to read-only statements is a known
// hardening gap.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Result is one executed query's outcome, held as strings so it can be
// serialized into the agent's loop state and rendered by the UIs.
type Result struct {
	Columns  []string
	Rows     [][]string
	RowCount int
}

// Open connects to the configured backend. SQLite (the default) uses the
// local samarth.db file; PostgreSQL uses the DSN from the environment.
func Open(cfg config.StoreConfig) (*Store, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Type {
	case config.PostgresStore:
		db, err = sqlx.Connect("postgres", cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return &Store{db: db, driver: "postgres"}, nil
	default:
		db, err = sqlx.Connect("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.Path, err)
		}
		return &Store{db: db, driver: "sqlite"}, nil
	}
}

// NewWithDB wraps an existing connection. Used by tests and the ETL.
func NewWithDB(db *sqlx.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for the ETL loader.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Execute runs one SQL statement and collects the full result set. Errors
// from the database are returned as-is; the caller decides how to surface
// them. Statements without a result set (INSERT etc.) yield an empty Result.
func (s *Store) Execute(ctx context.Context, query string) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

// String serializes the result for the agent's loop state: row count plus a
// tuple list, compact enough to feed back into a summarization prompt.
func (r *Result) String() string {
	if r == nil || r.RowCount == 0 {
		return "0 rows: []"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d rows: [", r.RowCount)
	for i, row := range r.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(" + strings.Join(row, ", ") + ")")
	}
	b.WriteString("]")
	return b.String()
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
