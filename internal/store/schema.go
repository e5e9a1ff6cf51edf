package store

import (
	"context"
	"fmt"
	"strings"
)

const sampleRowLimit = 3

// Describe renders a textual description of every user table: its CREATE
// TABLE statement followed by a few sample rows. The text is produced once
// at startup and shared read-only by every question the agent answers.
func (s *Store) Describe(ctx context.Context) (string, error) {
	tables, err := s.listTables(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list tables: %w", err)
	}
	if len(tables) == 0 {
		return "", fmt.Errorf("no tables found; run the ingest command first")
	}

	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n\n")
		}
		ddl, err := s.tableDDL(ctx, t)
		if err != nil {
			return "", fmt.Errorf("failed to describe table %s: %w", t, err)
		}
		b.WriteString(ddl)

		sample, err := s.sampleRows(ctx, t)
		if err != nil {
			return "", fmt.Errorf("failed to sample table %s: %w", t, err)
		}
		b.WriteString("\n\n/*\n")
		fmt.Fprintf(&b, "%d rows from %s table:\n", sampleRowLimit, t)
		b.WriteString(sample)
		b.WriteString("*/")
	}

	return b.String(), nil
}

func (s *Store) listTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`
	if s.driver == "postgres" {
		query = `
			SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// tableDDL reconstructs a CREATE TABLE statement for the given table.
func (s *Store) tableDDL(ctx context.Context, table string) (string, error) {
	if s.driver == "sqlite" {
		var ddl string
		err := s.db.QueryRowContext(ctx,
			`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = $1`, table,
		).Scan(&ddl)
		if err != nil {
			return "", err
		}
		return ddl, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position`, table)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return "", err
		}
		cols = append(cols, fmt.Sprintf("\t%s %s", name, strings.ToUpper(typ)))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", table, strings.Join(cols, ",\n")), nil
}

func (s *Store) sampleRows(ctx context.Context, table string) (string, error) {
	res, err := s.Execute(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, sampleRowLimit))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.Join(res.Columns, "\t") + "\n")
	for _, row := range res.Rows {
		b.WriteString(strings.Join(row, "\t") + "\n")
	}
	return b.String(), nil
}
