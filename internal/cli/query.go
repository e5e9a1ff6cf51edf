package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"samarth-qa/internal/store"
)

// RunQuery handles the 'query' command: execute raw SQL against the store,
// bypassing the agent. Useful for inspecting the loaded tables.
func RunQuery(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	format := fs.String("format", "table", "Output format: table, csv or markdown")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fs.Usage()
		return fmt.Errorf("error: a SQL statement is required, e.g. query \"SELECT COUNT(*) FROM crop_production\"")
	}

	res, err := st.Execute(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	return renderResult(os.Stdout, res, *format)
}
