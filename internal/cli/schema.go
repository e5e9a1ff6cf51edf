package cli

import (
	"context"
	"fmt"

	"samarth-qa/internal/store"
)

// RunSchema handles the 'schema' command: print the table definitions and
// sample rows exactly as the agent sees them in its prompt.
func RunSchema(ctx context.Context, st *store.Store, args []string) error {
	desc, err := st.Describe(ctx)
	if err != nil {
		return fmt.Errorf("failed to describe database: %w", err)
	}
	fmt.Println(desc)
	return nil
}
