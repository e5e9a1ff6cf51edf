package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"samarth-qa/internal/etl"
	"samarth-qa/internal/store"
)

// IngestCommand creates the ingest command
func IngestCommand(st *store.Store) *cobra.Command {
	var (
		cropCSV     string
		rainfallCSV string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load the crop production and rainfall CSVs into the query store",
		Long: `Load the crop production and district rainfall CSV exports into the
query store, replacing any previous load.

The crop CSV arrives wide, with one "<CROP> PRODUCTION (unit)" column per crop,
and is melted into long rows. State, district and crop names are uppercased and
trimmed so generated queries match reliably.

Examples:
  # Load both files into the default samarth.db
  ./samarth-qa ingest --crops "India Agriculture Crop Production.csv" --rainfall "District Rainfall.csv"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), st, cropCSV, rainfallCSV)
		},
	}

	cmd.Flags().StringVar(&cropCSV, "crops", "", "Path to the crop production CSV (required)")
	cmd.Flags().StringVar(&rainfallCSV, "rainfall", "", "Path to the district rainfall CSV (required)")
	_ = cmd.MarkFlagRequired("crops")
	_ = cmd.MarkFlagRequired("rainfall")

	return cmd
}

func runIngest(ctx context.Context, st *store.Store, cropCSV, rainfallCSV string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log.Printf("Ingesting crop production from %s and rainfall from %s", cropCSV, rainfallCSV)

	if err := etl.Run(ctx, st.DB(), cropCSV, rainfallCSV); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Println("Ingest completed successfully.")
	return nil
}

// RunIngest is the CLI wrapper function for the ingest command
func RunIngest(ctx context.Context, st *store.Store, args []string) error {
	cmd := IngestCommand(st)
	cmd.SetContext(ctx)
	cmd.SetArgs(args)
	return cmd.Execute()
}
