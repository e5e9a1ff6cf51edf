// Command web serves a browser chat interface over the question-answering
// agent. It shares the store, gateway and agent packages with the CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"samarth-qa/internal/agent"
	"samarth-qa/internal/config"
	"samarth-qa/internal/gateway"
	"samarth-qa/internal/store"
)

func main() {
	if err := ServeCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// ServeCommand creates the web server command.
func ServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "samarth-web",
		Short: "Serve the browser chat interface",
		Long: `Serve a browser chat interface over the agriculture question-answering agent.

The server reads the same environment variables as the CLI (SAMARTH_DB_PATH,
GROQ_API_KEY, OLLAMA_URL and friends) and picks a model backend the same way.

Examples:
  # Serve on the default port
  ./samarth-web

  # Serve on a different address
  ./samarth-web --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8501", "Listen address for the web interface")

	return cmd
}

func runServe(ctx context.Context, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(config.GetStoreConfig())
	if err != nil {
		return fmt.Errorf("failed to open query store: %w", err)
	}
	defer st.Close()

	schema, err := st.Describe(ctx)
	if err != nil {
		return fmt.Errorf("failed to describe database: %w", err)
	}

	gw, err := gateway.Connect(ctx, config.GetGatewayConfig())
	if err != nil {
		return fmt.Errorf("failed to connect a model backend: %w", err)
	}
	defer gw.Close()

	srv := newServer(agent.New(gw, st, schema), st, gw)

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.routes(),
		// Generation can take a while on a local model, so the write
		// timeout is generous.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	log.Printf("Serving chat interface on %s (backend: %s)", addr, gw.Backend())
	return httpSrv.ListenAndServe()
}
