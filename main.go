package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"samarth-qa/internal/agent"
	"samarth-qa/internal/cli"
	"samarth-qa/internal/config"
	"samarth-qa/internal/gateway"
	"samarth-qa/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		printUsage()
		return 1
	}

	command := os.Args[1]
	args := os.Args[2:]

	// Handle help command without opening the store
	if command == "help" {
		printUsage()
		return 0
	}

	cfg := config.GetStoreConfig()

	st, err := store.Open(cfg)
	if err != nil {
		log.Printf("Failed to open query store: %v", err)
		return 1
	}
	defer st.Close()

	ctx := context.Background()

	switch command {
	case "ingest":
		err = cli.RunIngest(ctx, st, args)

	case "query":
		err = cli.RunQuery(ctx, st, args)

	case "schema":
		err = cli.RunSchema(ctx, st, args)

	case "ask":
		ag, gw, agentErr := buildAgent(ctx, st)
		if agentErr != nil {
			log.Printf("Failed to initialize agent: %v", agentErr)
			return 1
		}
		defer gw.Close()

		err = cli.RunAsk(ctx, ag, args)

	case "chat":
		ag, gw, agentErr := buildAgent(ctx, st)
		if agentErr != nil {
			log.Printf("Failed to initialize agent: %v", agentErr)
			return 1
		}
		defer gw.Close()

		err = cli.RunChat(ctx, ag, gw, st, args)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		return 1
	}

	if err != nil {
		log.Printf("Error executing command '%s': %v", command, err)
		return 1
	}

	return 0
}

// buildAgent connects a model backend and assembles the question-answering
// agent over the opened store.
func buildAgent(ctx context.Context, st *store.Store) (*agent.Agent, *gateway.Gateway, error) {
	schema, err := st.Describe(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to describe database: %w", err)
	}

	gw, err := gateway.Connect(ctx, config.GetGatewayConfig())
	if err != nil {
		return nil, nil, err
	}

	return agent.New(gw, st, schema), gw, nil
}

func printUsage() {
	fmt.Println("Samarth QA: question answering over Indian agriculture data")
	fmt.Println("\nUsage:")
	fmt.Println("  samarth-qa <command> [arguments]")

	fmt.Println("\nData Commands:")
	fmt.Println("  ingest --crops=<csv> --rainfall=<csv>")
	fmt.Println("                     Load the crop production and rainfall CSVs into the store")
	fmt.Println("  query [--format=table|csv|markdown] \"<sql>\"")
	fmt.Println("                     Run a SQL statement directly against the store")
	fmt.Println("  schema             Print the table definitions and sample rows")

	fmt.Println("\nAgent Commands:")
	fmt.Println("  ask [--show-sql] [--show-data] \"<question>\"")
	fmt.Println("                     Answer one question and exit")
	fmt.Println("  chat               Interactive question-answering session")

	fmt.Println("\nOther Commands:")
	fmt.Println("  help               Show this help message")

	fmt.Println("\nEnvironment:")
	fmt.Println("  SAMARTH_DB_PATH         SQLite database file (default: samarth.db)")
	fmt.Println("  SAMARTH_STORE_TYPE      sqlite (default) or postgres")
	fmt.Println("  DB_CONN_STRING          PostgreSQL DSN when SAMARTH_STORE_TYPE=postgres")
	fmt.Println("  SAMARTH_MODEL_BACKEND   Pin a backend: groq, ollama or gemini")
	fmt.Println("  SAMARTH_MODEL           Override the backend's default model")
	fmt.Println("  GROQ_API_KEY            Enables the Groq backend")
	fmt.Println("  GEMINI_API_KEY          Enables the Gemini backend")
	fmt.Println("  OLLAMA_URL              Local Ollama endpoint (default: http://localhost:11434/v1)")
}
