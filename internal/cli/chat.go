package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"samarth-qa/internal/agent"
	"samarth-qa/internal/gateway"
	"samarth-qa/internal/store"
)

// ollamaHint replaces a raw connection error when the model backend dies
// mid-session.
const ollamaHint = "Cannot reach the local Ollama model. Please ensure Ollama is running."

// RunChat handles the 'chat' command: an interactive loop where every plain
// line is a question for the agent and dot-commands inspect the store.
func RunChat(ctx context.Context, ag *agent.Agent, gw *gateway.Gateway, st *store.Store, args []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "samarth> ",
		HistoryFile:     historyFile(),
		AutoComplete:    chatCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("Samarth agriculture Q&A (backend: %s, model: %s)\n", gw.Backend(), gw.Model())
	fmt.Println("Ask a question in plain English, or type .help for commands.")
	fmt.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(ctx, st, line); quit {
				break
			}
			continue
		}

		answer, err := ag.Run(ctx, line)
		if errors.Is(err, agent.ErrDepthExceeded) {
			fmt.Println("The agent exceeded its reasoning depth. Please try rephrasing your question.")
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if agent.BackendUnreachable(answer) {
			answer = ollamaHint
		}
		fmt.Println(answer)
		fmt.Println()
	}

	return nil
}

// handleDotCommand dispatches a .command line. It returns true when the
// loop should exit.
func handleDotCommand(ctx context.Context, st *store.Store, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printChatHelp(os.Stdout)

	case ".schema":
		desc, err := st.Describe(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		fmt.Println(desc)

	case ".sql":
		query := strings.TrimSpace(strings.TrimPrefix(line, ".sql"))
		if query == "" {
			fmt.Fprintln(os.Stderr, "Usage: .sql <statement>")
			return false
		}
		res, err := st.Execute(ctx, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		_ = renderResult(os.Stdout, res, "table")

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printChatHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .schema          Show the table definitions and sample rows
  .sql <stmt>      Run a SQL statement directly, bypassing the agent
  .clear           Clear the screen
  .quit / .exit    Leave the chat

Anything else is treated as a question about the agriculture data.
`
	_, _ = fmt.Fprintln(w, help)
}

func chatCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".schema"),
		readline.PcItem(".sql"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".samarth_history"
	}
	return filepath.Join(home, ".samarth_history")
}
