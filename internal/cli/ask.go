package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"samarth-qa/internal/agent"
)

// RunAsk handles the 'ask' command: one question in, one answer out.
func RunAsk(ctx context.Context, ag *agent.Agent, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	showSQL := fs.Bool("show-sql", false, "Print the executed SQL query before the answer")
	showData := fs.Bool("show-data", false, "Print the raw query result before the answer")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fs.Usage()
		return fmt.Errorf("error: a question is required, e.g. ask \"Which district had the highest rice production in 2012?\"")
	}

	st, err := ag.RunState(ctx, question)
	if errors.Is(err, agent.ErrDepthExceeded) {
		fmt.Println("The agent exceeded its reasoning depth. Please try rephrasing your question.")
		return nil
	}
	if err != nil {
		return err
	}

	if *showSQL && st.SQL != "" {
		fmt.Printf("SQL: %s\n", st.SQL)
	}
	if *showData && st.Result != "" {
		fmt.Printf("Data: %s\n", st.Result)
	}
	if agent.BackendUnreachable(st.Answer) {
		fmt.Println(ollamaHint)
		return nil
	}
	fmt.Println(st.Answer)
	return nil
}
