// Package agent implements the bounded generate-execute-repair loop that
// turns a natural-language question into an executed SQL query and a
// summarized answer. Collaborator failures are captured as result strings in
// the loop state and drive the retry decision; they never escape a stage as
// a Go error. The only error Run itself returns is ErrDepthExceeded.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"samarth-qa/internal/gateway"
	"samarth-qa/internal/store"
)

// RetryBudget bounds how many generate-execute cycles run before the loop is
// forced into synthesis with whatever result it holds.
const RetryBudget = 3

// DefaultMaxSteps is the overall stage-transition ceiling, a safety net
// independent of and larger than RetryBudget.
const DefaultMaxSteps = 10

// ErrDepthExceeded is returned when the step ceiling is hit. Callers
// translate it into a user-facing message instead of crashing.
var ErrDepthExceeded = errors.New("agent exceeded its reasoning depth")

// Executor runs one SQL statement against the relational store.
type Executor interface {
	Execute(ctx context.Context, query string) (*store.Result, error)
}

// step is a stage of the loop's state machine.
type step int

const (
	stepGenerate step = iota
	stepExecute
	stepSynthesize
	stepEnd
)

// Agent orchestrates the schema description, the model gateway and the
// query store through the repair loop. It holds no per-question state, so
// one Agent can serve concurrent questions.
type Agent struct {
	gen      gateway.Generator
	exec     Executor
	schema   string
	maxSteps int
}

// New creates an agent over a connected gateway and store. The schema text
// comes from the store's Describe and is shared read-only by every run.
func New(gen gateway.Generator, exec Executor, schema string) *Agent {
	return &Agent{gen: gen, exec: exec, schema: schema, maxSteps: DefaultMaxSteps}
}

// WithMaxSteps overrides the stage-transition ceiling.
func (a *Agent) WithMaxSteps(n int) *Agent {
	a.maxSteps = n
	return a
}

// Run answers one question: generate SQL, execute it, retry on failure up to
// RetryBudget, then always synthesize a natural-language answer. The
// returned answer is never empty on a nil error.
func (a *Agent) Run(ctx context.Context, question string) (string, error) {
	st, err := a.RunState(ctx, question)
	if err != nil {
		return "", err
	}
	return st.Answer, nil
}

// RunState runs the loop and returns the final state, for callers that also
// want the executed query or the raw result alongside the answer.
func (a *Agent) RunState(ctx context.Context, question string) (State, error) {
	st := NewState(question, a.schema)
	current := stepGenerate

	for i := 0; i < a.maxSteps; i++ {
		switch current {
		case stepGenerate:
			st = a.generateSQL(ctx, st)
			current = stepExecute
		case stepExecute:
			st = a.executeSQL(ctx, st)
			st, current = decide(st)
		case stepSynthesize:
			st = a.synthesizeAnswer(ctx, st)
			current = stepEnd
		case stepEnd:
			return st, nil
		}
	}

	return st, ErrDepthExceeded
}

const generateInstruction = `You are a SQL generator. Your only job is to write SQL queries - no text, no explanation, no markdown. You will be given a database schema and a natural language question. Your response must contain only one valid SQL query ending with a semicolon. The query must use only tables and columns present in the given schema. Do NOT include ` + "```sql or ```" + ` anywhere.`

// generateSQL builds the generation prompt, invokes the gateway once, and
// sanitizes and validates the output. On any failure the returned state
// carries an error result and an empty query; the retry decision after the
// execution stage picks it up.
func (a *Agent) generateSQL(ctx context.Context, st State) State {
	prompt := fmt.Sprintf("%s\n\nDatabase Schema:\n%s\n\nUser Question:\n%s\n", generateInstruction, st.Schema, st.Question)

	if isErrorResult(st.Result) {
		prompt += fmt.Sprintf("\nThe previous query failed with this error: %s\nPlease correct and output only SQL.", st.Result)
	}

	raw, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Error during SQL generation: %v", err)
		st.SQL = ""
		st.Result = fmt.Sprintf("Error during SQL generation: %v", err)
		return st
	}

	sql := SanitizeSQL(raw)
	if err := ValidateSQL(sql); err != nil {
		log.Printf("Invalid SQL detected (%v) - stopping execution.", err)
		st.SQL = ""
		st.Result = "Error: Invalid SQL generated."
		return st
	}

	st.SQL = sql
	return st
}

// executeSQL submits the current query to the store. The same shape check as
// generation runs again first; a query that slipped through empty or
// malformed short-circuits without touching the store.
func (a *Agent) executeSQL(ctx context.Context, st State) State {
	if st.SQL == "" {
		st.Result = "Error: No valid SQL to execute."
		return st
	}

	query := SanitizeSQL(st.SQL)
	if err := ValidateSQL(query); err != nil {
		st.Result = "Error: Invalid SQL, stopping execution."
		return st
	}

	res, err := a.exec.Execute(ctx, query)
	if err != nil {
		log.Printf("SQL execution error: %v", err)
		st.Result = fmt.Sprintf("Error: %v", err)
		return st
	}

	log.Printf("Query executed successfully. Rows returned: %d", res.RowCount)
	st.Result = res.String()
	return st
}

// decide is the loop's only branching point, a pure function of the result
// and retry count, evaluated after every execution attempt. A failed attempt
// increments the retry count in the returned state; once the budget is
// reached the loop moves to synthesis regardless of error state, so a
// regenerated query is always required before any re-execution.
func decide(st State) (State, step) {
	if !isErrorResult(st.Result) {
		return st, stepSynthesize
	}
	st.Retries++
	if st.Retries >= RetryBudget {
		log.Printf("Max retries (%d) reached. Stopping.", st.Retries)
		return st, stepSynthesize
	}

	log.Printf("SQL error detected (retry %d/%d). Retrying SQL generation...", st.Retries, RetryBudget)
	return st, stepGenerate
}

// synthesizeAnswer turns the result - which may itself be an error string,
// intentionally - into a concise natural-language answer. This stage is
// terminal: the user always gets a readable message, never a raw failure.
func (a *Agent) synthesizeAnswer(ctx context.Context, st State) State {
	prompt := fmt.Sprintf(`You are a data analyst. The user asked a question and the database returned this data.

User Question:
%s

Database Result:
%s

Write a clear, concise answer summarizing the result.
- If data is empty or contains an error, explain that politely.
- Do not add information not in the data.`, st.Question, st.Result)

	answer, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Error synthesizing answer: %v", err)
		st.Answer = fmt.Sprintf("Error synthesizing answer: %v", err)
		return st
	}

	st.Answer = strings.TrimSpace(answer)
	if st.Answer == "" {
		st.Answer = "I'm sorry, I couldn't generate an answer. Please try again."
	}
	return st
}

// BackendUnreachable reports whether an answer is the synthesis-failure
// message produced when the model backend dropped the connection rather than
// model output. UIs substitute a hint about the local Ollama server for it.
func BackendUnreachable(answer string) bool {
	return strings.HasPrefix(answer, "Error synthesizing answer:") &&
		strings.Contains(answer, "connection refused")
}
