package agent

// State is the record threaded through one question's generate-execute-
// synthesize lifecycle. It is owned by a single in-flight question and
// passed by value between stages, so transitions are explicit in the
// returned copy rather than hidden mutations.
type State struct {
	Question string // immutable input, set at loop entry
	Schema   string // read-only schema description shared across iterations
	SQL      string // current sanitized query, empty if none generated yet
	Result   string // serialized rows, or an error string starting with "Error"
	Answer   string // empty until synthesis runs
	Retries  int    // monotonically non-decreasing within one lifecycle
}

// NewState initializes the loop state for a question.
func NewState(question, schema string) State {
	return State{Question: question, Schema: schema}
}
