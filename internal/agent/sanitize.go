package agent

import (
	"fmt"
	"strings"
)

// minSQLLength is the shortest generated text accepted as a query.
const minSQLLength = 10

// sqlVerbs are the statement prefixes the loop will hand to the store.
// Mutating verbs are deliberately included; see the README security note.
var sqlVerbs = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE"}

// SanitizeSQL strips the artifacts models wrap around generated SQL:
// surrounding whitespace, markdown code fences, stray comment-close tokens
// and a leading "SQL:" label. Idempotent, so execution can safely re-strip.
func SanitizeSQL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.ReplaceAll(s, "*/", "")
	// Removing fences can expose the label, so trim before stripping it.
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "SQL:")
	return strings.TrimSpace(s)
}

// ValidateSQL rejects anything that is not plausibly a single SQL statement:
// too short, or not starting (case-insensitively) with an allowed verb. Only
// strings that pass may reach the query store.
func ValidateSQL(sql string) error {
	if sql == "" {
		return fmt.Errorf("empty query")
	}
	if len(sql) < minSQLLength {
		return fmt.Errorf("query too short (%d chars)", len(sql))
	}

	upper := strings.ToUpper(sql)
	for _, verb := range sqlVerbs {
		if strings.HasPrefix(upper, verb) {
			return nil
		}
	}
	return fmt.Errorf("query does not start with an allowed SQL verb")
}

// isErrorResult reports whether a stage stored a failure rather than row
// data. Every failure string produced in this package starts with "Error".
func isErrorResult(result string) bool {
	return strings.HasPrefix(result, "Error")
}
