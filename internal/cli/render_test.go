package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samarth-qa/internal/store"
)

func TestRenderResultTable(t *testing.T) {
	res := &store.Result{
		Columns:  []string{"District_Name", "Production_Tonnes"},
		Rows:     [][]string{{"LUDHIANA", "52000"}, {"AMRITSAR", "48100"}},
		RowCount: 2,
	}

	var buf strings.Builder
	require.NoError(t, renderResult(&buf, res, "table"))

	out := buf.String()
	assert.Contains(t, out, "District_Name")
	assert.Contains(t, out, "LUDHIANA")
	assert.Contains(t, out, "48100")
	assert.Contains(t, out, "(2 rows)")
}

func TestRenderResultCSV(t *testing.T) {
	res := &store.Result{
		Columns:  []string{"Year", "Annual_Rainfall_mm"},
		Rows:     [][]string{{"2010", "1050.5"}},
		RowCount: 1,
	}

	var buf strings.Builder
	require.NoError(t, renderResult(&buf, res, "csv"))

	out := buf.String()
	assert.Contains(t, out, "Year,Annual_Rainfall_mm")
	assert.Contains(t, out, "2010,1050.5")
}

func TestRenderResultEmpty(t *testing.T) {
	res := &store.Result{Columns: []string{"Year"}, RowCount: 0}

	var buf strings.Builder
	require.NoError(t, renderResult(&buf, res, "table"))
	assert.Equal(t, "(0 rows)\n", buf.String())
}
