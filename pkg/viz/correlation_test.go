package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

func matrixCell(t *testing.T, cells []map[string]any, f1, f2 string) float64 {
	t.Helper()
	for _, cell := range cells {
		if cell["field1"] == f1 && cell["field2"] == f2 {
			return cell["correlation"].(float64)
		}
	}
	t.Fatalf("no cell for %s/%s", f1, f2)
	return 0
}

func TestCorrelationMatrix(t *testing.T) {
	c := testCompiler()

	data := []map[string]any{
		{"a": 1.0, "b": 1.0, "flat": 5.0},
		{"a": 2.0, "b": 2.0, "flat": 5.0},
		{"a": 3.0, "b": 3.0, "flat": 5.0},
	}
	cells := c.CorrelationMatrix(data, []string{"a", "b", "flat"})
	require.Len(t, cells, 9)

	assert.InDelta(t, 1.0, matrixCell(t, cells, "a", "a"), 1e-9)
	assert.InDelta(t, 1.0, matrixCell(t, cells, "a", "b"), 1e-9)

	// Zero variance degrades to 0.0, self-pair included.
	assert.Equal(t, 0.0, matrixCell(t, cells, "flat", "flat"))
	assert.Equal(t, 0.0, matrixCell(t, cells, "a", "flat"))
}

func TestCorrelationInverse(t *testing.T) {
	c := testCompiler()

	data := []map[string]any{
		{"up": 1.0, "down": 3.0},
		{"up": 2.0, "down": 2.0},
		{"up": 3.0, "down": 1.0},
	}
	cells := c.CorrelationMatrix(data, []string{"up", "down"})
	assert.InDelta(t, -1.0, matrixCell(t, cells, "up", "down"), 1e-9)
}

func TestCorrelationDropsUnconvertibleValues(t *testing.T) {
	c := testCompiler()

	// "a" keeps 3 values, "b" keeps 2 after dropping the null; the length
	// mismatch makes the pair degenerate.
	data := []map[string]any{
		{"a": 1.0, "b": 1.0},
		{"a": 2.0, "b": nil},
		{"a": 3.0, "b": 3.0},
	}
	cells := c.CorrelationMatrix(data, []string{"a", "b"})
	assert.Equal(t, 0.0, matrixCell(t, cells, "a", "b"))
	assert.InDelta(t, 1.0, matrixCell(t, cells, "a", "a"), 1e-9)
}

func TestCorrelationNumericStringsConvert(t *testing.T) {
	c := testCompiler()

	data := []map[string]any{
		{"a": "1", "b": 10.0},
		{"a": "2", "b": 20.0},
	}
	cells := c.CorrelationMatrix(data, []string{"a", "b"})
	assert.InDelta(t, 1.0, matrixCell(t, cells, "a", "b"), 1e-9)
}

func TestCorrelationSpecRendersHeatmap(t *testing.T) {
	c := testCompiler()

	data := []map[string]any{
		{"a": 1.0, "b": 2.0},
		{"a": 2.0, "b": 4.0},
	}
	spec, err := c.CorrelationSpec("plotly", data, []string{"a", "b"}, models.ChartConfig{})
	require.NoError(t, err)
	trace := spec["data"].([]map[string]any)[0]
	assert.Equal(t, "heatmap", trace["type"])
	assert.Equal(t, []any{"a", "b"}, trace["x"])
	assert.Equal(t, []any{"a", "b"}, trace["y"])
	assert.Equal(t, [][]float64{{1.0, 1.0}, {1.0, 1.0}}, trace["z"])

	layout := spec["layout"].(map[string]any)
	assert.Equal(t, "Correlation Matrix", layout["title"].(map[string]any)["text"])

	vl, err := c.CorrelationSpec("vega-lite", data, []string{"a", "b"}, models.ChartConfig{})
	require.NoError(t, err)
	assert.Equal(t, "rect", vl["mark"].(map[string]any)["type"])
}
