package viz

import (
	"math"

	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

// CorrelationMatrix computes the full Cartesian product of Pearson
// coefficients over the given fields, self-pairs included. Field order in
// the output follows the input slice, so the matrix is deterministic.
func (c *Compiler) CorrelationMatrix(data []map[string]any, fields []string) []map[string]any {
	series := make(map[string][]float64, len(fields))
	for _, f := range fields {
		series[f] = numericSeries(data, f)
	}

	cells := make([]map[string]any, 0, len(fields)*len(fields))
	for _, f1 := range fields {
		for _, f2 := range fields {
			cells = append(cells, map[string]any{
				"field1":      f1,
				"field2":      f2,
				"correlation": pearson(series[f1], series[f2]),
			})
		}
	}
	return cells
}

// CorrelationSpec renders the matrix as a heatmap through the standard
// assembly path for the requested grammar.
func (c *Compiler) CorrelationSpec(framework string, data []map[string]any, fields []string, cfg models.ChartConfig) (map[string]any, error) {
	cells := c.CorrelationMatrix(data, fields)
	enc := models.Encoding{
		"x":     "field1",
		"y":     "field2",
		"color": "correlation",
	}
	if cfg.Title == "" {
		cfg.Title = "Correlation Matrix"
	}
	if framework == models.FrameworkPlotly {
		return c.PlotlySpec(models.ChartHeatmap, cells, enc, cfg)
	}
	return c.VegaLiteSpec(models.ChartHeatmap, cells, enc, cfg)
}

// numericSeries converts one field's values to floats, dropping nulls and
// anything that does not convert. Each field is filtered independently.
func numericSeries(data []map[string]any, field string) []float64 {
	out := make([]float64, 0, len(data))
	for _, row := range data {
		raw, ok := row[field]
		if !ok || raw == nil {
			continue
		}
		if f, ok := models.ValueOf(raw).Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// pearson returns the Pearson coefficient of two equal-length series.
// Mismatched lengths, empty input and zero variance all yield 0.0 so the
// matrix never contains NaN.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0.0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0.0
	}
	return cov / math.Sqrt(varX*varY)
}
