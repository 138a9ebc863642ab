package viz

import (
	"fmt"

	"github.com/oraviz-inc/oraviz-engine/pkg/apperrors"
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

// PlotlySpec builds a Plotly figure with data traces, layout and config
// sections. Unlike the Vega-Lite path, Plotly rendering requires both rows
// and an encoding; missing either is an error.
func (c *Compiler) PlotlySpec(kind models.ChartKind, data []map[string]any, enc models.Encoding, cfg models.ChartConfig) (map[string]any, error) {
	if len(data) == 0 {
		return nil, apperrors.ErrEmptyData
	}
	if len(enc) == 0 {
		return nil, apperrors.ErrNoEncoding
	}
	if kind.Hierarchical() {
		return c.hierarchicalSpec(kind, data, enc, cfg)
	}
	if kind == models.ChartHeatmap {
		return c.heatmapSpec(data, enc, cfg)
	}

	traceType, ok := plotlyTraceTypes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no plotly trace type", apperrors.ErrUnsupportedChart, kind)
	}

	trace := map[string]any{"type": traceType}

	switch kind {
	case models.ChartPie:
		labels := enc["color"]
		if labels == "" {
			labels = enc["x"]
		}
		values := enc["theta"]
		if values == "" {
			values = enc["y"]
		}
		trace["labels"] = extractColumn(data, labels)
		trace["values"] = extractColumn(data, values)
	case models.ChartHistogram:
		trace["x"] = extractColumn(data, enc["x"])
	default:
		if x := enc["x"]; x != "" {
			trace["x"] = extractColumn(data, x)
		}
		if y := enc["y"]; y != "" {
			trace["y"] = extractColumn(data, y)
		}
	}

	switch kind {
	case models.ChartLine:
		trace["mode"] = "lines+markers"
	case models.ChartScatter:
		trace["mode"] = "markers"
	case models.ChartArea:
		trace["mode"] = "lines"
		trace["fill"] = "tozeroy"
	}

	if marker := c.buildMarker(kind, data, enc); len(marker) > 0 {
		trace["marker"] = marker
	}

	spec := map[string]any{
		"data":   []map[string]any{trace},
		"layout": c.plotlyLayout(kind, data, enc, cfg),
		"config": map[string]any{
			"responsive":     c.opts.Responsive,
			"displayModeBar": true,
		},
	}
	return spec, nil
}

// heatmapSpec pivots rows into the z matrix Plotly heatmaps require. Cell
// values come from the color channel; cells with no row render as zero.
func (c *Compiler) heatmapSpec(data []map[string]any, enc models.Encoding, cfg models.ChartConfig) (map[string]any, error) {
	xField, yField := enc["x"], enc["y"]
	zField := enc["color"]
	if zField == "" {
		zField = "VALUE"
	}

	var xLabels, yLabels []any
	seenX := map[any]int{}
	seenY := map[any]int{}
	cells := map[[2]int]float64{}
	for _, row := range data {
		x, y := row[xField], row[yField]
		xi, ok := seenX[x]
		if !ok {
			xi = len(xLabels)
			seenX[x] = xi
			xLabels = append(xLabels, x)
		}
		yi, ok := seenY[y]
		if !ok {
			yi = len(yLabels)
			seenY[y] = yi
			yLabels = append(yLabels, y)
		}
		z, _ := models.ValueOf(row[zField]).Float()
		cells[[2]int{yi, xi}] = z
	}

	zValues := make([][]float64, len(yLabels))
	for yi := range yLabels {
		grid := make([]float64, len(xLabels))
		for xi := range xLabels {
			grid[xi] = cells[[2]int{yi, xi}]
		}
		zValues[yi] = grid
	}

	trace := map[string]any{
		"type":       "heatmap",
		"x":          xLabels,
		"y":          yLabels,
		"z":          zValues,
		"colorscale": "RdYlBu",
		"showscale":  true,
	}
	return map[string]any{
		"data":   []map[string]any{trace},
		"layout": c.plotlyLayout(models.ChartHeatmap, data, enc, cfg),
		"config": map[string]any{
			"responsive":     c.opts.Responsive,
			"displayModeBar": true,
		},
	}, nil
}

// buildMarker assembles marker styling from the color and size channels.
// Numeric color columns on scatter traces get a continuous colorscale.
func (c *Compiler) buildMarker(kind models.ChartKind, data []map[string]any, enc models.Encoding) map[string]any {
	marker := map[string]any{}

	if colorField := enc["color"]; colorField != "" && kind != models.ChartPie {
		colors := extractColumn(data, colorField)
		marker["color"] = colors
		if kind == models.ChartScatter && fieldType(data, colorField) == models.SemanticQuantitative {
			marker["colorscale"] = "Viridis"
			marker["showscale"] = true
			marker["colorbar"] = map[string]any{"title": prettyFieldName(colorField)}
		}
	}

	if sizeField := enc["size"]; sizeField != "" {
		marker["size"] = extractColumn(data, sizeField)
		marker["sizemode"] = "diameter"
		marker["sizeref"] = 2
		marker["sizemin"] = 4
	} else if kind == models.ChartScatter {
		marker["size"] = 8
		marker["opacity"] = 0.7
	}

	return marker
}

func (c *Compiler) plotlyLayout(kind models.ChartKind, data []map[string]any, enc models.Encoding, cfg models.ChartConfig) map[string]any {
	layout := map[string]any{}
	if cfg.Title != "" {
		layout["title"] = map[string]any{"text": cfg.Title}
	}

	if kind != models.ChartPie {
		if x := enc["x"]; x != "" {
			layout["xaxis"] = map[string]any{"title": map[string]any{"text": axisTitle(enc, "xTitle", x)}}
		}
		if y := enc["y"]; y != "" {
			layout["yaxis"] = map[string]any{"title": map[string]any{"text": axisTitle(enc, "yTitle", y)}}
		}
	}

	if c.opts.Responsive {
		layout["autosize"] = true
	} else {
		layout["width"] = c.opts.Width
		layout["height"] = c.opts.Height
	}
	return layout
}
