package viz

import (
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

// hierarchicalSpec renders treemap and sunburst charts. Both take a label
// channel (x or color) and a value channel (y or size); parents default to
// a single implicit root.
func (c *Compiler) hierarchicalSpec(kind models.ChartKind, data []map[string]any, enc models.Encoding, cfg models.ChartConfig) (map[string]any, error) {
	labelField := enc["x"]
	if labelField == "" {
		labelField = enc["color"]
	}
	valueField := enc["y"]
	if valueField == "" {
		valueField = enc["size"]
	}

	parents := make([]any, len(data))
	for i := range parents {
		parents[i] = ""
	}

	trace := map[string]any{
		"type":    kind.String(),
		"labels":  extractColumn(data, labelField),
		"values":  extractColumn(data, valueField),
		"parents": parents,
	}

	title := cfg.Title
	if title == "" {
		if kind == models.ChartSunburst {
			title = "Sunburst"
		} else {
			title = "Treemap"
		}
	}

	layout := map[string]any{
		"title": map[string]any{"text": title},
	}
	if c.opts.Responsive {
		layout["autosize"] = true
	} else {
		layout["width"] = c.opts.Width
		layout["height"] = c.opts.Height
	}

	return map[string]any{
		"data":   []map[string]any{trace},
		"layout": layout,
		"config": map[string]any{
			"responsive":     c.opts.Responsive,
			"displayModeBar": true,
		},
	}, nil
}
