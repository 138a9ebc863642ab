package viz

import (
	"fmt"

	"github.com/oraviz-inc/oraviz-engine/pkg/apperrors"
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

const vegaLiteSchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// VegaLiteSpec builds a Vega-Lite v5 specification with the dataset inlined
// under data.values. Hierarchical kinds have no Vega-Lite rendering here and
// are rejected.
func (c *Compiler) VegaLiteSpec(kind models.ChartKind, data []map[string]any, enc models.Encoding, cfg models.ChartConfig) (map[string]any, error) {
	mark, ok := vegaLiteMarks[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no vega-lite mark", apperrors.ErrUnsupportedChart, kind)
	}

	if data == nil {
		data = []map[string]any{}
	}

	spec := map[string]any{
		"$schema": vegaLiteSchemaURL,
		"data":    map[string]any{"values": data},
		"mark":    map[string]any{"type": mark, "tooltip": true},
		"config": map[string]any{
			"view": map[string]any{"strokeWidth": 0},
		},
	}
	if cfg.Description != "" {
		spec["description"] = cfg.Description
	}
	if cfg.Title != "" {
		spec["title"] = cfg.Title
	}

	encoding := map[string]any{}
	if x := enc["x"]; x != "" {
		encoding["x"] = map[string]any{
			"field": x,
			"type":  fieldType(data, x),
			"title": axisTitle(enc, "xTitle", x),
		}
	}
	if y := enc["y"]; y != "" {
		encoding["y"] = map[string]any{
			"field": y,
			"type":  fieldType(data, y),
			"title": axisTitle(enc, "yTitle", y),
		}
	}
	if color := enc["color"]; color != "" {
		encoding["color"] = map[string]any{
			"field": color,
			"type":  fieldType(data, color),
		}
	}
	if size := enc["size"]; size != "" {
		// Size scales only make sense on a quantitative channel.
		encoding["size"] = map[string]any{
			"field": size,
			"type":  models.SemanticQuantitative,
		}
	}
	if theta := enc["theta"]; theta != "" {
		encoding["theta"] = map[string]any{
			"field": theta,
			"type":  models.SemanticQuantitative,
		}
	}
	spec["encoding"] = encoding

	if c.opts.Responsive {
		spec["autosize"] = map[string]any{"type": "fit", "contains": "padding"}
		spec["width"] = "container"
	} else {
		spec["width"] = c.opts.Width
		spec["height"] = c.opts.Height
	}

	return spec, nil
}
