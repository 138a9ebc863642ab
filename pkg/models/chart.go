package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChartKind is the closed set of chart types the spec compiler understands.
// Parsing an unknown name is a checked error, not a silent default.
type ChartKind int

const (
	ChartBar ChartKind = iota
	ChartLine
	ChartScatter
	ChartArea
	ChartPie
	ChartHeatmap
	ChartHistogram
	ChartBoxplot
	ChartTreemap
	ChartSunburst
)

var chartKindNames = map[string]ChartKind{
	"bar":       ChartBar,
	"line":      ChartLine,
	"scatter":   ChartScatter,
	"area":      ChartArea,
	"pie":       ChartPie,
	"heatmap":   ChartHeatmap,
	"rect":      ChartHeatmap,
	"histogram": ChartHistogram,
	"boxplot":   ChartBoxplot,
	"box":       ChartBoxplot,
	"treemap":   ChartTreemap,
	"sunburst":  ChartSunburst,
}

var chartKindStrings = map[ChartKind]string{
	ChartBar:       "bar",
	ChartLine:      "line",
	ChartScatter:   "scatter",
	ChartArea:      "area",
	ChartPie:       "pie",
	ChartHeatmap:   "heatmap",
	ChartHistogram: "histogram",
	ChartBoxplot:   "boxplot",
	ChartTreemap:   "treemap",
	ChartSunburst:  "sunburst",
}

// ParseChartKind resolves a chart type name (case handling is the caller's
// job; names here are lowercase).
func ParseChartKind(name string) (ChartKind, error) {
	kind, ok := chartKindNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown chart type %q", name)
	}
	return kind, nil
}

// String returns the canonical name of the kind.
func (k ChartKind) String() string {
	return chartKindStrings[k]
}

// Hierarchical reports whether the kind uses a label/value hierarchy
// rather than positional encoding channels.
func (k ChartKind) Hierarchical() bool {
	return k == ChartTreemap || k == ChartSunburst
}

// SemanticType classifies a data field for axis and scale selection.
type SemanticType string

const (
	SemanticQuantitative SemanticType = "quantitative"
	SemanticNominal      SemanticType = "nominal"
	SemanticTemporal     SemanticType = "temporal"
)

// Framework names for the two supported grammars.
const (
	FrameworkVegaLite = "vega-lite"
	FrameworkPlotly   = "plotly"
)

// Encoding maps channel names (x, y, color, size, theta) to field names.
// The optional xTitle/yTitle keys carry axis titles.
type Encoding map[string]string

// ChartConfig carries per-request presentation options.
type ChartConfig struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// ChartSpecification wraps a generated grammar-specific specification with
// identifying metadata. Built fresh per request, never cached by identity.
type ChartSpecification struct {
	ID            uuid.UUID      `json:"id"`
	Framework     string         `json:"framework"`
	ChartType     string         `json:"chart_type"`
	Specification map[string]any `json:"specification"`
	DataURL       string         `json:"data_url,omitempty"`
	RowCount      int            `json:"row_count"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// NewChartSpecification tags a raw specification payload.
func NewChartSpecification(framework string, kind ChartKind, spec map[string]any, rowCount int) ChartSpecification {
	return ChartSpecification{
		ID:            uuid.New(),
		Framework:     framework,
		ChartType:     kind.String(),
		Specification: spec,
		RowCount:      rowCount,
		GeneratedAt:   time.Now().UTC(),
	}
}
