package viz

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// Options controls the rendered layout of every generated specification.
type Options struct {
	Responsive bool
	Width      int
	Height     int
}

// DefaultOptions returns a fixed-size layout suitable for embedding.
func DefaultOptions() Options {
	return Options{Responsive: true, Width: defaultWidth, Height: defaultHeight}
}

// Compiler turns row data plus a declarative encoding into framework-native
// chart specifications. All generator methods return the spec as a plain map
// ready for JSON serialization, or an error; they never embed the failure
// inside the spec itself.
type Compiler struct {
	opts   Options
	logger *zap.Logger
}

func NewCompiler(opts Options, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	return &Compiler{opts: opts, logger: logger.Named("viz")}
}

// Generate dispatches to the grammar named by framework. The returned
// ChartSpecification wraps the raw spec with identity and provenance fields.
func (c *Compiler) Generate(framework string, kind models.ChartKind, data []map[string]any, enc models.Encoding, cfg models.ChartConfig) (*models.ChartSpecification, error) {
	var (
		spec map[string]any
		err  error
	)
	switch framework {
	case models.FrameworkVegaLite:
		spec, err = c.VegaLiteSpec(kind, data, enc, cfg)
	case models.FrameworkPlotly:
		spec, err = c.PlotlySpec(kind, data, enc, cfg)
	default:
		return nil, fmt.Errorf("unsupported framework %q", framework)
	}
	if err != nil {
		return nil, err
	}

	result := models.NewChartSpecification(framework, kind, spec, len(data))
	c.logger.Debug("generated chart specification",
		zap.String("framework", framework),
		zap.String("chart_type", kind.String()),
		zap.Int("rows", len(data)))
	return &result, nil
}

// ErrorSpec wraps a generation failure in a renderable placeholder for
// transport layers that must always return a spec body. Internal callers
// should branch on the error instead.
func ErrorSpec(err error, framework string) map[string]any {
	return map[string]any{
		"error":     err.Error(),
		"framework": framework,
		"data":      map[string]any{"values": []map[string]any{}},
	}
}

// fieldType infers the semantic type of a field from the first row that
// carries a value for it. Empty datasets and all-null fields fall back to
// nominal so downstream grammars always receive a valid type.
func fieldType(data []map[string]any, field string) models.SemanticType {
	for _, row := range data {
		raw, ok := row[field]
		if !ok || raw == nil {
			continue
		}
		v := models.ValueOf(raw)
		switch v.Kind {
		case models.KindNumber:
			return models.SemanticQuantitative
		case models.KindTime:
			return models.SemanticTemporal
		case models.KindString:
			if models.LooksTemporal(v.Str) {
				return models.SemanticTemporal
			}
			return models.SemanticNominal
		default:
			return models.SemanticNominal
		}
	}
	return models.SemanticNominal
}

// extractColumn pulls one field out of every row, preserving row order and
// nulls so parallel columns stay aligned.
func extractColumn(data []map[string]any, field string) []any {
	out := make([]any, 0, len(data))
	for _, row := range data {
		out = append(out, row[field])
	}
	return out
}

// axisTitle derives a human label from an encoding override or the raw
// column name.
func axisTitle(enc models.Encoding, titleKey, field string) string {
	if t := enc[titleKey]; t != "" {
		return t
	}
	return prettyFieldName(field)
}

func prettyFieldName(field string) string {
	out := make([]rune, 0, len(field))
	for _, r := range field {
		if r == '_' {
			out = append(out, ' ')
			continue
		}
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
