package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/apperrors"
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
	"github.com/oraviz-inc/oraviz-engine/pkg/viz"
)

// ChartToolDeps contains dependencies for chart generation tools.
type ChartToolDeps struct {
	Compiler *viz.Compiler
	Logger   *zap.Logger
}

// RegisterChartTools registers chart and dashboard generation MCP tools.
func RegisterChartTools(s *server.MCPServer, deps *ChartToolDeps) {
	registerGenerateChartTool(s, deps)
	registerGenerateDashboardTool(s, deps)
	registerCorrelationMatrixTool(s, deps)
	registerFinancialMetricTool(s, deps)
	registerAnalysisTool(s, deps)
}

func registerGenerateChartTool(s *server.MCPServer, deps *ChartToolDeps) {
	tool := mcp.NewTool(
		"generate_chart",
		mcp.WithDescription(
			"Generate a declarative chart specification from row data. "+
				"Supported chart types: bar, line, scatter, area, pie, heatmap, histogram, boxplot, treemap, sunburst. "+
				"When encoding is omitted, x/y/color columns are selected automatically from the data. "+
				"Example: generate_chart(chart_type='bar', framework='vega-lite', data=[{...}], encoding={x:'loan_type', y:'amount'}).",
		),
		mcp.WithString(
			"chart_type",
			mcp.Required(),
			mcp.Description("Chart type name (bar, line, scatter, area, pie, heatmap, histogram, boxplot, treemap, sunburst)"),
		),
		mcp.WithString(
			"framework",
			mcp.Description("Target grammar: 'vega-lite' (default) or 'plotly'"),
		),
		mcp.WithArray(
			"data",
			mcp.Required(),
			mcp.Description("Row data as an array of objects"),
		),
		mcp.WithObject(
			"encoding",
			mcp.Description("Channel-to-column mapping (x, y, color, size, theta, xTitle, yTitle)"),
		),
		mcp.WithString(
			"title",
			mcp.Description("Chart title"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		chartType, err := req.RequireString("chart_type")
		if err != nil {
			return nil, err
		}
		kind, err := models.ParseChartKind(trimString(chartType))
		if err != nil {
			return NewErrorResult("unknown_chart_type", err.Error()), nil
		}

		framework := trimString(getOptionalString(req, "framework"))
		if framework == "" {
			framework = models.FrameworkVegaLite
		}

		rows, err := getRows(req, "data")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		enc := models.Encoding(stringMap(getOptionalObject(req, "encoding")))
		if len(enc) == 0 {
			enc = deps.Compiler.AutoEncoding(rows)
		}

		cfg := models.ChartConfig{Title: getOptionalString(req, "title")}
		spec, err := deps.Compiler.Generate(framework, kind, rows, enc, cfg)
		if err != nil {
			if errors.Is(err, apperrors.ErrEmptyData) || errors.Is(err, apperrors.ErrNoEncoding) {
				return NewErrorResultWithDetails("chart_generation_failed", err.Error(), viz.ErrorSpec(err, framework)), nil
			}
			return nil, fmt.Errorf("failed to generate chart: %w", err)
		}

		deps.Logger.Info("chart generated",
			zap.String("chart_type", kind.String()),
			zap.String("framework", framework),
			zap.Int("rows", spec.RowCount))
		return newJSONResult(spec)
	})
}

func registerGenerateDashboardTool(s *server.MCPServer, deps *ChartToolDeps) {
	tool := mcp.NewTool(
		"generate_dashboard",
		mcp.WithDescription(
			"Generate a multi-chart financial dashboard from named datasets. "+
				"Recognized dataset keys: 'loans', 'branches', 'risk'. One chart is emitted "+
				"per key present, in that fixed order; other keys are ignored.",
		),
		mcp.WithObject(
			"datasets",
			mcp.Required(),
			mcp.Description("Map from dataset name to an array of row objects"),
		),
		mcp.WithString(
			"title",
			mcp.Description("Dashboard title"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		obj := getOptionalObject(req, "datasets")
		if obj == nil {
			return NewErrorResult("invalid_parameters", "parameter 'datasets' must be an object of row arrays"), nil
		}

		datasets := make(map[string][]map[string]any, len(obj))
		for name, raw := range obj {
			rawRows, ok := raw.([]any)
			if !ok {
				return NewErrorResult("invalid_parameters",
					fmt.Sprintf("dataset %q must be an array of row objects", name)), nil
			}
			rows := make([]map[string]any, 0, len(rawRows))
			for _, r := range rawRows {
				if row, ok := r.(map[string]any); ok {
					rows = append(rows, row)
				}
			}
			datasets[name] = rows
		}

		cfg := models.ChartConfig{Title: getOptionalString(req, "title")}
		dash, err := deps.Compiler.FinancialDashboard(datasets, cfg)
		if err != nil {
			return NewErrorResult("dashboard_generation_failed", err.Error()), nil
		}
		return newJSONResult(dash)
	})
}

func registerCorrelationMatrixTool(s *server.MCPServer, deps *ChartToolDeps) {
	tool := mcp.NewTool(
		"correlation_matrix",
		mcp.WithDescription(
			"Compute a Pearson correlation matrix over the named fields and render it "+
				"as a heatmap specification. Non-numeric and null values are dropped per field; "+
				"degenerate pairs report correlation 0.0.",
		),
		mcp.WithArray(
			"data",
			mcp.Required(),
			mcp.Description("Row data as an array of objects"),
		),
		mcp.WithArray(
			"fields",
			mcp.Required(),
			mcp.Description("Ordered list of field names to correlate"),
		),
		mcp.WithString(
			"framework",
			mcp.Description("Target grammar: 'vega-lite' (default) or 'plotly'"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rows, err := getRows(req, "data")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		args, _ := req.Params.Arguments.(map[string]any)
		rawFields, ok := args["fields"].([]any)
		if !ok || len(rawFields) == 0 {
			return NewErrorResult("invalid_parameters", "parameter 'fields' must be a non-empty array of field names"), nil
		}
		fields := make([]string, 0, len(rawFields))
		for _, f := range rawFields {
			name, ok := f.(string)
			if !ok {
				return NewErrorResult("invalid_parameters", "parameter 'fields' entries must be strings"), nil
			}
			fields = append(fields, name)
		}

		framework := trimString(getOptionalString(req, "framework"))
		if framework == "" {
			framework = models.FrameworkVegaLite
		}

		spec, err := deps.Compiler.CorrelationSpec(framework, rows, fields, models.ChartConfig{})
		if err != nil {
			return NewErrorResultWithDetails("correlation_failed", err.Error(), viz.ErrorSpec(err, framework)), nil
		}
		return newJSONResult(spec)
	})
}

func registerFinancialMetricTool(s *server.MCPServer, deps *ChartToolDeps) {
	tool := mcp.NewTool(
		"financial_metric_chart",
		mcp.WithDescription(
			"Render a preset financial metric chart. "+
				"Supported metrics: roi, risk_return, portfolio_allocation, cash_flow.",
		),
		mcp.WithString(
			"metric",
			mcp.Required(),
			mcp.Description("Metric preset name"),
		),
		mcp.WithArray(
			"data",
			mcp.Required(),
			mcp.Description("Row data as an array of objects"),
		),
		mcp.WithString(
			"title",
			mcp.Description("Chart title"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metric, err := req.RequireString("metric")
		if err != nil {
			return nil, err
		}
		rows, err := getRows(req, "data")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		cfg := models.ChartConfig{Title: getOptionalString(req, "title")}
		spec, err := deps.Compiler.FinancialMetricSpec(trimString(metric), rows, cfg)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnsupportedMetric) {
				return NewErrorResult("unknown_metric", err.Error()), nil
			}
			return NewErrorResult("metric_chart_failed", err.Error()), nil
		}
		return newJSONResult(spec)
	})
}

func registerAnalysisTool(s *server.MCPServer, deps *ChartToolDeps) {
	tool := mcp.NewTool(
		"analysis_chart",
		mcp.WithDescription(
			"Render a named business analysis chart. Supported analyses: loan_popularity, "+
				"branch_performance, customer_segmentation, interest_rate_impact, risk_trends, "+
				"audit_compliance, payment_behavior.",
		),
		mcp.WithString(
			"analysis",
			mcp.Required(),
			mcp.Description("Analysis preset name"),
		),
		mcp.WithArray(
			"data",
			mcp.Required(),
			mcp.Description("Row data as an array of objects"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		analysis, err := req.RequireString("analysis")
		if err != nil {
			return nil, err
		}
		rows, err := getRows(req, "data")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		spec, err := deps.Compiler.AnalysisSpec(trimString(analysis), rows, models.ChartConfig{})
		if err != nil {
			return NewErrorResult("analysis_chart_failed", err.Error()), nil
		}
		return newJSONResult(spec)
	})
}
