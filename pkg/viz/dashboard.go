package viz

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/apperrors"
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

// dashboardPanel fixes which datasets a financial dashboard recognizes and
// how each is charted. Key order is significant: charts are emitted in this
// order no matter how the input map iterates.
type dashboardPanel struct {
	key   string
	kind  models.ChartKind
	enc   models.Encoding
	title string
}

var financialPanels = []dashboardPanel{
	{
		key:   "loans",
		kind:  models.ChartBar,
		enc:   models.Encoding{"x": "loan_type", "y": "amount", "color": "status"},
		title: "Loan Performance by Type",
	},
	{
		key:   "branches",
		kind:  models.ChartScatter,
		enc:   models.Encoding{"x": "total_deposits", "y": "total_loans", "size": "customer_count"},
		title: "Branch Performance Analysis",
	},
	{
		key:   "risk",
		kind:  models.ChartArea,
		enc:   models.Encoding{"x": "date", "y": "risk_score", "color": "risk_category"},
		title: "Risk Assessment Over Time",
	},
}

// FinancialDashboard emits one chart per recognized dataset key present in
// datasets, skipping absent keys and keys with no rows. Unrecognized keys are
// ignored.
func (c *Compiler) FinancialDashboard(datasets map[string][]map[string]any, cfg models.ChartConfig) (map[string]any, error) {
	charts := make([]map[string]any, 0, len(financialPanels))
	for _, panel := range financialPanels {
		rows, ok := datasets[panel.key]
		if !ok {
			continue
		}
		if len(rows) == 0 {
			c.logger.Debug("skipping empty dashboard panel", zap.String("panel", panel.key))
			continue
		}
		spec, err := c.PlotlySpec(panel.kind, rows, panel.enc, models.ChartConfig{Title: panel.title})
		if err != nil {
			return nil, fmt.Errorf("dashboard panel %s: %w", panel.key, err)
		}
		charts = append(charts, map[string]any{
			"name": panel.key,
			"spec": spec,
		})
	}

	title := cfg.Title
	if title == "" {
		title = "Financial Dashboard"
	}
	return map[string]any{
		"title":  title,
		"layout": "grid",
		"charts": charts,
	}, nil
}

// TimeSeriesSpec renders a line chart over a time field, optionally split
// into one series per group value.
func (c *Compiler) TimeSeriesSpec(framework string, data []map[string]any, timeField, valueField, groupField string, cfg models.ChartConfig) (map[string]any, error) {
	enc := models.Encoding{"x": timeField, "y": valueField}
	if groupField != "" {
		enc["color"] = groupField
	}
	if framework == models.FrameworkVegaLite {
		return c.VegaLiteSpec(models.ChartLine, data, enc, cfg)
	}
	return c.PlotlySpec(models.ChartLine, data, enc, cfg)
}

// Financial metric presets. The set is closed; anything else is an error.
var metricPresets = map[string]struct {
	kind models.ChartKind
	enc  models.Encoding
}{
	"roi": {
		kind: models.ChartBar,
		enc:  models.Encoding{"x": "investment_period", "y": "roi_percentage", "color": "investment_type"},
	},
	"risk_return": {
		kind: models.ChartScatter,
		enc:  models.Encoding{"x": "risk_score", "y": "expected_return", "size": "investment_amount", "color": "asset_class"},
	},
	"portfolio_allocation": {
		kind: models.ChartPie,
		enc:  models.Encoding{"theta": "allocation_percentage", "color": "asset_class"},
	},
	"cash_flow": {
		kind: models.ChartArea,
		enc:  models.Encoding{"x": "date", "y": "cash_flow", "color": "flow_type"},
	},
}

// FinancialMetricSpec renders one of the preset financial metric charts.
func (c *Compiler) FinancialMetricSpec(metric string, data []map[string]any, cfg models.ChartConfig) (map[string]any, error) {
	preset, ok := metricPresets[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMetric, metric)
	}
	return c.PlotlySpec(preset.kind, data, preset.enc, cfg)
}

// Named analysis presets map a business question to a chart recipe. Recipes
// with a nil encoding fall back to automatic column selection.
var analysisPresets = map[string]struct {
	kind  models.ChartKind
	enc   models.Encoding
	title string
}{
	"loan_popularity": {
		kind:  models.ChartBar,
		enc:   models.Encoding{"x": "loan_type", "y": "application_count"},
		title: "Loan Product Popularity",
	},
	"branch_performance": {
		kind:  models.ChartScatter,
		enc:   models.Encoding{"x": "total_deposits", "y": "total_loans", "size": "customer_count"},
		title: "Branch Performance",
	},
	"customer_segmentation": {
		kind:  models.ChartScatter,
		title: "Customer Segmentation",
	},
	"interest_rate_impact": {
		kind:  models.ChartLine,
		enc:   models.Encoding{"x": "interest_rate", "y": "application_volume"},
		title: "Interest Rate Impact",
	},
	"risk_trends": {
		kind:  models.ChartArea,
		enc:   models.Encoding{"x": "date", "y": "risk_score", "color": "risk_category"},
		title: "Risk Trends",
	},
	"audit_compliance": {
		kind:  models.ChartHeatmap,
		enc:   models.Encoding{"x": "audit_area", "y": "quarter", "color": "compliance_score"},
		title: "Audit Compliance",
	},
	"payment_behavior": {
		kind:  models.ChartHistogram,
		enc:   models.Encoding{"x": "days_to_payment"},
		title: "Payment Behavior Distribution",
	},
}

// AnalysisSpec renders a named analysis preset.
func (c *Compiler) AnalysisSpec(analysis string, data []map[string]any, cfg models.ChartConfig) (map[string]any, error) {
	preset, ok := analysisPresets[analysis]
	if !ok {
		return nil, fmt.Errorf("unknown analysis %q", analysis)
	}
	enc := preset.enc
	if enc == nil {
		enc = c.AutoEncoding(data)
	}
	if cfg.Title == "" {
		cfg.Title = preset.title
	}
	return c.PlotlySpec(preset.kind, data, enc, cfg)
}
