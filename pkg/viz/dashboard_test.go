package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraviz-inc/oraviz-engine/pkg/apperrors"
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

func TestFinancialDashboardFixedOrder(t *testing.T) {
	c := testCompiler()

	datasets := map[string][]map[string]any{
		// Deliberately no "branches" entry.
		"risk": {
			{"date": "2024-01-01", "risk_score": 40.0, "risk_category": "LOW"},
		},
		"loans": {
			{"loan_type": "AUTO", "amount": 30000.0, "status": "ACTIVE"},
		},
		"ignored": {
			{"x": 1.0},
		},
	}

	dash, err := c.FinancialDashboard(datasets, models.ChartConfig{})
	require.NoError(t, err)

	charts := dash["charts"].([]map[string]any)
	require.Len(t, charts, 2)
	assert.Equal(t, "loans", charts[0]["name"])
	assert.Equal(t, "risk", charts[1]["name"])
	assert.Equal(t, "grid", dash["layout"])
	assert.Equal(t, "Financial Dashboard", dash["title"])

	loanSpec := charts[0]["spec"].(map[string]any)
	trace := loanSpec["data"].([]map[string]any)[0]
	assert.Equal(t, "bar", trace["type"])
	layout := loanSpec["layout"].(map[string]any)
	assert.Equal(t, "Loan Performance by Type", layout["title"].(map[string]any)["text"])
}

func TestFinancialDashboardAllPanels(t *testing.T) {
	c := testCompiler()

	datasets := map[string][]map[string]any{
		"loans":    {{"loan_type": "AUTO", "amount": 1.0, "status": "ACTIVE"}},
		"branches": {{"total_deposits": 5.0, "total_loans": 3.0, "customer_count": 100.0}},
		"risk":     {{"date": "2024-01-01", "risk_score": 10.0, "risk_category": "LOW"}},
	}
	dash, err := c.FinancialDashboard(datasets, models.ChartConfig{Title: "Q1 Review"})
	require.NoError(t, err)

	charts := dash["charts"].([]map[string]any)
	require.Len(t, charts, 3)
	assert.Equal(t, "branches", charts[1]["name"])
	assert.Equal(t, "Q1 Review", dash["title"])
}

func TestFinancialDashboardSkipsEmptyPanel(t *testing.T) {
	c := testCompiler()

	datasets := map[string][]map[string]any{
		"loans": {},
		"risk":  {{"date": "2024-01-01", "risk_score": 40.0, "risk_category": "LOW"}},
	}
	dash, err := c.FinancialDashboard(datasets, models.ChartConfig{})
	require.NoError(t, err)

	charts := dash["charts"].([]map[string]any)
	require.Len(t, charts, 1)
	assert.Equal(t, "risk", charts[0]["name"])
}

func TestTimeSeriesSpec(t *testing.T) {
	c := testCompiler()

	rows := []map[string]any{
		{"date": "2024-01-01", "balance": 100.0, "branch": "NORTH"},
		{"date": "2024-02-01", "balance": 120.0, "branch": "NORTH"},
	}
	spec, err := c.TimeSeriesSpec("vega-lite", rows, "date", "balance", "branch", models.ChartConfig{})
	require.NoError(t, err)

	assert.Equal(t, "line", spec["mark"].(map[string]any)["type"])
	encoding := spec["encoding"].(map[string]any)
	assert.Equal(t, models.SemanticTemporal, encoding["x"].(map[string]any)["type"])
	assert.Equal(t, "branch", encoding["color"].(map[string]any)["field"])

	plotly, err := c.TimeSeriesSpec("plotly", rows, "date", "balance", "", models.ChartConfig{})
	require.NoError(t, err)
	trace := plotly["data"].([]map[string]any)[0]
	assert.Equal(t, "scatter", trace["type"])
	assert.Equal(t, "lines+markers", trace["mode"])
}

func TestFinancialMetricSpec(t *testing.T) {
	c := testCompiler()

	rows := []map[string]any{
		{"allocation_percentage": 70.0, "asset_class": "EQUITY"},
		{"allocation_percentage": 30.0, "asset_class": "BONDS"},
	}
	spec, err := c.FinancialMetricSpec("portfolio_allocation", rows, models.ChartConfig{})
	require.NoError(t, err)
	trace := spec["data"].([]map[string]any)[0]
	assert.Equal(t, "pie", trace["type"])
	assert.Equal(t, []any{70.0, 30.0}, trace["values"])

	_, err = c.FinancialMetricSpec("sharpe_ratio", rows, models.ChartConfig{})
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedMetric)
}

func TestAnalysisSpecPresets(t *testing.T) {
	c := testCompiler()

	rows := []map[string]any{
		{"loan_type": "AUTO", "application_count": 12.0},
	}
	spec, err := c.AnalysisSpec("loan_popularity", rows, models.ChartConfig{})
	require.NoError(t, err)
	layout := spec["layout"].(map[string]any)
	assert.Equal(t, "Loan Product Popularity", layout["title"].(map[string]any)["text"])

	_, err = c.AnalysisSpec("nonsense", rows, models.ChartConfig{})
	assert.Error(t, err)
}

func TestAnalysisSpecAutoColumns(t *testing.T) {
	c := testCompiler()

	rows := []map[string]any{
		{"credit_score": 700.0, "annual_income": 85000.0, "segment": "RETAIL"},
	}
	spec, err := c.AnalysisSpec("customer_segmentation", rows, models.ChartConfig{})
	require.NoError(t, err)

	layout := spec["layout"].(map[string]any)
	xaxis := layout["xaxis"].(map[string]any)
	assert.Equal(t, "CREDIT SCORE", xaxis["title"].(map[string]any)["text"])
}
