package viz

import (
	"fmt"

	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

// Per-grammar mark/trace mapping tables. Hierarchical kinds take a dedicated
// builder path and deliberately have no entry here; validateKindTables checks
// at package init that every other kind is covered by both grammars.

var vegaLiteMarks = map[models.ChartKind]string{
	models.ChartBar:       "bar",
	models.ChartLine:      "line",
	models.ChartScatter:   "point",
	models.ChartArea:      "area",
	models.ChartPie:       "arc",
	models.ChartHeatmap:   "rect",
	models.ChartHistogram: "bar",
	models.ChartBoxplot:   "boxplot",
}

var plotlyTraceTypes = map[models.ChartKind]string{
	models.ChartBar:       "bar",
	models.ChartLine:      "scatter",
	models.ChartScatter:   "scatter",
	models.ChartArea:      "scatter",
	models.ChartPie:       "pie",
	models.ChartHeatmap:   "heatmap",
	models.ChartHistogram: "histogram",
	models.ChartBoxplot:   "box",
}

func init() {
	if err := validateKindTables(); err != nil {
		panic(err)
	}
}

func validateKindTables() error {
	kinds := []models.ChartKind{
		models.ChartBar, models.ChartLine, models.ChartScatter,
		models.ChartArea, models.ChartPie, models.ChartHeatmap,
		models.ChartHistogram, models.ChartBoxplot,
		models.ChartTreemap, models.ChartSunburst,
	}

	for _, kind := range kinds {
		if kind.Hierarchical() {
			continue
		}
		if _, ok := vegaLiteMarks[kind]; !ok {
			return fmt.Errorf("chart kind %s has no vega-lite mark", kind)
		}
		if _, ok := plotlyTraceTypes[kind]; !ok {
			return fmt.Errorf("chart kind %s has no plotly trace type", kind)
		}
	}
	return nil
}
