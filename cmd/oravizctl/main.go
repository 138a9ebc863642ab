// Command oravizctl generates chart specifications from row data files
// without a running server. It drives the same compiler the MCP tools use.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oraviz-inc/oraviz-engine/pkg/models"
	"github.com/oraviz-inc/oraviz-engine/pkg/viz"
)

var (
	chartType  string
	framework  string
	dataFile   string
	outputFile string
	title      string
	xField     string
	yField     string
	colorField string
	sizeField  string
	fields     string
	fixedSize  bool
	width      int
	height     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oravizctl",
		Short: "Generate declarative chart specifications from row data",
		Long:  "Compiles row data into Vega-Lite or Plotly chart specifications, including correlation matrices and financial dashboards",
	}

	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Generate a single chart specification",
		Run:   runChart,
	}
	chartCmd.Flags().StringVar(&chartType, "type", "bar", "chart type (bar/line/scatter/area/pie/heatmap/histogram/boxplot/treemap/sunburst)")
	chartCmd.Flags().StringVar(&xField, "x", "", "x channel column")
	chartCmd.Flags().StringVar(&yField, "y", "", "y channel column")
	chartCmd.Flags().StringVar(&colorField, "color", "", "color channel column")
	chartCmd.Flags().StringVar(&sizeField, "size", "", "size channel column")

	correlateCmd := &cobra.Command{
		Use:   "correlate",
		Short: "Render a Pearson correlation matrix as a heatmap",
		Run:   runCorrelate,
	}
	correlateCmd.Flags().StringVar(&fields, "fields", "", "comma-separated field names (default: all columns of the first row)")

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Generate a financial dashboard from named datasets",
		Long:  "The data file must hold an object mapping dataset names (loans, branches, risk) to row arrays",
		Run:   runDashboard,
	}

	for _, cmd := range []*cobra.Command{chartCmd, correlateCmd, dashboardCmd} {
		cmd.Flags().StringVar(&dataFile, "data", "", "path to a JSON data file")
		cmd.Flags().StringVar(&framework, "framework", models.FrameworkVegaLite, "target grammar (vega-lite/plotly)")
		cmd.Flags().StringVar(&outputFile, "output", "", "write the spec to a file instead of stdout")
		cmd.Flags().StringVar(&title, "title", "", "chart or dashboard title")
		cmd.Flags().BoolVar(&fixedSize, "fixed-size", false, "emit fixed dimensions instead of a responsive layout")
		cmd.Flags().IntVar(&width, "width", 800, "chart width when --fixed-size is set")
		cmd.Flags().IntVar(&height, "height", 600, "chart height when --fixed-size is set")
		cmd.MarkFlagRequired("data")
		rootCmd.AddCommand(cmd)
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newCompiler() *viz.Compiler {
	return viz.NewCompiler(viz.Options{
		Responsive: !fixedSize,
		Width:      width,
		Height:     height,
	}, nil)
}

func readRows(path string) []map[string]any {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read data file: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Fatalf("data file must hold a JSON array of row objects: %v", err)
	}
	return rows
}

func writeSpec(spec any) {
	out, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal spec: %v", err)
	}
	if outputFile == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(outputFile, out, 0644); err != nil {
		log.Fatalf("failed to write %s: %v", outputFile, err)
	}
	fmt.Printf("wrote %s\n", outputFile)
}

func runChart(cmd *cobra.Command, args []string) {
	kind, err := models.ParseChartKind(chartType)
	if err != nil {
		log.Fatal(err)
	}

	rows := readRows(dataFile)
	compiler := newCompiler()

	enc := models.Encoding{}
	for channel, field := range map[string]string{
		"x": xField, "y": yField, "color": colorField, "size": sizeField,
	} {
		if field != "" {
			enc[channel] = field
		}
	}
	if len(enc) == 0 {
		enc = compiler.AutoEncoding(rows)
	}

	spec, err := compiler.Generate(framework, kind, rows, enc, models.ChartConfig{Title: title})
	if err != nil {
		log.Fatalf("chart generation failed: %v", err)
	}
	writeSpec(spec)
}

func runCorrelate(cmd *cobra.Command, args []string) {
	rows := readRows(dataFile)
	compiler := newCompiler()

	var fieldList []string
	if fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fieldList = append(fieldList, f)
			}
		}
	}
	if len(fieldList) == 0 && len(rows) > 0 {
		for name := range rows[0] {
			fieldList = append(fieldList, name)
		}
	}
	if len(fieldList) == 0 {
		log.Fatal("no fields to correlate")
	}

	spec, err := compiler.CorrelationSpec(framework, rows, fieldList, models.ChartConfig{})
	if err != nil {
		log.Fatalf("correlation failed: %v", err)
	}
	writeSpec(spec)
}

func runDashboard(cmd *cobra.Command, args []string) {
	raw, err := os.ReadFile(dataFile)
	if err != nil {
		log.Fatalf("failed to read data file: %v", err)
	}
	var datasets map[string][]map[string]any
	if err := json.Unmarshal(raw, &datasets); err != nil {
		log.Fatalf("data file must hold an object of row arrays: %v", err)
	}

	spec, err := newCompiler().FinancialDashboard(datasets, models.ChartConfig{Title: title})
	if err != nil {
		log.Fatalf("dashboard generation failed: %v", err)
	}
	writeSpec(spec)
}
