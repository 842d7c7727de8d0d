package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/prizes"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title    string
	Subtitle string
	Width    string // e.g. "900px"
	Height   string
	Theme    string
	Colors   []string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "420px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// DataPoint is a single labelled value.
type DataPoint struct {
	Label string
	Value float64
}

func (c ChartConfig) color(i int) string {
	if len(c.Colors) == 0 {
		return DefaultChartConfig().Colors[i%9]
	}
	return c.Colors[i%len(c.Colors)]
}

func (c ChartConfig) globalOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  c.Width,
			Height: c.Height,
			Theme:  c.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
	}
}

// NewBarChart builds a single-series bar chart.
func NewBarChart(seriesName string, data []DataPoint, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(config.globalOpts(config.Title, config.Subtitle)...)

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries(seriesName, yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: config.color(0)}),
		)
	return bar
}

// RenderBarChart writes a standalone bar chart page to w.
func RenderBarChart(w io.Writer, seriesName string, data []DataPoint, config ChartConfig) error {
	if err := NewBarChart(seriesName, data, config).Render(w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// RenderPrizeEconomy writes an HTML page with the overall efficiency gauge,
// trader efficiency and the trade ratio of each scenario.
func RenderPrizeEconomy(w io.Writer, report prizes.Report, config ChartConfig) error {
	page := components.NewPage()
	page.PageTitle = "Prize Economy"
	if config.Title != "" {
		page.PageTitle = config.Title
	}

	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(config.globalOpts("Prize Efficiency",
		fmt.Sprintf("%s approach, %.2f average prize value", report.Strategy.PrimaryApproach, report.AveragePrizeValue))...)
	gauge.AddSeries("efficiency", []opts.GaugeData{{Name: "score", Value: report.OverallEfficiency}})

	traders := make([]DataPoint, len(report.BestTraders))
	for i, tr := range report.BestTraders {
		traders[i] = DataPoint{Label: tr.Name, Value: round1(tr.Efficiency)}
	}
	traderCfg := config
	traderCfg.Title = "Best Prize Traders"
	traderCfg.Subtitle = "damage per prize given up"
	traderChart := NewBarChart("efficiency", traders, traderCfg)

	scenarios := make([]DataPoint, len(report.Scenarios))
	for i, sc := range report.Scenarios {
		scenarios[i] = DataPoint{
			Label: fmt.Sprintf("%s vs %s", sc.Attacker, sc.OpponentTarget),
			Value: round1(sc.TradeRatio),
		}
	}
	scenarioCfg := config
	scenarioCfg.Title = "Trade Scenarios"
	scenarioCfg.Subtitle = "opponent prizes taken per prize given up"
	scenarioCfg.Colors = []string{config.color(3)}
	scenarioChart := NewBarChart("trade ratio", scenarios, scenarioCfg)

	page.AddCharts(gauge, traderChart, scenarioChart)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render prize economy: %w", err)
	}
	return nil
}

// RenderPrizeEconomyFile renders the prize economy page to outputPath.
func RenderPrizeEconomyFile(outputPath string, report prizes.Report, config ChartConfig) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	return RenderPrizeEconomy(f, report, config)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
