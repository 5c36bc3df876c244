// Package engagement renders charts over a collection's engagement counters
// (downloads, favorites, clicks) for the platform's gamified analytics
// widgets.
package engagement

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-collection/components/collection"
)

const defaultChartHeight = "360px"

var sharedCache = NewCache(5 * time.Minute)

// ChartOptions customizes rendering.
type ChartOptions struct {
	// Type is one of "bar", "line", "pie". Defaults to "bar".
	Type     string
	Title    string
	Subtitle string
	Theme    string
	Cache    RenderCache
}

// RenderCounters renders the engagement counters of the given records as
// chart HTML. Bar and line charts plot downloads/favorites/clicks per record;
// pie charts plot the download share per record.
func RenderCounters(records []collection.Record, options ChartOptions) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("engagement: at least one record is required")
	}
	chartType := strings.ToLower(options.Type)
	if chartType == "" {
		chartType = "bar"
	}
	cache := options.Cache
	if cache == nil {
		cache = sharedCache
	}
	variant := chartType
	if options.Theme != "" {
		variant += ":" + options.Theme
	}
	return cache.GetOrRender(variant, records, func() (string, error) {
		return render(chartType, records, options)
	})
}

func render(chartType string, records []collection.Record, options ChartOptions) (string, error) {
	switch chartType {
	case "bar":
		return renderBar(records, options)
	case "line":
		return renderLine(records, options)
	case "pie":
		return renderPie(records, options)
	default:
		return "", fmt.Errorf("engagement: unsupported chart type: %s", chartType)
	}
}

func renderBar(records []collection.Record, options ChartOptions) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(options)...)
	bar.SetXAxis(titles(records))
	for _, col := range counterColumns(records) {
		data := make([]opts.BarData, len(col.values))
		for i, v := range col.values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(col.name, data)
	}
	return renderChart(bar)
}

func renderLine(records []collection.Record, options ChartOptions) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(options)...)
	line.SetXAxis(titles(records))
	for _, col := range counterColumns(records) {
		data := make([]opts.LineData, len(col.values))
		for i, v := range col.values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(col.name, data)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func renderPie(records []collection.Record, options ChartOptions) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOptions(options)...)
	data := make([]opts.PieData, len(records))
	for i, rec := range records {
		data[i] = opts.PieData{Name: rec.Title(), Value: rec.Counters.Downloads}
	}
	pie.AddSeries("downloads", data)
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func globalOptions(options ChartOptions) []charts.GlobalOpts {
	theme := options.Theme
	if theme == "" {
		theme = types.ThemeWesteros
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: options.Title, Subtitle: options.Subtitle}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  theme,
			Width:  "100%",
			Height: defaultChartHeight,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func titles(records []collection.Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Title()
	}
	return out
}

type counterColumn struct {
	name   string
	values []int
}

func counterColumns(records []collection.Record) []counterColumn {
	downloads := make([]int, len(records))
	favorites := make([]int, len(records))
	clicks := make([]int, len(records))
	for i, rec := range records {
		downloads[i] = rec.Counters.Downloads
		favorites[i] = rec.Counters.Favorites
		clicks[i] = rec.Counters.Clicks
	}
	return []counterColumn{
		{name: "downloads", values: downloads},
		{name: "favorites", values: favorites},
		{name: "clicks", values: clicks},
	}
}
