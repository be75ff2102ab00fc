package ui

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"afmdash/domain/curves"
	"afmdash/domain/feed"
)

var familyAxes = map[curves.Family][3]string{
	curves.FamilyForceDisplacement: {"Force vs Z", "Z (nm)", "Force (nN)"},
	curves.FamilyForceIndentation:  {"Force vs Indentation", "Indentation (nm)", "Force (nN)"},
	curves.FamilyElasticity:        {"Elasticity Spectra", "Indentation (nm)", "E (Pa)"},
}

func (s *Server) handleCharts(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := renderCharts(c.Writer, s.deps.Session.View()); err != nil {
		s.logger.Error("[HTTP] render charts: %v", err)
	}
}

// renderCharts draws one line chart per family using the running domains as
// axis bounds
func renderCharts(w io.Writer, v feed.View) error {
	page := components.NewPage()
	page.PageTitle = "AFM force curves"
	page.SetLayout(components.PageFlexLayout)
	for _, family := range curves.Families {
		page.AddCharts(familyChart(family, v))
	}
	return page.Render(w)
}

func familyChart(family curves.Family, v feed.View) *charts.Line {
	axes := familyAxes[family]
	domain := v.Datasets.Domain(family)
	list := v.Datasets.CurvesOf(family)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "900px",
			Height: "480px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    axes[0],
			Subtitle: fmt.Sprintf("%d curves, view v%d", len(list), v.Version),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: axes[1], Type: "value", Min: bound(domain.XMin), Max: bound(domain.XMax)}),
		charts.WithYAxisOpts(opts.YAxis{Name: axes[2], Type: "value", Min: bound(domain.YMin), Max: bound(domain.YMax)}),
	)

	for _, curve := range list {
		if !curve.Renderable() {
			continue
		}
		points := make([]opts.LineData, len(curve.X))
		for i := range curve.X {
			points[i] = opts.LineData{Value: []interface{}{curve.X[i], curve.Y[i]}}
		}
		line.AddSeries(curve.CurveID, points, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	return line
}

func bound(b *float64) interface{} {
	if b == nil {
		return nil
	}
	return *b
}
