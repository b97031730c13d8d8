package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/sominlee1211/simsopt/internal/analysis"
	"github.com/sominlee1211/simsopt/internal/tracing"
)

// SeriesPlot renders one state component of a trace as an asciigraph time
// series with a styled caption.
func SeriesPlot(samples []tracing.Sample, component int, caption string, width, height int) string {
	if len(samples) == 0 {
		return "no samples"
	}
	series := make([]float64, len(samples))
	for i, s := range samples {
		if component >= len(s.Y) {
			return fmt.Sprintf("state has no component %d", component)
		}
		series[i] = s.Y[component]
	}

	graph := asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
	return frameStyle.Render(graph)
}

// SectionPlot renders a Poincaré section as a Braille scatter plot with
// axis labels.
func SectionPlot(pts []analysis.SectionPoint, xLabel, yLabel string, width, height int) string {
	if len(pts) == 0 {
		return "no section points"
	}
	minX, maxX, minY, maxY := analysis.SectionBounds(pts, 0.05)
	proj := Project{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}

	canvas := NewCanvas(width, height)
	for _, p := range pts {
		canvas.Plot(proj, p.X, p.Y)
	}

	var b strings.Builder
	b.WriteString(frameStyle.Render(canvas.String()))
	b.WriteRune('\n')
	b.WriteString(labelStyle.Render(xLabel) +
		valueStyle.Render(fmt.Sprintf("[%.4g, %.4g]", minX, maxX)))
	b.WriteRune('\n')
	b.WriteString(labelStyle.Render(yLabel) +
		valueStyle.Render(fmt.Sprintf("[%.4g, %.4g]", minY, maxY)))
	b.WriteRune('\n')
	b.WriteString(labelStyle.Render("punctures") + valueStyle.Render(fmt.Sprintf("%d", len(pts))))
	return b.String()
}
