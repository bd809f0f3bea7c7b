package report

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"spccli/internal/analysis"
	"spccli/internal/dataset"
	apperrors "spccli/internal/errors"
)

var (
	centerlineColor = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	limitColor      = color.RGBA{R: 200, G: 0, B: 0, A: 255}
	seriesColor     = color.RGBA{R: 30, G: 80, B: 180, A: 255}
)

// ChartRenderer draws the defect-rate control chart
type ChartRenderer struct {
	logger *slog.Logger
}

// NewChartRenderer creates a chart renderer
func NewChartRenderer(logger *slog.Logger) *ChartRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartRenderer{logger: logger}
}

// RenderControlChart saves a PNG control chart of the defect rate in record
// order, with the centerline and both control limits as reference lines and
// out-of-control points marked separately.
func (c *ChartRenderer) RenderControlChart(path string, ds *dataset.Dataset, limits analysis.ControlLimits) error {
	included := ds.Included()
	if len(included) == 0 {
		return apperrors.NewRenderError("no data points to chart", nil)
	}

	pts := make(plotter.XYs, 0, len(included))
	labels := make([]string, 0, len(included))
	outliers := make(plotter.XYs, 0)
	for i, r := range included {
		rate, _ := r.DefectRate()
		pts = append(pts, plotter.XY{X: float64(i), Y: rate})
		labels = append(labels, r.Label())
		if limits.Outside(rate) {
			outliers = append(outliers, plotter.XY{X: float64(i), Y: rate})
		}
	}

	p := plot.New()
	p.Title.Text = "Control Chart: Defect Rate Over Time"
	p.X.Label.Text = "Date (Shift)"
	p.Y.Label.Text = "Defect Rate"
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return apperrors.NewRenderError("failed to build rate series", err)
	}
	line.Color = seriesColor
	points.Color = seriesColor
	points.Radius = vg.Points(2)
	p.Add(line, points)
	p.Legend.Add("Defect Rate", line)

	span := float64(len(included) - 1)
	for _, ref := range []struct {
		name  string
		value float64
		color color.Color
	}{
		{"CL", limits.Centerline, centerlineColor},
		{"UCL", limits.UCL, limitColor},
		{"LCL", limits.LCL, limitColor},
	} {
		refLine, err := referenceLine(ref.value, span, ref.color)
		if err != nil {
			return apperrors.NewRenderError(fmt.Sprintf("failed to build %s line", ref.name), err)
		}
		p.Add(refLine)
		p.Legend.Add(ref.name, refLine)
	}

	if len(outliers) > 0 {
		scatter, err := plotter.NewScatter(outliers)
		if err != nil {
			return apperrors.NewRenderError("failed to build outlier markers", err)
		}
		scatter.GlyphStyle.Color = limitColor
		scatter.GlyphStyle.Radius = vg.Points(4)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add("Out of control", scatter)
	}

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Legend.Top = true

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewRenderError("failed to create chart directory", err)
	}
	if err := p.Save(13*vg.Inch, 6*vg.Inch, path); err != nil {
		return apperrors.NewRenderError(fmt.Sprintf("failed to save chart to %s", path), err)
	}

	c.logger.Info("control chart written",
		slog.String("path", path),
		slog.Int("points", len(pts)),
		slog.Int("out_of_control", len(outliers)))

	return nil
}

// referenceLine builds a dashed horizontal line across the chart
func referenceLine(value, span float64, clr color.Color) (*plotter.Line, error) {
	if span <= 0 {
		span = 1
	}
	line, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: value},
		{X: span, Y: value},
	})
	if err != nil {
		return nil, err
	}
	line.Color = clr
	line.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	return line, nil
}
