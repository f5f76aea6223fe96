package chart

import (
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/sensor"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// MaliciousMark is appended to the tick label of a malicious sensor.
const MaliciousMark = "*"

// BarSpec describes a grouped bar chart over some counters of a count table.
type BarSpec struct {
	Title    string
	XLabel   string
	YLabel   string
	Counters []string
	Legends  []string // Defaults to the counter names.
	Width    vg.Length
	Height   vg.Length
}

func (s BarSpec) size() (vg.Length, vg.Length) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = 15 * vg.Inch
	}
	if h <= 0 {
		h = 8 * vg.Inch
	}
	return w, h
}

// BarChart renders one bar group per sensor, one bar per counter, with the count above
// each bar. Sensors in malicious get a marked tick label and a legend note.
func BarChart(t *model.SensorCountTable, spec BarSpec, malicious map[sensor.ID]bool, path string) error {
	if t.Len() == 0 {
		return fmt.Errorf("no sensors to plot")
	}
	if len(spec.Counters) == 0 {
		return fmt.Errorf("bar chart '%s' has no counters", spec.Title)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	if p.X.Label.Text == "" {
		p.X.Label.Text = "Sensors"
	}
	p.Y.Label.Text = spec.YLabel
	p.Legend.Top = true

	sensors := t.Sensors()
	names := make([]string, len(sensors))
	marked := false
	for i, id := range sensors {
		names[i] = string(id)
		if malicious[id] {
			names[i] += MaliciousMark
			marked = true
		}
	}

	width, height := spec.size()
	n := len(spec.Counters)
	barWidth := width * 0.8 / vg.Length(len(sensors)*n)
	if barWidth > 20 {
		barWidth = 20
	}

	for i, counter := range spec.Counters {
		column := t.Column(counter)
		if column == nil {
			return fmt.Errorf("counter '%s' not in table", counter)
		}
		values := make(plotter.Values, len(column))
		xys := make(plotter.XYs, len(column))
		labels := make([]string, len(column))
		for j, v := range column {
			values[j] = float64(v)
			xys[j] = plotter.XY{X: float64(j), Y: float64(v)}
			labels[j] = strconv.Itoa(v)
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("failed to build bars for '%s': %w", counter, err)
		}
		offset := vg.Length(float64(i)-float64(n-1)/2) * barWidth
		bars.Offset = offset
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		p.Add(bars)

		legend := counter
		if i < len(spec.Legends) && spec.Legends[i] != "" {
			legend = spec.Legends[i]
		}
		p.Legend.Add(legend, bars)

		counts, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return fmt.Errorf("failed to build labels for '%s': %w", counter, err)
		}
		for j := range counts.TextStyle {
			counts.TextStyle[j].XAlign = text.XCenter
			counts.TextStyle[j].Font.Size = vg.Points(7)
		}
		counts.Offset = vg.Point{X: offset, Y: vg.Points(2)}
		p.Add(counts)
	}

	if marked {
		p.Legend.Add(MaliciousMark + " malicious sensor")
	}

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.Y.Min = 0
	// Headroom for the count labels.
	p.Y.Max *= 1.1
	if p.Y.Max <= 0 {
		p.Y.Max = 1
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return nil
}
