package chart

import (
	"WSNSpectra/internal/metrics"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	// CorrectColor fills the diagonal cells.
	CorrectColor = color.RGBA{R: 0x9e, G: 0xca, B: 0xe1, A: 0xff}
	// ErrorColor fills the off-diagonal cells.
	ErrorColor = color.RGBA{R: 0xa1, G: 0xd9, B: 0x9b, A: 0xff}
)

// matrixCells is a plotter drawing an annotated square matrix, row 0 at the top.
type matrixCells struct {
	counts [][]int
	text   text.Style
}

func (m *matrixCells) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	n := len(m.counts)
	border := draw.LineStyle{Color: color.Black, Width: vg.Points(1)}

	for r := 0; r < n; r++ {
		y := float64(n - 1 - r)
		for col := 0; col < n; col++ {
			x := float64(col)
			x0, x1 := trX(x-0.5), trX(x+0.5)
			y0, y1 := trY(y-0.5), trY(y+0.5)
			cell := []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}

			fill := ErrorColor
			if r == col {
				fill = CorrectColor
			}
			c.FillPolygon(fill, cell)
			c.StrokeLines(border, append(cell, cell[0]))
			c.FillText(m.text, vg.Point{X: (x0 + x1) / 2, Y: (y0 + y1) / 2}, strconv.Itoa(m.counts[r][col]))
		}
	}
}

func (m *matrixCells) DataRange() (xmin, xmax, ymin, ymax float64) {
	n := float64(len(m.counts))
	return -0.5, n - 0.5, -0.5, n - 0.5
}

// ConfusionMatrix renders the matrix with its counts, and the given text lines below it.
func ConfusionMatrix(cm *metrics.Confusion, lines []string, title, path string) error {
	n := len(cm.Labels)
	if n == 0 {
		return fmt.Errorf("empty confusion matrix")
	}

	cellFont := plot.DefaultFont
	cellFont.Size = vg.Points(24)

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(20)
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Actual"
	p.Add(&matrixCells{
		counts: cm.Counts,
		text: text.Style{
			Color:   color.Black,
			Font:    cellFont,
			Handler: plot.DefaultTextHandler,
			XAlign:  text.XCenter,
			YAlign:  text.YCenter,
		},
	})

	rows := make([]string, n)
	for i, l := range cm.Labels {
		rows[n-1-i] = l
	}
	p.NominalX(cm.Labels...)
	p.NominalY(rows...)

	textFont := plot.DefaultFont
	textFont.Size = vg.Points(14)
	lineHeight := textFont.Size * 1.5
	textArea := lineHeight * vg.Length(len(lines)+1)

	width, height := 12*vg.Inch, 8*vg.Inch+textArea
	img := vgimg.New(width, height)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, 0, textArea, 0))

	style := text.Style{
		Color:   color.Black,
		Font:    textFont,
		Handler: plot.DefaultTextHandler,
		XAlign:  text.XCenter,
		YAlign:  text.YTop,
	}
	center := (dc.Min.X + dc.Max.X) / 2
	for i, line := range lines {
		if line == "" {
			continue
		}
		y := dc.Min.Y + textArea - vg.Length(i+1)*lineHeight
		dc.FillText(style, vg.Point{X: center, Y: y}, line)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
