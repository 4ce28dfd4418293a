package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Curve is one season series drawn against its own fixed scale.
type Curve struct {
	Name   string
	Values []float64
	Min    float64
	Max    float64
	// Format renders axis labels and the header figures. Defaults to "%.1f".
	Format string
	Color  lipgloss.Color
}

const (
	defaultChartHeight = 10
	minChartWidth      = 10
	minPanelRows       = 2
	axisLabelWidth     = 5
	axisTick           = " ┤"
	fallbackTermWidth  = 80
)

// brailleDots[row][col] is the dot bit inside a 2x4 braille cell.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// ChartWidthFor returns how many braille columns fit next to the value axis
// in totalWidth terminal cells.
func ChartWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minChartWidth
	}
	return max(minChartWidth, totalWidth-axisLabelWidth-runewidth.StringWidth(axisTick))
}

// RenderChart stacks one panel per curve under title. A zero width fits the
// terminal; height is shared between the panels.
func RenderChart(w io.Writer, title string, curves []Curve, width, height int, useColor bool) error {
	drawn := make([]Curve, 0, len(curves))
	for _, c := range curves {
		if len(c.Values) > 0 {
			drawn = append(drawn, c)
		}
	}
	if len(drawn) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	if width <= 0 {
		width = ChartWidthFor(terminalWidth())
	}
	width = max(width, minChartWidth)
	rows := max(minPanelRows, height/len(drawn))

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for _, c := range drawn {
		b.WriteString(curveHeader(c))
		b.WriteByte('\n')
		grid := newCanvas(width, rows)
		grid.plot(c)
		style := lipgloss.NewStyle().Foreground(c.Color)
		for y, line := range grid.lines() {
			if useColor && c.Color != "" {
				line = style.Render(line)
			}
			fmt.Fprintf(&b, "%*s%s%s\n", axisLabelWidth, axisLabel(c, y, rows), axisTick, line)
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func (c Curve) format(v float64) string {
	f := c.Format
	if f == "" {
		f = "%.1f"
	}
	return fmt.Sprintf(f, v)
}

func curveHeader(c Curve) string {
	high, low := c.Values[0], c.Values[0]
	for _, v := range c.Values[1:] {
		high = math.Max(high, v)
		low = math.Min(low, v)
	}
	last := c.Values[len(c.Values)-1]
	return fmt.Sprintf("%s  last %s  high %s  low %s", c.Name, c.format(last), c.format(high), c.format(low))
}

// axisLabel labels the top, middle and bottom panel rows with scale values.
func axisLabel(c Curve, row, rows int) string {
	var label string
	switch {
	case row == 0:
		label = c.format(c.Max)
	case row == rows-1:
		label = c.format(c.Min)
	case rows > 2 && row == rows/2:
		label = c.format((c.Min + c.Max) / 2)
	}
	return runewidth.Truncate(label, axisLabelWidth, "")
}

// canvas is a grid of braille cells, each holding 2x4 dots.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, rows int) *canvas {
	cells := make([][]uint8, rows)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

func (c *canvas) dotsWide() int {
	return len(c.cells[0]) * 2
}

func (c *canvas) dotsHigh() int {
	return len(c.cells) * 4
}

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.dotsWide() || y >= c.dotsHigh() {
		return
	}
	c.cells[y/4][x/2] |= brailleDots[y%4][x%2]
}

// plot maps the curve onto the canvas and joins consecutive points so the
// line has no gaps, filling vertical steps within each dot column.
func (c *canvas) plot(curve Curve) {
	points := fitPoints(curve.Values, c.dotsWide())
	span := curve.Max - curve.Min
	if span <= 0 {
		span = 1
	}
	top := c.dotsHigh() - 1
	toY := func(v float64) int {
		pos := math.Max(0, math.Min(1, (v-curve.Min)/span))
		return int(math.Round((1 - pos) * float64(top)))
	}
	toX := func(i int) int {
		if len(points) == 1 {
			return 0
		}
		return i * (c.dotsWide() - 1) / (len(points) - 1)
	}

	prevX, prevY := toX(0), toY(points[0])
	c.set(prevX, prevY)
	for i := 1; i < len(points); i++ {
		x, y := toX(i), toY(points[i])
		lastY := prevY
		for col := prevX + 1; col <= x; col++ {
			colY := prevY + int(math.Round(float64((y-prevY)*(col-prevX))/float64(x-prevX)))
			c.fillColumn(col, lastY, colY)
			lastY = colY
		}
		prevX, prevY = x, y
	}
}

// fillColumn sets the dots in column x from just past y0 through y1.
func (c *canvas) fillColumn(x, y0, y1 int) {
	if y0 == y1 {
		c.set(x, y1)
		return
	}
	step := 1
	if y1 < y0 {
		step = -1
	}
	for y := y0 + step; y != y1+step; y += step {
		c.set(x, y)
	}
}

func (c *canvas) lines() []string {
	out := make([]string, len(c.cells))
	for i, row := range c.cells {
		var b strings.Builder
		for _, mask := range row {
			b.WriteRune(rune(0x2800 + int(mask)))
		}
		out[i] = b.String()
	}
	return out
}

// fitPoints averages values into at most n buckets, keeping play order.
func fitPoints(values []float64, n int) []float64 {
	if len(values) <= n {
		return append([]float64(nil), values...)
	}
	out := make([]float64, n)
	for i := range out {
		start := i * len(values) / n
		end := max(start+1, (i+1)*len(values)/n)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}
