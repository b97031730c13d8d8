package viz

import "strings"

// Braille cells pack 2x4 dots, so a WxH canvas addresses (2W)x(4H) pixels.
var brailleDots = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	grid          []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([]rune, w*h)}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		c.grid[i] = 0x2800
	}
}

// Set turns on the pixel at (x, y) in pixel coordinates, with y growing
// downward. Out-of-range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row*c.Width+col] |= brailleDots[y%4][x%2]
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.grid[row*c.Width : (row+1)*c.Width]))
		b.WriteRune('\n')
	}
	return b.String()
}

// Project maps data coordinates into the pixel grid of the canvas. Data y
// grows upward, pixel y downward.
type Project struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

func (p Project) apply(c *Canvas, x, y float64) (int, int, bool) {
	rangeX := p.MaxX - p.MinX
	rangeY := p.MaxY - p.MinY
	if rangeX <= 0 || rangeY <= 0 {
		return 0, 0, false
	}
	px := int((x - p.MinX) / rangeX * float64(c.Width*2-1))
	py := int((p.MaxY - y) / rangeY * float64(c.Height*4-1))
	if px < 0 || py < 0 || px >= c.Width*2 || py >= c.Height*4 {
		return 0, 0, false
	}
	return px, py, true
}

// Plot sets the pixel nearest to the data point (x, y).
func (c *Canvas) Plot(p Project, x, y float64) {
	if px, py, ok := p.apply(c, x, y); ok {
		c.Set(px, py)
	}
}
