package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/countdown/internal/surface"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells, each holding 2x4 dots and the colour
// of the last dot set in it. A cell may instead hold a plain glyph.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.NRGBA
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]color.NRGBA, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.NRGBA, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set lights the dot at sub-pixel (x, y). The canvas size in sub-pixels is
// (Width*2) x (Height*4). Glyph cells are left alone.
func (c *Canvas) Set(x, y int, col color.NRGBA) {
	row, cc, ok := c.cell(x, y)
	if !ok || !isBraille(c.Grid[row][cc]) {
		return
	}
	c.Grid[row][cc] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][cc] = col
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok || !isBraille(c.Grid[row][col]) {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	row, col, ok := c.cell(x, y)
	if !ok || !isBraille(c.Grid[row][col]) {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// PutText writes glyphs into cells starting at (row, col), clipping at the
// edges.
func (c *Canvas) PutText(row, col int, text string, clr color.NRGBA) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range text {
		if col >= c.Width {
			return
		}
		if col >= 0 {
			c.Grid[row][col] = r
			c.Colors[row][col] = clr
		}
		col++
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = surface.White
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col color.NRGBA) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillDisc sets every dot within r of (cx, cy); at least the centre dot.
func (c *Canvas) FillDisc(cx, cy, r int, col color.NRGBA) {
	if r <= 0 {
		c.Set(cx, cy, col)
		return
	}
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Set(cx+x, cy+y, col)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colours each run of same-coloured cells with lipgloss.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(surface.ToHex(c.Colors[i][start])))
			b.WriteString(style.Render(string(row[start:j])))
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func isBraille(r rune) bool { return r >= blank && r <= blank+0xff }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
