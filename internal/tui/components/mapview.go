package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/benjamintian2005/AITripPlanner/internal/tui/styles"
)

// MapView renders submission positions and an optional country outline in Braille.
type MapView struct {
	width    int
	height   int
	points   []orb.Point
	rings    []orb.Ring
	selected int // -1 if none

	base      orb.Bound
	view      orb.Bound
	zoomLevel float64
	pan       orb.Point // offset in degrees, [lng, lat]
}

func NewMapView(width, height int) MapView {
	return MapView{
		width:     width,
		height:    height,
		selected:  -1,
		zoomLevel: 1.0,
	}
}

func (m *MapView) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetBorder outlines mp. Passing nil clears the outline.
func (m *MapView) SetBorder(mp orb.MultiPolygon) {
	m.rings = nil
	for _, poly := range mp {
		m.rings = append(m.rings, poly...)
	}
	m.fitBounds()
}

func (m *MapView) SetPoints(points []orb.Point) {
	m.points = points
	m.fitBounds()
}

// SetSelected highlights points[idx]; -1 clears the highlight.
func (m *MapView) SetSelected(idx int) {
	m.selected = idx
}

func (m *MapView) ZoomIn() {
	m.zoomLevel = math.Min(m.zoomLevel*1.5, 20)
	m.applyZoom()
}

func (m *MapView) ZoomOut() {
	m.zoomLevel = math.Max(m.zoomLevel/1.5, 0.5)
	m.applyZoom()
}

func (m *MapView) ZoomReset() {
	m.zoomLevel = 1.0
	m.pan = orb.Point{}
	m.applyZoom()
}

// Pan moves the viewport by a tenth of its size per step.
func (m *MapView) Pan(dLat, dLng float64) {
	m.pan[1] += dLat * (m.base.Top() - m.base.Bottom()) * 0.1 / m.zoomLevel
	m.pan[0] += dLng * (m.base.Right() - m.base.Left()) * 0.1 / m.zoomLevel
	m.applyZoom()
}

func (m *MapView) applyZoom() {
	c := m.base.Center()
	halfLng := (m.base.Right() - m.base.Left()) / 2 / m.zoomLevel
	halfLat := (m.base.Top() - m.base.Bottom()) / 2 / m.zoomLevel
	m.view = orb.Bound{
		Min: orb.Point{c[0] + m.pan[0] - halfLng, c[1] + m.pan[1] - halfLat},
		Max: orb.Point{c[0] + m.pan[0] + halfLng, c[1] + m.pan[1] + halfLat},
	}
}

// fitBounds frames the outline when there is one, otherwise the points.
func (m *MapView) fitBounds() {
	var b orb.Bound
	switch {
	case len(m.rings) > 0:
		b = m.rings[0].Bound()
		for _, r := range m.rings[1:] {
			b = b.Union(r.Bound())
		}
	case len(m.points) > 0:
		b = orb.MultiPoint(m.points).Bound()
	default:
		return
	}

	latPad := (b.Top() - b.Bottom()) * 0.05
	lngPad := (b.Right() - b.Left()) * 0.05
	if latPad == 0 {
		latPad = 0.5
	}
	if lngPad == 0 {
		lngPad = 0.5
	}
	m.base = orb.Bound{
		Min: orb.Point{b.Left() - lngPad, b.Bottom() - latPad},
		Max: orb.Point{b.Right() + lngPad, b.Top() + latPad},
	}
	m.applyZoom()
}

// Braille cells are 2x4 dots. Bit for dot (row, col):
//
//	0x01 0x08
//	0x02 0x10
//	0x04 0x20
//	0x40 0x80
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type dotGrid struct {
	w, h  int
	cells [][]bool
}

func newDotGrid(w, h int) dotGrid {
	cells := make([][]bool, h)
	for i := range cells {
		cells[i] = make([]bool, w)
	}
	return dotGrid{w: w, h: h, cells: cells}
}

func (g dotGrid) set(x, y int) {
	if x >= 0 && x < g.w && y >= 0 && y < g.h {
		g.cells[y][x] = true
	}
}

// cell returns the braille rune for character cell (row, col), 0 when empty.
func (g dotGrid) cell(row, col int) rune {
	var bits rune
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 2; dx++ {
			y, x := row*4+dy, col*2+dx
			if y < g.h && x < g.w && g.cells[y][x] {
				bits |= brailleBits[dy][dx]
			}
		}
	}
	return bits
}

func (m MapView) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	dotW, dotH := m.width*2, m.height*4
	lngRange := m.view.Right() - m.view.Left()
	latRange := m.view.Top() - m.view.Bottom()
	if latRange == 0 || lngRange == 0 {
		return strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", m.width)+"\n", m.height), "\n")
	}

	// A degree of longitude shrinks with cos(lat); braille dots are roughly square.
	cosLat := math.Cos(m.view.Center().Lat() * math.Pi / 180)
	geoAspect := lngRange * cosLat / latRange
	dotAspect := float64(dotW) / float64(dotH)

	effW, effH := dotW, dotH
	offX, offY := 0, 0
	if geoAspect < dotAspect {
		effW = max(int(float64(dotH)*geoAspect), 4)
		offX = (dotW - effW) / 2
	} else {
		effH = max(int(float64(dotW)/geoAspect), 4)
		offY = (dotH - effH) / 2
	}

	toDot := func(p orb.Point) (int, int) {
		x := offX + int((p.Lon()-m.view.Left())/lngRange*float64(effW-1))
		y := offY + int((m.view.Top()-p.Lat())/latRange*float64(effH-1))
		return x, y
	}

	border := newDotGrid(dotW, dotH)
	for _, ring := range m.rings {
		for i := 0; i+1 < len(ring); i++ {
			x0, y0 := toDot(ring[i])
			x1, y1 := toDot(ring[i+1])
			drawLine(border, x0, y0, x1, y1)
		}
	}

	pts := newDotGrid(dotW, dotH)
	sel := newDotGrid(dotW, dotH)
	for i, p := range m.points {
		x, y := toDot(p)
		if i == m.selected {
			// 2x2 block so the selection stands out.
			sel.set(x, y)
			sel.set(x+1, y)
			sel.set(x, y+1)
			sel.set(x+1, y+1)
			continue
		}
		pts.set(x, y)
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Secondary)
	pointStyle := lipgloss.NewStyle().Foreground(styles.Success)
	selStyle := lipgloss.NewStyle().Foreground(styles.Warning).Bold(true)

	var sb strings.Builder
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			switch {
			case sel.cell(row, col) != 0:
				sb.WriteString(selStyle.Render(string(0x2800 + sel.cell(row, col))))
			case pts.cell(row, col) != 0:
				sb.WriteString(pointStyle.Render(string(0x2800 + pts.cell(row, col))))
			case border.cell(row, col) != 0:
				sb.WriteString(borderStyle.Render(string(0x2800 + border.cell(row, col))))
			default:
				sb.WriteRune(' ')
			}
		}
		if row < m.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// drawLine plots a segment with Bresenham's algorithm.
func drawLine(g dotGrid, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for {
		g.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
