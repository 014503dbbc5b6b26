// Package plot renders decay analysis traces as PNG images: the raw
// squared impulse response and the Schroeder curve on a dB/time grid,
// with the noise floor and impulse level marked.
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype"
	"golang.org/x/image/font"

	"github.com/estebandragone/roomdecay/decay"
)

// Rendering errors.
var (
	ErrEmptyTrace = errors.New("plot: empty decay trace")
	ErrBadSize    = errors.New("plot: image size too small")
)

const (
	minWidth  = 160
	minHeight = 120

	marginLeft   = 70
	marginRight  = 25
	marginTop    = 30
	marginBottom = 45
)

var (
	colorBackground = color.RGBA{R: 16, G: 18, B: 22, A: 255}
	colorGrid       = color.RGBA{R: 44, G: 48, B: 56, A: 255}
	colorAxis       = color.RGBA{R: 90, G: 96, B: 108, A: 255}
	colorRaw        = color.RGBA{R: 95, G: 120, B: 160, A: 255}
	colorSmoothed   = color.RGBA{R: 255, G: 176, B: 46, A: 255}
	colorNoise      = color.RGBA{R: 220, G: 80, B: 80, A: 255}
	colorImpulse    = color.RGBA{R: 90, G: 200, B: 120, A: 255}
	colorText       = color.RGBA{R: 200, G: 205, B: 215, A: 255}
)

// Options configures decay curve rendering.
type Options struct {
	// Width and Height are the output image dimensions in pixels.
	// Zero selects the defaults.
	Width  int
	Height int

	// Face renders axis labels and markers when set. With a nil face
	// the plot is drawn without text.
	Face font.Face

	// Floor is the bottom of the dB axis. Zero selects the default;
	// the value must be negative.
	Floor float64

	// Title is drawn above the plot when a font face is set.
	Title string
}

// DefaultOptions returns the standard render configuration.
func DefaultOptions() Options {
	return Options{
		Width:  1024,
		Height: 640,
		Floor:  -100,
	}
}

// canvas maps trace coordinates onto the plot area of an image.
type canvas struct {
	img   *image.RGBA
	area  image.Rectangle
	tmax  float64
	floor float64
}

func (cv *canvas) x(t float64) int {
	frac := t / cv.tmax
	return cv.area.Min.X + int(math.Round(frac*float64(cv.area.Dx()-1)))
}

func (cv *canvas) y(db float64) int {
	if db > 0 {
		db = 0
	}

	if db < cv.floor {
		db = cv.floor
	}

	frac := db / cv.floor
	return cv.area.Min.Y + int(math.Round(frac*float64(cv.area.Dy()-1)))
}

// DecayCurve renders a decay trace captured by decay.Analyzer. The raw
// level appears muted behind the Schroeder curve; horizontal markers
// show the noise floor LN and the impulse level LIR when they fall
// inside the dB range.
func DecayCurve(tr *decay.Trace, opts Options) (*image.RGBA, error) {
	if tr == nil || len(tr.SmoothedDB) < 2 || len(tr.Time) != len(tr.SmoothedDB) {
		return nil, ErrEmptyTrace
	}

	def := DefaultOptions()
	if opts.Width == 0 {
		opts.Width = def.Width
	}

	if opts.Height == 0 {
		opts.Height = def.Height
	}

	if opts.Floor >= 0 {
		opts.Floor = def.Floor
	}

	if opts.Width < minWidth || opts.Height < minHeight {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, opts.Width, opts.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	fillBackground(img, colorBackground)

	cv := &canvas{
		img: img,
		area: image.Rect(
			marginLeft, marginTop,
			opts.Width-marginRight, opts.Height-marginBottom,
		),
		tmax:  tr.Time[len(tr.Time)-1],
		floor: opts.Floor,
	}

	if cv.tmax <= 0 {
		return nil, ErrEmptyTrace
	}

	drawGrid(cv, opts.Face)
	drawCurve(cv, tr.Time, tr.RawDB, colorRaw)
	drawCurve(cv, tr.Time, tr.SmoothedDB, colorSmoothed)
	drawLevelMarker(cv, tr.LN, "LN", colorNoise, opts.Face, true)
	drawLevelMarker(cv, tr.LIR, "LIR", colorImpulse, opts.Face, false)

	if opts.Face != nil && opts.Title != "" {
		drawTitle(cv, opts.Face, opts.Title)
	}

	return img, nil
}

// fillBackground writes one scanline pattern and copies it per row.
func fillBackground(img *image.RGBA, c color.RGBA) {
	width := img.Rect.Dx()

	row := make([]byte, width*4)
	for x := range width {
		row[x*4] = c.R
		row[x*4+1] = c.G
		row[x*4+2] = c.B
		row[x*4+3] = c.A
	}

	for y := range img.Rect.Dy() {
		offset := y * img.Stride
		copy(img.Pix[offset:offset+width*4], row)
	}
}

// drawGrid renders dB gridlines every 10 dB, time ticks and the plot
// frame. Labels appear only with a font face.
func drawGrid(cv *canvas, face font.Face) {
	for db := 0.0; db >= cv.floor; db -= 10 {
		y := cv.y(db)
		drawHLine(cv.img, cv.area.Min.X, cv.area.Max.X-1, y, colorGrid)

		if face != nil {
			label := fmt.Sprintf("%d", int(db))
			drawLabelRightAligned(cv.img, face, label, cv.area.Min.X-8, y+4, colorText)
		}
	}

	const timeTicks = 4
	for i := 0; i <= timeTicks; i++ {
		t := cv.tmax * float64(i) / timeTicks
		x := cv.x(t)
		drawVLine(cv.img, x, cv.area.Min.Y, cv.area.Max.Y-1, colorGrid)

		if face != nil {
			label := fmt.Sprintf("%.2fs", t)
			drawLabelCentered(cv.img, face, label, x, cv.area.Max.Y+16, colorText)
		}
	}

	// Plot frame on top of the gridlines.
	drawHLine(cv.img, cv.area.Min.X, cv.area.Max.X-1, cv.area.Min.Y, colorAxis)
	drawHLine(cv.img, cv.area.Min.X, cv.area.Max.X-1, cv.area.Max.Y-1, colorAxis)
	drawVLine(cv.img, cv.area.Min.X, cv.area.Min.Y, cv.area.Max.Y-1, colorAxis)
	drawVLine(cv.img, cv.area.Max.X-1, cv.area.Min.Y, cv.area.Max.Y-1, colorAxis)
}

// drawCurve renders a polyline through all finite points. Values below
// the floor clamp to the bottom edge; NaN breaks the line.
func drawCurve(cv *canvas, times, values []float64, c color.RGBA) {
	n := min(len(times), len(values))

	for i := 1; i < n; i++ {
		if math.IsNaN(values[i-1]) || math.IsNaN(values[i]) {
			continue
		}

		x0 := cv.x(times[i-1])
		y0 := cv.y(values[i-1])
		x1 := cv.x(times[i])
		y1 := cv.y(values[i])

		drawLine(cv.img, x0, y0, x1, y1, c)
	}
}

// drawLevelMarker draws a horizontal line at the given level. Levels
// above 0 dB clamp to the top edge; levels below the floor are not
// drawn.
func drawLevelMarker(cv *canvas, level float64, name string, c color.RGBA, face font.Face, dashed bool) {
	if math.IsNaN(level) || level < cv.floor {
		return
	}

	y := cv.y(level)

	if dashed {
		drawDashedHLine(cv.img, cv.area.Min.X, cv.area.Max.X-1, y, c)
	} else {
		drawHLine(cv.img, cv.area.Min.X, cv.area.Max.X-1, y, c)
	}

	if face != nil {
		drawLabel(cv.img, face, name, cv.area.Max.X+4, y+4, c)
	}
}

func drawTitle(cv *canvas, face font.Face, title string) {
	d := &font.Drawer{
		Dst:  cv.img,
		Src:  image.NewUniform(colorText),
		Face: face,
	}

	bounds, _ := d.BoundString(title)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()

	x := cv.area.Min.X + (cv.area.Dx()-textWidth)/2
	d.Dot = freetype.Pt(x, cv.area.Min.Y-10)
	d.DrawString(title)
}

func drawLabel(img *image.RGBA, face font.Face, text string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}

	d.Dot = freetype.Pt(x, y)
	d.DrawString(text)
}

func drawLabelRightAligned(img *image.RGBA, face font.Face, text string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}

	bounds, _ := d.BoundString(text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()

	d.Dot = freetype.Pt(x-textWidth, y)
	d.DrawString(text)
}

func drawLabelCentered(img *image.RGBA, face font.Face, text string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}

	bounds, _ := d.BoundString(text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()

	d.Dot = freetype.Pt(x-textWidth/2, y)
	d.DrawString(text)
}

func drawHLine(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func drawDashedHLine(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	const dash, gap = 6, 4
	for x := x0; x <= x1; x++ {
		if (x-x0)%(dash+gap) < dash {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawVLine(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, c)
	}
}

// drawLine plots a Bresenham line segment. Out-of-bounds pixels are
// dropped by SetRGBA.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}

	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}

	sx := 1
	if x0 > x1 {
		sx = -1
	}

	sy := 1
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy

	for {
		img.SetRGBA(x0, y0, c)

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
