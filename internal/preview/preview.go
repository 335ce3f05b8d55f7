// Package preview renders the marker layer into a static WebP image.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/woozymasta/quakemap/internal/geo"
	"github.com/woozymasta/quakemap/internal/quake"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// ReferenceWorldSize is the world width in pixels at zoom 1.5, the default
// map zoom. Marker radii are scaled relative to it.
const ReferenceWorldSize = 724.0

// Limits for the requested output width.
const (
	MinWidth = 64
	MaxWidth = 2048
)

// MaxCanvas bounds the supersampled canvas side. Wider outputs are drawn
// directly at their final size.
const MaxCanvas = 2048

var (
	oceanColor     = color.RGBA{R: 0xAA, G: 0xD3, B: 0xDF, A: 0xFF}
	graticuleColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x80}
)

// Options configure a preview rendering.
type Options struct {
	// Width of the square output image in pixels.
	Width int
	// Supersample renders at a multiple of Width before downscaling, 1 disables it.
	Supersample int
	// Graticule spacing in degrees, 0 disables the grid.
	Graticule float64
}

// Render draws markers onto a Web Mercator world in feature order.
func Render(markers []quake.Marker, opts Options) image.Image {
	width := ClampWidth(opts.Width)
	ss := opts.Supersample
	if ss < 1 {
		ss = 2
	}
	if width*ss > MaxCanvas {
		ss = 1
	}

	size := width * ss
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(oceanColor), image.Point{}, xdraw.Src)

	if opts.Graticule > 0 {
		drawGraticule(canvas, opts.Graticule)
	}

	scale := float64(size) / ReferenceWorldSize
	for _, m := range markers {
		drawMarker(canvas, m, scale)
	}

	if ss == 1 {
		return canvas
	}

	// Downscale with CatmullRom for anti-aliased circle edges.
	dst := image.NewRGBA(image.Rect(0, 0, width, width))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	return dst
}

// Encode writes img as lossy WebP.
func Encode(w io.Writer, img image.Image, quality float32) error {
	if err := webp.Encode(w, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}

// ClampWidth limits w to [MinWidth, MaxWidth].
func ClampWidth(w int) int {
	if w < MinWidth {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}

func drawMarker(dst *image.RGBA, m quake.Marker, scale float64) {
	r := m.Style.Radius * scale
	if r <= 0 || math.IsNaN(r) {
		return
	}

	fill, err := parseHexColor(m.Style.FillColor)
	if err != nil {
		return
	}
	stroke, err := parseHexColor(m.Style.Color)
	if err != nil {
		stroke = color.RGBA{A: 0xFF}
	}

	size := float64(dst.Bounds().Dx())
	cx, cy := geo.LonLatToPixel(geo.WrapLon(m.Lon), m.Lat, size)
	center := image.Point{X: int(math.Round(cx)), Y: int(math.Round(cy))}

	strokeWidth := m.Style.Weight * scale
	if strokeWidth < 1 {
		strokeWidth = 1
	}

	body := &disc{center: center, outer: r - strokeWidth, alpha: alpha(m.Style.FillOpacity)}
	xdraw.DrawMask(dst, body.Bounds(), image.NewUniform(fill), image.Point{}, body, body.Bounds().Min, xdraw.Over)

	ring := &disc{center: center, outer: r, inner: r - strokeWidth, alpha: alpha(m.Style.Opacity)}
	xdraw.DrawMask(dst, ring.Bounds(), image.NewUniform(stroke), image.Point{}, ring, ring.Bounds().Min, xdraw.Over)
}

func drawGraticule(dst *image.RGBA, step float64) {
	size := float64(dst.Bounds().Dx())
	src := image.NewUniform(graticuleColor)

	for lon := -180.0 + step; lon < 180.0; lon += step {
		x, _ := geo.LonLatToPixel(lon, 0, size)
		line := image.Rect(int(x), 0, int(x)+1, dst.Bounds().Dy())
		xdraw.Draw(dst, line, src, image.Point{}, xdraw.Over)
	}
	for lat := -80.0; lat <= 80.0; lat += step {
		_, y := geo.LonLatToPixel(0, lat, size)
		line := image.Rect(0, int(y), dst.Bounds().Dx(), int(y)+1)
		xdraw.Draw(dst, line, src, image.Point{}, xdraw.Over)
	}
}

func alpha(opacity float64) uint8 {
	if opacity <= 0 {
		return 0
	}
	if opacity >= 1 {
		return 0xFF
	}
	return uint8(math.Round(opacity * 0xFF))
}

// disc is an alpha mask covering a filled circle, or a ring when inner > 0.
type disc struct {
	center       image.Point
	outer, inner float64
	alpha        uint8
}

func (d *disc) ColorModel() color.Model { return color.AlphaModel }

func (d *disc) Bounds() image.Rectangle {
	r := int(math.Ceil(d.outer))
	return image.Rect(d.center.X-r, d.center.Y-r, d.center.X+r+1, d.center.Y+r+1)
}

func (d *disc) At(x, y int) color.Color {
	dx := float64(x - d.center.X)
	dy := float64(y - d.center.Y)
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist <= d.outer && dist >= d.inner {
		return color.Alpha{A: d.alpha}
	}
	return color.Alpha{}
}

// parseHexColor accepts #RGB and #RRGGBB.
func parseHexColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xFF}
	var err error

	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("invalid color %q", s)
	}

	return c, err
}
