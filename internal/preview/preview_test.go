package preview

import (
	"bytes"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/woozymasta/quakemap/internal/geo"
	"github.com/woozymasta/quakemap/internal/quake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebp "golang.org/x/image/webp"
)

func marker(lon, lat, mag, depth float64) quake.Marker {
	return quake.Marker{
		Lon:   lon,
		Lat:   lat,
		Depth: depth,
		Time:  time.UnixMilli(1700000000000),
		Style: quake.NewStyle(mag, depth),
	}
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestRenderSize(t *testing.T) {
	img := Render(nil, Options{Width: 300})
	assert.Equal(t, image.Rect(0, 0, 300, 300), img.Bounds())

	assert.Equal(t, MinWidth, Render(nil, Options{Width: 1}).Bounds().Dx())
	assert.Equal(t, MaxWidth, ClampWidth(1<<20))
}

func TestRenderLargeWidthSkipsSupersampling(t *testing.T) {
	m := marker(10, 20, 6, 45)

	img := Render([]quake.Marker{m}, Options{Width: MaxCanvas, Supersample: 4})
	assert.Equal(t, MaxCanvas, img.Bounds().Dx())

	x, y := geo.LonLatToPixel(10, 20, MaxCanvas)
	assert.NotEqual(t, oceanColor, rgbaAt(img, int(x), int(y)))
}

func TestRenderMarkerColor(t *testing.T) {
	const width = 512
	m := marker(10, 20, 6, 45)

	img := Render([]quake.Marker{m}, Options{Width: width, Supersample: 1})

	x, y := geo.LonLatToPixel(10, 20, width)
	center := rgbaAt(img, int(x), int(y))

	// #FC4E2A at 0.8 opacity over the ocean color.
	assert.InDelta(t, 0xFC*0.8+0xAA*0.2, float64(center.R), 2)
	assert.InDelta(t, 0x4E*0.8+0xD3*0.2, float64(center.G), 2)
	assert.InDelta(t, 0x2A*0.8+0xDF*0.2, float64(center.B), 2)

	// Far away from the marker the background is untouched.
	assert.Equal(t, oceanColor, rgbaAt(img, 2, 2))
}

func TestRenderSkipsNonPositiveRadius(t *testing.T) {
	img := Render([]quake.Marker{marker(0, 0, 0, 10), marker(0, 0, -2, 10)}, Options{Width: 128, Supersample: 1})

	x, y := geo.LonLatToPixel(0, 0, 128)
	assert.Equal(t, oceanColor, rgbaAt(img, int(x), int(y)))
}

func TestRenderGraticule(t *testing.T) {
	img := Render(nil, Options{Width: 360, Supersample: 1, Graticule: 30})

	x, _ := geo.LonLatToPixel(0, 0, 360)
	assert.NotEqual(t, oceanColor, rgbaAt(img, int(x), 100))
}

func TestEncodeWebP(t *testing.T) {
	img := Render([]quake.Marker{marker(-120, 35, 4.2, 8)}, Options{Width: 200})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, 80))

	decoded, err := xwebp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#BD0026")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xBD, G: 0x00, B: 0x26, A: 0xFF}, c)

	c, err = parseHexColor("#000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 0xFF}, c)

	c, err = parseHexColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, c)

	_, err = parseHexColor("red")
	assert.Error(t, err)
}
