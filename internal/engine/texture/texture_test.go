package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func assertChecker(t *testing.T, img *image.RGBA) {
	t.Helper()
	require.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(1, 1))
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, checker()))

	img, err := Decode("water_normal.png", buf.Bytes())
	require.NoError(t, err)
	assertChecker(t, img)
}

func TestDecodeBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, checker()))

	img, err := Decode("sky.bmp", buf.Bytes())
	require.NoError(t, err)
	assertChecker(t, img)
}

// tgaHeader builds an 18 byte TGA header for a 2x2 image.
func tgaHeader(imageType, bpp, descriptor byte) []byte {
	h := make([]byte, 18)
	h[2] = imageType
	h[12], h[14] = 2, 2
	h[16] = bpp
	h[17] = descriptor
	return h
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// Bottom-up rows, BGR order.
	data := tgaHeader(TGATypeUncompressed, 24, 0)
	data = append(data,
		255, 0, 0, 255, 255, 255, // bottom row: blue, white
		0, 0, 255, 0, 255, 0, // top row: red, green
	)

	img, err := Decode("foam.TGA", data)
	require.NoError(t, err)
	assertChecker(t, img)
}

func TestDecodeTGARLE(t *testing.T) {
	// Top-down, 32 bit: one run of two reds, then two raw pixels.
	data := tgaHeader(TGATypeRLE, 32, 0x20)
	data = append(data,
		0x81, 0, 0, 255, 255,
		0x01, 0, 255, 0, 128, 255, 0, 0, 255,
	)

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	rgba := ImageToRGBA(img)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 128}, rgba.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba.RGBAAt(1, 1))
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{0, 0, 2}},
		{"color mapped", func() []byte { h := tgaHeader(TGATypeUncompressed, 24, 0); h[1] = 1; return h }()},
		{"grayscale", tgaHeader(3, 8, 0)},
		{"16 bit", tgaHeader(TGATypeUncompressed, 16, 0)},
		{"truncated pixels", append(tgaHeader(TGATypeUncompressed, 24, 0), 1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTGA(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode("sky.png", []byte("not an image"))
	assert.ErrorContains(t, err, "sky.png")
}

func TestImageToRGBAOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 12))
	src.SetRGBA(10, 10, color.RGBA{R: 9, A: 255})

	out := ImageToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, color.RGBA{R: 9, A: 255}, out.RGBAAt(0, 0))

	same := image.NewRGBA(image.Rect(0, 0, 1, 1))
	assert.Same(t, same, ImageToRGBA(same))
}
