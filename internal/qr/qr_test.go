package qr_test

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/serroba/fraglink/internal/qr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const link = "https://s.example.com/o.html#N4IgbghgDgrgzgUwQBwO4gFzgF4A"

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()

	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestRender(t *testing.T) {
	t.Run("pads the symbol with a white margin", func(t *testing.T) {
		data, err := qr.NewRenderer().Render(link, qr.DefaultSize)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)

		// 800 + 2*40
		assert.Equal(t, 880, img.Bounds().Dx())
		assert.Equal(t, 880, img.Bounds().Dy())

		for _, p := range [][2]int{{0, 0}, {39, 39}, {879, 879}, {0, 440}} {
			assert.True(t, isWhite(img.At(p[0], p[1])), "pixel %v should be margin", p)
		}

		dark := false

		for x := 40; x < 840 && !dark; x++ {
			dark = !isWhite(img.At(x, x))
		}

		assert.True(t, dark, "symbol should be drawn inside the margin")
	})

	t.Run("preview size", func(t *testing.T) {
		data, err := qr.NewRenderer().Render(link, qr.PreviewSize)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 176, img.Bounds().Dx())
	})

	t.Run("custom padding ratio", func(t *testing.T) {
		r := qr.NewRenderer()
		r.PaddingRatio = 0

		img, err := r.Image(link, 200)

		require.NoError(t, err)
		assert.Equal(t, 200, img.Bounds().Dx())
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := qr.NewRenderer().Render("", qr.DefaultSize)

		assert.ErrorIs(t, err, qr.ErrEmptyContent)
	})

	t.Run("rejects sizes out of range", func(t *testing.T) {
		for _, size := range []int{0, qr.MinSize - 1, qr.MaxSize + 1} {
			_, err := qr.NewRenderer().Render(link, size)

			assert.ErrorIs(t, err, qr.ErrInvalidSize)
		}
	})

	t.Run("rejects content too large for a symbol", func(t *testing.T) {
		_, err := qr.NewRenderer().Render(strings.Repeat("x", 4000), qr.DefaultSize)

		assert.Error(t, err)
	})
}
