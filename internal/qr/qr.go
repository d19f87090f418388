// Package qr renders links as padded PNG QR codes.
package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultSize is the QR edge in pixels before padding, used for downloads.
	DefaultSize = 800
	// PreviewSize is the QR edge used for on-screen previews.
	PreviewSize = 160
	MinSize     = 64
	MaxSize     = 2048
	// DefaultPaddingRatio is the white margin per side, relative to the QR edge.
	DefaultPaddingRatio = 0.05
)

var (
	ErrEmptyContent = errors.New("qr content is empty")
	ErrInvalidSize  = fmt.Errorf("qr size must be between %d and %d", MinSize, MaxSize)
)

// Renderer draws QR codes on a white canvas.
type Renderer struct {
	Level        qrcode.RecoveryLevel
	PaddingRatio float64
}

// NewRenderer creates a renderer with medium error correction and a 5% margin.
func NewRenderer() *Renderer {
	return &Renderer{
		Level:        qrcode.Medium,
		PaddingRatio: DefaultPaddingRatio,
	}
}

// Render returns a PNG whose QR is size pixels wide, centered with round(size*PaddingRatio) white pixels per side.
func (r *Renderer) Render(text string, size int) ([]byte, error) {
	img, err := r.Image(text, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), nil
}

// Image is Render without PNG encoding.
func (r *Renderer) Image(text string, size int) (image.Image, error) {
	if text == "" {
		return nil, ErrEmptyContent
	}

	if size < MinSize || size > MaxSize {
		return nil, ErrInvalidSize
	}

	code, err := qrcode.New(text, r.Level)
	if err != nil {
		return nil, fmt.Errorf("build qr: %w", err)
	}

	code.DisableBorder = true

	pad := int(math.Round(float64(size) * r.PaddingRatio))
	full := size + 2*pad

	canvas := image.NewRGBA(image.Rect(0, 0, full, full))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	symbol := code.Image(size)
	offset := (full - symbol.Bounds().Dx()) / 2
	draw.Draw(canvas, symbol.Bounds().Add(image.Pt(offset, offset)), symbol, symbol.Bounds().Min, draw.Src)

	return canvas, nil
}
