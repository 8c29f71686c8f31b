// Package media stores barber photos. Every upload is decoded, scaled down
// to fit a bounding box and re-encoded as WebP before it reaches a Store.
package media

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	DefaultMaxWidth = 800
	MaxUploadBytes  = 5 << 20
	// MaxPixels caps the declared size of an upload before it is decoded.
	MaxPixels   = 25_000_000
	webpQuality = 80
)

var (
	ErrTooLarge    = errors.New("media: image exceeds upload limit")
	ErrNotAnImage  = errors.New("media: unsupported image format")
	ErrEmptyUpload = errors.New("media: empty upload")
	ErrDimensions  = errors.New("media: image dimensions too large")
)

// ToWebP reads at most MaxUploadBytes from r and returns the WebP encoding,
// scaled to fit maxWidth x 2*maxWidth.
func ToWebP(r io.Reader, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyUpload
	}
	if len(raw) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrNotAnImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, ErrDimensions
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrNotAnImage
	}

	img := Fit(src, maxWidth, 2*maxWidth)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fit scales src down proportionally so it fits maxWidth x maxHeight.
// Images already inside the box are returned unchanged.
func Fit(src image.Image, maxWidth, maxHeight int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxWidth && b.Dy() <= maxHeight {
		return src
	}

	w, h := maxWidth, b.Dy()*maxWidth/b.Dx()
	if h > maxHeight {
		w, h = b.Dx()*maxHeight/b.Dy(), maxHeight
	}
	w, h = max(w, 1), max(h, 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
