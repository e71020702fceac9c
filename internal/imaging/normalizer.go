// Package imaging converts arbitrary source images into small, API-safe
// JPEG payloads under an advisory size ceiling. Normalization never fails
// for a valid non-empty image; it degrades quality and dimensions instead.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/hammamikhairi/snapchef/internal/domain"
	"github.com/hammamikhairi/snapchef/internal/logger"
)

const (
	// DefaultCeilingBytes is the advisory maximum encoded size (1.0 MB).
	DefaultCeilingBytes = 1_000_000

	// softLimitBytes is the warning threshold. A payload above it is
	// flagged Oversized so the caller can decide whether to still send it.
	softLimitBytes = 5_000_000

	// maxDimension is the longest edge allowed before downscaling.
	maxDimension = 1000

	initialQuality = 70
	minQuality     = 10
	qualityStep    = 10

	// Aggressive-resize fallback parameters.
	fallbackQuality   = 50
	maxFallbackRounds = 5
)

// Payload is an encoded image ready for transport.
type Payload struct {
	Data      []byte
	MediaType string // always "image/jpeg"
	SizeBytes int
	Oversized bool // above the soft warning limit despite all fallbacks
}

// Option configures the Normalizer.
type Option func(*Normalizer)

// WithCeiling overrides the default size ceiling in bytes.
func WithCeiling(bytes int) Option {
	return func(n *Normalizer) { n.ceiling = bytes }
}

// Normalizer encodes images as JPEG under a size ceiling. Safe for
// concurrent use; it holds no per-call state.
type Normalizer struct {
	ceiling int
	log     *logger.Logger
}

// NewNormalizer creates a normalizer with the given logger and options.
func NewNormalizer(log *logger.Logger, opts ...Option) *Normalizer {
	n := &Normalizer{
		ceiling: DefaultCeilingBytes,
		log:     log,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts img into a JPEG payload, applying in order: downscale
// to a 1000px long edge, canonicalization to RGBA over opaque white,
// iterative quality reduction, and an aggressive resize fallback. The
// ceiling is advisory: after the fallback rounds are exhausted the last
// result is accepted whatever its size.
func (n *Normalizer) Normalize(img image.Image) (*Payload, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil source image", domain.ErrImagePreprocessing)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty source image (%dx%d)",
			domain.ErrImagePreprocessing, bounds.Dx(), bounds.Dy())
	}

	// Step 1: uniform downscale so the longer edge is at most maxDimension.
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = scaleToFit(img, maxDimension)
		n.log.Debug("imaging: downscaled %dx%d -> %dx%d",
			bounds.Dx(), bounds.Dy(), img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Step 2: canonicalize to 8-bit RGBA against an opaque white background,
	// discarding any unusual color model so the encoder always accepts it.
	canvas := flattenToRGBA(img)

	// Step 3: encode, walking quality down while over the ceiling.
	quality := initialQuality
	data, err := encodeJPEG(canvas, quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImagePreprocessing, err)
	}
	for len(data) > n.ceiling && quality > minQuality {
		quality -= qualityStep
		data, err = encodeJPEG(canvas, quality)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrImagePreprocessing, err)
		}
		n.log.Debug("imaging: re-encoded at quality %d, %d bytes", quality, len(data))
	}

	// Step 4: aggressive resize fallback. Fixed mid quality, shrink the
	// canvas between rounds, accept whatever the last round produced.
	if len(data) > n.ceiling {
		current := canvas
		for round := 0; round < maxFallbackRounds; round++ {
			data, err = encodeJPEG(current, fallbackQuality)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrImagePreprocessing, err)
			}
			if len(data) <= n.ceiling {
				break
			}
			factor := math.Sqrt(float64(n.ceiling)/float64(len(data))) * 0.8
			w := int(float64(current.Bounds().Dx()) * factor)
			h := int(float64(current.Bounds().Dy()) * factor)
			if w < 1 {
				w = 1
			}
			if h < 1 {
				h = 1
			}
			n.log.Debug("imaging: fallback round %d, %d bytes over ceiling, rescaling to %dx%d",
				round+1, len(data), w, h)
			current = scaleRGBA(current, w, h)
		}
	}

	payload := &Payload{
		Data:      data,
		MediaType: "image/jpeg",
		SizeBytes: len(data),
	}
	if payload.SizeBytes > softLimitBytes {
		payload.Oversized = true
		n.log.Warn("imaging: payload still %d bytes after all fallbacks", payload.SizeBytes)
	}
	return payload, nil
}

// scaleToFit scales img uniformly so its longer edge equals limit.
func scaleToFit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var nw, nh int
	if w >= h {
		nw = limit
		nh = int(float64(h) * float64(limit) / float64(w))
	} else {
		nh = limit
		nw = int(float64(w) * float64(limit) / float64(h))
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// flattenToRGBA redraws img into a fresh RGBA buffer over opaque white.
func flattenToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// scaleRGBA resizes an RGBA image to exactly w x h.
func scaleRGBA(src *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}
