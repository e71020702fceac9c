package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"testing"

	"github.com/hammamikhairi/snapchef/internal/domain"
	"github.com/hammamikhairi/snapchef/internal/logger"
)

// noiseImage builds an incompressible image so JPEG cannot shrink it
// for free.
func noiseImage(w, h int) *image.RGBA {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func flatImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNormalizeHugeImage(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	n := NewNormalizer(log)

	// 4000x3000 of noise is the pathological fixture: the normalizer must
	// terminate and return a payload near the ceiling.
	payload, err := n.Normalize(noiseImage(4000, 3000))
	if err != nil {
		t.Fatalf("Normalize: unexpected error: %v", err)
	}

	if payload.MediaType != "image/jpeg" {
		t.Errorf("MediaType = %q, want image/jpeg", payload.MediaType)
	}
	if payload.SizeBytes != len(payload.Data) {
		t.Errorf("SizeBytes = %d, len(Data) = %d", payload.SizeBytes, len(payload.Data))
	}
	// The ceiling is advisory; allow the documented overshoot margin.
	if payload.SizeBytes > 1_200_000 {
		t.Errorf("payload is %d bytes, want <= 1.2MB", payload.SizeBytes)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(payload.Data))
	if err != nil {
		t.Fatalf("payload is not decodable JPEG: %v", err)
	}
	if cfg.Width > maxDimension || cfg.Height > maxDimension {
		t.Errorf("dimensions %dx%d exceed the %dpx long edge", cfg.Width, cfg.Height, maxDimension)
	}
	// Aspect ratio preserved: 4:3 scaled to 1000 on the long edge.
	if cfg.Width != 1000 || cfg.Height != 750 {
		t.Errorf("dimensions = %dx%d, want 1000x750", cfg.Width, cfg.Height)
	}
}

func TestNormalizeSmallImageKeepsDimensions(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	n := NewNormalizer(log)

	payload, err := n.Normalize(flatImage(120, 80, color.RGBA{200, 30, 30, 255}))
	if err != nil {
		t.Fatalf("Normalize: unexpected error: %v", err)
	}
	if payload.SizeBytes > DefaultCeilingBytes {
		t.Errorf("flat 120x80 image should be far under the ceiling, got %d bytes", payload.SizeBytes)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(payload.Data))
	if err != nil {
		t.Fatalf("payload is not decodable JPEG: %v", err)
	}
	if cfg.Width != 120 || cfg.Height != 80 {
		t.Errorf("dimensions = %dx%d, want unchanged 120x80", cfg.Width, cfg.Height)
	}
}

func TestNormalizeTransparencyFlattenedToWhite(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	n := NewNormalizer(log)

	// Fully transparent source must come out as white, not black.
	transparent := image.NewRGBA(image.Rect(0, 0, 50, 50))
	payload, err := n.Normalize(transparent)
	if err != nil {
		t.Fatalf("Normalize: unexpected error: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(payload.Data))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	r, g, b, _ := decoded.At(25, 25).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel rendered as (%d,%d,%d), want near-white",
			r>>8, g>>8, b>>8)
	}
}

func TestNormalizeInvalidInput(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	n := NewNormalizer(log)

	tests := []struct {
		name string
		img  image.Image
	}{
		{"nil image", nil},
		{"empty bounds", image.NewRGBA(image.Rect(0, 0, 0, 0))},
	}

	for _, tt := range tests {
		_, err := n.Normalize(tt.img)
		if !errors.Is(err, domain.ErrImagePreprocessing) {
			t.Errorf("%s: error = %v, want ErrImagePreprocessing", tt.name, err)
		}
	}
}

func TestNormalizeTinyCeilingTerminates(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	// A ceiling no JPEG of this content can meet at full size forces the
	// quality floor and the aggressive resize rounds.
	n := NewNormalizer(log, WithCeiling(2_000))

	payload, err := n.Normalize(noiseImage(500, 500))
	if err != nil {
		t.Fatalf("Normalize: unexpected error: %v", err)
	}
	if len(payload.Data) == 0 {
		t.Fatal("Normalize returned an empty payload")
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(payload.Data)); err != nil {
		t.Errorf("payload is not decodable JPEG: %v", err)
	}
}
