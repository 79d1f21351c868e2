package tesseract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/wudi/ocrkit/ocr"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderText(t *testing.T, text string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 240, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString(text)

	var buf bytes.Buffer
	if err := (png.Encoder{}).Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	in := ocr.NewInput("req-1", renderText(t, "Hello World"), ocr.ImageFormatPNG,
		ocr.WithLanguages("eng"), ocr.WithDPI(300))

	res, err := NewEngine().Recognize(context.Background(), in)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	got := strings.ToLower(res.RawText)
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Fatalf("unexpected OCR output: %q", res.RawText)
	}
	if res.InputID != "req-1" {
		t.Fatalf("unexpected input id: %s", res.InputID)
	}
	if res.Language != "eng" {
		t.Fatalf("unexpected language: %s", res.Language)
	}
}

func TestEngineRecognizeDeterministic(t *testing.T) {
	ensureTesseractAvailable(t)

	in := ocr.NewInput("req-1", renderText(t, "Hello World"), ocr.ImageFormatPNG,
		ocr.WithLanguages("eng"), ocr.WithDPI(300))
	e := NewEngine()

	first, err := e.Recognize(context.Background(), in)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	second, err := e.Recognize(context.Background(), in)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if first.RawText != second.RawText {
		t.Fatalf("repeated recognition diverged: %q vs %q", first.RawText, second.RawText)
	}
}

func TestEngineRecognizeTimeout(t *testing.T) {
	ensureTesseractAvailable(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()

	in := ocr.NewInput("req-1", renderText(t, "Hello World"), ocr.ImageFormatPNG)
	_, err := NewEngine().Recognize(ctx, in)
	var ee *ocr.EngineError
	if !errors.As(err, &ee) || ee.Kind != ocr.KindTimeout {
		t.Fatalf("expected Timeout engine error, got %v", err)
	}
}

func TestEngineProbe(t *testing.T) {
	ensureTesseractAvailable(t)

	if err := NewEngine().Probe(context.Background(), "eng"); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
}

func TestEngineProbeMissingLanguage(t *testing.T) {
	ensureTesseractAvailable(t)

	err := NewEngine().Probe(context.Background(), "no-such-language")
	var ee *ocr.EngineError
	if !errors.As(err, &ee) || ee.Kind != ocr.KindUnavailable {
		t.Fatalf("expected Unavailable engine error, got %v", err)
	}
}
