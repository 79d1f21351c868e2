package validate

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestValidateEmptyInput(t *testing.T) {
	_, err := Validate(nil, "image/png", DefaultLimits)
	if KindOf(err) != KindEmptyInput {
		t.Fatalf("expected EmptyInput, got %v", err)
	}
}

func TestValidateSizeCheckedBeforeDecode(t *testing.T) {
	// Not an image at all; the size check must fire first.
	data := bytes.Repeat([]byte{0xAB}, 64)
	limits := Limits{MaxBytes: 10, MinDimension: 1, MaxDimension: 100}
	_, err := Validate(data, "", limits)
	if KindOf(err) != KindPayloadTooLarge {
		t.Fatalf("expected PayloadTooLarge, got %v", err)
	}
}

func TestValidateRandomBytes(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01, 0x02, 0x03}
	_, err := Validate(data, "image/png", DefaultLimits)
	if KindOf(err) != KindUnsupportedFormat {
		t.Fatalf("expected UnsupportedFormat, got %v", err)
	}
}

func TestValidateDeclaredTypeIsAdvisory(t *testing.T) {
	// PNG bytes declared as JPEG must still decode.
	dec, err := Validate(encodePNG(t, 32, 32), "image/jpeg", DefaultLimits)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if dec.Format != "png" {
		t.Fatalf("sniffed format = %q, want png", dec.Format)
	}
}

func TestValidateDimensionBounds(t *testing.T) {
	limits := Limits{MaxBytes: 1 << 20, MinDimension: 8, MaxDimension: 64}

	_, err := Validate(encodePNG(t, 4, 32), "", limits)
	if KindOf(err) != KindDimensionOutOfRange {
		t.Fatalf("tiny image: expected DimensionOutOfRange, got %v", err)
	}

	_, err = Validate(encodePNG(t, 128, 32), "", limits)
	if KindOf(err) != KindDimensionOutOfRange {
		t.Fatalf("huge image: expected DimensionOutOfRange, got %v", err)
	}

	dec, err := Validate(encodePNG(t, 32, 32), "", limits)
	if err != nil {
		t.Fatalf("in-bounds image rejected: %v", err)
	}
	if dec.Width != 32 || dec.Height != 32 {
		t.Fatalf("unexpected dimensions: %dx%d", dec.Width, dec.Height)
	}
}

func TestValidateChannelCounts(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 16, 16))
	var grayBuf bytes.Buffer
	if err := png.Encode(&grayBuf, gray); err != nil {
		t.Fatalf("encode gray png: %v", err)
	}
	dec, err := Validate(grayBuf.Bytes(), "", DefaultLimits)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if dec.Channels != 1 {
		t.Fatalf("gray channels = %d, want 1", dec.Channels)
	}

	// JPEG decodes to YCbCr.
	rgb := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			rgb.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var jpgBuf bytes.Buffer
	if err := jpeg.Encode(&jpgBuf, rgb, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	dec, err = Validate(jpgBuf.Bytes(), "", DefaultLimits)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if dec.Channels != 3 {
		t.Fatalf("jpeg channels = %d, want 3", dec.Channels)
	}

	var rgbaBuf bytes.Buffer
	if err := png.Encode(&rgbaBuf, rgb); err != nil {
		t.Fatalf("encode rgba png: %v", err)
	}
	dec, err = Validate(rgbaBuf.Bytes(), "", DefaultLimits)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if dec.Channels != 4 {
		t.Fatalf("rgba channels = %d, want 4", dec.Channels)
	}
}

func TestKindOfNonValidationError(t *testing.T) {
	if k := KindOf(bytes.ErrTooLarge); k != "" {
		t.Fatalf("expected empty kind for foreign error, got %q", k)
	}
}
