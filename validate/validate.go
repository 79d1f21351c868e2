// Package validate screens uploaded bytes before any recognition work
// happens: it confirms they decode as a supported raster image and sit
// within configured size and dimension bounds.
package validate

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	// Raster formats accepted by image.Decode. The declared content type of
	// an upload is advisory only; sniffing the magic number decides.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Kind identifies a validation failure class.
type Kind string

const (
	KindEmptyInput          Kind = "EmptyInput"
	KindPayloadTooLarge     Kind = "PayloadTooLarge"
	KindUnsupportedFormat   Kind = "UnsupportedFormat"
	KindDimensionOutOfRange Kind = "DimensionOutOfRange"
)

// Error is a validation failure with a stable kind and a human-readable
// message safe to surface to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("validate: %s: %s", e.Kind, e.Message) }

// KindOf extracts the validation kind from err, or "" when err is not a
// validation error.
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}

// Limits bounds accepted uploads.
type Limits struct {
	// MaxBytes is the largest accepted payload. Checked before any decoding.
	MaxBytes int64
	// MinDimension rejects degenerate images whose width or height is below
	// this pixel count.
	MinDimension int
	// MaxDimension rejects images so large that recognition would be
	// prohibitively slow.
	MaxDimension int
}

// DefaultLimits matches the service defaults.
var DefaultLimits = Limits{
	MaxBytes:     10 << 20,
	MinDimension: 8,
	MaxDimension: 10000,
}

// Decoded is the pixel-level view of a validated upload.
type Decoded struct {
	Image    image.Image
	Format   string // sniffed format name ("png", "jpeg", ...)
	Width    int
	Height   int
	Channels int
}

// Validate confirms that data is a usable raster image within limits. The
// declaredType is recorded for diagnostics but never trusted: decoding is
// attempted regardless of what the client claimed.
func Validate(data []byte, declaredType string, limits Limits) (*Decoded, error) {
	if len(data) == 0 {
		return nil, &Error{Kind: KindEmptyInput, Message: "uploaded file is empty"}
	}
	if limits.MaxBytes > 0 && int64(len(data)) > limits.MaxBytes {
		return nil, &Error{
			Kind:    KindPayloadTooLarge,
			Message: fmt.Sprintf("payload is %d bytes, limit is %d", len(data), limits.MaxBytes),
		}
	}

	// Header-only decode first so oversized dimensions are rejected before
	// pixel buffers are allocated.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{
			Kind:    KindUnsupportedFormat,
			Message: unsupportedMessage(declaredType),
		}
	}
	if err := checkDimensions(cfg.Width, cfg.Height, limits); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{
			Kind:    KindUnsupportedFormat,
			Message: unsupportedMessage(declaredType),
		}
	}
	b := img.Bounds()
	// Dimensions from the full decode govern; some formats (tiff) may carry
	// a header that disagrees with the decoded frame.
	if err := checkDimensions(b.Dx(), b.Dy(), limits); err != nil {
		return nil, err
	}
	return &Decoded{
		Image:    img,
		Format:   format,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channelCount(img.ColorModel()),
	}, nil
}

func checkDimensions(w, h int, limits Limits) error {
	if limits.MinDimension > 0 && (w < limits.MinDimension || h < limits.MinDimension) {
		return &Error{
			Kind:    KindDimensionOutOfRange,
			Message: fmt.Sprintf("image is %dx%d, minimum dimension is %d", w, h, limits.MinDimension),
		}
	}
	if limits.MaxDimension > 0 && (w > limits.MaxDimension || h > limits.MaxDimension) {
		return &Error{
			Kind:    KindDimensionOutOfRange,
			Message: fmt.Sprintf("image is %dx%d, maximum dimension is %d", w, h, limits.MaxDimension),
		}
	}
	return nil
}

func unsupportedMessage(declaredType string) string {
	if declaredType == "" {
		return "file is not a supported image format (png, jpeg, gif, bmp, tiff, webp)"
	}
	return fmt.Sprintf("file declared as %q is not a supported image format (png, jpeg, gif, bmp, tiff, webp)", declaredType)
}

func channelCount(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.YCbCrModel:
		return 3
	default:
		return 4
	}
}
