package ocr

import "context"

// ImageFormat identifies the content type of a recognition input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in the
	// corresponding Result.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// DPI carries the effective dots-per-inch for the image. Providers such as
	// Tesseract use this for scaling and layout heuristics; zero means unknown.
	DPI int
	// Languages is a list of trained-data hints (e.g., "eng", "deu") that
	// providers can use to select recognition models.
	Languages []string
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// "tessedit_pageseg_mode" for Tesseract) without hard-coding them into the
	// API surface.
	Metadata map[string]string
}

// Result captures recognition output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// RawText contains the text extracted from the image, exactly as the
	// engine produced it apart from outer whitespace.
	RawText string
	// Language indicates the language model that produced the text, if known.
	Language string
	// Confidence is the engine's mean word confidence in [0, 1], or zero when
	// the engine does not report one.
	Confidence float64
}

// Engine is the recognition provider contract: one image in, one result out.
// Implementations must honor ctx cancellation by returning early, though the
// underlying native call may keep running until it finishes on its own
// (recognition engines are typically not preemptible mid-call).
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
