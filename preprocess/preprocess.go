// Package preprocess normalizes a decoded image before recognition:
// grayscale conversion, rescaling toward a resolution band the engine
// handles well, and optional contrast/binarization. All transforms are
// deterministic; identical input and options produce identical output.
package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Options tunes the preprocessing pipeline. The zero value applies only
// grayscale conversion.
type Options struct {
	// TargetLongSide rescales the image (preserving aspect ratio) so its
	// longest side lands on this value whenever it falls outside
	// [TargetLongSide/2, TargetLongSide]. Zero disables rescaling.
	TargetLongSide int
	// Binarize applies a contrast boost followed by a hard black/white
	// threshold. Accuracy is image-dependent, so this is opt-in.
	Binarize bool
	// Threshold is the binarization cut-off; zero means DefaultThreshold.
	Threshold uint8
}

// DefaultThreshold is the binarization cut-off used when Options.Threshold
// is unset. Values around 180-220 work well for printed text.
const DefaultThreshold = 200

// DefaultOptions matches the service defaults.
var DefaultOptions = Options{TargetLongSide: 1600}

// Prepare converts img to the form handed to the recognition engine. It has
// no failure path for well-formed input.
func Prepare(img image.Image, opts Options) image.Image {
	out := imaging.Grayscale(img)
	if w, h, ok := rescaleTo(out.Bounds(), opts.TargetLongSide); ok {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), out, out.Bounds(), draw.Src, nil)
		out = dst
	}
	if opts.Binarize {
		return binarize(out, opts.Threshold)
	}
	return out
}

func rescaleTo(b image.Rectangle, target int) (w, h int, ok bool) {
	if target <= 0 {
		return 0, 0, false
	}
	long := b.Dx()
	if b.Dy() > long {
		long = b.Dy()
	}
	if long == 0 || (long >= target/2 && long <= target) {
		return 0, 0, false
	}
	scale := float64(target) / float64(long)
	w = int(math.Round(float64(b.Dx()) * scale))
	h = int(math.Round(float64(b.Dy()) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h, true
}

func binarize(img *image.NRGBA, threshold uint8) *image.NRGBA {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	boosted := imaging.AdjustContrast(imaging.Sharpen(img, 1.0), 100.0)
	return imaging.AdjustFunc(boosted, func(c color.NRGBA) color.NRGBA {
		// Already grayscale, so the red channel is a brightness proxy.
		if c.R > threshold {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	})
}

// EncodePNG serializes a preprocessed image into the byte form recognition
// engines consume.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
