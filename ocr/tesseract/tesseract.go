// Package tesseract provides the gosseract-backed default recognition engine.
package tesseract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/wudi/ocrkit/ocr"
)

func init() {
	ocr.SetDefaultEngine(NewEngine())
}

// Engine implements ocr.Engine using the gosseract client.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed recognition engine.
func NewEngine() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Probe verifies that the native library and language data are usable. It is
// intended to run once at startup; a failure here means every subsequent
// recognition would fail the same way.
func (e *Engine) Probe(ctx context.Context, languages ...string) error {
	c := e.clientFactory()
	defer c.Close()
	if len(languages) > 0 {
		if err := c.SetLanguage(languages...); err != nil {
			return ocr.Unavailable("probe languages", err)
		}
	}
	if err := c.SetImageFromBytes(probePNG); err != nil {
		return ocr.Unavailable("probe image", err)
	}
	if _, err := c.Text(); err != nil {
		return ocr.Unavailable("probe recognize", err)
	}
	return ctx.Err()
}

type recognized struct {
	res ocr.Result
	err error
}

// Recognize performs OCR on a single image input. The native call cannot be
// interrupted, so on context expiry it is left to drain in its own goroutine
// and its result is discarded.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, mapContextErr(err)
	}
	done := make(chan recognized, 1)
	go func() {
		c := e.clientFactory()
		defer c.Close()
		res, err := e.recognizeWithClient(c, in)
		done <- recognized{res: res, err: err}
	}()
	select {
	case r := <-done:
		return r.res, r.err
	case <-ctx.Done():
		return ocr.Result{}, mapContextErr(ctx.Err())
	}
}

func mapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ocr.Timeout("recognize", err)
	}
	return err
}

func (e *Engine) recognizeWithClient(c *gosseract.Client, in ocr.Input) (ocr.Result, error) {
	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, ocr.Internal("set image", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, ocr.Unavailable("set languages", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, ocr.Internal("set dpi", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, ocr.Internal(fmt.Sprintf("set variable %s", k), err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, ocr.Internal("recognize text", err)
	}
	return ocr.Result{
		InputID:    in.ID,
		RawText:    strings.TrimSpace(text),
		Language:   firstLanguage(in.Languages),
		Confidence: meanConfidence(c),
	}, nil
}

func meanConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}
