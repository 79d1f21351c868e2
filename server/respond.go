package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wudi/ocrkit/normalize"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/validate"
)

// extractionResponse is the success body. The canonical text field is
// "text"; clients reading "result" or "extracted_text" synonyms must adapt.
type extractionResponse struct {
	normalize.Result
	Language   string `json:"language,omitempty"`
	DurationMS int64  `json:"durationMs"`
}

// errorResponse is the failure body. Kind values are stable and documented:
// EmptyInput, PayloadTooLarge, UnsupportedFormat, DimensionOutOfRange,
// MissingImagePart, Unavailable, Timeout, Internal.
type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// kindMissingImagePart flags a request carrying zero or multiple image parts.
const kindMissingImagePart = "MissingImagePart"

var errMissingImagePart = errors.New("request must carry exactly one image part named \"image\"")

func (s *Server) respondError(w http.ResponseWriter, log observability.Logger, err error, started time.Time) {
	if errors.Is(err, context.Canceled) {
		// Client is gone; nothing useful can be written.
		log.Warn("request canceled by client",
			observability.Int64("duration_ms", time.Since(started).Milliseconds()))
		return
	}
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("extraction failed",
			observability.String("kind", body.Kind),
			observability.Error("error", err),
			observability.Int64("duration_ms", time.Since(started).Milliseconds()),
		)
	} else {
		log.Warn("request rejected",
			observability.String("kind", body.Kind),
			observability.String("message", body.Message),
			observability.Int64("duration_ms", time.Since(started).Milliseconds()),
		)
	}
	writeJSON(w, status, body)
}

// classify maps pipeline errors to an HTTP status and a client-safe body.
// Client-caused failures land on 4xx, engine-side ones on 5xx; internal
// detail never leaves the process.
func classify(err error) (int, errorResponse) {
	if errors.Is(err, errMissingImagePart) {
		return http.StatusBadRequest, errorResponse{Kind: kindMissingImagePart, Message: errMissingImagePart.Error()}
	}

	var ve *validate.Error
	if errors.As(err, &ve) {
		status := http.StatusBadRequest
		if ve.Kind == validate.KindPayloadTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		return status, errorResponse{Kind: string(ve.Kind), Message: ve.Message}
	}

	var ee *ocr.EngineError
	if errors.As(err, &ee) {
		switch ee.Kind {
		case ocr.KindUnavailable:
			return http.StatusServiceUnavailable, errorResponse{
				Kind:    string(ee.Kind),
				Message: "text recognition engine is unavailable",
			}
		case ocr.KindTimeout:
			return http.StatusGatewayTimeout, errorResponse{
				Kind:    string(ee.Kind),
				Message: "recognition exceeded the time budget; retry with a smaller image",
			}
		}
		return http.StatusInternalServerError, errorResponse{
			Kind:    string(ocr.KindInternal),
			Message: "text recognition failed",
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Kind:    string(ocr.KindInternal),
		Message: "internal error",
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding these shapes cannot fail; a broken connection here is the
	// client's problem.
	_ = json.NewEncoder(w).Encode(body)
}
