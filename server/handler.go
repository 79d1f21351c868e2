package server

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wudi/ocrkit/normalize"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/preprocess"
	"github.com/wudi/ocrkit/validate"
)

// multipartSlack covers multipart framing and headers on top of the image
// payload itself when bounding the request body.
const multipartSlack = 1 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the OCR API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "engine unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	log := s.log.With(observability.String("request_id", uuid.NewString()))

	data, declaredType, err := s.readImagePart(w, r)
	if err != nil {
		s.respondError(w, log, err, started)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	result, err := s.extract(ctx, data, declaredType)
	if err != nil {
		s.respondError(w, log, err, started)
		return
	}

	elapsed := time.Since(started)
	log.Info("extraction complete",
		observability.Int("characters", result.CharacterCount),
		observability.Int("words", result.WordCount),
		observability.Int("lines", result.LineCount),
		observability.Int64("duration_ms", elapsed.Milliseconds()),
	)
	writeJSON(w, http.StatusOK, extractionResponse{
		Result:     result,
		Language:   s.cfg.Language,
		DurationMS: elapsed.Milliseconds(),
	})
}

// extract runs the pipeline stages in order: validated image, preprocessed
// image, raw text, normalized result. Nothing is retained once the response
// is written.
func (s *Server) extract(ctx context.Context, data []byte, declaredType string) (normalize.Result, error) {
	decoded, err := validate.Validate(data, declaredType, validate.Limits{
		MaxBytes:     s.cfg.MaxUploadBytes,
		MinDimension: s.cfg.MinDimension,
		MaxDimension: s.cfg.MaxDimension,
	})
	if err != nil {
		return normalize.Result{}, err
	}

	prepared := preprocess.Prepare(decoded.Image, preprocess.Options{
		TargetLongSide: preprocess.DefaultOptions.TargetLongSide,
		Binarize:       s.cfg.Binarize,
	})
	encoded, err := preprocess.EncodePNG(prepared)
	if err != nil {
		return normalize.Result{}, ocr.Internal("encode preprocessed image", err)
	}

	res, err := s.recognize(ctx, ocr.NewInput(
		uuid.NewString(), encoded, ocr.ImageFormatPNG,
		ocr.WithLanguages(s.cfg.Language),
	))
	if err != nil {
		return normalize.Result{}, err
	}
	return normalize.Normalize(res.RawText), nil
}

// readImagePart pulls exactly one file part named "image" out of the
// multipart body. Zero or multiple parts are rejected before any validation
// work starts.
func (s *Server) readImagePart(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartSlack)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes + multipartSlack); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, "", &validate.Error{
				Kind:    validate.KindPayloadTooLarge,
				Message: "request body exceeds the upload limit",
			}
		}
		return nil, "", errMissingImagePart
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["image"]
	if len(files) != 1 {
		return nil, "", errMissingImagePart
	}
	header := files[0]
	f, err := header.Open()
	if err != nil {
		return nil, "", ocr.Internal("open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", ocr.Internal("read upload", err)
	}
	return data, header.Header.Get("Content-Type"), nil
}
