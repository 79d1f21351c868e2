package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestEngineErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind FailureKind
	}{
		{Unavailable("init", errors.New("no language data")), KindUnavailable},
		{Timeout("recognize", context.DeadlineExceeded), KindTimeout},
		{Internal("recognize text", errors.New("boom")), KindInternal},
	}
	for _, c := range cases {
		var ee *EngineError
		if !errors.As(c.err, &ee) {
			t.Fatalf("expected *EngineError, got %T", c.err)
		}
		if ee.Kind != c.kind {
			t.Fatalf("kind = %s, want %s", ee.Kind, c.kind)
		}
	}
}

func TestEngineErrorUnwrap(t *testing.T) {
	err := Timeout("recognize", context.DeadlineExceeded)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped DeadlineExceeded")
	}
}

func TestDefaultEngineRoundTrip(t *testing.T) {
	orig := DefaultEngine()
	defer SetDefaultEngine(orig)

	e := &noopEngine{}
	SetDefaultEngine(e)
	if DefaultEngine() != e {
		t.Fatalf("default engine was not replaced")
	}
	res, err := DefaultEngine().Recognize(context.Background(), Input{ID: "x"})
	if err != nil {
		t.Fatalf("noop engine error: %v", err)
	}
	if res.InputID != "x" {
		t.Fatalf("unexpected input id: %s", res.InputID)
	}
}
