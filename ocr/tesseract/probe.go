package tesseract

import (
	"bytes"
	"image"
	"image/png"
)

// probePNG is a tiny blank image used to exercise the native pipeline at
// startup without depending on fixture files.
var probePNG = func() []byte {
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()
