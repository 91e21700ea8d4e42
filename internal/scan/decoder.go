package scan

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// decoder recognizes the label formats the warehouse actually prints:
// QR codes and the common retail 1D families. Readers are tried in
// order; QR first since the newer labels use it.
type decoder struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

func newDecoder(tryHarder bool) *decoder {
	hints := map[gozxing.DecodeHintType]interface{}{}
	if tryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	return &decoder{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewMultiFormatUPCEANReader(hints),
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
		},
		hints: hints,
	}
}

// Decode attempts to read one code from the frame. A frame with no
// readable code returns ok=false; that is the normal case while the
// user lines up the label.
func (d *decoder) Decode(frame image.Image) (text, format string, ok bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(frame)
	if err != nil {
		return "", "", false
	}

	for _, r := range d.readers {
		result, err := r.Decode(bmp, d.hints)
		if err != nil {
			continue
		}
		return result.GetText(), result.GetBarcodeFormat().String(), true
	}
	return "", "", false
}
