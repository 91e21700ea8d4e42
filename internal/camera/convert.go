package camera

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// decodeMJPEG decodes one motion-JPEG frame.
func decodeMJPEG(frame []byte) (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("camera frame decode: %w", err)
	}
	return img, nil
}

// yuyvToGray extracts the luminance plane from a packed YUYV 4:2:2 frame.
// Barcode decoding works on luminance, so chroma is dropped outright.
func yuyvToGray(frame []byte, width, height int) (*image.Gray, error) {
	need := width * height * 2
	if len(frame) < need {
		return nil, fmt.Errorf("camera frame truncated: %d bytes, need %d", len(frame), need)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i] = frame[i*2]
	}
	return img, nil
}
