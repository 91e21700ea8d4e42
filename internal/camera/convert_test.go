package camera

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
)

func TestYUYVToGray(t *testing.T) {
	// Two YUYV macropixels per row: Y0 U Y1 V.
	frame := []byte{
		10, 128, 20, 128,
		30, 128, 40, 128,
	}

	img, err := yuyvToGray(frame, 2, 2)
	if err != nil {
		t.Fatalf("yuyvToGray error: %v", err)
	}

	want := [][]uint8{
		{10, 20},
		{30, 40},
	}
	for y := range want {
		for x := range want[y] {
			if got := img.GrayAt(x, y).Y; got != want[y][x] {
				t.Errorf("pixel (%d,%d) = %d, want %d", x, y, got, want[y][x])
			}
		}
	}
}

func TestYUYVToGrayTruncated(t *testing.T) {
	_, err := yuyvToGray(make([]byte, 7), 2, 2)
	if err == nil || !strings.Contains(err.Error(), "truncated") {
		t.Errorf("error = %v, want frame truncated", err)
	}
}

func TestDecodeMJPEG(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(x * 8)})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	img, err := decodeMJPEG(buf.Bytes())
	if err != nil {
		t.Fatalf("decodeMJPEG error: %v", err)
	}
	if got := img.Bounds(); got != src.Bounds() {
		t.Errorf("bounds = %v, want %v", got, src.Bounds())
	}
}

func TestDecodeMJPEGGarbage(t *testing.T) {
	if _, err := decodeMJPEG([]byte("not a jpeg frame")); err == nil {
		t.Error("decodeMJPEG accepted garbage input")
	}
}

func TestProbeExplicitDeviceMissing(t *testing.T) {
	ok, detail := Probe(Config{Device: "/dev/video-does-not-exist"})
	if ok {
		t.Fatal("Probe reported a nonexistent device as present")
	}
	if !strings.Contains(detail, "no camera found") {
		t.Errorf("detail = %q, want no camera found", detail)
	}
}
