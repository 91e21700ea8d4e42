//go:build linux

package camera

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blackjack/webcam"
)

// V4L2 fourcc codes for the pixel formats the converter understands.
const (
	fourccMJPG = webcam.PixelFormat(0x47504A4D)
	fourccYUYV = webcam.PixelFormat(0x56595559)
)

type v4l2Device struct {
	cam     *webcam.Webcam
	name    string
	format  webcam.PixelFormat
	width   int
	height  int
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

func open(cfg Config) (Device, error) {
	paths := []string{cfg.Device}
	if cfg.Device == "" {
		paths = listVideoDevices()
		if len(paths) == 0 {
			return nil, errors.New("no camera found at /dev/video*")
		}
	}

	var lastErr error
	for _, path := range paths {
		dev, err := openPath(path, cfg)
		if err != nil {
			lastErr = err
			continue
		}
		return dev, nil
	}
	return nil, lastErr
}

func openPath(path string, cfg Config) (*v4l2Device, error) {
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open camera %s: %w", path, err)
	}

	format, err := pickFormat(cam)
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("camera %s: %w", path, err)
	}

	wantW, wantH := uint32(cfg.Width), uint32(cfg.Height)
	w, h := nearestFrameSize(cam.GetSupportedFrameSizes(format), wantW, wantH)
	format, w, h, err = cam.SetImageFormat(format, w, h)
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("camera format negotiation on %s: %w", path, err)
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, fmt.Errorf("camera streaming on %s: %w", path, err)
	}

	slog.Info("camera opened",
		"device", path,
		"format", formatName(format),
		"width", w,
		"height", h,
	)

	return &v4l2Device{
		cam:     cam,
		name:    path,
		format:  format,
		width:   int(w),
		height:  int(h),
		timeout: cfg.FrameTimeout,
	}, nil
}

// pickFormat prefers MJPEG for its lower USB bandwidth, falling back to
// raw YUYV.
func pickFormat(cam *webcam.Webcam) (webcam.PixelFormat, error) {
	formats := cam.GetSupportedFormats()
	if _, ok := formats[fourccMJPG]; ok {
		return fourccMJPG, nil
	}
	if _, ok := formats[fourccYUYV]; ok {
		return fourccYUYV, nil
	}

	names := make([]string, 0, len(formats))
	for _, name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return 0, fmt.Errorf("no supported pixel format (device offers: %s)", strings.Join(names, ", "))
}

// nearestFrameSize picks the supported size with the area closest to the
// requested one. Stepwise ranges are clamped and snapped to their step.
func nearestFrameSize(sizes []webcam.FrameSize, wantW, wantH uint32) (uint32, uint32) {
	if len(sizes) == 0 {
		return wantW, wantH
	}

	wantArea := int64(wantW) * int64(wantH)
	var bestW, bestH uint32
	var bestDiff int64 = -1

	for _, s := range sizes {
		w, h := s.MaxWidth, s.MaxHeight
		if s.StepWidth > 0 {
			w = snap(wantW, s.MinWidth, s.MaxWidth, s.StepWidth)
		}
		if s.StepHeight > 0 {
			h = snap(wantH, s.MinHeight, s.MaxHeight, s.StepHeight)
		}

		diff := int64(w)*int64(h) - wantArea
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff, bestW, bestH = diff, w, h
		}
	}
	return bestW, bestH
}

func snap(want, min, max, step uint32) uint32 {
	if want <= min {
		return min
	}
	if want >= max {
		return max
	}
	return min + ((want-min)/step)*step
}

func formatName(f webcam.PixelFormat) string {
	b := []byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	return string(b)
}

func (d *v4l2Device) Name() string { return d.name }

// NextFrame waits for the next frame and converts it for decoding. The
// one second wait slices keep the call responsive to Close.
func (d *v4l2Device) NextFrame() (image.Image, error) {
	deadline := time.Now().Add(d.timeout)
	for {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("camera frame timeout on %s", d.name)
		}

		err := d.cam.WaitForFrame(1)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			continue
		default:
			return nil, fmt.Errorf("camera read failed on %s: %w", d.name, err)
		}

		frame, err := d.cam.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("camera read failed on %s: %w", d.name, err)
		}
		if len(frame) == 0 {
			continue
		}

		switch d.format {
		case fourccMJPG:
			return decodeMJPEG(frame)
		case fourccYUYV:
			return yuyvToGray(frame, d.width, d.height)
		default:
			return nil, fmt.Errorf("camera delivered unexpected format %s", formatName(d.format))
		}
	}
}

func (d *v4l2Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	d.cam.StopStreaming()
	if err := d.cam.Close(); err != nil {
		return fmt.Errorf("close camera %s: %w", d.name, err)
	}
	slog.Info("camera released", "device", d.name)
	return nil
}
