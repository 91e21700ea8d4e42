// Package camera acquires frames from a local V4L2 capture device and
// hands them over as image.Image values ready for barcode decoding.
//
// Open negotiates a pixel format the converter understands (MJPEG
// preferred, raw YUYV as fallback) and the frame size closest to the
// configured one. Frame conversion keeps only what decoding needs: YUYV
// frames are reduced to their luminance plane.
package camera

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Config selects and shapes the capture device.
type Config struct {
	// Device is the device path, for example /dev/video0. Empty probes
	// /dev/video* and uses the first device that opens.
	Device string

	// Width and Height are the ideal frame size. The device may
	// negotiate a different one; decoding copes with either.
	Width  int
	Height int

	// FrameTimeout bounds the wait for a single frame.
	FrameTimeout time.Duration
}

// Device is one open capture device delivering decoded frames.
type Device interface {
	// NextFrame blocks until a frame arrives or the frame timeout
	// passes. The returned image is only valid until the next call.
	NextFrame() (image.Image, error)

	// Name returns the device path for diagnostics.
	Name() string

	// Close releases the device. Safe to call more than once.
	Close() error
}

// Open acquires the configured capture device.
func Open(cfg Config) (Device, error) {
	if cfg.FrameTimeout <= 0 {
		cfg.FrameTimeout = 5 * time.Second
	}
	return open(cfg)
}

// Probe reports whether a capture device appears to be present, without
// opening it. The detail names the device or explains its absence.
func Probe(cfg Config) (bool, string) {
	if cfg.Device != "" {
		if _, err := os.Stat(cfg.Device); err != nil {
			return false, fmt.Sprintf("no camera found at %s", cfg.Device)
		}
		return true, cfg.Device
	}

	devices := listVideoDevices()
	if len(devices) == 0 {
		return false, "no camera found at /dev/video*"
	}
	return true, devices[0]
}

// listVideoDevices returns the V4L2 device nodes in stable order.
func listVideoDevices() []string {
	matches, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}
