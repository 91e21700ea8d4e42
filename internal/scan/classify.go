package scan

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// classifyCameraError rewrites device errors into the camera error
// vocabulary the message catalog recognizes, so users see "grant camera
// access" instead of a raw errno.
func classifyCameraError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EACCES):
		return fmt.Errorf("camera permission denied: %w", err)
	case errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENODEV) || errors.Is(err, syscall.ENXIO):
		return fmt.Errorf("no camera available: %w", err)
	case errors.Is(err, syscall.EBUSY):
		return fmt.Errorf("camera busy: %w", err)
	}

	// Errors produced inside this package already name the camera.
	if strings.Contains(strings.ToLower(err.Error()), "camera") {
		return err
	}
	return fmt.Errorf("camera error: %w", err)
}
