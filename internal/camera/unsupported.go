//go:build !linux

package camera

import (
	"errors"
	"runtime"
)

func open(cfg Config) (Device, error) {
	return nil, errors.New("no camera support on " + runtime.GOOS)
}
