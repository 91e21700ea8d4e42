package scan

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/LeoAbril98/localizar/internal/core"
)

func TestClassifyCameraError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
		wantCode string
	}{
		{
			name:     "permission sentinel",
			err:      fmt.Errorf("open /dev/video0: %w", os.ErrPermission),
			wantText: "camera permission denied",
			wantCode: "CAM001",
		},
		{
			name:     "eacces errno",
			err:      &os.PathError{Op: "open", Path: "/dev/video0", Err: syscall.EACCES},
			wantText: "camera permission denied",
			wantCode: "CAM001",
		},
		{
			name:     "missing device",
			err:      &os.PathError{Op: "open", Path: "/dev/video0", Err: syscall.ENOENT},
			wantText: "no camera available",
			wantCode: "CAM002",
		},
		{
			name:     "no such device errno",
			err:      &os.PathError{Op: "ioctl", Path: "/dev/video0", Err: syscall.ENODEV},
			wantText: "no camera available",
			wantCode: "CAM002",
		},
		{
			name:     "busy device",
			err:      &os.PathError{Op: "open", Path: "/dev/video0", Err: syscall.EBUSY},
			wantText: "camera busy",
			wantCode: "CAM003",
		},
		{
			name:     "already classified",
			err:      errors.New("camera frame timeout on /dev/video0"),
			wantText: "camera frame timeout",
			wantCode: "CAM004",
		},
		{
			name:     "unknown error",
			err:      errors.New("ioctl failed"),
			wantText: "camera error",
			wantCode: "CAM004",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyCameraError(tt.err)
			if got == nil {
				t.Fatal("classifyCameraError returned nil")
			}
			if !strings.Contains(got.Error(), tt.wantText) {
				t.Errorf("error = %q, want substring %q", got, tt.wantText)
			}
			if code := core.MapError(got).Code; code != tt.wantCode {
				t.Errorf("MapError code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestClassifyCameraErrorNil(t *testing.T) {
	if got := classifyCameraError(nil); got != nil {
		t.Errorf("classifyCameraError(nil) = %v, want nil", got)
	}
}

func TestClassifyKeepsCause(t *testing.T) {
	cause := &os.PathError{Op: "open", Path: "/dev/video0", Err: syscall.EACCES}
	got := classifyCameraError(cause)
	if !errors.Is(got, syscall.EACCES) {
		t.Error("classified error lost its cause")
	}
}
