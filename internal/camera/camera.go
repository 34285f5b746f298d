// Package camera owns the lifecycle of a video capture stream.
//
// Platform capture hardware sits behind the Driver interface; the Session
// type implements the enumeration, start/stop, device switching and torch
// handling on top of whatever driver is plugged in. Frames come out as
// image.Image so the decode side never touches device-level APIs.
package camera

import (
	"context"
	"errors"
	"image"
)

type Facing string

const (
	FacingUser        Facing = "user"        // front-facing
	FacingEnvironment Facing = "environment" // rear-facing
)

var (
	ErrNoCamera         = errors.New("camera: no capture device available")
	ErrNotScanning      = errors.New("camera: no active stream")
	ErrTorchUnsupported = errors.New("camera: torch not supported by device")
	ErrNoMoreFrames     = errors.New("camera: stream has no more frames")
)

// Device is one enumerated capture source. The label may be empty until the
// platform has granted capture permission.
type Device struct {
	ID     string
	Label  string
	Index  int
	Facing Facing
}

// Constraints are the capture parameters requested when opening a stream.
// Drivers treat ideal values as hints and minimum values as hard floors.
type Constraints struct {
	IdealWidth  int
	IdealHeight int
	MinWidth    int
	MinHeight   int
	FrameRate   int
	Facing      Facing
}

// DefaultConstraints matches what the scanning workflow asks for: 1280x720
// ideal with a 640x480 floor at 30 fps, rear camera preferred.
func DefaultConstraints() Constraints {
	return Constraints{
		IdealWidth:  1280,
		IdealHeight: 720,
		MinWidth:    640,
		MinHeight:   480,
		FrameRate:   30,
		Facing:      FacingEnvironment,
	}
}

// Stream is an open capture pipeline. Exactly one exists per session at any
// time; Close releases the underlying device tracks and is safe to call once.
type Stream interface {
	// Frame blocks until the next frame is available or ctx is done.
	Frame(ctx context.Context) (image.Image, error)
	// SetTorch toggles the device flashlight. Returns ErrTorchUnsupported
	// when the device has no torch capability.
	SetTorch(on bool) error
	Close() error
}

// Driver enumerates capture devices and opens streams on them.
type Driver interface {
	Devices() ([]Device, error)
	// Open acquires the device and blocks until the platform grants access
	// or ctx is done.
	Open(ctx context.Context, deviceID string, c Constraints) (Stream, error)
}
