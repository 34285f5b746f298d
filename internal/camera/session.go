package camera

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
)

type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateScanning State = "scanning"
)

// Session manages at most one active capture stream over a Driver.
//
// The state machine is Idle -> Starting -> Scanning -> Idle. Switching
// devices goes through a brief Idle internally; two concurrent streams are
// never open. Every successful Start must be matched by exactly one Stop,
// and Stop is safe on every exit path including when nothing is active.
type Session struct {
	mu     sync.Mutex
	driver Driver
	logger *slog.Logger

	devices []Device
	enumErr error

	state   State
	stream  Stream
	current int // index into devices, -1 when none selected
	cons    Constraints
	torchOn bool
}

// NewSession enumerates devices once and returns an idle session. A failed
// enumeration is not fatal: the session reports no devices and Start returns
// ErrNoCamera, manual entry elsewhere keeps working.
func NewSession(driver Driver) *Session {
	s := &Session{
		driver:  driver,
		logger:  slog.With("component", "camera"),
		state:   StateIdle,
		current: -1,
		cons:    DefaultConstraints(),
	}

	devices, err := driver.Devices()
	if err != nil {
		s.logger.Warn("Device enumeration failed", "error", err)
		s.enumErr = err
		return s
	}
	s.devices = devices
	return s
}

// Devices returns the list enumerated at construction, possibly empty.
func (s *Session) Devices() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Device, len(s.devices))
	copy(out, s.devices)
	return out
}

// EnumerationError reports why the device list is empty, nil when
// enumeration worked.
func (s *Session) EnumerationError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enumErr
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveDevice returns the device of the open stream, ok=false when idle.
func (s *Session) ActiveDevice() (Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil || s.current < 0 {
		return Device{}, false
	}
	return s.devices[s.current], true
}

// StartOptions select the capture source. A pinned Device wins over the
// facing preference; with neither set the first enumerated device is used.
type StartOptions struct {
	Device *Device
	Facing Facing
	// Constraints overrides the defaults when non-zero.
	Constraints *Constraints
}

// Start opens a capture stream. Any previously open stream is torn down
// first. On failure the session is left idle and the error describes the
// cause; callers surface it as a status message, not a crash.
func (s *Session) Start(ctx context.Context, opts StartOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeStreamLocked()

	if len(s.devices) == 0 {
		return ErrNoCamera
	}

	dev := s.pickDeviceLocked(opts)
	cons := DefaultConstraints()
	if opts.Constraints != nil {
		cons = *opts.Constraints
	}
	if opts.Facing != "" {
		cons.Facing = opts.Facing
	}

	return s.openLocked(ctx, dev, cons)
}

// openLocked performs Starting -> Scanning. Callers hold s.mu.
func (s *Session) openLocked(ctx context.Context, dev Device, cons Constraints) error {
	s.state = StateStarting

	stream, err := s.driver.Open(ctx, dev.ID, cons)
	if err != nil {
		s.state = StateIdle
		return fmt.Errorf("camera: open device %q: %w", dev.ID, err)
	}

	s.stream = stream
	s.current = dev.Index
	s.cons = cons
	s.state = StateScanning
	s.logger.Info("Capture stream opened", "device", dev.ID, "label", dev.Label)
	return nil
}

func (s *Session) pickDeviceLocked(opts StartOptions) Device {
	if opts.Device != nil {
		return *opts.Device
	}
	if opts.Facing != "" {
		for _, d := range s.devices {
			if d.Facing == opts.Facing {
				return d
			}
		}
	}
	return s.devices[0]
}

// Stop releases the active stream. Idempotent; calling it with no active
// session is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeStreamLocked()
}

func (s *Session) closeStreamLocked() {
	if s.stream == nil {
		s.state = StateIdle
		return
	}
	if err := s.stream.Close(); err != nil {
		s.logger.Warn("Closing capture stream failed", "error", err)
	}
	s.stream = nil
	s.torchOn = false
	s.state = StateIdle
	s.logger.Debug("Capture stream released")
}

// Switch stops the current stream and reopens on the next device in the
// enumerated list, wrapping around. The constraints of the running session
// are kept. When idle it only moves the selection.
func (s *Session) Switch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.devices) == 0 {
		return ErrNoCamera
	}

	next := (s.current + 1) % len(s.devices)
	dev := s.devices[next]

	wasScanning := s.stream != nil
	s.closeStreamLocked()
	s.current = next

	if !wasScanning {
		return nil
	}
	return s.openLocked(ctx, dev, s.cons)
}

// Torch toggles the flashlight, best effort: an unsupported torch is logged
// and swallowed, only the absence of an active stream is an error.
func (s *Session) Torch(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return ErrNotScanning
	}
	if err := s.stream.SetTorch(on); err != nil {
		s.logger.Debug("Torch not available", "error", err)
		return nil
	}
	s.torchOn = on
	return nil
}

// TorchOn reports the last successfully applied torch state.
func (s *Session) TorchOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.torchOn
}

// Frame hands out the next frame of the active stream. After Stop it
// returns ErrNotScanning, which is how late decode ticks notice the
// session is gone without touching a torn-down stream.
func (s *Session) Frame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()

	if stream == nil {
		return nil, ErrNotScanning
	}
	return stream.Frame(ctx)
}
