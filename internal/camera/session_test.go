package camera

import (
	"context"
	"errors"
	"image"
	"testing"
)

// fakeDriver hands out fakeStreams and remembers every stream it opened so
// tests can check release behavior across the session lifecycle.
type fakeDriver struct {
	devices []Device
	enumErr error
	openErr error
	torch   bool
	opened  []*fakeStream
}

func (d *fakeDriver) Devices() ([]Device, error) {
	return d.devices, d.enumErr
}

func (d *fakeDriver) Open(ctx context.Context, deviceID string, c Constraints) (Stream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	st := &fakeStream{deviceID: deviceID, torchSupported: d.torch}
	d.opened = append(d.opened, st)
	return st, nil
}

type fakeStream struct {
	deviceID       string
	closed         bool
	torchSupported bool
	torchOn        bool
}

func (s *fakeStream) Frame(ctx context.Context) (image.Image, error) {
	if s.closed {
		return nil, ErrNotScanning
	}
	return image.NewGray(image.Rect(0, 0, 4, 4)), nil
}

func (s *fakeStream) SetTorch(on bool) error {
	if !s.torchSupported {
		return ErrTorchUnsupported
	}
	s.torchOn = on
	return nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

func twoCameras() *fakeDriver {
	return &fakeDriver{devices: []Device{
		{ID: "back", Label: "Back Camera", Index: 0, Facing: FacingEnvironment},
		{ID: "front", Label: "Front Camera", Index: 1, Facing: FacingUser},
	}}
}

func TestSession_StopWithoutStartIsNoop(t *testing.T) {
	s := NewSession(twoCameras())
	s.Stop()
	s.Stop()
	if got := s.State(); got != StateIdle {
		t.Fatalf("state = %v, want idle", got)
	}
}

func TestSession_StartStopStartReacquires(t *testing.T) {
	ctx := context.Background()
	drv := twoCameras()
	s := NewSession(drv)

	for cycle := 0; cycle < 3; cycle++ {
		if err := s.Start(ctx, StartOptions{}); err != nil {
			t.Fatalf("cycle %d: Start failed: %v", cycle, err)
		}
		if got := s.State(); got != StateScanning {
			t.Fatalf("cycle %d: state = %v, want scanning", cycle, got)
		}
		s.Stop()
		if got := s.State(); got != StateIdle {
			t.Fatalf("cycle %d: state after stop = %v, want idle", cycle, got)
		}
	}

	if len(drv.opened) != 3 {
		t.Fatalf("opened %d streams, want 3", len(drv.opened))
	}
	for i, st := range drv.opened {
		if !st.closed {
			t.Errorf("stream %d not released", i)
		}
	}
}

func TestSession_StartFailureLeavesIdle(t *testing.T) {
	drv := twoCameras()
	drv.openErr = errors.New("permission denied")
	s := NewSession(drv)

	err := s.Start(context.Background(), StartOptions{})
	if err == nil {
		t.Fatal("Start should fail")
	}
	if got := s.State(); got != StateIdle {
		t.Fatalf("state = %v, want idle after failed start", got)
	}
}

func TestSession_NoDevices(t *testing.T) {
	drv := &fakeDriver{enumErr: errors.New("no media capture capability")}
	s := NewSession(drv)

	if got := len(s.Devices()); got != 0 {
		t.Fatalf("devices = %d, want 0", got)
	}
	if s.EnumerationError() == nil {
		t.Fatal("enumeration error should be reported")
	}
	if err := s.Start(context.Background(), StartOptions{}); !errors.Is(err, ErrNoCamera) {
		t.Fatalf("Start error = %v, want ErrNoCamera", err)
	}
}

func TestSession_FacingPreferencePicksDevice(t *testing.T) {
	drv := twoCameras()
	s := NewSession(drv)

	if err := s.Start(context.Background(), StartOptions{Facing: FacingUser}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	dev, ok := s.ActiveDevice()
	if !ok || dev.ID != "front" {
		t.Fatalf("active device = %+v, want front", dev)
	}
}

func TestSession_SwitchClosesPreviousStream(t *testing.T) {
	ctx := context.Background()
	drv := twoCameras()
	s := NewSession(drv)

	if err := s.Start(ctx, StartOptions{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Switch(ctx); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	defer s.Stop()

	if len(drv.opened) != 2 {
		t.Fatalf("opened %d streams, want 2", len(drv.opened))
	}
	if !drv.opened[0].closed {
		t.Error("previous stream still open after switch")
	}
	if drv.opened[1].closed {
		t.Error("new stream is not live")
	}

	dev, _ := s.ActiveDevice()
	if dev.ID != "front" {
		t.Errorf("active device = %q, want front", dev.ID)
	}

	// Wrap-around: switching again returns to the first device.
	if err := s.Switch(ctx); err != nil {
		t.Fatalf("second Switch failed: %v", err)
	}
	dev, _ = s.ActiveDevice()
	if dev.ID != "back" {
		t.Errorf("active device after wrap = %q, want back", dev.ID)
	}
}

func TestSession_TorchBestEffort(t *testing.T) {
	drv := twoCameras() // torch unsupported
	s := NewSession(drv)

	if err := s.Torch(true); !errors.Is(err, ErrNotScanning) {
		t.Fatalf("Torch while idle = %v, want ErrNotScanning", err)
	}

	if err := s.Start(context.Background(), StartOptions{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	// Unsupported torch is swallowed.
	if err := s.Torch(true); err != nil {
		t.Fatalf("Torch on unsupported device = %v, want nil", err)
	}
	if s.TorchOn() {
		t.Error("torch state should stay off when unsupported")
	}

	drv2 := twoCameras()
	drv2.torch = true
	s2 := NewSession(drv2)
	if err := s2.Start(context.Background(), StartOptions{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s2.Stop()
	if err := s2.Torch(true); err != nil {
		t.Fatalf("Torch failed: %v", err)
	}
	if !s2.TorchOn() {
		t.Error("torch should be on")
	}
}

func TestSession_FrameAfterStop(t *testing.T) {
	s := NewSession(twoCameras())
	if err := s.Start(context.Background(), StartOptions{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := s.Frame(context.Background()); err != nil {
		t.Fatalf("Frame while scanning failed: %v", err)
	}
	s.Stop()
	if _, err := s.Frame(context.Background()); !errors.Is(err, ErrNotScanning) {
		t.Fatalf("Frame after stop = %v, want ErrNotScanning", err)
	}
}
