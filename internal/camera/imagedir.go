package camera

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ImageDirDriver serves frames from directories of still images. Each
// directory is exposed as one capture device; frames are the contained
// PNG/JPEG files in filename order.
//
// This is the driver used by the CLI for scanning from screenshots or
// exported badge images, and by tests. Live hardware capture plugs in
// behind the same Driver interface.
type ImageDirDriver struct {
	// Dirs maps each directory to a device, in order.
	Dirs []string
	// Loop wraps back to the first frame after the last one. When false the
	// stream reports ErrNoMoreFrames once exhausted.
	Loop bool
}

func NewImageDirDriver(loop bool, dirs ...string) *ImageDirDriver {
	return &ImageDirDriver{Dirs: dirs, Loop: loop}
}

func (d *ImageDirDriver) Devices() ([]Device, error) {
	devices := make([]Device, 0, len(d.Dirs))
	for i, dir := range d.Dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("imagedir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("imagedir: %s is not a directory", dir)
		}
		facing := FacingEnvironment
		if i > 0 {
			// Second directory plays the front camera so device switching
			// can be exercised without hardware.
			facing = FacingUser
		}
		devices = append(devices, Device{
			ID:     dir,
			Label:  filepath.Base(dir),
			Index:  i,
			Facing: facing,
		})
	}
	return devices, nil
}

func (d *ImageDirDriver) Open(ctx context.Context, deviceID string, _ Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(deviceID)
	if err != nil {
		return nil, fmt.Errorf("imagedir: %w", err)
	}

	var frames []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			frames = append(frames, filepath.Join(deviceID, e.Name()))
		}
	}
	sort.Strings(frames)

	if len(frames) == 0 {
		return nil, fmt.Errorf("imagedir: no image files in %s", deviceID)
	}

	return &imageDirStream{frames: frames, loop: d.Loop}, nil
}

type imageDirStream struct {
	mu     sync.Mutex
	frames []string
	next   int
	loop   bool
	closed bool
}

func (s *imageDirStream) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrNotScanning
	}
	if s.next >= len(s.frames) {
		if !s.loop {
			return nil, ErrNoMoreFrames
		}
		s.next = 0
	}

	path := s.frames[s.next]
	s.next++

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imagedir: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imagedir: decode %s: %w", path, err)
	}
	return img, nil
}

func (s *imageDirStream) SetTorch(bool) error {
	return ErrTorchUnsupported
}

func (s *imageDirStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
