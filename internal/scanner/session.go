package scanner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"eventsphere-scanner/internal/attendance"
	"eventsphere-scanner/internal/camera"
	"eventsphere-scanner/internal/code"
	"eventsphere-scanner/internal/decode"
)

var ErrSessionActive = errors.New("scanner: session already running")

// ScanRecorder receives the outcome of every submission attempt, for the
// local journal. The presence token itself is never handed out, only the
// participant id when the code parsed.
type ScanRecorder interface {
	Record(ctx context.Context, participantID int64, success bool, message string) error
}

// Options tune a scanning session. Zero values fall back to the defaults
// used at the door.
type Options struct {
	Interval  time.Duration
	ResultTTL time.Duration
	Recorder  ScanRecorder
}

// Session is the whole scanning workflow for one event: camera frames feed
// the decode loop, candidates pass the validator, validated codes go to the
// server and every success refreshes the attendance snapshot.
//
// Manual entry shares everything but the camera: it enters the pipeline at
// the validation gate and works even when no capture device is available.
type Session struct {
	cam     *camera.Session
	loop    *decode.Loop
	submit  *Submitter
	tracker *attendance.Tracker
	board   *resultBoard
	rec     ScanRecorder
	logger  *slog.Logger

	mu     sync.Mutex
	active atomic.Bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSession(cam *camera.Session, dec decode.Decoder, submit *Submitter, tracker *attendance.Tracker, opts Options) *Session {
	return &Session{
		cam:     cam,
		loop:    decode.NewLoop(dec, opts.Interval),
		submit:  submit,
		tracker: tracker,
		board:   newResultBoard(opts.ResultTTL),
		rec:     opts.Recorder,
		logger:  slog.With("component", "scanner", "event_id", tracker.EventID()),
	}
}

// Start refreshes the attendance snapshot, opens the camera and launches
// the decode loop. A failed camera start leaves nothing running; the caller
// reports the error and manual entry stays available.
func (s *Session) Start(ctx context.Context, camOpts camera.StartOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active.Load() {
		return ErrSessionActive
	}

	if _, err := s.tracker.Refresh(ctx); err != nil {
		return err
	}

	if err := s.cam.Start(ctx, camOpts); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.active.Store(true)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop.Run(loopCtx, s.cam, s.handleCandidate)
	}()

	s.logger.Info("Scanning session started")
	return nil
}

// Stop cancels the decode loop, waits until no tick is in flight, then
// releases the camera. Idempotent; submissions already on the wire finish
// in the background and their results are discarded.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.cam.Stop()
	s.logger.Info("Scanning session stopped")
}

// handleCandidate runs on a decode-loop goroutine for every payload the
// decoder found. Scanning continues while the submission is in flight.
func (s *Session) handleCandidate(raw string) {
	if !s.active.Load() {
		return
	}

	// The submission is deliberately detached from the loop context: a call
	// already in flight when the session stops is allowed to complete, the
	// client's ambient timeout bounds it.
	result := s.submit.SubmitScanned(context.Background(), raw)

	if !s.active.Load() {
		// Stale: the session stopped while we were talking to the server.
		s.logger.Debug("Discarding result of stopped session")
		return
	}
	s.publish(context.Background(), raw, result)
}

// ManualEntry submits a hand-typed code through the same validation and
// result pipeline as scanned codes.
func (s *Session) ManualEntry(ctx context.Context, raw string) ScanResult {
	result := s.submit.SubmitManual(ctx, s.tracker.EventID(), raw)
	s.publish(ctx, raw, result)
	return result
}

func (s *Session) publish(ctx context.Context, raw string, result ScanResult) {
	s.board.publish(result)

	if s.rec != nil {
		participantID := int64(0)
		if parsed, err := code.Parse(raw); err == nil {
			participantID = parsed.ParticipantID
		}
		if err := s.rec.Record(ctx, participantID, result.Success, result.Message); err != nil {
			s.logger.Warn("Journal write failed", "error", err)
		}
	}

	if result.Success {
		// Server truth changed; the snapshot must follow.
		if _, err := s.tracker.Refresh(ctx); err != nil {
			s.logger.Warn("Post-submission refresh failed", "error", err)
		}
	}
}

// LastResult returns the result currently inside its display window.
func (s *Session) LastResult() (ScanResult, bool) {
	return s.board.current()
}

// Camera exposes the session's camera for torch and device switching.
func (s *Session) Camera() *camera.Session {
	return s.cam
}

// Tracker exposes the attendance state for display surfaces.
func (s *Session) Tracker() *attendance.Tracker {
	return s.tracker
}
