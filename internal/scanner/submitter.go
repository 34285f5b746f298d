package scanner

import (
	"context"
	"log/slog"

	"eventsphere-scanner/internal/api"
	"eventsphere-scanner/internal/code"
)

// PresenceAPI is the slice of the backend client the submitter needs.
type PresenceAPI interface {
	MarkPresenceByQR(ctx context.Context, qrCode string) (*api.PresenceResponse, error)
	MarkPresenceManual(ctx context.Context, eventID int64, presenceCode string) (*api.PresenceResponse, error)
}

// Submitter sends validated presence codes to the server and classifies the
// outcome. Every failure mode comes back as a ScanResult value; nothing
// escapes to the caller as an error, the operator can always try again.
type Submitter struct {
	client PresenceAPI
	logger *slog.Logger
}

func NewSubmitter(client PresenceAPI) *Submitter {
	return &Submitter{
		client: client,
		logger: slog.With("component", "scanner"),
	}
}

// SubmitScanned handles a camera-decoded code. Malformed input is rejected
// before any network round trip.
func (s *Submitter) SubmitScanned(ctx context.Context, raw string) ScanResult {
	if !code.IsValid(raw) {
		return ScanResult{Success: false, Message: MsgInvalidFormat}
	}

	resp, err := s.client.MarkPresenceByQR(ctx, raw)
	return s.classify(resp, err)
}

// SubmitManual handles a hand-typed code scoped to an event. Same validation
// gate as the camera path.
func (s *Submitter) SubmitManual(ctx context.Context, eventID int64, raw string) ScanResult {
	if !code.IsValid(raw) {
		return ScanResult{Success: false, Message: MsgInvalidFormat}
	}

	resp, err := s.client.MarkPresenceManual(ctx, eventID, raw)
	return s.classify(resp, err)
}

func (s *Submitter) classify(resp *api.PresenceResponse, err error) ScanResult {
	if err != nil {
		s.logger.Warn("Presence submission failed", "error", err)
		return ScanResult{Success: false, Message: MsgConnectionError}
	}

	message := resp.Message
	if message == "" {
		if resp.Success {
			message = MsgPresenceMarked
		} else {
			message = MsgInvalidQRCode
		}
	}
	return ScanResult{Success: resp.Success, Message: message}
}
