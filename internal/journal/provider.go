// Package journal keeps a local audit trail of scan outcomes.
//
// Each record holds who was scanned, whether the server accepted it and
// which station did it. The presence token is deliberately never written:
// codes are transient and replay protection lives on the server.
package journal

import (
	"context"
	"log/slog"
	"time"

	"eventsphere-scanner/internal/config"
)

type ScanRecord struct {
	ID            int64     `db:"id"`
	EventID       int64     `db:"event_id"`
	ParticipantID int64     `db:"participant_id"`
	Success       bool      `db:"success"`
	Message       string    `db:"message"`
	StationID     string    `db:"station_id"`
	ScannedAt     time.Time `db:"scanned_at"`
}

type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	RecordScan(ctx context.Context, rec ScanRecord) error
	ListScans(ctx context.Context, eventID int64) ([]ScanRecord, error)
	PruneScans(ctx context.Context, olderThan time.Time) (int64, error)
}

func NewProvider(cfg *config.Storage) Provider {
	switch {
	case cfg.SQLite != nil:
		provider := NewSQLiteProvider(cfg)
		if provider == nil {
			return nil
		}
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run journal migrations", "error", err)
			return nil
		}
		return provider

	default:
		slog.Error("Unsupported journal storage configuration", "config", cfg)
	}

	return nil
}

// Recorder binds a provider to one scanning session so every submission
// outcome lands in the journal with its event and station.
type Recorder struct {
	provider  Provider
	eventID   int64
	stationID string
}

func NewRecorder(provider Provider, eventID int64, stationID string) *Recorder {
	return &Recorder{provider: provider, eventID: eventID, stationID: stationID}
}

func (r *Recorder) Record(ctx context.Context, participantID int64, success bool, message string) error {
	return r.provider.RecordScan(ctx, ScanRecord{
		EventID:       r.eventID,
		ParticipantID: participantID,
		Success:       success,
		Message:       message,
		StationID:     r.stationID,
		ScannedAt:     time.Now().UTC(),
	})
}
