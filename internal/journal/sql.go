package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

type SQLProvider struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSQLProvider(driverName string, dataSource string) (provider *SQLProvider) {
	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		slog.Error("Failed to open journal database", "driver", driverName, "error", err)
		return nil
	}

	logger := slog.With("component", "journal")

	return &SQLProvider{
		db:     db,
		logger: logger,
	}
}

func (p *SQLProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *SQLProvider) RecordScan(ctx context.Context, rec ScanRecord) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO scan_log (event_id, participant_id, success, message, station_id, scanned_at)
		VALUES (:event_id, :participant_id, :success, :message, :station_id, :scanned_at)`,
		rec)
	return err
}

func (p *SQLProvider) ListScans(ctx context.Context, eventID int64) ([]ScanRecord, error) {
	var records []ScanRecord
	err := p.db.SelectContext(ctx, &records, `
		SELECT id, event_id, participant_id, success, message, station_id, scanned_at
		FROM scan_log WHERE event_id = ? ORDER BY scanned_at, id`,
		eventID)
	return records, err
}

func (p *SQLProvider) PruneScans(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM scan_log WHERE scanned_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
