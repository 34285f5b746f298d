package journal

import (
	"context"
	"testing"
	"time"

	"eventsphere-scanner/internal/config"
)

func memoryProvider(t *testing.T) Provider {
	t.Helper()
	cfg := &config.Storage{SQLite: &config.SQLiteStorage{Path: ":memory:"}}
	p := NewProvider(cfg)
	if p == nil {
		t.Fatal("provider init failed")
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestProvider_MigratesAndRecords(t *testing.T) {
	ctx := context.Background()
	p := memoryProvider(t)

	version, err := p.GetSchemaVersion(ctx)
	if err != nil {
		t.Fatalf("GetSchemaVersion failed: %v", err)
	}
	if version < 1 {
		t.Fatalf("schema version = %d, migrations did not run", version)
	}

	rec := ScanRecord{
		EventID:       12,
		ParticipantID: 7,
		Success:       true,
		Message:       "Presença marcada com sucesso",
		StationID:     "door-1",
		ScannedAt:     time.Now().UTC(),
	}
	if err := p.RecordScan(ctx, rec); err != nil {
		t.Fatalf("RecordScan failed: %v", err)
	}

	records, err := p.ListScans(ctx, 12)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	got := records[0]
	if got.ParticipantID != 7 || !got.Success || got.StationID != "door-1" {
		t.Fatalf("record = %+v", got)
	}

	// Other events are not visible.
	records, err = p.ListScans(ctx, 99)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records for foreign event = %d, want 0", len(records))
	}
}

func TestProvider_PruneScans(t *testing.T) {
	ctx := context.Background()
	p := memoryProvider(t)

	old := ScanRecord{EventID: 12, ParticipantID: 7, ScannedAt: time.Now().UTC().Add(-48 * time.Hour)}
	fresh := ScanRecord{EventID: 12, ParticipantID: 8, Success: true, ScannedAt: time.Now().UTC()}
	for _, rec := range []ScanRecord{old, fresh} {
		if err := p.RecordScan(ctx, rec); err != nil {
			t.Fatalf("RecordScan failed: %v", err)
		}
	}

	pruned, err := p.PruneScans(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneScans failed: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}

	records, _ := p.ListScans(ctx, 12)
	if len(records) != 1 || records[0].ParticipantID != 8 {
		t.Fatalf("remaining = %+v", records)
	}
}

func TestRecorder_NeverStoresTheCode(t *testing.T) {
	ctx := context.Background()
	p := memoryProvider(t)

	rec := NewRecorder(p, 12, "door-1")
	if err := rec.Record(ctx, 7, false, "Token inválido"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	records, _ := p.ListScans(ctx, 12)
	if len(records) != 1 {
		t.Fatalf("records = %d", len(records))
	}
	if records[0].EventID != 12 || records[0].StationID != "door-1" || records[0].Success {
		t.Fatalf("record = %+v", records[0])
	}
}
