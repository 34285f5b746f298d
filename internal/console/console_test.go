package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"eventsphere-scanner/internal/api"
	"eventsphere-scanner/internal/attendance"
	"eventsphere-scanner/internal/scanner"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeEventAPI struct {
	event api.Event
}

func (f *fakeEventAPI) GetEvent(ctx context.Context, eventID int64) (*api.Event, error) {
	ev := f.event
	return &ev, nil
}

type fakeControl struct {
	tracker *attendance.Tracker
	manual  []string
	result  *scanner.ScanResult
}

func (f *fakeControl) ManualEntry(ctx context.Context, raw string) scanner.ScanResult {
	f.manual = append(f.manual, raw)
	return scanner.ScanResult{Success: true, Message: scanner.MsgPresenceMarked, At: time.Now()}
}

func (f *fakeControl) LastResult() (scanner.ScanResult, bool) {
	if f.result == nil {
		return scanner.ScanResult{}, false
	}
	return *f.result, true
}

func (f *fakeControl) Tracker() *attendance.Tracker {
	return f.tracker
}

func testControl(t *testing.T) *fakeControl {
	t.Helper()
	backend := &fakeEventAPI{event: api.Event{
		ID:   12,
		Name: "Go Conf",
		Participants: []api.Participant{
			{ID: 7, UserName: "João Silva", UserEmail: "joao@example.com", Status: api.StatusPresent},
			{ID: 8, UserName: "Maria Souza", UserEmail: "maria@example.com", Status: "CONFIRMED"},
		},
	}}
	tracker := attendance.NewTracker(backend, 12)
	if _, err := tracker.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	return &fakeControl{tracker: tracker}
}

func TestConsole_Ping(t *testing.T) {
	srv := New(testControl(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	srv.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pong") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestConsole_AttendanceCountsAndFilter(t *testing.T) {
	srv := New(testControl(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/attendance?q=joao", nil)
	srv.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Present      int               `json:"present"`
		Total        int               `json:"total"`
		Participants []api.Participant `json:"participants"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Present != 1 || body.Total != 2 {
		t.Errorf("counts = %d/%d, want 1/2", body.Present, body.Total)
	}
	// Accent-insensitive: "joao" finds "João Silva".
	if len(body.Participants) != 1 || body.Participants[0].ID != 7 {
		t.Errorf("participants = %+v", body.Participants)
	}
}

func TestConsole_ResultLifecycle(t *testing.T) {
	control := testControl(t)
	srv := New(control)

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/result", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status without result = %d, want 204", w.Code)
	}

	control.result = &scanner.ScanResult{Success: false, Message: scanner.MsgInvalidQRCode, At: time.Now()}
	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/result", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), scanner.MsgInvalidQRCode) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestConsole_ManualEntry(t *testing.T) {
	control := testControl(t)
	srv := New(control)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/manual", strings.NewReader(`{"code":"7:tok-9f"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(control.manual) != 1 || control.manual[0] != "7:tok-9f" {
		t.Errorf("manual calls = %v", control.manual)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/manual", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	srv.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d, want 400", w.Code)
	}
}
