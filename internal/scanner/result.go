package scanner

import (
	"sync"
	"time"
)

// RESULT_TTL is how long one scan outcome stays visible to the operator.
const RESULT_TTL = 3 * time.Second

// Operator-facing messages. These follow the wording of the EventSphere
// platform; server-provided messages always win over the fallbacks.
const (
	MsgPresenceMarked  = "Presença marcada com sucesso"
	MsgInvalidFormat   = "Formato do QR code inválido. Esperado participantId:token"
	MsgInvalidQRCode   = "QR Code inválido"
	MsgConnectionError = "Erro de conexão"
)

// ScanResult is the transient feedback for one submission attempt.
type ScanResult struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// resultBoard holds the currently displayed result. Results do not queue: a
// new one replaces whatever is showing, and each one clears itself after the
// display window.
type resultBoard struct {
	mu     sync.Mutex
	ttl    time.Duration
	result *ScanResult
	timer  *time.Timer
}

func newResultBoard(ttl time.Duration) *resultBoard {
	if ttl <= 0 {
		ttl = RESULT_TTL
	}
	return &resultBoard{ttl: ttl}
}

func (b *resultBoard) publish(r ScanResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	r.At = time.Now()
	b.result = &r

	shown := b.result
	b.timer = time.AfterFunc(b.ttl, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// Only clear if a later result has not replaced this one.
		if b.result == shown {
			b.result = nil
		}
	})
}

func (b *resultBoard) current() (ScanResult, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.result == nil {
		return ScanResult{}, false
	}
	return *b.result, true
}
