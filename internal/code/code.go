// Package code validates and parses EventSphere presence codes.
//
// A presence code is the string a participant carries in their QR badge,
// shaped "participantId:token". The backend generates and verifies them;
// this package only gates what is worth sending over the wire.
package code

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformed    = errors.New("presence code: malformed")
	ErrBadID        = errors.New("presence code: participant id is not a positive integer")
	ErrEmptyToken   = errors.New("presence code: empty token")
	ErrTooManyParts = errors.New("presence code: more than one separator")
)

// PresenceCode is a parsed "participantId:token" pair. It exists only for
// the duration of one scan or manual-entry attempt and is never stored.
type PresenceCode struct {
	ParticipantID int64
	Token         string
}

// String reassembles the wire form. For any code accepted by Parse,
// Parse(s).String() == s.
func (p PresenceCode) String() string {
	return fmt.Sprintf("%d:%s", p.ParticipantID, p.Token)
}

// IsValid reports whether raw is syntactically a presence code: exactly one
// ':' separating a run of decimal digits from a non-blank token. Both the
// camera path and manual entry go through this check before any network call.
func IsValid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// Parse validates raw and splits it into its parts.
func Parse(raw string) (PresenceCode, error) {
	if raw == "" || !strings.Contains(raw, ":") {
		return PresenceCode{}, ErrMalformed
	}

	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return PresenceCode{}, ErrTooManyParts
	}

	idPart, tokenPart := parts[0], parts[1]
	if idPart == "" || !isDigits(idPart) {
		return PresenceCode{}, ErrBadID
	}
	if strings.TrimSpace(tokenPart) == "" {
		return PresenceCode{}, ErrEmptyToken
	}

	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		// Digits only but out of int64 range.
		return PresenceCode{}, fmt.Errorf("%w: %v", ErrBadID, err)
	}

	return PresenceCode{ParticipantID: id, Token: tokenPart}, nil
}

// isDigits reports whether s is one or more ASCII digits. strconv accepts
// signs and surrounding behavior we do not want, so check explicitly.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
