package console

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"eventsphere-scanner/internal/api"
)

// fold lowercases and strips combining marks so "João" matches "joao".
// Participant names come from a pt-BR user base, operators type without
// accents at the door.
func fold(s string) string {
	// Transformers carry state, build the chain per call.
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// FilterParticipants returns the participants whose name or email contains
// the query, accent- and case-insensitively. An empty query returns the
// input unchanged.
func FilterParticipants(list []api.Participant, query string) []api.Participant {
	query = strings.TrimSpace(query)
	if query == "" {
		return list
	}

	needle := fold(query)
	var out []api.Participant
	for _, p := range list {
		if strings.Contains(fold(p.UserName), needle) || strings.Contains(fold(p.UserEmail), needle) {
			out = append(out, p)
		}
	}
	return out
}
