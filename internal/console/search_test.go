package console

import (
	"testing"

	"eventsphere-scanner/internal/api"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"João":        "joao",
		"CONCEIÇÃO":   "conceicao",
		"André Luís":  "andre luis",
		"plain ascii": "plain ascii",
	}
	for in, want := range cases {
		if got := fold(in); got != want {
			t.Errorf("fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterParticipants(t *testing.T) {
	list := []api.Participant{
		{ID: 1, UserName: "João Silva", UserEmail: "joao@example.com"},
		{ID: 2, UserName: "Maria Conceição", UserEmail: "maria@example.com"},
		{ID: 3, UserName: "Pedro Alves", UserEmail: "pedro@example.com"},
	}

	got := FilterParticipants(list, "conceicao")
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("accent query = %+v", got)
	}

	got = FilterParticipants(list, "PEDRO@")
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("email query = %+v", got)
	}

	if got := FilterParticipants(list, "  "); len(got) != 3 {
		t.Errorf("blank query filtered to %d", len(got))
	}

	if got := FilterParticipants(list, "nobody"); len(got) != 0 {
		t.Errorf("miss query = %+v", got)
	}
}
