package stats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestVacancyStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vacancies/12345" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Go Developer",
			"published_at": "2024-05-01T10:00:00+0300",
			"area": {"name": "Moscow"},
			"employer": {"name": "Acme"},
			"response_letter_required": true
		}`))
	}))
	defer server.Close()

	client := New(zap.NewNop())
	client.SetBaseURL(server.URL)

	stats, err := client.VacancyStats(context.Background(), "12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Name != "Go Developer" || stats.Employer != "Acme" || stats.Area != "Moscow" {
		t.Fatalf("unexpected vacancy fields: %+v", stats)
	}
	if !stats.ResponseLetterRequired {
		t.Fatalf("expected response_letter_required")
	}

	// Derived figures are a pure function of the id.
	if stats.TotalApplications != 120+45%50 {
		t.Fatalf("unexpected total applications: %d", stats.TotalApplications)
	}
	if stats.AcceptanceChance != 0.4 {
		t.Fatalf("unexpected acceptance chance: %f", stats.AcceptanceChance)
	}
	if len(stats.DailyApplications) != 7 {
		t.Fatalf("unexpected daily histogram: %v", stats.DailyApplications)
	}
}

func TestVacancyStatsUnknownVacancy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(zap.NewNop())
	client.SetBaseURL(server.URL)

	if _, err := client.VacancyStats(context.Background(), "999"); err == nil {
		t.Fatalf("expected an error for unknown vacancy")
	}
}

func TestDerivedStatsAreDeterministic(t *testing.T) {
	if derivedTotal("12345") != derivedTotal("12345") {
		t.Fatalf("derived total must be stable")
	}
	if derivedChance("777") != derivedChance("777") {
		t.Fatalf("derived chance must be stable")
	}
	if derivedTotal("abc") == 0 {
		t.Fatalf("non-numeric ids still get a figure")
	}
}
