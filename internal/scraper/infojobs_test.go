package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
)

type fakeOfferStore struct {
	mu sync.Mutex

	sourcesByName map[string]uuid.UUID
	offersByKey   map[string]models.JobOffer
	deactivated   int
}

func newFakeOfferStore() *fakeOfferStore {
	return &fakeOfferStore{
		sourcesByName: map[string]uuid.UUID{},
		offersByKey:   map[string]models.JobOffer{},
	}
}

func (s *fakeOfferStore) EnsureSource(name, baseURL string) (*models.JobSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.sourcesByName[name]
	if !ok {
		id = uuid.New()
		s.sourcesByName[name] = id
	}
	return &models.JobSource{ID: id, Name: name, BaseURL: baseURL}, nil
}

func (s *fakeOfferStore) Upsert(offer *models.JobOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := offer.SourceID.String() + "|" + offer.ExternalJobID
	if existing, ok := s.offersByKey[key]; ok {
		offer.ID = existing.ID
	}
	s.offersByKey[key] = *offer
	return nil
}

func (s *fakeOfferStore) DeactivateBySource(sourceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deactivated++
	for k, o := range s.offersByKey {
		if o.SourceID == sourceID {
			o.IsActive = false
			s.offersByKey[k] = o
		}
	}
	return nil
}

const infojobsListHTML = `<html><body>
<div class="sui-AtomCard-info">
  <a class="ij-OfferCardContent-description-title-link" href="/de-madrid/backend/of-if2a3b4c5">Backend Developer</a>
  <a class="ij-OfferCardContent-description-subtitle-link">Acme Iberia</a>
  <p class="ij-OfferCardContent-description-description">Equipo backend en Go.</p>
  <span class="ij-OfferCardContent-description-list-item-truncate">Madrid</span>
  <span class="ij-OfferCardContent-description-list-item-truncate">Híbrido</span>
  <span class="ij-OfferCardContent-description-list-item-truncate">21.000€ - 30.000€ Bruto/año</span>
  <span class="ij-OfferCardContent-description-list-item-truncate">hace 3h</span>
</div>
<div class="sui-AtomCard-info">
  <a class="ij-OfferCardContent-description-title-link" href="/sin-id/oferta-rara">Oferta sin identificador</a>
</div>
</body></html>`

func TestInfoJobsScraper_SuccessAndIdempotent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ofertas-trabajo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, infojobsListHTML)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := newFakeOfferStore()
	s := NewInfoJobsScraperWithBaseURL(store, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Scrape(ctx, 1, 3); err != nil {
		t.Fatalf("scrape error: %v", err)
	}
	if err := s.Scrape(ctx, 1, 3); err != nil {
		t.Fatalf("scrape error (2nd): %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if got := len(store.offersByKey); got != 1 {
		t.Fatalf("expected 1 offer upserted, got %d", got)
	}
	for _, o := range store.offersByKey {
		if o.ExternalJobID != "if2a3b4c5" {
			t.Fatalf("unexpected external id %q", o.ExternalJobID)
		}
		if o.Title != "Backend Developer" || o.Company != "Acme Iberia" {
			t.Fatalf("card fields not captured: %+v", o)
		}
		if o.Location != "Madrid" || o.WorkMode != "Híbrido" {
			t.Fatalf("location/work mode not classified: %+v", o)
		}
		if o.SalaryMin == nil || o.SalaryMax == nil || *o.SalaryMin != 21000 || *o.SalaryMax != 30000 {
			t.Fatalf("salary not parsed: %+v", o)
		}
		if o.SalaryCurrency != "EUR" {
			t.Fatalf("expected EUR currency, got %q", o.SalaryCurrency)
		}
		if o.PostedAt == nil {
			t.Fatal("expected posted_at from relative timestamp")
		}
		if !o.IsActive {
			t.Fatal("scraped offer should be active")
		}
	}
	if store.deactivated != 2 {
		t.Fatalf("expected a deactivation pass per run, got %d", store.deactivated)
	}
}

func TestParseExternalID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.infojobs.net/madrid/backend/of-if2a3b4c5?applicationOrigin=search", "if2a3b4c5"},
		{"/de-madrid/of-abc123", "abc123"},
		{"https://www.infojobs.net/ofertas-trabajo", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ParseExternalID(tc.url); got != tc.want {
			t.Errorf("ParseExternalID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestParseSalary(t *testing.T) {
	lo, hi, cur := ParseSalary("21.000€ - 30.000€ Bruto/año")
	if lo == nil || hi == nil || *lo != 21000 || *hi != 30000 || cur != "EUR" {
		t.Fatalf("range salary: got %v %v %q", lo, hi, cur)
	}

	lo, hi, cur = ParseSalary("24.000€ Bruto/año")
	if lo == nil || hi == nil || *lo != 24000 || *hi != 24000 || cur != "EUR" {
		t.Fatalf("single figure should fill both bounds: got %v %v %q", lo, hi, cur)
	}

	if lo, hi, cur = ParseSalary("Salario no disponible"); lo != nil || hi != nil || cur != "" {
		t.Fatalf("unavailable salary should be nil, got %v %v %q", lo, hi, cur)
	}

	if lo, hi, cur = ParseSalary(""); lo != nil || hi != nil || cur != "" {
		t.Fatalf("empty salary should be nil, got %v %v %q", lo, hi, cur)
	}
}

func TestParsePostedAt(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	if got := ParsePostedAt("hace 30m", now); got == nil || !got.Equal(now.Add(-30*time.Minute)) {
		t.Fatalf("minutes: got %v", got)
	}
	if got := ParsePostedAt("hace 3h", now); got == nil || !got.Equal(now.Add(-3*time.Hour)) {
		t.Fatalf("hours: got %v", got)
	}
	if got := ParsePostedAt("hace 2 días", now); got == nil || !got.Equal(now.Add(-48*time.Hour)) {
		t.Fatalf("days: got %v", got)
	}
	if got := ParsePostedAt("Hace 1 día", now); got == nil || !got.Equal(now.Add(-24*time.Hour)) {
		t.Fatalf("singular day: got %v", got)
	}
	if got := ParsePostedAt("ayer", now); got != nil {
		t.Fatalf("unparseable input should be nil, got %v", got)
	}
	if got := ParsePostedAt("", now); got != nil {
		t.Fatalf("empty input should be nil, got %v", got)
	}
}
