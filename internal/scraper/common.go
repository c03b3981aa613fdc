package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
)

// OfferStore is the slice of the offer repository the scrapers need.
type OfferStore interface {
	EnsureSource(name, baseURL string) (*models.JobSource, error)
	Upsert(offer *models.JobOffer) error
	DeactivateBySource(sourceID uuid.UUID) error
}

// Listing is a portal-agnostic scraped job posting.
type Listing struct {
	ExternalID     string
	Title          string
	Company        string
	Location       string
	WorkMode       string
	SalaryMin      *int
	SalaryMax      *int
	SalaryCurrency string
	Description    string
	URL            string
	PostedAt       *time.Time
}

func storeListing(store OfferStore, sourceID uuid.UUID, l Listing) error {
	if strings.TrimSpace(l.ExternalID) == "" {
		return fmt.Errorf("listing without external id: %q", l.Title)
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("listing %s without title", l.ExternalID)
	}

	offer := &models.JobOffer{
		ID:             uuid.New(),
		SourceID:       sourceID,
		ExternalJobID:  strings.TrimSpace(l.ExternalID),
		Title:          strings.TrimSpace(l.Title),
		Company:        strings.TrimSpace(l.Company),
		Location:       strings.TrimSpace(l.Location),
		WorkMode:       strings.TrimSpace(l.WorkMode),
		SalaryMin:      l.SalaryMin,
		SalaryMax:      l.SalaryMax,
		SalaryCurrency: l.SalaryCurrency,
		Description:    strings.TrimSpace(l.Description),
		URL:            strings.TrimSpace(l.URL),
		PostedAt:       l.PostedAt,
		IsActive:       true,
	}

	return store.Upsert(offer)
}

func httpGetWithRetry(ctx context.Context, client *http.Client, url string, attempts int) ([]byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var body []byte
	var lastErr error
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "OffHeadHunterScraper/0.1")
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("status %d", resp.StatusCode)
				return
			}
			b, err := readAllLimit(resp.Body, 5<<20)
			if err != nil {
				lastErr = err
				return
			}
			lastErr = nil
			body = b
		}()
		if lastErr == nil {
			return body, nil
		}
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return nil, lastErr
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func pickNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}
