package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RemotiveScraper pulls remote job listings from the Remotive public API.
type RemotiveScraper struct {
	store     OfferStore
	client    *http.Client
	apiBase   string
	rateLimit int
}

const remotiveDefaultBaseURL = "https://remotive.com"

func NewRemotiveScraper(store OfferStore) *RemotiveScraper {
	return NewRemotiveScraperWithBaseURL(store, remotiveDefaultBaseURL)
}

func NewRemotiveScraperWithBaseURL(store OfferStore, apiBase string) *RemotiveScraper {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		base = remotiveDefaultBaseURL
	}
	return &RemotiveScraper{
		store: store,
		client: &http.Client{
			Timeout: 25 * time.Second,
		},
		apiBase: base,
	}
}

func (s *RemotiveScraper) Name() string { return "Remotive" }

// SetRateLimit caps stored-listing throughput at rps tasks per second for
// subsequent Scrape calls. Zero or negative disables the cap.
func (s *RemotiveScraper) SetRateLimit(rps int) { s.rateLimit = rps }

type remotiveJob struct {
	ID              int    `json:"id"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	Category        string `json:"category"`
	JobType         string `json:"job_type"`
	PublicationDate string `json:"publication_date"`
	Location        string `json:"candidate_required_location"`
	Salary          string `json:"salary"`
	Description     string `json:"description"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

func (s *RemotiveScraper) Scrape(ctx context.Context, limit int, workers int) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("nil scraper/store")
	}
	if limit <= 0 {
		limit = 100
	}

	source, err := s.store.EnsureSource(s.Name(), s.apiBase)
	if err != nil {
		return err
	}

	if err := s.store.DeactivateBySource(source.ID); err != nil {
		log.Printf("⚠️  remotive: failed to deactivate previous offers: %v\n", err)
	}

	jobs, err := s.fetchJobs(ctx, limit)
	if err != nil {
		return fmt.Errorf("remotive jobs: %w", err)
	}

	pool := NewWorkerPool(workers, workers*2)
	if s.rateLimit > 0 {
		pool.SetRateLimit(s.rateLimit)
	}
	results := pool.Run(ctx)

	for _, job := range jobs {
		job := job
		if job.ID == 0 {
			continue
		}
		pool.Submit(func(ctx context.Context) error {
			return storeListing(s.store, source.ID, Listing{
				ExternalID:  strconv.Itoa(job.ID),
				Title:       job.Title,
				Company:     job.CompanyName,
				Location:    pickNonEmpty(job.Location, "Remote"),
				WorkMode:    "A distancia",
				Description: job.Description,
				URL:         job.URL,
				PostedAt:    parseRemotiveDate(job.PublicationDate),
			})
		})
	}

	pool.Close()

	var firstErr error
	for res := range results {
		if res.Err != nil {
			log.Printf("⚠️  remotive item: %v\n", res.Err)
			if firstErr == nil {
				firstErr = res.Err
			}
		}
	}

	return firstErr
}

func (s *RemotiveScraper) fetchJobs(ctx context.Context, limit int) ([]remotiveJob, error) {
	url := fmt.Sprintf("%s/api/remote-jobs?limit=%d", strings.TrimRight(s.apiBase, "/"), limit)
	body, err := httpGetWithRetry(ctx, s.client, url, 3)
	if err != nil {
		return nil, err
	}
	var out remotiveResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func parseRemotiveDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
