package scraper

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// InfoJobsScraper walks the InfoJobs listing pages. Offer cards carry all
// the fields we keep, so no detail page fetch is needed.
type InfoJobsScraper struct {
	store       OfferStore
	baseURL     string
	allowedHost string
	rateLimit   int
}

const infojobsDefaultBaseURL = "https://www.infojobs.net"

func NewInfoJobsScraper(store OfferStore) *InfoJobsScraper {
	return NewInfoJobsScraperWithBaseURL(store, infojobsDefaultBaseURL)
}

func NewInfoJobsScraperWithBaseURL(store OfferStore, baseURL string) *InfoJobsScraper {
	s := &InfoJobsScraper{store: store, baseURL: strings.TrimSpace(baseURL)}
	if s.baseURL == "" {
		s.baseURL = infojobsDefaultBaseURL
	}
	s.allowedHost = hostFromBaseURL(s.baseURL)
	return s
}

func (s *InfoJobsScraper) Name() string { return "InfoJobs" }

// SetRateLimit caps stored-listing throughput at rps tasks per second for
// subsequent Scrape calls. Zero or negative disables the cap.
func (s *InfoJobsScraper) SetRateLimit(rps int) { s.rateLimit = rps }

func (s *InfoJobsScraper) Scrape(ctx context.Context, pages int, workers int) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("nil scraper/store")
	}
	if pages <= 0 {
		pages = 1
	}

	source, err := s.store.EnsureSource(s.Name(), s.baseURL)
	if err != nil {
		return err
	}

	// Offers not seen in this run stay inactive.
	if err := s.store.DeactivateBySource(source.ID); err != nil {
		log.Printf("⚠️  infojobs: failed to deactivate previous offers: %v\n", err)
	}

	pool := NewWorkerPool(workers, workers*2)
	if s.rateLimit > 0 {
		pool.SetRateLimit(s.rateLimit)
	}
	results := pool.Run(ctx)

	for page := 1; page <= pages; page++ {
		listURL := fmt.Sprintf("%s/ofertas-trabajo?page=%d", strings.TrimRight(s.baseURL, "/"), page)
		listings, err := s.scrapeListingPage(listURL)
		if err != nil {
			log.Printf("⚠️  infojobs list page %d: %v\n", page, err)
			continue
		}
		for _, it := range listings {
			it := it
			pool.Submit(func(ctx context.Context) error {
				return storeListing(s.store, source.ID, it)
			})
		}
	}

	pool.Close()

	var firstErr error
	for res := range results {
		if res.Err != nil {
			log.Printf("⚠️  infojobs item: %v\n", res.Err)
			if firstErr == nil {
				firstErr = res.Err
			}
		}
	}

	return firstErr
}

func (s *InfoJobsScraper) scrapeListingPage(listURL string) ([]Listing, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(s.allowedHost),
	)
	c.SetRequestTimeout(25 * time.Second)

	now := time.Now().UTC()
	var listings []Listing

	c.OnHTML("div.sui-AtomCard-info", func(e *colly.HTMLElement) {
		link := e.ChildAttr("a.ij-OfferCardContent-description-title-link", "href")
		link = e.Request.AbsoluteURL(link)

		listing := Listing{
			ExternalID:  ParseExternalID(link),
			Title:       strings.TrimSpace(e.ChildText("a.ij-OfferCardContent-description-title-link")),
			Company:     strings.TrimSpace(e.ChildText("a.ij-OfferCardContent-description-subtitle-link")),
			Description: strings.TrimSpace(e.ChildText("p.ij-OfferCardContent-description-description")),
			URL:         link,
		}

		for _, item := range e.ChildTexts("span.ij-OfferCardContent-description-list-item-truncate") {
			item = strings.TrimSpace(item)
			switch {
			case item == "":
			case strings.Contains(item, "€"):
				listing.SalaryMin, listing.SalaryMax, listing.SalaryCurrency = ParseSalary(item)
			case strings.HasPrefix(strings.ToLower(item), "hace"):
				listing.PostedAt = ParsePostedAt(item, now)
			case isWorkMode(item):
				listing.WorkMode = item
			case listing.Location == "":
				listing.Location = item
			}
		}

		if listing.ExternalID == "" || listing.Title == "" {
			return
		}
		listings = append(listings, listing)
	})

	if err := c.Visit(listURL); err != nil {
		return nil, err
	}
	c.Wait()

	return listings, nil
}

var externalIDRe = regexp.MustCompile(`/of-([a-zA-Z0-9]+)`)

// ParseExternalID pulls the offer identifier out of an InfoJobs URL
// (the "/of-<id>" path segment).
func ParseExternalID(offerURL string) string {
	m := externalIDRe.FindStringSubmatch(offerURL)
	if m == nil {
		return ""
	}
	return m[1]
}

var salaryRe = regexp.MustCompile(`([0-9]+)\s*€`)

// ParseSalary reads salary strings like "21.000€ - 30.000€ Bruto/año".
// Returns nils when no figure is present ("Salario no disponible").
func ParseSalary(s string) (minSalary, maxSalary *int, currency string) {
	if s == "" || strings.Contains(strings.ToLower(s), "no disponible") {
		return nil, nil, ""
	}

	matches := salaryRe.FindAllStringSubmatch(strings.ReplaceAll(s, ".", ""), -1)
	if len(matches) == 0 {
		return nil, nil, ""
	}

	lo, err := strconv.Atoi(matches[0][1])
	if err != nil {
		return nil, nil, ""
	}
	hi := lo
	if len(matches) > 1 {
		if v, err := strconv.Atoi(matches[1][1]); err == nil {
			hi = v
		}
	}

	return &lo, &hi, "EUR"
}

var postedAtDaysRe = regexp.MustCompile(`(\d+)`)

// ParsePostedAt resolves relative timestamps like "hace 30m", "hace 3h" or
// "hace 2 días" against now. Unparseable input yields nil.
func ParsePostedAt(s string, now time.Time) *time.Time {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.TrimPrefix(s, "hace"))
	if s == "" {
		return nil
	}

	var d time.Duration
	switch {
	case strings.Contains(s, "día"):
		m := postedAtDaysRe.FindString(s)
		if m == "" {
			return nil
		}
		days, _ := strconv.Atoi(m)
		d = time.Duration(days) * 24 * time.Hour
	case strings.HasSuffix(s, "h"):
		hours, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "h")))
		if err != nil {
			return nil
		}
		d = time.Duration(hours) * time.Hour
	case strings.HasSuffix(s, "m"):
		mins, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "m")))
		if err != nil {
			return nil
		}
		d = time.Duration(mins) * time.Minute
	default:
		return nil
	}

	t := now.Add(-d)
	return &t
}

func isWorkMode(s string) bool {
	switch strings.ToLower(s) {
	case "presencial", "híbrido", "hibrido", "a distancia", "teletrabajo":
		return true
	}
	return false
}

func hostFromBaseURL(baseURL string) string {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return ""
	}
	host := u.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
