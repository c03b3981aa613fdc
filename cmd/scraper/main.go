package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/config"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/scraper"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/services"
)

// Scrapes job boards into Postgres, then embeds any offers that still lack a
// vector. Intended to run on a schedule (cron).
func main() {
	sources := flag.String("sources", "infojobs,remotive", "comma-separated list of sources to scrape")
	skipEmbed := flag.Bool("skip-embed", false, "skip the embedding pass after scraping")
	flag.Parse()

	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	offerRepo := repositories.NewOfferRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	runInfoJobs := false
	runRemotive := false
	for _, src := range splitSources(*sources) {
		switch src {
		case "infojobs":
			runInfoJobs = true
		case "remotive":
			runRemotive = true
		default:
			log.Printf("⚠️ Unknown source %q, skipping\n", src)
		}
	}

	if runInfoJobs {
		log.Printf("🔄 Scraping InfoJobs (%d pages, %d workers)\n", cfg.Scraper.Pages, cfg.Scraper.Workers)
		ij := scraper.NewInfoJobsScraper(offerRepo)
		ij.SetRateLimit(cfg.Scraper.RateLimit)
		if err := ij.Scrape(ctx, cfg.Scraper.Pages, cfg.Scraper.Workers); err != nil {
			log.Printf("❌ InfoJobs scrape failed: %v\n", err)
		} else {
			log.Println("✅ InfoJobs scrape completed")
		}
	}

	if runRemotive {
		log.Printf("🔄 Scraping Remotive (%d workers)\n", cfg.Scraper.Workers)
		rm := scraper.NewRemotiveScraper(offerRepo)
		rm.SetRateLimit(cfg.Scraper.RateLimit)
		if err := rm.Scrape(ctx, 100, cfg.Scraper.Workers); err != nil {
			log.Printf("❌ Remotive scrape failed: %v\n", err)
		} else {
			log.Println("✅ Remotive scrape completed")
		}
	}

	if *skipEmbed {
		log.Println("⚠️ Skipping embedding pass")
		return
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RetryMaxAttempts)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}

	vectorStore, err := services.NewVectorStoreService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.CVCollection,
		cfg.Qdrant.OfferCollection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := vectorStore.InitCollections(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collections: %v", err)
	}

	vectorizer := services.NewVectorizerService(
		repositories.NewDocumentRepository(db),
		offerRepo,
		services.NewPDFParserService(),
		services.NewTextChunker(),
		geminiService,
		vectorStore,
	)

	log.Println("🔄 Embedding unvectorized offers")
	count, err := vectorizer.VectorizePendingOffers(ctx, 50)
	if err != nil {
		log.Fatalf("❌ Embedding pass failed: %v", err)
	}
	log.Printf("✅ Embedded %d offers\n", count)
}

func splitSources(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
