package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/config"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/services"
)

// Backfills the offer vector collection: every active offer without an
// embedding gets one. Safe to re-run.
func main() {
	log.Println("🚀 Starting offer ingestion...")

	// Load configuration
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	offerRepo := repositories.NewOfferRepository(db)

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RetryMaxAttempts)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
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
		log.Fatalf("❌ Failed to initialize collections: %v", err)
	}

	ctx := context.Background()

	successCount := 0
	failCount := 0

	for {
		offers, err := offerRepo.FindUnvectorized(50)
		if err != nil {
			log.Fatalf("❌ Failed to load unvectorized offers: %v", err)
		}
		if len(offers) == 0 {
			break
		}

		log.Printf("\n📄 Processing batch of %d offers", len(offers))

		batchSuccess := 0
		for i := range offers {
			offer := &offers[i]

			text := services.CleanText(offer.EmbeddingText())
			if text == "" {
				log.Printf("   ⚠️  Offer %s has no text, skipping...", offer.ID)
				failCount++
				continue
			}

			embedding, err := geminiService.GenerateEmbedding(ctx, text)
			if err != nil {
				log.Printf("   ❌ Failed to embed offer %s: %v", offer.ID, err)
				failCount++
				continue
			}

			if err := vectorStore.UpsertOfferVector(ctx, offer.ID.String(), text, embedding); err != nil {
				log.Printf("   ❌ Failed to store offer %s: %v", offer.ID, err)
				failCount++
				continue
			}

			if err := offerRepo.MarkVectorized(offer.ID); err != nil {
				log.Printf("   ❌ Failed to mark offer %s: %v", offer.ID, err)
				failCount++
				continue
			}

			successCount++
			batchSuccess++
			if successCount%10 == 0 {
				log.Printf("   📊 Progress: %d offers embedded", successCount)
			}
		}

		// Every offer in the batch failed, the next fetch would return the
		// same rows.
		if batchSuccess == 0 {
			break
		}
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d offers", successCount)
	log.Printf("   ❌ Failed: %d offers", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some offers failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All offers ingested successfully!")
}
