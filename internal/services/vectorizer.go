package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
)

type VectorizerService interface {
	VectorizeCV(ctx context.Context, doc *models.Document) (int, error)
	VectorizeOffer(ctx context.Context, offer *models.JobOffer) error
	VectorizePendingOffers(ctx context.Context, batchSize int) (int, error)
}

type vectorizerService struct {
	docRepo   repositories.DocumentRepository
	offerRepo repositories.OfferRepository
	pdfParser PDFParserService
	chunker   TextChunker
	gemini    GeminiService
	vectors   VectorStoreService
}

func NewVectorizerService(
	docRepo repositories.DocumentRepository,
	offerRepo repositories.OfferRepository,
	pdfParser PDFParserService,
	chunker TextChunker,
	gemini GeminiService,
	vectors VectorStoreService,
) VectorizerService {
	return &vectorizerService{
		docRepo:   docRepo,
		offerRepo: offerRepo,
		pdfParser: pdfParser,
		chunker:   chunker,
		gemini:    gemini,
		vectors:   vectors,
	}
}

// VectorizeCV implements VectorizerService: extract text, clean, chunk,
// embed, and store the chunks, then mark the document. Returns the chunk
// count.
func (v *vectorizerService) VectorizeCV(ctx context.Context, doc *models.Document) (int, error) {
	content, err := v.pdfParser.ExtractTextWithMetaData(doc.FilePath)
	if err != nil {
		return 0, fmt.Errorf("failed to parse CV: %w", err)
	}

	text := CleanText(content.Text)
	chunks := v.chunker.ChunkText(text, DefaultChunkSize, DefaultChunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("CV produced no text chunks")
	}

	embeddings, err := v.gemini.GenerateEmbeddings(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed CV chunks: %w", err)
	}

	err = v.vectors.UpsertCVChunks(ctx, doc.ID.String(), doc.UserID.String(), chunks, embeddings)
	if err != nil {
		return 0, fmt.Errorf("failed to store CV vectors: %w", err)
	}

	if err := v.docRepo.MarkVectorized(doc.ID, v.gemini.EmbeddingModel(), len(chunks)); err != nil {
		return 0, err
	}

	log.Printf("✅ Vectorized CV %s into %d chunks\n", doc.ID, len(chunks))
	return len(chunks), nil
}

// VectorizeOffer implements VectorizerService. Offers embed as a single
// vector; they are short enough that chunking buys nothing.
func (v *vectorizerService) VectorizeOffer(ctx context.Context, offer *models.JobOffer) error {
	text := CleanText(offer.EmbeddingText())
	if text == "" {
		return fmt.Errorf("offer %s has no text to embed", offer.ID)
	}

	embedding, err := v.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed offer: %w", err)
	}

	if err := v.vectors.UpsertOfferVector(ctx, offer.ID.String(), text, embedding); err != nil {
		return fmt.Errorf("failed to store offer vector: %w", err)
	}

	return v.offerRepo.MarkVectorized(offer.ID)
}

// VectorizePendingOffers implements VectorizerService. Embeds offers that
// have no vector yet, in creation order, and returns how many succeeded.
func (v *vectorizerService) VectorizePendingOffers(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}

	offers, err := v.offerRepo.FindUnvectorized(batchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range offers {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if err := v.VectorizeOffer(ctx, &offers[i]); err != nil {
			log.Printf("⚠️  Failed to vectorize offer %s: %v\n", offers[i].ID, err)
			continue
		}
		processed++
	}

	return processed, nil
}
