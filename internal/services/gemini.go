package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"
)

const embeddingModel = "text-embedding-004"

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	EmbeddingModel() string
}

type geminiService struct {
	client     *genai.Client
	embedModel string
	maxRetries int
}

func NewGeminiService(apiKey string, maxRetries int) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		embedModel: embeddingModel,
		maxRetries: maxRetries,
	}, nil
}

func (g *geminiService) EmbeddingModel() string {
	return g.embedModel
}

// GenerateEmbedding implements GeminiService. Transient API failures are
// retried with a linear backoff up to the configured attempt count.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	var result *genai.EmbedContentResponse
	err := withRetries(ctx, g.maxRetries, func() error {
		var embedErr error
		result, embedErr = g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateEmbeddings implements GeminiService. Embeds each text in order;
// a failure on any text aborts the whole batch.
func (g *geminiService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for i, text := range texts {
		embedding, err := g.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d of %d: %w", i+1, len(texts), err)
		}
		embeddings = append(embeddings, embedding)
	}
	return embeddings, nil
}

// retryBaseDelay spaces retry attempts: attempt n waits n*retryBaseDelay.
var retryBaseDelay = 500 * time.Millisecond

// withRetries calls fn up to attempts times, sleeping between tries. A
// cancelled context aborts the remaining attempts.
func withRetries(ctx context.Context, attempts int, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			log.Printf("🔄 Retrying embedding call (attempt %d/%d): %v\n", i+1, attempts, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * retryBaseDelay):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
