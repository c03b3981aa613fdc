package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
)

// Search defaults carried over from the original semantic matching setup.
const (
	// MinMatchScore is the minimum cosine similarity for a persisted match.
	MinMatchScore = 0.5
	// RecommendedTopK marks this many top matches as recommended.
	RecommendedTopK = 5
	// candidatePoolSize caps how many offers the vector search returns for
	// one ranking pass.
	candidatePoolSize = 100
)

// OfferVector pairs an offer with its stored embedding.
type OfferVector struct {
	OfferID uuid.UUID
	Vector  []float32
}

// RankedOffer is one scored entry of a ranking result.
type RankedOffer struct {
	OfferID uuid.UUID
	Score   float64
}

// RankOffers scores every offer against the CV vector with cosine
// similarity and returns them ordered by non-increasing score. Ties order
// by offer ID so a ranking is deterministic. Offers whose vector dimension
// differs from the CV's are an error; a zero-magnitude offer vector scores
// zero rather than failing the whole pass.
func RankOffers(cv []float32, offers []OfferVector) ([]RankedOffer, error) {
	if len(cv) == 0 {
		return nil, fmt.Errorf("empty CV vector")
	}

	ranked := make([]RankedOffer, 0, len(offers))
	for _, offer := range offers {
		if len(offer.Vector) != len(cv) {
			return nil, fmt.Errorf(
				"offer %s: vector dimension mismatch: %d vs %d",
				offer.OfferID, len(offer.Vector), len(cv),
			)
		}
		ranked = append(ranked, RankedOffer{
			OfferID: offer.OfferID,
			Score:   CosineSimilarity(cv, offer.Vector),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].OfferID.String() < ranked[j].OfferID.String()
	})

	return ranked, nil
}

// CosineSimilarity returns the cosine of the angle between two equal-length
// vectors. A zero-magnitude vector yields 0.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// MeanVector averages a set of equal-length vectors into one.
func MeanVector(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no vectors to average")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("empty vector")
	}

	sum := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector dimension mismatch: %d vs %d", len(v), dim)
		}
		for i := range v {
			sum[i] += float64(v[i])
		}
	}

	mean := make([]float32, dim)
	for i := range sum {
		mean[i] = float32(sum[i] / float64(len(vectors)))
	}
	return mean, nil
}

type MatcherService interface {
	ProcessRun(ctx context.Context, runID uuid.UUID) error
}

type matcherService struct {
	matchRepo  repositories.MatchRepository
	userRepo   repositories.UserRepository
	docRepo    repositories.DocumentRepository
	offerRepo  repositories.OfferRepository
	gemini     GeminiService
	vectors    VectorStoreService
	matchCache MatchCacheService
}

func NewMatcherService(
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	docRepo repositories.DocumentRepository,
	offerRepo repositories.OfferRepository,
	gemini GeminiService,
	vectors VectorStoreService,
	matchCache MatchCacheService,
) MatcherService {
	return &matcherService{
		matchRepo:  matchRepo,
		userRepo:   userRepo,
		docRepo:    docRepo,
		offerRepo:  offerRepo,
		gemini:     gemini,
		vectors:    vectors,
		matchCache: matchCache,
	}
}

// ProcessRun implements MatcherService. Executes one match run end to end:
// build the user's query vector, fetch candidate offers from the vector
// store, rank them, and persist the scored matches.
func (m *matcherService) ProcessRun(ctx context.Context, runID uuid.UUID) error {
	if err := m.matchRepo.UpdateRunStatus(runID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}

	log.Printf("🔄 Starting match run %s\n", runID)

	run, err := m.matchRepo.FindRunByID(runID)
	if err != nil {
		m.matchRepo.FailRun(runID, err.Error())
		return fmt.Errorf("failed to get match run: %w", err)
	}

	user, err := m.userRepo.FindByID(run.UserID)
	if err != nil {
		m.matchRepo.FailRun(runID, fmt.Sprintf("user not found: %v", err))
		return fmt.Errorf("failed to get user: %w", err)
	}

	queryVector, err := m.buildQueryVector(ctx, user)
	if err != nil {
		m.matchRepo.FailRun(runID, err.Error())
		return err
	}

	limit := run.Limit
	if limit <= 0 || limit > candidatePoolSize {
		limit = candidatePoolSize
	}

	hits, err := m.vectors.SearchOffers(ctx, queryVector, limit, MinMatchScore)
	if err != nil {
		m.matchRepo.FailRun(runID, fmt.Sprintf("offer search failed: %v", err))
		return fmt.Errorf("failed to search offers: %w", err)
	}

	candidates := make([]OfferVector, 0, len(hits))
	for _, hit := range hits {
		offerID, err := uuid.Parse(hit.OfferID)
		if err != nil {
			log.Printf("⚠️  Skipping hit with bad offer id %q: %v\n", hit.OfferID, err)
			continue
		}
		if len(hit.Vector) == 0 {
			continue
		}
		candidates = append(candidates, OfferVector{OfferID: offerID, Vector: hit.Vector})
	}

	ranked, err := RankOffers(queryVector, candidates)
	if err != nil {
		m.matchRepo.FailRun(runID, fmt.Sprintf("ranking failed: %v", err))
		return fmt.Errorf("failed to rank offers: %w", err)
	}

	// The vector store can lag behind the relational side; deactivated
	// offers may still have points. Keep only offers that are active now.
	activeIDs := make(map[uuid.UUID]bool, len(ranked))
	if len(ranked) > 0 {
		ids := make([]uuid.UUID, 0, len(ranked))
		for _, entry := range ranked {
			ids = append(ids, entry.OfferID)
		}
		offers, err := m.offerRepo.FindByIDs(ids)
		if err != nil {
			m.matchRepo.FailRun(runID, fmt.Sprintf("loading offers failed: %v", err))
			return fmt.Errorf("failed to load offers: %w", err)
		}
		for _, offer := range offers {
			if offer.IsActive {
				activeIDs[offer.ID] = true
			}
		}
	}

	matches := make([]models.Match, 0, len(ranked))
	for _, entry := range ranked {
		if entry.Score < MinMatchScore || !activeIDs[entry.OfferID] {
			continue
		}
		matches = append(matches, models.Match{
			ID:            uuid.New(),
			RunID:         runID,
			UserID:        run.UserID,
			JobOfferID:    entry.OfferID,
			Score:         entry.Score,
			IsRecommended: len(matches) < RecommendedTopK,
		})
	}

	if err := m.matchRepo.ReplaceMatches(runID, run.UserID, matches); err != nil {
		m.matchRepo.FailRun(runID, fmt.Sprintf("saving matches failed: %v", err))
		return fmt.Errorf("failed to save matches: %w", err)
	}

	if err := m.matchRepo.CompleteRun(runID, len(matches)); err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	if m.matchCache != nil {
		m.matchCache.Invalidate(ctx, run.UserID)
	}

	log.Printf("✅ Match run %s completed with %d matches\n", runID, len(matches))
	return nil
}

// buildQueryVector averages the CV chunk vectors and, when the profile
// carries preferences, blends in their embedding so the ranking reflects
// both the resume and what the user asked for.
func (m *matcherService) buildQueryVector(ctx context.Context, user *models.User) ([]float32, error) {
	doc, err := m.docRepo.FindLatestByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("no vectorized CV for user: %w", err)
	}
	if !doc.Vectorized {
		return nil, fmt.Errorf("CV %s has not been vectorized yet", doc.ID)
	}

	chunkVectors, err := m.vectors.FetchCVVectors(ctx, doc.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch CV vectors: %w", err)
	}
	if len(chunkVectors) == 0 {
		return nil, fmt.Errorf("no stored vectors for CV %s", doc.ID)
	}

	vectors := chunkVectors

	if query := user.PreferenceQuery(); query != "" {
		prefVector, err := m.gemini.GenerateEmbedding(ctx, query)
		if err != nil {
			log.Printf("⚠️  Failed to embed preferences, ranking on CV alone: %v\n", err)
		} else {
			vectors = append(vectors, prefVector)
		}
	}

	return MeanVector(vectors)
}
