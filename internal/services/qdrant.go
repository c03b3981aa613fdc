package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

type VectorStoreService interface {
	InitCollections() error
	UpsertCVChunks(ctx context.Context, documentID, userID string, chunks []string, embeddings [][]float32) error
	DeleteCVDocument(ctx context.Context, documentID string) error
	FetchCVVectors(ctx context.Context, documentID string) ([][]float32, error)
	UpsertOfferVector(ctx context.Context, offerID string, text string, embedding []float32) error
	SearchOffers(ctx context.Context, queryEmbedding []float32, limit int, scoreThreshold float32) ([]OfferHit, error)
}

// OfferHit is one scored offer returned by the vector search, with its
// stored vector so the ranking core can re-score locally.
type OfferHit struct {
	OfferID string
	Score   float32
	Vector  []float32
}

type vectorStoreService struct {
	client          *qdrant.Client
	cvCollection    string
	offerCollection string
	vectorSize      uint64
}

func NewVectorStoreService(urlStr, apiKey, cvCollection, offerCollection string) (VectorStoreService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &vectorStoreService{
		client:          client,
		cvCollection:    cvCollection,
		offerCollection: offerCollection,
		vectorSize:      768, // text-embedding-004 dimension
	}, nil
}

// InitCollections implements VectorStoreService.
func (q *vectorStoreService) InitCollections() error {
	ctx := context.Background()

	for _, name := range []string{q.cvCollection, q.offerCollection} {
		exists, err := q.client.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check collection %q: %w", name, err)
		}
		if exists {
			continue
		}

		err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     q.vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection %q: %w", name, err)
		}

		log.Printf("✅ Qdrant collection '%s' created successfully\n", name)
	}

	return nil
}

// UpsertCVChunks implements VectorStoreService. Existing points for the
// document are dropped first so a re-vectorized CV never keeps stale chunks.
func (q *vectorStoreService) UpsertCVChunks(ctx context.Context, documentID, userID string, chunks []string, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	if err := q.DeleteCVDocument(ctx, documentID); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		pointID := uuid.New()
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(pointID.ID())),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"document_id": documentID,
				"user_id":     userID,
				"chunk_index": i,
				"text":        chunk,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cvCollection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert CV chunks: %w", err)
	}

	return nil
}

// DeleteCVDocument implements VectorStoreService.
func (q *vectorStoreService) DeleteCVDocument(ctx context.Context, documentID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("document_id", documentID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.cvCollection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete CV document points: %w", err)
	}

	return nil
}

// FetchCVVectors implements VectorStoreService.
func (q *vectorStoreService) FetchCVVectors(ctx context.Context, documentID string) ([][]float32, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("document_id", documentID),
		},
	}

	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.cvCollection,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint32(256)),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch CV vectors: %w", err)
	}

	vectors := make([][]float32, 0, len(points))
	for _, point := range points {
		if v := point.GetVectors().GetVector(); v != nil && len(v.GetData()) > 0 {
			vectors = append(vectors, v.GetData())
		}
	}

	return vectors, nil
}

// UpsertOfferVector implements VectorStoreService. Offer points use an ID
// derived from the offer UUID so re-embedding overwrites in place.
func (q *vectorStoreService) UpsertOfferVector(ctx context.Context, offerID string, text string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(offerPointID(offerID)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"offer_id": offerID,
			"text":     text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.offerCollection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert offer vector: %w", err)
	}

	return nil
}

// SearchOffers implements VectorStoreService.
func (q *vectorStoreService) SearchOffers(ctx context.Context, queryEmbedding []float32, limit int, scoreThreshold float32) ([]OfferHit, error) {
	query := &qdrant.QueryPoints{
		CollectionName: q.offerCollection,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	}
	if scoreThreshold > 0 {
		query.ScoreThreshold = qdrant.PtrOf(scoreThreshold)
	}

	searchResult, err := q.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search offers: %w", err)
	}

	var hits []OfferHit
	for _, point := range searchResult {
		hit := OfferHit{Score: point.Score}

		if offerID, ok := point.Payload["offer_id"]; ok {
			if val, ok := offerID.GetKind().(*qdrant.Value_StringValue); ok {
				hit.OfferID = val.StringValue
			}
		}

		if v := point.GetVectors().GetVector(); v != nil {
			hit.Vector = v.GetData()
		}

		if hit.OfferID == "" {
			continue
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

func offerPointID(offerID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(offerID))
	return h.Sum64()
}
