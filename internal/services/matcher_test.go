package services

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestCosineSimilarity_IdenticalVectors(t *testing.T) {
	v := []float32{0.5, 1.2, -0.3, 0.8}
	got := CosineSimilarity(v, v)
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected similarity 1.0 for identical vectors, got %f", got)
	}
}

func TestCosineSimilarity_OrthogonalVectors(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Fatalf("expected similarity 0 for orthogonal vectors, got %f", got)
	}
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Fatalf("expected similarity 0 for zero vector, got %f", got)
	}
}

func TestRankOffers_AlignedBeatsOrthogonal(t *testing.T) {
	cv := []float32{1, 0}
	alignedID := uuid.New()
	orthogonalID := uuid.New()

	ranked, err := RankOffers(cv, []OfferVector{
		{OfferID: orthogonalID, Vector: []float32{0, 1}},
		{OfferID: alignedID, Vector: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("rank error: %v", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked offers, got %d", len(ranked))
	}
	if ranked[0].OfferID != alignedID {
		t.Fatalf("expected aligned offer first, got %s", ranked[0].OfferID)
	}
	if math.Abs(ranked[0].Score-1.0) > 1e-9 {
		t.Fatalf("expected aligned score 1.0, got %f", ranked[0].Score)
	}
	if math.Abs(ranked[1].Score) > 1e-9 {
		t.Fatalf("expected orthogonal score 0.0, got %f", ranked[1].Score)
	}
}

func TestRankOffers_SelfMatchIsMaximal(t *testing.T) {
	cv := []float32{0.2, 0.9, -0.4, 0.1}
	selfID := uuid.New()

	offers := []OfferVector{
		{OfferID: uuid.New(), Vector: []float32{0.9, 0.1, 0.3, -0.2}},
		{OfferID: selfID, Vector: []float32{0.2, 0.9, -0.4, 0.1}},
		{OfferID: uuid.New(), Vector: []float32{-0.5, 0.2, 0.8, 0.6}},
	}

	ranked, err := RankOffers(cv, offers)
	if err != nil {
		t.Fatalf("rank error: %v", err)
	}
	if ranked[0].OfferID != selfID {
		t.Fatalf("expected the identical offer to rank first, got %s", ranked[0].OfferID)
	}
}

func TestRankOffers_NonIncreasingOrder(t *testing.T) {
	cv := []float32{1, 1, 0}
	offers := []OfferVector{
		{OfferID: uuid.New(), Vector: []float32{0, 0, 1}},
		{OfferID: uuid.New(), Vector: []float32{1, 1, 0}},
		{OfferID: uuid.New(), Vector: []float32{1, 0, 0}},
		{OfferID: uuid.New(), Vector: []float32{0, 1, 1}},
	}

	ranked, err := RankOffers(cv, offers)
	if err != nil {
		t.Fatalf("rank error: %v", err)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("scores not non-increasing at %d: %f > %f", i, ranked[i].Score, ranked[i-1].Score)
		}
	}
}

func TestRankOffers_TieBreakIsDeterministic(t *testing.T) {
	cv := []float32{1, 0}
	idA := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	idB := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	// Same vector, same score. Order must come from the IDs.
	run := func(offers []OfferVector) []RankedOffer {
		ranked, err := RankOffers(cv, offers)
		if err != nil {
			t.Fatalf("rank error: %v", err)
		}
		return ranked
	}

	first := run([]OfferVector{
		{OfferID: idB, Vector: []float32{1, 0}},
		{OfferID: idA, Vector: []float32{1, 0}},
	})
	second := run([]OfferVector{
		{OfferID: idA, Vector: []float32{1, 0}},
		{OfferID: idB, Vector: []float32{1, 0}},
	})

	if first[0].OfferID != idA || second[0].OfferID != idA {
		t.Fatalf("expected tie to break on offer ID, got %s and %s", first[0].OfferID, second[0].OfferID)
	}
}

func TestRankOffers_EmptyCVVector(t *testing.T) {
	_, err := RankOffers(nil, []OfferVector{{OfferID: uuid.New(), Vector: []float32{1}}})
	if err == nil {
		t.Fatal("expected error for empty CV vector")
	}
}

func TestRankOffers_DimensionMismatch(t *testing.T) {
	_, err := RankOffers([]float32{1, 0}, []OfferVector{
		{OfferID: uuid.New(), Vector: []float32{1, 0, 0}},
	})
	if err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

func TestRankOffers_NoOffers(t *testing.T) {
	ranked, err := RankOffers([]float32{1, 0}, nil)
	if err != nil {
		t.Fatalf("rank error: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected empty ranking, got %d entries", len(ranked))
	}
}

func TestMeanVector(t *testing.T) {
	mean, err := MeanVector([][]float32{
		{1, 0, 3},
		{3, 2, 1},
	})
	if err != nil {
		t.Fatalf("mean error: %v", err)
	}
	want := []float32{2, 1, 2}
	for i := range want {
		if math.Abs(float64(mean[i]-want[i])) > 1e-6 {
			t.Fatalf("mean[%d] = %f, want %f", i, mean[i], want[i])
		}
	}
}

func TestMeanVector_Errors(t *testing.T) {
	if _, err := MeanVector(nil); err == nil {
		t.Fatal("expected error for no vectors")
	}
	if _, err := MeanVector([][]float32{{1, 2}, {1}}); err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
}
