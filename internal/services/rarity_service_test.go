// internal/services/rarity_service_test.go
package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/solaforge/solaforge-backend/internal/models"
)

func TestPairScore(t *testing.T) {
	// A trait shared by every NFT contributes exactly 100.
	assert.Equal(t, 100.0, pairScore(10, 10))

	// A 1-in-10 trait contributes 1000.
	assert.Equal(t, 1000.0, pairScore(1, 10))

	// Degenerate inputs contribute nothing.
	assert.Equal(t, 0.0, pairScore(0, 10))
	assert.Equal(t, 0.0, pairScore(5, 0))
}

func TestPercentileForRank(t *testing.T) {
	assert.Equal(t, 100.0, percentileForRank(1, 100))
	assert.Equal(t, 1.0, percentileForRank(100, 100))
	assert.Equal(t, 50.5, percentileForRank(51, 100))
	assert.Equal(t, 100.0, percentileForRank(1, 1))
	assert.Equal(t, 0.0, percentileForRank(1, 0))

	// Rounds to two decimals
	assert.Equal(t, 33.33, percentileForRank(3, 3))
	assert.Equal(t, 66.67, percentileForRank(2, 3))
}

func TestPercentileForRankUnranked(t *testing.T) {
	// An NFT outside the ranked corpus (rank 0) has no percentile; it
	// must never come out above rank 1 of the same corpus.
	assert.Equal(t, 0.0, percentileForRank(0, 4))
	assert.Equal(t, 0.0, percentileForRank(0, 1))
	assert.Equal(t, 0.0, percentileForRank(-1, 10))
	assert.Equal(t, models.RarityTierCommon, tierForPercentile(percentileForRank(0, 4)))
}

func TestPercentileNeverExceedsHundred(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("percentile stays within [0, 100]", prop.ForAll(
		func(rank, total int) bool {
			p := percentileForRank(rank, total)
			return p >= 0 && p <= 100
		},
		gen.IntRange(-5, 200),
		gen.IntRange(0, 200),
	))

	properties.TestingRun(t)
}

func TestTraitFrequencyPercent(t *testing.T) {
	// 10 of 100 scored NFTs carry the trait.
	assert.Equal(t, 10.00, traitFrequencyPercent(10, 100))

	assert.Equal(t, 100.0, traitFrequencyPercent(7, 7))
	assert.Equal(t, 0.0, traitFrequencyPercent(0, 100))
	assert.Equal(t, 0.0, traitFrequencyPercent(3, 0))

	// Rounds to two decimals
	assert.Equal(t, 33.33, traitFrequencyPercent(1, 3))
	assert.Equal(t, 42.86, traitFrequencyPercent(3, 7))
}

func TestTierForPercentile(t *testing.T) {
	tests := []struct {
		percentile float64
		want       models.RarityTier
	}{
		{100, models.RarityTierLegendary},
		{99, models.RarityTierLegendary},
		{98.99, models.RarityTierEpic},
		{95, models.RarityTierEpic},
		{94.99, models.RarityTierRare},
		{90, models.RarityTierRare},
		{89.99, models.RarityTierCommon},
		{50, models.RarityTierCommon},
		{0, models.RarityTierCommon},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tierForPercentile(tt.percentile), "percentile %v", tt.percentile)
	}
}

func TestAssignRanksOrdering(t *testing.T) {
	now := time.Now()
	a := rankedNFT{ID: uuid.New(), Score: 300, CreatedAt: now}
	b := rankedNFT{ID: uuid.New(), Score: 200, CreatedAt: now.Add(time.Hour)}
	c := rankedNFT{ID: uuid.New(), Score: 200, CreatedAt: now} // ties with b, created earlier
	d := rankedNFT{ID: uuid.New(), Score: 100, CreatedAt: now}

	nfts := []rankedNFT{d, b, a, c}
	assignRanks(nfts)

	byID := make(map[uuid.UUID]int, len(nfts))
	for _, n := range nfts {
		byID[n.ID] = n.Rank
	}

	assert.Equal(t, 1, byID[a.ID])
	assert.Equal(t, 2, byID[c.ID], "earlier creation wins the tie")
	assert.Equal(t, 3, byID[b.ID])
	assert.Equal(t, 4, byID[d.ID])
}

func TestAssignRanksDense(t *testing.T) {
	nfts := make([]rankedNFT, 25)
	for i := range nfts {
		nfts[i] = rankedNFT{
			ID:        uuid.New(),
			Score:     float64(i * 10),
			CreatedAt: time.Now(),
		}
	}
	assignRanks(nfts)

	seen := make(map[int]bool, len(nfts))
	for _, n := range nfts {
		seen[n.Rank] = true
	}
	for rank := 1; rank <= len(nfts); rank++ {
		assert.True(t, seen[rank], "rank %d missing", rank)
	}
}

func TestAssignRanksPermutationInvariant(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("input order does not change assigned ranks", prop.ForAll(
		func(scores []float64, seed int64) bool {
			base := time.Unix(1700000000, 0)
			original := make([]rankedNFT, len(scores))
			for i, s := range scores {
				original[i] = rankedNFT{
					ID:        uuid.New(),
					Score:     s,
					CreatedAt: base.Add(time.Duration(i) * time.Second),
				}
			}

			shuffled := make([]rankedNFT, len(original))
			copy(shuffled, original)
			rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			first := make([]rankedNFT, len(original))
			copy(first, original)
			assignRanks(first)
			assignRanks(shuffled)

			ranks := make(map[uuid.UUID]int, len(first))
			for _, n := range first {
				ranks[n.ID] = n.Rank
			}
			for _, n := range shuffled {
				if ranks[n.ID] != n.Rank {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 10000)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
