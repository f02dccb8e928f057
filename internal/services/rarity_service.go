// internal/services/rarity_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solaforge/solaforge-backend/internal/database"
	"github.com/solaforge/solaforge-backend/internal/models"
)

var ErrNFTNotFound = errors.New("nft not found")

// RarityResult is the outcome of a composite rarity computation.
type RarityResult struct {
	RarityScore float64           `json:"rarity_score"`
	Rank        int               `json:"rank"`
	TotalNFTs   int               `json:"total_nfts"`
	Percentile  float64           `json:"percentile"`
	Tier        models.RarityTier `json:"tier"`
}

type RarityService struct {
	db *gorm.DB

	// Guards the full-corpus re-rank; two concurrent computations would
	// otherwise interleave their rank rewrites.
	rankMu sync.Mutex
}

func NewRarityService(db *gorm.DB) *RarityService {
	return &RarityService{db: db}
}

// pairScore is one attribute pair's inverse-frequency contribution:
// (1 / (matchCount / total)) × 100.
func pairScore(matchCount, total int64) float64 {
	if matchCount == 0 || total == 0 {
		return 0
	}
	return float64(total) / float64(matchCount) * 100
}

// percentileForRank converts a dense rank into a 2-decimal percentile.
// Rank 1 of N is the 100th percentile; an unranked NFT (rank < 1) has
// no percentile.
func percentileForRank(rank, total int) float64 {
	if rank < 1 || total == 0 {
		return 0
	}
	p := float64(total-rank+1) / float64(total) * 100
	return math.Round(p*100) / 100
}

// tierForPercentile resolves the display tier, most exclusive first.
func tierForPercentile(percentile float64) models.RarityTier {
	switch {
	case percentile >= 99:
		return models.RarityTierLegendary
	case percentile >= 95:
		return models.RarityTierEpic
	case percentile >= 90:
		return models.RarityTierRare
	default:
		return models.RarityTierCommon
	}
}

// rankedNFT is the slice element used by assignRanks.
type rankedNFT struct {
	ID        uuid.UUID
	Score     float64
	CreatedAt time.Time
	Rank      int
}

// assignRanks orders by score descending, breaking ties by earlier
// creation time, and assigns dense ranks 1..N.
func assignRanks(nfts []rankedNFT) {
	sort.SliceStable(nfts, func(i, j int) bool {
		if nfts[i].Score != nfts[j].Score {
			return nfts[i].Score > nfts[j].Score
		}
		return nfts[i].CreatedAt.Before(nfts[j].CreatedAt)
	})
	for i := range nfts {
		nfts[i].Rank = i + 1
	}
}

// ComputeRarity scores one NFT against the corpus, persists the score,
// re-ranks every scored NFT, and reports the resulting placement.
func (s *RarityService) ComputeRarity(ctx context.Context, nftID uuid.UUID) (*RarityResult, error) {
	var nft models.NFT
	if err := s.db.WithContext(ctx).First(&nft, "id = ?", nftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNFTNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var attributes []models.NFTAttribute
	if err := s.db.WithContext(ctx).
		Where("nft_id = ? AND trait_type <> ?", nftID, models.TraitTypePrompt).
		Order("position ASC").
		Find(&attributes).Error; err != nil {
		return nil, fmt.Errorf("failed to load attributes: %w", err)
	}

	total, err := s.scoredCorpusSize(ctx)
	if err != nil {
		return nil, err
	}

	// Nothing scored yet: the first NFT in has no corpus to compare
	// against, so it starts out Common with a zero score.
	if total == 0 {
		if err := s.persistUnranked(ctx, &nft); err != nil {
			return nil, err
		}
		return &RarityResult{Tier: models.RarityTierCommon}, nil
	}

	var score float64
	for _, attr := range attributes {
		var matchCount int64
		if err := s.db.WithContext(ctx).Model(&models.NFTAttribute{}).
			Distinct("nft_id").
			Where("trait_type = ? AND value = ?", attr.TraitType, attr.Value).
			Count(&matchCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count trait frequency: %w", err)
		}
		score += pairScore(matchCount, total)
	}

	// No qualifying attributes (empty or prompt-only) leaves the score
	// at zero. The NFT stays outside the ranked corpus: it must not be
	// handed rank 0 against a non-empty corpus.
	if score == 0 {
		if err := s.persistUnranked(ctx, &nft); err != nil {
			return nil, err
		}
		return &RarityResult{TotalNFTs: int(total), Tier: models.RarityTierCommon}, nil
	}

	if err := s.db.WithContext(ctx).Model(&nft).
		Update("rarity_score", score).Error; err != nil {
		return nil, fmt.Errorf("failed to persist rarity score: %w", err)
	}

	rank, rankedTotal, err := s.recomputeRanks(ctx, nftID)
	if err != nil {
		return nil, err
	}

	percentile := percentileForRank(rank, rankedTotal)

	return &RarityResult{
		RarityScore: score,
		Rank:        rank,
		TotalNFTs:   rankedTotal,
		Percentile:  percentile,
		Tier:        tierForPercentile(percentile),
	}, nil
}

// TraitRarity reports how common a single (trait_type, value) pair is
// across the scored corpus, as a 2-decimal percentage.
func (s *RarityService) TraitRarity(ctx context.Context, traitType, value string) (float64, error) {
	total, err := s.scoredCorpusSize(ctx)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	var matchCount int64
	if err := s.db.WithContext(ctx).Model(&models.NFTAttribute{}).
		Distinct("nft_id").
		Where("trait_type = ? AND value = ?", traitType, value).
		Count(&matchCount).Error; err != nil {
		return 0, fmt.Errorf("failed to count trait frequency: %w", err)
	}

	return traitFrequencyPercent(matchCount, total), nil
}

// traitFrequencyPercent is (matchCount / total) × 100, 2 decimals.
func traitFrequencyPercent(matchCount, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(matchCount)/float64(total)*100*100) / 100
}

// persistUnranked records a zero score and clears any stale rank.
func (s *RarityService) persistUnranked(ctx context.Context, nft *models.NFT) error {
	if err := s.db.WithContext(ctx).Model(nft).
		Updates(map[string]interface{}{"rarity_score": 0.0, "rarity_rank": nil}).Error; err != nil {
		return fmt.Errorf("failed to persist rarity score: %w", err)
	}
	return nil
}

// scoredCorpusSize counts NFTs with a nonzero rarity score.
func (s *RarityService) scoredCorpusSize(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.NFT{}).
		Where("rarity_score IS NOT NULL AND rarity_score > 0").
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count scored corpus: %w", err)
	}
	return total, nil
}

// recomputeRanks rewrites the rank column for every NFT with a nonzero
// score and returns the target's rank plus the ranked total. The full
// rewrite per call is acceptable only at small corpus sizes.
func (s *RarityService) recomputeRanks(ctx context.Context, target uuid.UUID) (int, int, error) {
	s.rankMu.Lock()
	defer s.rankMu.Unlock()

	var rows []rankedNFT
	if err := s.db.WithContext(ctx).Model(&models.NFT{}).
		Select("id", "rarity_score AS score", "created_at").
		Where("rarity_score IS NOT NULL AND rarity_score > 0").
		Find(&rows).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to load scored NFTs: %w", err)
	}

	assignRanks(rows)

	targetRank := 0
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Model(&models.NFT{}).
				Where("id = ?", row.ID).
				Update("rarity_rank", row.Rank).Error; err != nil {
				return fmt.Errorf("failed to update rank: %w", err)
			}
			if row.ID == target {
				targetRank = row.Rank
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return targetRank, len(rows), nil
}
