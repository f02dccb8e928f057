// internal/services/generation_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/solaforge/solaforge-backend/internal/database"
	"github.com/solaforge/solaforge-backend/internal/models"
	"github.com/solaforge/solaforge-backend/internal/providers/aiimage"
)

var ErrGenerationLimitReached = errors.New("daily generation limit reached")

// GenerationQuota is the wallet's generation allowance snapshot.
type GenerationQuota struct {
	Tier             Tier    `json:"tier"`
	Balance          float64 `json:"balance"`
	UsedToday        int     `json:"used_today"`
	FreeRemaining    int     `json:"free_remaining"`
	PurchasedCredits int     `json:"purchased_credits"`
	Remaining        int     `json:"remaining"`
	Unlimited        bool    `json:"unlimited"`
}

// remainingGenerations combines the tier's daily free quota with the
// wallet's purchased credits. freeQuota may be UnlimitedGenerations, in
// which case the answer is also UnlimitedGenerations.
func remainingGenerations(freeQuota, usedToday, purchased int) int {
	if freeQuota == UnlimitedGenerations {
		return UnlimitedGenerations
	}
	free := freeQuota - usedToday
	if free < 0 {
		free = 0
	}
	remaining := free + purchased
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

type GenerationService struct {
	db     *gorm.DB
	tiers  *TierService
	ai     aiimage.Client
	logger *logrus.Logger
}

func NewGenerationService(db *gorm.DB, tiers *TierService, ai aiimage.Client, logger *logrus.Logger) *GenerationService {
	return &GenerationService{
		db:     db,
		tiers:  tiers,
		ai:     ai,
		logger: logger,
	}
}

// Quota resolves the wallet's tier and computes how many generations it
// has left today.
func (s *GenerationService) Quota(ctx context.Context, wallet string) (*GenerationQuota, error) {
	tier, balance, err := s.tiers.TierForWallet(ctx, wallet)
	if err != nil {
		// RPC outage degrades to the base tier so generation keeps
		// working for everyone at the lowest allowance.
		s.logger.WithError(err).WithField("wallet", wallet).Warn("tier lookup failed, using base tier")
		tier = TierForBalance(0)
		balance = 0
	}

	used, err := s.usedToday(ctx, wallet)
	if err != nil {
		return nil, err
	}

	purchased, err := s.purchasedCredits(ctx, wallet)
	if err != nil {
		return nil, err
	}

	quota := &GenerationQuota{
		Tier:             tier,
		Balance:          balance,
		UsedToday:        used,
		PurchasedCredits: purchased,
		Remaining:        remainingGenerations(tier.FreeGenerationsPerDay, used, purchased),
	}
	if tier.FreeGenerationsPerDay == UnlimitedGenerations {
		quota.Unlimited = true
		quota.FreeRemaining = UnlimitedGenerations
	} else {
		quota.FreeRemaining = tier.FreeGenerationsPerDay - used
		if quota.FreeRemaining < 0 {
			quota.FreeRemaining = 0
		}
	}
	return quota, nil
}

// GenerateImage checks the wallet's allowance, calls the AI provider,
// and records the spend. Only image generations count against the
// quota; the image is the expensive call.
func (s *GenerationService) GenerateImage(ctx context.Context, wallet, prompt string) (*aiimage.GeneratedImage, *GenerationQuota, error) {
	quota, err := s.Quota(ctx, wallet)
	if err != nil {
		return nil, nil, err
	}
	if !quota.Unlimited && quota.Remaining <= 0 {
		return nil, quota, ErrGenerationLimitReached
	}

	image, err := s.ai.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, quota, fmt.Errorf("image generation failed: %w", err)
	}

	if err := s.recordSpend(ctx, wallet, quota, models.GenerationKindImage); err != nil {
		// The image exists; losing the usage row costs one quota unit,
		// not the user's generation.
		s.logger.WithError(err).WithField("wallet", wallet).Error("failed to record generation spend")
	}

	return image, quota, nil
}

// GenerateMetadata derives name, description, and attributes for a
// generated image. Metadata calls are free; the quota was already spent
// on the image.
func (s *GenerationService) GenerateMetadata(ctx context.Context, wallet, prompt, imageURL string) (*aiimage.GeneratedMetadata, error) {
	metadata, err := s.ai.GenerateMetadata(ctx, prompt, imageURL)
	if err != nil {
		return nil, fmt.Errorf("metadata generation failed: %w", err)
	}

	event := models.GenerationEvent{
		WalletAddress: wallet,
		Kind:          models.GenerationKindMetadata,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		s.logger.WithError(err).WithField("wallet", wallet).Error("failed to record metadata generation")
	}

	return metadata, nil
}

// recordSpend writes the usage event and, when the free daily quota is
// already exhausted, burns one purchased credit. Free quota is always
// consumed before credits.
func (s *GenerationService) recordSpend(ctx context.Context, wallet string, quota *GenerationQuota, kind models.GenerationKind) error {
	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		event := models.GenerationEvent{
			WalletAddress: wallet,
			Kind:          kind,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to record generation event: %w", err)
		}

		if quota.Unlimited || quota.FreeRemaining > 0 {
			return nil
		}

		result := tx.Model(&models.User{}).
			Where("wallet_address = ? AND purchased_credits > 0", wallet).
			UpdateColumn("purchased_credits", gorm.Expr("purchased_credits - 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to consume credit: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New("no purchased credits left to consume")
		}
		return nil
	})
}

// usedToday counts image generations since the last UTC midnight. The
// metadata kind is excluded; it never consumes quota.
func (s *GenerationService) usedToday(ctx context.Context, wallet string) (int, error) {
	midnight := time.Now().UTC().Truncate(24 * time.Hour)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.GenerationEvent{}).
		Where("wallet_address = ? AND kind = ? AND created_at >= ?", wallet, models.GenerationKindImage, midnight).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return int(count), nil
}

func (s *GenerationService) purchasedCredits(ctx context.Context, wallet string) (int, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("purchased_credits").
		Where("wallet_address = ?", wallet).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load user credits: %w", err)
	}
	return user.PurchasedCredits, nil
}
