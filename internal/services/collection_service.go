// internal/services/collection_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solaforge/solaforge-backend/internal/models"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

var ErrCollectionNotFound = errors.New("collection not found")

type CollectionService struct {
	db *gorm.DB
}

// CollectionStats summarizes market activity inside one collection.
type CollectionStats struct {
	ItemCount   int64   `json:"item_count"`
	ListedCount int64   `json:"listed_count"`
	OwnerCount  int64   `json:"owner_count"`
	FloorPrice  float64 `json:"floor_price"`
	TotalVolume float64 `json:"total_volume"`
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

func (s *CollectionService) List(ctx context.Context, params utils.PaginationParams, creator string) ([]models.Collection, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Collection{})

	if creator != "" {
		query = query.Where("creator_wallet = ?", creator)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR symbol ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	allowedSorts := []string{"created_at", "name", "symbol"}
	query = utils.ApplySort(query, params, allowedSorts)
	query = utils.ApplyPagination(query, params)

	var collections []models.Collection
	if err := query.Find(&collections).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}
	return collections, total, nil
}

func (s *CollectionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.WithContext(ctx).First(&collection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &collection, nil
}

func (s *CollectionService) GetByExternalID(ctx context.Context, externalID string) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.WithContext(ctx).First(&collection, "external_id = ?", externalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &collection, nil
}

// SaveCreated persists a collection after the on-chain creation has
// succeeded; externalID is the provider-assigned collection id.
func (s *CollectionService) SaveCreated(ctx context.Context, collection *models.Collection) error {
	if err := s.db.WithContext(ctx).Create(collection).Error; err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

// Stats aggregates item, listing, owner, floor, and volume numbers for
// the collection detail page.
func (s *CollectionService) Stats(ctx context.Context, id uuid.UUID) (*CollectionStats, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	stats := &CollectionStats{}

	if err := s.db.WithContext(ctx).Model(&models.NFT{}).
		Where("collection_id = ?", id).Count(&stats.ItemCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.NFT{}).
		Where("collection_id = ? AND is_listed = ?", id, true).
		Count(&stats.ListedCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.NFT{}).
		Where("collection_id = ?", id).
		Distinct("owner_wallet").
		Count(&stats.OwnerCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if stats.ListedCount > 0 {
		var floor *float64
		if err := s.db.WithContext(ctx).Model(&models.NFT{}).
			Where("collection_id = ? AND is_listed = ?", id, true).
			Select("MIN(price)").Scan(&floor).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if floor != nil {
			stats.FloorPrice = *floor
		}
	}

	var volume *float64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Joins("JOIN nfts ON nfts.id = transactions.nft_id").
		Where("nfts.collection_id = ? AND transactions.type = ?", id, models.TransactionTypeSale).
		Select("SUM(transactions.price)").Scan(&volume).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if volume != nil {
		stats.TotalVolume = *volume
	}

	return stats, nil
}
