// internal/services/nft_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solaforge/solaforge-backend/internal/database"
	"github.com/solaforge/solaforge-backend/internal/models"
	"github.com/solaforge/solaforge-backend/internal/providers/aiimage"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

var (
	ErrNotOwner      = errors.New("wallet does not own this NFT")
	ErrNotListed     = errors.New("nft is not listed")
	ErrAlreadyLiked  = errors.New("nft already liked by this wallet")
	ErrNotLiked      = errors.New("nft not liked by this wallet")
	ErrInvalidPrice  = errors.New("listing price must be positive")
	ErrAlreadyListed = errors.New("nft is already listed")
)

type NFTService struct {
	db *gorm.DB
}

type NFTFilters struct {
	Owner        string
	Creator      string
	CollectionID *uuid.UUID
	ListedOnly   bool
	IncludeNSFW  bool
}

func NewNFTService(db *gorm.DB) *NFTService {
	return &NFTService{db: db}
}

// List returns a filtered page of NFTs with their attributes preloaded
// in insertion order.
func (s *NFTService) List(ctx context.Context, params utils.PaginationParams, filters NFTFilters) ([]models.NFT, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.NFT{})

	if filters.Owner != "" {
		query = query.Where("owner_wallet = ?", filters.Owner)
	}
	if filters.Creator != "" {
		query = query.Where("creator_wallet = ?", filters.Creator)
	}
	if filters.CollectionID != nil {
		query = query.Where("collection_id = ?", *filters.CollectionID)
	}
	if filters.ListedOnly {
		query = query.Where("is_listed = ?", true)
	}
	if !filters.IncludeNSFW {
		query = query.Where("is_nsfw = ?", false)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	allowedSorts := []string{"created_at", "price", "like_count", "rarity_score", "rarity_rank", "name"}
	query = utils.ApplySort(query, params, allowedSorts)
	query = utils.ApplyPagination(query, params)

	var nfts []models.NFT
	if err := query.
		Preload("Attributes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Collection").
		Find(&nfts).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return nfts, total, nil
}

// GetByID loads one NFT with its ordered attributes and collection.
func (s *NFTService) GetByID(ctx context.Context, id uuid.UUID) (*models.NFT, error) {
	var nft models.NFT
	err := s.db.WithContext(ctx).
		Preload("Attributes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Collection").
		First(&nft, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNFTNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &nft, nil
}

// linkableCollection reports whether a provider collection id should be
// resolved to a stored collection row. The shared open collection is
// attributed only, never linked.
func linkableCollection(externalID string) bool {
	return externalID != "" && externalID != models.DefaultCollectionID
}

// buildAttributeRows lays the attribute rows out in supplied order and
// appends the prompt as a trailing pseudo-trait.
func buildAttributeRows(nftID uuid.UUID, attributes []aiimage.Attribute, prompt string) []models.NFTAttribute {
	rows := make([]models.NFTAttribute, 0, len(attributes)+1)
	for i, attr := range attributes {
		rows = append(rows, models.NFTAttribute{
			NFTID:     nftID,
			TraitType: attr.TraitType,
			Value:     attr.Value,
			Position:  i,
		})
	}
	if prompt != "" {
		rows = append(rows, models.NFTAttribute{
			NFTID:     nftID,
			TraitType: models.TraitTypePrompt,
			Value:     prompt,
			Position:  len(attributes),
		})
	}
	return rows
}

// SaveMinted persists a freshly minted NFT and its attribute rows. The
// prompt is stored as a trailing attribute so provenance survives even
// though rarity scoring skips it. A provider collection id resolves to
// the matching collection row; the shared open collection and unknown
// ids leave the NFT unlinked.
func (s *NFTService) SaveMinted(ctx context.Context, nft *models.NFT, attributes []aiimage.Attribute, prompt, externalCollectionID string) error {
	if linkableCollection(externalCollectionID) {
		var collection models.Collection
		err := s.db.WithContext(ctx).First(&collection, "external_id = ?", externalCollectionID).Error
		switch {
		case err == nil:
			nft.CollectionID = &collection.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// unknown provider id, keep the NFT unlinked
		default:
			return fmt.Errorf("failed to resolve collection: %w", err)
		}
	}

	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Create(nft).Error; err != nil {
			return fmt.Errorf("failed to save NFT: %w", err)
		}

		rows := buildAttributeRows(nft.ID, attributes, prompt)
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to save attributes: %w", err)
			}
		}

		record := models.Transaction{
			Type:        models.TransactionTypeMint,
			NFTID:       &nft.ID,
			ToWallet:    nft.OwnerWallet,
			TxSignature: nft.MintAddress,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record mint transaction: %w", err)
		}
		return nil
	})
}

// Like records a wallet's like exactly once and bumps the counter in
// the same transaction.
func (s *NFTService) Like(ctx context.Context, nftID uuid.UUID, wallet string) (int64, error) {
	nft, err := s.GetByID(ctx, nftID)
	if err != nil {
		return 0, err
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		like := models.NFTLike{NFTID: nftID, WalletAddress: wallet}
		if err := tx.Create(&like).Error; err != nil {
			return ErrAlreadyLiked
		}
		return tx.Model(&models.NFT{}).
			Where("id = ?", nftID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return nft.LikeCount, err
	}
	return nft.LikeCount + 1, nil
}

// Unlike removes the like and decrements the counter, clamped at zero.
func (s *NFTService) Unlike(ctx context.Context, nftID uuid.UUID, wallet string) (int64, error) {
	nft, err := s.GetByID(ctx, nftID)
	if err != nil {
		return 0, err
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		result := tx.Where("nft_id = ? AND wallet_address = ?", nftID, wallet).
			Delete(&models.NFTLike{})
		if result.Error != nil {
			return fmt.Errorf("database error: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotLiked
		}
		return tx.Model(&models.NFT{}).
			Where("id = ? AND like_count > 0", nftID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
	if err != nil {
		return nft.LikeCount, err
	}

	remaining := nft.LikeCount - 1
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// IsLiked reports whether the wallet has liked the NFT.
func (s *NFTService) IsLiked(ctx context.Context, nftID uuid.UUID, wallet string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.NFTLike{}).
		Where("nft_id = ? AND wallet_address = ?", nftID, wallet).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

// ListForSale marks an owned NFT as listed and records the action.
func (s *NFTService) ListForSale(ctx context.Context, nftID uuid.UUID, wallet string, price float64) (*models.NFT, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	nft, err := s.GetByID(ctx, nftID)
	if err != nil {
		return nil, err
	}
	if nft.OwnerWallet != wallet {
		return nil, ErrNotOwner
	}
	if nft.IsListed {
		return nil, ErrAlreadyListed
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Model(nft).Updates(map[string]interface{}{
			"is_listed": true,
			"price":     price,
		}).Error; err != nil {
			return fmt.Errorf("failed to list NFT: %w", err)
		}
		record := models.Transaction{
			Type:       models.TransactionTypeList,
			NFTID:      &nftID,
			FromWallet: wallet,
			Price:      price,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	nft.IsListed = true
	nft.Price = price
	return nft, nil
}

// Delist takes an owned NFT off the market.
func (s *NFTService) Delist(ctx context.Context, nftID uuid.UUID, wallet string) (*models.NFT, error) {
	nft, err := s.GetByID(ctx, nftID)
	if err != nil {
		return nil, err
	}
	if nft.OwnerWallet != wallet {
		return nil, ErrNotOwner
	}
	if !nft.IsListed {
		return nil, ErrNotListed
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Model(nft).Updates(map[string]interface{}{
			"is_listed": false,
			"price":     0,
		}).Error; err != nil {
			return fmt.Errorf("failed to delist NFT: %w", err)
		}
		record := models.Transaction{
			Type:       models.TransactionTypeDelist,
			NFTID:      &nftID,
			FromWallet: wallet,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	nft.IsListed = false
	nft.Price = 0
	return nft, nil
}

// RecordSale transfers ownership in the database and appends the sale
// record. The on-chain transfer already happened; this mirrors it.
func (s *NFTService) RecordSale(ctx context.Context, nftID uuid.UUID, buyer, txSignature string) (*models.NFT, error) {
	nft, err := s.GetByID(ctx, nftID)
	if err != nil {
		return nil, err
	}
	if !nft.IsListed {
		return nil, ErrNotListed
	}

	seller := nft.OwnerWallet
	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Model(nft).Updates(map[string]interface{}{
			"owner_wallet": buyer,
			"is_listed":    false,
			"price":        0,
		}).Error; err != nil {
			return fmt.Errorf("failed to transfer NFT: %w", err)
		}
		record := models.Transaction{
			Type:        models.TransactionTypeSale,
			NFTID:       &nftID,
			FromWallet:  seller,
			ToWallet:    buyer,
			Price:       nft.Price,
			TxSignature: txSignature,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	nft.OwnerWallet = buyer
	nft.IsListed = false
	return nft, nil
}

// History returns the NFT's transaction log, newest first.
func (s *NFTService) History(ctx context.Context, nftID uuid.UUID, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("nft_id = ?", nftID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var transactions []models.Transaction
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}
	return transactions, total, nil
}
