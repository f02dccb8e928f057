// internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solaforge/solaforge-backend/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type UserService struct {
	db      *gorm.DB
	storage *StorageService
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,username"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}

// UserStats is the aggregate profile summary.
type UserStats struct {
	OwnedNFTs    int64 `json:"owned_nfts"`
	CreatedNFTs  int64 `json:"created_nfts"`
	ListedNFTs   int64 `json:"listed_nfts"`
	Transactions int64 `json:"transactions"`
}

func NewUserService(db *gorm.DB, storage *StorageService) *UserService {
	return &UserService{
		db:      db,
		storage: storage,
	}
}

// GetOrCreateByWallet looks the wallet up and lazily creates a profile
// row the first time it is seen. Wallet signature verification is the
// caller's job.
func (s *UserService) GetOrCreateByWallet(ctx context.Context, wallet string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	user = models.User{WalletAddress: wallet}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent first sign-in may have won the race; re-read.
		var existing models.User
		if lookupErr := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&existing).Error; lookupErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, wallet string, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Username != nil && *req.Username != user.Username {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("username = ? AND wallet_address <> ?", *req.Username, wallet).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return nil, ErrUsernameTaken
		}
		updates["username"] = *req.Username
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return user, nil
}

// UploadAvatar stores the image and points the profile at it.
func (s *UserService) UploadAvatar(ctx context.Context, wallet string, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	user, err := s.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	result, err := s.storage.UploadFile(file, header, s.storage.GetDefaultUploadOptions("avatars"))
	if err != nil {
		return nil, fmt.Errorf("avatar upload failed: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(user).Update("avatar_url", result.URL).Error; err != nil {
		return nil, fmt.Errorf("failed to save avatar: %w", err)
	}
	user.AvatarURL = result.URL
	return user, nil
}

// Stats aggregates the profile counters shown on the public page.
func (s *UserService) Stats(ctx context.Context, wallet string) (*UserStats, error) {
	stats := &UserStats{}

	if err := s.db.WithContext(ctx).Model(&models.NFT{}).
		Where("owner_wallet = ?", wallet).Count(&stats.OwnedNFTs).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.NFT{}).
		Where("creator_wallet = ?", wallet).Count(&stats.CreatedNFTs).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.NFT{}).
		Where("owner_wallet = ? AND is_listed = ?", wallet, true).Count(&stats.ListedNFTs).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("from_wallet = ? OR to_wallet = ?", wallet, wallet).Count(&stats.Transactions).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return stats, nil
}

// ConsumeFreeMint flips the one-time waiver atomically. Returns whether
// the waiver was still available and applied.
func (s *UserService) ConsumeFreeMint(ctx context.Context, wallet string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ? AND free_mint_used = ?", wallet, false).
		Update("free_mint_used", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume free mint: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RestoreFreeMint undoes a waiver spend after a failed mint so the user
// does not lose it to an infrastructure error.
func (s *UserService) RestoreFreeMint(ctx context.Context, wallet string) error {
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ?", wallet).
		Update("free_mint_used", false).Error; err != nil {
		return fmt.Errorf("failed to restore free mint: %w", err)
	}
	return nil
}
