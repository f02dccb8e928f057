// internal/models/nft.go
package models

import (
	"github.com/google/uuid"
)

type NFT struct {
	BaseModel
	MintAddress   string     `json:"mint_address" gorm:"uniqueIndex;size:64;not null"`
	Name          string     `json:"name" gorm:"size:255;not null"`
	Description   string     `json:"description" gorm:"type:text"`
	ImageURL      string     `json:"image_url" gorm:"size:512"`
	OwnerWallet   string     `json:"owner_wallet" gorm:"size:64;not null;index"`
	CreatorWallet string     `json:"creator_wallet" gorm:"size:64;not null;index"`
	CollectionID  *uuid.UUID `json:"collection_id" gorm:"type:uuid;index"`
	IsNSFW        bool       `json:"is_nsfw" gorm:"default:false"`
	IsListed      bool       `json:"is_listed" gorm:"default:false;index"`
	Price         float64    `json:"price" gorm:"type:decimal(20,9);default:0"`
	LikeCount     int64      `json:"like_count" gorm:"default:0"`
	RarityScore   *float64   `json:"rarity_score" gorm:"index"`
	RarityRank    *int       `json:"rarity_rank"`

	// Relationships
	Collection *Collection    `json:"collection,omitempty" gorm:"foreignKey:CollectionID"`
	Attributes []NFTAttribute `json:"attributes,omitempty" gorm:"foreignKey:NFTID"`
}

// NFTAttribute is one (trait_type, value) pair. Position preserves the
// order attributes were supplied in; frequency counting matches trait_type
// and value by exact case-sensitive string equality.
type NFTAttribute struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	NFTID     uuid.UUID `json:"nft_id" gorm:"type:uuid;not null;index"`
	TraitType string    `json:"trait_type" gorm:"size:255;not null;index:idx_nft_attributes_pair"`
	Value     string    `json:"value" gorm:"size:255;not null;index:idx_nft_attributes_pair"`
	Position  int       `json:"position" gorm:"not null"`
}

type NFTLike struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	NFTID         uuid.UUID `json:"nft_id" gorm:"type:uuid;not null;uniqueIndex:idx_nft_likes_wallet"`
	WalletAddress string    `json:"wallet_address" gorm:"size:64;not null;uniqueIndex:idx_nft_likes_wallet"`
}

func (NFTLike) TableName() string {
	return "nft_likes"
}
