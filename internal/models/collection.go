// internal/models/collection.go
package models

type Collection struct {
	BaseModel
	ExternalID    string `json:"external_id" gorm:"uniqueIndex;size:128"`
	Name          string `json:"name" gorm:"size:255;not null"`
	Symbol        string `json:"symbol" gorm:"size:16;not null"`
	Description   string `json:"description" gorm:"type:text"`
	ImageURL      string `json:"image_url" gorm:"size:512"`
	CreatorWallet string `json:"creator_wallet" gorm:"size:64;not null;index"`
	SupplyCap     *int   `json:"supply_cap"`
	Transferable  bool   `json:"transferable" gorm:"default:true"`

	// Relationships
	NFTs []NFT `json:"nfts,omitempty" gorm:"foreignKey:CollectionID"`
}
