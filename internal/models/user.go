// internal/models/user.go
package models

type User struct {
	BaseModel
	WalletAddress    string `json:"wallet_address" gorm:"uniqueIndex;size:64;not null"`
	Username         string `json:"username" gorm:"size:50"`
	Bio              string `json:"bio" gorm:"type:text"`
	AvatarURL        string `json:"avatar_url" gorm:"size:512"`
	FreeMintUsed     bool   `json:"free_mint_used" gorm:"default:false"`
	PurchasedCredits int    `json:"purchased_credits" gorm:"default:0"`

	// Relationships
	NFTs         []NFT         `json:"nfts,omitempty" gorm:"foreignKey:OwnerWallet;references:WalletAddress"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:ToWallet;references:WalletAddress"`
}
