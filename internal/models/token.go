// internal/models/token.go
package models

import (
	"github.com/lib/pq"
)

// Token is a fungible token launched through the platform. Launch
// parameters (tax tier, distribution mode, initial buy) are stored as
// opaque metadata and never re-interpreted server-side.
type Token struct {
	BaseModel
	MintAddress   string          `json:"mint_address" gorm:"uniqueIndex;size:64;not null"`
	Name          string          `json:"name" gorm:"size:255;not null"`
	Symbol        string          `json:"symbol" gorm:"size:16;not null"`
	Description   string          `json:"description" gorm:"type:text"`
	ImageURL      string          `json:"image_url" gorm:"size:512"`
	SocialLinks   pq.StringArray  `json:"social_links" gorm:"type:text[]"`
	CreatorWallet string          `json:"creator_wallet" gorm:"size:64;not null;index"`
	Backend       LauncherBackend `json:"backend" gorm:"type:varchar(20);not null;index"`
	LaunchParams  JSONB           `json:"launch_params" gorm:"type:jsonb"`
}
