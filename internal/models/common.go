// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// TraitTypePrompt stores the free-text generation prompt on an NFT. The
// value is unique per NFT by construction, so rarity scoring skips it.
const TraitTypePrompt = "prompt"

// DefaultCollectionID is the external id of the shared open collection.
// NFTs minted into it carry no collection foreign key.
const DefaultCollectionID = "solaforge-open"

// Enums
type TransactionType string

const (
	TransactionTypeMint     TransactionType = "mint"
	TransactionTypeSale     TransactionType = "sale"
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypeList     TransactionType = "list"
	TransactionTypeDelist   TransactionType = "delist"
)

type LauncherBackend string

const (
	LauncherBackendBonding LauncherBackend = "bonding"
	LauncherBackendAMM     LauncherBackend = "amm"
	LauncherBackendInstant LauncherBackend = "instant"
)

type RarityTier string

const (
	RarityTierLegendary RarityTier = "Legendary"
	RarityTierEpic      RarityTier = "Epic"
	RarityTierRare      RarityTier = "Rare"
	RarityTierCommon    RarityTier = "Common"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusFailed    PurchaseStatus = "failed"
)

type GenerationKind string

const (
	GenerationKindImage    GenerationKind = "image"
	GenerationKindMetadata GenerationKind = "metadata"
)
