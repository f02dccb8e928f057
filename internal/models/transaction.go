// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is an append-only history record. It is never re-derived
// from or validated against chain state.
type Transaction struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Type        TransactionType `json:"type" gorm:"type:varchar(20);not null;index"`
	NFTID       *uuid.UUID      `json:"nft_id" gorm:"type:uuid;index"`
	FromWallet  string          `json:"from_wallet" gorm:"size:64;index"`
	ToWallet    string          `json:"to_wallet" gorm:"size:64;index"`
	Price       float64         `json:"price" gorm:"type:decimal(20,9);default:0"`
	TxSignature string          `json:"tx_signature" gorm:"size:128"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relationships
	NFT *NFT `json:"nft,omitempty" gorm:"foreignKey:NFTID"`
}

// GenerationEvent records one AI generation by a wallet. Daily usage is
// the count of events since the most recent UTC midnight.
type GenerationEvent struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	WalletAddress string         `json:"wallet_address" gorm:"size:64;not null;index:idx_generation_events_wallet_time"`
	Kind          GenerationKind `json:"kind" gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time      `json:"created_at" gorm:"index:idx_generation_events_wallet_time"`
}

type CreditPurchase struct {
	BaseModel
	WalletAddress    string         `json:"wallet_address" gorm:"size:64;not null;index"`
	Credits          int            `json:"credits" gorm:"not null"`
	Amount           float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentReference string         `json:"payment_reference" gorm:"size:255"`
	Status           PurchaseStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
}
