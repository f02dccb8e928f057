// internal/services/credit_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/database"
	"github.com/solaforge/solaforge-backend/internal/models"
)

var (
	ErrPurchaseNotFound   = errors.New("credit purchase not found")
	ErrPaymentNotComplete = errors.New("payment has not completed")
	ErrInvalidCreditPack  = errors.New("unknown credit pack")
)

// CreditPack is one purchasable bundle of generation credits.
type CreditPack struct {
	ID       string  `json:"id"`
	Credits  int     `json:"credits"`
	PriceUSD float64 `json:"price_usd"`
}

// creditPacks is the fixed catalog; prices are in USD.
var creditPacks = []CreditPack{
	{ID: "starter", Credits: 10, PriceUSD: 4.99},
	{ID: "creator", Credits: 50, PriceUSD: 19.99},
	{ID: "studio", Credits: 200, PriceUSD: 59.99},
}

type CreditService struct {
	db     *gorm.DB
	config *config.Config
}

type PurchaseIntentResponse struct {
	ClientSecret string  `json:"client_secret"`
	PurchaseID   string  `json:"purchase_id"`
	Credits      int     `json:"credits"`
	Amount       float64 `json:"amount"`
}

func NewCreditService(db *gorm.DB, config *config.Config) *CreditService {
	stripe.Key = config.Payment.StripeSecretKey

	return &CreditService{
		db:     db,
		config: config,
	}
}

// Packs returns the purchasable credit bundles.
func (s *CreditService) Packs() []CreditPack {
	out := make([]CreditPack, len(creditPacks))
	copy(out, creditPacks)
	return out
}

func packByID(id string) (CreditPack, bool) {
	for _, p := range creditPacks {
		if p.ID == id {
			return p, true
		}
	}
	return CreditPack{}, false
}

// CreatePurchaseIntent opens a pending purchase and the matching Stripe
// payment intent. Credits are granted only after ConfirmPurchase sees
// the intent succeed.
func (s *CreditService) CreatePurchaseIntent(ctx context.Context, wallet, packID string) (*PurchaseIntentResponse, error) {
	pack, ok := packByID(packID)
	if !ok {
		return nil, ErrInvalidCreditPack
	}

	amountInCents := int64(pack.PriceUSD * 100)
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String("usd"),
	}
	params.AddMetadata("wallet_address", wallet)
	params.AddMetadata("credit_pack", pack.ID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	purchase := models.CreditPurchase{
		WalletAddress:    wallet,
		Credits:          pack.Credits,
		Amount:           pack.PriceUSD,
		PaymentReference: intent.ID,
		Status:           models.PurchaseStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&purchase).Error; err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	return &PurchaseIntentResponse{
		ClientSecret: intent.ClientSecret,
		PurchaseID:   purchase.ID.String(),
		Credits:      pack.Credits,
		Amount:       pack.PriceUSD,
	}, nil
}

// ConfirmPurchase verifies the payment with Stripe and grants the
// credits transactionally. Confirming an already-completed purchase is
// a no-op so retries cannot double-grant.
func (s *CreditService) ConfirmPurchase(ctx context.Context, wallet, paymentIntentID string) (*models.CreditPurchase, error) {
	var purchase models.CreditPurchase
	err := s.db.WithContext(ctx).
		Where("payment_reference = ? AND wallet_address = ?", paymentIntentID, wallet).
		First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if purchase.Status == models.PurchaseStatusCompleted {
		return &purchase, nil
	}

	intent, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, ErrPaymentNotComplete
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		result := tx.Model(&models.CreditPurchase{}).
			Where("id = ? AND status = ?", purchase.ID, models.PurchaseStatusPending).
			Update("status", models.PurchaseStatusCompleted)
		if result.Error != nil {
			return fmt.Errorf("failed to complete purchase: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Another confirm won the race; credits already granted.
			return nil
		}
		return tx.Model(&models.User{}).
			Where("wallet_address = ?", wallet).
			UpdateColumn("purchased_credits", gorm.Expr("purchased_credits + ?", purchase.Credits)).Error
	})
	if err != nil {
		return nil, err
	}

	purchase.Status = models.PurchaseStatusCompleted
	return &purchase, nil
}

// History lists the wallet's purchases, newest first.
func (s *CreditService) History(ctx context.Context, wallet string) ([]models.CreditPurchase, error) {
	var purchases []models.CreditPurchase
	if err := s.db.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return purchases, nil
}
