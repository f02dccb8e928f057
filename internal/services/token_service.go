// internal/services/token_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/models"
	"github.com/solaforge/solaforge-backend/internal/providers/chainrpc"
	"github.com/solaforge/solaforge-backend/internal/providers/launchpad"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

var (
	ErrTokenNotFound      = errors.New("token not found")
	ErrUnknownBackend     = errors.New("unknown launch backend")
	ErrFundingNotReceived = errors.New("custodial funding was not confirmed in time")
	ErrLaunchTimedOut     = errors.New("token launch did not complete in time")
	ErrLaunchFailed       = errors.New("token launch failed on the provider side")
)

type TokenService struct {
	cfg       *config.Config
	db        *gorm.DB
	chain     chainrpc.Client
	launchers map[models.LauncherBackend]launchpad.Launcher
	logger    *logrus.Logger
}

func NewTokenService(cfg *config.Config, db *gorm.DB, chain chainrpc.Client, launchers []launchpad.Launcher, logger *logrus.Logger) *TokenService {
	byBackend := make(map[models.LauncherBackend]launchpad.Launcher, len(launchers))
	for _, l := range launchers {
		byBackend[models.LauncherBackend(l.Name())] = l
	}
	return &TokenService{
		cfg:       cfg,
		db:        db,
		chain:     chain,
		launchers: byBackend,
		logger:    logger,
	}
}

type LaunchTokenRequest struct {
	Wallet           string
	Backend          models.LauncherBackend
	Name             string
	Symbol           string
	Description      string
	ImageURL         string
	SocialLinks      []string
	InitialBuy       float64
	Liquidity        float64
	TaxTier          string
	DistributionMode string
	FundingSignature string // custodial funding transfer, bonding/amm only
}

type LaunchTokenResult struct {
	State       FlowState     `json:"state"`
	MintAddress string        `json:"mint_address"`
	Fee         float64       `json:"fee"`
	Persisted   bool          `json:"persisted"`
	Token       *models.Token `json:"token,omitempty"`
}

// QuoteLaunchFee computes the backend-specific platform fee.
func (s *TokenService) QuoteLaunchFee(backend models.LauncherBackend, liquidity, initialBuy float64) (float64, error) {
	launcher, ok := s.launchers[backend]
	if !ok {
		return 0, ErrUnknownBackend
	}
	return launcher.Fee(liquidity, initialBuy), nil
}

// Launch runs a token creation through the selected backend: custodial
// funding confirmation where the backend needs it, submission, polling,
// and a best-effort save. A confirmed on-chain launch is reported as
// succeeded even if the row cannot be written.
func (s *TokenService) Launch(ctx context.Context, req *LaunchTokenRequest) (*LaunchTokenResult, error) {
	launcher, ok := s.launchers[req.Backend]
	if !ok {
		return nil, ErrUnknownBackend
	}

	result := &LaunchTokenResult{
		State: FlowStateIdle,
		Fee:   launcher.Fee(req.Liquidity, req.InitialBuy),
	}

	if launcher.RequiresCustodialFunding() {
		result.State = FlowStatePaymentPending
		if req.FundingSignature == "" {
			return result, failAt(FlowStatePaymentPending, ErrPaymentRequired)
		}
		if err := s.confirmFunding(ctx, req.FundingSignature); err != nil {
			return result, failAt(FlowStatePaymentPending, err)
		}
		result.State = FlowStatePaymentConfirmed
	}

	result.State = FlowStateSubmissionPending
	requestID, err := launcher.Launch(ctx, &launchpad.LaunchRequest{
		Name:             req.Name,
		Symbol:           req.Symbol,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		SocialLinks:      pq.StringArray(req.SocialLinks),
		CreatorWallet:    req.Wallet,
		InitialBuy:       req.InitialBuy,
		Liquidity:        req.Liquidity,
		TaxTier:          req.TaxTier,
		DistributionMode: req.DistributionMode,
	})
	if err != nil {
		return result, failAt(FlowStateSubmissionPending, err)
	}

	result.State = FlowStatePolling
	status, err := s.pollLaunch(ctx, launcher, requestID)
	if err != nil {
		return result, failAt(FlowStatePolling, err)
	}

	result.State = FlowStateSucceeded
	result.MintAddress = status.MintAddress

	token := &models.Token{
		MintAddress:   status.MintAddress,
		Name:          req.Name,
		Symbol:        req.Symbol,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		SocialLinks:   pq.StringArray(req.SocialLinks),
		CreatorWallet: req.Wallet,
		Backend:       req.Backend,
		LaunchParams: models.JSONB{
			"initial_buy":       req.InitialBuy,
			"liquidity":         req.Liquidity,
			"tax_tier":          req.TaxTier,
			"distribution_mode": req.DistributionMode,
		},
	}
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"wallet":       req.Wallet,
			"mint_address": status.MintAddress,
			"backend":      req.Backend,
		}).Error("launched token could not be saved")
	} else {
		result.Persisted = true
		result.Token = token
	}

	return result, nil
}

// GetLaunchStatus re-checks a launch by backend and request id.
func (s *TokenService) GetLaunchStatus(ctx context.Context, backend models.LauncherBackend, requestID string) (*launchpad.LaunchStatus, error) {
	launcher, ok := s.launchers[backend]
	if !ok {
		return nil, ErrUnknownBackend
	}
	return launcher.Status(ctx, requestID)
}

func (s *TokenService) List(ctx context.Context, params utils.PaginationParams, creator string, backend models.LauncherBackend) ([]models.Token, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Token{})

	if creator != "" {
		query = query.Where("creator_wallet = ?", creator)
	}
	if backend != "" {
		query = query.Where("backend = ?", backend)
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

	var tokens []models.Token
	if err := query.Find(&tokens).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}
	return tokens, total, nil
}

func (s *TokenService) GetByID(ctx context.Context, id uuid.UUID) (*models.Token, error) {
	var token models.Token
	err := s.db.WithContext(ctx).First(&token, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &token, nil
}

// confirmFunding waits for the user's transfer into the custodial
// wallet to confirm before the backend is allowed to spend it.
func (s *TokenService) confirmFunding(ctx context.Context, signature string) error {
	interval := time.Duration(s.cfg.Chain.ConfirmInterval) * time.Second
	attempts := uint64(s.cfg.Chain.ConfirmAttempts)

	operation := func() error {
		err := s.chain.GetSignatureStatus(ctx, signature)
		if err == nil {
			return nil
		}
		if errors.Is(err, chainrpc.ErrTransactionNotFound) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), attempts), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, chainrpc.ErrTransactionNotFound) {
			return ErrFundingNotReceived
		}
		return fmt.Errorf("funding confirmation failed: %w", err)
	}
	return nil
}

var errLaunchPending = errors.New("launch still pending")

func (s *TokenService) pollLaunch(ctx context.Context, launcher launchpad.Launcher, requestID string) (*launchpad.LaunchStatus, error) {
	interval := time.Duration(s.cfg.Launchpad.PollInterval) * time.Second
	attempts := uint64(s.cfg.Launchpad.PollAttempts)

	var final *launchpad.LaunchStatus
	operation := func() error {
		status, err := launcher.Status(ctx, requestID)
		if err != nil {
			return err
		}
		switch status.State {
		case launchpad.LaunchStateSucceeded:
			final = status
			return nil
		case launchpad.LaunchStateFailed:
			if status.Error != "" {
				return backoff.Permanent(fmt.Errorf("%w: %s", ErrLaunchFailed, status.Error))
			}
			return backoff.Permanent(ErrLaunchFailed)
		default:
			return errLaunchPending
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), attempts), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, errLaunchPending) {
			return nil, ErrLaunchTimedOut
		}
		return nil, err
	}
	return final, nil
}
