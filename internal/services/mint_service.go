// internal/services/mint_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/models"
	"github.com/solaforge/solaforge-backend/internal/providers/aiimage"
	"github.com/solaforge/solaforge-backend/internal/providers/chainrpc"
	"github.com/solaforge/solaforge-backend/internal/providers/mintpad"
)

// FlowState tracks where a mint or launch flow currently stands. The
// state is returned to the client on both success and failure so the
// frontend can show exactly where a flow stopped.
type FlowState string

const (
	FlowStateIdle              FlowState = "idle"
	FlowStateImageReady        FlowState = "image_ready"
	FlowStatePaymentPending    FlowState = "payment_pending"
	FlowStatePaymentConfirmed  FlowState = "payment_confirmed"
	FlowStateSubmissionPending FlowState = "submission_pending"
	FlowStatePolling           FlowState = "polling"
	FlowStateSucceeded         FlowState = "succeeded"
	FlowStateFailed            FlowState = "failed"
)

var (
	ErrPaymentNotConfirmed = errors.New("payment transaction was not confirmed in time")
	ErrPaymentRequired     = errors.New("payment signature required for a non-zero fee")
	ErrMintTimedOut        = errors.New("mint did not complete in time")
	ErrMintFailed          = errors.New("mint failed on the provider side")
)

// FlowError carries the state a flow failed in alongside the cause.
type FlowError struct {
	State FlowState
	Err   error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func failAt(state FlowState, err error) *FlowError {
	return &FlowError{State: state, Err: err}
}

// Collaborator seams; the concrete services satisfy them.
type tierResolver interface {
	TierForWallet(ctx context.Context, wallet string) (Tier, float64, error)
}

type freeMintLedger interface {
	ConsumeFreeMint(ctx context.Context, wallet string) (bool, error)
	RestoreFreeMint(ctx context.Context, wallet string) error
}

type nftPersister interface {
	SaveMinted(ctx context.Context, nft *models.NFT, attributes []aiimage.Attribute, prompt, externalCollectionID string) error
}

type collectionPersister interface {
	SaveCreated(ctx context.Context, collection *models.Collection) error
}

type MintService struct {
	cfg         *config.Config
	pad         mintpad.Client
	chain       chainrpc.Client
	tiers       tierResolver
	users       freeMintLedger
	nfts        nftPersister
	collections collectionPersister
	logger      *logrus.Logger
}

func NewMintService(
	cfg *config.Config,
	pad mintpad.Client,
	chain chainrpc.Client,
	tiers tierResolver,
	users freeMintLedger,
	nfts nftPersister,
	collections collectionPersister,
	logger *logrus.Logger,
) *MintService {
	return &MintService{
		cfg:         cfg,
		pad:         pad,
		chain:       chain,
		tiers:       tiers,
		users:       users,
		nfts:        nfts,
		collections: collections,
		logger:      logger,
	}
}

type MintNFTRequest struct {
	Wallet           string
	Name             string
	Description      string
	ImageURL         string
	Prompt           string
	Attributes       []aiimage.Attribute
	IsNSFW           bool
	CollectionID     string // provider-side collection id, optional
	PaymentSignature string
	UseFreeMint      bool
}

type MintNFTResult struct {
	State        FlowState   `json:"state"`
	MintAddress  string      `json:"mint_address"`
	EffectiveFee float64     `json:"effective_fee"`
	FreeMintUsed bool        `json:"free_mint_used"`
	Persisted    bool        `json:"persisted"`
	NFT          *models.NFT `json:"nft,omitempty"`
}

// QuoteMintFee resolves the wallet's tier discount against the base
// mint fee. The free-mint waiver forces zero.
func (s *MintService) QuoteMintFee(ctx context.Context, wallet string, useFreeMint bool) (float64, Tier, error) {
	tier, _, err := s.tiers.TierForWallet(ctx, wallet)
	if err != nil {
		return 0, tier, fmt.Errorf("failed to resolve tier: %w", err)
	}
	return EffectiveFee(s.cfg.MintPad.MintFee, tier.DiscountPercent, useFreeMint), tier, nil
}

// MintNFT runs the full mint flow: fee resolution, payment confirmation,
// submission, polling, and a best-effort database save. A successful
// on-chain mint is reported as succeeded even when the save fails; the
// chain is the source of truth and the row can be backfilled.
func (s *MintService) MintNFT(ctx context.Context, req *MintNFTRequest) (*MintNFTResult, error) {
	result := &MintNFTResult{State: FlowStateImageReady}

	tier, _, err := s.tiers.TierForWallet(ctx, req.Wallet)
	if err != nil {
		return result, failAt(FlowStateImageReady, fmt.Errorf("failed to resolve tier: %w", err))
	}

	freeMintApplied := false
	if req.UseFreeMint {
		freeMintApplied, err = s.users.ConsumeFreeMint(ctx, req.Wallet)
		if err != nil {
			return result, failAt(FlowStateImageReady, err)
		}
	}
	// Restore the waiver if anything past this point fails.
	restoreWaiver := func() {
		if !freeMintApplied {
			return
		}
		if err := s.users.RestoreFreeMint(context.WithoutCancel(ctx), req.Wallet); err != nil {
			s.logger.WithError(err).WithField("wallet", req.Wallet).Error("failed to restore free mint waiver")
		}
	}

	fee := EffectiveFee(s.cfg.MintPad.MintFee, tier.DiscountPercent, freeMintApplied)
	result.EffectiveFee = fee
	result.FreeMintUsed = freeMintApplied

	if fee > 0 {
		result.State = FlowStatePaymentPending
		if req.PaymentSignature == "" {
			restoreWaiver()
			return result, failAt(FlowStatePaymentPending, ErrPaymentRequired)
		}
		if err := s.confirmPayment(ctx, req.PaymentSignature); err != nil {
			restoreWaiver()
			return result, failAt(FlowStatePaymentPending, err)
		}
		result.State = FlowStatePaymentConfirmed
	}

	result.State = FlowStateSubmissionPending
	actionID, err := s.pad.MintNFT(ctx, &mintpad.MintRequest{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Attributes:   toPadAttributes(req.Attributes),
		CollectionID: req.CollectionID,
		OwnerWallet:  req.Wallet,
	})
	if err != nil {
		restoreWaiver()
		return result, failAt(FlowStateSubmissionPending, err)
	}

	result.State = FlowStatePolling
	status, err := s.pollAction(ctx, actionID, s.cfg.MintPad.PollInterval, s.cfg.MintPad.PollAttempts)
	if err != nil {
		restoreWaiver()
		return result, failAt(FlowStatePolling, err)
	}

	result.State = FlowStateSucceeded
	result.MintAddress = status.MintAddress

	nft := &models.NFT{
		MintAddress:   status.MintAddress,
		Name:          req.Name,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		OwnerWallet:   req.Wallet,
		CreatorWallet: req.Wallet,
		IsNSFW:        req.IsNSFW,
	}
	if err := s.nfts.SaveMinted(ctx, nft, req.Attributes, req.Prompt, req.CollectionID); err != nil {
		// Mint succeeded on chain; report it while flagging the gap.
		s.logger.WithError(err).WithFields(logrus.Fields{
			"wallet":       req.Wallet,
			"mint_address": status.MintAddress,
		}).Error("minted NFT could not be saved")
	} else {
		result.Persisted = true
		result.NFT = nft
	}

	return result, nil
}

type CreateCollectionRequest struct {
	Wallet           string
	Name             string
	Symbol           string
	Description      string
	ImageURL         string
	SupplyCap        *int
	Transferable     bool
	PaymentSignature string
}

type CreateCollectionResult struct {
	State        FlowState          `json:"state"`
	ExternalID   string             `json:"external_id"`
	EffectiveFee float64            `json:"effective_fee"`
	Persisted    bool               `json:"persisted"`
	Collection   *models.Collection `json:"collection,omitempty"`
}

// CreateCollection mirrors the mint flow for collection creation. There
// is no free-mint waiver; the collection fee only gets the tier discount.
func (s *MintService) CreateCollection(ctx context.Context, req *CreateCollectionRequest) (*CreateCollectionResult, error) {
	result := &CreateCollectionResult{State: FlowStateIdle}

	tier, _, err := s.tiers.TierForWallet(ctx, req.Wallet)
	if err != nil {
		return result, failAt(FlowStateIdle, fmt.Errorf("failed to resolve tier: %w", err))
	}

	fee := EffectiveFee(s.cfg.MintPad.CollectionFee, tier.DiscountPercent, false)
	result.EffectiveFee = fee

	if fee > 0 {
		result.State = FlowStatePaymentPending
		if req.PaymentSignature == "" {
			return result, failAt(FlowStatePaymentPending, ErrPaymentRequired)
		}
		if err := s.confirmPayment(ctx, req.PaymentSignature); err != nil {
			return result, failAt(FlowStatePaymentPending, err)
		}
		result.State = FlowStatePaymentConfirmed
	}

	result.State = FlowStateSubmissionPending
	actionID, err := s.pad.CreateCollection(ctx, &mintpad.CollectionRequest{
		Name:          req.Name,
		Symbol:        req.Symbol,
		ImageURL:      req.ImageURL,
		SupplyCap:     req.SupplyCap,
		Transferable:  req.Transferable,
		CreatorWallet: req.Wallet,
	})
	if err != nil {
		return result, failAt(FlowStateSubmissionPending, err)
	}

	result.State = FlowStatePolling
	status, err := s.pollAction(ctx, actionID, s.cfg.MintPad.PollInterval, s.cfg.MintPad.PollAttempts)
	if err != nil {
		return result, failAt(FlowStatePolling, err)
	}

	result.State = FlowStateSucceeded
	externalID := status.CollectionID
	if externalID == "" {
		externalID = status.MintAddress
	}
	result.ExternalID = externalID

	collection := &models.Collection{
		ExternalID:    externalID,
		Name:          req.Name,
		Symbol:        req.Symbol,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		CreatorWallet: req.Wallet,
		SupplyCap:     req.SupplyCap,
		Transferable:  req.Transferable,
	}
	if err := s.collections.SaveCreated(ctx, collection); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"wallet":      req.Wallet,
			"external_id": externalID,
		}).Error("created collection could not be saved")
	} else {
		result.Persisted = true
		result.Collection = collection
	}

	return result, nil
}

// GetMintStatus is a passthrough so clients can re-check a flow after a
// dropped connection.
func (s *MintService) GetMintStatus(ctx context.Context, actionID string) (*mintpad.ActionStatus, error) {
	return s.pad.GetStatus(ctx, actionID)
}

// confirmPayment polls the signature status at a fixed interval until
// the transaction confirms, fails on chain, or attempts run out.
func (s *MintService) confirmPayment(ctx context.Context, signature string) error {
	interval := time.Duration(s.cfg.Chain.ConfirmInterval) * time.Second
	attempts := uint64(s.cfg.Chain.ConfirmAttempts)

	operation := func() error {
		err := s.chain.GetSignatureStatus(ctx, signature)
		if err == nil {
			return nil
		}
		if errors.Is(err, chainrpc.ErrTransactionNotFound) {
			return err // keep waiting
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), attempts), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, chainrpc.ErrTransactionNotFound) {
			return ErrPaymentNotConfirmed
		}
		return fmt.Errorf("payment confirmation failed: %w", err)
	}
	return nil
}

var errActionPending = errors.New("action still pending")

// pollAction polls the provider's action status at a fixed interval.
func (s *MintService) pollAction(ctx context.Context, actionID string, intervalSec, attempts int) (*mintpad.ActionStatus, error) {
	interval := time.Duration(intervalSec) * time.Second

	var final *mintpad.ActionStatus
	operation := func() error {
		status, err := s.pad.GetStatus(ctx, actionID)
		if err != nil {
			return err // transient provider errors retry
		}
		switch status.State {
		case mintpad.ActionStateSucceeded:
			final = status
			return nil
		case mintpad.ActionStateFailed:
			if status.Error != "" {
				return backoff.Permanent(fmt.Errorf("%w: %s", ErrMintFailed, status.Error))
			}
			return backoff.Permanent(ErrMintFailed)
		default:
			return errActionPending
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, errActionPending) {
			return nil, ErrMintTimedOut
		}
		return nil, err
	}
	return final, nil
}

func toPadAttributes(attrs []aiimage.Attribute) []mintpad.Attribute {
	out := make([]mintpad.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, mintpad.Attribute{TraitType: a.TraitType, Value: a.Value})
	}
	return out
}
