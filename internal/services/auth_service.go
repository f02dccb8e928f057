// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/models"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

var (
	ErrNonceExpired     = errors.New("nonce expired or never issued")
	ErrInvalidSignature = errors.New("invalid wallet signature")
)

// nonceTTL bounds the window between challenge issue and sign-in.
const nonceTTL = 5 * time.Minute

type userProvider interface {
	GetOrCreateByWallet(ctx context.Context, wallet string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthService struct {
	cfg   *config.Config
	redis *redis.Client
	users userProvider
}

type AuthChallenge struct {
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

func NewAuthService(cfg *config.Config, rdb *redis.Client, users userProvider) *AuthService {
	return &AuthService{
		cfg:   cfg,
		redis: rdb,
		users: users,
	}
}

func nonceKey(wallet string) string {
	return "auth:nonce:" + wallet
}

// signInMessage is what the wallet is asked to sign. The nonce makes
// each challenge single-use.
func signInMessage(nonce string) string {
	return fmt.Sprintf("Sign in to Solaforge\n\nNonce: %s", nonce)
}

// Challenge issues a short-lived nonce for the wallet to sign.
func (s *AuthService) Challenge(ctx context.Context, wallet string) (*AuthChallenge, error) {
	nonce, err := utils.GenerateNonce()
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, nonceKey(wallet), nonce, nonceTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store nonce: %w", err)
	}

	return &AuthChallenge{
		Nonce:   nonce,
		Message: signInMessage(nonce),
	}, nil
}

// Verify checks the signed challenge, burns the nonce, lazily creates
// the profile, and issues a token pair.
func (s *AuthService) Verify(ctx context.Context, wallet, signature string) (*AuthResponse, error) {
	nonce, err := s.redis.GetDel(ctx, nonceKey(wallet)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNonceExpired
		}
		return nil, fmt.Errorf("failed to load nonce: %w", err)
	}

	if err := utils.VerifyWalletSignature(wallet, signInMessage(nonce), signature); err != nil {
		return nil, ErrInvalidSignature
	}

	user, err := s.users.GetOrCreateByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token subject: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateJWT(user.ID, user.WalletAddress, user.Username, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(s.cfg.JWT.AccessTokenTTL) * time.Hour),
	}, nil
}
