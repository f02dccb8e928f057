// internal/services/auth_service_test.go
package services

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/models"
)

type fakeUsers struct {
	users map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*models.User)}
}

func (f *fakeUsers) GetOrCreateByWallet(ctx context.Context, wallet string) (*models.User, error) {
	if user, ok := f.users[wallet]; ok {
		return user, nil
	}
	user := &models.User{WalletAddress: wallet}
	user.ID = uuid.New()
	f.users[wallet] = user
	return user, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUsers) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		JWT: config.JWTConfig{AccessTokenTTL: 1, RefreshTokenTTL: 24},
	}
	users := newFakeUsers()
	return NewAuthService(cfg, rdb, users), users
}

func testKeypair(t *testing.T) (wallet string, priv ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return base58.Encode(pub), priv
}

func signChallenge(priv ed25519.PrivateKey, message string) string {
	return base58.Encode(ed25519.Sign(priv, []byte(message)))
}

func TestAuthChallengeAndVerify(t *testing.T) {
	svc, _ := newTestAuthService(t)
	wallet, priv := testKeypair(t)
	ctx := context.Background()

	challenge, err := svc.Challenge(ctx, wallet)
	require.NoError(t, err)
	assert.NotEmpty(t, challenge.Nonce)
	assert.Contains(t, challenge.Message, challenge.Nonce)

	resp, err := svc.Verify(ctx, wallet, signChallenge(priv, challenge.Message))
	require.NoError(t, err)
	assert.Equal(t, wallet, resp.User.WalletAddress)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestAuthVerifyRejectsBadSignature(t *testing.T) {
	svc, _ := newTestAuthService(t)
	wallet, _ := testKeypair(t)
	_, wrongPriv := testKeypair(t)
	ctx := context.Background()

	challenge, err := svc.Challenge(ctx, wallet)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, wallet, signChallenge(wrongPriv, challenge.Message))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestAuthVerifyWithoutChallenge(t *testing.T) {
	svc, _ := newTestAuthService(t)
	wallet, priv := testKeypair(t)

	_, err := svc.Verify(context.Background(), wallet, signChallenge(priv, "anything"))
	assert.ErrorIs(t, err, ErrNonceExpired)
}

func TestAuthNonceIsSingleUse(t *testing.T) {
	svc, _ := newTestAuthService(t)
	wallet, priv := testKeypair(t)
	ctx := context.Background()

	challenge, err := svc.Challenge(ctx, wallet)
	require.NoError(t, err)

	signature := signChallenge(priv, challenge.Message)
	_, err = svc.Verify(ctx, wallet, signature)
	require.NoError(t, err)

	// Replaying the same signed challenge must fail.
	_, err = svc.Verify(ctx, wallet, signature)
	assert.ErrorIs(t, err, ErrNonceExpired)
}

func TestAuthRefresh(t *testing.T) {
	svc, _ := newTestAuthService(t)
	wallet, priv := testKeypair(t)
	ctx := context.Background()

	challenge, err := svc.Challenge(ctx, wallet)
	require.NoError(t, err)

	first, err := svc.Verify(ctx, wallet, signChallenge(priv, challenge.Message))
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, wallet, refreshed.User.WalletAddress)
	assert.NotEmpty(t, refreshed.Token)
}

func TestAuthRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.Error(t, err)
}
