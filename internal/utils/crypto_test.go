// internal/utils/crypto_test.go
package utils

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNonce(t *testing.T) {
	first, err := GenerateNonce()
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := GenerateNonce()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyWalletSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	wallet := base58.Encode(pub)
	message := "Sign in to Solaforge\n\nNonce: abc123"
	signature := base58.Encode(ed25519.Sign(priv, []byte(message)))

	assert.NoError(t, VerifyWalletSignature(wallet, message, signature))

	// Altered message invalidates the signature.
	assert.Error(t, VerifyWalletSignature(wallet, message+"x", signature))

	// Signature from a different key fails.
	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	otherSig := base58.Encode(ed25519.Sign(otherPriv, []byte(message)))
	assert.Error(t, VerifyWalletSignature(wallet, message, otherSig))
}

func TestVerifyWalletSignatureBadInputs(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	wallet := base58.Encode(pub)
	signature := base58.Encode(ed25519.Sign(priv, []byte("msg")))

	assert.Error(t, VerifyWalletSignature("not!base58", "msg", signature))
	assert.Error(t, VerifyWalletSignature(base58.Encode([]byte("short")), "msg", signature))
	assert.Error(t, VerifyWalletSignature(wallet, "msg", "not!base58"))
	assert.Error(t, VerifyWalletSignature(wallet, "msg", base58.Encode([]byte("truncated"))))
}
