// internal/utils/crypto.go
package utils

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// GenerateNonce returns a random hex string used as a login challenge.
func GenerateNonce() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// VerifyWalletSignature checks that signature (base58) over message was
// produced by the private key behind walletAddress (base58 ed25519 pubkey).
func VerifyWalletSignature(walletAddress, message, signature string) error {
	pubKey, err := base58.Decode(walletAddress)
	if err != nil {
		return fmt.Errorf("invalid wallet address: %w", err)
	}
	if len(pubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid wallet address: expected %d-byte key", ed25519.PublicKeySize)
	}

	sig, err := base58.Decode(signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("invalid signature: expected %d bytes", ed25519.SignatureSize)
	}

	if !ed25519.Verify(ed25519.PublicKey(pubKey), []byte(message), sig) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}
