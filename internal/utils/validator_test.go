// internal/utils/validator_test.go
package utils

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walletField struct {
	Wallet string `validate:"required,wallet_address"`
}

type symbolField struct {
	Symbol string `validate:"required,token_symbol"`
}

type usernameField struct {
	Username string `validate:"required,username"`
}

func TestValidateWalletAddress(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	assert.NoError(t, ValidateStruct(walletField{Wallet: base58.Encode(pub)}))
	assert.Error(t, ValidateStruct(walletField{Wallet: "0xdeadbeef"}))
	assert.Error(t, ValidateStruct(walletField{Wallet: base58.Encode([]byte("too-short"))}))
	assert.Error(t, ValidateStruct(walletField{Wallet: ""}))
}

func TestValidateTokenSymbol(t *testing.T) {
	assert.NoError(t, ValidateStruct(symbolField{Symbol: "MOON"}))
	assert.NoError(t, ValidateStruct(symbolField{Symbol: "SOL2"}))

	assert.Error(t, ValidateStruct(symbolField{Symbol: "m"}))
	assert.Error(t, ValidateStruct(symbolField{Symbol: "lowercase"}))
	assert.Error(t, ValidateStruct(symbolField{Symbol: "WAYTOOLONGSYMBOL"}))
	assert.Error(t, ValidateStruct(symbolField{Symbol: "HAS SPACE"}))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateStruct(usernameField{Username: "sol_forger_42"}))

	assert.Error(t, ValidateStruct(usernameField{Username: "ab"}))
	assert.Error(t, ValidateStruct(usernameField{Username: "has-dash"}))
	assert.Error(t, ValidateStruct(usernameField{Username: "has space"}))
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(symbolField{Symbol: "x"})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "symbol", errs[0].Field)
	assert.Equal(t, "token_symbol", errs[0].Tag)
	assert.NotEmpty(t, errs[0].Message)
}
