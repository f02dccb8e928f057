// internal/i18n/keys.go
package i18n

// Translation keys
const (
	// Auth
	KeyAuthRequired         = "auth.required"
	KeyAuthInvalidToken     = "auth.invalid_token"
	KeyAuthTokenExpired     = "auth.token_expired"
	KeyAuthInvalidSignature = "auth.invalid_signature"
	KeyAuthNonceExpired     = "auth.nonce_expired"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// User
	KeyUserNotFound       = "user.not_found"
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUsernameTaken      = "user.username_taken"

	// NFT
	KeyNFTNotFound     = "nft.not_found"
	KeyNFTNotOwner     = "nft.not_owner"
	KeyNFTAlreadyLiked = "nft.already_liked"

	// Collection
	KeyCollectionNotFound = "collection.not_found"

	// Token
	KeyTokenNotFound = "token.not_found"

	// Generation
	KeyGenerationLimitReached = "generation.limit_reached"
	KeyGenerationFailed       = "generation.failed"

	// Mint / launch
	KeyPaymentFailed     = "mint.payment_failed"
	KeyMintFailed        = "mint.failed"
	KeyStatusCheckFailed = "mint.status_check_failed"
	KeyLaunchFailed      = "token.launch_failed"

	// Files
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileTooLarge      = "file.too_large"
)
