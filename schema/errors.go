package schema

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("not_found")
	ErrTokenNotFound = errors.New("token_not_found")

	// authorization
	ErrNotOwner     = errors.New("not_token_owner")
	ErrUnauthorized = errors.New("unauthorized")

	// validation
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidSupply  = errors.New("invalid_supply")
	ErrInvalidAddress = errors.New("invalid_address")
	ErrFeeTooHigh     = errors.New("fee_too_high")
	ErrRoyaltyTooHigh = errors.New("royalty_too_high")

	// listing state
	ErrListingNotFound = errors.New("listing_not_found")
	ErrListingInactive = errors.New("listing_inactive")
	ErrSelfPurchase    = errors.New("self_purchase")

	// minting state
	ErrMintingDisabled     = errors.New("minting_disabled")
	ErrPublicMintDisabled  = errors.New("public_mint_disabled")
	ErrWhitelistRequired   = errors.New("whitelist_required")
	ErrSupplyExhausted     = errors.New("supply_exhausted")
	ErrWalletLimitExceeded = errors.New("wallet_limit_exceeded")

	// funds
	ErrInsufficientPayment = errors.New("insufficient_payment")
	ErrNothingToWithdraw   = errors.New("nothing_to_withdraw")

	// the token registry rejected a transfer the ledger expected to succeed
	ErrTransferNotAuthorized = errors.New("transfer_not_authorized")
)
