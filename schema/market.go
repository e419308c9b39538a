package schema

import (
	"time"
)

const (
	// listing status
	ListingActive    = "active"
	ListingSold      = "sold"
	ListingCancelled = "cancelled"

	// fund transfer kinds
	TransferDeposit    = "deposit"
	TransferWithdraw   = "withdraw"
	TransferProceeds   = "sale_proceeds"
	TransferFee        = "sale_fee"
	TransferMintPay    = "mint_payment"
	TransferEarnings   = "earnings_withdrawal"

	// fee / royalty ceiling, 1000 bps == 10%
	MaxFeeBasisPoints     = 1000
	MaxRoyaltyBasisPoints = 1000

	DefaultFeeBasisPoints = 250
)

// Listing is append only. Terminal states never transition back to active.
type Listing struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TokenContract string `gorm:"index:idx_listing_token" json:"tokenContract"`
	TokenId       uint64 `gorm:"index:idx_listing_token" json:"tokenId"`
	Seller        string `gorm:"index:idx_listing_seller" json:"seller"`
	Price         string `json:"price"` // wei
	Active        bool   `gorm:"index" json:"active"`
	Status        string `json:"status"` // "active","sold","cancelled"

	Buyer     string `json:"buyer,omitempty"`
	SalePrice string `json:"salePrice,omitempty"` // price at sale time
	SaleFee   string `json:"saleFee,omitempty"`
}

// MarketplaceConfig is a singleton row, id is always 1.
type MarketplaceConfig struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`

	Owner          string `json:"owner"`
	FeeReceiver    string `json:"feeReceiver"`
	FeeBasisPoints uint16 `json:"feeBasisPoints"`
	Operator       string `json:"operator"` // operator address sellers approve
}

// Account holds a native currency balance, wei as decimal string.
type Account struct {
	Address   string    `gorm:"primarykey" json:"address"`
	Balance   string    `json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FundTransfer is the settlement receipt written for every value movement.
type FundTransfer struct {
	ID        string    `gorm:"primarykey" json:"id"` // uuid
	CreatedAt time.Time `json:"createdAt"`

	From   string `gorm:"index" json:"from"`
	To     string `gorm:"index" json:"to"`
	Amount string `json:"amount"`
	Kind   string `json:"kind"`
	Ref    string `json:"ref"` // listing id or collection address
}
