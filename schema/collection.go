package schema

import (
	"time"
)

// Collection is one minting engine instance. Most fields are mutable only by
// the creator; MintedCount only increases and never exceeds MaxSupply.
type Collection struct {
	Address   string    `gorm:"primarykey" json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Name    string `json:"name"`
	Creator string `gorm:"index:idx_collection_creator" json:"creator"`

	MaxSupply   uint32 `json:"maxSupply"`
	MintedCount uint32 `json:"mintedCount"`

	MintPrice         string `json:"mintPrice"` // wei
	MintingEnabled    bool   `json:"mintingEnabled"`
	PublicMintEnabled bool   `json:"publicMintEnabled"`
	WhitelistEnabled  bool   `json:"whitelistEnabled"`
	MaxPerWallet      uint32 `json:"maxPerWallet"` // 0 means unlimited

	RoyaltyReceiver    string `json:"royaltyReceiver"`
	RoyaltyBasisPoints uint16 `json:"royaltyBasisPoints"`

	Description string `json:"description"`
	ImageURI    string `json:"imageURI"`

	TotalEarnings     string `json:"totalEarnings"`     // wei
	WithdrawnEarnings string `json:"withdrawnEarnings"` // wei
}

// PoolURI is one unassigned metadata URI. The pool is consumed FIFO by row id.
type PoolURI struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Collection string    `gorm:"index:idx_pool_collection" json:"collection"`
	URI        string    `json:"uri"`
	Assigned   bool      `gorm:"index:idx_pool_collection" json:"assigned"`
	TokenId    uint64    `json:"tokenId,omitempty"` // set once assigned
}

type WhitelistEntry struct {
	Collection string    `gorm:"primaryKey" json:"collection"`
	Address    string    `gorm:"primaryKey" json:"address"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MintCount tracks cumulative mints per wallet for MaxPerWallet enforcement.
type MintCount struct {
	Collection string `gorm:"primaryKey" json:"collection"`
	Address    string `gorm:"primaryKey" json:"address"`
	Count      uint32 `json:"count"`
}

// CollectionInfo is the aggregate read served to dashboards.
type CollectionInfo struct {
	Collection

	AvailableEarnings string `json:"availableEarnings"`
	PoolDepth         int64  `json:"poolDepth"` // unassigned URIs left
	RemainingSupply   uint32 `json:"remainingSupply"`
}
