package schema

import (
	"time"
)

// TokenRegistry is one NFT contract equivalent: an id counter plus the token
// rows below that reference it. Every collection owns one; standalone
// registries can be created for externally minted tokens.
type TokenRegistry struct {
	Address     string    `gorm:"primarykey" json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
	Name        string    `json:"name"`
	NextTokenId uint64    `json:"nextTokenId"`
}

type Token struct {
	Registry string    `gorm:"primaryKey" json:"registry"`
	TokenId  uint64    `gorm:"primaryKey" json:"tokenId"`
	Owner    string    `gorm:"index:idx_token_owner" json:"owner"`
	URI      string    `json:"uri"`
	MintedAt time.Time `json:"mintedAt"`
}

// Approval records setApprovalForAll state, one row per (registry, owner, operator).
type Approval struct {
	Registry  string    `gorm:"primaryKey" json:"registry"`
	Owner     string    `gorm:"primaryKey" json:"owner"`
	Operator  string    `gorm:"primaryKey" json:"operator"`
	Approved  bool      `json:"approved"`
	UpdatedAt time.Time `json:"updatedAt"`
}
