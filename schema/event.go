package schema

import (
	"time"
)

const (
	EventItemListed            = "ItemListed"
	EventItemSold              = "ItemSold"
	EventListingCancelled      = "ListingCancelled"
	EventListingPriceUpdated   = "ListingPriceUpdated"
	EventListingDeactivated    = "ListingDeactivated" // stale listing swept
	EventMarketplaceFeeUpdated = "MarketplaceFeeUpdated"
	EventCollectionCreated     = "CollectionCreated"
	EventTokenMinted           = "TokenMinted"
	EventTokensAirdropped      = "TokensAirdropped"
	EventEarningsWithdrawn     = "EarningsWithdrawn"
	EventTransfer              = "Transfer" // ownership change
	EventApprovalForAll        = "ApprovalForAll"
)

// Event is the envelope appended to the bolt event log and published to kafka.
type Event struct {
	Seq       uint64      `json:"seq"`
	Name      string      `json:"name"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type TransferEventPayload struct {
	Registry string `json:"registry"`
	TokenId  uint64 `json:"tokenId"`
	From     string `json:"from"` // zero address on mint
	To       string `json:"to"`
}

type ItemSoldEventPayload struct {
	ListingId uint64 `json:"listingId"`
	Seller    string `json:"seller"`
	Buyer     string `json:"buyer"`
	Price     string `json:"price"`
	Fee       string `json:"fee"`
}

type MintEventPayload struct {
	Collection string   `json:"collection"`
	Minter     string   `json:"minter"`
	TokenIds   []uint64 `json:"tokenIds"`
	Paid       string   `json:"paid"`
}
