package schema

// Request bodies of the HTTP API. Every state changing request carries From,
// the caller address the operation is authorized against.

type ListItemReq struct {
	From          string `json:"from"`
	TokenContract string `json:"tokenContract"`
	TokenId       uint64 `json:"tokenId"`
	Price         string `json:"price"`
}

type BuyItemReq struct {
	From    string `json:"from"`
	Payment string `json:"payment"`
}

type CancelListingReq struct {
	From string `json:"from"`
}

type UpdatePriceReq struct {
	From  string `json:"from"`
	Price string `json:"price"`
}

type UpdateFeeReq struct {
	From           string `json:"from"`
	FeeBasisPoints uint16 `json:"feeBasisPoints"`
}

type CreateCollectionReq struct {
	From      string `json:"from"`
	Name      string `json:"name"`
	MaxSupply uint32 `json:"maxSupply"`
}

type AddTokenURIsReq struct {
	From string   `json:"from"`
	URIs []string `json:"uris"`
}

type SetAmountReq struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

type SetLimitReq struct {
	From  string `json:"from"`
	Value uint32 `json:"value"`
}

type SetFlagReq struct {
	From    string `json:"from"`
	Enabled bool   `json:"enabled"`
}

type SetRoyaltyReq struct {
	From        string `json:"from"`
	Receiver    string `json:"receiver"`
	BasisPoints uint16 `json:"basisPoints"`
}

type SetMetadataReq struct {
	From        string `json:"from"`
	Description string `json:"description"`
	ImageURI    string `json:"imageURI"`
}

type WhitelistAddReq struct {
	From      string   `json:"from"`
	Addresses []string `json:"addresses"`
}

type PublicMintReq struct {
	From     string `json:"from"`
	Quantity uint32 `json:"quantity"`
	Payment  string `json:"payment"`
}

type AirdropReq struct {
	From       string   `json:"from"`
	To         string   `json:"to,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
	URI        string   `json:"uri"`
}

type WithdrawEarningsReq struct {
	From string `json:"from"`
}

type CreateRegistryReq struct {
	From string `json:"from"`
	Name string `json:"name"`
}

type MintTokenReq struct {
	From string `json:"from"`
	To   string `json:"to"`
	URI  string `json:"uri"`
}

type ApprovalReq struct {
	From     string `json:"from"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

type TransferReq struct {
	From    string `json:"from"` // operator
	Owner   string `json:"owner"`
	To      string `json:"to"`
	TokenId uint64 `json:"tokenId"`
}

type DepositReq struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}
