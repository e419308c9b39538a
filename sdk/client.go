package sdk

import (
	"fmt"
	"strconv"

	"github.com/arcmarket/marketd/schema"
	"gopkg.in/h2non/gentleman.v2"
)

type MarketCli struct {
	SCli *gentleman.Client
}

func New(marketUrl string) *MarketCli {
	return &MarketCli{
		SCli: gentleman.New().URL(marketUrl),
	}
}

// marketplace ledger

func (m *MarketCli) ListItem(from, tokenContract string, tokenId uint64, price string) (uint64, error) {
	res := struct {
		ListingId uint64 `json:"listingId"`
	}{}
	err := m.post("/market/listing", schema.ListItemReq{
		From:          from,
		TokenContract: tokenContract,
		TokenId:       tokenId,
		Price:         price,
	}, &res)
	return res.ListingId, err
}

func (m *MarketCli) BuyItem(listingId uint64, from, payment string) (schema.Listing, error) {
	listing := schema.Listing{}
	err := m.post(fmt.Sprintf("/market/listing/%d/buy", listingId), schema.BuyItemReq{
		From:    from,
		Payment: payment,
	}, &listing)
	return listing, err
}

func (m *MarketCli) CancelListing(listingId uint64, from string) error {
	return m.post(fmt.Sprintf("/market/listing/%d/cancel", listingId), schema.CancelListingReq{From: from}, nil)
}

func (m *MarketCli) UpdateListingPrice(listingId uint64, from, price string) error {
	return m.post(fmt.Sprintf("/market/listing/%d/price", listingId), schema.UpdatePriceReq{
		From:  from,
		Price: price,
	}, nil)
}

func (m *MarketCli) UpdateMarketplaceFee(from string, feeBasisPoints uint16) error {
	return m.post("/market/fee", schema.UpdateFeeReq{
		From:           from,
		FeeBasisPoints: feeBasisPoints,
	}, nil)
}

func (m *MarketCli) GetListing(listingId uint64) (schema.Listing, error) {
	listing := schema.Listing{}
	err := m.get(fmt.Sprintf("/market/listing/%d", listingId), &listing)
	return listing, err
}

func (m *MarketCli) GetListings(cursorId uint64, num int, activeOnly bool) ([]schema.Listing, error) {
	listings := make([]schema.Listing, 0)
	err := m.get("/market/listings", &listings,
		"cursorId", strconv.FormatUint(cursorId, 10),
		"num", strconv.Itoa(num),
		"active", strconv.FormatBool(activeOnly))
	return listings, err
}

func (m *MarketCli) GetSellerListings(seller string, cursorId uint64, num int) ([]schema.Listing, error) {
	listings := make([]schema.Listing, 0)
	err := m.get(fmt.Sprintf("/market/listings/%s", seller), &listings,
		"cursorId", strconv.FormatUint(cursorId, 10),
		"num", strconv.Itoa(num))
	return listings, err
}

func (m *MarketCli) GetMarketConfig() (schema.MarketplaceConfig, error) {
	cfg := schema.MarketplaceConfig{}
	err := m.get("/market/config", &cfg)
	return cfg, err
}

// collection factory

func (m *MarketCli) CreateCollection(from, name string, maxSupply uint32) (string, error) {
	res := struct {
		Collection string `json:"collection"`
	}{}
	err := m.post("/collections", schema.CreateCollectionReq{
		From:      from,
		Name:      name,
		MaxSupply: maxSupply,
	}, &res)
	return res.Collection, err
}

func (m *MarketCli) GetAllCollections() ([]schema.Collection, error) {
	cols := make([]schema.Collection, 0)
	err := m.get("/collections", &cols)
	return cols, err
}

func (m *MarketCli) GetCreatorCollections(creator string) ([]schema.Collection, error) {
	cols := make([]schema.Collection, 0)
	err := m.get(fmt.Sprintf("/collections/creator/%s", creator), &cols)
	return cols, err
}

// collection engine

func (m *MarketCli) GetCollectionInfo(collection string) (schema.CollectionInfo, error) {
	info := schema.CollectionInfo{}
	err := m.get(fmt.Sprintf("/collection/%s", collection), &info)
	return info, err
}

func (m *MarketCli) AddTokenURIs(collection, from string, uris []string) error {
	return m.post(fmt.Sprintf("/collection/%s/uris", collection), schema.AddTokenURIsReq{
		From: from,
		URIs: uris,
	}, nil)
}

func (m *MarketCli) SetMintPrice(collection, from, price string) error {
	return m.post(fmt.Sprintf("/collection/%s/mint-price", collection), schema.SetAmountReq{
		From:  from,
		Value: price,
	}, nil)
}

func (m *MarketCli) SetMaxMintPerWallet(collection, from string, limit uint32) error {
	return m.post(fmt.Sprintf("/collection/%s/max-per-wallet", collection), schema.SetLimitReq{
		From:  from,
		Value: limit,
	}, nil)
}

func (m *MarketCli) SetMintingEnabled(collection, from string, enabled bool) error {
	return m.post(fmt.Sprintf("/collection/%s/minting", collection), schema.SetFlagReq{
		From:    from,
		Enabled: enabled,
	}, nil)
}

func (m *MarketCli) SetPublicMintEnabled(collection, from string, enabled bool) error {
	return m.post(fmt.Sprintf("/collection/%s/public-mint", collection), schema.SetFlagReq{
		From:    from,
		Enabled: enabled,
	}, nil)
}

func (m *MarketCli) SetWhitelistEnabled(collection, from string, enabled bool) error {
	return m.post(fmt.Sprintf("/collection/%s/whitelist-enabled", collection), schema.SetFlagReq{
		From:    from,
		Enabled: enabled,
	}, nil)
}

func (m *MarketCli) SetRoyalty(collection, from, receiver string, basisPoints uint16) error {
	return m.post(fmt.Sprintf("/collection/%s/royalty", collection), schema.SetRoyaltyReq{
		From:        from,
		Receiver:    receiver,
		BasisPoints: basisPoints,
	}, nil)
}

func (m *MarketCli) SetCollectionMetadata(collection, from, description, imageURI string) error {
	return m.post(fmt.Sprintf("/collection/%s/metadata", collection), schema.SetMetadataReq{
		From:        from,
		Description: description,
		ImageURI:    imageURI,
	}, nil)
}

func (m *MarketCli) AddToWhitelist(collection, from string, addresses []string) error {
	return m.post(fmt.Sprintf("/collection/%s/whitelist", collection), schema.WhitelistAddReq{
		From:      from,
		Addresses: addresses,
	}, nil)
}

func (m *MarketCli) IsWhitelisted(collection, wallet string) (bool, error) {
	res := struct {
		Whitelisted bool `json:"whitelisted"`
	}{}
	err := m.get(fmt.Sprintf("/collection/%s/whitelist/%s", collection, wallet), &res)
	return res.Whitelisted, err
}

func (m *MarketCli) PublicMint(collection, from string, quantity uint32, payment string) ([]uint64, error) {
	res := struct {
		TokenIds []uint64 `json:"tokenIds"`
	}{}
	err := m.post(fmt.Sprintf("/collection/%s/mint", collection), schema.PublicMintReq{
		From:     from,
		Quantity: quantity,
		Payment:  payment,
	}, &res)
	return res.TokenIds, err
}

func (m *MarketCli) Airdrop(collection, from string, recipients []string, uri string) ([]uint64, error) {
	res := struct {
		TokenIds []uint64 `json:"tokenIds"`
	}{}
	err := m.post(fmt.Sprintf("/collection/%s/airdrop", collection), schema.AirdropReq{
		From:       from,
		Recipients: recipients,
		URI:        uri,
	}, &res)
	return res.TokenIds, err
}

func (m *MarketCli) WithdrawEarnings(collection, from string) (string, error) {
	res := struct {
		Amount string `json:"amount"`
	}{}
	err := m.post(fmt.Sprintf("/collection/%s/withdraw", collection), schema.WithdrawEarningsReq{From: from}, &res)
	return res.Amount, err
}

func (m *MarketCli) RoyaltyInfo(collection string, tokenId uint64, salePrice string) (string, string, error) {
	res := struct {
		Receiver string `json:"receiver"`
		Amount   string `json:"amount"`
	}{}
	err := m.get(fmt.Sprintf("/collection/%s/royalty/%d/%s", collection, tokenId, salePrice), &res)
	return res.Receiver, res.Amount, err
}

func (m *MarketCli) MintedBy(collection, wallet string) (uint32, error) {
	res := struct {
		Minted uint32 `json:"minted"`
	}{}
	err := m.get(fmt.Sprintf("/collection/%s/minted/%s", collection, wallet), &res)
	return res.Minted, err
}

// token registry

func (m *MarketCli) CreateRegistry(from, name string) (string, error) {
	res := struct {
		Registry string `json:"registry"`
	}{}
	err := m.post("/registry", schema.CreateRegistryReq{
		From: from,
		Name: name,
	}, &res)
	return res.Registry, err
}

func (m *MarketCli) MintToken(registry, from, to, uri string) (uint64, error) {
	res := struct {
		TokenId uint64 `json:"tokenId"`
	}{}
	err := m.post(fmt.Sprintf("/registry/%s/mint", registry), schema.MintTokenReq{
		From: from,
		To:   to,
		URI:  uri,
	}, &res)
	return res.TokenId, err
}

func (m *MarketCli) Transfer(registry, from, owner, to string, tokenId uint64) error {
	return m.post(fmt.Sprintf("/registry/%s/transfer", registry), schema.TransferReq{
		From:    from,
		Owner:   owner,
		To:      to,
		TokenId: tokenId,
	}, nil)
}

func (m *MarketCli) SetApprovalForAll(registry, from, operator string, approved bool) error {
	return m.post(fmt.Sprintf("/registry/%s/approval", registry), schema.ApprovalReq{
		From:     from,
		Operator: operator,
		Approved: approved,
	}, nil)
}

func (m *MarketCli) IsApprovedForAll(registry, owner, operator string) (bool, error) {
	res := struct {
		Approved bool `json:"approved"`
	}{}
	err := m.get(fmt.Sprintf("/registry/%s/approval/%s/%s", registry, owner, operator), &res)
	return res.Approved, err
}

func (m *MarketCli) OwnerOf(registry string, tokenId uint64) (string, error) {
	res := struct {
		Owner string `json:"owner"`
	}{}
	err := m.get(fmt.Sprintf("/registry/%s/owner/%d", registry, tokenId), &res)
	return res.Owner, err
}

func (m *MarketCli) GetToken(registry string, tokenId uint64) (schema.Token, error) {
	tk := schema.Token{}
	err := m.get(fmt.Sprintf("/registry/%s/token/%d", registry, tokenId), &tk)
	return tk, err
}

func (m *MarketCli) GetOwnerTokens(registry, owner string) ([]schema.Token, error) {
	tokens := make([]schema.Token, 0)
	err := m.get(fmt.Sprintf("/registry/%s/tokens/%s", registry, owner), &tokens)
	return tokens, err
}

// payment ledger

func (m *MarketCli) Deposit(address, amount string) error {
	return m.post("/account/deposit", schema.DepositReq{
		Address: address,
		Amount:  amount,
	}, nil)
}

func (m *MarketCli) WithdrawFunds(address, amount string) error {
	return m.post("/account/withdraw", schema.DepositReq{
		Address: address,
		Amount:  amount,
	}, nil)
}

func (m *MarketCli) GetBalance(address string) (string, error) {
	res := struct {
		Address string `json:"address"`
		Balance string `json:"balance"`
	}{}
	err := m.get(fmt.Sprintf("/account/%s/balance", address), &res)
	return res.Balance, err
}

func (m *MarketCli) GetFundTransfers(address string, num int) ([]schema.FundTransfer, error) {
	fts := make([]schema.FundTransfer, 0)
	err := m.get(fmt.Sprintf("/account/%s/transfers", address), &fts, "num", strconv.Itoa(num))
	return fts, err
}

// events and statistics

func (m *MarketCli) GetEvents(num int) ([]schema.Event, error) {
	events := make([]schema.Event, 0)
	err := m.get("/events", &events, "num", strconv.Itoa(num))
	return events, err
}

func (m *MarketCli) GetDailyStatistics(start, end string) ([]schema.DailyStatistic, error) {
	stats := make([]schema.DailyStatistic, 0)
	err := m.get("/statistics/daily", &stats, "start", start, "end", end)
	return stats, err
}

func (m *MarketCli) post(path string, payload, result interface{}) error {
	req := m.SCli.Post()
	req.AddPath(path)
	req.JSON(payload)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return fmt.Errorf("resp failed; http code: %d, errMsg:%s", resp.StatusCode, resp.String())
	}
	if result == nil {
		return nil
	}
	return resp.JSON(result)
}

func (m *MarketCli) get(path string, result interface{}, queries ...string) error {
	req := m.SCli.Get()
	req.AddPath(path)
	for i := 0; i+1 < len(queries); i += 2 {
		req.AddQuery(queries[i], queries[i+1])
	}
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return fmt.Errorf("resp failed; http code: %d, errMsg:%s", resp.StatusCode, resp.String())
	}
	return resp.JSON(result)
}
