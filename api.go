package marketd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/arcmarket/marketd/common"
	"github.com/arcmarket/marketd/schema"
	"github.com/gin-gonic/gin"
)

func (s *Marketd) runAPI(port string) {
	r := s.engine
	r.Use(common.CORSMiddleware())
	r.Use(common.LimiterMiddleware(600, "M", nil))
	v1 := r.Group("/")
	{
		// marketplace ledger
		v1.POST("/market/listing", s.listItem)
		v1.POST("/market/listing/:id/buy", s.buyItem)
		v1.POST("/market/listing/:id/cancel", s.cancelListing)
		v1.POST("/market/listing/:id/price", s.updateListingPrice)
		v1.POST("/market/fee", s.updateMarketplaceFee)
		v1.GET("/market/listing/:id", s.getListing)
		v1.GET("/market/listings", s.getListings)
		v1.GET("/market/listings/:seller", s.getSellerListings)
		v1.GET("/market/config", s.getMarketConfig)

		// collection factory
		v1.POST("/collections", s.createCollection)
		v1.GET("/collections", s.getAllCollections)
		v1.GET("/collections/creator/:address", s.getCreatorCollections)

		// collection engine
		v1.GET("/collection/:address", s.getCollectionInfo)
		v1.POST("/collection/:address/uris", s.addTokenURIs)
		v1.POST("/collection/:address/mint-price", s.setMintPrice)
		v1.POST("/collection/:address/max-per-wallet", s.setMaxMintPerWallet)
		v1.POST("/collection/:address/minting", s.setMintingEnabled)
		v1.POST("/collection/:address/public-mint", s.setPublicMintEnabled)
		v1.POST("/collection/:address/whitelist-enabled", s.setWhitelistEnabled)
		v1.POST("/collection/:address/royalty", s.setRoyalty)
		v1.POST("/collection/:address/metadata", s.setCollectionMetadata)
		v1.POST("/collection/:address/whitelist", s.addToWhitelist)
		v1.GET("/collection/:address/whitelist/:wallet", s.isWhitelisted)
		v1.POST("/collection/:address/mint", s.publicMint)
		v1.POST("/collection/:address/airdrop", s.airdropTokens)
		v1.POST("/collection/:address/withdraw", s.withdrawEarnings)
		v1.GET("/collection/:address/royalty/:tokenId/:salePrice", s.royaltyInfo)
		v1.GET("/collection/:address/minted/:wallet", s.mintedBy)

		// token registry
		v1.POST("/registry", s.createRegistry)
		v1.POST("/registry/:address/mint", s.mintToken)
		v1.POST("/registry/:address/transfer", s.transferToken)
		v1.POST("/registry/:address/approval", s.setApprovalForAll)
		v1.GET("/registry/:address/approval/:owner/:operator", s.isApprovedForAll)
		v1.GET("/registry/:address/owner/:tokenId", s.ownerOf)
		v1.GET("/registry/:address/token/:tokenId", s.getToken)
		v1.GET("/registry/:address/tokens/:owner", s.getOwnerTokens)

		// payment ledger
		v1.POST("/account/deposit", s.deposit)
		v1.POST("/account/withdraw", s.withdrawFunds)
		v1.GET("/account/:address/balance", s.getBalance)
		v1.GET("/account/:address/transfers", s.getFundTransfers)

		// events and statistics
		v1.GET("/events", s.getEvents)
		v1.GET("/statistics/daily", s.getDailyStatistics)
	}

	if err := r.Run(port); err != nil {
		panic(err)
	}
}

func (s *Marketd) listItem(c *gin.Context) {
	req := schema.ListItemReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	contract, err := parseAddress(req.TokenContract)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	id, err := s.ListItem(from, contract, req.TokenId, req.Price)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listingId": id})
}

func (s *Marketd) buyItem(c *gin.Context) {
	listingId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.BuyItemReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	listing, err := s.BuyItem(listingId, from, req.Payment)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (s *Marketd) cancelListing(c *gin.Context) {
	listingId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.CancelListingReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.CancelListing(listingId, from); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listingId": listingId})
}

func (s *Marketd) updateListingPrice(c *gin.Context) {
	listingId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.UpdatePriceReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.UpdateListingPrice(listingId, from, req.Price); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listingId": listingId, "price": req.Price})
}

func (s *Marketd) updateMarketplaceFee(c *gin.Context) {
	req := schema.UpdateFeeReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.UpdateMarketplaceFee(from, req.FeeBasisPoints); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feeBasisPoints": req.FeeBasisPoints})
}

func (s *Marketd) getListing(c *gin.Context) {
	listingId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	listing, err := s.GetListing(listingId)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (s *Marketd) getListings(c *gin.Context) {
	cursorId, err := strconv.ParseUint(c.DefaultQuery("cursorId", "0"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	num, err := strconv.Atoi(c.DefaultQuery("num", "20"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	activeOnly := c.DefaultQuery("active", "false") == "true"
	listings, err := s.GetListings(cursorId, num, activeOnly)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (s *Marketd) getSellerListings(c *gin.Context) {
	seller, err := parseAddress(c.Param("seller"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	cursorId, err := strconv.ParseUint(c.DefaultQuery("cursorId", "0"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	num, err := strconv.Atoi(c.DefaultQuery("num", "20"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	listings, err := s.GetSellerListings(seller, cursorId, num)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (s *Marketd) getMarketConfig(c *gin.Context) {
	cfg, err := s.GetMarketConfig()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Marketd) createCollection(c *gin.Context) {
	req := schema.CreateCollectionReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	addr, err := s.CreateCollection(req.From, req.Name, req.MaxSupply)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": addr})
}

func (s *Marketd) getAllCollections(c *gin.Context) {
	cols, err := s.GetAllCollections()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, cols)
}

func (s *Marketd) getCreatorCollections(c *gin.Context) {
	creator, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	cols, err := s.GetCreatorCollections(creator)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cols)
}

func (s *Marketd) getCollectionInfo(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	info, err := s.GetCollectionInfo(addr)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Marketd) addTokenURIs(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.AddTokenURIsReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.AddTokenURIs(addr, from, req.URIs); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": len(req.URIs)})
}

func (s *Marketd) setMintPrice(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.SetAmountReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.SetMintPrice(addr, from, req.Value); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mintPrice": req.Value})
}

func (s *Marketd) setMaxMintPerWallet(c *gin.Context) {
	addr, from, req, ok := s.bindLimitReq(c)
	if !ok {
		return
	}
	if err := s.SetMaxMintPerWallet(addr, from, req.Value); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": req.Value})
}

func (s *Marketd) setMintingEnabled(c *gin.Context) {
	addr, from, req, ok := s.bindFlagReq(c)
	if !ok {
		return
	}
	if err := s.SetMintingEnabled(addr, from, req.Enabled); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": req.Enabled})
}

func (s *Marketd) setPublicMintEnabled(c *gin.Context) {
	addr, from, req, ok := s.bindFlagReq(c)
	if !ok {
		return
	}
	if err := s.SetPublicMintEnabled(addr, from, req.Enabled); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": req.Enabled})
}

func (s *Marketd) setWhitelistEnabled(c *gin.Context) {
	addr, from, req, ok := s.bindFlagReq(c)
	if !ok {
		return
	}
	if err := s.SetWhitelistEnabled(addr, from, req.Enabled); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": req.Enabled})
}

func (s *Marketd) setRoyalty(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.SetRoyaltyReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.SetRoyalty(addr, from, req.Receiver, req.BasisPoints); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receiver": req.Receiver, "basisPoints": req.BasisPoints})
}

func (s *Marketd) setCollectionMetadata(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.SetMetadataReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.SetCollectionMetadata(addr, from, req.Description, req.ImageURI); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": addr})
}

func (s *Marketd) addToWhitelist(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.WhitelistAddReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.AddToWhitelistBatch(addr, from, req.Addresses); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": len(req.Addresses)})
}

func (s *Marketd) isWhitelisted(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	wallet, err := parseAddress(c.Param("wallet"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	ok, err := s.IsWhitelisted(addr, wallet)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"whitelisted": ok})
}

func (s *Marketd) publicMint(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.PublicMintReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	tokenIds, err := s.PublicMint(addr, from, req.Quantity, req.Payment)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokenIds": tokenIds})
}

func (s *Marketd) airdropTokens(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.AirdropReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	recipients := req.Recipients
	if len(recipients) == 0 && req.To != "" {
		recipients = []string{req.To}
	}
	tokenIds, err := s.AirdropSameURI(addr, from, recipients, req.URI)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokenIds": tokenIds})
}

func (s *Marketd) withdrawEarnings(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.WithdrawEarningsReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	amount, err := s.WithdrawEarnings(addr, from)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": amount})
}

func (s *Marketd) royaltyInfo(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	tokenId, err := strconv.ParseUint(c.Param("tokenId"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	receiver, amount, err := s.RoyaltyInfo(addr, tokenId, c.Param("salePrice"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receiver": receiver, "amount": amount})
}

func (s *Marketd) mintedBy(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	wallet, err := parseAddress(c.Param("wallet"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	n, err := s.MintedBy(addr, wallet)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"minted": n})
}

func (s *Marketd) createRegistry(c *gin.Context) {
	req := schema.CreateRegistryReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	addr, err := s.CreateRegistry(from, req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registry": addr})
}

func (s *Marketd) mintToken(c *gin.Context) {
	registry, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.MintTokenReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	to, err := parseAddress(req.To)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	tokenId, err := s.MintToken(registry, to, req.URI)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokenId": tokenId})
}

func (s *Marketd) transferToken(c *gin.Context) {
	registry, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.TransferReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	owner, err := parseAddress(req.Owner)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	to, err := parseAddress(req.To)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.Transfer(registry, from, owner, to, req.TokenId); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokenId": req.TokenId, "owner": to})
}

func (s *Marketd) setApprovalForAll(c *gin.Context) {
	registry, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.ApprovalReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	operator, err := parseAddress(req.Operator)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.SetApprovalForAll(registry, from, operator, req.Approved); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": req.Approved})
}

func (s *Marketd) isApprovedForAll(c *gin.Context) {
	registry, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	owner, err := parseAddress(c.Param("owner"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	operator, err := parseAddress(c.Param("operator"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	approved, err := s.IsApprovedForAll(registry, owner, operator)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": approved})
}

func (s *Marketd) ownerOf(c *gin.Context) {
	registry, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	tokenId, err := strconv.ParseUint(c.Param("tokenId"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	owner, err := s.OwnerOf(registry, tokenId)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owner})
}

func (s *Marketd) getToken(c *gin.Context) {
	registry, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	tokenId, err := strconv.ParseUint(c.Param("tokenId"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	tk, err := s.GetToken(registry, tokenId)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, tk)
}

func (s *Marketd) getOwnerTokens(c *gin.Context) {
	registry, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	owner, err := parseAddress(c.Param("owner"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	tokens, err := s.GetOwnerTokens(registry, owner)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (s *Marketd) deposit(c *gin.Context) {
	req := schema.DepositReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	addr, err := parseAddress(req.Address)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.Deposit(addr, req.Amount); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr})
}

func (s *Marketd) withdrawFunds(c *gin.Context) {
	req := schema.DepositReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	addr, err := parseAddress(req.Address)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.WithdrawFunds(addr, req.Amount); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr})
}

func (s *Marketd) getBalance(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	bal, err := s.GetBalance(addr)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr, "balance": bal})
}

func (s *Marketd) getFundTransfers(c *gin.Context) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	num, err := strconv.Atoi(c.DefaultQuery("num", "50"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	fts, err := s.GetFundTransfers(addr, num)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, fts)
}

func (s *Marketd) getEvents(c *gin.Context) {
	num, err := strconv.Atoi(c.DefaultQuery("num", "50"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	raw, err := s.store.LoadLatestEvents(num)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	events := make([]interface{}, 0, len(raw))
	for _, data := range raw {
		events = append(events, json.RawMessage(data))
	}
	c.JSON(http.StatusOK, events)
}

func (s *Marketd) getDailyStatistics(c *gin.Context) {
	end := time.Now().UTC().AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -31)
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			errorResponse(c, err.Error())
			return
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			errorResponse(c, err.Error())
			return
		}
		end = t
	}
	stats, err := s.GetDailyStatistics(start, end)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// bindFlagReq and bindLimitReq share the address + body + from plumbing of
// the collection setter handlers.
func (s *Marketd) bindFlagReq(c *gin.Context) (addr, from string, req schema.SetFlagReq, ok bool) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return "", "", req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return "", "", req, false
	}
	from, err = parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return "", "", req, false
	}
	return addr, from, req, true
}

func (s *Marketd) bindLimitReq(c *gin.Context) (addr, from string, req schema.SetLimitReq, ok bool) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		errorResponse(c, err.Error())
		return "", "", req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return "", "", req, false
	}
	from, err = parseAddress(req.From)
	if err != nil {
		errorResponse(c, err.Error())
		return "", "", req, false
	}
	return addr, from, req, true
}

// respondErr maps the sentinel error taxonomy to HTTP statuses. Unknown
// errors are treated as internal.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schema.ErrNotFound),
		errors.Is(err, schema.ErrListingNotFound),
		errors.Is(err, schema.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, schema.RespErr{Err: err.Error()})
	case errors.Is(err, schema.ErrNotOwner),
		errors.Is(err, schema.ErrUnauthorized):
		c.JSON(http.StatusForbidden, schema.RespErr{Err: err.Error()})
	case errors.Is(err, schema.ErrInvalidPrice),
		errors.Is(err, schema.ErrInvalidAmount),
		errors.Is(err, schema.ErrInvalidSupply),
		errors.Is(err, schema.ErrInvalidAddress),
		errors.Is(err, schema.ErrFeeTooHigh),
		errors.Is(err, schema.ErrRoyaltyTooHigh),
		errors.Is(err, schema.ErrListingInactive),
		errors.Is(err, schema.ErrSelfPurchase),
		errors.Is(err, schema.ErrMintingDisabled),
		errors.Is(err, schema.ErrPublicMintDisabled),
		errors.Is(err, schema.ErrWhitelistRequired),
		errors.Is(err, schema.ErrSupplyExhausted),
		errors.Is(err, schema.ErrWalletLimitExceeded),
		errors.Is(err, schema.ErrInsufficientPayment),
		errors.Is(err, schema.ErrNothingToWithdraw),
		errors.Is(err, schema.ErrTransferNotAuthorized):
		errorResponse(c, err.Error())
	default:
		internalErrorResponse(c, err.Error())
	}
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
