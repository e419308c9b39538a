package marketd

import (
	"sync"
	"testing"

	"github.com/arcmarket/marketd/schema"
	"github.com/stretchr/testify/assert"
)

func TestListItem(t *testing.T) {
	s := newTestMarketd(t)
	listingId, registry, tokenId := newListedToken(t, s, "100")

	l, err := s.GetListing(listingId)
	assert.NoError(t, err)
	assert.Equal(t, registry, l.TokenContract)
	assert.Equal(t, tokenId, l.TokenId)
	assert.Equal(t, testSeller, l.Seller)
	assert.Equal(t, "100", l.Price)
	assert.True(t, l.Active)
	assert.Equal(t, schema.ListingActive, l.Status)
}

func TestListItemInvalid(t *testing.T) {
	s := newTestMarketd(t)
	reg, err := s.CreateRegistry(testSeller, "punks")
	assert.NoError(t, err)
	id, err := s.MintToken(reg, testSeller, "ipfs://0")
	assert.NoError(t, err)

	_, err = s.ListItem(testSeller, reg, id, "0")
	assert.ErrorIs(t, err, schema.ErrInvalidPrice)
	_, err = s.ListItem(testSeller, reg, id, "abc")
	assert.ErrorIs(t, err, schema.ErrInvalidPrice)

	// only the current owner can list
	_, err = s.ListItem(testBuyer, reg, id, "100")
	assert.ErrorIs(t, err, schema.ErrNotOwner)

	_, err = s.ListItem(testSeller, reg, 99, "100")
	assert.ErrorIs(t, err, schema.ErrTokenNotFound)
}

func TestBuyItem(t *testing.T) {
	s := newTestMarketd(t)
	listingId, registry, tokenId := newListedToken(t, s, "100")
	err := s.Deposit(testBuyer, "1000")
	assert.NoError(t, err)

	listing, err := s.BuyItem(listingId, testBuyer, "100")
	assert.NoError(t, err)
	assert.False(t, listing.Active)
	assert.Equal(t, schema.ListingSold, listing.Status)
	assert.Equal(t, testBuyer, listing.Buyer)
	assert.Equal(t, "100", listing.SalePrice)
	// 250 bps of 100 wei
	assert.Equal(t, "2", listing.SaleFee)

	owner, err := s.OwnerOf(registry, tokenId)
	assert.NoError(t, err)
	assert.Equal(t, testBuyer, owner)

	buyerBal, err := s.GetBalance(testBuyer)
	assert.NoError(t, err)
	assert.Equal(t, "900", buyerBal)
	sellerBal, err := s.GetBalance(testSeller)
	assert.NoError(t, err)
	assert.Equal(t, "98", sellerBal)
	feeBal, err := s.GetBalance(testFeeRecv)
	assert.NoError(t, err)
	assert.Equal(t, "2", feeBal)
}

func TestBuyItemExcessPaymentStaysWithBuyer(t *testing.T) {
	s := newTestMarketd(t)
	listingId, _, _ := newListedToken(t, s, "100")
	err := s.Deposit(testBuyer, "1000")
	assert.NoError(t, err)

	_, err = s.BuyItem(listingId, testBuyer, "500")
	assert.NoError(t, err)

	// only the listing price is debited
	bal, err := s.GetBalance(testBuyer)
	assert.NoError(t, err)
	assert.Equal(t, "900", bal)
}

func TestBuyItemRejections(t *testing.T) {
	s := newTestMarketd(t)
	listingId, _, _ := newListedToken(t, s, "100")

	_, err := s.BuyItem(99, testBuyer, "100")
	assert.ErrorIs(t, err, schema.ErrListingNotFound)

	_, err = s.BuyItem(listingId, testSeller, "100")
	assert.ErrorIs(t, err, schema.ErrSelfPurchase)

	_, err = s.BuyItem(listingId, testBuyer, "99")
	assert.ErrorIs(t, err, schema.ErrInsufficientPayment)

	// payment covers the price but the buyer holds no funds
	_, err = s.BuyItem(listingId, testBuyer, "100")
	assert.ErrorIs(t, err, schema.ErrInsufficientPayment)

	// the failed purchases left the listing untouched
	l, err := s.GetListing(listingId)
	assert.NoError(t, err)
	assert.True(t, l.Active)
}

func TestBuyItemSoldIsTerminal(t *testing.T) {
	s := newTestMarketd(t)
	listingId, _, _ := newListedToken(t, s, "100")
	err := s.Deposit(testBuyer, "1000")
	assert.NoError(t, err)
	err = s.Deposit(testOther, "1000")
	assert.NoError(t, err)

	_, err = s.BuyItem(listingId, testBuyer, "100")
	assert.NoError(t, err)
	_, err = s.BuyItem(listingId, testOther, "100")
	assert.ErrorIs(t, err, schema.ErrListingInactive)
}

func TestBuyItemStaleListingDeactivated(t *testing.T) {
	s := newTestMarketd(t)
	listingId, registry, _ := newListedToken(t, s, "100")
	err := s.Deposit(testBuyer, "1000")
	assert.NoError(t, err)

	// seller revokes the operator approval out of band
	cfg, err := s.GetMarketConfig()
	assert.NoError(t, err)
	err = s.SetApprovalForAll(registry, testSeller, cfg.Operator, false)
	assert.NoError(t, err)

	_, err = s.BuyItem(listingId, testBuyer, "100")
	assert.ErrorIs(t, err, schema.ErrTransferNotAuthorized)

	// the purchase rolled back but the deactivation survived
	l, err := s.GetListing(listingId)
	assert.NoError(t, err)
	assert.False(t, l.Active)
	assert.Equal(t, schema.ListingCancelled, l.Status)

	bal, err := s.GetBalance(testBuyer)
	assert.NoError(t, err)
	assert.Equal(t, "1000", bal)
}

func TestCoexistingListingsSameToken(t *testing.T) {
	s := newTestMarketd(t)
	listingA, registry, tokenId := newListedToken(t, s, "100")

	// a second active listing on the same token is allowed
	listingB, err := s.ListItem(testSeller, registry, tokenId, "120")
	assert.NoError(t, err)
	assert.NotEqual(t, listingA, listingB)

	err = s.Deposit(testBuyer, "1000")
	assert.NoError(t, err)
	err = s.Deposit(testOther, "1000")
	assert.NoError(t, err)

	_, err = s.BuyItem(listingA, testBuyer, "100")
	assert.NoError(t, err)

	// the first sale moved the token, the second listing is now stale
	_, err = s.BuyItem(listingB, testOther, "120")
	assert.ErrorIs(t, err, schema.ErrTransferNotAuthorized)

	lb, err := s.GetListing(listingB)
	assert.NoError(t, err)
	assert.False(t, lb.Active)
	assert.Equal(t, schema.ListingCancelled, lb.Status)

	bal, err := s.GetBalance(testOther)
	assert.NoError(t, err)
	assert.Equal(t, "1000", bal)
}

func TestBuyItemSerializedWithTransfer(t *testing.T) {
	s := newTestMarketd(t)
	listingId, registry, tokenId := newListedToken(t, s, "100")
	err := s.Deposit(testBuyer, "1000")
	assert.NoError(t, err)

	// a purchase and an out of band transfer race on the same token. The
	// registry lock serializes them, so exactly one wins and the ledger
	// stays consistent either way.
	var wg sync.WaitGroup
	var buyErr, transferErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, buyErr = s.BuyItem(listingId, testBuyer, "100")
	}()
	go func() {
		defer wg.Done()
		transferErr = s.Transfer(registry, testSeller, testSeller, testOther, tokenId)
	}()
	wg.Wait()

	owner, err := s.OwnerOf(registry, tokenId)
	assert.NoError(t, err)
	bal, err := s.GetBalance(testBuyer)
	assert.NoError(t, err)

	if buyErr == nil {
		assert.Equal(t, testBuyer, owner)
		assert.Equal(t, "900", bal)
		assert.ErrorIs(t, transferErr, schema.ErrTransferNotAuthorized)
	} else {
		assert.NoError(t, transferErr)
		assert.ErrorIs(t, buyErr, schema.ErrTransferNotAuthorized)
		assert.Equal(t, testOther, owner)
		assert.Equal(t, "1000", bal)
	}
}

func TestSweepStaleListings(t *testing.T) {
	s := newTestMarketd(t)
	listingId, registry, tokenId := newListedToken(t, s, "100")

	// seller moves the token away while the listing stays up
	err := s.Transfer(registry, testSeller, testSeller, testOther, tokenId)
	assert.NoError(t, err)

	s.sweepStaleListings()

	l, err := s.GetListing(listingId)
	assert.NoError(t, err)
	assert.False(t, l.Active)
	assert.Equal(t, schema.ListingCancelled, l.Status)
}

func TestCancelListing(t *testing.T) {
	s := newTestMarketd(t)
	listingId, _, _ := newListedToken(t, s, "100")

	err := s.CancelListing(listingId, testOther)
	assert.ErrorIs(t, err, schema.ErrUnauthorized)

	err = s.CancelListing(listingId, testSeller)
	assert.NoError(t, err)
	l, err := s.GetListing(listingId)
	assert.NoError(t, err)
	assert.False(t, l.Active)
	assert.Equal(t, schema.ListingCancelled, l.Status)

	// cancelled is terminal
	err = s.CancelListing(listingId, testSeller)
	assert.ErrorIs(t, err, schema.ErrListingInactive)
}

func TestCancelListingByMarketOwner(t *testing.T) {
	s := newTestMarketd(t)
	listingId, _, _ := newListedToken(t, s, "100")
	err := s.CancelListing(listingId, testOwner)
	assert.NoError(t, err)
}

func TestUpdateListingPrice(t *testing.T) {
	s := newTestMarketd(t)
	listingId, _, _ := newListedToken(t, s, "100")

	err := s.UpdateListingPrice(listingId, testSeller, "0")
	assert.ErrorIs(t, err, schema.ErrInvalidPrice)
	err = s.UpdateListingPrice(listingId, testOther, "200")
	assert.ErrorIs(t, err, schema.ErrUnauthorized)

	err = s.UpdateListingPrice(listingId, testSeller, "200")
	assert.NoError(t, err)
	l, err := s.GetListing(listingId)
	assert.NoError(t, err)
	assert.Equal(t, "200", l.Price)

	// old price no longer settles
	err = s.Deposit(testBuyer, "1000")
	assert.NoError(t, err)
	_, err = s.BuyItem(listingId, testBuyer, "100")
	assert.ErrorIs(t, err, schema.ErrInsufficientPayment)
	_, err = s.BuyItem(listingId, testBuyer, "200")
	assert.NoError(t, err)
}

func TestUpdateMarketplaceFee(t *testing.T) {
	s := newTestMarketd(t)

	err := s.UpdateMarketplaceFee(testOther, 100)
	assert.ErrorIs(t, err, schema.ErrUnauthorized)
	err = s.UpdateMarketplaceFee(testOwner, schema.MaxFeeBasisPoints+1)
	assert.ErrorIs(t, err, schema.ErrFeeTooHigh)

	err = s.UpdateMarketplaceFee(testOwner, 0)
	assert.NoError(t, err)
	cfg, err := s.GetMarketConfig()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0), cfg.FeeBasisPoints)

	// zero fee, the seller keeps everything
	listingId, _, _ := newListedToken(t, s, "100")
	err = s.Deposit(testBuyer, "100")
	assert.NoError(t, err)
	listing, err := s.BuyItem(listingId, testBuyer, "100")
	assert.NoError(t, err)
	assert.Equal(t, "0", listing.SaleFee)
	sellerBal, err := s.GetBalance(testSeller)
	assert.NoError(t, err)
	assert.Equal(t, "100", sellerBal)
}

func TestGetListingsPagination(t *testing.T) {
	s := newTestMarketd(t)
	reg, err := s.CreateRegistry(testSeller, "punks")
	assert.NoError(t, err)
	cfg, err := s.GetMarketConfig()
	assert.NoError(t, err)
	err = s.SetApprovalForAll(reg, testSeller, cfg.Operator, true)
	assert.NoError(t, err)

	ids := make([]uint64, 0, 5)
	for i := 0; i < 5; i++ {
		tokenId, err := s.MintToken(reg, testSeller, "ipfs://x")
		assert.NoError(t, err)
		id, err := s.ListItem(testSeller, reg, tokenId, "10")
		assert.NoError(t, err)
		ids = append(ids, id)
	}

	// newest first
	page, err := s.GetListings(0, 2, false)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(page))
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	page, err = s.GetListings(page[1].ID, 2, false)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(page))
	assert.Equal(t, ids[2], page[0].ID)

	err = s.CancelListing(ids[4], testSeller)
	assert.NoError(t, err)
	active, err := s.GetListings(0, 10, true)
	assert.NoError(t, err)
	assert.Equal(t, 4, len(active))

	mine, err := s.GetSellerListings(testSeller, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, 5, len(mine))
	none, err := s.GetSellerListings(testOther, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(none))
}
