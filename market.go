package marketd

import (
	"fmt"
	"strconv"

	"github.com/arcmarket/marketd/schema"
	"gorm.io/gorm"
)

// ListItem appends a new active listing. Ownership is verified now, operator
// approval only at purchase time, so listing never locks the token.
func (s *Marketd) ListItem(caller, tokenContract string, tokenId uint64, price string) (uint64, error) {
	p, err := parseAmount(price)
	if err != nil || p.Sign() <= 0 {
		return 0, schema.ErrInvalidPrice
	}

	owner, err := s.OwnerOf(tokenContract, tokenId)
	if err != nil {
		return 0, err
	}
	if owner != caller {
		return 0, schema.ErrNotOwner
	}

	listing := &schema.Listing{
		TokenContract: tokenContract,
		TokenId:       tokenId,
		Seller:        caller,
		Price:         p.String(),
		Active:        true,
		Status:        schema.ListingActive,
	}
	if err := s.wdb.InsertListing(s.wdb.Db, listing); err != nil {
		log.Error("s.wdb.InsertListing(listing)", "err", err, "seller", caller)
		return 0, err
	}

	s.events.Publish(schema.EventItemListed, listing)
	metricListingsCreated.Inc()
	return listing.ID, nil
}

// BuyItem settles a purchase atomically: token transfer, proceeds to the
// seller, fee to the fee receiver, listing terminal. Only the listing price is
// debited, any excess of payment stays with the buyer. A transfer rejected by
// the token registry marks the listing stale and deactivates it.
func (s *Marketd) BuyItem(listingId uint64, buyer, payment string) (schema.Listing, error) {
	pay, err := parseAmount(payment)
	if err != nil {
		return schema.Listing{}, err
	}

	unlockL := s.locker.acquire(listingKey(listingId))
	defer unlockL()

	// the registry lock serializes the token transfer against Transfer and
	// mint ops on the same registry. TokenContract is immutable, the pre-read
	// outside the transaction is safe.
	pre, err := s.wdb.GetListing(listingId)
	if err != nil {
		return schema.Listing{}, err
	}
	unlockR := s.locker.acquire(registryKey(pre.TokenContract))
	defer unlockR()
	s.settleLocker.Lock()
	defer s.settleLocker.Unlock()

	var (
		listing schema.Listing
		soldFee string
	)
	err = s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		listing, err = s.wdb.GetListingTx(tx, listingId)
		if err != nil {
			return err
		}
		if !listing.Active {
			return schema.ErrListingInactive
		}
		if listing.Seller == buyer {
			return schema.ErrSelfPurchase
		}
		price := mustAmount(listing.Price)
		if pay.Cmp(price) < 0 {
			return fmt.Errorf("%w: price %s, payment %s", schema.ErrInsufficientPayment, price, pay)
		}

		cfg, err := s.wdb.GetMarketConfig()
		if err != nil {
			return err
		}
		fee := basisPointsOf(price, cfg.FeeBasisPoints)
		proceeds := price.Sub(price, fee)

		if err := s.transferTokenTx(tx, listing.TokenContract, listing.Seller, buyer,
			listing.TokenId, cfg.Operator); err != nil {
			return err
		}

		ref := strconv.FormatUint(listingId, 10)
		if err := s.settleTx(tx, buyer, listing.Seller, proceeds, schema.TransferProceeds, ref); err != nil {
			return err
		}
		if err := s.settleTx(tx, buyer, cfg.FeeReceiver, fee, schema.TransferFee, ref); err != nil {
			return err
		}

		listing.Active = false
		listing.Status = schema.ListingSold
		listing.Buyer = buyer
		listing.SalePrice = listing.Price
		listing.SaleFee = fee.String()
		soldFee = fee.String()
		return s.wdb.UpdateListing(tx, &listing)
	})
	if err == schema.ErrTransferNotAuthorized {
		// stale listing, the seller moved the token or revoked approval out of
		// band. Deactivate so repeated purchase attempts stop failing.
		s.deactivateStaleListing(listingId)
		return schema.Listing{}, err
	}
	if err != nil {
		return schema.Listing{}, err
	}

	s.cache.DelListing(listingId)
	s.events.Publish(schema.EventItemSold, schema.ItemSoldEventPayload{
		ListingId: listingId,
		Seller:    listing.Seller,
		Buyer:     buyer,
		Price:     listing.SalePrice,
		Fee:       soldFee,
	})
	s.events.Publish(schema.EventTransfer, schema.TransferEventPayload{
		Registry: listing.TokenContract,
		TokenId:  listing.TokenId,
		From:     listing.Seller,
		To:       buyer,
	})
	metricItemsSold.Inc()
	return listing, nil
}

// deactivateStaleListing runs outside the aborted purchase transaction so the
// deactivation survives the rollback.
func (s *Marketd) deactivateStaleListing(listingId uint64) {
	err := s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		listing, err := s.wdb.GetListingTx(tx, listingId)
		if err != nil {
			return err
		}
		if !listing.Active {
			return nil
		}
		listing.Active = false
		listing.Status = schema.ListingCancelled
		return s.wdb.UpdateListing(tx, &listing)
	})
	if err != nil {
		log.Error("deactivate stale listing failed", "err", err, "listingId", listingId)
		return
	}
	s.cache.DelListing(listingId)
	s.events.Publish(schema.EventListingDeactivated, map[string]uint64{"listingId": listingId})
}

// CancelListing deactivates a listing, seller or marketplace owner only.
func (s *Marketd) CancelListing(listingId uint64, caller string) error {
	unlock := s.locker.acquire(listingKey(listingId))
	defer unlock()

	err := s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		listing, err := s.wdb.GetListingTx(tx, listingId)
		if err != nil {
			return err
		}
		if !listing.Active {
			return schema.ErrListingInactive
		}
		cfg, err := s.wdb.GetMarketConfig()
		if err != nil {
			return err
		}
		if caller != listing.Seller && caller != cfg.Owner {
			return schema.ErrUnauthorized
		}
		listing.Active = false
		listing.Status = schema.ListingCancelled
		return s.wdb.UpdateListing(tx, &listing)
	})
	if err != nil {
		return err
	}

	s.cache.DelListing(listingId)
	s.events.Publish(schema.EventListingCancelled, map[string]uint64{"listingId": listingId})
	return nil
}

func (s *Marketd) UpdateListingPrice(listingId uint64, caller, newPrice string) error {
	p, err := parseAmount(newPrice)
	if err != nil || p.Sign() <= 0 {
		return schema.ErrInvalidPrice
	}

	unlock := s.locker.acquire(listingKey(listingId))
	defer unlock()

	err = s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		listing, err := s.wdb.GetListingTx(tx, listingId)
		if err != nil {
			return err
		}
		if !listing.Active {
			return schema.ErrListingInactive
		}
		if caller != listing.Seller {
			return schema.ErrUnauthorized
		}
		listing.Price = p.String()
		return s.wdb.UpdateListing(tx, &listing)
	})
	if err != nil {
		return err
	}

	s.cache.DelListing(listingId)
	s.events.Publish(schema.EventListingPriceUpdated, map[string]string{
		"listingId": strconv.FormatUint(listingId, 10),
		"price":     p.String(),
	})
	return nil
}

// UpdateMarketplaceFee is owner only, hard capped at 1000 basis points.
func (s *Marketd) UpdateMarketplaceFee(caller string, newBasisPoints uint16) error {
	if newBasisPoints > schema.MaxFeeBasisPoints {
		return schema.ErrFeeTooHigh
	}

	err := s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		cfg, err := s.wdb.GetMarketConfig()
		if err != nil {
			return err
		}
		if caller != cfg.Owner {
			return schema.ErrUnauthorized
		}
		cfg.FeeBasisPoints = newBasisPoints
		return s.wdb.SaveMarketConfig(tx, cfg)
	})
	if err != nil {
		return err
	}

	s.events.Publish(schema.EventMarketplaceFeeUpdated, map[string]uint16{"feeBasisPoints": newBasisPoints})
	return nil
}

func (s *Marketd) GetMarketConfig() (schema.MarketplaceConfig, error) {
	return s.wdb.GetMarketConfig()
}

// GetListing returns inactive listings too, callers filtering for available
// items must check Active.
func (s *Marketd) GetListing(id uint64) (schema.Listing, error) {
	if l, ok := s.cache.GetListing(id); ok {
		return l, nil
	}
	l, err := s.wdb.GetListing(id)
	if err != nil {
		return l, err
	}
	if !l.Active {
		// terminal rows never change again, safe to cache
		s.cache.SetListing(l)
	}
	return l, nil
}

func (s *Marketd) GetListings(cursorId uint64, num int, activeOnly bool) ([]schema.Listing, error) {
	if num <= 0 || num > 100 {
		num = 20
	}
	return s.wdb.GetListings(cursorId, num, activeOnly)
}

func (s *Marketd) GetSellerListings(seller string, cursorId uint64, num int) ([]schema.Listing, error) {
	if num <= 0 || num > 100 {
		num = 20
	}
	return s.wdb.GetSellerListings(seller, cursorId, num)
}
