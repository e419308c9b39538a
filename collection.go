package marketd

import (
	"fmt"
	"math/big"

	"github.com/arcmarket/marketd/schema"
	"gorm.io/gorm"
)

// updateCollection applies a creator only mutation under the collection lock.
func (s *Marketd) updateCollection(addr, caller string, mutate func(*schema.Collection) error) error {
	unlock := s.locker.acquire(collectionKey(addr))
	defer unlock()

	return s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		col, err := s.wdb.GetCollectionTx(tx, addr)
		if err != nil {
			return err
		}
		if col.Creator != caller {
			return schema.ErrUnauthorized
		}
		if err := mutate(&col); err != nil {
			return err
		}
		if err := s.wdb.UpdateCollection(tx, &col); err != nil {
			return err
		}
		s.cache.DelCollection(addr)
		return nil
	})
}

// AddTokenURIs appends metadata URIs to the mint pool, FIFO order preserved.
func (s *Marketd) AddTokenURIs(addr, caller string, uris []string) error {
	if len(uris) == 0 {
		return schema.ErrInvalidAmount
	}
	for _, u := range uris {
		if u == "" {
			return fmt.Errorf("%w: empty uri", schema.ErrInvalidAmount)
		}
	}

	unlock := s.locker.acquire(collectionKey(addr))
	defer unlock()

	return s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		col, err := s.wdb.GetCollectionTx(tx, addr)
		if err != nil {
			return err
		}
		if col.Creator != caller {
			return schema.ErrUnauthorized
		}
		rows := make([]schema.PoolURI, 0, len(uris))
		for _, u := range uris {
			rows = append(rows, schema.PoolURI{Collection: addr, URI: u})
		}
		if err := s.wdb.InsertPoolURIs(tx, rows); err != nil {
			return err
		}
		s.cache.DelCollection(addr)
		return nil
	})
}

func (s *Marketd) SetMintPrice(addr, caller, priceWei string) error {
	p, err := parseAmount(priceWei)
	if err != nil {
		return schema.ErrInvalidPrice
	}
	return s.updateCollection(addr, caller, func(c *schema.Collection) error {
		c.MintPrice = p.String()
		return nil
	})
}

func (s *Marketd) SetMaxMintPerWallet(addr, caller string, n uint32) error {
	return s.updateCollection(addr, caller, func(c *schema.Collection) error {
		c.MaxPerWallet = n
		return nil
	})
}

func (s *Marketd) SetMintingEnabled(addr, caller string, enabled bool) error {
	return s.updateCollection(addr, caller, func(c *schema.Collection) error {
		c.MintingEnabled = enabled
		return nil
	})
}

func (s *Marketd) SetPublicMintEnabled(addr, caller string, enabled bool) error {
	return s.updateCollection(addr, caller, func(c *schema.Collection) error {
		c.PublicMintEnabled = enabled
		return nil
	})
}

func (s *Marketd) SetWhitelistEnabled(addr, caller string, enabled bool) error {
	return s.updateCollection(addr, caller, func(c *schema.Collection) error {
		c.WhitelistEnabled = enabled
		return nil
	})
}

func (s *Marketd) SetRoyalty(addr, caller, receiver string, basisPoints uint16) error {
	if basisPoints > schema.MaxRoyaltyBasisPoints {
		return schema.ErrRoyaltyTooHigh
	}
	recv, err := parseAddress(receiver)
	if err != nil {
		return err
	}
	return s.updateCollection(addr, caller, func(c *schema.Collection) error {
		c.RoyaltyReceiver = recv
		c.RoyaltyBasisPoints = basisPoints
		return nil
	})
}

func (s *Marketd) SetCollectionMetadata(addr, caller, description, imageURI string) error {
	return s.updateCollection(addr, caller, func(c *schema.Collection) error {
		c.Description = description
		c.ImageURI = imageURI
		return nil
	})
}

func (s *Marketd) AddToWhitelist(addr, caller, wallet string) error {
	return s.AddToWhitelistBatch(addr, caller, []string{wallet})
}

// AddToWhitelistBatch is idempotent, re-adding an address is a no-op.
func (s *Marketd) AddToWhitelistBatch(addr, caller string, wallets []string) error {
	if len(wallets) == 0 {
		return schema.ErrInvalidAmount
	}
	entries := make([]schema.WhitelistEntry, 0, len(wallets))
	for _, w := range wallets {
		wa, err := parseAddress(w)
		if err != nil {
			return err
		}
		entries = append(entries, schema.WhitelistEntry{Collection: addr, Address: wa})
	}

	unlock := s.locker.acquire(collectionKey(addr))
	defer unlock()

	return s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		col, err := s.wdb.GetCollectionTx(tx, addr)
		if err != nil {
			return err
		}
		if col.Creator != caller {
			return schema.ErrUnauthorized
		}
		return s.wdb.UpsertWhitelist(tx, entries)
	})
}

func (s *Marketd) IsWhitelisted(addr, wallet string) (bool, error) {
	return s.wdb.IsWhitelisted(s.wdb.Db, addr, wallet)
}

// PublicMint mints quantity tokens to caller in one atomic batch: the pool is
// consumed FIFO, a supply or payment shortfall aborts the whole call.
func (s *Marketd) PublicMint(addr, caller string, quantity uint32, payment string) ([]uint64, error) {
	if quantity == 0 {
		return nil, schema.ErrInvalidAmount
	}
	pay, err := parseAmount(payment)
	if err != nil {
		return nil, err
	}

	unlockC := s.locker.acquire(collectionKey(addr))
	defer unlockC()
	unlockR := s.locker.acquire(registryKey(addr))
	defer unlockR()
	s.settleLocker.Lock()
	defer s.settleLocker.Unlock()

	var (
		tokenIds []uint64
		cost     *big.Int
	)
	err = s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		col, err := s.wdb.GetCollectionTx(tx, addr)
		if err != nil {
			return err
		}
		if !col.MintingEnabled {
			return schema.ErrMintingDisabled
		}
		if !col.PublicMintEnabled {
			return schema.ErrPublicMintDisabled
		}
		if col.WhitelistEnabled {
			ok, err := s.wdb.IsWhitelisted(tx, addr, caller)
			if err != nil {
				return err
			}
			if !ok {
				return schema.ErrWhitelistRequired
			}
		}
		if uint64(col.MintedCount)+uint64(quantity) > uint64(col.MaxSupply) {
			return schema.ErrSupplyExhausted
		}
		pool, err := s.wdb.NextPoolURIs(tx, addr, int(quantity))
		if err != nil {
			return err
		}
		if len(pool) < int(quantity) {
			return schema.ErrSupplyExhausted
		}
		if col.MaxPerWallet > 0 {
			mc, err := s.wdb.GetMintCountTx(tx, addr, caller)
			if err != nil {
				return err
			}
			if mc.Count+quantity > col.MaxPerWallet {
				return schema.ErrWalletLimitExceeded
			}
		}

		price := mustAmount(col.MintPrice)
		cost = new(big.Int).Mul(price, big.NewInt(int64(quantity)))
		if pay.Cmp(cost) < 0 {
			return fmt.Errorf("%w: cost %s, payment %s", schema.ErrInsufficientPayment, cost, pay)
		}
		if err := s.settleTx(tx, caller, addr, cost, schema.TransferMintPay, addr); err != nil {
			return err
		}

		tokenIds = make([]uint64, 0, quantity)
		for _, p := range pool {
			tokenId, err := s.mintTokenTx(tx, addr, caller, p.URI)
			if err != nil {
				return err
			}
			if err := s.wdb.AssignPoolURI(tx, p.ID, tokenId); err != nil {
				return err
			}
			tokenIds = append(tokenIds, tokenId)
		}

		col.MintedCount += quantity
		total := mustAmount(col.TotalEarnings)
		col.TotalEarnings = total.Add(total, cost).String()
		if err := s.wdb.UpdateCollection(tx, &col); err != nil {
			return err
		}

		mc, err := s.wdb.GetMintCountTx(tx, addr, caller)
		if err != nil {
			return err
		}
		mc.Count += quantity
		return s.wdb.SaveMintCount(tx, mc)
	})
	if err != nil {
		return nil, err
	}

	s.cache.DelCollection(addr)
	s.events.Publish(schema.EventTokenMinted, schema.MintEventPayload{
		Collection: addr,
		Minter:     caller,
		TokenIds:   tokenIds,
		Paid:       cost.String(),
	})
	for _, id := range tokenIds {
		s.events.Publish(schema.EventTransfer, schema.TransferEventPayload{
			Registry: addr,
			TokenId:  id,
			From:     zeroAddr,
			To:       caller,
		})
	}
	metricTokensMinted.Add(float64(quantity))
	return tokenIds, nil
}

// Airdrop mints one token for free, creator only. Price, whitelist and wallet
// limits are bypassed, max supply is not.
func (s *Marketd) Airdrop(addr, caller, to, uri string) (uint64, error) {
	ids, err := s.airdrop(addr, caller, []string{to}, uri)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

func (s *Marketd) AirdropSameURI(addr, caller string, tos []string, uri string) ([]uint64, error) {
	return s.airdrop(addr, caller, tos, uri)
}

func (s *Marketd) airdrop(addr, caller string, tos []string, uri string) ([]uint64, error) {
	if len(tos) == 0 || uri == "" {
		return nil, schema.ErrInvalidAmount
	}
	recipients := make([]string, 0, len(tos))
	for _, to := range tos {
		ta, err := parseAddress(to)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, ta)
	}

	unlockC := s.locker.acquire(collectionKey(addr))
	defer unlockC()
	unlockR := s.locker.acquire(registryKey(addr))
	defer unlockR()

	var tokenIds []uint64
	err := s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		col, err := s.wdb.GetCollectionTx(tx, addr)
		if err != nil {
			return err
		}
		if col.Creator != caller {
			return schema.ErrUnauthorized
		}
		quantity := uint32(len(recipients))
		if uint64(col.MintedCount)+uint64(quantity) > uint64(col.MaxSupply) {
			return schema.ErrSupplyExhausted
		}

		tokenIds = make([]uint64, 0, quantity)
		for _, to := range recipients {
			tokenId, err := s.mintTokenTx(tx, addr, to, uri)
			if err != nil {
				return err
			}
			tokenIds = append(tokenIds, tokenId)
		}

		col.MintedCount += quantity
		return s.wdb.UpdateCollection(tx, &col)
	})
	if err != nil {
		return nil, err
	}

	s.cache.DelCollection(addr)
	s.events.Publish(schema.EventTokensAirdropped, map[string]interface{}{
		"collection": addr,
		"recipients": recipients,
		"tokenIds":   tokenIds,
	})
	for i, id := range tokenIds {
		s.events.Publish(schema.EventTransfer, schema.TransferEventPayload{
			Registry: addr,
			TokenId:  id,
			From:     zeroAddr,
			To:       recipients[i],
		})
	}
	metricTokensMinted.Add(float64(len(tokenIds)))
	return tokenIds, nil
}

// WithdrawEarnings pays the available balance out to the creator. Earnings
// state is settled before the transfer inside one transaction, a re-entrant
// call observes available == 0.
func (s *Marketd) WithdrawEarnings(addr, caller string) (string, error) {
	unlock := s.locker.acquire(collectionKey(addr))
	defer unlock()
	s.settleLocker.Lock()
	defer s.settleLocker.Unlock()

	var available *big.Int
	err := s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		col, err := s.wdb.GetCollectionTx(tx, addr)
		if err != nil {
			return err
		}
		if col.Creator != caller {
			return schema.ErrUnauthorized
		}
		total := mustAmount(col.TotalEarnings)
		withdrawn := mustAmount(col.WithdrawnEarnings)
		available = new(big.Int).Sub(total, withdrawn)
		if available.Sign() == 0 {
			return schema.ErrNothingToWithdraw
		}

		col.WithdrawnEarnings = total.String()
		if err := s.wdb.UpdateCollection(tx, &col); err != nil {
			return err
		}
		return s.settleTx(tx, addr, caller, available, schema.TransferEarnings, addr)
	})
	if err != nil {
		return "", err
	}

	s.cache.DelCollection(addr)
	s.events.Publish(schema.EventEarningsWithdrawn, map[string]string{
		"collection": addr,
		"creator":    caller,
		"amount":     available.String(),
	})
	return available.String(), nil
}

// RoyaltyInfo computes the informational resale royalty, amount is
// salePrice * royaltyBasisPoints / 10000. Enforcement is up to the consuming
// marketplace.
func (s *Marketd) RoyaltyInfo(addr string, tokenId uint64, salePrice string) (string, string, error) {
	price, err := parseAmount(salePrice)
	if err != nil {
		return "", "", err
	}
	col, err := s.wdb.GetCollection(addr)
	if err != nil {
		return "", "", err
	}
	amount := basisPointsOf(price, col.RoyaltyBasisPoints)
	return col.RoyaltyReceiver, amount.String(), nil
}

func (s *Marketd) GetCollectionInfo(addr string) (schema.CollectionInfo, error) {
	if info, ok := s.cache.GetCollection(addr); ok {
		return info, nil
	}
	col, err := s.wdb.GetCollection(addr)
	if err != nil {
		return schema.CollectionInfo{}, err
	}
	depth, err := s.wdb.CountUnassignedURIs(addr)
	if err != nil {
		return schema.CollectionInfo{}, err
	}
	total := mustAmount(col.TotalEarnings)
	withdrawn := mustAmount(col.WithdrawnEarnings)
	info := schema.CollectionInfo{
		Collection:        col,
		AvailableEarnings: new(big.Int).Sub(total, withdrawn).String(),
		PoolDepth:         depth,
		RemainingSupply:   col.MaxSupply - col.MintedCount,
	}
	s.cache.SetCollection(info)
	return info, nil
}

// MintedBy returns caller's cumulative paid mints in one collection.
func (s *Marketd) MintedBy(addr, wallet string) (uint32, error) {
	mc, err := s.wdb.GetMintCountTx(s.wdb.Db, addr, wallet)
	if err != nil {
		return 0, err
	}
	return mc.Count, nil
}
