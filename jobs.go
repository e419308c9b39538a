package marketd

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/arcmarket/marketd/schema"
	"github.com/shopspring/decimal"
)

func (s *Marketd) runJobs() {
	s.scheduler.Every(1).Minute().SingletonMode().Do(s.sweepStaleListings)
	s.scheduler.Every(30).Minute().SingletonMode().Do(s.updateMarketStatistics)
	s.scheduler.Every(30).Seconds().SingletonMode().Do(s.updateMetrics)

	s.scheduler.StartAsync()
}

// sweepStaleListings deactivates active listings whose seller no longer owns
// the listed token. Purchase time re-verification remains the hard safeguard,
// the sweep just stops repeated failed buy attempts early.
func (s *Marketd) sweepStaleListings() {
	listings, err := s.wdb.GetActiveListings()
	if err != nil {
		log.Error("s.wdb.GetActiveListings()", "err", err)
		return
	}

	for _, l := range listings {
		owner, err := s.OwnerOf(l.TokenContract, l.TokenId)
		if err != nil {
			log.Error("sweep ownerOf failed", "err", err, "listingId", l.ID)
			continue
		}
		if owner == l.Seller {
			continue
		}
		unlock := s.locker.acquire(listingKey(l.ID))
		s.deactivateStaleListing(l.ID)
		unlock()
		log.Info("stale listing deactivated", "listingId", l.ID, "seller", l.Seller, "owner", owner)
	}
}

// updateMarketStatistics refreshes today's aggregate row.
func (s *Marketd) updateMarketStatistics() {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	created, err := s.wdb.GetListingsCreatedBetween(start, end)
	if err != nil {
		log.Error("s.wdb.GetListingsCreatedBetween()", "err", err)
		return
	}
	sold, err := s.wdb.GetListingsSoldBetween(start, end)
	if err != nil {
		log.Error("s.wdb.GetListingsSoldBetween()", "err", err)
		return
	}
	minted, err := s.wdb.GetTokensMintedBetween(start, end)
	if err != nil {
		log.Error("s.wdb.GetTokensMintedBetween()", "err", err)
		return
	}

	volume := decimal.Zero
	fees := decimal.Zero
	for _, l := range sold {
		volume = volume.Add(decimal.RequireFromString(l.SalePrice))
		fees = fees.Add(decimal.RequireFromString(l.SaleFee))
	}

	mintVolume := decimal.Zero
	breakdown := make(map[string]int64)
	for _, tk := range minted {
		breakdown[tk.Registry]++
		col, err := s.wdb.GetCollection(tk.Registry)
		if err == nil {
			mintVolume = mintVolume.Add(decimal.RequireFromString(col.MintPrice))
		}
	}
	breakdownJson, err := json.Marshal(breakdown)
	if err != nil {
		log.Error("json.Marshal(breakdown)", "err", err)
		return
	}

	st := schema.MarketStatistic{
		Date:            start,
		ListingsCreated: int64(len(created)),
		ItemsSold:       int64(len(sold)),
		VolumeWei:       volume.String(),
		FeesWei:         fees.String(),
		Mints:           int64(len(minted)),
		MintVolumeWei:   mintVolume.String(),
		Breakdown:       breakdownJson,
	}
	if err := s.wdb.SaveStatistic(st); err != nil {
		log.Error("s.wdb.SaveStatistic(st)", "err", err)
	}
}

func (s *Marketd) updateMetrics() {
	n, err := s.wdb.CountActiveListings()
	if err != nil {
		log.Error("s.wdb.CountActiveListings()", "err", err)
		return
	}
	metricActiveListings.Set(float64(n))

	sold, err := s.wdb.GetListingsSoldBetween(time.Unix(0, 0), time.Now().UTC().AddDate(0, 0, 1))
	if err != nil {
		return
	}
	volume := new(big.Int)
	for _, l := range sold {
		volume.Add(volume, mustAmount(l.SalePrice))
	}
	metricSetVolume(volume)
}

// GetDailyStatistics serves the aggregated range, inclusive start, exclusive end.
func (s *Marketd) GetDailyStatistics(start, end time.Time) ([]schema.DailyStatistic, error) {
	rows, err := s.wdb.GetStatistics(start, end)
	if err != nil {
		return nil, err
	}
	res := make([]schema.DailyStatistic, 0, len(rows))
	for _, st := range rows {
		res = append(res, schema.DailyStatistic{
			Date:   st.Date.Format("2006-01-02"),
			Result: st,
		})
	}
	return res, nil
}
