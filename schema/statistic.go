package schema

import (
	"time"

	"gorm.io/datatypes"
)

// MarketStatistic is one aggregated day of marketplace activity, refreshed by
// the statistics job.
type MarketStatistic struct {
	ID   uint      `gorm:"primarykey" json:"-"`
	Date time.Time `gorm:"index" json:"date"`

	ListingsCreated int64  `json:"listingsCreated"`
	ItemsSold       int64  `json:"itemsSold"`
	VolumeWei       string `json:"volume"` // summed sale prices
	FeesWei         string `json:"fees"`
	Mints           int64  `json:"mints"`
	MintVolumeWei   string `json:"mintVolume"`

	// per collection mint breakdown, json: {collection: mintCount}
	Breakdown datatypes.JSON `json:"breakdown"`
}

type DailyStatistic struct {
	Date   string          `json:"date"`
	Result MarketStatistic `json:"result"`
}
