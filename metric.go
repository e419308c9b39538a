package marketd

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	MetricNameSpace = "marketd"
)

var (
	metricListingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "listings_created_total",
			Help:      "listings appended to the marketplace ledger",
		},
	)
	metricItemsSold = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "items_sold_total",
			Help:      "successful buyItem settlements",
		},
	)
	metricTokensMinted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "tokens_minted_total",
			Help:      "tokens minted through collection engines",
		},
	)
	metricCollectionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "collections_created_total",
			Help:      "collections deployed by the factory",
		},
	)
	metricActiveListings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "active_listings",
			Help:      "currently active listings",
		},
	)
	metricSaleVolume = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "sale_volume_eth",
			Help:      "lifetime sale volume in whole currency units",
		},
	)
)

func init() {
	prometheus.MustRegister(
		metricListingsCreated,
		metricItemsSold,
		metricTokensMinted,
		metricCollectionsCreated,
		metricActiveListings,
		metricSaleVolume,
	)
}

func metricSetVolume(wei *big.Int) {
	eth, _ := decimal.NewFromBigInt(wei, -18).Float64()
	metricSaleVolume.Set(eth)
}
