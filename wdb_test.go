package marketd

import (
	"testing"
	"time"

	"github.com/arcmarket/marketd/schema"
	"github.com/stretchr/testify/assert"
)

func newTestWdb(t *testing.T) *Wdb {
	t.Helper()
	db := NewSqliteDb(t.TempDir())
	assert.NoError(t, db.Migrate())
	t.Cleanup(db.Close)
	return db
}

func TestWdbAccountDefaults(t *testing.T) {
	db := newTestWdb(t)

	// unknown accounts read as zero balance
	acct, err := db.GetAccount(testBuyer)
	assert.NoError(t, err)
	assert.Equal(t, "0", acct.Balance)

	acct.Balance = "500"
	assert.NoError(t, db.SaveAccount(db.Db, acct))
	acct, err = db.GetAccount(testBuyer)
	assert.NoError(t, err)
	assert.Equal(t, "500", acct.Balance)

	// save is an upsert
	acct.Balance = "700"
	assert.NoError(t, db.SaveAccount(db.Db, acct))
	acct, err = db.GetAccount(testBuyer)
	assert.NoError(t, err)
	assert.Equal(t, "700", acct.Balance)
}

func TestWdbMarketConfigSingleton(t *testing.T) {
	db := newTestWdb(t)

	_, err := db.GetMarketConfig()
	assert.Error(t, err)

	cfg := schema.MarketplaceConfig{Owner: testOwner, FeeBasisPoints: 250}
	assert.NoError(t, db.SaveMarketConfig(db.Db, cfg))
	cfg.FeeBasisPoints = 100
	assert.NoError(t, db.SaveMarketConfig(db.Db, cfg))

	got, err := db.GetMarketConfig()
	assert.NoError(t, err)
	assert.Equal(t, uint16(100), got.FeeBasisPoints)

	var n int64
	assert.NoError(t, db.Db.Model(&schema.MarketplaceConfig{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestWdbListingNotFound(t *testing.T) {
	db := newTestWdb(t)
	_, err := db.GetListing(42)
	assert.ErrorIs(t, err, schema.ErrListingNotFound)
}

func TestWdbPoolURIsFIFO(t *testing.T) {
	db := newTestWdb(t)
	col := deriveAddress(testCreator)
	uris := []schema.PoolURI{
		{Collection: col, URI: "ipfs://0"},
		{Collection: col, URI: "ipfs://1"},
		{Collection: col, URI: "ipfs://2"},
	}
	assert.NoError(t, db.InsertPoolURIs(db.Db, uris))

	next, err := db.NextPoolURIs(db.Db, col, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(next))
	assert.Equal(t, "ipfs://0", next[0].URI)
	assert.Equal(t, "ipfs://1", next[1].URI)

	assert.NoError(t, db.AssignPoolURI(db.Db, next[0].ID, 7))
	n, err := db.CountUnassignedURIs(col)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// assigned rows never come back
	next, err = db.NextPoolURIs(db.Db, col, 3)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(next))
	assert.Equal(t, "ipfs://1", next[0].URI)
}

func TestWdbStatisticUpsert(t *testing.T) {
	db := newTestWdb(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, db.SaveStatistic(schema.MarketStatistic{Date: day, ItemsSold: 1, VolumeWei: "100"}))
	assert.NoError(t, db.SaveStatistic(schema.MarketStatistic{Date: day, ItemsSold: 2, VolumeWei: "250"}))

	rows, err := db.GetStatistics(day, day.AddDate(0, 0, 1))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, int64(2), rows[0].ItemsSold)
	assert.Equal(t, "250", rows[0].VolumeWei)
}
