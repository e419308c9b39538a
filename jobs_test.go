package marketd

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpdateMarketStatistics(t *testing.T) {
	s := newTestMarketd(t)
	listingId, registry, _ := newListedToken(t, s, "100")
	assert.NoError(t, s.Deposit(testBuyer, "1000"))
	_, err := s.BuyItem(listingId, testBuyer, "100")
	assert.NoError(t, err)

	s.updateMarketStatistics()

	now := time.Now().UTC()
	stats, err := s.GetDailyStatistics(now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(stats))
	st := stats[0].Result
	assert.Equal(t, int64(1), st.ListingsCreated)
	assert.Equal(t, int64(1), st.ItemsSold)
	assert.Equal(t, "100", st.VolumeWei)
	assert.Equal(t, "2", st.FeesWei)
	assert.Equal(t, int64(1), st.Mints)
	breakdown := make(map[string]int64)
	assert.NoError(t, json.Unmarshal(st.Breakdown, &breakdown))
	assert.Equal(t, int64(1), breakdown[registry])

	// the job is idempotent within one day, re-running replaces the row
	s.updateMarketStatistics()
	stats, err = s.GetDailyStatistics(now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(stats))
}
