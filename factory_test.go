package marketd

import (
	"testing"

	"github.com/arcmarket/marketd/schema"
	"github.com/stretchr/testify/assert"
)

func TestCreateCollection(t *testing.T) {
	s := newTestMarketd(t)

	_, err := s.CreateCollection(testCreator, "drop", 0)
	assert.ErrorIs(t, err, schema.ErrInvalidSupply)
	_, err = s.CreateCollection("not-an-address", "drop", 10)
	assert.ErrorIs(t, err, schema.ErrInvalidAddress)

	addr, err := s.CreateCollection(testCreator, "drop", 10)
	assert.NoError(t, err)
	assert.True(t, s.IsValidCollection(addr))
	// the collection shares its address with its own token registry
	assert.True(t, s.wdb.ExistRegistry(addr))

	info, err := s.GetCollectionInfo(addr)
	assert.NoError(t, err)
	assert.Equal(t, "drop", info.Name)
	assert.Equal(t, testCreator, info.Creator)
	assert.Equal(t, uint32(10), info.MaxSupply)
	assert.Equal(t, uint32(0), info.MintedCount)
	assert.False(t, info.MintingEnabled)
	assert.False(t, info.PublicMintEnabled)
	assert.Equal(t, "0", info.MintPrice)
	assert.Equal(t, testCreator, info.RoyaltyReceiver)
	assert.Equal(t, "0", info.TotalEarnings)
	assert.Equal(t, uint32(10), info.RemainingSupply)
}

func TestCreatorCollections(t *testing.T) {
	s := newTestMarketd(t)
	a, err := s.CreateCollection(testCreator, "first", 5)
	assert.NoError(t, err)
	b, err := s.CreateCollection(testCreator, "second", 5)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
	_, err = s.CreateCollection(testOther, "third", 5)
	assert.NoError(t, err)

	all, err := s.GetAllCollections()
	assert.NoError(t, err)
	assert.Equal(t, 3, len(all))

	mine, err := s.GetCreatorCollections(testCreator)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(mine))

	assert.False(t, s.IsValidCollection(deriveAddress(testCreator)))
}
