package marketd

import (
	"path"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

var (
	testOwner   = common.BytesToAddress([]byte("market-owner")).Hex()
	testFeeRecv = common.BytesToAddress([]byte("fee-receiver")).Hex()
	testSeller  = common.BytesToAddress([]byte("seller")).Hex()
	testBuyer   = common.BytesToAddress([]byte("buyer")).Hex()
	testCreator = common.BytesToAddress([]byte("creator")).Hex()
	testOther   = common.BytesToAddress([]byte("other")).Hex()
)

func newTestMarketd(t *testing.T) *Marketd {
	t.Helper()
	dir := t.TempDir()
	s := New(path.Join(dir, "bolt"), "", path.Join(dir, "db"), true,
		testOwner, testFeeRecv, 250, false, "")
	t.Cleanup(s.Close)
	return s
}

// newListedToken mints a token to testSeller, approves the marketplace
// operator and lists it at price.
func newListedToken(t *testing.T, s *Marketd, price string) (listingId uint64, registry string, tokenId uint64) {
	t.Helper()
	registry, err := s.CreateRegistry(testSeller, "test registry")
	assert.NoError(t, err)
	tokenId, err = s.MintToken(registry, testSeller, "ipfs://meta/0")
	assert.NoError(t, err)

	cfg, err := s.GetMarketConfig()
	assert.NoError(t, err)
	err = s.SetApprovalForAll(registry, testSeller, cfg.Operator, true)
	assert.NoError(t, err)

	listingId, err = s.ListItem(testSeller, registry, tokenId, price)
	assert.NoError(t, err)
	return
}

func TestInitMarketConfig(t *testing.T) {
	s := newTestMarketd(t)
	cfg, err := s.GetMarketConfig()
	assert.NoError(t, err)
	assert.Equal(t, testOwner, cfg.Owner)
	assert.Equal(t, testFeeRecv, cfg.FeeReceiver)
	assert.Equal(t, uint16(250), cfg.FeeBasisPoints)
	assert.NotEqual(t, "", cfg.Operator)
	assert.NotEqual(t, zeroAddr, cfg.Operator)
}
