package marketd

import (
	"testing"

	"github.com/arcmarket/marketd/schema"
	"github.com/stretchr/testify/assert"
)

func TestCreateRegistryAndMint(t *testing.T) {
	s := newTestMarketd(t)

	reg, err := s.CreateRegistry(testCreator, "punks")
	assert.NoError(t, err)
	assert.True(t, s.wdb.ExistRegistry(reg))

	// ids are monotonic from zero
	id0, err := s.MintToken(reg, testSeller, "ipfs://0")
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), id0)
	id1, err := s.MintToken(reg, testSeller, "ipfs://1")
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), id1)

	owner, err := s.OwnerOf(reg, id0)
	assert.NoError(t, err)
	assert.Equal(t, testSeller, owner)

	tk, err := s.GetToken(reg, id1)
	assert.NoError(t, err)
	assert.Equal(t, "ipfs://1", tk.URI)

	tokens, err := s.GetOwnerTokens(reg, testSeller)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(tokens))

	_, err = s.OwnerOf(reg, 99)
	assert.ErrorIs(t, err, schema.ErrTokenNotFound)
}

func TestDeriveAddressUnique(t *testing.T) {
	a := deriveAddress(testCreator)
	b := deriveAddress(testCreator)
	assert.NotEqual(t, a, b)
	a2, err := parseAddress(a)
	assert.NoError(t, err)
	assert.Equal(t, a, a2)
}

func TestTransferByOwner(t *testing.T) {
	s := newTestMarketd(t)
	reg, err := s.CreateRegistry(testSeller, "punks")
	assert.NoError(t, err)
	id, err := s.MintToken(reg, testSeller, "ipfs://0")
	assert.NoError(t, err)

	err = s.Transfer(reg, testSeller, testSeller, testBuyer, id)
	assert.NoError(t, err)
	owner, err := s.OwnerOf(reg, id)
	assert.NoError(t, err)
	assert.Equal(t, testBuyer, owner)
}

func TestTransferByOperator(t *testing.T) {
	s := newTestMarketd(t)
	reg, err := s.CreateRegistry(testSeller, "punks")
	assert.NoError(t, err)
	id, err := s.MintToken(reg, testSeller, "ipfs://0")
	assert.NoError(t, err)

	// no approval yet
	err = s.Transfer(reg, testOther, testSeller, testBuyer, id)
	assert.ErrorIs(t, err, schema.ErrTransferNotAuthorized)

	err = s.SetApprovalForAll(reg, testSeller, testOther, true)
	assert.NoError(t, err)
	approved, err := s.IsApprovedForAll(reg, testSeller, testOther)
	assert.NoError(t, err)
	assert.True(t, approved)

	err = s.Transfer(reg, testOther, testSeller, testBuyer, id)
	assert.NoError(t, err)

	// approval can be revoked again
	err = s.SetApprovalForAll(reg, testSeller, testOther, false)
	assert.NoError(t, err)
	approved, err = s.IsApprovedForAll(reg, testSeller, testOther)
	assert.NoError(t, err)
	assert.False(t, approved)
}

func TestTransferWrongOwner(t *testing.T) {
	s := newTestMarketd(t)
	reg, err := s.CreateRegistry(testSeller, "punks")
	assert.NoError(t, err)
	id, err := s.MintToken(reg, testSeller, "ipfs://0")
	assert.NoError(t, err)

	// from does not own the token
	err = s.Transfer(reg, testBuyer, testBuyer, testOther, id)
	assert.ErrorIs(t, err, schema.ErrTransferNotAuthorized)
}

func TestApprovalUnknownRegistry(t *testing.T) {
	s := newTestMarketd(t)
	err := s.SetApprovalForAll(deriveAddress(testSeller), testSeller, testOther, true)
	assert.ErrorIs(t, err, schema.ErrNotFound)
}
