package marketd

import (
	"math/big"
	"testing"

	"github.com/arcmarket/marketd/schema"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	n, err := parseAmount("")
	assert.NoError(t, err)
	assert.Equal(t, "0", n.String())

	n, err = parseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	assert.NoError(t, err)
	assert.Equal(t, "115792089237316195423570985008687907853269984665640564039457584007913129639935", n.String())

	_, err = parseAmount("-1")
	assert.ErrorIs(t, err, schema.ErrInvalidAmount)
	_, err = parseAmount("1.5")
	assert.ErrorIs(t, err, schema.ErrInvalidAmount)
	_, err = parseAmount("0x10")
	assert.ErrorIs(t, err, schema.ErrInvalidAmount)
}

func TestBasisPointsOf(t *testing.T) {
	assert.Equal(t, "2", basisPointsOf(big.NewInt(100), 250).String())
	assert.Equal(t, "25", basisPointsOf(big.NewInt(1000), 250).String())
	assert.Equal(t, "0", basisPointsOf(big.NewInt(100), 0).String())
	assert.Equal(t, "100", basisPointsOf(big.NewInt(1000), 1000).String())
	// truncates toward zero
	assert.Equal(t, "0", basisPointsOf(big.NewInt(39), 250).String())
}

func TestParseAddress(t *testing.T) {
	addr, err := parseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	assert.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr)

	// lowercase input normalizes to the checksum form
	addr, err = parseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	assert.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr)

	_, err = parseAddress("")
	assert.ErrorIs(t, err, schema.ErrInvalidAddress)
	_, err = parseAddress("0x123")
	assert.ErrorIs(t, err, schema.ErrInvalidAddress)
}
