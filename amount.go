package marketd

import (
	"fmt"
	"math/big"

	"github.com/arcmarket/marketd/schema"
	"github.com/ethereum/go-ethereum/common"
)

var zeroAddr = common.Address{}.Hex()

// parseAmount parses a non negative wei decimal string.
func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", schema.ErrInvalidAmount, s)
	}
	return n, nil
}

// mustAmount is for amounts the ledger itself wrote.
func mustAmount(s string) *big.Int {
	n, err := parseAmount(s)
	if err != nil {
		panic(err)
	}
	return n
}

// basisPointsOf truncates toward zero, fee + proceeds always equals amount.
func basisPointsOf(amount *big.Int, bps uint16) *big.Int {
	fee := new(big.Int).Mul(amount, big.NewInt(int64(bps)))
	return fee.Div(fee, big.NewInt(10000))
}

func parseAddress(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("%w: %s", schema.ErrInvalidAddress, s)
	}
	return common.HexToAddress(s).Hex(), nil
}
