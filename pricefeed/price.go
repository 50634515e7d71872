// Package pricefeed builds the reactive graph that yields USD prices for assets
package pricefeed

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/sljivkov/pricegraph/obs"
)

// Decimals is the fixed-point scale of every price in the graph
const Decimals = 18

// PriceObs yields a USD price scaled by 10^18, or nil while the price is unknown
type PriceObs = obs.Obs[*big.Int]

// Price is a point-in-time view of one watched asset
type Price struct {
	Asset  common.Address `json:"asset"`
	Symbol string         `json:"symbol"`
	USD    *big.Int       `json:"-"`
}

// Known reports whether the price is available
func (p Price) Known() bool {
	return p.USD != nil
}

// Pow10 returns 10^n
func Pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// MulDiv returns a*b/denom truncated toward zero. Any nil operand, or a zero
// denominator, yields nil.
func MulDiv(a, b, denom *big.Int) *big.Int {
	if a == nil || b == nil || denom == nil || denom.Sign() == 0 {
		return nil
	}

	product := new(big.Int).Mul(a, b)

	return product.Quo(product, denom)
}

// Format renders a fixed-point price as a decimal string with precision places,
// truncating extra digits. nil renders as "".
func Format(v *big.Int, precision int32) string {
	if v == nil {
		return ""
	}

	return decimal.NewFromBigInt(v, -Decimals).Truncate(precision).StringFixed(precision)
}
