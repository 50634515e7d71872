package pricefeed

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrRouteCycle is returned when routes refer back to an asset already on the path.
var ErrRouteCycle = errors.New("derivation routes form a cycle")

// maxDecimals keeps 10^decimals inside uint256.
const maxDecimals = 77

// Route derives an asset's price from an underlying asset's price and a recipe that
// converts one unit of the asset into the underlying.
type Route struct {
	Underlying common.Address
	Recipe     string
	// Decimals of the derived asset; zero means 18.
	Decimals uint8
}

// UnitDecimals returns the effective decimals of the derived asset.
func (r Route) UnitDecimals() uint8 {
	if r.Decimals == 0 {
		return Decimals
	}

	return r.Decimals
}

// Routes maps derived assets to their route. Assets without a route are priced from
// their oracle directly.
type Routes map[common.Address]Route

// Validate checks every route and rejects cycles.
func (rs Routes) Validate() error {
	for asset, r := range rs {
		if r.Recipe == "" {
			return fmt.Errorf("route %s: empty recipe", asset.Hex())
		}

		if r.UnitDecimals() > maxDecimals {
			return fmt.Errorf("route %s: decimals %d out of range", asset.Hex(), r.Decimals)
		}

		seen := map[common.Address]bool{asset: true}
		for next := r.Underlying; ; {
			if seen[next] {
				return fmt.Errorf("%w: through %s", ErrRouteCycle, asset.Hex())
			}
			seen[next] = true

			nr, ok := rs[next]
			if !ok {
				break
			}
			next = nr.Underlying
		}
	}

	return nil
}
