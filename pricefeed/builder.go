package pricefeed

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sljivkov/pricegraph/domain"
	"github.com/sljivkov/pricegraph/obs"
	"github.com/sljivkov/pricegraph/pollercache"
)

// ResolveFunc returns the price cell for an asset, nil if the asset has no price.
// Builders recurse through it so a memoizing resolver can share sub-graphs.
type ResolveFunc func(asset common.Address) (PriceObs, error)

// Builder constructs price graphs. It holds no state of its own: all sharing happens
// in the poller caches and in the ResolveFunc it is given.
type Builder struct {
	oracles    domain.OracleRegistry
	routes     Routes
	chainlink  *pollercache.ChainlinkCache
	underlying *pollercache.UnderlyingAmountCache
}

// NewBuilder validates routes and returns a Builder.
func NewBuilder(
	oracles domain.OracleRegistry,
	routes Routes,
	chainlink *pollercache.ChainlinkCache,
	underlying *pollercache.UnderlyingAmountCache,
) (*Builder, error) {
	if err := routes.Validate(); err != nil {
		return nil, err
	}

	return &Builder{
		oracles:    oracles,
		routes:     routes,
		chainlink:  chainlink,
		underlying: underlying,
	}, nil
}

// Build returns the price cell for asset:
//   - a routed asset combines resolve(underlying) with its recipe's conversion amount
//   - any other asset uses its registered USD oracle directly
//
// (nil, nil) means the asset has no derivable price. Errors signal misconfiguration.
func (b *Builder) Build(asset common.Address, resolve ResolveFunc) (PriceObs, error) {
	if route, ok := b.routes[asset]; ok {
		return b.buildRouted(asset, route, resolve)
	}

	oracle, ok := b.oracles.OracleFor(asset)
	if !ok {
		return nil, nil
	}

	p, err := b.chainlink.Get(oracle)
	if err != nil {
		return nil, fmt.Errorf("price %s: %w", asset.Hex(), err)
	}

	return p.Obs(), nil
}

// buildRouted prices asset as underlyingPrice * unitConversionAmount / 10^decimals.
func (b *Builder) buildRouted(asset common.Address, route Route, resolve ResolveFunc) (PriceObs, error) {
	underlyingPrice, err := resolve(route.Underlying)
	if err != nil {
		return nil, fmt.Errorf("price %s: underlying %s: %w", asset.Hex(), route.Underlying.Hex(), err)
	}

	if underlyingPrice == nil {
		return nil, nil
	}

	unit := Pow10(route.UnitDecimals())

	conversion, err := b.underlying.Get(pollercache.UnderlyingKey{RecipeID: route.Recipe, UnitAmount: unit})
	if err != nil {
		return nil, fmt.Errorf("price %s: %w", asset.Hex(), err)
	}

	return obs.Combine2(underlyingPrice, conversion.Obs(), func(price, amount *big.Int) *big.Int {
		return MulDiv(price, amount, unit)
	}), nil
}
