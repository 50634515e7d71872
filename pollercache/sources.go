package pollercache

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sljivkov/pricegraph/domain"
	"github.com/sljivkov/pricegraph/poller"
)

// Default poll intervals.
const (
	DefaultOracleInterval     = time.Minute
	DefaultUnderlyingInterval = 10 * time.Minute
)

// ChainlinkCache polls oracle prices keyed by oracle address.
type ChainlinkCache = Cache[common.Address, *big.Int]

// UnderlyingAmountCache polls recipe conversion amounts keyed by (recipe, unit amount).
type UnderlyingAmountCache = Cache[UnderlyingKey, *big.Int]

// NewChainlinkCache creates a cache of oracle price pollers.
func NewChainlinkCache(reader domain.OracleReader, interval time.Duration) *ChainlinkCache {
	return New("chainlink", AddressKey, func(oracle common.Address) (*poller.Poller[*big.Int], error) {
		return poller.New("chainlink:"+oracle.Hex(), interval, func(ctx context.Context) (*big.Int, error) {
			return reader.LatestPrice(ctx, oracle)
		}), nil
	})
}

// NewUnderlyingAmountCache creates a cache of recipe conversion pollers.
func NewUnderlyingAmountCache(reader domain.UnderlyingAmountReader, interval time.Duration) *UnderlyingAmountCache {
	return New("underlying", underlyingKey, func(key UnderlyingKey) (*poller.Poller[*big.Int], error) {
		// The caller may reuse its *big.Int; poll with a private copy.
		unit := new(big.Int).Set(key.UnitAmount)
		name, _ := key.Canonical()

		return poller.New("underlying:"+name, interval, func(ctx context.Context) (*big.Int, error) {
			return reader.UnderlyingAmount(ctx, key.RecipeID, unit)
		}), nil
	})
}
