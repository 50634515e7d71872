package assets

import (
	"maps"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sljivkov/pricegraph/domain"
)

// Chainlink USD feeds on mainnet.
var (
	EthUsdOracle   = common.HexToAddress("0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419")
	DaiUsdOracle   = common.HexToAddress("0xAed0c38402a5d19df6E4c03F4E2DceD6e29c1ee9")
	StEthUsdOracle = common.HexToAddress("0xCfE54B5cD566aB89272946F602D76Ea879CAb4a8")
)

// Registry is a static asset to oracle table.
type Registry struct {
	oracles map[common.Address]common.Address
}

var _ domain.OracleRegistry = (*Registry)(nil)

// NewRegistry copies oracles into a Registry.
func NewRegistry(oracles map[common.Address]common.Address) *Registry {
	return &Registry{oracles: maps.Clone(oracles)}
}

// DefaultRegistry returns the mainnet USD oracles for the known assets.
func DefaultRegistry() *Registry {
	return NewRegistry(map[common.Address]common.Address{
		ETH:   EthUsdOracle,
		WETH:  EthUsdOracle,
		DAI:   DaiUsdOracle,
		StETH: StEthUsdOracle,
	})
}

// OracleFor implements domain.OracleRegistry.
func (r *Registry) OracleFor(asset common.Address) (common.Address, bool) {
	oracle, ok := r.oracles[asset]
	return oracle, ok
}
