package assets

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		in     string
		want   common.Address
		symbol string
		ok     bool
	}{
		{in: "DAI", want: DAI, symbol: "DAI", ok: true},
		{in: "wsteth", want: WstETH, symbol: "wstETH", ok: true},
		{in: " yvETH ", want: YvETH, symbol: "yvETH", ok: true},
		{in: "0x6b175474e89094c44da98b954eedeac495271d0f", want: DAI, symbol: "DAI", ok: true},
		{in: "0x000000000000000000000000000000000000dEaD", want: common.HexToAddress("0xdead"), symbol: "0x000000000000000000000000000000000000dEaD", ok: true},
		{in: "doge"},
		{in: "0x123"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, ok := Lookup(tt.in)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.want, a.Address)
			assert.Equal(t, tt.symbol, a.Symbol)
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	oracle, ok := r.OracleFor(WETH)
	assert.True(t, ok)
	assert.Equal(t, EthUsdOracle, oracle)

	_, ok = r.OracleFor(YvDAI)
	assert.False(t, ok, "vault tokens are derived, not oracle priced")
}

func TestNewRegistry_CopiesInput(t *testing.T) {
	in := map[common.Address]common.Address{DAI: DaiUsdOracle}
	r := NewRegistry(in)
	delete(in, DAI)

	_, ok := r.OracleFor(DAI)
	assert.True(t, ok)
}

func TestDefaultRoutes(t *testing.T) {
	routes := DefaultRoutes()
	require.NoError(t, routes.Validate())

	recipes := DefaultRecipes()
	registry := DefaultRegistry()

	for asset, route := range routes {
		_, ok := recipes[route.Recipe]
		assert.True(t, ok, "recipe %s for %s has no contract call", route.Recipe, asset.Hex())

		// Every route ends at an oracle priced asset.
		next := route.Underlying
		for {
			r, ok := routes[next]
			if !ok {
				break
			}
			next = r.Underlying
		}
		_, ok = registry.OracleFor(next)
		assert.True(t, ok, "route for %s ends at unpriced %s", asset.Hex(), next.Hex())
	}
}

func TestKnownAreUnique(t *testing.T) {
	seen := make(map[common.Address]bool)
	for _, a := range Known {
		assert.False(t, seen[a.Address], a.Symbol)
		seen[a.Address] = true
	}
}
