// Package assets holds the well-known mainnet assets, their USD oracles and the
// routes used to derive prices for wrapped and vault tokens.
package assets

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sljivkov/pricegraph/pricefeed"
)

// Mainnet asset addresses. ETH uses the zero address.
var (
	ETH      = common.Address{}
	WETH     = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	DAI      = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	StETH    = common.HexToAddress("0xae7ab96520DE3A18E5e111B5EaAb095312D7fE84")
	WstETH   = common.HexToAddress("0x7f39C581F595B53c5cb19bD0b3f8dA6c935E2Ca0")
	YvDAI    = common.HexToAddress("0xdA816459F1AB5631232FE5e97a05BBBb94970c95")
	YvETH    = common.HexToAddress("0xa258C4606Ca8206D8aA700cE2143D7db854D168c")
	WeWETH   = common.HexToAddress("0x3c66B18F67CA6C1A71F829E2F6a0c987f97462d0")
	WeDAI    = common.HexToAddress("0x4169Df1B7820702f566cc10938DA51F6F597d264")
	WeWstETH = common.HexToAddress("0x60897720AA966452e8706e74296B018990aEc527")
)

// Known lists every well-known asset in display order.
var Known = []pricefeed.Asset{
	{Address: ETH, Symbol: "ETH"},
	{Address: WETH, Symbol: "WETH"},
	{Address: DAI, Symbol: "DAI"},
	{Address: StETH, Symbol: "stETH"},
	{Address: WstETH, Symbol: "wstETH"},
	{Address: YvDAI, Symbol: "yvDAI"},
	{Address: YvETH, Symbol: "yvETH"},
	{Address: WeWETH, Symbol: "weWETH"},
	{Address: WeDAI, Symbol: "weDAI"},
	{Address: WeWstETH, Symbol: "wewstETH"},
}

// Lookup finds an asset by symbol (case-insensitive) or by hex address. Unknown
// addresses are returned with the address as symbol.
func Lookup(s string) (pricefeed.Asset, bool) {
	s = strings.TrimSpace(s)

	for _, a := range Known {
		if strings.EqualFold(a.Symbol, s) {
			return a, true
		}
	}

	if !common.IsHexAddress(s) {
		return pricefeed.Asset{}, false
	}

	addr := common.HexToAddress(s)
	for _, a := range Known {
		if a.Address == addr {
			return a, true
		}
	}

	return pricefeed.Asset{Address: addr, Symbol: addr.Hex()}, true
}
