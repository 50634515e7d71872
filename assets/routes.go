package assets

import (
	"github.com/sljivkov/pricegraph/chains"
	"github.com/sljivkov/pricegraph/pricefeed"
)

// Recipe ids.
const (
	RecipeYearnDAI    = "yearn-finance.DAI-to-yvDAI"
	RecipeYearnETH    = "yearn-finance.ETH-to-yvETH"
	RecipeEulerWETH   = "euler.ETH-to-weETH"
	RecipeEulerDAI    = "euler.DAI-to-weDAI"
	RecipeEulerWstETH = "euler.wstETH-to-wewstETH"
	RecipeLidoWstETH  = "lido.stETH-by-wstETH"
)

// DefaultRoutes returns the derivation routes for the known wrapped and vault assets.
// wstETH goes through stETH's own oracle and the wstETH contract's exchange rate.
func DefaultRoutes() pricefeed.Routes {
	return pricefeed.Routes{
		YvDAI:    {Underlying: DAI, Recipe: RecipeYearnDAI},
		YvETH:    {Underlying: WETH, Recipe: RecipeYearnETH},
		WeWETH:   {Underlying: WETH, Recipe: RecipeEulerWETH},
		WeDAI:    {Underlying: DAI, Recipe: RecipeEulerDAI},
		WeWstETH: {Underlying: WstETH, Recipe: RecipeEulerWstETH},
		WstETH:   {Underlying: StETH, Recipe: RecipeLidoWstETH},
	}
}

// DefaultRecipes returns the contract calls behind each recipe id.
func DefaultRecipes() map[string]chains.Recipe {
	return map[string]chains.Recipe{
		RecipeYearnDAI:    {Kind: chains.KindYearnVault, Contract: YvDAI},
		RecipeYearnETH:    {Kind: chains.KindYearnVault, Contract: YvETH},
		RecipeEulerWETH:   {Kind: chains.KindERC4626, Contract: WeWETH},
		RecipeEulerDAI:    {Kind: chains.KindERC4626, Contract: WeDAI},
		RecipeEulerWstETH: {Kind: chains.KindERC4626, Contract: WeWstETH},
		RecipeLidoWstETH:  {Kind: chains.KindLidoWstETH, Contract: WstETH},
	}
}
