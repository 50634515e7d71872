package chains

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/sljivkov/pricegraph/logger"
)

//go:embed abi/recipes.abi
var recipesABI string

// ErrUnknownRecipe is returned for a recipe id with no registered adaptor.
var ErrUnknownRecipe = errors.New("unknown recipe")

// RecipeKind selects the contract call that evaluates a recipe.
type RecipeKind string

const (
	// KindERC4626 calls convertToAssets(amount) on a tokenized vault.
	KindERC4626 RecipeKind = "erc4626"
	// KindYearnVault reads pricePerShare() and scales amount by it.
	KindYearnVault RecipeKind = "yearn-vault"
	// KindLidoWstETH calls getStETHByWstETH(amount) on the wstETH contract.
	KindLidoWstETH RecipeKind = "lido-wsteth"
)

// Recipe binds a recipe id to the contract that evaluates it.
type Recipe struct {
	Kind     RecipeKind
	Contract common.Address
	// Decimals of the share token, used by KindYearnVault. Zero means 18.
	Decimals uint8
}

// RecipeReader implements domain.UnderlyingAmountReader over a recipe table
type RecipeReader struct {
	caller    bind.ContractCaller
	parsedABI abi.ABI
	recipes   map[string]Recipe
	log       *logrus.Entry
}

// NewRecipeReader creates a RecipeReader for the given recipes
func NewRecipeReader(caller bind.ContractCaller, recipes map[string]Recipe) (*RecipeReader, error) {
	parsedABI, err := abi.JSON(strings.NewReader(recipesABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipes ABI: %w", err)
	}

	for id, r := range recipes {
		switch r.Kind {
		case KindERC4626, KindYearnVault, KindLidoWstETH:
		default:
			return nil, fmt.Errorf("recipe %s: unsupported kind %q", id, r.Kind)
		}

		if r.Contract == (common.Address{}) {
			return nil, fmt.Errorf("recipe %s: missing contract address", id)
		}
	}

	return &RecipeReader{
		caller:    caller,
		parsedABI: parsedABI,
		recipes:   recipes,
		log:       logger.Component("recipes"),
	}, nil
}

// UnderlyingAmount evaluates recipeID for unitAmount
func (r *RecipeReader) UnderlyingAmount(ctx context.Context, recipeID string, unitAmount *big.Int) (*big.Int, error) {
	recipe, ok := r.recipes[recipeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecipe, recipeID)
	}

	contract := bind.NewBoundContract(recipe.Contract, r.parsedABI, r.caller, nil, nil)
	opts := &bind.CallOpts{Context: ctx}

	var (
		amount *big.Int
		err    error
	)

	switch recipe.Kind {
	case KindERC4626:
		amount, err = callUint(contract, opts, "convertToAssets", unitAmount)
	case KindLidoWstETH:
		amount, err = callUint(contract, opts, "getStETHByWstETH", unitAmount)
	case KindYearnVault:
		var pps *big.Int
		pps, err = callUint(contract, opts, "pricePerShare")
		if err == nil {
			decimals := recipe.Decimals
			if decimals == 0 {
				decimals = 18
			}
			unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
			amount = new(big.Int).Quo(new(big.Int).Mul(unitAmount, pps), unit)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", recipeID, err)
	}

	r.log.WithFields(logrus.Fields{"recipe": recipeID, "unit": unitAmount, "amount": amount}).Debug("🔁 recipe evaluated")

	return amount, nil
}

// callUint calls a view method returning a single uint256
func callUint(contract *bind.BoundContract, opts *bind.CallOpts, method string, params ...any) (*big.Int, error) {
	var out []any
	if err := contract.Call(opts, &out, method, params...); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no data", method)
	}

	v, ok := out[0].(*big.Int)
	if !ok || v == nil {
		return nil, fmt.Errorf("%s returned %T", method, out[0])
	}

	return v, nil
}
