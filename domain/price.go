// Package domain defines the collaborator interfaces the price graph depends on
package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// OracleReader reads USD prices from on-chain oracles
type OracleReader interface {
	// LatestPrice returns the latest USD price reported by the oracle at the given
	// address, normalized to 18 decimals
	LatestPrice(ctx context.Context, oracle common.Address) (*big.Int, error)
}

// UnderlyingAmountReader evaluates conversion recipes on-chain
type UnderlyingAmountReader interface {
	// UnderlyingAmount returns how much of the underlying asset unitAmount of the
	// derived asset is worth, according to the named recipe
	UnderlyingAmount(ctx context.Context, recipeID string, unitAmount *big.Int) (*big.Int, error)
}

// OracleRegistry maps assets to their USD oracle
type OracleRegistry interface {
	// OracleFor returns the USD oracle registered for asset, if any
	OracleFor(asset common.Address) (common.Address, bool)
}
