// Package chains provides blockchain interaction implementations
package chains

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/sljivkov/pricegraph/logger"
)

//go:embed abi/chainlink.abi
var chainlinkABI string

// PriceDecimals is the fixed-point scale of every price handed to the graph.
const PriceDecimals = 18

// ErrInvalidAnswer is returned when a feed reports a missing or non-positive price.
var ErrInvalidAnswer = errors.New("invalid price data received from Chainlink")

// ChainlinkPricer implements domain.OracleReader using Chainlink AggregatorV3 feeds
type ChainlinkPricer struct {
	caller    bind.ContractCaller
	parsedABI abi.ABI
	log       *logrus.Entry

	mu       sync.Mutex
	decimals map[common.Address]uint8
}

// NewChainlinkPricer creates a new instance of ChainlinkPricer
func NewChainlinkPricer(caller bind.ContractCaller) (*ChainlinkPricer, error) {
	parsedABI, err := abi.JSON(strings.NewReader(chainlinkABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Chainlink ABI: %w", err)
	}

	return &ChainlinkPricer{
		caller:    caller,
		parsedABI: parsedABI,
		log:       logger.Component("chainlink"),
		decimals:  make(map[common.Address]uint8),
	}, nil
}

// LatestPrice fetches the latest answer of the feed at oracle, scaled to 18 decimals
func (r *ChainlinkPricer) LatestPrice(ctx context.Context, oracle common.Address) (*big.Int, error) {
	contract := bind.NewBoundContract(oracle, r.parsedABI, r.caller, nil, nil)

	decimals, err := r.feedDecimals(ctx, oracle, contract)
	if err != nil {
		return nil, err
	}

	var out []any
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "latestRoundData"); err != nil {
		return nil, fmt.Errorf("failed to fetch Chainlink price data: %w", err)
	}

	if len(out) < 2 {
		return nil, ErrInvalidAnswer
	}

	answer, ok := out[1].(*big.Int)
	if !ok || answer == nil || answer.Sign() <= 0 {
		return nil, ErrInvalidAnswer
	}

	price := ScaleDecimals(answer, decimals, PriceDecimals)
	r.log.WithFields(logrus.Fields{"oracle": oracle.Hex(), "price": price}).Debug("🔗 Chainlink answer")

	return price, nil
}

// feedDecimals returns the feed's decimals, reading them once per feed
func (r *ChainlinkPricer) feedDecimals(ctx context.Context, oracle common.Address, contract *bind.BoundContract) (uint8, error) {
	r.mu.Lock()
	d, ok := r.decimals[oracle]
	r.mu.Unlock()

	if ok {
		return d, nil
	}

	var out []any
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "decimals"); err != nil {
		return 0, fmt.Errorf("failed to fetch Chainlink decimals: %w", err)
	}

	if len(out) == 0 {
		return 0, ErrInvalidAnswer
	}

	d, ok = out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T", out[0])
	}

	r.mu.Lock()
	r.decimals[oracle] = d
	r.mu.Unlock()

	return d, nil
}

// ScaleDecimals rescales v from one number of decimals to another, truncating toward
// zero when precision is dropped
func ScaleDecimals(v *big.Int, from, to uint8) *big.Int {
	switch {
	case from == to:
		return new(big.Int).Set(v)
	case from < to:
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(to-from)), nil)
		return new(big.Int).Mul(v, factor)
	default:
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(from-to)), nil)
		return new(big.Int).Quo(v, factor)
	}
}
