package chains

import (
	"context"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"

	"github.com/sljivkov/pricegraph/logger"
)

// Dial connects to the RPC endpoint and logs the chain it serves
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}

	logger.Component("chains").WithField("chain_id", chainID).Info("⛓️ connected to rpc")

	return client, nil
}

// LimitedCaller is a bind.ContractCaller that waits on a rate limiter before every
// RPC, so all pollers together stay within the provider's request budget
type LimitedCaller struct {
	next    bind.ContractCaller
	limiter *rate.Limiter
}

var _ bind.ContractCaller = (*LimitedCaller)(nil)

// NewLimitedCaller allows perSecond calls per second with the given burst
func NewLimitedCaller(next bind.ContractCaller, perSecond float64, burst int) *LimitedCaller {
	if burst < 1 {
		burst = 1
	}

	return &LimitedCaller{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// CodeAt implements bind.ContractCaller
func (c *LimitedCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return c.next.CodeAt(ctx, contract, blockNumber)
}

// CallContract implements bind.ContractCaller
func (c *LimitedCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return c.next.CallContract(ctx, call, blockNumber)
}
