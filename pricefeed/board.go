package pricefeed

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/sljivkov/pricegraph/logger"
	"github.com/sljivkov/pricegraph/metrics"
)

// Asset names an asset to watch
type Asset struct {
	Address common.Address
	Symbol  string
}

// Board keeps a live subscription to the price of each watched asset and remembers
// the latest value, so the graph stays attached and readers get a consistent view
type Board struct {
	assets []Asset
	log    *logrus.Entry

	mu      sync.RWMutex
	prices  map[common.Address]*big.Int
	unsubs  []func()
	readyCh chan struct{}
	once    sync.Once
}

// NewBoard subscribes to every asset's price through resolve. Assets without a price
// are kept on the board as unknown.
func NewBoard(resolve ResolveFunc, assets []Asset) (*Board, error) {
	b := &Board{
		assets:  assets,
		log:     logger.Component("board"),
		prices:  make(map[common.Address]*big.Int),
		readyCh: make(chan struct{}),
	}

	for _, a := range assets {
		cell, err := resolve(a.Address)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("watch %s: %w", a.Symbol, err)
		}

		if cell == nil {
			b.log.WithField("asset", a.Symbol).Warn("⚠️ no price source for asset")
			continue
		}

		asset := a
		unsub := cell.Subscribe(func(v *big.Int) {
			b.update(asset, v)
		})

		b.mu.Lock()
		b.unsubs = append(b.unsubs, unsub)
		b.mu.Unlock()
	}

	return b, nil
}

func (b *Board) update(a Asset, v *big.Int) {
	b.mu.Lock()
	b.prices[a.Address] = v
	known := 0
	for _, p := range b.prices {
		if p != nil {
			known++
		}
	}
	b.mu.Unlock()

	metrics.KnownPrices.Set(float64(known))

	if v == nil {
		b.log.WithField("asset", a.Symbol).Debug("❔ price unknown")
		return
	}

	b.log.WithFields(logrus.Fields{"asset": a.Symbol, "usd": Format(v, 2)}).Info("📥 price update")
	b.once.Do(func() { close(b.readyCh) })
}

// Ready is closed once the first price is known
func (b *Board) Ready() <-chan struct{} {
	return b.readyCh
}

// Snapshot returns the watched assets with their latest prices, in board order
func (b *Board) Snapshot() []Price {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Price, 0, len(b.assets))
	for _, a := range b.assets {
		out = append(out, Price{Asset: a.Address, Symbol: a.Symbol, USD: b.prices[a.Address]})
	}

	return out
}

// Close drops every subscription, letting derived nodes detach from their pollers
func (b *Board) Close() {
	b.mu.Lock()
	unsubs := b.unsubs
	b.unsubs = nil
	b.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}
