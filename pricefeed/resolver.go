package pricefeed

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Resolver memoizes one price cell per asset, so every consumer of an asset, and
// every derived asset built on top of it, shares the same node.
type Resolver struct {
	builder *Builder

	mu    sync.Mutex
	cells map[common.Address]PriceObs
}

// NewResolver creates a Resolver backed by builder.
func NewResolver(builder *Builder) *Resolver {
	return &Resolver{
		builder: builder,
		cells:   make(map[common.Address]PriceObs),
	}
}

// Resolve returns the price cell for asset, building it on first use. A nil cell with
// a nil error means the asset has no price. That outcome is not memoized: it creates no
// poller, and the asset may come from user input.
func (r *Resolver) Resolve(asset common.Address) (PriceObs, error) {
	r.mu.Lock()
	cell, ok := r.cells[asset]
	r.mu.Unlock()

	if ok {
		return cell, nil
	}

	// Built without the lock: building recurses into Resolve for underlying assets.
	cell, err := r.builder.Build(asset, r.Resolve)
	if err != nil || cell == nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have won the race; keep the first cell so identity is stable.
	// The loser holds no subscriptions, so dropping it releases nothing.
	if existing, ok := r.cells[asset]; ok {
		return existing, nil
	}

	r.cells[asset] = cell

	return cell, nil
}

// Len returns the number of memoized assets.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.cells)
}
