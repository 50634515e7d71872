// Package handler serves the price board and on-demand price lookups over HTTP.
package handler

import (
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/sljivkov/pricegraph/assets"
	"github.com/sljivkov/pricegraph/metrics"
	"github.com/sljivkov/pricegraph/pricefeed"
)

const defaultReadyTimeout = 3 * time.Second

// Board is the live view behind /prices.
type Board interface {
	Ready() <-chan struct{}
	Snapshot() []pricefeed.Price
}

// Resolver builds or returns the price cell of an asset.
type Resolver interface {
	Resolve(asset common.Address) (pricefeed.PriceObs, error)
}

// Handler serves prices from a Board and a Resolver.
type Handler struct {
	board        Board
	resolver     Resolver
	precision    int32
	readyTimeout time.Duration
}

// New creates a Handler rendering prices with precision decimal places.
func New(board Board, resolver Resolver, precision int32) *Handler {
	return &Handler{
		board:        board,
		resolver:     resolver,
		precision:    precision,
		readyTimeout: defaultReadyTimeout,
	}
}

// RegisterRoutes mounts the price, health and metrics routes on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/prices", h.GetAllPrices)
	r.GET("/prices/:asset", h.GetPrice)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// priceView is the JSON shape of one price. USD is null while unknown.
type priceView struct {
	Asset  string  `json:"asset"`
	Symbol string  `json:"symbol"`
	USD    *string `json:"usd"`
	Known  bool    `json:"known"`
}

func (h *Handler) view(asset common.Address, symbol string, v *big.Int) priceView {
	pv := priceView{Asset: asset.Hex(), Symbol: symbol, Known: v != nil}
	if v != nil {
		s := pricefeed.Format(v, h.precision)
		pv.USD = &s
	}

	return pv
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetAllPrices returns the board snapshot once the first price is known.
func (h *Handler) GetAllPrices(c *gin.Context) {
	select {
	case <-h.board.Ready():
	case <-time.After(h.readyTimeout):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "prices not ready"})
		return
	case <-c.Request.Context().Done():
		return
	}

	snapshot := h.board.Snapshot()
	out := make([]priceView, 0, len(snapshot))
	for _, p := range snapshot {
		out = append(out, h.view(p.Asset, p.Symbol, p.USD))
	}

	c.JSON(http.StatusOK, gin.H{"prices": out})
}

// GetPrice returns the current price of one asset, given by symbol or address.
func (h *Handler) GetPrice(c *gin.Context) {
	asset, ok := assets.Lookup(c.Param("asset"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown asset: " + c.Param("asset")})
		return
	}

	cell, err := h.resolver.Resolve(asset.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var v *big.Int
	if cell != nil {
		v = cell.Value()
	}

	c.JSON(http.StatusOK, h.view(asset.Address, asset.Symbol, v))
}
