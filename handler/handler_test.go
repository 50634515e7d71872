package handler

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sljivkov/pricegraph/assets"
	"github.com/sljivkov/pricegraph/obs"
	"github.com/sljivkov/pricegraph/pricefeed"
)

type boardStub struct {
	ready chan struct{}
	snap  []pricefeed.Price
}

func (b *boardStub) Ready() <-chan struct{}      { return b.ready }
func (b *boardStub) Snapshot() []pricefeed.Price { return b.snap }

type resolverStub map[common.Address]pricefeed.PriceObs

func (r resolverStub) Resolve(asset common.Address) (pricefeed.PriceObs, error) {
	if asset == common.HexToAddress("0xbad") {
		return nil, errors.New("boom")
	}
	return r[asset], nil
}

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), pricefeed.Pow10(18))
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	return r
}

func do(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)

	return w
}

func TestHealth(t *testing.T) {
	r := newRouter(New(&boardStub{}, resolverStub{}, 2))

	w := do(t, r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetAllPrices(t *testing.T) {
	ready := make(chan struct{})
	close(ready)

	board := &boardStub{ready: ready, snap: []pricefeed.Price{
		{Asset: assets.DAI, Symbol: "DAI", USD: big.NewInt(999_900000000000000)},
		{Asset: assets.YvDAI, Symbol: "yvDAI"},
	}}
	r := newRouter(New(board, resolverStub{}, 2))

	w := do(t, r, "/prices")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Prices []priceView `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Prices, 2)

	assert.Equal(t, "DAI", body.Prices[0].Symbol)
	require.NotNil(t, body.Prices[0].USD)
	assert.Equal(t, "0.99", *body.Prices[0].USD)
	assert.True(t, body.Prices[0].Known)

	assert.Equal(t, assets.YvDAI.Hex(), body.Prices[1].Asset)
	assert.Nil(t, body.Prices[1].USD)
	assert.False(t, body.Prices[1].Known)
}

func TestGetAllPrices_NotReady(t *testing.T) {
	h := New(&boardStub{ready: make(chan struct{})}, resolverStub{}, 2)
	h.readyTimeout = 10 * time.Millisecond

	w := do(t, newRouter(h), "/prices")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetPrice(t *testing.T) {
	resolver := resolverStub{
		assets.WstETH: obs.NewSourceWith(e18(2016)),
		assets.YvDAI:  obs.NewSource[*big.Int](),
	}
	r := newRouter(New(&boardStub{}, resolver, 2))

	tests := []struct {
		name   string
		path   string
		code   int
		symbol string
		usd    string
	}{
		{name: "by symbol", path: "/prices/wstETH", code: http.StatusOK, symbol: "wstETH", usd: "2016.00"},
		{name: "by address", path: "/prices/" + assets.WstETH.Hex(), code: http.StatusOK, symbol: "wstETH", usd: "2016.00"},
		{name: "unresolved", path: "/prices/yvDAI", code: http.StatusOK, symbol: "yvDAI"},
		{name: "unregistered", path: "/prices/0x000000000000000000000000000000000000dEaD", code: http.StatusOK, symbol: "0x000000000000000000000000000000000000dEaD"},
		{name: "unparseable", path: "/prices/doge", code: http.StatusBadRequest},
		{name: "resolve error", path: "/prices/0x0000000000000000000000000000000000000bad", code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, tt.path)
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.code != http.StatusOK {
				return
			}

			var pv priceView
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pv))
			assert.Equal(t, tt.symbol, pv.Symbol)

			if tt.usd == "" {
				assert.Nil(t, pv.USD)
				assert.False(t, pv.Known)
				return
			}
			require.NotNil(t, pv.USD)
			assert.Equal(t, tt.usd, *pv.USD)
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	r := newRouter(New(&boardStub{}, resolverStub{}, 2))

	w := do(t, r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pricegraph_known_prices")
}
