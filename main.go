package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/sljivkov/pricegraph/assets"
	"github.com/sljivkov/pricegraph/chains"
	"github.com/sljivkov/pricegraph/config"
	"github.com/sljivkov/pricegraph/handler"
	"github.com/sljivkov/pricegraph/logger"
	"github.com/sljivkov/pricegraph/pollercache"
	"github.com/sljivkov/pricegraph/pricefeed"
)

const shutdownTimeout = 5 * time.Second

func main() {
	log := logger.GetLogger()

	var opts []config.Option
	if _, err := os.Stat(".env"); err == nil {
		opts = append(opts, config.WithEnvFile(".env"))
	}

	cfg, err := config.NewConfig(opts...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.SetLogger(logger.New(cfg.LogLevel, cfg.LogFormat))
	log = logger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chains.Dial(ctx, cfg.RPCURL)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	caller := chains.NewLimitedCaller(client, cfg.RPCRateLimit, cfg.RPCBurst)

	pricer, err := chains.NewChainlinkPricer(caller)
	if err != nil {
		log.Fatalf("failed to create chainlink pricer: %v", err)
	}

	recipes, err := chains.NewRecipeReader(caller, assets.DefaultRecipes())
	if err != nil {
		log.Fatalf("failed to create recipe reader: %v", err)
	}

	chainlink := pollercache.NewChainlinkCache(pricer, cfg.OraclePollInterval)
	defer chainlink.Close()

	underlying := pollercache.NewUnderlyingAmountCache(recipes, cfg.UnderlyingPollInterval)
	defer underlying.Close()

	builder, err := pricefeed.NewBuilder(assets.DefaultRegistry(), assets.DefaultRoutes(), chainlink, underlying)
	if err != nil {
		log.Fatalf("invalid derivation routes: %v", err)
	}
	resolver := pricefeed.NewResolver(builder)

	watched, err := watchedAssets(cfg.AssetList())
	if err != nil {
		log.Fatalf("invalid asset list: %v", err)
	}

	board, err := pricefeed.NewBoard(resolver.Resolve, watched)
	if err != nil {
		log.Fatalf("failed to build price board: %v", err)
	}
	defer board.Close()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.New(board, resolver, cfg.Precision).RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", cfg.HTTPAddr).Info("🌐 starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorf("server stopped: %v", err)
	}

	log.Info("👋 shutting down")
}

// watchedAssets maps configured symbols or addresses to assets, all known assets
// when none are configured.
func watchedAssets(names []string) ([]pricefeed.Asset, error) {
	if len(names) == 0 {
		return assets.Known, nil
	}

	out := make([]pricefeed.Asset, 0, len(names))
	for _, name := range names {
		a, ok := assets.Lookup(name)
		if !ok {
			return nil, errors.New("unknown asset " + name)
		}
		out = append(out, a)
	}

	return out, nil
}
