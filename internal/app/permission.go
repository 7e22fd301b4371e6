package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"permission-engine/internal/cache"
	"permission-engine/internal/config"
	"permission-engine/internal/engine"
	"permission-engine/internal/messaging/notifier"
	"permission-engine/internal/repository"
)

func Run(cfg *config.Config, logger *zap.SugaredLogger) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	wg := &sync.WaitGroup{}

	// The repository and notifier shut down after everything that uses them.
	delayedCtx, delayedCancel := context.WithCancel(context.Background())
	delayedWg := &sync.WaitGroup{}

	repo, err := repository.NewMongoRepository(delayedCtx, logger, delayedWg, cfg.MongoDB)
	if err != nil {
		logger.Fatalw("failed to create repository", "error", err)
	}

	notif := notifier.NewKafkaNotifier(delayedCtx, delayedWg, logger, cfg.Kafka)

	resCache := cache.NewResolutionCache(cfg.CacheTTL)

	eng, err := engine.New(ctx, logger, repo, notif, resCache)
	if err != nil {
		logger.Fatalw("failed to create permission engine", "error", err)
	}

	resCache.RunSweeper(ctx, wg, logger, cfg.CacheSweepInterval)
	eng.Catalog.RunRediscovery(ctx, wg, cfg.CatalogRediscoveryInterval)

	logger.Infow("permission engine running")

	wg.Wait()
	logger.Info("shutting down")

	logger.Info("shutting down delayed services")
	delayedCancel()
	delayedWg.Wait()
}
