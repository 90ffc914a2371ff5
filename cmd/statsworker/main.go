package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/db"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/creator-marketplace/backend/internal/socialstats"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	creatorRepo := repositories.NewCreatorRepo(pool)
	parser := socialstats.NewParser(cfg.StatsFetchTimeoutMS, cfg.StatsFetchMaxRetries, log)

	log.Info("stats worker started", zap.Duration("interval", cfg.StatsRefreshInterval))

	// Initial run
	runStatsRefresh(ctx, creatorRepo, parser, rdb, cfg, log)

	ticker := time.NewTicker(cfg.StatsRefreshInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runStatsRefresh(ctx, creatorRepo, parser, rdb, cfg, log)
		case <-sigCh:
			log.Info("shutting down stats worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runStatsRefresh(
	ctx context.Context,
	creatorRepo *repositories.CreatorRepo,
	parser *socialstats.Parser,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) {
	creators, err := creatorRepo.ListWithProfileURL(ctx)
	if err != nil {
		log.Error("failed to list creators", zap.Error(err))
		return
	}

	log.Info("refreshing creator stats", zap.Int("creators", len(creators)))

	for _, creator := range creators {
		if creator.ProfileURL == nil {
			continue
		}

		// Rate limit check
		rlKey := fmt.Sprintf("rl:stats:%s", creator.ID)
		if rdb.Exists(ctx, rlKey).Val() > 0 {
			continue
		}
		rdb.Set(ctx, rlKey, "1", cfg.StatsRefreshInterval)

		// Check cache
		cacheKey := fmt.Sprintf("stats:%s", creator.ID)
		if rdb.Exists(ctx, cacheKey).Val() > 0 {
			continue
		}

		stats, err := parser.FetchAndParse(ctx, *creator.ProfileURL)
		if err != nil {
			log.Warn("profile stats fetch failed",
				zap.String("creator", creator.ID.String()),
				zap.String("profile_url", *creator.ProfileURL),
				zap.Error(err),
			)
			continue
		}

		snapshot := &models.CreatorStatsSnapshot{
			CreatorID:      creator.ID,
			Followers:      stats.Followers,
			Posts:          stats.Posts,
			AvgLikes:       stats.AvgLikes,
			EngagementRate: stats.EngagementRate(),
			Source:         "profile_parser",
		}

		if err := creatorRepo.InsertStatsSnapshot(ctx, snapshot); err != nil {
			log.Error("failed to save stats snapshot", zap.String("creator", creator.ID.String()), zap.Error(err))
			continue
		}

		// Keep the live profile row in sync so matching uses fresh numbers.
		if stats.Followers != nil {
			er := creator.EngagementRate
			if rate := stats.EngagementRate(); rate != nil {
				er = *rate
			}
			if err := creatorRepo.UpdateStats(ctx, creator.ID, *stats.Followers, er); err != nil {
				log.Error("failed to update creator profile stats", zap.String("creator", creator.ID.String()), zap.Error(err))
			}
		}

		// Cache
		cacheData, _ := json.Marshal(snapshot)
		rdb.Set(ctx, cacheKey, string(cacheData), cfg.StatsRefreshInterval)

		log.Info("stats updated",
			zap.String("creator", creator.ID.String()),
			zap.Intp("followers", snapshot.Followers),
		)

		// Small delay between requests to avoid rate limiting
		time.Sleep(2 * time.Second)
	}
}
