package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/catalogport/plenty-export/internal/config"
	"github.com/catalogport/plenty-export/pkg/cache"
	"github.com/catalogport/plenty-export/pkg/client"
	"github.com/catalogport/plenty-export/pkg/export"
	"github.com/catalogport/plenty-export/pkg/logging"
	"github.com/catalogport/plenty-export/pkg/registry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})
	devLog := logging.NewLogger("export")
	customerLog := logging.NewCustomerLogger(os.Stdout)
	dual := logging.NewDual(customerLog, devLog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clientCfg := client.Config{
		Domain:   cfg.Domain,
		Username: cfg.Username,
		Password: cfg.Password,
		Protocol: cfg.Protocol,
		Timeout:  cfg.Timeout,
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			devLog.Warn().Err(err).Str("addr", cfg.RedisAddr).
				Msg("Redis unavailable, reference data will not be cached")
		} else {
			clientCfg.Cache = cache.NewManager(redisClient)
			clientCfg.CacheTTL = cfg.CacheTTL
			devLog.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
		}
	}

	apiClient, err := client.New(clientCfg)
	if err != nil {
		return err
	}

	wrapper := export.NewMemoryWrapper()
	exporter := export.New(apiClient, wrapper, registry.New(), dual, export.Options{
		Language:        cfg.Language,
		Country:         cfg.Country,
		MultishopID:     cfg.MultishopID,
		AvailabilityIDs: cfg.AvailabilityIDs,
		PriceID:         cfg.PriceID,
		RrpID:           cfg.RrpID,
		ItemsPerPage:    cfg.ItemsPerPage,
	})
	devLog.Info().Str("run", exporter.RunID()).Str("domain", cfg.Domain).Msg("Starting export")

	if err := exporter.Init(ctx); err != nil {
		return err
	}
	results, err := exporter.Run(ctx)
	if err != nil {
		return err
	}

	out, err := os.Create(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return err
	}

	devLog.Info().
		Str("run", exporter.RunID()).
		Str("output", cfg.OutputFile).
		Int("skipped", exporter.SkippedCount()).
		Msg("Export finished")
	return nil
}
