package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/MatthieuHAMEL/swapi-search/pkg/cache"
	"github.com/MatthieuHAMEL/swapi-search/pkg/logging"
	"github.com/MatthieuHAMEL/swapi-search/pkg/ratelimit"
	"github.com/MatthieuHAMEL/swapi-search/pkg/search"
	"github.com/MatthieuHAMEL/swapi-search/pkg/swapi"
)

func main() {
	// Configuration from environment
	target := getEnv("TARGET", "")
	if len(os.Args) > 1 {
		target = os.Args[1]
	}
	baseURL := getEnv("SWAPI_URL", swapi.DefaultBaseURL)
	redisURL := getEnv("REDIS_URL", "")
	userAgent := getEnv("USER_AGENT", "swapi-search/0.1.0")
	metricsAddr := getEnv("METRICS_ADDR", "")
	maxConcurrency := getEnvInt("MAX_CONCURRENCY", 5)
	timeoutSeconds := getEnvInt("SEARCH_TIMEOUT_SECONDS", 60)

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") != "",
		Output: os.Stderr,
	})

	if target == "" {
		logger.Fatal().Msg("No search target: pass a starship name as argument or set TARGET")
	}

	// Optional metrics endpoint
	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info().Str("addr", metricsAddr).Msg("Serving metrics")
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	// Optional Redis page cache
	var pageCache *cache.Manager
	if redisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisURL})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", redisURL).Msg("Redis unreachable, caching disabled")
		} else {
			pageCache = cache.NewManager(redisClient, cache.DefaultTTL)
			logger.Info().Str("addr", redisURL).Msg("Connected to Redis")
		}
		defer redisClient.Close()
	}

	clientCfg := swapi.DefaultConfig(userAgent)
	clientCfg.BaseURL = baseURL
	clientCfg.Cache = pageCache
	clientCfg.Limiter = ratelimit.New(float64(getEnvInt("RATE_LIMIT_RPS", 10)), maxConcurrency)

	client, err := swapi.New(clientCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create SWAPI client")
	}

	finder, err := search.NewFinder(client, search.Config{
		MaxConcurrency: maxConcurrency,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create finder")
	}

	rating, err := finder.Find(ctx, target)
	if err != nil {
		fmt.Printf("Starship %q not found\n", target)
		os.Exit(1)
	}

	fmt.Printf("Found %q with hyperdrive_rating = %s\n", target, rating)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}
