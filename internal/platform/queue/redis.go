package queue

import (
	"codecourse/internal/platform/config"
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var RDB *redis.Client

func ConnectRedis(logger zerolog.Logger) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not connect to Redis")
	}
	logger.Info().Str("addr", config.AppConfig.RedisAddr).Msg("Successfully connected to Redis")
}

func CloseRedis(logger zerolog.Logger) {
	if RDB != nil {
		RDB.Close()
		logger.Info().Msg("Redis connection closed")
	}
}
