package config

import (
	"context"

	"github.com/go-redis/redis/v8"
)

var RedisClient *redis.Client

// InitRedis 未启用时 RedisClient 保持 nil，报告缓存随之关闭
func InitRedis(cfg RedisSettings) error {
	if !cfg.Enabled {
		return nil
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return RedisClient.Ping(context.Background()).Err()
}
