package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bizops/config"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("会话不存在")

// Client Redis 客户端封装
// 用于服务端会话存储与登录限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))
	return &Client{rdb: rdb, logger: logger}, nil
}

// NewFromGoRedis 包装已有的 go-redis 客户端
func NewFromGoRedis(rdb *goredis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// ── 会话存储 ──

const sessionPrefix = "session:"

// SaveSession 保存会话，值为用户 ID，TTL 与会话有效期一致
func (c *Client) SaveSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("会话 TTL 必须大于 0")
	}
	return c.rdb.Set(ctx, sessionPrefix+sessionID, userID, ttl).Err()
}

// GetSession 读取会话对应的用户 ID
func (c *Client) GetSession(ctx context.Context, sessionID string) (string, error) {
	userID, err := c.rdb.Get(ctx, sessionPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return userID, nil
}

// DeleteSession 删除会话（幂等）
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, sessionPrefix+sessionID).Err()
}

// ── 限流 ──

// CheckRateLimit 滑动窗口限流：窗口内请求数不超过 limit 时返回 true
// 基于 ZSET，score 为请求时间戳（纳秒）
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10)
	windowStart := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	var card *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "0", windowStart)
		pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: member})
		card = pipe.ZCard(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		c.logger.Warn("限流检查失败", zap.String("key", key), zap.Error(err))
		return false, err
	}

	return card.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
