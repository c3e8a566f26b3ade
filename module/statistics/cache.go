package statistics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"

	"Dext-Stats/model"
	"Dext-Stats/utils"
)

const cacheKeyPrefix = "stats:report:"

// ReportCache 报告缓存
type ReportCache interface {
	Get(ctx context.Context, key string) (*model.Report, bool, error)
	Set(ctx context.Context, key string, report *model.Report) error
	Purge(ctx context.Context) (int, error)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache client 为 nil 时返回 nil，表示不缓存
func NewRedisCache(client *redis.Client, ttl time.Duration) ReportCache {
	if client == nil {
		return nil
	}
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string) (*model.Report, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	report := model.NewReport()
	if err := report.UnmarshalJSON(data); err != nil {
		return nil, false, err
	}
	return report, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Purge 删除全部报告缓存，返回删除的键数
func (c *redisCache) Purge(ctx context.Context) (int, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := c.client.Del(ctx, keys...).Result()
	return int(n), err
}

// CacheKey 对请求做归一化后取哈希，ID 和名单的顺序不影响结果
func CacheKey(req model.StatisticsRequest, language string) string {
	ids := utils.UniqueIDs(req.RespondentIDs)
	sort.Ints(ids)
	include := append([]string(nil), req.Include...)
	sort.Strings(include)
	exclude := append([]string(nil), req.Exclude...)
	sort.Strings(exclude)

	normalized := struct {
		SurveyID        int      `json:"s"`
		RespondentIDs   []int    `json:"r"`
		Language        string   `json:"l"`
		Include         []string `json:"i"`
		Exclude         []string `json:"e"`
		DefinitionsOnly bool     `json:"d"`
		Cutoff          int      `json:"c"`
		StripMarkup     bool     `json:"m"`
	}{
		SurveyID:        req.SurveyID,
		RespondentIDs:   ids,
		Language:        language,
		Include:         include,
		Exclude:         exclude,
		DefinitionsOnly: req.DefinitionsOnly,
		Cutoff:          req.Cutoff,
		StripMarkup:     req.ShouldStripMarkup(),
	}

	data, _ := json.Marshal(normalized)
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
