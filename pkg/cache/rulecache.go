// pkg/cache/rulecache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"HomeRadar/pkg/metrics"
	"HomeRadar/pkg/model"
)

// 规则缓存键前缀
const ruleCacheKeyPrefix = "alert_rules:"

// 缓存载荷的结构版本，解码时校验，防止版本漂移导致字段错读
const ruleCacheVersion = 1

// RuleFinder 规则的持久化查询能力
type RuleFinder interface {
	FindRulesByMetric(ctx context.Context, metricID string) ([]model.AlertRule, error)
}

// cachedRules 缓存中的规则载荷，带版本号的显式结构
type cachedRules struct {
	Version int               `json:"version"`
	Rules   []model.AlertRule `json:"rules"`
}

// RuleCache 指标告警规则的读穿缓存
// 规则集相对读数接入频率变化极少，短TTL在不接显式失效通知的前提下约束了过期窗口
type RuleCache struct {
	store Store
	db    RuleFinder
	ttl   time.Duration
	log   zerolog.Logger
}

// NewRuleCache 创建规则缓存
func NewRuleCache(store Store, db RuleFinder, ttl time.Duration, log zerolog.Logger) *RuleCache {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &RuleCache{
		store: store,
		db:    db,
		ttl:   ttl,
		log:   log,
	}
}

// GetRules 返回指标下的告警规则，优先读缓存，未命中回源并回填
// 缓存读写失败都不影响结果：读失败按未命中处理，写失败只记日志
func (c *RuleCache) GetRules(ctx context.Context, metricID string) ([]model.AlertRule, error) {
	key := ruleCacheKeyPrefix + metricID

	// 读缓存，任何失败都降级为未命中
	if data, err := c.store.Get(ctx, key); err == nil {
		var payload cachedRules
		if err := json.Unmarshal(data, &payload); err == nil && payload.Version == ruleCacheVersion {
			metrics.RuleCacheHits.Inc()
			return payload.Rules, nil
		}
		c.log.Warn().Str("key", key).Msg("缓存载荷解码失败，按未命中处理")
	} else if err != ErrCacheMiss {
		c.log.Warn().Err(err).Str("key", key).Msg("读取规则缓存失败，回源查询")
	}
	metrics.RuleCacheMisses.Inc()

	// 回源持久化存储
	rules, err := c.db.FindRulesByMetric(ctx, metricID)
	if err != nil {
		return nil, fmt.Errorf("回源查询规则失败: %w", err)
	}

	// 尽力回填缓存，失败不向上传播
	payload := cachedRules{Version: ruleCacheVersion, Rules: rules}
	if data, err := json.Marshal(payload); err == nil {
		if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("回填规则缓存失败")
		}
	}

	return rules, nil
}
