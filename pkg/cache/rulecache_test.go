package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"HomeRadar/pkg/model"
)

// fakeTTLStore 带可拨动时钟的内存TTL存储
type fakeTTLStore struct {
	entries map[string]fakeEntry
	now     time.Time
	getErr  error
	setErr  error
	sets    int
	gets    int
}

type fakeEntry struct {
	data      []byte
	expiresAt time.Time
}

func newFakeTTLStore() *fakeTTLStore {
	return &fakeTTLStore{
		entries: make(map[string]fakeEntry),
		now:     time.Now(),
	}
}

func (f *fakeTTLStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	entry, ok := f.entries[key]
	if !ok || f.now.After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.data, nil
}

func (f *fakeTTLStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = fakeEntry{data: value, expiresAt: f.now.Add(ttl)}
	return nil
}

// fakeRuleFinder 统计回源次数的规则查询假实现
type fakeRuleFinder struct {
	rules []model.AlertRule
	err   error
	calls int
}

func (f *fakeRuleFinder) FindRulesByMetric(ctx context.Context, metricID string) ([]model.AlertRule, error) {
	f.calls++
	return f.rules, f.err
}

func sampleRules() []model.AlertRule {
	return []model.AlertRule{
		{ID: "r1", MetricID: "m1", Condition: model.OperatorGT, Threshold: 30, Level: model.SeverityCritical},
		{ID: "r2", MetricID: "m1", Condition: model.OperatorLT, Threshold: 5, Level: model.SeverityWarning},
	}
}

func TestRuleCacheMissThenHit(t *testing.T) {
	store := newFakeTTLStore()
	finder := &fakeRuleFinder{rules: sampleRules()}
	c := NewRuleCache(store, finder, 300*time.Second, zerolog.Nop())

	// 首次调用：回源一次并回填一次
	rules, err := c.GetRules(context.Background(), "m1")
	if err != nil {
		t.Fatalf("GetRules返回错误: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("期望2条规则，实际 %d", len(rules))
	}
	if finder.calls != 1 {
		t.Errorf("期望回源1次，实际 %d", finder.calls)
	}
	if store.sets != 1 {
		t.Errorf("期望回填缓存1次，实际 %d", store.sets)
	}

	// TTL内再次调用：命中缓存，不再回源
	rules, err = c.GetRules(context.Background(), "m1")
	if err != nil {
		t.Fatalf("GetRules返回错误: %v", err)
	}
	if len(rules) != 2 || rules[0].ID != "r1" || rules[1].ID != "r2" {
		t.Errorf("缓存命中应返回原有规则顺序: %+v", rules)
	}
	if finder.calls != 1 {
		t.Errorf("TTL内不应回源，实际回源 %d 次", finder.calls)
	}
}

func TestRuleCacheExpiresAfterTTL(t *testing.T) {
	store := newFakeTTLStore()
	finder := &fakeRuleFinder{rules: sampleRules()}
	c := NewRuleCache(store, finder, 300*time.Second, zerolog.Nop())

	if _, err := c.GetRules(context.Background(), "m1"); err != nil {
		t.Fatalf("GetRules返回错误: %v", err)
	}

	// 时钟拨过TTL后应表现为全新未命中
	store.now = store.now.Add(301 * time.Second)

	if _, err := c.GetRules(context.Background(), "m1"); err != nil {
		t.Fatalf("GetRules返回错误: %v", err)
	}
	if finder.calls != 2 {
		t.Errorf("TTL过期后应再次回源，实际回源 %d 次", finder.calls)
	}
	if store.sets != 2 {
		t.Errorf("TTL过期后应再次回填，实际回填 %d 次", store.sets)
	}
}

func TestRuleCacheReadFailureFallsThrough(t *testing.T) {
	store := newFakeTTLStore()
	store.getErr = errors.New("缓存不可达")
	finder := &fakeRuleFinder{rules: sampleRules()}
	c := NewRuleCache(store, finder, 300*time.Second, zerolog.Nop())

	rules, err := c.GetRules(context.Background(), "m1")
	if err != nil {
		t.Fatalf("缓存读失败不应向上传播: %v", err)
	}
	if len(rules) != 2 {
		t.Errorf("应回源返回规则，实际 %d 条", len(rules))
	}
	if finder.calls != 1 {
		t.Errorf("期望回源1次，实际 %d", finder.calls)
	}
}

func TestRuleCacheWriteFailureIsSilent(t *testing.T) {
	store := newFakeTTLStore()
	store.setErr = errors.New("缓存不可达")
	finder := &fakeRuleFinder{rules: sampleRules()}
	c := NewRuleCache(store, finder, 300*time.Second, zerolog.Nop())

	rules, err := c.GetRules(context.Background(), "m1")
	if err != nil {
		t.Fatalf("回填失败不应向上传播: %v", err)
	}
	if len(rules) != 2 {
		t.Errorf("调用方仍应拿到回源结果，实际 %d 条", len(rules))
	}
}

func TestRuleCacheCorruptPayloadTreatedAsMiss(t *testing.T) {
	store := newFakeTTLStore()
	store.entries["alert_rules:m1"] = fakeEntry{
		data:      []byte("not json"),
		expiresAt: store.now.Add(time.Hour),
	}
	finder := &fakeRuleFinder{rules: sampleRules()}
	c := NewRuleCache(store, finder, 300*time.Second, zerolog.Nop())

	rules, err := c.GetRules(context.Background(), "m1")
	if err != nil {
		t.Fatalf("损坏载荷应按未命中处理: %v", err)
	}
	if len(rules) != 2 {
		t.Errorf("应回源返回规则，实际 %d 条", len(rules))
	}
	if finder.calls != 1 {
		t.Errorf("期望回源1次，实际 %d", finder.calls)
	}
}

func TestRuleCacheVersionSkewTreatedAsMiss(t *testing.T) {
	store := newFakeTTLStore()
	store.entries["alert_rules:m1"] = fakeEntry{
		data:      []byte(`{"version":99,"rules":[]}`),
		expiresAt: store.now.Add(time.Hour),
	}
	finder := &fakeRuleFinder{rules: sampleRules()}
	c := NewRuleCache(store, finder, 300*time.Second, zerolog.Nop())

	rules, err := c.GetRules(context.Background(), "m1")
	if err != nil {
		t.Fatalf("版本漂移应按未命中处理: %v", err)
	}
	if len(rules) != 2 {
		t.Errorf("应回源返回规则，实际 %d 条", len(rules))
	}
}

func TestRuleCacheStoreErrorPropagates(t *testing.T) {
	store := newFakeTTLStore()
	finder := &fakeRuleFinder{err: errors.New("数据库不可用")}
	c := NewRuleCache(store, finder, 300*time.Second, zerolog.Nop())

	if _, err := c.GetRules(context.Background(), "m1"); err == nil {
		t.Fatal("持久化存储失败时应返回错误")
	}
}

func TestRuleCacheEmptyRuleSetIsCached(t *testing.T) {
	store := newFakeTTLStore()
	finder := &fakeRuleFinder{rules: nil}
	c := NewRuleCache(store, finder, 300*time.Second, zerolog.Nop())

	if _, err := c.GetRules(context.Background(), "m1"); err != nil {
		t.Fatalf("GetRules返回错误: %v", err)
	}
	if _, err := c.GetRules(context.Background(), "m1"); err != nil {
		t.Fatalf("GetRules返回错误: %v", err)
	}
	// 空规则集同样被缓存，避免无规则指标反复打到数据库
	if finder.calls != 1 {
		t.Errorf("空规则集应被缓存，实际回源 %d 次", finder.calls)
	}
}
