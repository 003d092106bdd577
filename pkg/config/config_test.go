package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
app:
  name: homeradar
  env: test
log:
  level: debug
database:
  postgres:
    host: db.local
    port: 5432
    user: homeradar
    password: secret
    dbname: homeradar
    sslmode: disable
redis:
  addr: redis.local:6379
nats:
  url: nats://nats.local:4222
api:
  port: "9090"
  read_timeout_sec: 15
  write_timeout_sec: 15
alerting:
  rule_cache_ttl_sec: 120
  retention_days: 14
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig返回错误: %v", err)
	}

	if cfg.App.Name != "homeradar" {
		t.Errorf("app.name = %q", cfg.App.Name)
	}
	if cfg.Database.Postgres.Host != "db.local" || cfg.Database.Postgres.Port != 5432 {
		t.Errorf("postgres配置解析错误: %+v", cfg.Database.Postgres)
	}
	if cfg.Redis.Addr != "redis.local:6379" {
		t.Errorf("redis.addr = %q", cfg.Redis.Addr)
	}
	if cfg.NATS.URL != "nats://nats.local:4222" {
		t.Errorf("nats.url = %q", cfg.NATS.URL)
	}
	if cfg.API.Port != "9090" {
		t.Errorf("api.port = %q", cfg.API.Port)
	}
	if cfg.APIReadTimeout() != 15*time.Second {
		t.Errorf("read_timeout = %v", cfg.APIReadTimeout())
	}
	if cfg.RuleCacheTTL() != 120*time.Second {
		t.Errorf("rule_cache_ttl = %v", cfg.RuleCacheTTL())
	}
	if cfg.Alerting.RetentionDays != 14 {
		t.Errorf("retention_days = %d", cfg.Alerting.RetentionDays)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DB_HOST", "override.local")
	t.Setenv("REDIS_ADDR", "override:6379")
	t.Setenv("API_PORT", "8081")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig返回错误: %v", err)
	}

	if cfg.Database.Postgres.Host != "override.local" {
		t.Errorf("环境变量未覆盖db host: %q", cfg.Database.Postgres.Host)
	}
	if cfg.Redis.Addr != "override:6379" {
		t.Errorf("环境变量未覆盖redis addr: %q", cfg.Redis.Addr)
	}
	if cfg.API.Port != "8081" {
		t.Errorf("环境变量未覆盖api port: %q", cfg.API.Port)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app:\n  name: homeradar\n"))
	if err != nil {
		t.Fatalf("LoadConfig返回错误: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("默认日志级别应为info: %q", cfg.Log.Level)
	}
	if cfg.API.Port != "8080" {
		t.Errorf("默认端口应为8080: %q", cfg.API.Port)
	}
	if cfg.RuleCacheTTL() != 300*time.Second {
		t.Errorf("默认规则缓存TTL应为300s: %v", cfg.RuleCacheTTL())
	}
	if cfg.Alerting.RetentionDays != 30 {
		t.Errorf("默认保留天数应为30: %d", cfg.Alerting.RetentionDays)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("配置文件不存在时应返回错误")
	}
}
