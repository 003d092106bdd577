// pkg/database/postgres.go
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"HomeRadar/pkg/config"
	"HomeRadar/pkg/model"
)

// Postgres 平台持久化存储
type Postgres struct {
	db *gorm.DB
}

// NewPostgres 创建数据库连接并执行迁移
func NewPostgres(cfg *config.Config) (*Postgres, error) {
	dbCfg := cfg.Database.Postgres

	// 构建连接字符串
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.DBName, dbCfg.SSLMode,
	)

	// 连接数据库
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 设置连接池参数
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// 自动迁移表结构
	if err := db.AutoMigrate(
		&model.User{},
		&model.Device{},
		&model.Metric{},
		&model.Reading{},
		&model.AlertRule{},
		&model.Alert{},
	); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Ping 探测数据库连通性
func (p *Postgres) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Metrics 指标数据访问
func (p *Postgres) Metrics() *MetricDB {
	return &MetricDB{db: p.db}
}

// Readings 读数数据访问
func (p *Postgres) Readings() *ReadingDB {
	return &ReadingDB{db: p.db}
}

// Rules 告警规则数据访问
func (p *Postgres) Rules() *RuleDB {
	return &RuleDB{db: p.db}
}

// Alerts 告警数据访问
func (p *Postgres) Alerts() *AlertDB {
	return &AlertDB{db: p.db}
}

// 以下方法实现告警引擎的存储依赖

func (p *Postgres) FindRulesByMetric(ctx context.Context, metricID string) ([]model.AlertRule, error) {
	return p.Rules().FindByMetric(ctx, metricID)
}

func (p *Postgres) FindMetricWithOwner(ctx context.Context, metricID string) (*model.MetricInfo, error) {
	return p.Metrics().GetWithOwner(ctx, metricID)
}

func (p *Postgres) CreateAlert(ctx context.Context, alert *model.Alert) error {
	return p.Alerts().Create(ctx, alert)
}
