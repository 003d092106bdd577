// pkg/monitor/monitor.go
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ProbeFunc 组件连通性探测函数
type ProbeFunc func(ctx context.Context) error

// HealthStatus 组件健康状态
type HealthStatus struct {
	Component   string    `json:"component"`
	Status      string    `json:"status"`
	LastChecked time.Time `json:"last_checked"`
	Message     string    `json:"message,omitempty"`
}

// Monitor 组件健康监控（数据库、Redis、NATS）
type Monitor struct {
	components map[string]*HealthStatus
	probes     map[string]ProbeFunc
	mutex      sync.RWMutex
	log        zerolog.Logger
}

// NewMonitor 创建监控器
func NewMonitor(log zerolog.Logger) *Monitor {
	return &Monitor{
		components: make(map[string]*HealthStatus),
		probes:     make(map[string]ProbeFunc),
		log:        log,
	}
}

// RegisterComponent 注册组件及其探测函数
func (m *Monitor) RegisterComponent(component string, probe ProbeFunc) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.components[component] = &HealthStatus{
		Component:   component,
		Status:      "unknown",
		LastChecked: time.Now(),
	}
	m.probes[component] = probe
}

// CheckAll 执行全部组件探测并更新状态
func (m *Monitor) CheckAll(ctx context.Context) {
	m.mutex.RLock()
	probes := make(map[string]ProbeFunc, len(m.probes))
	for name, probe := range m.probes {
		probes[name] = probe
	}
	m.mutex.RUnlock()

	for name, probe := range probes {
		probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := probe(probeCtx)
		cancel()

		if err != nil {
			m.updateStatus(name, "unhealthy", err.Error())
		} else {
			m.updateStatus(name, "healthy", "")
		}
	}
}

// updateStatus 更新组件状态，状态恶化时记录日志
func (m *Monitor) updateStatus(component, status, message string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, exists := m.components[component]
	if !exists {
		entry = &HealthStatus{Component: component}
		m.components[component] = entry
	}

	oldStatus := entry.Status
	entry.Status = status
	entry.LastChecked = time.Now()
	entry.Message = message

	if oldStatus != status && status != "healthy" {
		m.log.Warn().
			Str("monitor_component", component).
			Str("status", status).
			Str("message", message).
			Msg("组件状态变为不健康")
	}
}

// GetStatus 获取组件状态
func (m *Monitor) GetStatus(component string) *HealthStatus {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if status, exists := m.components[component]; exists {
		copied := *status
		return &copied
	}
	return nil
}

// GetAllStatus 获取所有组件状态
func (m *Monitor) GetAllStatus() []*HealthStatus {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	statuses := make([]*HealthStatus, 0, len(m.components))
	for _, status := range m.components {
		copied := *status
		statuses = append(statuses, &copied)
	}
	return statuses
}

// Healthy 全部组件是否健康
func (m *Monitor) Healthy() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, status := range m.components {
		if status.Status != "healthy" {
			return false
		}
	}
	return true
}
