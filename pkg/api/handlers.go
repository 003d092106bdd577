package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"HomeRadar/pkg/database"
	"HomeRadar/pkg/engine"
	"HomeRadar/pkg/metrics"
	"HomeRadar/pkg/model"
	"HomeRadar/pkg/monitor"
)

// Handlers API处理程序
type Handlers struct {
	db       *database.Postgres
	engine   *engine.AlertEngine
	notifier engine.Notifier
	monitor  *monitor.Monitor
}

// NewHandlers 创建新的API处理程序
func NewHandlers(
	db *database.Postgres,
	alertEngine *engine.AlertEngine,
	notifier engine.Notifier,
	mon *monitor.Monitor,
) *Handlers {
	return &Handlers{
		db:       db,
		engine:   alertEngine,
		notifier: notifier,
		monitor:  mon,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ReadinessCheck 就绪检查处理程序，汇总各组件健康状态
func (h *Handlers) ReadinessCheck(c *gin.Context) {
	statuses := h.monitor.GetAllStatus()
	if !h.monitor.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": statuses,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": statuses,
	})
}

// ReadingRequest 读数上报请求
// Value用指针以区分"未提供"和合法的零值读数
type ReadingRequest struct {
	MetricID  string     `json:"metric_id" binding:"required"`
	Value     *float64   `json:"value" binding:"required"`
	Timestamp *time.Time `json:"timestamp"`
}

func (req *ReadingRequest) toModel() *model.Reading {
	reading := &model.Reading{
		MetricID: req.MetricID,
		Value:    *req.Value,
	}
	if req.Timestamp != nil {
		reading.Timestamp = *req.Timestamp
	}
	return reading
}

// IngestReading 单条读数接入处理程序
// 读数落库后同步触发告警评估；告警环节的任何问题都不影响接入结果
func (h *Handlers) IngestReading(c *gin.Context) {
	var req ReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	reading := req.toModel()
	if err := h.db.Readings().Create(c.Request.Context(), reading); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "保存读数失败: " + err.Error(),
		})
		return
	}
	metrics.ReadingsIngested.WithLabelValues("http").Inc()

	// 同步评估告警规则
	h.engine.Evaluate(c.Request.Context(), reading, h.notifier)

	c.JSON(http.StatusCreated, gin.H{
		"data": reading,
	})
}

// BatchReadingRequest 批量读数上报请求
type BatchReadingRequest struct {
	Readings []ReadingRequest `json:"readings" binding:"required,dive"`
}

// IngestReadingBatch 批量读数接入处理程序，逐条落库并评估
func (h *Handlers) IngestReadingBatch(c *gin.Context) {
	var req BatchReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	readings := make([]*model.Reading, 0, len(req.Readings))
	for i := range req.Readings {
		readings = append(readings, req.Readings[i].toModel())
	}

	if err := h.db.Readings().CreateBatch(c.Request.Context(), readings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "批量保存读数失败: " + err.Error(),
		})
		return
	}
	metrics.ReadingsIngested.WithLabelValues("http").Add(float64(len(readings)))

	// 批内逐条评估，互相独立
	for _, reading := range readings {
		h.engine.Evaluate(c.Request.Context(), reading, h.notifier)
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"count":  len(readings),
	})
}

// GetAlerts 查询用户告警处理程序
func (h *Handlers) GetAlerts(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id参数不能为空",
		})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	alerts, err := h.db.Alerts().GetByUser(c.Request.Context(), userID, limit, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询告警失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": alerts,
	})
}

// AcknowledgeAlert 确认告警处理程序
func (h *Handlers) AcknowledgeAlert(c *gin.Context) {
	h.transitionAlert(c, model.AlertStatusAcknowledged)
}

// CloseAlert 关闭告警处理程序
func (h *Handlers) CloseAlert(c *gin.Context) {
	h.transitionAlert(c, model.AlertStatusClosed)
}

// transitionAlert 执行告警状态迁移
func (h *Handlers) transitionAlert(c *gin.Context, to model.AlertStatus) {
	alertID := c.Param("id")

	if err := h.db.Alerts().UpdateStatus(c.Request.Context(), alertID, to); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}
