// pkg/engine/template.go
package engine

import (
	"fmt"
	"strings"
)

// RenderMessage 渲染告警消息模板
// 替换全部 {metricName} {value} {threshold} 占位符，其余占位符原样保留
func RenderMessage(template string, metricName string, value, threshold float64) string {
	message := strings.ReplaceAll(template, "{metricName}", metricName)
	message = strings.ReplaceAll(message, "{value}", formatNumber(value))
	message = strings.ReplaceAll(message, "{threshold}", formatNumber(threshold))
	return message
}

// formatNumber 数值的默认字符串表示，不强制定点格式
func formatNumber(v float64) string {
	return fmt.Sprintf("%v", v)
}
