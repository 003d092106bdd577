// pkg/engine/evaluator.go
package engine

import (
	"HomeRadar/pkg/model"
)

// EvaluateCondition 判断读数值是否满足规则条件
// 未知运算符视为不匹配，单条坏规则不能中断同指标其余规则的评估
func EvaluateCondition(value float64, operator model.ConditionOperator, threshold float64) bool {
	switch operator {
	case model.OperatorGT:
		return value > threshold
	case model.OperatorLT:
		return value < threshold
	case model.OperatorGTE:
		return value >= threshold
	case model.OperatorLTE:
		return value <= threshold
	case model.OperatorEQ:
		return value == threshold
	case model.OperatorNEQ:
		return value != threshold
	default:
		return false
	}
}
