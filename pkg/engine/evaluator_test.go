package engine

import (
	"testing"

	"HomeRadar/pkg/model"
)

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		operator  model.ConditionOperator
		threshold float64
		want      bool
	}{
		{"gt true", 35.5, model.OperatorGT, 30, true},
		{"gt false equal", 30, model.OperatorGT, 30, false},
		{"gt false below", 20, model.OperatorGT, 30, false},
		{"lt true", 5, model.OperatorLT, 10, true},
		{"lt false", 10, model.OperatorLT, 10, false},
		{"gte true equal", 30, model.OperatorGTE, 30, true},
		{"gte true above", 31, model.OperatorGTE, 30, true},
		{"gte false", 29.9, model.OperatorGTE, 30, false},
		{"lte true equal", 30, model.OperatorLTE, 30, true},
		{"lte true below", -1, model.OperatorLTE, 30, true},
		{"lte false", 30.1, model.OperatorLTE, 30, false},
		{"eq true", 42, model.OperatorEQ, 42, true},
		{"eq false", 42.0001, model.OperatorEQ, 42, false},
		{"neq true", 1, model.OperatorNEQ, 2, true},
		{"neq false", 2, model.OperatorNEQ, 2, false},
		{"unknown operator", 100, model.ConditionOperator("~="), 1, false},
		{"empty operator", 100, model.ConditionOperator(""), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCondition(tt.value, tt.operator, tt.threshold)
			if got != tt.want {
				t.Errorf("EvaluateCondition(%v, %q, %v) = %v, want %v",
					tt.value, tt.operator, tt.threshold, got, tt.want)
			}
		})
	}
}
