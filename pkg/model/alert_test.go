package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from AlertStatus
		to   AlertStatus
		want bool
	}{
		{AlertStatusNew, AlertStatusAcknowledged, true},
		{AlertStatusNew, AlertStatusClosed, true},
		{AlertStatusAcknowledged, AlertStatusClosed, true},
		// closed 为终态
		{AlertStatusClosed, AlertStatusNew, false},
		{AlertStatusClosed, AlertStatusAcknowledged, false},
		{AlertStatusClosed, AlertStatusClosed, false},
		// 不允许回到 new
		{AlertStatusAcknowledged, AlertStatusNew, false},
		{AlertStatusNew, AlertStatusNew, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
