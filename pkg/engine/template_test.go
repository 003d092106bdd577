package engine

import "testing"

func TestRenderMessage(t *testing.T) {
	tests := []struct {
		name       string
		template   string
		metricName string
		value      float64
		threshold  float64
		want       string
	}{
		{
			name:       "all placeholders",
			template:   "{metricName} is {value}, exceeding {threshold}",
			metricName: "Temperature",
			value:      35.5,
			threshold:  30,
			want:       "Temperature is 35.5, exceeding 30",
		},
		{
			name:       "no placeholders unchanged",
			template:   "plain alert text",
			metricName: "Temperature",
			value:      1,
			threshold:  2,
			want:       "plain alert text",
		},
		{
			name:      "repeated placeholder replaced everywhere",
			template:  "{value} and {value}",
			value:     5,
			threshold: 0,
			want:      "5 and 5",
		},
		{
			name:       "unknown placeholder kept verbatim",
			template:   "{metricName} {unit} {value}",
			metricName: "Power",
			value:      1500,
			threshold:  1000,
			want:       "Power {unit} 1500",
		},
		{
			name:     "empty template",
			template: "",
			want:     "",
		},
		{
			name:      "integer-valued floats render without fixed point",
			template:  "v={value} t={threshold}",
			value:     20,
			threshold: 19.25,
			want:      "v=20 t=19.25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderMessage(tt.template, tt.metricName, tt.value, tt.threshold)
			if got != tt.want {
				t.Errorf("RenderMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
