package catalogRepo

import "testing"

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"30_minutes", 30},
		{"1_minute", 1},
		{"2_hours", 120},
		{"1_hour", 60},
		{"one_day", 1440},
		{"two_days", 2880},
		{"ten_hours", 600},
		{"45_Minutes", 45},
		{" 15_minutes ", 15},

		{"", 0},
		{"soon", 0},
		{"eleven_hours", 0},
		{"0_minutes", 0},
		{"-5_minutes", 0},
		{"2_weeks", 0},
		{"hours_2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := NormalizeDuration(tt.key); got != tt.want {
				t.Fatalf("NormalizeDuration(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}
