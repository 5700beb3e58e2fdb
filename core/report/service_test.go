package report

import "testing"

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int
		want        int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 2, 50},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13}, // 12.5 rounds half up
		{3, 3, 100},
	}
	for _, tt := range tests {
		if got := percent(tt.done, tt.total); got != tt.want {
			t.Errorf("percent(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}
