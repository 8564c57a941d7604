package ffmpeg

import (
	"math"
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"integer rate", "30/1", 30, true},
		{"ntsc rate", "30000/1001", 29.97, true},
		{"sixty", "60/1", 60, true},
		{"zero denominator", "30/0", 0, false},
		{"no slash", "30", 0, false},
		{"garbage", "a/b", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseFrameRate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if tt.ok && math.Abs(got-tt.want) > 0.01 {
				t.Errorf("fps = %v, want %v", got, tt.want)
			}
		})
	}
}
