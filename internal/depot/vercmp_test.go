package depot

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "2.0", -1},
		{"1.0", "1.0", 0},
		{"1.2.10", "1.2.9", 1},
		{"1.10", "1.9", 1},
		{"1.01", "1.1", 0},
		{"", "", 0},
		{"1", "", 1},
		{"1.0~rc1", "1.0", -1},
		{"1.0~alpha", "1.0~beta", -1},
		{"1.1.1k", "1.1.1l", -1},
		{"1.1.1l", "3.0.0", -1},
		{"1.0a", "1.0", 1},
		{"1.0-1", "1.0a", 1},
		{"cci.20130801", "cci.20120101", 1},
		{"20211102.0", "20230125.3", -1},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := compareVersions(tt.b, tt.a); got != -tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
		}
	}
}
