package helpers

import (
	"testing"
	"time"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{name: "zero", size: 0, want: "0 B"},
		{name: "bytes", size: 512, want: "512 B"},
		{name: "exact kilobyte", size: 1024, want: "1.0 KB"},
		{name: "kilobytes", size: 1536, want: "1.5 KB"},
		{name: "megabytes", size: 5 * 1024 * 1024, want: "5.0 MB"},
		{name: "gigabytes", size: 3 * 1024 * 1024 * 1024, want: "3.0 GB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFileSize(tt.size); got != tt.want {
				t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("2h", time.Hour); got != 2*time.Hour {
		t.Errorf("ParseDuration(2h) = %v, want 2h", got)
	}
	if got := ParseDuration("bogus", time.Hour); got != time.Hour {
		t.Errorf("ParseDuration(bogus) = %v, want default 1h", got)
	}
}
