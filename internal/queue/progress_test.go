package queue

import "testing"

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name    string
		chunk   string
		percent string
		total   string
		ok      bool
	}{
		{
			name:    "plain download line",
			chunk:   "[download]  45.2% of 10.33MiB at 1.21MiB/s ETA 00:05\n",
			percent: "45.2%",
			total:   "10.33MiB",
			ok:      true,
		},
		{
			name:    "estimated size marker",
			chunk:   "[download]   0.3% of ~120.50MiB at 500.00KiB/s\n",
			percent: "0.3%",
			total:   "120.50MiB",
			ok:      true,
		},
		{
			name:    "last marker in a chunk wins",
			chunk:   "[download]  10.0% of 8.00MiB\r[download]  99.9% of 8.00MiB\r",
			percent: "99.9%",
			total:   "8.00MiB",
			ok:      true,
		},
		{
			name:  "no marker",
			chunk: "[youtube] abc123: Downloading webpage\n",
		},
		{
			name:  "marker split across a chunk boundary is not seen",
			chunk: "[download]  45.2% o",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			percent, total, ok := ParseProgress(tt.chunk)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if percent != tt.percent || total != tt.total {
				t.Fatalf("got %q of %q, want %q of %q", percent, total, tt.percent, tt.total)
			}
		})
	}
}
