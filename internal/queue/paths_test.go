package queue

import (
	"path/filepath"
	"testing"
)

func TestCleanItemDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "downloads")
	tests := []struct {
		name    string
		dir     string
		want    string
		wantErr bool
	}{
		{name: "empty means root", dir: "", want: root},
		{name: "relative anchors at root", dir: "music", want: filepath.Join(root, "music")},
		{name: "nested relative", dir: "music/live", want: filepath.Join(root, "music", "live")},
		{name: "absolute inside root", dir: filepath.Join(root, "podcasts"), want: filepath.Join(root, "podcasts")},
		{name: "dotdot escape rejected", dir: "../outside", wantErr: true},
		{name: "absolute escape rejected", dir: "/etc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanItemDir(tt.dir, root)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("cleanItemDir: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanOutputPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{name: "empty is allowed", pattern: ""},
		{name: "template passes through", pattern: "03 - %(title)s.%(ext)s"},
		{name: "forward slash rejected", pattern: "a/b.mp4", wantErr: true},
		{name: "backslash rejected", pattern: `a\b.mp4`, wantErr: true},
		{name: "dotdot rejected", pattern: "..", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanOutputPattern(tt.pattern)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("cleanOutputPattern: %v", err)
			}
			if got != tt.pattern {
				t.Fatalf("expected the pattern verbatim, got %q", got)
			}
		})
	}
}
