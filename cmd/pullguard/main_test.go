package main

import (
	"testing"
	"time"

	"github.com/pullguard/pullguard/internal/config"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback time.Duration
		want     time.Duration
	}{
		{name: "valid duration", input: "90s", fallback: time.Minute, want: 90 * time.Second},
		{name: "empty uses fallback", input: "", fallback: time.Minute, want: time.Minute},
		{name: "garbage uses fallback", input: "soon", fallback: 5 * time.Second, want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDuration(tt.input, tt.fallback); got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildLogger(t *testing.T) {
	// Unknown levels and formats fall back to info/human rather than failing.
	for _, cfg := range []config.LoggingConfig{
		{Level: "debug", Format: "json", RedactAPIKeys: true},
		{Level: "nonsense", Format: "nonsense"},
		{},
	} {
		if buildLogger(cfg) == nil {
			t.Fatalf("buildLogger(%+v) returned nil", cfg)
		}
	}
}

func TestDefaultConfigPaths(t *testing.T) {
	paths := defaultConfigPaths()
	if len(paths) == 0 || paths[0] != "." {
		t.Fatalf("expected current directory first, got %v", paths)
	}
}
