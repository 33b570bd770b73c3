//go:build !integration

package segment

import "testing"

func TestConfidence_Bounds(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		report []Distance
		want   float64
	}{
		{"single cluster", []Distance{{Cluster: 0, Value: 1}}, cfg.SingleClusterConfidence},
		{"tie", []Distance{{0, 1}, {1, 1}}, 50},
		{"small margin", []Distance{{0, 1}, {1, 1.25}}, 60},
		{"large margin clamps", []Distance{{0, 0.1}, {1, 9}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.report, cfg)
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestConfidence_NonDecreasingInMargin(t *testing.T) {
	cfg := DefaultConfig()

	prev := -1.0
	for margin := 0.0; margin <= 3.0; margin += 0.05 {
		got := Confidence([]Distance{{0, 1}, {1, 1 + margin}}, cfg)
		if got < cfg.MinConfidence || got > cfg.MaxConfidence {
			t.Fatalf("margin %v: confidence %v out of bounds", margin, got)
		}
		if got < prev {
			t.Fatalf("margin %v: confidence dropped from %v to %v", margin, prev, got)
		}
		prev = got
	}
}

func TestConfidence_ScaleIsConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MarginScale = 50

	if got := Confidence([]Distance{{0, 1}, {1, 1.5}}, cfg); got != 75 {
		t.Fatalf("expected 75 with scale 50, got %v", got)
	}
}

func TestConfig_RejectsConfidenceOutsideScale(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"floor below 50", func(c *Config) { c.MinConfidence = 0; c.SingleClusterConfidence = 0 }},
		{"ceiling above 100", func(c *Config) { c.MaxConfidence = 150 }},
		{"min above max", func(c *Config) { c.MinConfidence = 90; c.MaxConfidence = 80; c.SingleClusterConfidence = 85 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for min=%v max=%v", cfg.MinConfidence, cfg.MaxConfidence)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

func TestConfidence_ValidConfigStaysOnScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinConfidence = 60
	cfg.MaxConfidence = 90
	cfg.SingleClusterConfidence = 60
	cfg.MarginScale = 1000
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	for _, report := range [][]Distance{
		{{0, 1}},
		{{0, 1}, {1, 1}},
		{{0, 0}, {1, 50}},
	} {
		got := Confidence(report, cfg)
		if got < ConfidenceFloor || got > ConfidenceCeiling {
			t.Fatalf("confidence %v off the [50, 100] scale for %v", got, report)
		}
	}
}
