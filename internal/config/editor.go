package config

import "time"

// EditorConfig controls live editing sessions and their Redis drafts.
type EditorConfig struct {
	SessionTTL    time.Duration // idle time after which a session is swept
	SweepEvery    time.Duration
	DraftPrefix   string
	DraftTTL      time.Duration // lifetime of an autosaved draft in Redis
	DefaultWidth  float64       // viewport used when a client sends none
	DefaultHeight float64
	MaxWidth      float64       // largest viewport a session accepts
	MaxHeight     float64
}

// maxCanvas mirrors seatmap.MaxDimension, the hard ceiling on both sides.
const maxCanvas = 10000

// LoadEditorConfig reads EDITOR_* variables.
func LoadEditorConfig() EditorConfig {
	cfg := EditorConfig{
		SessionTTL:    envDur("EDITOR_SESSION_TTL", 30*time.Minute),
		SweepEvery:    envDur("EDITOR_SWEEP_EVERY", time.Minute),
		DraftPrefix:   getenv("EDITOR_DRAFT_PREFIX", "seatmap:draft"),
		DraftTTL:      envDur("EDITOR_DRAFT_TTL", 24*time.Hour),
		DefaultWidth:  envFloat("EDITOR_CANVAS_WIDTH", 700),
		DefaultHeight: envFloat("EDITOR_CANVAS_HEIGHT", 500),
		MaxWidth:      envFloat("EDITOR_MAX_WIDTH", 4000),
		MaxHeight:     envFloat("EDITOR_MAX_HEIGHT", 4000),
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = time.Minute
	}
	if cfg.DraftTTL < cfg.SessionTTL {
		cfg.DraftTTL = cfg.SessionTTL
	}
	if cfg.DefaultWidth <= 0 || cfg.DefaultHeight <= 0 {
		cfg.DefaultWidth, cfg.DefaultHeight = 700, 500
	}
	if cfg.MaxWidth <= 0 || cfg.MaxWidth > maxCanvas {
		cfg.MaxWidth = maxCanvas
	}
	if cfg.MaxHeight <= 0 || cfg.MaxHeight > maxCanvas {
		cfg.MaxHeight = maxCanvas
	}
	cfg.DefaultWidth = min(cfg.DefaultWidth, cfg.MaxWidth)
	cfg.DefaultHeight = min(cfg.DefaultHeight, cfg.MaxHeight)
	return cfg
}
