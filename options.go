package reconstruct

import (
	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/gocube_reconstruct/internal/stats"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/timeline"
)

// Option configures an analyzer.
type Option func(*config)

type config struct {
	firstMoveAdjustment int64
	pauseThreshold      int64
	matching            bool
	library             *Library
	logger              logrus.FieldLogger
	stageCallback       func(stage Stage, stageKey string)
}

func defaultConfig() *config {
	return &config{
		firstMoveAdjustment: timeline.DefaultFirstMoveAdjustment,
		pauseThreshold:      stats.DefaultPauseThreshold,
		matching:            true,
		logger:              logrus.StandardLogger(),
	}
}

func newConfig(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.library == nil && cfg.matching {
		cfg.library = DefaultLibrary()
	}
	return cfg
}

// WithFirstMoveAdjustment sets how many milliseconds before the first move
// the solve is considered to have started. Default is 300.
func WithFirstMoveAdjustment(ms int64) Option {
	return func(c *config) {
		c.firstMoveAdjustment = ms
	}
}

// WithPauseThreshold sets the gap in milliseconds that counts as a pause.
func WithPauseThreshold(ms int64) Option {
	return func(c *config) {
		c.pauseThreshold = ms
	}
}

// WithAlgorithmMatching enables or disables last-layer recognition in reports.
// When enabled (default), Analysis names the OLL, PLL and CMLL cases it finds.
func WithAlgorithmMatching(enabled bool) Option {
	return func(c *config) {
		c.matching = enabled
	}
}

// WithLibrary sets the algorithm library used for recognition.
// Without it the process-wide DefaultLibrary is used.
func WithLibrary(lib *Library) Option {
	return func(c *config) {
		c.library = lib
	}
}

// WithLogger sets the logger. Stage bumps are logged at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStageCallback registers a callback that fires when a new highest stage is reached.
func WithStageCallback(cb func(stage Stage, stageKey string)) Option {
	return func(c *config) {
		c.stageCallback = cb
	}
}
