package core

import (
	"log/slog"
	"runtime"
)

// TransformConfig defines the settings shared by every transform entry point.
type TransformConfig struct {
	// Sign is the sign convention of the imaginary part, always -1 or +1.
	Sign float64
	// TimeZero is the reference epoch used for phase alignment.
	TimeZero float64
	// Parallel spreads series across goroutines in batch calls.
	Parallel bool
	// Workers bounds the number of concurrent goroutines when Parallel is set.
	Workers int
	// GPU routes batch calls to the registered GPU backend.
	GPU    bool
	Logger *slog.Logger
}

// Option mutates a TransformConfig.
type Option func(*TransformConfig)

// DefaultTransformConfig returns the defaults: positive sign, epoch 0,
// parallel CPU execution with one worker per available CPU.
func DefaultTransformConfig() TransformConfig {
	return TransformConfig{
		Sign:     1,
		Parallel: true,
		Workers:  runtime.GOMAXPROCS(0),
		Logger:   slog.Default(),
	}
}

// WithSign sets the sign convention. Only the sign of the argument is used;
// zero and NaN are ignored.
func WithSign(sign float64) Option {
	return func(cfg *TransformConfig) {
		switch {
		case sign > 0:
			cfg.Sign = 1
		case sign < 0:
			cfg.Sign = -1
		}
	}
}

// WithTimeZero sets the reference epoch.
func WithTimeZero(t0 float64) Option {
	return func(cfg *TransformConfig) {
		if IsFinite(t0) {
			cfg.TimeZero = t0
		}
	}
}

// WithParallel toggles parallel execution across series.
func WithParallel(parallel bool) Option {
	return func(cfg *TransformConfig) {
		cfg.Parallel = parallel
	}
}

// WithWorkers sets the maximum number of worker goroutines.
func WithWorkers(workers int) Option {
	return func(cfg *TransformConfig) {
		if workers > 0 {
			cfg.Workers = workers
		}
	}
}

// WithGPU toggles execution on the registered GPU backend.
func WithGPU(gpu bool) Option {
	return func(cfg *TransformConfig) {
		cfg.GPU = gpu
	}
}

// WithLogger sets the structured logger used for warnings and debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *TransformConfig) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) TransformConfig {
	cfg := DefaultTransformConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
