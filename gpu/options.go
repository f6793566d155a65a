package gpu

// DefaultBlockSize is the default edge length of a square launch block.
const DefaultBlockSize = 16

// ExecutorConfig controls device selection and launch geometry.
type ExecutorConfig struct {
	DeviceIndex int
	Block       Dims
}

// Option mutates an ExecutorConfig.
type Option func(*ExecutorConfig)

// DefaultExecutorConfig returns device 0 with 16x16 blocks.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{Block: Dims{X: DefaultBlockSize, Y: DefaultBlockSize}}
}

// WithDevice selects the device index. Negative values are ignored.
func WithDevice(index int) Option {
	return func(cfg *ExecutorConfig) {
		if index >= 0 {
			cfg.DeviceIndex = index
		}
	}
}

// WithBlockSize sets the block extent in frequencies (x) and series (y).
// Non-positive values are ignored.
func WithBlockSize(x, y int) Option {
	return func(cfg *ExecutorConfig) {
		if x > 0 {
			cfg.Block.X = x
		}
		if y > 0 {
			cfg.Block.Y = y
		}
	}
}

func applyOptions(opts []Option) ExecutorConfig {
	cfg := DefaultExecutorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
