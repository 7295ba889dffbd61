package container

import (
	"go.uber.org/zap"

	"github.com/arloliu/genfile/internal/options"
)

type config struct {
	logger *zap.Logger
	mmap   bool
	eager  bool
	sync   bool
}

func defaultConfig(c *config) {
	c.logger = zap.NewNop()
	c.sync = true
}

func buildConfig(opts []Option) (*config, error) {
	return options.Build(defaultConfig, opts...)
}

// Option configures Open, OpenBytes, Create and NewUpdater.
type Option = options.Option[*config]

// WithMmap backs dataset views of Open by a read-only memory mapping of the
// file instead of positioned reads.
func WithMmap() Option {
	return options.NoError(func(c *config) {
		c.mmap = true
	})
}

// WithEagerLoad reads every dataset payload into memory when the file is opened.
func WithEagerLoad() Option {
	return options.NoError(func(c *config) {
		c.eager = true
	})
}

// WithLogger sets the logger used for debug tracing. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	})
}

// WithSync controls whether Create and the updater fsync the file after
// writing. It is enabled by default.
func WithSync(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.sync = enabled
	})
}
