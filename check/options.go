package check

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/genfile/internal/options"
)

type config struct {
	logger      *zap.Logger
	tolerance   float64
	concurrency int
	maxCells    int
	ignored     map[string]bool
}

func defaultConfig(c *config) {
	c.logger = zap.NewNop()
	c.concurrency = 4
	c.maxCells = 10
	c.ignored = map[string]bool{}
}

// Option configures Compare.
type Option = options.Option[*config]

// WithTolerance sets the absolute tolerance for float32 cells and parameters.
func WithTolerance(tol float64) Option {
	return options.New(func(c *config) error {
		if tol < 0 {
			return fmt.Errorf("negative tolerance %g", tol)
		}
		c.tolerance = tol

		return nil
	})
}

// WithConcurrency limits the number of datasets compared in parallel.
func WithConcurrency(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		c.concurrency = n

		return nil
	})
}

// WithMaxCellDifferences caps the cell differences reported per column.
// Every differing cell is still counted.
func WithMaxCellDifferences(n int) Option {
	return options.NoError(func(c *config) {
		c.maxCells = max(n, 0)
	})
}

// WithIgnoredParameters excludes parameters by name from header comparison,
// typically values that differ on every run such as creation times.
func WithIgnoredParameters(names ...string) Option {
	return options.NoError(func(c *config) {
		for _, n := range names {
			c.ignored[n] = true
		}
	})
}

// WithLogger sets the logger used for progress tracing.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	})
}
