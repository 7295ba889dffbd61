// Package options implements the generic functional options used by the
// reader, writer and updater constructors.
package options

// Option configures a target of type T, usually a pointer to an options struct.
type Option[T any] interface {
	apply(T) error
}

type optionFunc[T any] func(T) error

func (f optionFunc[T]) apply(target T) error {
	return f(target)
}

// New creates an option from a function that may reject its input.
func New[T any](fn func(T) error) Option[T] {
	return optionFunc[T](fn)
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return optionFunc[T](func(target T) error {
		fn(target)
		return nil
	})
}

// Apply applies opts to target in order and stops at the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// Build allocates a zero C, applies defaults and then opts, and returns the result.
func Build[C any](defaults func(*C), opts ...Option[*C]) (*C, error) {
	cfg := new(C)
	if defaults != nil {
		defaults(cfg)
	}
	if err := Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
