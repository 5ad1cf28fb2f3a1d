package trapezoid

import (
	"log/slog"

	"github.com/gogpu/trapezoid/shaders"
)

// Option configures Bootstrap.
//
// Example:
//
//	// Embedded shaders, package logger
//	scene, err := trapezoid.Bootstrap(canvas)
//
//	// Dedicated logger
//	scene, err := trapezoid.Bootstrap(canvas, trapezoid.WithLogger(log))
type Option func(*options)

type options struct {
	logger  *slog.Logger
	shaders *shaders.Set
}

func defaultOptions() options {
	return options{}
}

// WithLogger sets the logger used for this bootstrap and handed to the
// graphics context. When unset, the package logger (see SetLogger) is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithShaders replaces the embedded shader pair.
//
// The set is used as given: it is not validated up front, so a broken
// source surfaces as a *CompileError or *LinkError from Bootstrap.
func WithShaders(s shaders.Set) Option {
	return func(o *options) {
		o.shaders = &s
	}
}
