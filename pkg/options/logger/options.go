// Package logger provides logger configuration options.
package logger

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/docuchat/pkg/log"
	"github.com/kart-io/docuchat/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains logger configuration.
type Options struct {
	// Level is the minimum enabled log level.
	Level string `json:"level" mapstructure:"level"`
	// Format is the log encoding (json|console).
	Format string `json:"format" mapstructure:"format"`
	// Development enables development mode.
	Development bool `json:"development" mapstructure:"development"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Level:  "info",
		Format: "json",
	}
}

// AddFlags adds flags for logger options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Level, options.Join(prefixes...)+"log.level", o.Level, "Log level (debug|info|warn|error).")
	fs.StringVar(&o.Format, options.Join(prefixes...)+"log.format", o.Format, "Log format (json|console).")
	fs.BoolVar(&o.Development, options.Join(prefixes...)+"log.development", o.Development, "Enable development mode.")
}

// Validate validates the logger options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", o.Format))
	}
	return errs
}

// Init initializes the global logger with the options, attaching the
// service name to every entry.
func (o *Options) Init(serviceName string) error {
	return log.Init(&log.Config{
		Level:       o.Level,
		Format:      o.Format,
		Development: o.Development,
		InitialFields: map[string]any{
			"service.name": serviceName,
		},
	})
}
