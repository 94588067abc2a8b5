package app

import "github.com/spf13/pflag"

// CliOptions abstracts the configuration an application reads from
// flags, config files, and environment variables.
type CliOptions interface {
	// AddFlags registers the application's flags on fs.
	AddFlags(fs *pflag.FlagSet)

	// Validate checks the options after flags and config are applied.
	Validate() error

	// Complete fills in defaults that depend on other options.
	Complete() error
}
