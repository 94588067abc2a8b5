// Package docstoreopts provides document store configuration options.
package docstoreopts

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/docuchat/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains document store configuration.
type Options struct {
	// Dir is the directory holding raw uploaded documents.
	Dir string `json:"dir" mapstructure:"dir"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Dir: "./uploaded_docs",
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Dir, options.Join(prefixes...)+"docstore.dir", o.Dir, "Directory holding raw uploaded documents.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Dir == "" {
		errs = append(errs, fmt.Errorf("docstore.dir is required"))
	}
	return errs
}
