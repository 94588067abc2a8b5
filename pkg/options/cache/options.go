// Package cacheopts provides caching configuration options.
package cacheopts

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/docuchat/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains caching configuration for the answer cache and the
// per-model agent cache.
type Options struct {
	// Enabled toggles the Redis-backed answer cache.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is the answer cache expiration time.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix is the answer cache key prefix.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`

	// AgentTTL bounds how long an idle per-model agent stays cached.
	// Zero means agents are kept for the process lifetime.
	AgentTTL time.Duration `json:"agent-ttl" mapstructure:"agent-ttl"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Enabled:   false,
		TTL:       time.Hour,
		KeyPrefix: "docuchat:answer:",
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.Enabled, options.Join(prefixes...)+"cache.enabled", o.Enabled, "Enable the Redis-backed answer cache.")
	fs.DurationVar(&o.TTL, options.Join(prefixes...)+"cache.ttl", o.TTL, "Answer cache expiration time.")
	fs.StringVar(&o.KeyPrefix, options.Join(prefixes...)+"cache.key-prefix", o.KeyPrefix, "Answer cache key prefix.")
	fs.DurationVar(&o.AgentTTL, options.Join(prefixes...)+"cache.agent-ttl", o.AgentTTL, "Idle TTL for cached per-model agents (0 keeps them forever).")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Enabled && o.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive when the answer cache is enabled"))
	}
	if o.AgentTTL < 0 {
		errs = append(errs, fmt.Errorf("cache.agent-ttl cannot be negative"))
	}
	return errs
}
