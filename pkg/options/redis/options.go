// Package redisopts provides options for Redis client configuration.
package redisopts

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/docuchat/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains Redis client configuration.
type Options struct {
	// Addr is the Redis server address (host:port).
	Addr string `json:"addr" mapstructure:"addr"`

	// Password for authentication.
	Password string `json:"password" mapstructure:"password"`

	// DB is the database number.
	DB int `json:"db" mapstructure:"db"`

	// DialTimeout for establishing new connections.
	DialTimeout time.Duration `json:"dial-timeout" mapstructure:"dial-timeout"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Addr:        "localhost:6379",
		DB:          0,
		DialTimeout: 5 * time.Second,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Addr, options.Join(prefixes...)+"redis.addr", o.Addr, "Redis server address (host:port).")
	fs.StringVar(&o.Password, options.Join(prefixes...)+"redis.password", o.Password, "Redis password for authentication.")
	fs.IntVar(&o.DB, options.Join(prefixes...)+"redis.db", o.DB, "Redis database number.")
	fs.DurationVar(&o.DialTimeout, options.Join(prefixes...)+"redis.dial-timeout", o.DialTimeout, "Timeout for establishing new connections.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Addr == "" {
		errs = append(errs, fmt.Errorf("redis.addr is required"))
	}
	if o.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db cannot be negative"))
	}
	return errs
}
