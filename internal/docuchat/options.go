// Package docuchat assembles the document QA service: options, the
// application shell, and the HTTP server wiring.
package docuchat

import (
	"errors"

	"github.com/spf13/pflag"

	cacheopts "github.com/kart-io/docuchat/pkg/options/cache"
	docstoreopts "github.com/kart-io/docuchat/pkg/options/docstore"
	httpopts "github.com/kart-io/docuchat/pkg/options/http"
	logopts "github.com/kart-io/docuchat/pkg/options/logger"
	milvusopts "github.com/kart-io/docuchat/pkg/options/milvus"
	ollamaopts "github.com/kart-io/docuchat/pkg/options/ollama"
	ragopts "github.com/kart-io/docuchat/pkg/options/rag"
	redisopts "github.com/kart-io/docuchat/pkg/options/redis"
)

// Options contains all service options.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Milvus contains Milvus client configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Ollama contains Ollama client configuration.
	Ollama *ollamaopts.Options `json:"ollama" mapstructure:"ollama"`

	// RAG contains retrieval pipeline configuration.
	RAG *ragopts.Options `json:"rag" mapstructure:"rag"`

	// Docstore contains document store configuration.
	Docstore *docstoreopts.Options `json:"docstore" mapstructure:"docstore"`

	// Cache contains answer and agent cache configuration.
	Cache *cacheopts.Options `json:"cache" mapstructure:"cache"`

	// Redis contains Redis client configuration, used when the answer
	// cache is enabled.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		HTTP:     httpopts.NewOptions(),
		Log:      logopts.NewOptions(),
		Milvus:   milvusopts.NewOptions(),
		Ollama:   ollamaopts.NewOptions(),
		RAG:      ragopts.NewOptions(),
		Docstore: docstoreopts.NewOptions(),
		Cache:    cacheopts.NewOptions(),
		Redis:    redisopts.NewOptions(),
	}
}

// AddFlags adds all service flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.Ollama.AddFlags(fs)
	o.RAG.AddFlags(fs)
	o.Docstore.AddFlags(fs)
	o.Cache.AddFlags(fs)
	o.Redis.AddFlags(fs)
}

// Validate validates all sub-options.
func (o *Options) Validate() error {
	var errs []error
	errs = append(errs, o.HTTP.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	errs = append(errs, o.Milvus.Validate()...)
	errs = append(errs, o.Ollama.Validate()...)
	errs = append(errs, o.RAG.Validate()...)
	errs = append(errs, o.Docstore.Validate()...)
	errs = append(errs, o.Cache.Validate()...)
	errs = append(errs, o.Redis.Validate()...)
	return errors.Join(errs...)
}

// Complete completes the options with computed defaults.
func (o *Options) Complete() error {
	// The answer cache follows the retrieval model catalog; nothing to
	// derive today.
	return nil
}
