package biz

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// AnswererFactory builds an Answerer bound to the given chat model.
type AnswererFactory func(model string) *Answerer

// AgentCache keeps one Answerer per chat model so repeated questions
// against the same model reuse the pipeline instead of rebuilding it.
type AgentCache struct {
	mu      sync.Mutex
	cache   *gocache.Cache
	factory AnswererFactory
}

// NewAgentCache creates an AgentCache. ttl bounds how long an idle
// agent stays cached; zero keeps agents for the process lifetime.
func NewAgentCache(factory AnswererFactory, ttl time.Duration) *AgentCache {
	expiration := gocache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl
	}
	return &AgentCache{
		cache:   gocache.New(expiration, cleanup),
		factory: factory,
	}
}

// Get returns the Answerer for model, building it on first use. The
// same model name always yields the same instance while it is cached.
func (c *AgentCache) Get(model string) *Answerer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.cache.Get(model); ok {
		return cached.(*Answerer)
	}

	agent := c.factory(model)
	c.cache.SetDefault(model, agent)
	return agent
}

// Len returns the number of cached agents.
func (c *AgentCache) Len() int {
	return c.cache.ItemCount()
}
