// Package metrics collects service counters for document QA.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds the service's business counters.
type Metrics struct {
	// Question answering.
	questionsTotal     uint64
	questionsCacheHits uint64
	questionsErrors    uint64

	// Retrieval.
	retrievalTotal    uint64
	retrievalDuration float64 // seconds
	retrievalErrors   uint64

	// LLM generation.
	llmCallsTotal    uint64
	llmCallsDuration float64 // seconds
	llmCallsErrors   uint64

	// Ingestion.
	documentsIngested uint64
	chunksIngested    uint64
	ingestErrors      uint64

	// Removal.
	documentsRemoved uint64
	chunksRemoved    uint64
	removalErrors    uint64

	startTime  time.Time
	durationMu sync.Mutex
}

var (
	global *Metrics
	once   sync.Once
)

// Get returns the global metrics instance.
func Get() *Metrics {
	once.Do(func() {
		global = &Metrics{startTime: time.Now()}
	})
	return global
}

// RecordQuestion records an answered question.
func (m *Metrics) RecordQuestion(cacheHit bool, err error) {
	atomic.AddUint64(&m.questionsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.questionsErrors, 1)
		return
	}
	if cacheHit {
		atomic.AddUint64(&m.questionsCacheHits, 1)
	}
}

// RecordRetrieval records a similarity search.
func (m *Metrics) RecordRetrieval(duration time.Duration, err error) {
	atomic.AddUint64(&m.retrievalTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.retrievalErrors, 1)
		return
	}

	m.durationMu.Lock()
	m.retrievalDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordLLMCall records a generation call.
func (m *Metrics) RecordLLMCall(duration time.Duration, err error) {
	atomic.AddUint64(&m.llmCallsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.llmCallsErrors, 1)
		return
	}

	m.durationMu.Lock()
	m.llmCallsDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordIngest records a document ingestion.
func (m *Metrics) RecordIngest(chunks int, err error) {
	if err != nil {
		atomic.AddUint64(&m.ingestErrors, 1)
		return
	}
	atomic.AddUint64(&m.documentsIngested, 1)
	atomic.AddUint64(&m.chunksIngested, uint64(chunks))
}

// RecordRemoval records a document removal.
func (m *Metrics) RecordRemoval(chunks int, err error) {
	if err != nil {
		atomic.AddUint64(&m.removalErrors, 1)
		return
	}
	atomic.AddUint64(&m.documentsRemoved, 1)
	atomic.AddUint64(&m.chunksRemoved, uint64(chunks))
}

// Stats returns the current counters for the stats endpoint.
func (m *Metrics) Stats() map[string]interface{} {
	m.durationMu.Lock()
	retrievalDuration := m.retrievalDuration
	llmDuration := m.llmCallsDuration
	m.durationMu.Unlock()

	retrievalTotal := atomic.LoadUint64(&m.retrievalTotal)
	avgRetrieval := 0.0
	if retrievalTotal > 0 {
		avgRetrieval = retrievalDuration / float64(retrievalTotal)
	}

	llmTotal := atomic.LoadUint64(&m.llmCallsTotal)
	avgLLM := 0.0
	if llmTotal > 0 {
		avgLLM = llmDuration / float64(llmTotal)
	}

	return map[string]interface{}{
		"questions": map[string]interface{}{
			"total":      atomic.LoadUint64(&m.questionsTotal),
			"cache_hits": atomic.LoadUint64(&m.questionsCacheHits),
			"errors":     atomic.LoadUint64(&m.questionsErrors),
		},
		"retrieval": map[string]interface{}{
			"total":               retrievalTotal,
			"total_duration_secs": retrievalDuration,
			"avg_duration_secs":   avgRetrieval,
			"errors":              atomic.LoadUint64(&m.retrievalErrors),
		},
		"llm": map[string]interface{}{
			"calls_total":         llmTotal,
			"total_duration_secs": llmDuration,
			"avg_duration_secs":   avgLLM,
			"errors":              atomic.LoadUint64(&m.llmCallsErrors),
		},
		"ingestion": map[string]interface{}{
			"documents": atomic.LoadUint64(&m.documentsIngested),
			"chunks":    atomic.LoadUint64(&m.chunksIngested),
			"errors":    atomic.LoadUint64(&m.ingestErrors),
		},
		"removal": map[string]interface{}{
			"documents": atomic.LoadUint64(&m.documentsRemoved),
			"chunks":    atomic.LoadUint64(&m.chunksRemoved),
			"errors":    atomic.LoadUint64(&m.removalErrors),
		},
		"uptime_seconds": time.Since(m.startTime).Seconds(),
	}
}

// Reset clears all counters. Intended for tests.
func (m *Metrics) Reset() {
	atomic.StoreUint64(&m.questionsTotal, 0)
	atomic.StoreUint64(&m.questionsCacheHits, 0)
	atomic.StoreUint64(&m.questionsErrors, 0)
	atomic.StoreUint64(&m.retrievalTotal, 0)
	atomic.StoreUint64(&m.retrievalErrors, 0)
	atomic.StoreUint64(&m.llmCallsTotal, 0)
	atomic.StoreUint64(&m.llmCallsErrors, 0)
	atomic.StoreUint64(&m.documentsIngested, 0)
	atomic.StoreUint64(&m.chunksIngested, 0)
	atomic.StoreUint64(&m.ingestErrors, 0)
	atomic.StoreUint64(&m.documentsRemoved, 0)
	atomic.StoreUint64(&m.chunksRemoved, 0)
	atomic.StoreUint64(&m.removalErrors, 0)

	m.durationMu.Lock()
	m.retrievalDuration = 0
	m.llmCallsDuration = 0
	m.startTime = time.Now()
	m.durationMu.Unlock()
}
