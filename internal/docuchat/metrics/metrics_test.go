package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecordQuestion(t *testing.T) {
	m := Get()
	m.Reset()

	m.RecordQuestion(false, nil)
	m.RecordQuestion(true, nil)
	m.RecordQuestion(false, errors.New("boom"))

	stats := m.Stats()
	questions := stats["questions"].(map[string]interface{})
	if questions["total"].(uint64) != 3 {
		t.Errorf("expected 3 questions, got %v", questions["total"])
	}
	if questions["cache_hits"].(uint64) != 1 {
		t.Errorf("expected 1 cache hit, got %v", questions["cache_hits"])
	}
	if questions["errors"].(uint64) != 1 {
		t.Errorf("expected 1 error, got %v", questions["errors"])
	}
}

func TestRecordIngestAndRemoval(t *testing.T) {
	m := Get()
	m.Reset()

	m.RecordIngest(5, nil)
	m.RecordIngest(3, nil)
	m.RecordIngest(0, errors.New("embed failed"))
	m.RecordRemoval(4, nil)

	stats := m.Stats()
	ingestion := stats["ingestion"].(map[string]interface{})
	if ingestion["documents"].(uint64) != 2 {
		t.Errorf("expected 2 documents, got %v", ingestion["documents"])
	}
	if ingestion["chunks"].(uint64) != 8 {
		t.Errorf("expected 8 chunks, got %v", ingestion["chunks"])
	}
	if ingestion["errors"].(uint64) != 1 {
		t.Errorf("expected 1 ingest error, got %v", ingestion["errors"])
	}

	removal := stats["removal"].(map[string]interface{})
	if removal["chunks"].(uint64) != 4 {
		t.Errorf("expected 4 removed chunks, got %v", removal["chunks"])
	}
}

func TestRecordDurations(t *testing.T) {
	m := Get()
	m.Reset()

	m.RecordRetrieval(100*time.Millisecond, nil)
	m.RecordRetrieval(300*time.Millisecond, nil)
	m.RecordLLMCall(time.Second, nil)

	stats := m.Stats()
	retrieval := stats["retrieval"].(map[string]interface{})
	avg := retrieval["avg_duration_secs"].(float64)
	if avg < 0.19 || avg > 0.21 {
		t.Errorf("expected avg retrieval ~0.2s, got %v", avg)
	}

	llm := stats["llm"].(map[string]interface{})
	if llm["calls_total"].(uint64) != 1 {
		t.Errorf("expected 1 llm call, got %v", llm["calls_total"])
	}
}
