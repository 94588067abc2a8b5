package splitter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docuchat/internal/docuchat/splitter"
)

func TestNewValidation(t *testing.T) {
	_, err := splitter.New(0, 0)
	assert.Error(t, err)

	_, err = splitter.New(10, 10)
	assert.Error(t, err)

	_, err = splitter.New(10, -1)
	assert.Error(t, err)

	_, err = splitter.New(10, 9)
	assert.NoError(t, err)
}

func TestSplitEmpty(t *testing.T) {
	s, err := splitter.New(512, 100)
	require.NoError(t, err)

	assert.Empty(t, s.Split(""))
}

func TestSplitShortText(t *testing.T) {
	s, err := splitter.New(512, 100)
	require.NoError(t, err)

	chunks := s.Split("short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short document", chunks[0])
}

func TestSplitOverlap(t *testing.T) {
	s, err := splitter.New(10, 4)
	require.NoError(t, err)

	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := s.Split(text)

	require.Len(t, chunks, 4)
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "ghijklmnop", chunks[1])
	assert.Equal(t, "mnopqrstuv", chunks[2])
	assert.Equal(t, "stuvwxyz", chunks[3])

	// Consecutive chunks share the last 4 runes of the previous chunk.
	assert.Equal(t, chunks[0][len(chunks[0])-4:], chunks[1][:4])
}

func TestSplitMultiByte(t *testing.T) {
	s, err := splitter.New(4, 1)
	require.NoError(t, err)

	chunks := s.Split("日本語のテキスト")
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 4)
		// Chunks must remain valid UTF-8.
		assert.True(t, strings.ToValidUTF8(c, "") == c)
	}
}

func TestSplitDropsWhitespaceChunks(t *testing.T) {
	s, err := splitter.New(5, 0)
	require.NoError(t, err)

	chunks := s.Split("abcde     fghij")
	for _, c := range chunks {
		assert.NotEqual(t, "", strings.TrimSpace(c))
	}
}

func TestSplitDefaultWindow(t *testing.T) {
	s, err := splitter.New(512, 100)
	require.NoError(t, err)

	text := strings.Repeat("a", 1000)
	chunks := s.Split(text)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 512)
	assert.Len(t, chunks[1], 512)
	assert.Len(t, chunks[2], 1000-2*412)
}
