package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyInput(t *testing.T) {
	c := New(Config{ChunkSize: 100, Overlap: 20})

	_, err := c.Split("doc1", "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = c.Split("doc1", "   \n\n\t  ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	c := New(Config{ChunkSize: 1000, Overlap: 200})

	chunks, err := c.Split("doc1", "A short document.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "A short document.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].SequenceIndex)
	assert.Equal(t, 1, chunks[0].TotalChunks)
	assert.Equal(t, "doc1", chunks[0].DocumentKey)
}

func TestSplitLongTextRespectsSizeAndOrdering(t *testing.T) {
	c := New(Config{ChunkSize: 120, Overlap: 30})

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
	}

	chunks, err := c.Split("doc1", b.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk.Text)), 120, "chunk %d too large", i)
		assert.Equal(t, i, chunk.SequenceIndex)
		assert.Equal(t, len(chunks), chunk.TotalChunks)
		assert.Equal(t, "doc1", chunk.DocumentKey)
	}
}

func TestSplitCarriesOverlapBetweenChunks(t *testing.T) {
	c := New(Config{ChunkSize: 100, Overlap: 40})

	text := "First sentence here. Second sentence follows. Third one arrives. " +
		"Fourth sentence now. Fifth sentence ends. Sixth sentence closes."

	chunks, err := c.Split("doc1", text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// the start of each subsequent chunk repeats the tail of the previous one
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		head := strings.SplitN(chunks[i].Text, ". ", 2)[0]
		assert.Contains(t, prev, head, "chunk %d does not overlap its predecessor", i)
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	c := New(Config{ChunkSize: 60, Overlap: 0})

	text := "First paragraph content stays whole.\n\nSecond paragraph content stays whole."
	chunks, err := c.Split("doc1", text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "First paragraph content stays whole.", chunks[0].Text)
	assert.Equal(t, "Second paragraph content stays whole.", chunks[1].Text)
}

func TestSplitHardCutsOversizedToken(t *testing.T) {
	c := New(Config{ChunkSize: 10, Overlap: 0})

	chunks, err := c.Split("doc1", strings.Repeat("x", 25))
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, strings.Repeat("x", 10), chunks[0].Text)
	assert.Equal(t, strings.Repeat("x", 10), chunks[1].Text)
	assert.Equal(t, strings.Repeat("x", 5), chunks[2].Text)
}

func TestNewFallsBackOnBadConfig(t *testing.T) {
	c := New(Config{ChunkSize: 0, Overlap: -5})
	assert.Equal(t, DefaultChunkSize, c.size)
	assert.Equal(t, 0, c.overlap)

	// overlap >= size is ignored rather than looping forever
	c = New(Config{ChunkSize: 50, Overlap: 80})
	assert.Equal(t, 0, c.overlap)
}
