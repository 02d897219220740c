package chunker

import (
	"errors"
	"regexp"
	"strings"

	"ai-qa-agent-be/internal/entity"
)

var (
	// ErrEmptyInput means the source yielded no extractable text at all.
	ErrEmptyInput = errors.New("chunker: no extractable text in input")
	// ErrNoChunks means splitting produced zero chunks. Distinct from
	// ErrEmptyInput so callers can tell a bad source file from bad
	// splitting parameters.
	ErrNoChunks = errors.New("chunker: splitting produced no chunks")
)

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Config holds the splitting parameters. Sizes are in runes, not bytes.
type Config struct {
	ChunkSize int
	Overlap   int
}

// Chunker splits raw document text into an ordered sequence of overlapping
// chunks. It attempts boundary-aware splitting (paragraph, then sentence,
// then word) before falling back to hard character cuts, so semantic units
// are not severed mid-way.
type Chunker struct {
	size     int
	overlap  int
	sentence *regexp.Regexp
	parabrk  *regexp.Regexp
}

func New(cfg Config) *Chunker {
	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := cfg.Overlap
	if overlap < 0 || overlap >= size {
		overlap = 0 // fallback if overlap >= chunk size
	}
	return &Chunker{
		size:     size,
		overlap:  overlap,
		sentence: regexp.MustCompile(`[^.!?]+[.!?]*\s*`),
		parabrk:  regexp.MustCompile(`\n{2,}`),
	}
}

// Split produces the chunk sequence for one document. Every chunk carries its
// absolute position and the total count so downstream consumers can
// reconstruct provenance on their own.
func (c *Chunker) Split(documentKey, text string) ([]*entity.Chunk, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	units := c.units(trimmed)
	texts := c.pack(units)
	if len(texts) == 0 {
		return nil, ErrNoChunks
	}

	chunks := make([]*entity.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = &entity.Chunk{
			Text:          t,
			SequenceIndex: i,
			TotalChunks:   len(texts),
			DocumentKey:   documentKey,
		}
	}
	return chunks, nil
}

// units breaks the text into pieces that each fit within one chunk,
// preferring the largest boundary that fits.
func (c *Chunker) units(text string) []string {
	var units []string
	for _, para := range c.parabrk.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if runeLen(para) <= c.size {
			units = append(units, para)
			continue
		}
		for _, sent := range c.sentence.FindAllString(para, -1) {
			sent = strings.TrimSpace(sent)
			if sent == "" {
				continue
			}
			if runeLen(sent) <= c.size {
				units = append(units, sent)
				continue
			}
			for _, word := range strings.Fields(sent) {
				if runeLen(word) <= c.size {
					units = append(units, word)
					continue
				}
				units = append(units, c.hardCut(word)...)
			}
		}
	}
	return units
}

// pack greedily joins units into chunks of at most 'size' runes, carrying
// trailing units up to the overlap budget into the next chunk.
func (c *Chunker) pack(units []string) []string {
	var texts []string
	var cur []string
	curLen := 0

	for _, u := range units {
		l := runeLen(u)
		if curLen > 0 && curLen+1+l > c.size {
			texts = append(texts, strings.Join(cur, " "))
			cur, curLen = c.carryOverlap(cur, l)
		}
		if curLen == 0 {
			curLen = l
		} else {
			curLen += 1 + l
		}
		cur = append(cur, u)
	}
	if curLen > 0 {
		texts = append(texts, strings.Join(cur, " "))
	}
	return texts
}

// carryOverlap selects the trailing units of an emitted chunk that fit in
// the overlap budget without pushing the next chunk past the size limit.
// nextLen is the length of the unit about to be added.
func (c *Chunker) carryOverlap(cur []string, nextLen int) ([]string, int) {
	if c.overlap == 0 {
		return nil, 0
	}
	var tail []string
	tailLen := 0
	for i := len(cur) - 1; i >= 0; i-- {
		l := runeLen(cur[i])
		joined := l
		if tailLen > 0 {
			joined = tailLen + 1 + l
		}
		if joined > c.overlap {
			break
		}
		tail = append([]string{cur[i]}, tail...)
		tailLen = joined
	}
	// no forward progress if the whole chunk would be carried over
	if len(tail) == len(cur) {
		return nil, 0
	}
	if tailLen > 0 && tailLen+1+nextLen > c.size {
		return nil, 0
	}
	return tail, tailLen
}

// hardCut slices an oversized token into size-bounded rune windows, the
// last-resort splitting level.
func (c *Chunker) hardCut(token string) []string {
	runes := []rune(token)
	var parts []string
	for i := 0; i < len(runes); i += c.size {
		end := i + c.size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[i:end]))
	}
	return parts
}

func runeLen(s string) int {
	return len([]rune(s))
}
