package chunker

import "fmt"

// WindowChunker splits text into fixed-size character windows with overlap.
// Window boundaries are rune positions, so multi-byte text never gets cut
// mid-character.
type WindowChunker struct {
	size    int
	overlap int
}

// NewWindowChunker validates the chunking parameters up front. An invalid
// size or overlap is a configuration error, not something to paper over at
// split time.
func NewWindowChunker(size, overlap int) (*WindowChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunker: size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunker: overlap must be in [0, %d), got %d", size, overlap)
	}
	return &WindowChunker{size: size, overlap: overlap}, nil
}

// Split returns the document as an ordered sequence of chunks. Adjacent
// chunks share the configured overlap; the final chunk may be shorter than
// the window size. An empty document yields no chunks.
func (c *WindowChunker) Split(document string) []string {
	runes := []rune(document)
	if len(runes) == 0 {
		return nil
	}
	step := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
