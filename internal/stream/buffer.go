package stream

import "bytes"

// ChunkBuffer assembles complete lines from raw body chunks delivered with
// arbitrary boundaries.
//
// Buffering happens at the byte level and lines are split on '\n' only, so a
// multi-byte UTF-8 sequence cut across two reads is reassembled intact before
// any []byte-to-string conversion takes place.
type ChunkBuffer struct {
	buf []byte
}

// Feed appends a chunk and returns every complete line it unlocked, in order.
// The trailing fragment after the final newline is retained for the next call.
// Carriage returns before the newline are stripped.
func (b *ChunkBuffer) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}

	b.buf = append(b.buf, chunk...)

	var lines []string
	for {
		idx := bytes.IndexByte(b.buf, '\n')
		if idx < 0 {
			break
		}

		line := b.buf[:idx]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		lines = append(lines, string(line))

		b.buf = b.buf[idx+1:]
	}

	return lines
}

// Flush returns the retained trailing fragment, if any, and resets the buffer.
// Called once at end of stream so an unterminated final record is not lost.
func (b *ChunkBuffer) Flush() (string, bool) {
	if len(b.buf) == 0 {
		return "", false
	}

	line := b.buf
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	b.buf = nil
	return string(line), true
}

// Pending reports whether an incomplete fragment is buffered.
func (b *ChunkBuffer) Pending() bool {
	return len(b.buf) > 0
}
