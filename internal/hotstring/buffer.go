package hotstring

// minBufferSize is the smallest typed-character history a detector keeps.
const minBufferSize = 128

// charBuffer is a bounded history of recently typed characters, stored
// oldest first. It is exclusively owned by one Detector and never shared.
type charBuffer struct {
	runes []rune
	limit int
}

// newCharBuffer sizes the buffer to twice the longest registered pattern,
// with a floor of minBufferSize.
func newCharBuffer(longestPattern int) *charBuffer {
	limit := 2 * longestPattern
	if limit < minBufferSize {
		limit = minBufferSize
	}
	return &charBuffer{limit: limit}
}

// push appends a typed character, evicting the oldest one at capacity.
func (b *charBuffer) push(r rune) {
	if len(b.runes) == b.limit {
		copy(b.runes, b.runes[1:])
		b.runes = b.runes[:len(b.runes)-1]
	}
	b.runes = append(b.runes, r)
}

// pop removes the most recently typed character. Popping an empty buffer is
// a no-op, not an error.
func (b *charBuffer) pop() {
	if n := len(b.runes); n > 0 {
		b.runes = b.runes[:n-1]
	}
}

func (b *charBuffer) clear() {
	b.runes = b.runes[:0]
}

// snapshot returns the buffered characters in typed order. The slice
// aliases the buffer and must not be retained across mutations.
func (b *charBuffer) snapshot() []rune {
	return b.runes
}
