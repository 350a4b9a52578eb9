package hotstring

import "testing"

func TestCharBufferEvictsOldest(t *testing.T) {
	b := newCharBuffer(1)
	if b.limit != minBufferSize {
		t.Fatalf("limit = %d, want floor %d", b.limit, minBufferSize)
	}

	for i := 0; i < b.limit; i++ {
		b.push('a')
	}
	b.push('z')

	snap := b.snapshot()
	if len(snap) != b.limit {
		t.Fatalf("len(snapshot) = %d, want %d", len(snap), b.limit)
	}
	if snap[len(snap)-1] != 'z' {
		t.Errorf("newest rune = %q, want 'z'", snap[len(snap)-1])
	}
}

func TestCharBufferCapacityTracksLongestPattern(t *testing.T) {
	b := newCharBuffer(100)
	if b.limit != 200 {
		t.Errorf("limit = %d, want 200", b.limit)
	}
}

func TestCharBufferPopOnEmptyIsNoop(t *testing.T) {
	b := newCharBuffer(1)
	b.pop()
	b.pop()
	if len(b.snapshot()) != 0 {
		t.Error("buffer should stay empty")
	}

	b.push('x')
	b.pop()
	if len(b.snapshot()) != 0 {
		t.Error("pop should remove the pushed rune")
	}
}

func TestCharBufferClear(t *testing.T) {
	b := newCharBuffer(1)
	for _, r := range "hello" {
		b.push(r)
	}
	b.clear()
	if len(b.snapshot()) != 0 {
		t.Error("clear should empty the buffer")
	}
}
