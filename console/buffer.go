package console

// LineBuffer holds one line of input with a fixed capacity. A buffer of size n keeps at
// most n-1 bytes, the same as a NUL-terminated char array of n bytes; anything past
// that is dropped.
type LineBuffer struct {
	buf  []byte
	size int
}

// NewLineBuffer allocates a buffer of the given size. Sizes below 1 are treated as 1,
// which holds nothing.
func NewLineBuffer(size int) *LineBuffer {
	if size < 1 {
		size = 1
	}
	return &LineBuffer{
		buf:  make([]byte, 0, size-1),
		size: size,
	}
}

// Append stores ch and reports whether there was room for it.
func (b *LineBuffer) Append(ch byte) bool {
	if b.Full() {
		return false
	}
	b.buf = append(b.buf, ch)
	return true
}

func (b *LineBuffer) Full() bool {
	return len(b.buf) >= b.size-1
}

func (b *LineBuffer) Len() int {
	return len(b.buf)
}

// Cap is the number of bytes the buffer can hold.
func (b *LineBuffer) Cap() int {
	return b.size - 1
}

func (b *LineBuffer) Reset() {
	b.buf = b.buf[:0]
}

func (b *LineBuffer) String() string {
	return string(b.buf)
}
