// Package buffer provides the low-level byte-buffering primitives the
// codec is built on: a shifting circular read buffer and a segmented
// write buffer with deferred insertion points for backpatched lengths.
package buffer

import "errors"

// ErrOutOfSpace is returned when a write would exceed capacity and the
// buffer is not permitted to grow to accommodate it.
var ErrOutOfSpace = errors.New("buffer: out of space")

// Circular is a contiguous byte region with a read cursor (position) and
// a write cursor (end), satisfying 0 <= position <= end <= capacity.
// Callers write into Space() and call Fill(n) to commit the write; they
// read from Data() and call Consume(n) to release bytes already used.
type Circular struct {
	memory   []byte
	position int
	end      int
}

// NewCircular allocates a Circular with the given starting capacity.
func NewCircular(capacity int) *Circular {
	return &Circular{memory: make([]byte, capacity)}
}

// Capacity returns the total size of the backing region.
func (c *Circular) Capacity() int {
	return len(c.memory)
}

// AvailableData returns the number of unread bytes currently buffered.
func (c *Circular) AvailableData() int {
	return c.end - c.position
}

// AvailableSpace returns the number of bytes that can be written before
// the buffer must shift or grow.
func (c *Circular) AvailableSpace() int {
	return len(c.memory) - c.end
}

// Data returns the unread region [position, end). The slice is only
// valid until the next call that mutates the buffer.
func (c *Circular) Data() []byte {
	return c.memory[c.position:c.end]
}

// Space returns the writable region [end, capacity). The slice is only
// valid until the next call that mutates the buffer.
func (c *Circular) Space() []byte {
	return c.memory[c.end:]
}

// Fill commits n bytes written into Space, advancing end. It shifts the
// buffer first if the write would not otherwise fit, then grows it if
// shifting alone is insufficient.
func (c *Circular) Fill(n int) {
	if n > c.AvailableSpace() {
		c.Shift()
	}
	if n > c.AvailableSpace() {
		c.Grow(c.position + c.AvailableData() + n)
	}
	c.end += n
}

// Consume releases n bytes from the front of the unread region,
// advancing position. It clamps n to AvailableData. If position has
// passed the midpoint of the buffer, the remaining data is shifted to
// the origin to reclaim space.
func (c *Circular) Consume(n int) {
	if n > c.AvailableData() {
		n = c.AvailableData()
	}
	c.position += n
	if c.position > len(c.memory)/2 {
		c.Shift()
	}
}

// ConsumeNoShift behaves like Consume but never triggers a shift. Used
// by callers who are about to issue their own Fill and would rather let
// that call decide whether a shift is warranted.
func (c *Circular) ConsumeNoShift(n int) {
	if n > c.AvailableData() {
		n = c.AvailableData()
	}
	c.position += n
}

// Shift moves the unread region to the start of the backing array,
// reclaiming everything before position as free space.
func (c *Circular) Shift() {
	if c.position == 0 {
		return
	}
	n := copy(c.memory, c.memory[c.position:c.end])
	c.position = 0
	c.end = n
}

// Grow enlarges the backing array to at least newCapacity, preserving
// the unread region. It is a no-op if the buffer is already big enough.
func (c *Circular) Grow(newCapacity int) bool {
	if newCapacity <= len(c.memory) {
		return false
	}
	next := make([]byte, newCapacity)
	copy(next, c.memory)
	c.memory = next
	return true
}

// ReplaceSlice overwrites the data sub-range [a, b) (relative to
// position) with the given bytes, growing or shrinking the occupied
// region as needed, and returns the new AvailableData. When the result
// does not fit within capacity the backing array is grown to hold it, so
// size never causes a failure; it reports false only when [a, b) does not
// lie within the unread region.
func (c *Circular) ReplaceSlice(a, b int, data []byte) (int, bool) {
	avail := c.AvailableData()
	if a < 0 || b < a || b > avail {
		return 0, false
	}
	delta := len(data) - (b - a)
	if c.end+delta > len(c.memory) {
		if !c.Grow(c.position + avail + delta) {
			return 0, false
		}
	}

	tailStart := c.position + b
	tailLen := c.end - tailStart
	newTailStart := c.position + a + len(data)

	// Move the tail out of the way first when the replacement grows the
	// region, so it isn't clobbered by the copy of `data`.
	if delta > 0 {
		copy(c.memory[newTailStart:newTailStart+tailLen], c.memory[tailStart:tailStart+tailLen])
		copy(c.memory[c.position+a:], data)
	} else {
		copy(c.memory[c.position+a:], data)
		copy(c.memory[newTailStart:newTailStart+tailLen], c.memory[tailStart:tailStart+tailLen])
	}

	c.end += delta
	return c.AvailableData(), true
}

// Read implements io.Reader by draining buffered data without touching
// the underlying source; it returns io.EOF-free semantics (0, nil) when
// empty, matching the buffer's role as an in-memory staging area rather
// than a stream terminator.
func (c *Circular) Read(p []byte) (int, error) {
	n := copy(p, c.Data())
	c.Consume(n)
	return n, nil
}

// Write implements io.Writer by growing as needed and appending.
func (c *Circular) Write(p []byte) (int, error) {
	if len(p) > c.AvailableSpace() {
		c.Shift()
	}
	if len(p) > c.AvailableSpace() {
		c.Grow(c.position + c.AvailableData() + len(p))
	}
	n := copy(c.Space(), p)
	c.Fill(n)
	return n, nil
}
