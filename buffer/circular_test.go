package buffer

import "testing"

func TestCircularFillAndConsume(t *testing.T) {
	c := NewCircular(8)
	n := copy(c.Space(), []byte("1234"))
	c.Fill(n)
	if got := string(c.Data()); got != "1234" {
		t.Fatalf("Data() = %q, want %q", got, "1234")
	}

	c.Consume(2)
	if got := string(c.Data()); got != "34" {
		t.Fatalf("Data() after consume = %q, want %q", got, "34")
	}

	// Writing past available space without shifting first should still
	// succeed by shifting internally.
	n, _ = c.Write([]byte("567890"))
	if got := string(c.Data()); got != "34567890" {
		t.Fatalf("Data() after second fill = %q, want %q", got, "34567890")
	}
}

func TestCircularShiftOnConsume(t *testing.T) {
	c := NewCircular(8)
	n := copy(c.Space(), []byte("12345678"))
	c.Fill(n)
	c.Consume(5) // crosses capacity/2, should shift

	if c.position != 0 {
		t.Fatalf("expected shift to reset position to 0, got %d", c.position)
	}
	if got := string(c.Data()); got != "678" {
		t.Fatalf("Data() = %q, want %q", got, "678")
	}
}

func TestCircularConsumeWithoutShift(t *testing.T) {
	c := NewCircular(8)
	n := copy(c.Space(), []byte("12345678"))
	c.Fill(n)
	c.ConsumeNoShift(5)

	if c.position == 0 {
		t.Fatal("expected ConsumeNoShift to leave position advanced without shifting")
	}
	if got := string(c.Data()); got != "678" {
		t.Fatalf("Data() = %q, want %q", got, "678")
	}
}

func TestCircularGrow(t *testing.T) {
	c := NewCircular(4)
	if c.Grow(4) {
		t.Fatal("Grow to same size should be a no-op")
	}
	n := copy(c.Space(), []byte("ab"))
	c.Fill(n)
	if !c.Grow(16) {
		t.Fatal("Grow to larger size should report growth")
	}
	if c.Capacity() != 16 {
		t.Fatalf("Capacity() = %d, want 16", c.Capacity())
	}
	if got := string(c.Data()); got != "ab" {
		t.Fatalf("Data() after grow = %q, want %q", got, "ab")
	}
}

func TestCircularReplaceSlice(t *testing.T) {
	c := NewCircular(16)
	n := copy(c.Space(), []byte("hello world"))
	c.Fill(n)

	if _, ok := c.ReplaceSlice(6, 11, []byte("there!")); !ok {
		t.Fatal("ReplaceSlice should succeed")
	}
	if got := string(c.Data()); got != "hello there!" {
		t.Fatalf("Data() after replace = %q, want %q", got, "hello there!")
	}
}

func TestCircularReadWrite(t *testing.T) {
	c := NewCircular(4)
	n, err := c.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write() = (%d, %v), want (5, nil)", n, err)
	}

	out := make([]byte, 5)
	n, err = c.Read(out)
	if err != nil || n != 5 || string(out) != "hello" {
		t.Fatalf("Read() = (%q, %d, %v)", out[:n], n, err)
	}
}
