package buffer

import (
	"bytes"
	"errors"
)

// ErrPendingInsertion is returned when a flush is attempted while a
// segment created by CreateInsertion has not yet been resolved.
var ErrPendingInsertion = errors.New("buffer: pending insertion at flush")

// ErrInvalidOperation is returned when an insertion is resolved twice,
// or when an operation requires every segment to already be filled.
var ErrInvalidOperation = errors.New("buffer: invalid operation")

type span struct {
	start, end int
	pending    bool
}

// Segmented is an append-only byte vector paired with an ordered list of
// segments. A segment is either pending (an insertion point reserved for
// content filled in later, such as a backpatched length prefix) or
// filled (a byte range of the vector). Flushing walks the segment list
// in order, which need not match the order the underlying bytes occupy
// in the vector.
type Segmented struct {
	vector   []byte
	segments []span
}

// NewSegmented returns an empty Segmented buffer.
func NewSegmented() *Segmented {
	return &Segmented{}
}

// Insertion is a handle to a pending segment, created by CreateInsertion
// and later filled by Resolve.
type Insertion struct {
	vectorPos int
	index     int
}

// Append copies data onto the end of the vector, extending the trailing
// filled segment if it is contiguous with what is being appended, or
// creating a new one otherwise.
func (s *Segmented) Append(data []byte) {
	if len(data) == 0 {
		return
	}
	start := len(s.vector)
	s.vector = append(s.vector, data...)
	end := len(s.vector)

	if n := len(s.segments); n > 0 {
		last := &s.segments[n-1]
		if !last.pending && last.end == start {
			last.end = end
			return
		}
	}
	s.segments = append(s.segments, span{start: start, end: end})
}

// CreateInsertion reserves a pending segment and returns a handle to it.
func (s *Segmented) CreateInsertion() Insertion {
	s.segments = append(s.segments, span{pending: true})
	return Insertion{vectorPos: len(s.vector), index: len(s.segments) - 1}
}

// BytesAfterInsertion returns how many bytes have been appended to the
// vector since the given insertion was created.
func (s *Segmented) BytesAfterInsertion(i Insertion) int {
	return len(s.vector) - i.vectorPos
}

// Resolve fills the insertion's segment with data, appended to the end
// of the vector. It fails if the insertion has already been resolved.
func (s *Segmented) Resolve(i Insertion, data []byte) error {
	seg := &s.segments[i.index]
	if !seg.pending {
		return ErrInvalidOperation
	}
	if len(data) == 0 {
		seg.pending = false
		seg.start, seg.end = 0, 0
		return nil
	}
	start := len(s.vector)
	s.vector = append(s.vector, data...)
	seg.pending = false
	seg.start, seg.end = start, len(s.vector)
	return nil
}

// ReplaceVectorRange overwrites the vector bytes [a, b) with data and
// collapses every segment that referenced any part of [a, b) into a
// single filled segment covering the replacement, preserving segment
// order. It requires that every segment touching [a, b) already be
// filled (no dangling insertions inside the replaced range).
func (s *Segmented) ReplaceVectorRange(a, b int, data []byte) error {
	firstIdx, lastIdx := -1, -1
	for idx, seg := range s.segments {
		if seg.start >= b || seg.end <= a {
			continue
		}
		if seg.pending {
			return ErrInvalidOperation
		}
		if firstIdx == -1 {
			firstIdx = idx
		}
		lastIdx = idx
	}
	if firstIdx == -1 {
		return ErrInvalidOperation
	}

	delta := len(data) - (b - a)
	tail := append([]byte(nil), s.vector[b:]...)
	s.vector = append(s.vector[:a], data...)
	s.vector = append(s.vector, tail...)

	replaced := span{start: a, end: a + len(data)}
	newSegments := make([]span, 0, len(s.segments)-(lastIdx-firstIdx))
	newSegments = append(newSegments, s.segments[:firstIdx]...)
	newSegments = append(newSegments, replaced)
	for _, seg := range s.segments[lastIdx+1:] {
		if !seg.pending {
			seg.start += delta
			seg.end += delta
		}
		newSegments = append(newSegments, seg)
	}
	s.segments = newSegments
	return nil
}

// VectorLen returns the current size of the backing vector.
func (s *Segmented) VectorLen() int {
	return len(s.vector)
}

// VectorTail returns the vector bytes from position p to the end; used
// by callers (such as the stream writer's compression step) that need
// to inspect or transform the raw bytes backing one or more segments.
func (s *Segmented) VectorTail(p int) []byte {
	return s.vector[p:]
}

// Flush writes every segment, in segment order, to w. If encrypt is
// non-nil it is called once per segment, in order, to transform the
// segment bytes in place before they are written — this lets a stream
// cipher advance over the true emission order even when segments are
// not contiguous, or are out of order, within the vector.
func (s *Segmented) Flush(w interface{ Write([]byte) (int, error) }, encrypt func([]byte)) error {
	for _, seg := range s.segments {
		if seg.pending {
			return ErrPendingInsertion
		}
	}

	var buf bytes.Buffer
	for _, seg := range s.segments {
		chunk := s.vector[seg.start:seg.end]
		if encrypt != nil && len(chunk) > 0 {
			encrypt(chunk)
		}
		buf.Write(chunk)
	}
	_, err := w.Write(buf.Bytes())
	s.vector = s.vector[:0]
	s.segments = s.segments[:0]
	return err
}
