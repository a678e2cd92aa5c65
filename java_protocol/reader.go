package java_protocol

import (
	"bytes"
	"compress/zlib"
	"crypto/cipher"
	"fmt"
	"io"

	"github.com/go-mclib/protocol/buffer"
	ns "github.com/go-mclib/protocol/net_structures"
)

// readChunk is the largest single pull the reader issues against its byte
// source per fill attempt. Bounding it keeps a maliciously large declared
// packet length from forcing one huge blocking read.
const readChunk = 4096

// StreamReader pulls bytes from a source, optionally decrypting them as
// they enter the buffer, and exposes them through a current-packet budget
// that every field read is checked against. See spec §4.4.
type StreamReader struct {
	buf    *buffer.Circular
	source io.Reader
	cipher cipher.Stream

	hasRemaining bool
	remaining    int

	compressionEnabled bool
}

// NewStreamReader returns a reader pulling from source.
func NewStreamReader(source io.Reader) *StreamReader {
	return &StreamReader{
		buf:    buffer.NewCircular(4096),
		source: source,
	}
}

// Decrypt arms the reader with a cipher; every byte pulled into the
// buffer from this point on is decrypted before being made available to
// callers.
func (r *StreamReader) Decrypt(c cipher.Stream) {
	r.cipher = c
}

// SetCompressionEnabled turns the compressed packet-header framing on or
// off for subsequent PacketHeader calls.
func (r *StreamReader) SetCompressionEnabled(enabled bool) {
	r.compressionEnabled = enabled
}

// Data returns a borrowed slice of the next n bytes, pulling from the
// source as needed. It fails with ErrReadPastPacket if n exceeds the
// current packet's remaining budget, and with ErrEndOfData if the source
// closes before n bytes are available.
func (r *StreamReader) Data(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length", ErrInvalidLengthPrefix)
	}
	if r.hasRemaining && n > r.remaining {
		return nil, ErrReadPastPacket
	}
	for r.buf.AvailableData() < n {
		want := n - r.buf.AvailableData()
		if want > readChunk {
			want = readChunk
		}
		chunk := make([]byte, want)
		read, err := r.source.Read(chunk)
		if read > 0 {
			chunk = chunk[:read]
			if r.cipher != nil {
				r.cipher.XORKeyStream(chunk, chunk)
			}
			r.buf.Write(chunk)
		}
		if read == 0 {
			if err == nil {
				err = io.EOF
			}
			return nil, fmt.Errorf("%w: %v", ErrEndOfData, err)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: %v", ErrEndOfData, err)
		}
	}
	return r.buf.Data()[:n], nil
}

// Consume advances past n bytes already returned by Data, decrementing
// the current packet's remaining budget.
func (r *StreamReader) Consume(n int) {
	r.buf.Consume(n)
	if r.hasRemaining {
		r.remaining -= n
	}
}

// ReadVarInt32 reads a LEB128 varint one byte at a time via Data/Consume.
func (r *StreamReader) ReadVarInt32() (int32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.Data(1)
		if err != nil {
			return 0, err
		}
		cur := b[0]
		r.Consume(1)
		result |= uint32(cur&0x7F) << shift
		if cur&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 32 {
			return 0, ErrInvalidVarint
		}
	}
	return int32(result), nil
}

func varIntSize(n int32) int {
	v := uint32(n)
	size := 1
	for v >= 0x80 {
		v >>= 7
		size++
	}
	return size
}

// PacketHeader reads the next frame's length and packet ID, first
// discarding any unread remainder of the previous packet. If compression
// is enabled it also reads and resolves the uncompressed_length prefix,
// inflating the body in place when it is nonzero. After this call,
// current-packet reads are bounded to the (possibly inflated) body size,
// not counting the packet ID itself which has already been consumed.
func (r *StreamReader) PacketHeader() (packetID int32, err error) {
	if err := r.ConsumeRemainder(); err != nil {
		return 0, err
	}

	length, err := r.ReadVarInt32()
	if err != nil {
		return 0, err
	}
	if length < 0 {
		return 0, ErrInvalidLengthPrefix
	}

	r.hasRemaining = true
	r.remaining = int(length)

	if r.compressionEnabled {
		uncompressedLength, err := r.ReadVarInt32()
		if err != nil {
			return 0, err
		}
		if uncompressedLength != 0 {
			compressedSize := r.remaining
			compressed, err := r.Data(compressedSize)
			if err != nil {
				return 0, err
			}
			inflated, err := inflateZlib(compressed, int(uncompressedLength))
			if err != nil {
				return 0, err
			}
			if _, ok := r.buf.ReplaceSlice(0, compressedSize, inflated); !ok {
				return 0, fmt.Errorf("%w: could not splice inflated packet body", ErrCompressedDataTooLarge)
			}
			r.remaining = len(inflated)
		}
	}

	id, err := r.ReadVarInt32()
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ConsumeRemainder discards any bytes left unread in the current packet
// body, reading (and decrypting) them from the source if they have not
// yet been buffered. This keeps the local cipher state byte-for-byte in
// step with the peer's even on a path where the body is never fully
// parsed (see spec §9, resolved open question).
func (r *StreamReader) ConsumeRemainder() error {
	if !r.hasRemaining {
		return nil
	}
	for r.remaining > 0 {
		n := r.remaining
		if n > readChunk {
			n = readChunk
		}
		if _, err := r.Data(n); err != nil {
			return err
		}
		r.Consume(n)
	}
	r.hasRemaining = false
	return nil
}

// ReadBody consumes and returns the remainder of the current packet body
// as an owned copy, for handing to the reflection-based packet
// unmarshaler. Returns an empty slice if PacketHeader has not been
// called or the body has already been fully consumed.
func (r *StreamReader) ReadBody() (ns.ByteArray, error) {
	if !r.hasRemaining || r.remaining == 0 {
		return ns.ByteArray{}, nil
	}
	data, err := r.Data(r.remaining)
	if err != nil {
		return nil, err
	}
	body := make(ns.ByteArray, len(data))
	copy(body, data)
	r.Consume(len(body))
	return body, nil
}

// PeekPrefix returns the next n bytes without consuming them (failing if
// the source ends before n bytes arrive), for
// protocol-sniffing before PacketHeader has been called (the Open state's
// HTTP GET probe, see §4.9).
func (r *StreamReader) PeekPrefix(n int) ([]byte, error) {
	return r.Data(n)
}

func inflateZlib(compressed []byte, expected int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressedDataTooLarge, err)
	}
	defer zr.Close()

	out := make([]byte, 0, expected)
	limited := io.LimitReader(zr, int64(expected)+1)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, limited); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressedDataTooLarge, err)
	}
	if buf.Len() > expected {
		return nil, ErrCompressedDataTooLarge
	}
	return buf.Bytes(), nil
}
