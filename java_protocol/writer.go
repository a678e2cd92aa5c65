package java_protocol

import (
	"bytes"
	"compress/zlib"
	"crypto/cipher"
	"io"

	"github.com/go-mclib/protocol/buffer"
)

// StreamWriter appends encoded fields into a segmented buffer, supports
// insertion points for fields whose value (typically a varint length) is
// only known once everything after them has been written, and flushes
// with optional encryption. See spec §4.5.
type StreamWriter struct {
	seg    *buffer.Segmented
	sink   io.Writer
	cipher cipher.Stream

	compressionEnabled   bool
	compressionThreshold int
}

// NewStreamWriter returns a writer that flushes to sink.
func NewStreamWriter(sink io.Writer) *StreamWriter {
	return &StreamWriter{seg: buffer.NewSegmented(), sink: sink}
}

// Encrypt arms the writer with a cipher; Flush encrypts every segment, in
// emission order, before writing it to the sink.
func (w *StreamWriter) Encrypt(c cipher.Stream) {
	w.cipher = c
}

// SetCompressionThreshold enables the compressed packet framing with the
// given threshold (bytes). Passing a negative value disables compression.
func (w *StreamWriter) SetCompressionThreshold(threshold int) {
	w.compressionEnabled = threshold >= 0
	w.compressionThreshold = threshold
}

// Append copies bytes onto the end of the write buffer.
func (w *StreamWriter) Append(data []byte) {
	w.seg.Append(data)
}

// CreateInsertion reserves a segment to be filled later by Resolve.
func (w *StreamWriter) CreateInsertion() buffer.Insertion {
	return w.seg.CreateInsertion()
}

// InsertVarInt32 resolves insertion with the varint encoding of n,
// returning the number of bytes written.
func (w *StreamWriter) InsertVarInt32(insertion buffer.Insertion, n int32) (int, error) {
	size := varIntSize(n)
	encoded := make([]byte, 0, size)
	v := uint32(n)
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		encoded = append(encoded, b)
		if v == 0 {
			break
		}
	}
	if err := w.seg.Resolve(insertion, encoded); err != nil {
		return 0, err
	}
	return len(encoded), nil
}

// PacketInsertion is the pair of insertion points reserved by StartPacket:
// a mandatory raw_length prefix (the outer frame length, emitted first on
// the wire) and, when compression is enabled, a following
// uncompressed_length prefix.
type PacketInsertion struct {
	rawLength          buffer.Insertion
	uncompressedLength *buffer.Insertion
	bodyStart          int
}

// StartPacket reserves the outer frame's length insertion(s) before the
// caller appends the packet ID and body. The outer raw_length insertion is
// created first so it is emitted first on the wire, ahead of
// uncompressed_length.
func (w *StreamWriter) StartPacket() PacketInsertion {
	pi := PacketInsertion{}
	pi.rawLength = w.seg.CreateInsertion()
	if w.compressionEnabled {
		ins := w.seg.CreateInsertion()
		pi.uncompressedLength = &ins
	}
	pi.bodyStart = w.seg.VectorLen()
	return pi
}

// CompletePacket resolves a PacketInsertion once the packet ID and body
// have been appended, applying the compression envelope described in
// spec §4.5/§4.6:
//
//   - compression disabled: raw_length = original body length.
//   - compression enabled, body >= threshold: attempt to zlib-compress
//     the body; if the result is strictly smaller, replace the body with
//     the compressed bytes and resolve uncompressed_length = original
//     length, raw_length = compressed size + varint size of that length.
//   - otherwise: resolve uncompressed_length = 0, raw_length = original
//     length + varint size of 0 (the fallback, never-larger-than-
//     uncompressed branch).
func (w *StreamWriter) CompletePacket(pi PacketInsertion) error {
	originalLen := w.seg.BytesAfterInsertion(pi.rawLength)

	if !w.compressionEnabled {
		_, err := w.InsertVarInt32(pi.rawLength, int32(originalLen))
		return err
	}

	if originalLen >= w.compressionThreshold && originalLen > 0 {
		body := w.seg.VectorTail(pi.bodyStart)
		compressed := compressZlib(body)
		if len(compressed) < len(body) {
			if err := w.seg.ReplaceVectorRange(pi.bodyStart, pi.bodyStart+len(body), compressed); err != nil {
				return err
			}
			if _, err := w.InsertVarInt32(*pi.uncompressedLength, int32(originalLen)); err != nil {
				return err
			}
			rawLen := len(compressed) + varIntSize(int32(originalLen))
			_, err := w.InsertVarInt32(pi.rawLength, int32(rawLen))
			return err
		}
	}

	if _, err := w.InsertVarInt32(*pi.uncompressedLength, 0); err != nil {
		return err
	}
	_, err := w.InsertVarInt32(pi.rawLength, int32(originalLen+varIntSize(0)))
	return err
}

// Flush writes every segment to the sink in emission order, encrypting
// each segment in place first if a cipher is armed. The cipher's state
// therefore advances over the true wire byte order even when segments
// are stored out of order in the backing vector.
func (w *StreamWriter) Flush() error {
	var encrypt func([]byte)
	if w.cipher != nil {
		encrypt = func(b []byte) { w.cipher.XORKeyStream(b, b) }
	}
	return w.seg.Flush(w.sink, encrypt)
}

func compressZlib(data []byte) []byte {
	var buf bytes.Buffer
	zw, _ := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}
