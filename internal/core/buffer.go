package core

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/kbin/internal/utils"
)

// ByteBufferRead is the data-buffer cursor shared by the reader's aligned
// and length-prefixed reads.
//
// Two "small value" slots (offset1 for 1-byte reads, offset2 for 2-byte
// reads) let four consecutive 1-byte reads, or two consecutive 2-byte
// reads, pack into a single 4-byte slot. The first small read that opens a
// DWORD moves the main cursor past that whole DWORD; later small reads fill
// its remaining bytes without moving the main cursor. GetAligned and
// ByteBufferWrite.WriteAligned must track these slots identically or node
// payloads silently misalign.
type ByteBufferRead struct {
	data    []byte
	pos     int
	offset1 int
	offset2 int
}

// NewByteBufferRead wraps data for sequential and aligned reads.
func NewByteBufferRead(data []byte) *ByteBufferRead {
	return &ByteBufferRead{data: data}
}

// Position returns the current cursor offset into the underlying buffer.
func (r *ByteBufferRead) Position() int { return r.pos }

func (r *ByteBufferRead) checkReadSize(start, size int) (int, error) {
	end := start + size
	if end > len(r.data) {
		return 0, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, size, start, len(r.data))
	}
	return end, nil
}

func (r *ByteBufferRead) bufReadSize(size int) ([]byte, error) {
	start := r.pos
	end, err := r.checkReadSize(start, size)
	if err != nil {
		return nil, err
	}
	data := r.data[start:end]
	r.pos = end
	return data, nil
}

// ReadByte reads and returns a single byte, advancing the cursor.
func (r *ByteBufferRead) ReadByte() (byte, error) {
	data, err := r.bufReadSize(1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// ReadUint32BE reads a big-endian uint32, advancing the cursor.
func (r *ByteBufferRead) ReadUint32BE() (uint32, error) {
	data, err := r.bufReadSize(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(data), nil
}

// Get reads size raw bytes with no length prefix and no realignment.
func (r *ByteBufferRead) Get(size uint32) ([]byte, error) {
	return r.bufReadSize(int(size))
}

// BufRead reads a uint32 big-endian length prefix followed by that many
// bytes, then realigns the cursor to the next 4-byte boundary. This is the
// framing used for string, attribute and binary payloads in the data
// buffer.
func (r *ByteBufferRead) BufRead() ([]byte, error) {
	size, err := r.ReadUint32BE()
	if err != nil {
		return nil, fmt.Errorf("%w: data block length prefix", err)
	}
	if err := utils.ValidateBufferSize(uint64(size), utils.MaxPayloadSize, "data block length prefix"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	data, err := r.bufReadSize(int(size))
	if err != nil {
		return nil, err
	}
	if err := r.RealignReads(4); err != nil {
		return nil, err
	}
	return data, nil
}

// GetAligned reads the payload for one value of t, routing 1-byte and
// 2-byte reads through the small-value slots so runs of small values pack
// into shared DWORDs instead of each consuming a full 4-byte block.
func (r *ByteBufferRead) GetAligned(t *Type) ([]byte, error) {
	if r.offset1%4 == 0 {
		r.offset1 = r.pos
	}
	if r.offset2%4 == 0 {
		r.offset2 = r.pos
	}

	oldPos := r.pos
	size := t.PayloadSize()

	var data []byte
	checkOld := true
	switch size {
	case 1:
		end, err := r.checkReadSize(r.offset1, 1)
		if err != nil {
			return nil, err
		}
		data = r.data[r.offset1:end]
		r.offset1++
	case 2:
		end, err := r.checkReadSize(r.offset2, 2)
		if err != nil {
			return nil, err
		}
		data = r.data[r.offset2:end]
		r.offset2 += 2
	default:
		var err error
		data, err = r.bufReadSize(size)
		if err != nil {
			return nil, fmt.Errorf("%w: aligned read of %s", err, t.Tag)
		}
		if err := r.RealignReads(4); err != nil {
			return nil, err
		}
		checkOld = false
	}

	if checkOld {
		trailing := r.offset1
		if r.offset2 > trailing {
			trailing = r.offset2
		}
		if oldPos < trailing {
			r.pos = trailing
			if err := r.RealignReads(4); err != nil {
				return nil, err
			}
		}
	}

	return data, nil
}

// RealignReads advances the cursor to the next multiple of size.
func (r *ByteBufferRead) RealignReads(size int) error {
	if size <= 0 {
		size = 4
	}
	for r.pos%size != 0 {
		r.pos++
	}
	return nil
}

// ByteBufferWrite is the write-side mirror of ByteBufferRead. The
// underlying buffer grows on demand; WriteAligned seeks backward to fill
// small-value slots exactly as the reader expects to find them.
type ByteBufferWrite struct {
	buf     []byte
	pos     int
	offset1 int
	offset2 int
}

// NewByteBufferWrite starts a write cursor over an empty buffer.
func NewByteBufferWrite() *ByteBufferWrite {
	return &ByteBufferWrite{}
}

// Bytes returns the accumulated output.
func (w *ByteBufferWrite) Bytes() []byte { return w.buf }

// Position returns the current cursor offset.
func (w *ByteBufferWrite) Position() int { return w.pos }

func (w *ByteBufferWrite) seek(pos int) { w.pos = pos }

func (w *ByteBufferWrite) writeBytes(data []byte) {
	end := w.pos + len(data)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:end], data)
	w.pos = end
}

func (w *ByteBufferWrite) writeByte(b byte) {
	w.writeBytes([]byte{b})
}

func (w *ByteBufferWrite) writeUint32BE(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.writeBytes(b[:])
}

// WriteRaw appends data with no framing and no realignment.
func (w *ByteBufferWrite) WriteRaw(data []byte) {
	w.writeBytes(data)
}

// BufWrite writes a uint32 big-endian length prefix followed by data, then
// pads with zero bytes to the next 4-byte boundary.
func (w *ByteBufferWrite) BufWrite(data []byte) error {
	w.writeUint32BE(uint32(len(data)))
	w.writeBytes(data)
	return w.RealignWrites(4)
}

// WriteStr encodes s with enc (which appends the trailing NUL) and writes
// it through BufWrite.
func (w *ByteBufferWrite) WriteStr(enc Encoding, s string) error {
	encoded, err := enc.Encode(s)
	if err != nil {
		return err
	}
	return w.BufWrite(encoded)
}

// WriteAligned writes the payload for one value of type t, using the same
// small-value-slot bookkeeping as GetAligned so a reader recovers the same
// bytes from the same offsets.
func (w *ByteBufferWrite) WriteAligned(t *Type, data []byte) error {
	if w.offset1%4 == 0 {
		w.offset1 = w.pos
	}
	if w.offset2%4 == 0 {
		w.offset2 = w.pos
	}

	oldPos := w.pos
	size := t.PayloadSize()
	if size != len(data) {
		return fmt.Errorf("%w: type %s expected %d bytes, got %d", ErrSizeMismatch, t.Tag, size, len(data))
	}

	checkOld := true
	switch size {
	case 1:
		if w.offset1%4 == 0 {
			w.writeUint32BE(0)
		}
		w.seek(w.offset1)
		w.writeBytes(data[:1])
		w.offset1++
	case 2:
		if w.offset2%4 == 0 {
			w.writeUint32BE(0)
		}
		w.seek(w.offset2)
		w.writeBytes(data[:2])
		w.offset2 += 2
	default:
		w.writeBytes(data)
		if err := w.RealignWrites(4); err != nil {
			return err
		}
		checkOld = false
	}

	if checkOld {
		w.seek(oldPos)
		trailing := w.offset1
		if w.offset2 > trailing {
			trailing = w.offset2
		}
		if oldPos < trailing {
			w.seek(trailing)
			if err := w.RealignWrites(4); err != nil {
				return err
			}
		}
	}

	return nil
}

// RealignWrites pads the buffer with zero bytes until the cursor sits on a
// multiple of size.
func (w *ByteBufferWrite) RealignWrites(size int) error {
	if size <= 0 {
		size = 4
	}
	for w.pos%size != 0 {
		w.writeByte(0)
	}
	return nil
}
