package core

import (
	"fmt"

	"github.com/scigolib/kbin/internal/utils"
)

// Signature is the fixed first header byte of every kbin binary container.
const Signature byte = 0xA0

// ArrayMask is OR'd into a node type byte to mark an array value, and
// AND-NOT'd out to recover the bare type id.
const ArrayMask byte = 0x40

// Compression selects how node/attribute identifiers are packed.
type Compression uint8

const (
	Compressed Compression = iota
	Uncompressed
)

const (
	compressionByteCompressed   byte = 0x42
	compressionByteUncompressed byte = 0x45
)

// CompressionFromByte maps a header byte to a Compression.
func CompressionFromByte(b byte) (Compression, error) {
	switch b {
	case compressionByteCompressed:
		return Compressed, nil
	case compressionByteUncompressed:
		return Uncompressed, nil
	default:
		return 0, fmt.Errorf("%w: compression byte 0x%02x", ErrHeaderInvalid, b)
	}
}

// Byte returns the header byte for c.
func (c Compression) Byte() byte {
	if c == Uncompressed {
		return compressionByteUncompressed
	}
	return compressionByteCompressed
}

// Reader streams NodeDefinitions out of a complete binary kbin buffer. It
// owns two independent cursors: the node buffer (identifiers and type
// tags) and the data buffer (value bytes), split at the offset the header
// declares.
type Reader struct {
	compression Compression
	encoding    Encoding

	nodeBuf *ByteBufferRead
	dataBuf *ByteBufferRead

	dataBufStart int
}

// NewReader parses the 8-byte header (plus the two length-prefixed region
// headers) and returns a Reader positioned at the start of the node
// buffer's body.
func NewReader(input []byte) (*Reader, error) {
	nodeBuf := NewByteBufferRead(input)

	sig, err := nodeBuf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", ErrHeaderInvalid, err)
	}
	if sig != Signature {
		return nil, fmt.Errorf("%w: signature byte 0x%02x", ErrHeaderInvalid, sig)
	}

	compressByte, err := nodeBuf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: compression: %v", ErrHeaderInvalid, err)
	}
	compression, err := CompressionFromByte(compressByte)
	if err != nil {
		return nil, err
	}

	encodingByte, err := nodeBuf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: encoding: %v", ErrHeaderInvalid, err)
	}
	negation, err := nodeBuf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: encoding negation: %v", ErrHeaderInvalid, err)
	}
	if negation != ^encodingByte {
		return nil, fmt.Errorf("%w: encoding negation mismatch", ErrHeaderInvalid)
	}
	encoding, err := EncodingFromByte(encodingByte)
	if err != nil {
		return nil, err
	}

	lenNode, err := nodeBuf.ReadUint32BE()
	if err != nil {
		return nil, fmt.Errorf("%w: node buffer length: %v", ErrHeaderInvalid, err)
	}

	// 8 header bytes precede the node buffer body.
	dataBufStart := int(lenNode) + 8
	if dataBufStart > len(input) {
		return nil, fmt.Errorf("%w: node buffer length %d exceeds input size", ErrTruncated, lenNode)
	}
	dataBuf := NewByteBufferRead(input[dataBufStart:])

	if _, err := dataBuf.ReadUint32BE(); err != nil {
		return nil, fmt.Errorf("%w: data buffer length: %v", ErrHeaderInvalid, err)
	}

	return &Reader{
		compression:  compression,
		encoding:     encoding,
		nodeBuf:      nodeBuf,
		dataBuf:      dataBuf,
		dataBufStart: dataBufStart,
	}, nil
}

// Encoding returns the container's declared string encoding.
func (r *Reader) Encoding() Encoding { return r.encoding }

// Compression returns the container's declared identifier compression.
func (r *Reader) Compression() Compression { return r.compression }

func (r *Reader) atNodeBufferEnd() bool {
	return r.nodeBuf.Position() >= r.dataBufStart
}

func parseNodeType(raw byte) (*Type, bool, error) {
	isArray := raw&ArrayMask == ArrayMask
	id := raw &^ ArrayMask
	t, err := ByID(id)
	if err != nil {
		return nil, false, err
	}
	return t, isArray, nil
}

func (r *Reader) readNodeType() (*Type, bool, error) {
	if r.atNodeBufferEnd() {
		return nil, false, fmt.Errorf("%w: end of node buffer", ErrTruncated)
	}
	raw, err := r.nodeBuf.ReadByte()
	if err != nil {
		return nil, false, fmt.Errorf("%w: node type: %v", ErrTruncated, err)
	}
	return parseNodeType(raw)
}

func (r *Reader) readKey() (Key, error) {
	switch r.compression {
	case Compressed:
		lengthByte, err := r.nodeBuf.ReadByte()
		if err != nil {
			return Key{}, fmt.Errorf("%w: sixbit length byte: %v", ErrTruncated, err)
		}
		n := int(lengthByte)
		size := SixbitSize{CharCount: n, ByteCount: (n*6 + 7) / 8}
		packed, err := r.nodeBuf.Get(uint32(size.ByteCount))
		if err != nil {
			return Key{}, err
		}
		return NewCompressedKey(size, packed), nil
	default:
		lengthByte, err := r.nodeBuf.ReadByte()
		if err != nil {
			return Key{}, fmt.Errorf("%w: name length: %v", ErrTruncated, err)
		}
		length := (lengthByte &^ ArrayMask) + 1
		raw, err := r.nodeBuf.Get(uint32(length))
		if err != nil {
			return Key{}, err
		}
		return NewUncompressedKey(r.encoding, raw), nil
	}
}

func (r *Reader) readNodeData(t *Type, isArray bool) ([]byte, error) {
	switch t.Kind {
	case KindAttribute, KindString, KindBinary:
		return r.dataBuf.BufRead()
	case KindVoid:
		return nil, nil
	default:
		if isArray {
			size, err := r.dataBuf.ReadUint32BE()
			if err != nil {
				return nil, fmt.Errorf("%w: array length: %v", ErrTruncated, err)
			}
			if err := utils.ValidateBufferSize(uint64(size), utils.MaxPayloadSize, "array length"); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
			}
			data, err := r.dataBuf.Get(size)
			if err != nil {
				return nil, err
			}
			if err := r.dataBuf.RealignReads(4); err != nil {
				return nil, err
			}
			return data, nil
		}
		return r.dataBuf.GetAligned(t)
	}
}

// ReadNodeDefinition reads the next node/attribute/end marker.
func (r *Reader) ReadNodeDefinition() (NodeDefinition, error) {
	t, isArray, err := r.readNodeType()
	if err != nil {
		return NodeDefinition{}, err
	}

	if t.ID == IDNodeEnd || t.ID == IDFileEnd {
		return NewStructuralDefinition(r.encoding, t), nil
	}

	key, err := r.readKey()
	if err != nil {
		return NodeDefinition{}, err
	}
	valueData, err := r.readNodeData(t, isArray)
	if err != nil {
		return NodeDefinition{}, err
	}
	return NewDefinition(r.encoding, t, isArray, key, valueData), nil
}
