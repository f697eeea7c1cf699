// Package writer serializes a kbin node tree into the dual-buffer binary
// form. It depends only on internal/core's buffer, type-registry and
// value machinery; the tree itself is described through the small
// Writeable interface so the top-level package's Node type stays free of
// a writer import cycle.
package writer

import (
	"fmt"

	"github.com/scigolib/kbin/internal/core"
)

// Writeable is implemented by the top-level Node type. It exposes just
// enough to drive recursive binary serialization without the writer
// package needing to know about Node's internal representation.
type Writeable interface {
	Key() string
	WireType() (*core.Type, bool, error)
	Value() *core.Value
	AttrPairs() [][2]string
	Children() []Writeable
}

// Options configures identifier compression and string encoding.
type Options struct {
	Compression core.Compression
	Encoding    core.Encoding
}

func writeIdentifier(nodeBuf *core.ByteBufferWrite, opts Options, name string) error {
	switch opts.Compression {
	case core.Compressed:
		packed, err := core.SixbitPack(name)
		if err != nil {
			return err
		}
		nodeBuf.WriteRaw(packed)
		return nil
	default:
		data, err := opts.Encoding.Encode(name)
		if err != nil {
			return fmt.Errorf("%w: encoding identifier %q", err, name)
		}
		if len(data) == 0 || len(data) > 256 {
			return fmt.Errorf("%w: identifier %q encodes to %d bytes", core.ErrStateInvalid, name, len(data))
		}
		length := byte(len(data)-1) | core.ArrayMask
		nodeBuf.WriteRaw([]byte{length})
		nodeBuf.WriteRaw(data)
		return nil
	}
}

func writeValue(dataBuf *core.ByteBufferWrite, opts Options, t *core.Type, isArray bool, value *core.Value) error {
	switch t.Kind {
	case core.KindBinary:
		data := value.Binary()
		return dataBuf.BufWrite(data)
	case core.KindString, core.KindAttribute:
		return dataBuf.WriteStr(opts.Encoding, value.Text())
	default:
		if isArray {
			data, err := value.ToBytes()
			if err != nil {
				return err
			}
			if err := dataBuf.BufWrite(data); err != nil {
				return err
			}
			return nil
		}
		data, err := value.ToBytes()
		if err != nil {
			return err
		}
		return dataBuf.WriteAligned(t, data)
	}
}

// writeNode recursively writes n and its attributes/children, terminating
// with a NodeEnd marker. NodeEnd and FileEnd always carry the array bit
// set on the wire, regardless of whether the node they close was itself
// an array.
func writeNode(n Writeable, opts Options, nodeBuf, dataBuf *core.ByteBufferWrite) error {
	t, isArray, err := n.WireType()
	if err != nil {
		return err
	}
	arrayMask := byte(0)
	if isArray {
		arrayMask = core.ArrayMask
	}

	nodeBuf.WriteRaw([]byte{t.ID | arrayMask})
	if err := writeIdentifier(nodeBuf, opts, n.Key()); err != nil {
		return err
	}

	if t.ID != core.IDNodeStart {
		if err := writeValue(dataBuf, opts, t, isArray, n.Value()); err != nil {
			return err
		}
	}

	attrType, err := core.ByID(core.IDAttribute)
	if err != nil {
		return err
	}
	for _, kv := range n.AttrPairs() {
		key, value := kv[0], kv[1]

		if err := dataBuf.WriteStr(opts.Encoding, value); err != nil {
			return err
		}
		nodeBuf.WriteRaw([]byte{attrType.ID})
		if err := writeIdentifier(nodeBuf, opts, key); err != nil {
			return err
		}
	}

	for _, child := range n.Children() {
		if err := writeNode(child, opts, nodeBuf, dataBuf); err != nil {
			return err
		}
	}

	nodeEndType, err := core.ByID(core.IDNodeEnd)
	if err != nil {
		return err
	}
	nodeBuf.WriteRaw([]byte{nodeEndType.ID | core.ArrayMask})
	return nil
}

// ToBinary writes root's full binary representation: the 8-byte header,
// the length-prefixed node buffer, and the length-prefixed data buffer.
func ToBinary(root Writeable, opts Options) ([]byte, error) {
	nodeBuf := core.NewByteBufferWrite()
	dataBuf := core.NewByteBufferWrite()

	if err := writeNode(root, opts, nodeBuf, dataBuf); err != nil {
		return nil, err
	}

	fileEndType, err := core.ByID(core.IDFileEnd)
	if err != nil {
		return nil, err
	}
	nodeBuf.WriteRaw([]byte{fileEndType.ID | core.ArrayMask})
	if err := nodeBuf.RealignWrites(4); err != nil {
		return nil, err
	}

	nodeBytes := nodeBuf.Bytes()
	dataBytes := dataBuf.Bytes()

	var header [8]byte
	header[0], header[1], header[2], header[3] = core.Signature, opts.Compression.Byte(), opts.Encoding.Byte(), ^opts.Encoding.Byte()
	header[4], header[5], header[6], header[7] = byte(len(nodeBytes)>>24), byte(len(nodeBytes)>>16), byte(len(nodeBytes)>>8), byte(len(nodeBytes))

	out := make([]byte, 0, len(header)+len(nodeBytes)+4+len(dataBytes))
	out = append(out, header...)
	out = append(out, nodeBytes...)
	out = append(out, byte(len(dataBytes)>>24), byte(len(dataBytes)>>16), byte(len(dataBytes)>>8), byte(len(dataBytes)))
	out = append(out, dataBytes...)

	return out, nil
}
