package core

import "fmt"

// Key is a node or attribute identifier as read from the node buffer,
// carrying whatever it needs to lazily decode back to text: either a
// sixbit-packed compressed identifier, or raw encoded bytes for the
// uncompressed variant.
type Key struct {
	Compressed bool

	// Compressed form.
	sixbitSize SixbitSize
	packed     []byte

	// Uncompressed form.
	encoding Encoding
	raw      []byte
}

// NewCompressedKey builds a Key from sixbit-packed identifier bytes.
func NewCompressedKey(size SixbitSize, packed []byte) Key {
	return Key{Compressed: true, sixbitSize: size, packed: packed}
}

// NewUncompressedKey builds a Key from raw encoded identifier bytes.
func NewUncompressedKey(enc Encoding, raw []byte) Key {
	return Key{Compressed: false, encoding: enc, raw: raw}
}

// Text decodes the identifier to its string form.
func (k Key) Text() (string, error) {
	if k.Compressed {
		return SixbitUnpack(k.packed, k.sixbitSize)
	}
	return k.encoding.Decode(StripTrailingNULs(k.raw))
}

// NodeDefinition is one parsed entry from the node buffer: a type tag, the
// array flag, and (for everything but NodeEnd/FileEnd) an identifier key
// plus its raw value-buffer bytes.
type NodeDefinition struct {
	Encoding Encoding
	Type     *Type
	IsArray  bool

	HasData  bool
	Key      Key
	ValueRaw []byte
}

// NewStructuralDefinition builds a NodeDefinition for NodeEnd/FileEnd,
// which carry no identifier or value.
func NewStructuralDefinition(enc Encoding, t *Type) NodeDefinition {
	return NodeDefinition{Encoding: enc, Type: t}
}

// NewDefinition builds a NodeDefinition carrying an identifier and value
// bytes.
func NewDefinition(enc Encoding, t *Type, isArray bool, key Key, valueRaw []byte) NodeDefinition {
	return NodeDefinition{
		Encoding: enc,
		Type:     t,
		IsArray:  isArray,
		HasData:  true,
		Key:      key,
		ValueRaw: valueRaw,
	}
}

// KeyText decodes the definition's identifier, if it has one.
func (d *NodeDefinition) KeyText() (string, error) {
	if !d.HasData {
		return "", nil
	}
	return d.Key.Text()
}

// Value decodes the definition's value bytes into a typed Value.
func (d *NodeDefinition) Value() (*Value, error) {
	if !d.HasData {
		return nil, fmt.Errorf("%w: %s carries no value", ErrStateInvalid, d.Type.Tag)
	}
	switch d.Type.Kind {
	case KindAttribute:
		s, err := d.Encoding.Decode(StripTrailingNULs(d.ValueRaw))
		if err != nil {
			return nil, err
		}
		return NewAttribute(s), nil
	case KindString:
		s, err := d.Encoding.Decode(StripTrailingNULs(d.ValueRaw))
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	default:
		return FromBytes(d.Type, d.IsArray, d.ValueRaw, d.Encoding)
	}
}
