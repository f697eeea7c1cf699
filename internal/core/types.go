// Package core implements the shared machinery of the kbin binary
// container format: the type registry, sixbit and encoding codecs, the
// typed value system, the read and write byte buffers, and the streaming
// reader that turns a byte slice into a tree of node definitions.
package core

import "fmt"

// Kind identifies the base wire representation a Type decodes/encodes as,
// independent of arity. Several Types share a Kind (s32, 2s32, 3s32,
// 4s32 are all KindS32 with arity 1, 2, 3, 4).
type Kind uint8

// Base kinds, one per primitive wire representation.
const (
	KindVoid Kind = iota
	KindS8
	KindU8
	KindS16
	KindU16
	KindS32
	KindU32
	KindS64
	KindU64
	KindFloat
	KindDouble
	KindBool
	KindIP4
	KindTime
	KindString
	KindBinary
	KindAttribute
)

// Type is an immutable descriptor for one of the ~50 kbin wire types, plus
// the four structural tags (NodeStart, Attribute, NodeEnd, FileEnd).
type Type struct {
	ID    uint8
	Tag   string // e.g. "s32", "3f", "vu8"
	Alias string // alternate textual tag, e.g. "f" for Float, "" if none
	Size  uint8  // element size in bytes
	Arity uint8  // elements per value (1..16); 0 for String/Binary (variable length)
	Kind  Kind
}

// Structural type ids: the non-value markers that frame the node stream.
const (
	IDNodeStart uint8 = 1
	IDAttribute uint8 = 46
	IDNodeEnd   uint8 = 190
	IDFileEnd   uint8 = 191
)

// registry is the closed table of every wire type, indexed by id: id, tag,
// alias, size, arity, kind.
var registry = buildRegistry()

var byTag map[string]*Type

func buildRegistry() map[uint8]*Type {
	rows := []Type{
		{2, "s8", "", 1, 1, KindS8},
		{3, "u8", "", 1, 1, KindU8},
		{4, "s16", "", 2, 1, KindS16},
		{5, "u16", "", 2, 1, KindU16},
		{6, "s32", "", 4, 1, KindS32},
		{7, "u32", "", 4, 1, KindU32},
		{8, "s64", "", 8, 1, KindS64},
		{9, "u64", "", 8, 1, KindU64},
		{10, "bin", "binary", 1, 0, KindBinary},
		{11, "str", "string", 1, 0, KindString},
		{12, "ip4", "", 4, 1, KindIP4},
		{13, "time", "", 4, 1, KindTime},
		{14, "float", "f", 4, 1, KindFloat},
		{15, "double", "d", 8, 1, KindDouble},
		{16, "2s8", "", 1, 2, KindS8},
		{17, "2u8", "", 1, 2, KindU8},
		{18, "2s16", "", 2, 2, KindS16},
		{19, "2u16", "", 2, 2, KindU16},
		{20, "2s32", "", 4, 2, KindS32},
		{21, "2u32", "", 4, 2, KindU32},
		{22, "2s64", "vs64", 8, 2, KindS64},
		{23, "2u64", "vu64", 8, 2, KindU64},
		{24, "2f", "", 4, 2, KindFloat},
		{25, "2d", "vd", 8, 2, KindDouble},
		{26, "3s8", "", 1, 3, KindS8},
		{27, "3u8", "", 1, 3, KindU8},
		{28, "3s16", "", 2, 3, KindS16},
		{29, "3u16", "", 2, 3, KindU16},
		{30, "3s32", "", 4, 3, KindS32},
		{31, "3u32", "", 4, 3, KindU32},
		{32, "3s64", "", 8, 3, KindS64},
		{33, "3u64", "", 8, 3, KindU64},
		{34, "3f", "", 4, 3, KindFloat},
		{35, "3d", "", 8, 3, KindDouble},
		{36, "4s8", "", 1, 4, KindS8},
		{37, "4u8", "", 1, 4, KindU8},
		{38, "4s16", "", 2, 4, KindS16},
		{39, "4u16", "", 2, 4, KindU16},
		{40, "4s32", "vs32", 4, 4, KindS32},
		{41, "4u32", "vu32", 4, 4, KindU32},
		{42, "4s64", "", 8, 4, KindS64},
		{43, "4u64", "", 8, 4, KindU64},
		{44, "4f", "vf", 4, 4, KindFloat},
		{45, "4d", "", 8, 4, KindDouble},
		// 46 = Attribute (structural, defined below)
		{48, "vs8", "", 1, 16, KindS8},
		{49, "vu8", "", 1, 16, KindU8},
		{50, "vs16", "", 2, 8, KindS16},
		{51, "vu16", "", 2, 8, KindU16},
		{52, "bool", "b", 1, 1, KindBool},
		{53, "2b", "", 1, 2, KindBool},
		{54, "3b", "", 1, 3, KindBool},
		{55, "4b", "", 1, 4, KindBool},
		{56, "vb", "", 1, 16, KindBool},

		{IDNodeStart, "void", "", 0, 0, KindVoid},
		{IDAttribute, "attr", "", 0, 0, KindAttribute},
		{IDNodeEnd, "nodeEnd", "", 0, 0, KindVoid},
		{IDFileEnd, "fileEnd", "", 0, 0, KindVoid},
	}

	m := make(map[uint8]*Type, len(rows))
	byTag = make(map[string]*Type, len(rows)*2)
	for i := range rows {
		t := rows[i]
		m[t.ID] = &t
		// First registration for a tag or alias wins.
		if _, ok := byTag[t.Tag]; !ok {
			byTag[t.Tag] = &t
		}
		if t.Alias != "" {
			if _, ok := byTag[t.Alias]; !ok {
				byTag[t.Alias] = &t
			}
		}
	}
	return m
}

// ByID looks up a type descriptor by its wire id.
func ByID(id uint8) (*Type, error) {
	t, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrTypeUnknown, id)
	}
	return t, nil
}

// ByTag looks up a type descriptor by its textual tag or alias.
func ByTag(tag string) (*Type, error) {
	t, ok := byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: tag %q", ErrTypeUnknown, tag)
	}
	return t, nil
}

// PayloadSize returns the on-wire byte size of a single non-array value of
// this type (Size * Arity); arrays multiply further by the element count
// carried in the data buffer.
func (t *Type) PayloadSize() int {
	return int(t.Size) * int(t.Arity)
}

func (t *Type) String() string {
	return fmt.Sprintf("%s (id=%d)", t.Tag, t.ID)
}
