package kbin

import (
	"github.com/scigolib/kbin/internal/core"
	"github.com/scigolib/kbin/internal/utils"
	"github.com/scigolib/kbin/internal/writer"
)

// Decode parses a complete binary kbin container into its logical Node
// tree.
func Decode(data []byte) (*Node, error) {
	r, err := core.NewReader(data)
	if err != nil {
		return nil, utils.Wrap("decode: parse header", err)
	}

	root, err := r.ReadNodeDefinition()
	if err != nil {
		return nil, utils.Wrap("decode: read root node", err)
	}

	coll, err := core.BuildCollection(root, r.ReadNodeDefinition)
	if err != nil {
		return nil, utils.Wrap("decode: build node tree", err)
	}

	n, err := nodeFromCollection(coll)
	if err != nil {
		return nil, utils.Wrap("decode: resolve node values", err)
	}
	return n, nil
}

// Encode serializes root into a complete binary kbin container using opts.
func Encode(root *Node, opts Options) ([]byte, error) {
	out, err := writer.ToBinary(nodeWriteable{root}, writer.Options{
		Compression: opts.Compression,
		Encoding:    opts.Encoding,
	})
	if err != nil {
		return nil, utils.Wrap("encode: serialize node tree", err)
	}
	return out, nil
}
