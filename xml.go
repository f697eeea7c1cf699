package kbin

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/scigolib/kbin/internal/core"
)

// ToXML renders root as the text-XML form of the node tree: every node
// carries __type (except NodeStart containers), arrays carry __count, and
// Binary values carry __size; the element's own attributes follow in
// declaration order, and the value's whitespace-separated text form
// becomes the element's character data.
func ToXML(root *Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := writeXMLNode(enc, root); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIoFailure, err)
	}
	return buf.Bytes(), nil
}

func writeXMLNode(enc *xml.Encoder, n *Node) error {
	start := xml.StartElement{Name: xml.Name{Local: n.key}}

	if n.value != nil {
		t := n.value.StandardType()
		switch t.Kind {
		case core.KindBinary:
			start.Attr = append(start.Attr, xml.Attr{
				Name: xml.Name{Local: "__size"}, Value: strconv.Itoa(len(n.value.Binary())),
			})
		default:
			if n.value.IsArray {
				start.Attr = append(start.Attr, xml.Attr{
					Name: xml.Name{Local: "__count"}, Value: strconv.Itoa(n.value.Len()),
				})
			}
		}
		if t.ID != core.IDNodeStart {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "__type"}, Value: t.Tag})
		}
	}

	for _, a := range n.attributes {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.key}, Value: a.value})
	}

	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIoFailure, err)
	}

	if n.value != nil {
		text := n.value.ToString()
		if err := enc.EncodeToken(xml.CharData([]byte(text))); err != nil {
			return fmt.Errorf("%w: %v", core.ErrIoFailure, err)
		}
	}

	for _, child := range n.children {
		if err := writeXMLNode(enc, child); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(xml.EndElement{Name: start.Name}); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIoFailure, err)
	}
	return nil
}

// xmlFrame tracks one open element while decoding: its node, the declared
// __type/__count from its start tag, and whether any character data has
// arrived yet (mirrors text_reader.rs's stack of (NodeCollection, count)).
type xmlFrame struct {
	node      *Node
	typeTag   string
	count     int
	sawText   bool
	textValue string
}

// FromXML parses the text-XML form back into a Node tree. An element with
// no __type attribute defaults to a NodeStart container unless it carries
// character data, in which case it becomes a String node.
func FromXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var stack []*xmlFrame
	var root *Node

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", core.ErrTextParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			frame, err := startXMLFrame(t)
			if err != nil {
				return nil, err
			}
			stack = append(stack, frame)

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := string(t)
			if len(bytesTrim(text)) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			top.sawText = true
			top.textValue += text

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unmatched closing tag %s", core.ErrTextParse, t.Name.Local)
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if err := finishXMLFrame(frame); err != nil {
				return nil, err
			}

			if len(stack) == 0 {
				root = frame.node
			} else {
				parent := stack[len(stack)-1]
				parent.node.AppendChild(frame.node)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: empty document", core.ErrTextParse)
	}
	return root, nil
}

func bytesTrim(s string) string {
	start, end := 0, len(s)
	for start < end && isXMLSpace(s[start]) {
		start++
	}
	for end > start && isXMLSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isXMLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func startXMLFrame(t xml.StartElement) (*xmlFrame, error) {
	n := NewNode(t.Name.Local)
	frame := &xmlFrame{node: n}

	for _, a := range t.Attr {
		switch a.Name.Local {
		case "__type":
			frame.typeTag = a.Value
		case "__count":
			count, err := strconv.Atoi(a.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: __count value %q: %v", core.ErrTextParse, a.Value, err)
			}
			frame.count = count
		case "__size":
			// Binary's byte length is redundant with the decoded hex
			// payload; kept only as a textual hint for readers.
		default:
			n.SetAttr(a.Name.Local, a.Value)
		}
	}
	return frame, nil
}

func finishXMLFrame(frame *xmlFrame) error {
	if frame.typeTag == "" {
		if frame.sawText {
			frame.typeTag = "str"
		} else {
			return nil
		}
	}

	t, err := core.ByTag(frame.typeTag)
	if err != nil {
		return err
	}
	if t.ID == core.IDNodeStart {
		return nil
	}

	isArray := frame.count > 0
	v, err := core.FromString(t, isArray, frame.count, frame.textValue)
	if err != nil {
		return err
	}
	frame.node.SetValue(v)
	return nil
}
