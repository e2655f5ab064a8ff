package casgate

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// xmlNode is a generic element tree. name is the lower-cased local name without
// namespace prefix.
type xmlNode struct {
	name     string
	attrs    map[string]string
	text     string
	children []*xmlNode
}

func (n *xmlNode) child(name string) *xmlNode {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *xmlNode) attr(name string) string {
	if n == nil {
		return ""
	}
	return n.attrs[name]
}

// parseXMLTree decodes body into a tree of normalized nodes. Tag names lose their
// namespace prefix and are lower-cased; attribute values and element text are
// trimmed and runs of whitespace collapse to a single space.
func parseXMLTree(body []byte) (*xmlNode, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel

	var root *xmlNode
	var stack []*xmlNode
	var texts []*strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode xml")
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &xmlNode{
				name:  normalizeTagName(t.Name),
				attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				node.attrs[a.Name.Local] = normalizeText(a.Value)
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("xml document has more than one root element")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
			texts = append(texts, &strings.Builder{})
		case xml.CharData:
			if len(texts) > 0 {
				texts[len(texts)-1].Write(t)
			}
		case xml.EndElement:
			last := len(stack) - 1
			stack[last].text = normalizeText(texts[last].String())
			stack = stack[:last]
			texts = texts[:last]
		}
	}

	if root == nil {
		return nil, errors.New("xml document has no root element")
	}
	if len(stack) > 0 {
		return nil, errors.New("xml document is incomplete")
	}
	return root, nil
}

func normalizeTagName(name xml.Name) string {
	return strings.ToLower(name.Local)
}

func normalizeText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
