// Package newsml decodes the provider's NewsML dialect into normalized
// articles. The format has no fixed depth: the structures an item is
// made of are located by Duid prefix, not by path, so parsing builds a
// generic node tree plus a document-order index of every Duid-carrying
// element.
package newsml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"efewire/types"
)

// Node is one element or text run in the parsed tree. Text runs have an
// empty Name and carry their payload in Text; element children and text
// runs share the Children slice in document order so inline markup can
// be re-serialized faithfully.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// IsText reports whether the node is a text run.
func (n *Node) IsText() bool { return n.Name == "" }

// Attr returns the named attribute or "".
func (n *Node) Attr(key string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[key]
}

// Find walks a path of element names, taking the first match at each
// step. Returns nil when any step is missing.
func (n *Node) Find(path ...string) *Node {
	cur := n
	for _, name := range path {
		if cur == nil {
			return nil
		}
		var next *Node
		for _, c := range cur.Children {
			if c.Name == name {
				next = c
				break
			}
		}
		cur = next
	}
	return cur
}

// InnerText concatenates all descendant text runs, trimmed.
func (n *Node) InnerText() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.writeText(&b)
	return strings.TrimSpace(b.String())
}

func (n *Node) writeText(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.writeText(b)
	}
}

// InnerXML serializes the node's children back to markup, preserving
// inline elements and their order. Used to assemble article bodies.
func (n *Node) InnerXML() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range n.Children {
		c.writeXML(&b)
	}
	return b.String()
}

func (n *Node) writeXML(b *strings.Builder) {
	if n.IsText() {
		xml.EscapeText(b, []byte(n.Text))
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Name)
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		xml.EscapeText(b, []byte(n.Attrs[k]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		c.writeXML(b)
	}
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteByte('>')
}

// Document wraps one raw NewsML payload. Parsing is lazy and memoized:
// the first call to Root or Items decodes the payload, later calls
// reuse the tree (or the recorded parse failure).
type Document struct {
	raw    []byte
	root   *Node
	err    error
	parsed bool
}

// NewDocument wraps raw bytes without parsing them.
func NewDocument(raw []byte) *Document {
	return &Document{raw: raw}
}

// Root returns the virtual document root, parsing on first use.
func (d *Document) Root() (*Node, error) {
	if !d.parsed {
		d.root, d.err = parse(d.raw)
		d.parsed = true
	}
	return d.root, d.err
}

// Items returns every NewsItem element in document order.
func (d *Document) Items() ([]*Node, error) {
	root, err := d.Root()
	if err != nil {
		return nil, err
	}
	envelope := root.Find("NewsML")
	if envelope == nil {
		return nil, fmt.Errorf("%w: no NewsML envelope", types.ErrParse)
	}
	var items []*Node
	for _, c := range envelope.Children {
		if c.Name == "NewsItem" {
			items = append(items, c)
		}
	}
	return items, nil
}

func parse(raw []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	root := &Node{Name: "#document"}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrParse, err)
		}
		cur := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			cur.Children = append(cur.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			s := string(t)
			if strings.TrimSpace(s) == "" {
				// Whitespace runs spanning lines are pretty-printing
				// between structural elements. A bare space between
				// inline siblings is content and must survive
				// re-serialization.
				if len(stack) == 1 || strings.ContainsAny(s, "\n\r") {
					continue
				}
			}
			cur.Children = append(cur.Children, &Node{Text: s})
		}
	}
	if len(root.Children) == 0 {
		return nil, fmt.Errorf("%w: empty document", types.ErrParse)
	}
	return root, nil
}

// index lists every Duid-carrying element of one item subtree in
// document order, so prefix lookups are deterministic and cheap.
type index struct {
	nodes []*Node
}

func newIndex(item *Node) *index {
	ix := &index{}
	ix.collect(item)
	return ix
}

func (ix *index) collect(n *Node) {
	if n.Attr("Duid") != "" {
		ix.nodes = append(ix.nodes, n)
	}
	for _, c := range n.Children {
		if !c.IsText() {
			ix.collect(c)
		}
	}
}

// firstWithPrefix returns the first node, in document order, whose Duid
// starts with prefix. When requireEuid is set, nodes without a Euid
// attribute are skipped.
func (ix *index) firstWithPrefix(prefix string, requireEuid bool) *Node {
	for _, n := range ix.nodes {
		if !strings.HasPrefix(n.Attr("Duid"), prefix) {
			continue
		}
		if requireEuid && n.Attr("Euid") == "" {
			continue
		}
		return n
	}
	return nil
}
