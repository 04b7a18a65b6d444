// Package memsink is a reference sink.Sink implementation: an
// in-memory node graph addressed through opaque handles, used by the
// compliance tests and by anything that needs a concrete document to
// hand to a treebuilder.Builder. It also doubles as a reference-count
// leak detector — UnrefNode panics on an unbalanced call — since that
// invariant is otherwise invisible from outside the builder.
package memsink

import (
	"strings"

	"github.com/go-htmlcore/treebuilder/sink"
)

type nodeKind int

const (
	elementKind nodeKind = iota
	textKind
	commentKind
	doctypeKind
	documentKind
)

type node struct {
	kind      nodeKind
	handle    sink.Handle
	refs      int
	removed   bool
	namespace sink.Namespace
	tag       string
	attrs     []sink.Attr
	data      string

	doctypeName string
	publicID    string
	systemID    string

	form *node

	templateContent *node

	parent   *node
	children []*node
}

func (n *node) indexOfChild(c *node) int {
	for i, ch := range n.children {
		if ch == c {
			return i
		}
	}
	return -1
}

// Sink is the in-memory reference implementation of sink.Sink.
type Sink struct {
	arena   arena
	nodes   map[sink.Handle]*node
	next    sink.Handle
	doc     *node
	doctype *node
	quirks  sink.QuirksMode
}

// New creates an empty Sink with its own document node already
// allocated and addressable, mirroring how a real consumer's top-level
// document object exists before tree construction begins.
func New() *Sink {
	s := &Sink{nodes: make(map[sink.Handle]*node), next: 1}
	doc := s.arena.alloc()
	doc.kind = documentKind
	doc.handle = s.allocHandle(doc)
	s.doc = doc
	return s
}

// DocumentHandle returns the handle of the sink's root document node,
// the same handle a treebuilder.Builder.Document() call resolves to
// after CreateElement/AppendChild calls against this sink.
func (s *Sink) DocumentHandle() sink.Handle { return s.doc.handle }

func (s *Sink) allocHandle(n *node) sink.Handle {
	h := s.next
	s.next++
	n.handle = h
	s.nodes[h] = n
	return h
}

func (s *Sink) lookup(h sink.Handle) *node {
	if h == 0 {
		return nil
	}
	return s.nodes[h]
}

// CreateComment implements sink.Sink.
func (s *Sink) CreateComment(data string) (sink.Handle, sink.Code) {
	n := s.arena.alloc()
	n.kind = commentKind
	n.data = data
	return s.allocHandle(n), sink.OK
}

// CreateDoctype implements sink.Sink.
func (s *Sink) CreateDoctype(name, publicID, systemID string) (sink.Handle, sink.Code) {
	n := s.arena.alloc()
	n.kind = doctypeKind
	n.doctypeName = name
	n.publicID = publicID
	n.systemID = systemID
	return s.allocHandle(n), sink.OK
}

// CreateElement implements sink.Sink.
func (s *Sink) CreateElement(namespace sink.Namespace, tag string, attrs []sink.Attr) (sink.Handle, sink.Code) {
	n := s.arena.alloc()
	n.kind = elementKind
	n.namespace = namespace
	n.tag = tag
	if len(attrs) > 0 {
		n.attrs = append([]sink.Attr(nil), attrs...)
	}
	return s.allocHandle(n), sink.OK
}

// CreateText implements sink.Sink.
func (s *Sink) CreateText(data string) (sink.Handle, sink.Code) {
	n := s.arena.alloc()
	n.kind = textKind
	n.data = data
	return s.allocHandle(n), sink.OK
}

// RefNode implements sink.Sink.
func (s *Sink) RefNode(h sink.Handle) {
	n := s.lookup(h)
	if n == nil {
		return
	}
	n.refs++
}

// UnrefNode implements sink.Sink. A call that would take refs below
// zero is a contract violation by the caller — the builder promises a
// balanced Ref/Unref pair for every handle it holds — and is
// reported the same way the builder reports its own internal
// violations, rather than silently ignored.
func (s *Sink) UnrefNode(h sink.Handle) {
	n := s.lookup(h)
	if n == nil {
		return
	}
	n.refs--
	if n.refs < 0 {
		panic("memsink: unbalanced UnrefNode")
	}
}

// AppendChild implements sink.Sink, coalescing into a trailing text
// node when child is text and parent's current last child already is.
func (s *Sink) AppendChild(parent, child sink.Handle) (sink.Handle, sink.Code) {
	p, c := s.lookup(parent), s.lookup(child)
	if p == nil || c == nil {
		return 0, sink.BadParameter
	}
	if c.kind == textKind && len(p.children) > 0 {
		last := p.children[len(p.children)-1]
		if last.kind == textKind {
			last.data += c.data
			return last.handle, sink.OK
		}
	}
	c.parent = p
	p.children = append(p.children, c)
	if c.kind == doctypeKind && p == s.doc {
		s.doctype = c
	}
	return child, sink.OK
}

// InsertBefore implements sink.Sink, with the same text-coalescing
// allowance as AppendChild when child lands immediately after an
// existing trailing text sibling.
func (s *Sink) InsertBefore(parent, child, ref sink.Handle) (sink.Handle, sink.Code) {
	p, c, r := s.lookup(parent), s.lookup(child), s.lookup(ref)
	if p == nil || c == nil {
		return 0, sink.BadParameter
	}
	if r == nil {
		return s.AppendChild(parent, child)
	}
	idx := p.indexOfChild(r)
	if idx < 0 {
		return s.AppendChild(parent, child)
	}
	if c.kind == textKind && idx > 0 && p.children[idx-1].kind == textKind {
		prev := p.children[idx-1]
		prev.data += c.data
		return prev.handle, sink.OK
	}
	c.parent = p
	p.children = append(p.children, nil)
	copy(p.children[idx+1:], p.children[idx:])
	p.children[idx] = c
	return child, sink.OK
}

// RemoveChild implements sink.Sink.
func (s *Sink) RemoveChild(parent, child sink.Handle) (sink.Handle, sink.Code) {
	p, c := s.lookup(parent), s.lookup(child)
	if p == nil || c == nil {
		return 0, sink.BadParameter
	}
	idx := p.indexOfChild(c)
	if idx < 0 {
		return 0, sink.BadParameter
	}
	p.children = append(p.children[:idx], p.children[idx+1:]...)
	c.parent = nil
	return child, sink.OK
}

// CloneNode implements sink.Sink.
func (s *Sink) CloneNode(h sink.Handle, deep bool) (sink.Handle, sink.Code) {
	n := s.lookup(h)
	if n == nil {
		return 0, sink.BadParameter
	}
	clone := s.arena.alloc()
	clone.kind = n.kind
	clone.namespace = n.namespace
	clone.tag = n.tag
	clone.data = n.data
	clone.doctypeName = n.doctypeName
	clone.publicID = n.publicID
	clone.systemID = n.systemID
	if len(n.attrs) > 0 {
		clone.attrs = append([]sink.Attr(nil), n.attrs...)
	}
	ch := s.allocHandle(clone)
	if deep {
		for _, child := range n.children {
			childHandle, _ := s.CloneNode(child.handle, true)
			s.AppendChild(ch, childHandle)
		}
	}
	return ch, sink.OK
}

// ReparentChildren implements sink.Sink: move every child of src under
// dst, in order, used by the adoption agency algorithm.
func (s *Sink) ReparentChildren(src, dst sink.Handle) sink.Code {
	sn, dn := s.lookup(src), s.lookup(dst)
	if sn == nil || dn == nil {
		return sink.BadParameter
	}
	moving := sn.children
	sn.children = nil
	for _, c := range moving {
		c.parent = dn
		dn.children = append(dn.children, c)
	}
	return sink.OK
}

// GetParent implements sink.Sink. When elementOnly is set, a non-element
// parent (the document itself, or a disconnected node) reports as having
// no parent.
func (s *Sink) GetParent(h sink.Handle, elementOnly bool) sink.Handle {
	n := s.lookup(h)
	if n == nil || n.parent == nil {
		return 0
	}
	if elementOnly && n.parent.kind != elementKind {
		return 0
	}
	return n.parent.handle
}

// HasChildren implements sink.Sink.
func (s *Sink) HasChildren(h sink.Handle) bool {
	n := s.lookup(h)
	return n != nil && len(n.children) > 0
}

// FormAssociate implements sink.Sink by recording the owning form on
// the associated node, mirroring a real DOM's form.elements/owner link.
func (s *Sink) FormAssociate(form, target sink.Handle) {
	f, n := s.lookup(form), s.lookup(target)
	if f == nil || n == nil {
		return
	}
	n.form = f
}

// AddAttributes implements sink.Sink: attrs already present on h (by
// name, same namespace) are left untouched, matching the "add missing
// attributes" treatment of a duplicate <html> or <body> start tag.
func (s *Sink) AddAttributes(h sink.Handle, attrs []sink.Attr) sink.Code {
	n := s.lookup(h)
	if n == nil {
		return sink.BadParameter
	}
	for _, a := range attrs {
		if s.hasAttr(n, a.Namespace, a.Name) {
			continue
		}
		n.attrs = append(n.attrs, a)
	}
	return sink.OK
}

func (s *Sink) hasAttr(n *node, ns sink.Namespace, name string) bool {
	for _, a := range n.attrs {
		if a.Namespace == ns && strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

// SetQuirksMode implements sink.Sink.
func (s *Sink) SetQuirksMode(mode sink.QuirksMode) { s.quirks = mode }

// QuirksMode returns the mode most recently set via SetQuirksMode.
func (s *Sink) QuirksMode() sink.QuirksMode { return s.quirks }

// GetAttribute implements the builder's optional attributeGetter
// capability, used for the MathML annotation-xml HTML-integration-point
// check (§13.2.6.5).
func (s *Sink) GetAttribute(h sink.Handle, name string) string {
	n := s.lookup(h)
	if n == nil {
		return ""
	}
	for _, a := range n.attrs {
		if a.Namespace == sink.NoNamespace && strings.EqualFold(a.Name, name) {
			return a.Value
		}
	}
	return ""
}
