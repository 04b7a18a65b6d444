package treebuilder

import (
	"github.com/go-htmlcore/treebuilder/elements"
	"github.com/go-htmlcore/treebuilder/sink"
	"github.com/go-htmlcore/treebuilder/tokenstream"
)

// insertionLocation names where the next node insertion goes: a parent
// handle, and optionally a reference child to insert before (zero means
// append).
type insertionLocation struct {
	parent sink.Handle
	before sink.Handle
}

// appropriateInsertionLocation resolves the foster-parenting-aware
// insertion point. Template content and table foster parenting
// take precedence over plain append-to-current-node.
func (b *Builder) appropriateInsertionLocation() insertionLocation {
	cur := b.currentFrame()
	if cur.namespace == sink.HTML && cur.tag == "template" {
		return insertionLocation{parent: cur.handle}
	}
	if !b.fosterParenting || !tableFosterTargets[cur.tag] || cur.namespace != sink.HTML {
		return insertionLocation{parent: b.currentHandle()}
	}
	return b.fosterInsertionLocation()
}

// fosterInsertionLocation implements the foster-parenting algorithm:
// walk the stack for the last <table>, and insert as a sibling
// immediately before it, preferring a <template> deeper in the stack.
func (b *Builder) fosterInsertionLocation() insertionLocation {
	tableIdx := b.indexOfTag("table")
	templateIdx := b.indexOfTag("template")
	if templateIdx >= 0 && (tableIdx < 0 || templateIdx > tableIdx) {
		return insertionLocation{parent: b.stack[templateIdx].handle}
	}
	if tableIdx < 0 {
		return insertionLocation{parent: b.currentHandle()}
	}
	tableHandle := b.stack[tableIdx].handle
	if parent := b.sink.GetParent(tableHandle, false); parent != 0 {
		return insertionLocation{parent: parent, before: tableHandle}
	}
	if tableIdx > 0 {
		return insertionLocation{parent: b.stack[tableIdx-1].handle}
	}
	return insertionLocation{parent: b.document}
}

// put materializes node at loc, letting the sink coalesce adjacent text
// as its AppendChild/InsertBefore contract allows.
func (b *Builder) put(node sink.Handle, loc insertionLocation) sink.Handle {
	var effective sink.Handle
	var code sink.Code
	if loc.before == 0 {
		effective, code = b.sink.AppendChild(loc.parent, node)
	} else {
		effective, code = b.sink.InsertBefore(loc.parent, node, loc.before)
	}
	if code != sink.OK {
		panic(&ResourceError{Op: "insert node", Err: code})
	}
	return effective
}

func (b *Builder) insertComment(data string) {
	h, code := b.sink.CreateComment(data)
	if code != sink.OK {
		panic(&ResourceError{Op: "create comment", Err: code})
	}
	b.put(h, b.appropriateInsertionLocation())
}

func (b *Builder) insertDoctype(name, publicID, systemID string) {
	h, code := b.sink.CreateDoctype(name, publicID, systemID)
	if code != sink.OK {
		panic(&ResourceError{Op: "create doctype", Err: code})
	}
	if _, code := b.sink.AppendChild(b.document, h); code != sink.OK {
		panic(&ResourceError{Op: "append doctype", Err: code})
	}
}

// insertText inserts character data at the foster-aware insertion
// location. The sink is responsible for coalescing into an existing
// trailing text node.
func (b *Builder) insertText(data string) {
	if data == "" {
		return
	}
	h, code := b.sink.CreateText(data)
	if code != sink.OK {
		panic(&ResourceError{Op: "create text", Err: code})
	}
	b.put(h, b.appropriateInsertionLocation())
}

// insertElement creates an element for tok, places it at the current
// insertion location, and pushes it onto the open element stack. It returns the new frame.
func (b *Builder) insertElement(tok tokenstream.Token, ns sink.Namespace) frame {
	name := b.resolve(tok.Name)
	attrs := b.resolveAttrs(tok.Attrs)
	h, code := b.sink.CreateElement(ns, name, attrs)
	if code != sink.OK {
		panic(&ResourceError{Op: "create element", Err: code})
	}
	b.put(h, b.appropriateInsertionLocation())
	b.sink.RefNode(h)
	f := frame{namespace: ns, tag: name, typ: elements.TypeFromName(name), handle: h}
	b.pushFrame(f)
	return f
}

// insertElementNoPush inserts an element like insertElement but does not
// push it onto the stack — used for void
// elements and self-closing HTML start tags.
func (b *Builder) insertElementNoPush(tok tokenstream.Token, ns sink.Namespace) sink.Handle {
	name := b.resolve(tok.Name)
	attrs := b.resolveAttrs(tok.Attrs)
	h, code := b.sink.CreateElement(ns, name, attrs)
	if code != sink.OK {
		panic(&ResourceError{Op: "create element", Err: code})
	}
	b.put(h, b.appropriateInsertionLocation())
	return h
}

func (b *Builder) resolveAttrs(attrs []tokenstream.Attr) []sink.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]sink.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = sink.Attr{Namespace: a.Namespace, Name: b.resolve(a.Name), Value: b.resolve(a.Value)}
	}
	return out
}

// addMissingAttributes merges attrs into the element at h without
// overwriting attributes already present, used by IN_BODY's duplicate
// <html>/<body> start-tag handling.
func (b *Builder) addMissingAttributes(h sink.Handle, tok tokenstream.Token) {
	if len(b.templateModes) > 0 {
		return
	}
	b.sink.AddAttributes(h, b.resolveAttrs(tok.Attrs))
}

// closePImplied closes an implicitly-open <p> element when a start tag
// that cannot nest inside one is seen (used throughout IN_BODY).
func (b *Builder) closePImplied() {
	if b.inButtonScope("p") {
		b.closeImpliedEndTagsExcept("p")
		if b.currentTag() == "p" {
			b.pop()
		}
	}
}

// closeImpliedEndTagsExcept pops the current node while its tag is in
// impliedEndTagElements, stopping at an element named except.
func (b *Builder) closeImpliedEndTagsExcept(except string) {
	for len(b.stack) > 0 {
		tag := b.currentTag()
		if tag == except || !impliedEndTagElements[tag] {
			return
		}
		b.pop()
	}
}

// resetInsertionMode implements the "reset the insertion mode
// appropriately" algorithm, used after a table or select is closed, a
// template ends, or a token breaks out of foreign content.
func (b *Builder) resetInsertionMode() {
	for i := len(b.stack) - 1; i >= 0; i-- {
		f := b.stack[i]
		last := i == 0
		if b.fragmentElement != 0 && f.handle == b.fragmentElement {
			last = true
		}
		if f.namespace != sink.HTML {
			if last {
				b.mode = InBody
				return
			}
			continue
		}
		switch f.tag {
		case "select":
			for j := i; j > 0; j-- {
				anc := b.stack[j-1]
				switch anc.tag {
				case "template":
					b.mode = InSelect
					return
				case "table":
					b.mode = InSelectInTable
					return
				}
			}
			b.mode = InSelect
			return
		case "td", "th":
			if !last {
				b.mode = InCell
				return
			}
		case "tr":
			b.mode = InRow
			return
		case "tbody", "thead", "tfoot":
			b.mode = InTableBody
			return
		case "caption":
			b.mode = InCaption
			return
		case "colgroup":
			b.mode = InColumnGroup
			return
		case "table":
			b.mode = InTable
			return
		case "template":
			if len(b.templateModes) > 0 {
				b.mode = b.templateModes[len(b.templateModes)-1]
				return
			}
			b.mode = InTemplate
			return
		case "head":
			if !last {
				b.mode = InHead
				return
			}
		case "body":
			b.mode = InBody
			return
		case "frameset":
			b.mode = InFrameset
			return
		case "html":
			if b.head == 0 {
				b.mode = BeforeHead
			} else {
				b.mode = AfterHead
			}
			return
		}
		if last {
			b.mode = InBody
			return
		}
	}
	b.mode = InBody
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case '\t', '\n', '\f', '\r', ' ':
			continue
		default:
			return false
		}
	}
	return true
}

// anyOtherEndTag implements the "any other end tag" catch-all of
// §13.2.6.4.7: walk down from the current node looking for a match,
// generating implied end tags and popping to it when found, or bailing
// out silently the moment a special element is passed over.
func (b *Builder) anyOtherEndTag(tag string) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		f := b.stack[i]
		if f.namespace == sink.HTML && f.tag == tag {
			b.closeImpliedEndTagsExcept(tag)
			for len(b.stack) > i {
				b.pop()
			}
			return
		}
		if isSpecialFrame(f) {
			return
		}
	}
}

// popUntilAnyCell pops the stack until a <td> or <th> has been popped.
func (b *Builder) popUntilAnyCell() { b.popUntilOneOf("td", "th") }

// withFosterParenting runs fn with foster parenting temporarily enabled,
// restoring the previous setting afterward.
func (b *Builder) withFosterParenting(fn func() bool) bool {
	prev := b.fosterParenting
	b.fosterParenting = true
	defer func() { b.fosterParenting = prev }()
	return fn()
}
