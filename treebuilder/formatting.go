package treebuilder

import (
	"sort"
	"strings"

	"github.com/go-htmlcore/treebuilder/elements"
	"github.com/go-htmlcore/treebuilder/sink"
)

// formattingEntry is one slot of the active formatting element list:
// either a scope marker, or a formatting element together with
// the attributes it was created with — needed to recreate it during
// reconstruction, since the same node may later be removed from the
// stack and have to be rebuilt from scratch.
type formattingEntry struct {
	isMarker  bool
	tag       string
	attrs     []sink.Attr
	handle    sink.Handle
	signature string
}

// pushFormattingMarker inserts a scope marker (used when entering
// <button>, table cells, <object>, and similar scoping contexts).
func (b *Builder) pushFormattingMarker() {
	grown, err := b.formattingAlloc.Grow(b.formatting)
	if err != nil {
		panic(&ResourceError{Op: "push formatting marker", Err: err})
	}
	b.formatting = append(grown, formattingEntry{isMarker: true})
}

// clearFormattingToMarker pops the active formatting list down to and
// including the nearest marker.
func (b *Builder) clearFormattingToMarker() {
	for len(b.formatting) > 0 {
		last := b.formatting[len(b.formatting)-1]
		b.formatting = b.formatting[:len(b.formatting)-1]
		if !last.isMarker {
			b.sink.UnrefNode(last.handle)
		} else {
			return
		}
	}
}

// appendFormattingEntry records a newly-created formatting element,
// applying the Noah's Ark clause first: if three
// entries with the same tag and attribute signature already sit between
// the list's end and the nearest marker, the earliest of them is
// removed before the new one is appended.
func (b *Builder) appendFormattingEntry(tag string, attrs []sink.Attr, h sink.Handle) {
	sig := attrsSignature(attrs)
	if i, ok := b.findDuplicateFormattingEntry(tag, sig); ok {
		b.sink.UnrefNode(b.formatting[i].handle)
		b.formatting = append(b.formatting[:i], b.formatting[i+1:]...)
	}
	grown, err := b.formattingAlloc.Grow(b.formatting)
	if err != nil {
		panic(&ResourceError{Op: "push active formatting entry", Err: err})
	}
	b.sink.RefNode(h)
	b.formatting = append(grown, formattingEntry{tag: tag, attrs: attrs, handle: h, signature: sig})
}

func (b *Builder) findDuplicateFormattingEntry(tag, sig string) (int, bool) {
	var matches []int
	for i, e := range b.formatting {
		if e.isMarker {
			matches = matches[:0]
			continue
		}
		if e.tag == tag && e.signature == sig {
			matches = append(matches, i)
		}
	}
	if len(matches) >= 3 {
		return matches[0], true
	}
	return -1, false
}

// findFormattingIndex returns the index of the nearest (from the end)
// formatting entry named tag before any marker, per the adoption agency
// algorithm's lookup step.
func (b *Builder) findFormattingIndex(tag string) int {
	for i := len(b.formatting) - 1; i >= 0; i-- {
		e := b.formatting[i]
		if e.isMarker {
			return -1
		}
		if e.tag == tag {
			return i
		}
	}
	return -1
}

// findFormattingIndexByHandle locates a formatting entry by its sink
// handle, searching past markers.
func (b *Builder) findFormattingIndexByHandle(h sink.Handle) int {
	for i := len(b.formatting) - 1; i >= 0; i-- {
		if !b.formatting[i].isMarker && b.formatting[i].handle == h {
			return i
		}
	}
	return -1
}

func (b *Builder) removeFormattingEntry(index int) {
	if index < 0 || index >= len(b.formatting) {
		return
	}
	if !b.formatting[index].isMarker {
		b.sink.UnrefNode(b.formatting[index].handle)
	}
	b.formatting = append(b.formatting[:index], b.formatting[index+1:]...)
}

// reconstructActiveFormattingElements implements WHATWG HTML
// §13.2.5.2.1: re-insert every formatting element since the last one
// still on the open element stack, walking forward from the first
// missing entry so ancestors are rebuilt before descendants.
func (b *Builder) reconstructActiveFormattingElements() {
	if len(b.formatting) == 0 {
		return
	}
	last := b.formatting[len(b.formatting)-1]
	if last.isMarker || b.indexOfHandle(last.handle) >= 0 {
		return
	}

	index := len(b.formatting) - 1
	for {
		index--
		if index < 0 {
			index = 0
			break
		}
		e := b.formatting[index]
		if e.isMarker || b.indexOfHandle(e.handle) >= 0 {
			index++
			break
		}
	}

	for index < len(b.formatting) {
		e := b.formatting[index]
		h, code := b.sink.CreateElement(sink.HTML, e.tag, e.attrs)
		if code != sink.OK {
			panic(&ResourceError{Op: "reconstruct formatting element", Err: code})
		}
		b.put(h, b.appropriateInsertionLocation())
		b.sink.RefNode(h)
		b.pushFrame(frame{namespace: sink.HTML, tag: e.tag, typ: elements.TypeFromName(e.tag), handle: h})
		b.sink.RefNode(h)
		old := b.formatting[index].handle
		b.formatting[index].handle = h
		b.sink.UnrefNode(old)
		index++
	}
}

func attrsSignature(attrs []sink.Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	values := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Namespace != sink.NoNamespace {
			continue
		}
		keys = append(keys, a.Name)
		values[a.Name] = a.Value
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(values[k])
		sb.WriteByte(0)
	}
	return sb.String()
}
