package treebuilder

import (
	"github.com/go-htmlcore/treebuilder/elements"
	"github.com/go-htmlcore/treebuilder/sink"
)

// frame is one entry of the open element stack: the element's
// namespace and classified type for fast predicate checks, its tag name
// for exact-name comparisons the Type enum cannot express (e.g. "table"
// as a foster target), and the sink handle it corresponds to.
type frame struct {
	namespace sink.Namespace
	typ       elements.Type
	tag       string
	handle    sink.Handle
}

// pushFrame grows the stack through the configured allocator and appends
// f. A resource error here is a hard error.
func (b *Builder) pushFrame(f frame) {
	grown, err := b.stackAlloc.Grow(b.stack)
	if err != nil {
		panic(&ResourceError{Op: "push open element", Err: err})
	}
	b.stack = append(grown, f)
}

// pop removes and returns the top stack frame. Popping an empty stack is
// a contract violation: every mode handler that pops first checks the
// stack is non-empty via currentFrame or an explicit length check.
func (b *Builder) pop() frame {
	if len(b.stack) == 0 {
		contractViolation("pop of empty open element stack")
	}
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.sink.UnrefNode(f.handle)
	return f
}

// currentFrame returns the top of the open element stack, or the zero
// frame if the stack (and thus the document itself) is empty.
func (b *Builder) currentFrame() frame {
	if len(b.stack) == 0 {
		return frame{}
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) currentHandle() sink.Handle {
	if len(b.stack) == 0 {
		return b.document
	}
	return b.stack[len(b.stack)-1].handle
}

func (b *Builder) currentTag() string {
	return b.currentFrame().tag
}

// popUntil pops frames until one with the given tag (in the HTML
// namespace) is popped, inclusive.
func (b *Builder) popUntil(tag string) {
	for len(b.stack) > 0 {
		f := b.pop()
		if f.tag == tag && f.namespace == sink.HTML {
			return
		}
	}
}

// popUntilOneOf pops frames until one whose tag is in tags is popped,
// inclusive.
func (b *Builder) popUntilOneOf(tags ...string) {
	for len(b.stack) > 0 {
		f := b.pop()
		for _, t := range tags {
			if f.tag == t && f.namespace == sink.HTML {
				return
			}
		}
	}
}

// hasInStack reports whether tag (HTML namespace) is anywhere on the
// stack.
func (b *Builder) hasInStack(tag string) bool {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].tag == tag && b.stack[i].namespace == sink.HTML {
			return true
		}
	}
	return false
}

// indexOfTag returns the index of the topmost stack frame with the
// given HTML-namespace tag, or -1.
func (b *Builder) indexOfTag(tag string) int {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].tag == tag && b.stack[i].namespace == sink.HTML {
			return i
		}
	}
	return -1
}

// indexOfHandle returns the stack index of h, or -1.
func (b *Builder) indexOfHandle(h sink.Handle) int {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].handle == h {
			return i
		}
	}
	return -1
}

// inScope reports whether tag can be found on the stack before any
// element named in terminators (a scope-terminator set) is encountered.
func (b *Builder) inScope(tag string, terminators map[string]bool) bool {
	for i := len(b.stack) - 1; i >= 0; i-- {
		f := b.stack[i]
		if f.tag == tag && f.namespace == sink.HTML {
			return true
		}
		if f.namespace == sink.HTML && terminators[f.tag] {
			return false
		}
	}
	return false
}

// inDefaultScope reports the "has an element in scope" predicate.
func (b *Builder) inDefaultScope(tag string) bool { return b.inScope(tag, defaultScopeTerminators) }

// inListItemScope checks list-item scope (used for </li> end tags).
func (b *Builder) inListItemScope(tag string) bool {
	return b.inScope(tag, listItemScopeTerminators)
}

// inButtonScope checks button scope (used for implicit <p> closing).
func (b *Builder) inButtonScope(tag string) bool { return b.inScope(tag, buttonScopeTerminators) }

// inTableScope checks table scope.
func (b *Builder) inTableScope(tag string) bool { return b.inScope(tag, tableScopeTerminators) }

// inTableBodyScope checks table-body scope.
func (b *Builder) inTableBodyScope(tag string) bool {
	return b.inScope(tag, tableBodyScopeTerminators)
}

// inTableRowScope checks table-row scope.
func (b *Builder) inTableRowScope(tag string) bool {
	return b.inScope(tag, tableRowScopeTerminators)
}

// inSelectScope checks select scope: everything except optgroup/option
// is a terminator.
func (b *Builder) inSelectScope(tag string) bool {
	for i := len(b.stack) - 1; i >= 0; i-- {
		f := b.stack[i]
		if f.tag == tag && f.namespace == sink.HTML {
			return true
		}
		if f.namespace == sink.HTML && !selectScopeExceptions[f.tag] {
			return false
		}
	}
	return false
}
