// Package treebuilder implements the HTML5 tree construction core: the
// insertion-mode state machine, the open-element stack, the active
// formatting element list, the adoption agency algorithm, and foster
// parenting. It drives an arbitrary sink.Sink and makes no
// assumption about how nodes are represented.
package treebuilder

import (
	"github.com/go-htmlcore/treebuilder/alloc"
	"github.com/go-htmlcore/treebuilder/sink"
	"github.com/go-htmlcore/treebuilder/tokenstream"
)

// FragmentContext names the context element fragment parsing starts
// from.
type FragmentContext struct {
	TagName   string
	Namespace sink.Namespace
}

// Builder is the tree construction context. It
// owns the open element stack, the active formatting list, the current
// and original insertion modes, the template insertion mode stack, and
// the foster-parenting/pending-table-text side state, and drives a
// sink.Sink to materialize the document.
type Builder struct {
	sink sink.Sink

	mode         Mode
	originalMode Mode

	document sink.Handle
	html     sink.Handle
	head     sink.Handle
	form     sink.Handle

	stack      []frame
	stackAlloc alloc.Allocator[frame]

	formatting      []formattingEntry
	formattingAlloc alloc.Allocator[formattingEntry]

	templateModes []Mode

	pendingTableText      []pendingText
	tableTextOriginalMode Mode
	framesetOK            bool
	fosterParenting       bool
	stripLeadingNewline   bool

	fragmentContext *FragmentContext
	fragmentElement sink.Handle

	tok tokenstream.Tokeniser
	buf []byte

	forceHTMLMode bool
	iframeSrcdoc  bool

	errorHandler func(ParseError)
	errs         ParseErrors
	quirksSet    bool
}

// Option configures a Builder at construction time.
type Option func(*Builder)

// WithAllocator installs a custom allocator for both the open element
// stack and the active formatting list.
func WithAllocator(a alloc.Allocator[frame], f alloc.Allocator[formattingEntry]) Option {
	return func(b *Builder) {
		b.stackAlloc = a
		b.formattingAlloc = f
	}
}

// WithErrorHandler installs a callback invoked for every soft parse
// error. Without one, parse errors are collected silently and are
// retrievable via Errors.
func WithErrorHandler(fn func(ParseError)) Option {
	return func(b *Builder) { b.errorHandler = fn }
}

// WithBufferHandler installs the tokeniser side of the builder→tokeniser
// content-model switch.
func WithBufferHandler(tok tokenstream.Tokeniser) Option {
	return func(b *Builder) { b.tok = tok }
}

// WithIframeSrcdoc marks the document as being parsed as an iframe
// srcdoc document: quirks-mode resolution always yields NoQuirks
// regardless of what DOCTYPE (if any) is seen.
func WithIframeSrcdoc() Option {
	return func(b *Builder) { b.iframeSrcdoc = true }
}

// WithFragmentContext configures fragment parsing against ctx, matching
// New followed immediately by NewFragment's context-element setup.
func WithFragmentContext(ctx FragmentContext) Option {
	return func(b *Builder) { b.fragmentContext = &ctx }
}

// New creates a Builder for full-document parsing against s.
func New(s sink.Sink, opts ...Option) *Builder {
	b := &Builder{
		sink:            s,
		mode:            Initial,
		originalMode:    Initial,
		document:        s.DocumentHandle(),
		framesetOK:      true,
		stackAlloc:      alloc.Default[frame]{},
		formattingAlloc: alloc.Default[formattingEntry]{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.fragmentContext != nil {
		b.setupFragment(*b.fragmentContext)
	}
	return b
}

// NewFragment creates a Builder seeded for fragment parsing against
// ctx, equivalent to New with WithFragmentContext(ctx) but named after
// the branch point directly.
func NewFragment(s sink.Sink, ctx FragmentContext, opts ...Option) *Builder {
	return New(s, append(opts, WithFragmentContext(ctx))...)
}

// setupFragment performs the fragment-parsing context-element setup:
// synthesize an <html> root, push a context element matching ctx, and
// derive the initial insertion mode and tokenizer content model from
// it.
func (b *Builder) setupFragment(ctx FragmentContext) {
	b.framesetOK = false
	html, code := b.sink.CreateElement(sink.HTML, "html", nil)
	if code != sink.OK {
		return
	}
	b.sink.RefNode(html)
	b.html = html
	b.pushFrame(frame{namespace: sink.HTML, tag: "html", handle: html})

	if ctx.TagName == "" {
		return
	}
	ns := ctx.Namespace
	if ns == sink.NoNamespace {
		ns = sink.HTML
	}
	contextEl, code := b.sink.CreateElement(ns, ctx.TagName, nil)
	if code != sink.OK {
		return
	}
	b.sink.AppendChild(html, contextEl)
	b.sink.RefNode(contextEl)
	b.fragmentElement = contextEl
	b.pushFrame(frame{namespace: ns, tag: ctx.TagName, handle: contextEl})

	if ns != sink.HTML {
		b.mode = InBody
	} else {
		switch ctx.TagName {
		case "html":
			b.mode = BeforeHead
		case "tbody", "thead", "tfoot":
			b.mode = InTableBody
		case "tr":
			b.mode = InRow
		case "td", "th":
			b.mode = InCell
		case "caption":
			b.mode = InCaption
		case "colgroup":
			b.mode = InColumnGroup
		case "table":
			b.mode = InTable
		case "select":
			b.mode = InSelect
		default:
			b.mode = InBody
		}
	}
	b.originalMode = b.mode

	if b.tok == nil || ns != sink.HTML {
		return
	}
	switch ctx.TagName {
	case "title", "textarea":
		b.tok.SetContentModel(tokenstream.RCDATA)
	case "style", "xmp", "iframe", "noembed", "noframes":
		b.tok.SetContentModel(tokenstream.CDATA)
	case "script":
		b.tok.SetContentModel(tokenstream.ScriptData)
	case "plaintext":
		b.tok.SetContentModel(tokenstream.PLAINTEXT)
	}
}

// SetBuffer republishes the tokeniser's current input buffer base, so
// that buffer-relative StrRefs in subsequently delivered tokens resolve
// correctly.
func (b *Builder) SetBuffer(base []byte) { b.buf = base }

func (b *Builder) resolve(r tokenstream.StrRef) string { return r.Resolve(b.buf) }

// Document returns the sink's document handle, read once by New; it is
// the same for fragment parsing.
func (b *Builder) Document() sink.Handle { return b.document }

// FragmentRoot returns the fragment context element's handle, or the
// zero handle outside fragment parsing.
func (b *Builder) FragmentRoot() sink.Handle { return b.fragmentElement }

// Errors returns the parse errors accumulated so far.
func (b *Builder) Errors() ParseErrors { return b.errs }

// Close releases every reference the builder still holds — one per open
// element stack frame and one per active formatting list entry —
// balancing every RefNode call the builder made. The html, head, form
// and fragment-element fields take no reference of their own, so Close
// does not release them separately. Close must be the last call made
// on a Builder.
func (b *Builder) Close() {
	for _, f := range b.stack {
		b.sink.UnrefNode(f.handle)
	}
	for _, e := range b.formatting {
		if !e.isMarker {
			b.sink.UnrefNode(e.handle)
		}
	}
	b.stack = nil
	b.formatting = nil
}
