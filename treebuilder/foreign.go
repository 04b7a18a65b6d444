package treebuilder

import (
	"strings"

	"github.com/go-htmlcore/treebuilder/elements"
	"github.com/go-htmlcore/treebuilder/sink"
	"github.com/go-htmlcore/treebuilder/tokenstream"
)

// shouldUseForeignContent decides whether tok must be processed by the
// foreign-content rules of §13.2.6.5 instead of the current insertion
// mode — true whenever the current node is a foreign (SVG/MathML)
// element, except at HTML/MathML-text integration points and a few
// token-shape exceptions.
func (b *Builder) shouldUseForeignContent(tok tokenstream.Token) bool {
	cur := b.currentFrame()
	if cur.handle == 0 || cur.namespace == sink.HTML {
		return false
	}
	if tok.Kind == tokenstream.EOF {
		return false
	}

	if b.isMathMLTextIntegrationPoint(cur) {
		if tok.Kind == tokenstream.Character {
			return false
		}
		if tok.Kind == tokenstream.StartTag {
			name := b.resolve(tok.Name)
			if name != "mglyph" && name != "malignmark" {
				return false
			}
		}
	}

	if cur.namespace == sink.MathML && strings.EqualFold(cur.tag, "annotation-xml") {
		if tok.Kind == tokenstream.StartTag && b.resolve(tok.Name) == "svg" {
			return false
		}
	}

	if b.isHTMLIntegrationPoint(cur) {
		if tok.Kind == tokenstream.Character || tok.Kind == tokenstream.StartTag {
			return false
		}
	}

	return true
}

// processForeignContent implements §13.2.6.5. It returns true when the
// token must be reprocessed under ordinary HTML insertion-mode rules
// (it sets forceHTMLMode first, and the dispatcher loops).
func (b *Builder) processForeignContent(tok tokenstream.Token) bool {
	if b.currentFrame().handle == 0 {
		return false
	}

	switch tok.Kind {
	case tokenstream.Character:
		data := strings.ReplaceAll(b.resolve(tok.Data), "\x00", "�")
		if data == "" {
			return false
		}
		if !isAllWhitespace(data) {
			b.framesetOK = false
		}
		b.insertText(data)
		return false

	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false

	case tokenstream.StartTag:
		name := b.resolve(tok.Name)
		if foreignBreakoutElements[name] || (name == "font" && foreignBreakoutFont(tok.Attrs, b)) {
			b.popUntilHTMLOrIntegrationPoint()
			b.resetInsertionMode()
			b.forceHTMLMode = true
			return true
		}

		ns := b.currentFrame().namespace
		adjusted := name
		if ns == sink.SVG {
			adjusted = adjustSVGTagName(name)
		}
		attrs := b.prepareForeignAttributes(ns, tok.Attrs)
		b.insertForeignElement(adjusted, ns, attrs, tok.SelfClosing)
		return false

	case tokenstream.EndTag:
		name := b.resolve(tok.Name)
		if name == "br" || name == "p" {
			b.popUntilHTMLOrIntegrationPoint()
			b.resetInsertionMode()
			b.forceHTMLMode = true
			return true
		}

		for i := len(b.stack) - 1; i >= 0; i-- {
			node := b.stack[i]
			if strings.EqualFold(node.tag, name) {
				if b.fragmentElement != 0 && node.handle == b.fragmentElement {
					return false
				}
				for len(b.stack) > i {
					b.pop()
				}
				return false
			}
			if node.namespace == sink.HTML {
				b.forceHTMLMode = true
				return true
			}
		}
		return false

	default:
		return false
	}
}

func (b *Builder) popUntilHTMLOrIntegrationPoint() {
	for len(b.stack) > 0 {
		cur := b.currentFrame()
		if cur.namespace == sink.HTML || b.isHTMLIntegrationPoint(cur) {
			return
		}
		b.pop()
	}
}

func (b *Builder) isHTMLIntegrationPoint(f frame) bool {
	if f.namespace == sink.MathML && f.tag == "annotation-xml" {
		return b.annotationXMLIsHTMLIntegration(f.handle)
	}
	return htmlIntegrationPoints[integrationKey{f.namespace, f.tag}]
}

// annotationXMLIsHTMLIntegration checks the encoding attribute on a
// MathML annotation-xml element — only present because the sink, not
// the builder, owns attribute storage. Builders that cannot answer this
// (no such capability in sink.Sink) conservatively say no; wiring this
// precisely requires a GetAttribute capability some sinks may add.
func (b *Builder) annotationXMLIsHTMLIntegration(h sink.Handle) bool {
	if getter, ok := b.sink.(attributeGetter); ok {
		switch strings.ToLower(getter.GetAttribute(h, "encoding")) {
		case "text/html", "application/xhtml+xml":
			return true
		}
	}
	return false
}

// attributeGetter is an optional Sink capability for reading back an
// attribute value, used only by the annotation-xml integration-point
// check. Sinks that don't implement it are treated as always reporting
// no HTML-integration encoding.
type attributeGetter interface {
	GetAttribute(h sink.Handle, name string) string
}

func (b *Builder) isMathMLTextIntegrationPoint(f frame) bool {
	return mathMLTextIntegrationPoints[integrationKey{f.namespace, f.tag}]
}

func foreignBreakoutFont(attrs []tokenstream.Attr, b *Builder) bool {
	for _, a := range attrs {
		switch strings.ToLower(b.resolve(a.Name)) {
		case "color", "face", "size":
			return true
		}
	}
	return false
}

func adjustSVGTagName(name string) string {
	if adjusted, ok := svgTagNameAdjustments[strings.ToLower(name)]; ok {
		return adjusted
	}
	return name
}

func (b *Builder) prepareForeignAttributes(ns sink.Namespace, attrs []tokenstream.Attr) []sink.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]sink.Attr, 0, len(attrs))
	for _, a := range attrs {
		name := b.resolve(a.Name)
		lower := strings.ToLower(name)
		adjustedName := name

		switch ns {
		case sink.MathML:
			if adj, ok := mathMLAttributeAdjustments[lower]; ok {
				adjustedName = adj
				lower = strings.ToLower(adjustedName)
			}
		case sink.SVG:
			if adj, ok := svgAttributeAdjustments[lower]; ok {
				adjustedName = adj
				lower = strings.ToLower(adjustedName)
			}
		}

		if fa, ok := foreignAttributeAdjustments[lower]; ok {
			name := fa.localName
			if fa.prefix != "" {
				name = fa.prefix + ":" + fa.localName
			}
			out = append(out, sink.Attr{Namespace: fa.namespace, Name: name, Value: b.resolve(a.Value)})
			continue
		}

		out = append(out, sink.Attr{Name: adjustedName, Value: b.resolve(a.Value)})
	}
	return out
}

func (b *Builder) insertForeignElement(name string, ns sink.Namespace, attrs []sink.Attr, selfClosing bool) sink.Handle {
	h, code := b.sink.CreateElement(ns, name, attrs)
	if code != sink.OK {
		panic(&ResourceError{Op: "create foreign element", Err: code})
	}
	if _, code := b.sink.AppendChild(b.currentHandle(), h); code != sink.OK {
		panic(&ResourceError{Op: "append foreign element", Err: code})
	}
	if !selfClosing {
		b.sink.RefNode(h)
		b.pushFrame(frame{namespace: ns, tag: name, typ: elements.TypeFromName(name), handle: h})
	}
	return h
}
