package treebuilder

import (
	"strings"

	"github.com/go-htmlcore/treebuilder/sink"
	"github.com/go-htmlcore/treebuilder/tokenstream"
)

// These handlers implement the per-mode token processing rules, one
// function per insertion mode. Each returns true when the same token
// must be reprocessed in whatever mode is now current.

func (b *Builder) processInitial(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		if isAllWhitespace(b.resolve(tok.Data)) {
			return false
		}
	case tokenstream.Comment:
		b.sink.AppendChild(b.document, mustCreate(b.sink.CreateComment(b.resolve(tok.Data))))
		return false
	case tokenstream.DOCTYPE:
		name := b.resolve(tok.Name)
		public, system := derefStrRef(tok.PublicID, b), derefStrRef(tok.SystemID, b)
		b.insertDoctype(name, public, system)
		mode := resolveQuirksMode(name, public, system, tok.ForceQuirks, b.iframeSrcdoc)
		b.sink.SetQuirksMode(mode)
		b.quirksSet = true
		b.mode = BeforeHTML
		return false
	}
	if !b.quirksSet {
		mode := sink.Quirks
		if b.iframeSrcdoc {
			mode = sink.NoQuirks
		}
		b.sink.SetQuirksMode(mode)
		b.quirksSet = true
	}
	b.mode = BeforeHTML
	return true
}

func derefStrRef(r *tokenstream.StrRef, b *Builder) string {
	if r == nil {
		return ""
	}
	return b.resolve(*r)
}

func mustCreate(h sink.Handle, code sink.Code) sink.Handle {
	if code != sink.OK {
		panic(&ResourceError{Op: "create node", Err: code})
	}
	return h
}

func (b *Builder) processBeforeHTML(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		if isAllWhitespace(b.resolve(tok.Data)) {
			return false
		}
	case tokenstream.Comment:
		b.sink.AppendChild(b.document, mustCreate(b.sink.CreateComment(b.resolve(tok.Data))))
		return false
	case tokenstream.StartTag:
		if b.resolve(tok.Name) == "html" {
			b.insertElement(tok, sink.HTML)
			b.html = b.currentHandle()
			b.mode = BeforeHead
			return false
		}
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "head", "body", "html", "br":
			b.createImplicitHTML()
			b.mode = BeforeHead
			return true
		}
		return false
	}
	b.createImplicitHTML()
	b.mode = BeforeHead
	return true
}

func (b *Builder) createImplicitHTML() {
	h := mustCreate(b.sink.CreateElement(sink.HTML, "html", nil))
	b.sink.AppendChild(b.document, h)
	b.sink.RefNode(h)
	b.pushFrame(frame{namespace: sink.HTML, tag: "html", handle: h})
	b.html = h
}

func (b *Builder) processBeforeHead(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		if isAllWhitespace(b.resolve(tok.Data)) {
			return false
		}
	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "html":
			if len(b.stack) > 0 {
				b.addMissingAttributes(b.stack[0].handle, tok)
			}
			return false
		case "head":
			f := b.insertElement(tok, sink.HTML)
			b.head = f.handle
			b.mode = InHead
			return false
		}
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "head", "body", "html", "br":
		default:
			return false
		}
	}
	f := b.insertElement(headTok(), sink.HTML)
	b.head = f.handle
	b.mode = InHead
	return true
}

// headTok synthesizes an attribute-free start tag token, used for the
// several "insert an implicit <head>/<html>/<body>" steps.
func headTok() tokenstream.Token {
	return tokenstream.Token{Kind: tokenstream.StartTag, Name: tokenstream.Heap("head")}
}

func (b *Builder) processInHead(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		data := b.resolve(tok.Data)
		if isAllWhitespace(data) {
			b.insertText(data)
			return false
		}
	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "html":
			b.mode = InBody
			return true
		case "base", "basefont", "bgsound", "link", "meta":
			b.insertElementNoPush(tok, sink.HTML)
			return false
		case "title":
			b.switchToText(tok, InHead, tokenstream.RCDATA)
			return false
		case "noscript":
			b.insertElement(tok, sink.HTML)
			b.mode = InHeadNoscript
			return false
		case "noframes", "style":
			b.switchToText(tok, InHead, tokenstream.CDATA)
			return false
		case "script":
			b.switchToText(tok, InHead, tokenstream.ScriptData)
			return false
		case "template":
			b.insertElement(tok, sink.HTML)
			b.pushFormattingMarker()
			b.templateModes = append(b.templateModes, InTemplate)
			b.mode = InTemplate
			return false
		case "head":
			return false
		}
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "head":
			b.popUntil("head")
			b.mode = AfterHead
			return false
		case "body", "html", "br":
			b.popUntil("head")
			b.mode = AfterHead
			return true
		case "template":
			if !b.hasInStack("template") {
				return false
			}
			b.closeImpliedEndTagsExcept("")
			b.popUntil("template")
			b.clearFormattingToMarker()
			if len(b.templateModes) > 0 {
				b.templateModes = b.templateModes[:len(b.templateModes)-1]
			}
			b.resetInsertionMode()
			return false
		default:
			return false
		}
	case tokenstream.EOF:
		b.popUntil("head")
		b.mode = AfterHead
		return true
	}
	b.popUntil("head")
	b.mode = AfterHead
	return true
}

// switchToText inserts tok's element, records the mode to return to,
// switches to Text mode, and drives the tokeniser content-model switch.
func (b *Builder) switchToText(tok tokenstream.Token, from Mode, cm tokenstream.ContentModel) {
	b.insertElement(tok, sink.HTML)
	b.originalMode = from
	b.mode = Text
	if b.tok != nil {
		b.tok.SetContentModel(cm)
	}
}

func (b *Builder) processInHeadNoscript(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		if isAllWhitespace(b.resolve(tok.Data)) {
			return b.processInHead(tok)
		}
		b.popUntil("noscript")
		b.mode = InHead
		return true
	case tokenstream.Comment:
		return b.processInHead(tok)
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "html":
			b.mode = InBody
			return true
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			return b.processInHead(tok)
		case "head", "noscript":
			return false
		default:
			b.popUntil("noscript")
			b.mode = InHead
			return true
		}
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "noscript":
			b.popUntil("noscript")
			b.mode = InHead
			return false
		case "br":
			b.popUntil("noscript")
			b.mode = InHead
			return true
		default:
			return false
		}
	case tokenstream.EOF:
		b.popUntil("noscript")
		b.mode = InHead
		return true
	default:
		return false
	}
}

func (b *Builder) processAfterHead(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		data := b.resolve(tok.Data)
		if isAllWhitespace(data) {
			b.insertText(data)
			return false
		}
	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "html":
			b.mode = InBody
			return true
		case "body":
			b.insertElement(tok, sink.HTML)
			b.framesetOK = false
			b.mode = InBody
			return false
		case "frameset":
			b.insertElement(tok, sink.HTML)
			b.mode = InFrameset
			return false
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			return b.processInHead(tok)
		case "head":
			return false
		}
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "html", "body", "br":
			b.insertElement(bodyTok(), sink.HTML)
			b.mode = InBody
			return true
		case "template":
			return b.processInHead(tok)
		}
		return false
	case tokenstream.EOF:
		b.insertElement(bodyTok(), sink.HTML)
		b.mode = InBody
		return true
	}
	b.insertElement(bodyTok(), sink.HTML)
	b.framesetOK = false
	b.mode = InBody
	return true
}

func bodyTok() tokenstream.Token {
	return tokenstream.Token{Kind: tokenstream.StartTag, Name: tokenstream.Heap("body")}
}

func (b *Builder) processText(tok tokenstream.Token) bool {
	strip := b.stripLeadingNewline
	b.stripLeadingNewline = false
	switch tok.Kind {
	case tokenstream.Character:
		data := b.resolve(tok.Data)
		if strip {
			data = strings.TrimPrefix(data, "\n")
		}
		b.insertText(data)
		return false
	case tokenstream.EndTag:
		b.popUntil(b.resolve(tok.Name))
		b.mode = b.originalMode
		return false
	case tokenstream.EOF:
		b.mode = b.originalMode
		return true
	default:
		return false
	}
}

func (b *Builder) processInBody(tok tokenstream.Token) bool {
	strip := b.stripLeadingNewline
	b.stripLeadingNewline = false
	switch tok.Kind {
	case tokenstream.Character:
		data := b.resolve(tok.Data)
		if strip {
			data = strings.TrimPrefix(data, "\n")
		}
		b.reconstructActiveFormattingElements()
		if data != "" {
			if !isAllWhitespace(data) {
				b.framesetOK = false
			}
			b.insertText(data)
		}
		return false
	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false
	case tokenstream.DOCTYPE:
		b.reportError("unexpected-doctype")
		return false
	case tokenstream.StartTag:
		return b.processInBodyStartTag(tok)
	case tokenstream.EndTag:
		return b.processInBodyEndTag(tok)
	case tokenstream.EOF:
		if len(b.templateModes) > 0 {
			return b.processInTemplate(tok)
		}
		return false
	default:
		return false
	}
}

func (b *Builder) processInBodyStartTag(tok tokenstream.Token) bool {
	name := b.resolve(tok.Name)
	switch name {
	case "html":
		if len(b.stack) > 0 {
			b.addMissingAttributes(b.stack[0].handle, tok)
		}
		return false
	case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
		return b.processInHead(tok)
	case "body":
		if len(b.stack) > 1 {
			b.addMissingAttributes(b.stack[1].handle, tok)
		}
		b.framesetOK = false
		return false
	case "frameset":
		if b.framesetOK && len(b.stack) > 1 && b.stack[1].tag == "body" {
			body := b.stack[1].handle
			if parent := b.sink.GetParent(body, false); parent != 0 {
				b.sink.RemoveChild(parent, body)
			}
			for len(b.stack) > 1 {
				b.pop()
			}
			b.insertElement(tok, sink.HTML)
			b.mode = InFrameset
		}
		return false
	}

	if closePBeforeTags[name] {
		b.closePImplied()
		b.reconstructActiveFormattingElements()
		b.insertElement(tok, sink.HTML)
		return false
	}

	if headingTags[name] {
		b.closePImplied()
		if headingTags[b.currentTag()] {
			b.pop()
		}
		b.reconstructActiveFormattingElements()
		b.insertElement(tok, sink.HTML)
		return false
	}

	switch name {
	case "pre", "listing":
		b.closePImplied()
		b.reconstructActiveFormattingElements()
		b.insertElement(tok, sink.HTML)
		b.framesetOK = false
		b.stripLeadingNewline = true
		return false
	case "form":
		if b.form != 0 && !b.hasInStack("template") {
			b.reportError("unexpected-start-tag-form")
			return false
		}
		b.closePImplied()
		f := b.insertElement(tok, sink.HTML)
		if !b.hasInStack("template") {
			b.form = f.handle
		}
		return false
	case "li":
		b.closeListItem("li")
		b.reconstructActiveFormattingElements()
		b.insertElement(tok, sink.HTML)
		return false
	case "dd", "dt":
		b.closeListItem(name)
		b.reconstructActiveFormattingElements()
		b.insertElement(tok, sink.HTML)
		return false
	case "plaintext":
		b.closePImplied()
		b.insertElement(tok, sink.HTML)
		if b.tok != nil {
			b.tok.SetContentModel(tokenstream.PLAINTEXT)
		}
		return false
	case "button":
		if b.inButtonScope("button") {
			b.closeImpliedEndTagsExcept("")
			b.popUntil("button")
		}
		b.reconstructActiveFormattingElements()
		b.insertElement(tok, sink.HTML)
		b.framesetOK = false
		return false
	case "a":
		if b.findFormattingIndex("a") >= 0 {
			b.adoptionAgency("a")
		}
		b.reconstructActiveFormattingElements()
		f := b.insertElement(tok, sink.HTML)
		b.appendFormattingEntry("a", b.resolveAttrs(tok.Attrs), f.handle)
		b.framesetOK = false
		return false
	case "nobr":
		b.reconstructActiveFormattingElements()
		if b.inDefaultScope("nobr") {
			b.adoptionAgency("nobr")
			b.reconstructActiveFormattingElements()
		}
		f := b.insertElement(tok, sink.HTML)
		b.appendFormattingEntry("nobr", b.resolveAttrs(tok.Attrs), f.handle)
		b.framesetOK = false
		return false
	case "applet", "marquee", "object":
		b.reconstructActiveFormattingElements()
		b.insertElement(tok, sink.HTML)
		b.pushFormattingMarker()
		b.framesetOK = false
		return false
	case "table":
		if b.inButtonScope("p") {
			b.closePImplied()
		}
		b.insertElement(tok, sink.HTML)
		b.framesetOK = false
		b.mode = InTable
		return false
	case "area", "br", "embed", "img", "keygen", "wbr":
		b.reconstructActiveFormattingElements()
		b.insertElementNoPush(tok, sink.HTML)
		b.framesetOK = false
		return false
	case "image":
		tok.Name = tokenstream.Heap("img")
		return b.processInBodyStartTag(tok)
	case "input":
		b.reconstructActiveFormattingElements()
		b.insertElementNoPush(tok, sink.HTML)
		if !isHiddenInput(tok.Attrs, b) {
			b.framesetOK = false
		}
		return false
	case "param", "source", "track":
		b.insertElementNoPush(tok, sink.HTML)
		return false
	case "hr":
		b.closePImplied()
		b.insertElementNoPush(tok, sink.HTML)
		b.framesetOK = false
		return false
	case "xmp":
		b.closePImplied()
		b.reconstructActiveFormattingElements()
		b.framesetOK = false
		b.switchToText(tok, InBody, tokenstream.CDATA)
		return false
	case "iframe":
		b.framesetOK = false
		b.switchToText(tok, InBody, tokenstream.CDATA)
		return false
	case "noembed":
		b.switchToText(tok, InBody, tokenstream.CDATA)
		return false
	case "textarea":
		b.insertElement(tok, sink.HTML)
		b.framesetOK = false
		b.originalMode = InBody
		b.mode = Text
		b.stripLeadingNewline = true
		if b.tok != nil {
			b.tok.SetContentModel(tokenstream.RCDATA)
		}
		return false
	case "select":
		b.reconstructActiveFormattingElements()
		b.insertElement(tok, sink.HTML)
		b.framesetOK = false
		if b.indexOfTag("table") >= 0 {
			b.mode = InSelectInTable
		} else {
			b.mode = InSelect
		}
		return false
	case "optgroup", "option":
		if b.currentTag() == "option" {
			b.pop()
		}
		b.reconstructActiveFormattingElements()
		b.insertElement(tok, sink.HTML)
		return false
	case "rb", "rtc":
		if b.inDefaultScope("ruby") {
			b.closeImpliedEndTagsExcept("")
		}
		b.insertElement(tok, sink.HTML)
		return false
	case "rp", "rt":
		if b.inDefaultScope("ruby") {
			b.closeImpliedEndTagsExcept("rtc")
		}
		b.insertElement(tok, sink.HTML)
		return false
	case "math":
		b.reconstructActiveFormattingElements()
		attrs := b.prepareForeignAttributes(sink.MathML, tok.Attrs)
		b.insertForeignElement("math", sink.MathML, attrs, tok.SelfClosing)
		b.framesetOK = false
		return false
	case "svg":
		b.reconstructActiveFormattingElements()
		attrs := b.prepareForeignAttributes(sink.SVG, tok.Attrs)
		b.insertForeignElement("svg", sink.SVG, attrs, tok.SelfClosing)
		b.framesetOK = false
		return false
	}

	if strayTableEndTags[name] {
		b.reportError("unexpected-start-tag-" + name)
		return false
	}

	if formattingElementNames[name] {
		b.reconstructActiveFormattingElements()
		f := b.insertElement(tok, sink.HTML)
		b.appendFormattingEntry(name, b.resolveAttrs(tok.Attrs), f.handle)
		b.framesetOK = false
		return false
	}

	b.reconstructActiveFormattingElements()
	if tok.SelfClosing || voidElements[name] {
		b.insertElementNoPush(tok, sink.HTML)
	} else {
		b.insertElement(tok, sink.HTML)
	}
	b.framesetOK = false
	return false
}

// closeListItem implements the <li>/<dd>/<dt> special start-tag
// handling of §13.2.6.4.7: walk down the stack closing any open list
// item of the same kind, stopping at the first special/scoping element
// other than address, div or p.
func (b *Builder) closeListItem(tag string) {
	siblings := map[string]bool{"li": true}
	if tag == "dd" || tag == "dt" {
		siblings = map[string]bool{"dd": true, "dt": true}
	}
	for i := len(b.stack) - 1; i >= 0; i-- {
		f := b.stack[i]
		if f.namespace != sink.HTML {
			break
		}
		if siblings[f.tag] {
			b.closeImpliedEndTagsExcept(f.tag)
			b.popUntil(f.tag)
			break
		}
		if isSpecialFrame(f) && f.tag != "address" && f.tag != "div" && f.tag != "p" {
			break
		}
	}
	b.closePImplied()
}

func isHiddenInput(attrs []tokenstream.Attr, b *Builder) bool {
	for _, a := range attrs {
		if strings.EqualFold(b.resolve(a.Name), "type") && strings.EqualFold(b.resolve(a.Value), "hidden") {
			return true
		}
	}
	return false
}

func (b *Builder) processInBodyEndTag(tok tokenstream.Token) bool {
	name := b.resolve(tok.Name)
	switch name {
	case "body":
		if b.inDefaultScope("body") {
			b.mode = AfterBody
		}
		return false
	case "html":
		if b.inDefaultScope("body") {
			b.mode = AfterBody
			return true
		}
		return false
	case "template":
		return b.processInHead(tok)
	case "p":
		if !b.inButtonScope("p") {
			b.reportError("unexpected-end-tag-p")
			b.insertElement(tokenstream.Token{Kind: tokenstream.StartTag, Name: tokenstream.Heap("p")}, sink.HTML)
		}
		b.closeImpliedEndTagsExcept("p")
		b.popUntil("p")
		return false
	case "li":
		if b.inListItemScope("li") {
			b.closeImpliedEndTagsExcept("li")
			b.popUntil("li")
		}
		return false
	case "dd", "dt":
		if b.inDefaultScope(name) {
			b.closeImpliedEndTagsExcept(name)
			b.popUntil(name)
		}
		return false
	case "form":
		return b.closeFormEndTag()
	case "applet", "marquee", "object":
		if b.inDefaultScope(name) {
			b.closeImpliedEndTagsExcept("")
			b.popUntil(name)
			b.clearFormattingToMarker()
		}
		return false
	case "br":
		b.reconstructActiveFormattingElements()
		b.insertElementNoPush(tokenstream.Token{Kind: tokenstream.StartTag, Name: tokenstream.Heap("br")}, sink.HTML)
		b.framesetOK = false
		return false
	}
	if headingTags[name] {
		if b.anyHeadingInScope() {
			b.closeImpliedEndTagsExcept("")
			b.popUntilOneOf("h1", "h2", "h3", "h4", "h5", "h6")
		}
		return false
	}
	if formattingElementNames[name] {
		b.adoptionAgency(name)
		return false
	}
	b.anyOtherEndTag(name)
	return false
}

func (b *Builder) anyHeadingInScope() bool {
	for i := len(b.stack) - 1; i >= 0; i-- {
		f := b.stack[i]
		if f.namespace == sink.HTML && headingTags[f.tag] {
			return true
		}
		if f.namespace == sink.HTML && defaultScopeTerminators[f.tag] {
			return false
		}
	}
	return false
}

func (b *Builder) closeFormEndTag() bool {
	if b.hasInStack("template") {
		if !b.inDefaultScope("form") {
			return false
		}
		b.closeImpliedEndTagsExcept("")
		b.popUntil("form")
		return false
	}
	node := b.form
	b.form = 0
	if node == 0 {
		return false
	}
	idx := b.indexOfHandle(node)
	if idx < 0 || !b.inDefaultScope("form") {
		return false
	}
	b.closeImpliedEndTagsExcept("")
	if idx := b.indexOfHandle(node); idx >= 0 {
		b.sink.UnrefNode(b.stack[idx].handle)
		b.stack = append(b.stack[:idx], b.stack[idx+1:]...)
	}
	return false
}

func (b *Builder) processInTable(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		b.tableTextOriginalMode = b.mode
		b.pendingTableText = nil
		b.mode = InTableText
		return true
	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "caption":
			b.clearStackToTableContext()
			b.pushFormattingMarker()
			b.insertElement(tok, sink.HTML)
			b.mode = InCaption
			return false
		case "colgroup":
			b.clearStackToTableContext()
			b.insertElement(tok, sink.HTML)
			b.mode = InColumnGroup
			return false
		case "col":
			b.clearStackToTableContext()
			b.insertElement(colgroupTok(), sink.HTML)
			b.mode = InColumnGroup
			return true
		case "tbody", "thead", "tfoot":
			b.clearStackToTableContext()
			b.insertElement(tok, sink.HTML)
			b.mode = InTableBody
			return false
		case "tr", "td", "th":
			b.clearStackToTableContext()
			b.insertElement(tokenstream.Token{Kind: tokenstream.StartTag, Name: tokenstream.Heap("tbody")}, sink.HTML)
			b.mode = InTableBody
			return true
		case "table":
			if !b.inTableScope("table") {
				return false
			}
			b.popUntil("table")
			b.resetInsertionMode()
			return true
		case "style", "script", "template":
			return b.processInHead(tok)
		case "input":
			if isHiddenInput(tok.Attrs, b) {
				b.insertElementNoPush(tok, sink.HTML)
				return false
			}
		case "form":
			if b.form == 0 && !b.hasInStack("template") {
				f := b.insertElementNoPush(tok, sink.HTML)
				b.form = f
			}
			return false
		case "select":
			b.reconstructActiveFormattingElements()
			b.insertElement(tok, sink.HTML)
			b.framesetOK = false
			b.mode = InSelectInTable
			return false
		}
		return b.withFosterParenting(func() bool { return b.processInBodyStartTag(tok) })
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "table":
			if !b.inTableScope("table") {
				return false
			}
			b.popUntil("table")
			b.resetInsertionMode()
			return false
		case "body", "caption", "col", "colgroup", "html", "tbody", "tfoot", "thead", "tr":
			return false
		case "template":
			return b.processInHead(tok)
		}
		return b.withFosterParenting(func() bool { b.processInBodyEndTag(tok); return false })
	case tokenstream.EOF:
		return b.processInBody(tok)
	}
	return b.withFosterParenting(func() bool { b.processInBodyStartTag(tok); return false })
}

func colgroupTok() tokenstream.Token {
	return tokenstream.Token{Kind: tokenstream.StartTag, Name: tokenstream.Heap("colgroup")}
}

// clearStackToTableContext pops non-table-context elements per
// §13.2.6.4.9, generalized to also stop at <template>.
func (b *Builder) clearStackToTableContext() {
	for len(b.stack) > 0 {
		tag := b.currentTag()
		if tag == "table" || tag == "template" || tag == "html" {
			return
		}
		b.pop()
	}
}

func (b *Builder) processInTableText(tok tokenstream.Token) bool {
	if tok.Kind == tokenstream.Character {
		b.pendingTableText = append(b.pendingTableText, pendingText{data: b.resolve(tok.Data)})
		return false
	}
	anyNonWhitespace := false
	for _, s := range b.pendingTableText {
		if !isAllWhitespace(s.data) {
			anyNonWhitespace = true
			break
		}
	}
	if anyNonWhitespace {
		b.withFosterParenting(func() bool {
			for _, s := range b.pendingTableText {
				b.insertText(s.data)
			}
			return false
		})
		b.framesetOK = false
	} else {
		for _, s := range b.pendingTableText {
			b.insertText(s.data)
		}
	}
	b.pendingTableText = nil
	b.mode = b.tableTextOriginalMode
	return true
}

// pendingText buffers a single character token seen in IN_TABLE_TEXT
//.
type pendingText struct{ data string }

func (b *Builder) processInCaption(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "caption":
			return b.closeCaptionElement()
		case "table":
			if !b.closeCaptionElement() {
				return false
			}
			return true
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			return false
		}
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !b.closeCaptionElement() {
				return false
			}
			return true
		}
	}
	return b.processInBody(tok)
}

func (b *Builder) closeCaptionElement() bool {
	if !b.inTableScope("caption") {
		return false
	}
	b.closeImpliedEndTagsExcept("")
	b.popUntil("caption")
	b.clearFormattingToMarker()
	b.mode = InTable
	return true
}

func (b *Builder) processInColumnGroup(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		data := b.resolve(tok.Data)
		if isAllWhitespace(data) {
			b.insertText(data)
			return false
		}
	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "html":
			return b.processInBody(tok)
		case "col":
			b.insertElementNoPush(tok, sink.HTML)
			return false
		case "template":
			return b.processInHead(tok)
		}
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "colgroup":
			if b.currentTag() != "colgroup" {
				return false
			}
			b.pop()
			b.mode = InTable
			return false
		case "col":
			return false
		case "template":
			return b.processInHead(tok)
		}
	case tokenstream.EOF:
		return b.processInBody(tok)
	}
	if b.currentTag() != "colgroup" {
		return false
	}
	b.pop()
	b.mode = InTable
	return true
}

func (b *Builder) processInTableBody(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "tr":
			b.clearStackToTableBodyContext()
			b.insertElement(tok, sink.HTML)
			b.mode = InRow
			return false
		case "th", "td":
			b.clearStackToTableBodyContext()
			b.insertElement(tokenstream.Token{Kind: tokenstream.StartTag, Name: tokenstream.Heap("tr")}, sink.HTML)
			b.mode = InRow
			return true
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !b.inTableBodyScope(b.currentTag()) {
				return false
			}
			b.clearStackToTableBodyContext()
			b.pop()
			b.mode = InTable
			return true
		}
	case tokenstream.EndTag:
		name := b.resolve(tok.Name)
		switch name {
		case "tbody", "tfoot", "thead":
			if !b.inTableBodyScope(name) {
				return false
			}
			b.clearStackToTableBodyContext()
			b.pop()
			b.mode = InTable
			return false
		case "table":
			if !b.inTableBodyScope(b.currentTag()) {
				return false
			}
			b.clearStackToTableBodyContext()
			b.pop()
			b.mode = InTable
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			return false
		}
	}
	return b.processInTable(tok)
}

func (b *Builder) clearStackToTableBodyContext() {
	for len(b.stack) > 0 {
		switch b.currentTag() {
		case "tbody", "tfoot", "thead", "template", "html":
			return
		}
		b.pop()
	}
}

func (b *Builder) processInRow(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "th", "td":
			b.clearStackToTableRowContext()
			b.insertElement(tok, sink.HTML)
			b.mode = InCell
			b.pushFormattingMarker()
			return false
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !b.inTableRowScope("tr") {
				return false
			}
			b.clearStackToTableRowContext()
			b.pop()
			b.mode = InTableBody
			return true
		}
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "tr":
			if !b.inTableRowScope("tr") {
				return false
			}
			b.clearStackToTableRowContext()
			b.pop()
			b.mode = InTableBody
			return false
		case "table":
			if !b.inTableRowScope("tr") {
				return false
			}
			b.clearStackToTableRowContext()
			b.pop()
			b.mode = InTableBody
			return true
		case "tbody", "tfoot", "thead":
			name := b.resolve(tok.Name)
			if !b.inTableBodyScope(name) || !b.inTableRowScope("tr") {
				return false
			}
			b.clearStackToTableRowContext()
			b.pop()
			b.mode = InTableBody
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			return false
		}
	}
	return b.processInTable(tok)
}

func (b *Builder) clearStackToTableRowContext() {
	for len(b.stack) > 0 {
		switch b.currentTag() {
		case "tr", "template", "html":
			return
		}
		b.pop()
	}
}

func (b *Builder) processInCell(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.EndTag:
		name := b.resolve(tok.Name)
		switch name {
		case "td", "th":
			if !b.inTableScope(name) {
				return false
			}
			b.closeImpliedEndTagsExcept("")
			b.popUntil(name)
			b.clearFormattingToMarker()
			b.mode = InRow
			return false
		case "body", "caption", "col", "colgroup", "html":
			return false
		case "table", "tbody", "tfoot", "thead", "tr":
			if !b.inTableScope(name) {
				return false
			}
			return b.closeCellAndReprocess()
		}
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !b.inTableScope("td") && !b.inTableScope("th") {
				return false
			}
			return b.closeCellAndReprocess()
		}
	}
	return b.processInBody(tok)
}

func (b *Builder) closeCellAndReprocess() bool {
	b.closeImpliedEndTagsExcept("")
	b.popUntilAnyCell()
	b.clearFormattingToMarker()
	b.mode = InRow
	return true
}

func (b *Builder) processInSelect(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		data := b.resolve(tok.Data)
		data = strings.ReplaceAll(data, "\x00", "")
		if data != "" {
			b.insertText(data)
		}
		return false
	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false
	case tokenstream.DOCTYPE:
		return false
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "html":
			b.mode = InBody
			return true
		case "option":
			if b.currentTag() == "option" {
				b.pop()
			}
			b.insertElement(tok, sink.HTML)
			return false
		case "optgroup":
			if b.currentTag() == "option" {
				b.pop()
			}
			if b.currentTag() == "optgroup" {
				b.pop()
			}
			b.insertElement(tok, sink.HTML)
			return false
		case "select":
			if !b.inSelectScope("select") {
				return false
			}
			b.popUntil("select")
			b.resetInsertionMode()
			return false
		case "input", "keygen", "textarea":
			if !b.inSelectScope("select") {
				return false
			}
			b.popUntil("select")
			b.resetInsertionMode()
			return true
		case "script", "template":
			return b.processInHead(tok)
		}
		return false
	case tokenstream.EndTag:
		switch b.resolve(tok.Name) {
		case "optgroup":
			if b.currentTag() == "option" && len(b.stack) > 1 && b.stack[len(b.stack)-2].tag == "optgroup" {
				b.pop()
			}
			if b.currentTag() == "optgroup" {
				b.pop()
			}
			return false
		case "option":
			if b.currentTag() == "option" {
				b.pop()
			}
			return false
		case "select":
			if !b.inSelectScope("select") {
				return false
			}
			b.popUntil("select")
			b.resetInsertionMode()
			return false
		case "template":
			return b.processInHead(tok)
		}
		return false
	case tokenstream.EOF:
		return false
	}
	return false
}

func (b *Builder) processInSelectInTable(tok tokenstream.Token) bool {
	name := b.resolve(tok.Name)
	if tok.Kind == tokenstream.StartTag || tok.Kind == tokenstream.EndTag {
		switch name {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			if tok.Kind == tokenstream.EndTag && !b.inTableScope(name) {
				return false
			}
			b.popUntil("select")
			b.resetInsertionMode()
			return true
		}
	}
	return b.processInSelect(tok)
}

func (b *Builder) processInTemplate(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character, tokenstream.Comment, tokenstream.DOCTYPE:
		return b.processInBody(tok)
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			return b.processInHead(tok)
		case "caption", "colgroup", "tbody", "tfoot", "thead":
			b.swapTemplateMode(InTable)
			return true
		case "col":
			b.swapTemplateMode(InColumnGroup)
			return true
		case "tr":
			b.swapTemplateMode(InTableBody)
			return true
		case "td", "th":
			b.swapTemplateMode(InRow)
			return true
		default:
			b.swapTemplateMode(InBody)
			return true
		}
	case tokenstream.EndTag:
		if b.resolve(tok.Name) == "template" {
			return b.processInHead(tok)
		}
		return false
	case tokenstream.EOF:
		if !b.hasInStack("template") {
			return false
		}
		b.popUntil("template")
		b.clearFormattingToMarker()
		if len(b.templateModes) > 0 {
			b.templateModes = b.templateModes[:len(b.templateModes)-1]
		}
		b.resetInsertionMode()
		return true
	}
	return false
}

func (b *Builder) swapTemplateMode(m Mode) {
	if len(b.templateModes) > 0 {
		b.templateModes[len(b.templateModes)-1] = m
	}
	b.mode = m
}

func (b *Builder) processAfterBody(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		if isAllWhitespace(b.resolve(tok.Data)) {
			return b.processInBody(tok)
		}
	case tokenstream.Comment:
		target := b.document
		if len(b.stack) > 0 {
			target = b.stack[0].handle
		}
		b.sink.AppendChild(target, mustCreate(b.sink.CreateComment(b.resolve(tok.Data))))
		return false
	case tokenstream.StartTag:
		if b.resolve(tok.Name) == "html" {
			return b.processInBody(tok)
		}
	case tokenstream.EndTag:
		if b.resolve(tok.Name) == "html" {
			b.mode = AfterAfterBody
			return false
		}
	case tokenstream.EOF:
		return false
	}
	b.mode = InBody
	return true
}

func (b *Builder) processInFrameset(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		if isAllWhitespace(b.resolve(tok.Data)) {
			b.insertText(b.resolve(tok.Data))
		}
		return false
	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "html":
			return b.processInBody(tok)
		case "frameset":
			b.insertElement(tok, sink.HTML)
			return false
		case "frame":
			b.insertElementNoPush(tok, sink.HTML)
			return false
		case "noframes":
			return b.processInHead(tok)
		}
	case tokenstream.EndTag:
		if b.resolve(tok.Name) == "frameset" {
			if b.currentTag() == "html" {
				return false
			}
			b.pop()
			if b.currentTag() != "frameset" {
				b.mode = AfterFrameset
			}
			return false
		}
	case tokenstream.EOF:
		return false
	}
	return false
}

func (b *Builder) processAfterFrameset(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Character:
		if isAllWhitespace(b.resolve(tok.Data)) {
			b.insertText(b.resolve(tok.Data))
		}
		return false
	case tokenstream.Comment:
		b.insertComment(b.resolve(tok.Data))
		return false
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "html":
			return b.processInBody(tok)
		case "noframes":
			return b.processInHead(tok)
		}
	case tokenstream.EndTag:
		if b.resolve(tok.Name) == "html" {
			b.mode = AfterAfterFrameset
			return false
		}
	case tokenstream.EOF:
		return false
	}
	return false
}

func (b *Builder) processAfterAfterBody(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Comment:
		b.sink.AppendChild(b.document, mustCreate(b.sink.CreateComment(b.resolve(tok.Data))))
		return false
	case tokenstream.Character:
		if isAllWhitespace(b.resolve(tok.Data)) {
			return b.processInBody(tok)
		}
	case tokenstream.StartTag:
		if b.resolve(tok.Name) == "html" {
			return b.processInBody(tok)
		}
	case tokenstream.EOF:
		return false
	}
	b.mode = InBody
	return true
}

func (b *Builder) processAfterAfterFrameset(tok tokenstream.Token) bool {
	switch tok.Kind {
	case tokenstream.Comment:
		b.sink.AppendChild(b.document, mustCreate(b.sink.CreateComment(b.resolve(tok.Data))))
		return false
	case tokenstream.Character:
		if isAllWhitespace(b.resolve(tok.Data)) {
			return b.processInBody(tok)
		}
	case tokenstream.StartTag:
		switch b.resolve(tok.Name) {
		case "html":
			return b.processInBody(tok)
		case "noframes":
			return b.processInHead(tok)
		}
	case tokenstream.EOF:
		return false
	}
	return false
}
