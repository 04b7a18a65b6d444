package treebuilder

import "github.com/go-htmlcore/treebuilder/tokenstream"

// ProcessToken consumes one tokeniser token and drives the tree.
// Mode handlers signal "reprocess this same token" by returning true;
// the dispatcher loops without re-entering the caller, so a token can
// be reprocessed any number of times without growing the call stack.
func (b *Builder) ProcessToken(tok tokenstream.Token) {
	for {
		if !b.forceHTMLMode && b.shouldUseForeignContent(tok) {
			if b.processForeignContent(tok) {
				continue
			}
			return
		}
		b.forceHTMLMode = false

		var reprocess bool
		switch b.mode {
		case Initial:
			reprocess = b.processInitial(tok)
		case BeforeHTML:
			reprocess = b.processBeforeHTML(tok)
		case BeforeHead:
			reprocess = b.processBeforeHead(tok)
		case InHead:
			reprocess = b.processInHead(tok)
		case InHeadNoscript:
			reprocess = b.processInHeadNoscript(tok)
		case AfterHead:
			reprocess = b.processAfterHead(tok)
		case InBody:
			reprocess = b.processInBody(tok)
		case Text:
			reprocess = b.processText(tok)
		case InTable:
			reprocess = b.processInTable(tok)
		case InTableText:
			reprocess = b.processInTableText(tok)
		case InCaption:
			reprocess = b.processInCaption(tok)
		case InColumnGroup:
			reprocess = b.processInColumnGroup(tok)
		case InTableBody:
			reprocess = b.processInTableBody(tok)
		case InRow:
			reprocess = b.processInRow(tok)
		case InCell:
			reprocess = b.processInCell(tok)
		case InSelect:
			reprocess = b.processInSelect(tok)
		case InSelectInTable:
			reprocess = b.processInSelectInTable(tok)
		case InTemplate:
			reprocess = b.processInTemplate(tok)
		case AfterBody:
			reprocess = b.processAfterBody(tok)
		case InFrameset:
			reprocess = b.processInFrameset(tok)
		case AfterFrameset:
			reprocess = b.processAfterFrameset(tok)
		case AfterAfterBody:
			reprocess = b.processAfterAfterBody(tok)
		case AfterAfterFrameset:
			reprocess = b.processAfterAfterFrameset(tok)
		default:
			reprocess = b.processInBody(tok)
		}
		if !reprocess {
			return
		}
	}
}
