package treebuilder

// Scope terminator sets. Each maps an HTML-namespace tag name to
// true if an open element with that name stops an upward scope search.

var defaultScopeTerminators = map[string]bool{
	"applet": true, "caption": true, "html": true, "table": true,
	"td": true, "th": true, "marquee": true, "object": true, "template": true,
	"mi": true, "mo": true, "mn": true, "ms": true, "mtext": true, "annotation-xml": true,
	"foreignObject": true, "desc": true, "title": true,
}

var listItemScopeTerminators = unionWith(defaultScopeTerminators, "ol", "ul")

var buttonScopeTerminators = unionWith(defaultScopeTerminators, "button")

var tableScopeTerminators = map[string]bool{
	"html": true, "table": true, "template": true,
}

var tableBodyScopeTerminators = map[string]bool{
	"html": true, "table": true, "template": true, "tbody": true, "tfoot": true, "thead": true,
}

var tableRowScopeTerminators = map[string]bool{
	"html": true, "table": true, "template": true, "tbody": true, "tfoot": true, "thead": true, "tr": true,
}

// selectScopeExceptions holds the only two tags that do NOT terminate
// select scope; every other open element does.
var selectScopeExceptions = map[string]bool{
	"optgroup": true, "option": true,
}

func unionWith(base map[string]bool, extra ...string) map[string]bool {
	out := make(map[string]bool, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for _, k := range extra {
		out[k] = true
	}
	return out
}

// voidElements never get an end tag and are never pushed onto the open
// element stack for longer than the instant of their creation.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// tableFosterTargets are the elements whose presence as the current node
// triggers foster parenting of a disallowed insertion.
var tableFosterTargets = map[string]bool{
	"table": true, "tbody": true, "tfoot": true, "thead": true, "tr": true,
}

// impliedEndTagElements may be closed implicitly by closeImpliedEndTagsExcept.
var impliedEndTagElements = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
}

// headingTags are h1..h6, which close each other in IN_BODY.
var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// closePBeforeTags are the block-level start tags that implicitly close
// an open <p> in button scope before their own insertion (§13.2.6.4.7
// "a start tag whose tag name is one of...").
var closePBeforeTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"center": true, "details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "header": true, "hgroup": true, "main": true, "menu": true,
	"nav": true, "ol": true, "p": true, "search": true, "section": true,
	"summary": true, "ul": true,
}

// strayTableEndTags are start tags that IN_BODY ignores outright (after
// reporting a parse error) because they only make sense inside
// table-related or head/frameset insertion modes.
var strayTableEndTags = map[string]bool{
	"caption": true, "col": true, "colgroup": true, "frame": true,
	"head": true, "tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "tr": true,
}

// formattingElementNames names every tag eligible for the active
// formatting list, mirroring elements.IsFormatting's range.
var formattingElementNames = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true, "font": true,
	"i": true, "nobr": true, "s": true, "small": true, "strike": true,
	"strong": true, "tt": true, "u": true,
}
