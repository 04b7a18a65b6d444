package memsink

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-htmlcore/treebuilder/sink"
)

// Dump serializes the document rooted at the sink's own document node
// to the html5lib tree-construction test "document" format
// (https://github.com/html5lib/html5lib-tests), the format
// treebuilder's compliance tests compare against.
func (s *Sink) Dump() string {
	var sb strings.Builder
	if s.doctype != nil {
		sb.WriteString(DumpDoctype(s.doctype.doctypeName, s.doctype.publicID, s.doctype.systemID))
		sb.WriteByte('\n')
	}
	for _, child := range s.doc.children {
		dumpNode(&sb, child, 0)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// DumpFragment serializes the children of root (typically a fragment
// parsing context element) instead of the whole document.
func (s *Sink) DumpFragment(root sink.Handle) string {
	n := s.lookup(root)
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for _, child := range n.children {
		dumpNode(&sb, child, 0)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func dumpNode(sb *strings.Builder, n *node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.kind {
	case elementKind:
		sb.WriteString("| ")
		sb.WriteString(indent)
		sb.WriteString("<")
		sb.WriteString(dumpTagName(n))
		sb.WriteString(">\n")

		attrs := append([]sink.Attr(nil), n.attrs...)
		sort.Slice(attrs, func(i, j int) bool {
			return dumpAttrName(attrs[i]) < dumpAttrName(attrs[j])
		})
		for _, a := range attrs {
			sb.WriteString("| ")
			sb.WriteString(indent)
			sb.WriteString("  ")
			sb.WriteString(dumpAttrName(a))
			sb.WriteString("=\"")
			sb.WriteString(a.Value)
			sb.WriteString("\"\n")
		}

		if n.templateContent != nil {
			sb.WriteString("| ")
			sb.WriteString(strings.Repeat("  ", depth+1))
			sb.WriteString("content\n")
			for _, child := range n.templateContent.children {
				dumpNode(sb, child, depth+2)
			}
		}

		for _, child := range n.children {
			dumpNode(sb, child, depth+1)
		}

	case textKind:
		sb.WriteString("| ")
		sb.WriteString(indent)
		sb.WriteString("\"")
		sb.WriteString(n.data)
		sb.WriteString("\"\n")

	case commentKind:
		sb.WriteString("| ")
		sb.WriteString(indent)
		sb.WriteString("<!-- ")
		sb.WriteString(n.data)
		sb.WriteString(" -->\n")

	default:
		return
	}
}

// DumpDoctype renders a DOCTYPE line from its name, public identifier
// and system identifier, as passed to CreateDoctype.
func DumpDoctype(name, publicID, systemID string) string {
	var sb strings.Builder
	sb.WriteString("| <!DOCTYPE ")
	if name == "" {
		sb.WriteString(">")
		return sb.String()
	}
	sb.WriteString(name)
	if publicID != "" || systemID != "" {
		sb.WriteString(" \"")
		sb.WriteString(publicID)
		sb.WriteString("\" \"")
		sb.WriteString(systemID)
		sb.WriteString("\">")
	} else {
		sb.WriteString(">")
	}
	return sb.String()
}

func dumpTagName(n *node) string {
	switch n.namespace {
	case sink.NoNamespace, sink.HTML:
		return n.tag
	case sink.SVG:
		return "svg " + n.tag
	case sink.MathML:
		return "math " + n.tag
	default:
		return fmt.Sprintf("%s %s", n.namespace, n.tag)
	}
}

func dumpAttrName(a sink.Attr) string {
	var designator string
	switch a.Namespace {
	case sink.NoNamespace:
		designator = ""
	case sink.XLink:
		designator = "xlink "
	case sink.XML:
		designator = "xml "
	case sink.XMLNS:
		designator = "xmlns "
	default:
		designator = a.Namespace.String() + " "
	}
	if designator == "" {
		return a.Name
	}
	local := a.Name
	if idx := strings.IndexByte(local, ':'); idx >= 0 {
		local = local[idx+1:]
	}
	return designator + local
}
