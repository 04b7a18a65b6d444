package treebuilder

import (
	"strings"

	"github.com/go-htmlcore/treebuilder/sink"
)

// quirksKey is a DOCTYPE (name, public id, system id) triple used as a
// map key for the handful of exactly-matched acceptable doctypes.
type quirksKey struct {
	name, public, system string
}

var acceptableDoctypes = map[quirksKey]bool{
	{"html", "", ""}:                    true,
	{"html", "", "about:legacy-compat"}: true,
}

var quirkyPublicMatches = map[string]bool{
	"-//w3o//dtd w3 html strict 3.0//en//":     true,
	"-/w3d/dtd html 4.0 transitional/en":       true,
	"html":                                     true,
}

var quirkySystemMatches = map[string]bool{
	"http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd": true,
}

var quirkyPublicPrefixes = []string{
	"+//silmaril//dtd html pro v0r11 19970101//",
	"-//advasoft ltd//dtd html 3.0 aswedit + extensions//",
	"-//as//dtd html 3.0 aswedit + extensions//",
	"-//ietf//dtd html 2.0//",
	"-//ietf//dtd html 2.1e//",
	"-//ietf//dtd html 3.0//",
	"-//ietf//dtd html 3.2//",
	"-//ietf//dtd html level 0//",
	"-//ietf//dtd html level 1//",
	"-//ietf//dtd html level 2//",
	"-//ietf//dtd html level 3//",
	"-//ietf//dtd html//",
	"-//metrius//dtd metrius presentational//",
	"-//microsoft//dtd internet explorer 2.0 html//",
	"-//microsoft//dtd internet explorer 2.0 tables//",
	"-//microsoft//dtd internet explorer 3.0 html//",
	"-//microsoft//dtd internet explorer 3.0 tables//",
	"-//netscape comm. corp.//dtd html//",
	"-//netscape comm. corp.//dtd strict html//",
	"-//o'reilly and associates//dtd html 2.0//",
	"-//o'reilly and associates//dtd html extended 1.0//",
	"-//o'reilly and associates//dtd html extended relaxed 1.0//",
	"-//sq//dtd html 2.0 hotmetal + extensions//",
	"-//softquad software//dtd hotmetal pro 6.0::19990601::extensions to html 4.0//",
	"-//softquad//dtd hotmetal pro 4.0::19971010::extensions to html 4.0//",
	"-//spyglass//dtd html 2.0 extended//",
	"-//sun microsystems corp.//dtd hotjava html//",
	"-//sun microsystems corp.//dtd hotjava strict html//",
	"-//w3c//dtd html 3 1995-03-24//",
	"-//w3c//dtd html 3.2 draft//",
	"-//w3c//dtd html 3.2 final//",
	"-//w3c//dtd html 3.2//",
	"-//w3c//dtd html 3.2s draft//",
	"-//w3c//dtd html 4.0 frameset//",
	"-//w3c//dtd html 4.0 transitional//",
	"-//w3c//dtd html experimental 19960712//",
	"-//w3c//dtd html experimental 970421//",
	"-//w3c//dtd w3 html//",
	"-//w3o//dtd w3 html 3.0//",
	"-//webtechs//dtd mozilla html 2.0//",
	"-//webtechs//dtd mozilla html//",
}

var limitedQuirkyPublicPrefixes = []string{
	"-//w3c//dtd xhtml 1.0 frameset//",
	"-//w3c//dtd xhtml 1.0 transitional//",
}

var html4PublicPrefixes = []string{
	"-//w3c//dtd html 4.01 frameset//",
	"-//w3c//dtd html 4.01 transitional//",
}

// resolveQuirksMode implements the DOCTYPE-driven quirks-mode table:
// the well-known WHATWG public/system identifier classification,
// short-circuited to NoQuirks whenever the document is being parsed as
// iframe srcdoc content.
func resolveQuirksMode(name, public, system string, forceQuirks, iframeSrcdoc bool) sink.QuirksMode {
	if iframeSrcdoc {
		return sink.NoQuirks
	}
	if forceQuirks {
		return sink.Quirks
	}
	if strings.ToLower(name) != "html" {
		return sink.Quirks
	}

	pl := strings.ToLower(public)
	sl := strings.ToLower(system)

	if quirkyPublicMatches[pl] || quirkySystemMatches[sl] {
		return sink.Quirks
	}
	if hasAnyPrefix(pl, quirkyPublicPrefixes) {
		return sink.Quirks
	}
	if sl == "" && hasAnyPrefix(pl, html4PublicPrefixes) {
		return sink.Quirks
	}
	if hasAnyPrefix(pl, limitedQuirkyPublicPrefixes) {
		return sink.LimitedQuirks
	}
	if hasAnyPrefix(pl, html4PublicPrefixes) {
		if system == "" {
			return sink.Quirks
		}
		return sink.LimitedQuirks
	}
	return sink.NoQuirks
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
