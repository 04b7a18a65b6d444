// Package elements classifies HTML element names into the closed type
// enumeration used by the tree construction core.
//
// The enumeration is ordered so that the four predicates used throughout
// tree construction — special, scoping, formatting, phrasing — reduce to
// constant-time range tests rather than map lookups.
package elements

import "strings"

// Type is a closed enumeration of element names recognised by the tree
// builder. Slot 0 (Unused) is reserved: it is what an open-element-stack
// frame holds before anything has been pushed into it, so no real element
// name may ever map to it.
type Type uint16

const (
	// Unused is the reserved "nothing pushed here yet" sentinel for stack
	// slot 0. No call to TypeFromName ever returns it.
	Unused Type = iota

	// ---- special elements: [Address, WBR] ----
	Address
	Area
	Article
	Aside
	Base
	Basefont
	Bgsound
	Blockquote
	Body
	Br
	Button
	Center
	Col
	Colgroup
	Dd
	Details
	Dialog
	Dir
	Div
	Dl
	Dt
	Embed
	Fieldset
	Figcaption
	Figure
	Footer
	Form
	Frame
	Frameset
	H1
	H2
	H3
	H4
	H5
	H6
	Head
	Header
	Hgroup
	Hr
	Iframe
	Img
	Input
	Keygen
	Li
	Link
	Listing
	Main
	Marquee
	Menu
	Menuitem
	Meta
	Nav
	Noembed
	Noframes
	Noscript
	Object
	Ol
	P
	Param
	Plaintext
	Pre
	Script
	Search
	Section
	Select
	Source
	Style
	Summary
	Tbody
	Template
	Textarea
	Tfoot
	Thead
	Title
	Tr
	Track
	Ul
	WBR

	// ---- scoping elements: [Applet, TH] ----
	Applet
	Caption
	HTML
	Table
	Td
	TH

	// ---- formatting elements: [A, U] ----
	A
	B
	Big
	Code
	Em
	Font
	I
	Nobr
	S
	Small
	Strike
	Strong
	Tt
	U

	// ---- phrasing: everything above U, including Unknown ----
	// Elements below are not exhaustive of HTML phrasing content; any name
	// not found in byName falls through to Unknown, which — by sitting
	// after U — already satisfies IsPhrasing.
	Unknown
)

var byName = map[string]Type{
	"address": Address, "area": Area, "article": Article, "aside": Aside,
	"base": Base, "basefont": Basefont, "bgsound": Bgsound, "blockquote": Blockquote,
	"body": Body, "br": Br, "button": Button, "center": Center, "col": Col,
	"colgroup": Colgroup, "dd": Dd, "details": Details, "dialog": Dialog, "dir": Dir,
	"div": Div, "dl": Dl, "dt": Dt, "embed": Embed, "fieldset": Fieldset,
	"figcaption": Figcaption, "figure": Figure, "footer": Footer, "form": Form,
	"frame": Frame, "frameset": Frameset, "h1": H1, "h2": H2, "h3": H3, "h4": H4,
	"h5": H5, "h6": H6, "head": Head, "header": Header, "hgroup": Hgroup, "hr": Hr,
	"iframe": Iframe, "img": Img, "input": Input, "keygen": Keygen, "li": Li,
	"link": Link, "listing": Listing, "main": Main, "marquee": Marquee, "menu": Menu,
	"menuitem": Menuitem, "meta": Meta, "nav": Nav, "noembed": Noembed,
	"noframes": Noframes, "noscript": Noscript, "object": Object, "ol": Ol, "p": P,
	"param": Param, "plaintext": Plaintext, "pre": Pre, "script": Script,
	"search": Search, "section": Section, "select": Select, "source": Source,
	"style": Style, "summary": Summary, "tbody": Tbody, "template": Template,
	"textarea": Textarea, "tfoot": Tfoot, "thead": Thead, "title": Title, "tr": Tr,
	"track": Track, "ul": Ul, "wbr": WBR,

	"applet": Applet, "caption": Caption, "html": HTML, "table": Table,
	"td": Td, "th": TH,

	"a": A, "b": B, "big": Big, "code": Code, "em": Em, "font": Font, "i": I,
	"nobr": Nobr, "s": S, "small": Small, "strike": Strike, "strong": Strong,
	"tt": Tt, "u": U,
}

// TypeFromName maps an ASCII-case-insensitive element name to its type.
// Names outside the enumeration map to Unknown.
func TypeFromName(name string) Type {
	if t, ok := byName[name]; ok {
		return t
	}
	if t, ok := byName[strings.ToLower(name)]; ok {
		return t
	}
	return Unknown
}

// IsSpecial reports whether t has distinguished treatment in IN_BODY's
// end-tag handling (HTML5's "special" category).
func IsSpecial(t Type) bool { return t >= Address && t <= WBR }

// IsScoping reports whether t halts an upward scope search.
func IsScoping(t Type) bool { return t >= Applet && t <= TH }

// IsFormatting reports whether t is a text-formatting element eligible for
// the active formatting list and the adoption agency algorithm.
func IsFormatting(t Type) bool { return t >= A && t <= U }

// IsPhrasing reports whether t is ordinary inline/phrasing content —
// everything not special, scoping, or formatting (including Unknown).
func IsPhrasing(t Type) bool { return t > U }
