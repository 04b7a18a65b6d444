// Package tokenstream defines the wire contract between an upstream HTML
// tokeniser and the tree construction core: token kinds, attributes,
// string references, and the content-model switch the core drives on the
// tokeniser. Tokenisation itself is out of scope — only this interface is
// specified.
package tokenstream

import "github.com/go-htmlcore/treebuilder/sink"

// Kind tags the Token sum type.
type Kind int

const (
	DOCTYPE Kind = iota
	StartTag
	EndTag
	Comment
	Character
	EOF
)

func (k Kind) String() string {
	switch k {
	case DOCTYPE:
		return "DOCTYPE"
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case Comment:
		return "Comment"
	case Character:
		return "Character"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// StrRef is a string reference that is either an offset+length into
// the tokeniser's current input buffer, or
// a materialized heap string. A buffer-handler callback republishes the
// current base pointer whenever the tokeniser relocates its buffer, so
// any StrRef with Off set must be resolved only against that latest base
// — never cached across a token boundary.
type StrRef struct {
	Off    bool
	Offset int
	Length int
	Heap   string
}

// Heap wraps an already-materialized string as a StrRef.
func Heap(s string) StrRef { return StrRef{Heap: s} }

// Offset builds a buffer-relative StrRef.
func Offset(offset, length int) StrRef { return StrRef{Off: true, Offset: offset, Length: length} }

// Resolve dereferences the reference against base, the tokeniser's most
// recently published buffer. Resolving a Heap reference ignores base.
func (r StrRef) Resolve(base []byte) string {
	if !r.Off {
		return r.Heap
	}
	if r.Offset < 0 || r.Offset+r.Length > len(base) {
		return ""
	}
	return string(base[r.Offset : r.Offset+r.Length])
}

// Attr is a single start-tag attribute as delivered by the tokeniser.
// Namespace starts at sink.NoNamespace; foreign-content attribute
// adjustment may rewrite it before the attribute reaches the sink.
type Attr struct {
	Namespace sink.Namespace
	Name      StrRef
	Value     StrRef
}

// Token is the tagged union of payloads a tokeniser delivers to the
// builder's token callback.
type Token struct {
	Kind Kind

	// StartTag / EndTag
	Name        StrRef
	Attrs       []Attr
	SelfClosing bool

	// Character / Comment
	Data StrRef

	// DOCTYPE
	PublicID    *StrRef
	SystemID    *StrRef
	ForceQuirks bool
}

// ContentModel is the tokeniser content model the builder may request.
type ContentModel int

const (
	PCDATA ContentModel = iota
	RCDATA
	CDATA
	PLAINTEXT
	ScriptData
)

// Tokeniser is the half of the upstream tokeniser the builder drives: it
// can be told to switch content model when entering GENERIC_RCDATA,
// PLAINTEXT, or the script-data side-mode.
type Tokeniser interface {
	SetContentModel(ContentModel)
}
