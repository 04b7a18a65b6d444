package treebuilder

import (
	"testing"

	"github.com/go-htmlcore/treebuilder/memsink"
	"github.com/go-htmlcore/treebuilder/sink"
)

func newTestBuilder() *Builder {
	s := memsink.New()
	return New(s)
}

func pushTag(b *Builder, tag string) {
	h, _ := b.sink.CreateElement(sink.HTML, tag, nil)
	b.sink.RefNode(h)
	b.pushFrame(frame{namespace: sink.HTML, tag: tag, handle: h})
}

func TestInDefaultScopeStopsAtTerminator(t *testing.T) {
	b := newTestBuilder()
	pushTag(b, "html")
	pushTag(b, "table")
	pushTag(b, "div")

	if b.inDefaultScope("div") != true {
		t.Fatalf("want div in default scope")
	}
	if b.inDefaultScope("html") != false {
		t.Fatalf("want html not found: the table above it terminates the default scope search first")
	}
}

func TestInTableScopeSeesThroughNonTerminators(t *testing.T) {
	b := newTestBuilder()
	pushTag(b, "html")
	pushTag(b, "table")
	pushTag(b, "tbody")
	pushTag(b, "tr")

	if !b.inTableScope("table") {
		t.Fatalf("want table found in table scope despite tbody/tr above it")
	}
}

func TestInSelectScopeOnlyAllowsOptgroupOption(t *testing.T) {
	b := newTestBuilder()
	pushTag(b, "html")
	pushTag(b, "select")
	pushTag(b, "optgroup")
	pushTag(b, "option")

	if !b.inSelectScope("select") {
		t.Fatalf("want select found through optgroup/option")
	}

	b2 := newTestBuilder()
	pushTag(b2, "html")
	pushTag(b2, "select")
	pushTag(b2, "div")
	if b2.inSelectScope("select") {
		t.Fatalf("want select scope broken by a non-optgroup/option element")
	}
}

func TestPopUntilPopsInclusive(t *testing.T) {
	b := newTestBuilder()
	pushTag(b, "html")
	pushTag(b, "body")
	pushTag(b, "div")
	pushTag(b, "p")

	b.popUntil("div")
	if b.currentTag() != "body" {
		t.Fatalf("got current tag %q, want body", b.currentTag())
	}
	if b.hasInStack("div") || b.hasInStack("p") {
		t.Fatalf("popUntil left elements above and including the target on the stack")
	}
}

func TestPopUntilOneOfStopsAtFirstMatch(t *testing.T) {
	b := newTestBuilder()
	pushTag(b, "html")
	pushTag(b, "table")
	pushTag(b, "tbody")
	pushTag(b, "tr")

	b.popUntilOneOf("table", "template")
	if b.currentTag() != "html" {
		t.Fatalf("got current tag %q, want html", b.currentTag())
	}
}

func TestCurrentFrameOnEmptyStackIsZeroValue(t *testing.T) {
	b := newTestBuilder()
	if got := b.currentFrame(); got.handle != 0 || got.tag != "" {
		t.Fatalf("want zero frame on empty stack, got %+v", got)
	}
	if b.currentHandle() != b.document {
		t.Fatalf("want currentHandle to fall back to the document handle when the stack is empty")
	}
}

func TestPopOfEmptyStackIsAContractViolation(t *testing.T) {
	b := newTestBuilder()
	defer func() {
		if recover() == nil {
			t.Fatal("want a panic popping an empty open element stack")
		}
	}()
	b.pop()
}
