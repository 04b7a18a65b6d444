package memsink

import (
	"testing"

	"github.com/go-htmlcore/treebuilder/sink"
)

func TestAppendChildCoalescesAdjacentText(t *testing.T) {
	s := New()
	p, _ := s.CreateElement(sink.NoNamespace, "p", nil)
	s.AppendChild(s.DocumentHandle(), p)

	t1, _ := s.CreateText("Hello, ")
	eff1, _ := s.AppendChild(p, t1)

	t2, _ := s.CreateText("world")
	eff2, _ := s.AppendChild(p, t2)

	if eff1 != eff2 {
		t.Fatalf("expected coalesced text handles to match, got %v and %v", eff1, eff2)
	}
	if !s.HasChildren(p) {
		t.Fatalf("expected p to have children")
	}
	if got := s.lookup(eff1).data; got != "Hello, world" {
		t.Fatalf("got %q, want %q", got, "Hello, world")
	}
}

func TestUnrefNodeBelowZeroPanics(t *testing.T) {
	s := New()
	h, _ := s.CreateComment("x")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unbalanced UnrefNode")
		}
	}()
	s.UnrefNode(h)
}

func TestReparentChildrenMovesInOrder(t *testing.T) {
	s := New()
	src, _ := s.CreateElement(sink.NoNamespace, "div", nil)
	dst, _ := s.CreateElement(sink.NoNamespace, "span", nil)
	s.AppendChild(s.DocumentHandle(), src)
	s.AppendChild(s.DocumentHandle(), dst)

	a, _ := s.CreateElement(sink.NoNamespace, "a", nil)
	b, _ := s.CreateElement(sink.NoNamespace, "b", nil)
	s.AppendChild(src, a)
	s.AppendChild(src, b)

	if code := s.ReparentChildren(src, dst); code != sink.OK {
		t.Fatalf("unexpected code %v", code)
	}
	if s.HasChildren(src) {
		t.Fatalf("src should be emptied")
	}
	if s.GetParent(a, false) != dst || s.GetParent(b, false) != dst {
		t.Fatalf("children not reparented to dst")
	}
}

func TestAddAttributesDoesNotOverwriteExisting(t *testing.T) {
	s := New()
	h, _ := s.CreateElement(sink.NoNamespace, "div", nil)
	s.AddAttributes(h, []sink.Attr{{Name: "id", Value: "first"}})
	s.AddAttributes(h, []sink.Attr{{Name: "id", Value: "second"}, {Name: "class", Value: "x"}})

	if got := s.GetAttribute(h, "id"); got != "first" {
		t.Fatalf("got %q, want %q", got, "first")
	}
	if got := s.GetAttribute(h, "class"); got != "x" {
		t.Fatalf("got %q, want %q", got, "x")
	}
}
