package treebuilder_test

import (
	"testing"

	"github.com/go-htmlcore/treebuilder/memsink"
	"github.com/go-htmlcore/treebuilder/tokenstream"
	"github.com/go-htmlcore/treebuilder/treebuilder"
)

// Hand-authored token fixtures stand in for a tokeniser, which is out
// of scope for this module.

func startTag(name string, attrs ...tokenstream.Attr) tokenstream.Token {
	return tokenstream.Token{Kind: tokenstream.StartTag, Name: tokenstream.Heap(name), Attrs: attrs}
}

func endTag(name string) tokenstream.Token {
	return tokenstream.Token{Kind: tokenstream.EndTag, Name: tokenstream.Heap(name)}
}

func char(data string) tokenstream.Token {
	return tokenstream.Token{Kind: tokenstream.Character, Data: tokenstream.Heap(data)}
}

func eof() tokenstream.Token { return tokenstream.Token{Kind: tokenstream.EOF} }

func doctype(name string) tokenstream.Token {
	return tokenstream.Token{Kind: tokenstream.DOCTYPE, Name: tokenstream.Heap(name)}
}

func comment(data string) tokenstream.Token {
	return tokenstream.Token{Kind: tokenstream.Comment, Data: tokenstream.Heap(data)}
}

func runScenario(toks ...tokenstream.Token) *memsink.Sink {
	s := memsink.New()
	b := treebuilder.New(s)
	for _, t := range toks {
		b.ProcessToken(t)
	}
	b.Close()
	return s
}

// Scenario 1: <p>X
func TestScenarioSimpleParagraph(t *testing.T) {
	s := runScenario(startTag("html"), startTag("body"), startTag("p"), char("X"), eof())
	want := "| <html>\n|   <head>\n|   <body>\n|     <p>\n|       \"X\""
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// Scenario 2: <b>1<p>2</b>3 exercises the adoption agency.
func TestScenarioAdoptionAgency(t *testing.T) {
	s := runScenario(
		startTag("html"), startTag("body"),
		startTag("b"), char("1"),
		startTag("p"), char("2"),
		endTag("b"), char("3"),
		eof(),
	)
	want := "| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     <b>\n" +
		"|       \"1\"\n" +
		"|     <p>\n" +
		"|       <b>\n" +
		"|         \"2\"\n" +
		"|       \"3\""
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// Scenario 3: a plain table with an explicit tr/td.
func TestScenarioTableStructure(t *testing.T) {
	s := runScenario(
		startTag("html"), startTag("body"),
		startTag("table"), startTag("tr"), startTag("td"), char("X"),
		endTag("td"), endTag("tr"), endTag("table"),
		eof(),
	)
	want := "| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     <table>\n" +
		"|       <tbody>\n" +
		"|         <tr>\n" +
		"|           <td>\n" +
		"|             \"X\""
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// Scenario 4: A<table>B</table> exercises foster parenting.
func TestScenarioFosterParenting(t *testing.T) {
	s := runScenario(
		startTag("html"), startTag("body"),
		char("A"), startTag("table"), char("B"), endTag("table"),
		eof(),
	)
	want := "| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     \"AB\"\n" +
		"|     <table>"
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// Scenario 5: a leading newline right after <pre> is stripped.
func TestScenarioPreLeadingNewlineStripped(t *testing.T) {
	s := runScenario(
		startTag("html"), startTag("head"), endTag("head"), startTag("body"),
		startTag("pre"), char("\nHi"),
		eof(),
	)
	want := "| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     <pre>\n" +
		"|       \"Hi\""
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// Scenario 6: a second <option> implicitly closes the first.
func TestScenarioSelectOptionImplicitClose(t *testing.T) {
	s := runScenario(
		startTag("html"), startTag("body"),
		startTag("select"),
		startTag("option"), char("a"),
		startTag("option"), char("b"),
		endTag("select"),
		eof(),
	)
	want := "| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     <select>\n" +
		"|       <option>\n" +
		"|         \"a\"\n" +
		"|       <option>\n" +
		"|         \"b\""
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// <b>1<span>2<div>3</b>4 exercises the adoption agency's inner loop
// removing a non-formatting node (span) that sits strictly between the
// formatting element and the furthest block (div).
func TestScenarioAdoptionAgencyRemovesIntermediateNode(t *testing.T) {
	s := runScenario(
		startTag("html"), startTag("body"),
		startTag("b"), char("1"),
		startTag("span"), char("2"),
		startTag("div"), char("3"),
		endTag("b"), char("4"),
		eof(),
	)
	want := "| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     <b>\n" +
		"|       \"1\"\n" +
		"|       <span>\n" +
		"|         \"2\"\n" +
		"|     <div>\n" +
		"|       <b>\n" +
		"|         \"3\"\n" +
		"|       \"4\""
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// <b><i><span><div>X</b> exercises the adoption agency's inner loop
// removing an unmatched node (span) immediately before a formatting-list
// match (i) — the bookmark that decides where the relocated formatting
// element is reinserted must track the matched node by handle, not by
// its splice-shifted stack index, or the active formatting list ends up
// misordered.
func TestScenarioAdoptionAgencyBookmarkSurvivesSplice(t *testing.T) {
	s := runScenario(
		startTag("html"), startTag("head"), endTag("head"), startTag("body"),
		startTag("b"), startTag("i"), startTag("span"), startTag("div"),
		char("X"),
		endTag("b"),
		eof(),
	)
	want := "| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     <b>\n" +
		"|       <i>\n" +
		"|         <span>\n" +
		"|     <i>\n" +
		"|       <div>\n" +
		"|         <b>\n" +
		"|           \"X\""
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// A stray </tfoot> inside a cell, with no tfoot actually open, must be
// ignored rather than closing the cell.
func TestScenarioStrayEndTagInCellIsIgnored(t *testing.T) {
	s := runScenario(
		startTag("html"), startTag("body"),
		startTag("table"), startTag("tr"), startTag("td"), char("X"),
		endTag("tfoot"), char("Y"),
		endTag("td"), endTag("tr"), endTag("table"),
		eof(),
	)
	want := "| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     <table>\n" +
		"|       <tbody>\n" +
		"|         <tr>\n" +
		"|           <td>\n" +
		"|             \"XY\""
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// A mismatched end tag reached while inside foreign content, that
// happens to match an ancestor's tag name by coincidence, must close
// through that ancestor directly rather than being kicked back to the
// "in body" end-tag rules (which would special-case "body" into a
// mode change instead of popping anything).
func TestScenarioForeignContentEndTagMatchesHTMLAncestor(t *testing.T) {
	s := runScenario(
		startTag("html"), startTag("head"), endTag("head"), startTag("body"),
		startTag("svg"), startTag("circle"),
		endTag("body"),
		eof(),
	)
	want := "| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     <svg svg>\n" +
		"|       <svg circle>"
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// A leading comment and DOCTYPE, seen before <html>, must land on the
// document itself rather than being silently dropped.
func TestScenarioLeadingDoctypeAndComment(t *testing.T) {
	s := runScenario(
		doctype("html"),
		comment("hello"),
		startTag("html"), startTag("head"), endTag("head"), startTag("body"),
		char("X"),
		eof(),
	)
	want := "| <!DOCTYPE html>\n" +
		"| <!-- hello -->\n" +
		"| <html>\n" +
		"|   <head>\n" +
		"|   <body>\n" +
		"|     \"X\""
	if got := s.Dump(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
