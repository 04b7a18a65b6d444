package treebuilder_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/go-htmlcore/treebuilder/memsink"
	"github.com/go-htmlcore/treebuilder/tokenstream"
)

// complianceCase pairs a hand-tokenized fixture (the tokeniser is out
// of scope for this module) with the literal markup it represents, so
// an independent implementation can parse the same markup and serve
// as a reference oracle for the fixture's expected shape.
type complianceCase struct {
	name   string
	markup string
	tokens []tokenstream.Token
	check  func(t *testing.T, oracle *goquery.Document, ours *memsink.Sink)
}

func runCompliance(t *testing.T, tc complianceCase) {
	t.Run(tc.name, func(t *testing.T) {
		root, err := html.Parse(strings.NewReader(tc.markup))
		if err != nil {
			t.Fatalf("oracle parse: %v", err)
		}
		oracle := goquery.NewDocumentFromNode(root)
		ours := runScenario(tc.tokens...)
		tc.check(t, oracle, ours)
	})
}

// TestComplianceTableImpliesTbody exercises the "table implies tbody"
// insertion rule against golang.org/x/net/html as ground truth,
// selecting the oracle's tbody/tr/td subtree with cascadia the same
// way a goquery caller would.
func TestComplianceTableImpliesTbody(t *testing.T) {
	runCompliance(t, complianceCase{
		name:   "table_implies_tbody",
		markup: `<table><tr><td>X</td></tr></table>`,
		tokens: []tokenstream.Token{
			startTag("html"), startTag("body"),
			startTag("table"), startTag("tr"), startTag("td"), char("X"),
			endTag("td"), endTag("tr"), endTag("table"),
			eof(),
		},
		check: func(t *testing.T, oracle *goquery.Document, ours *memsink.Sink) {
			sel := cascadia.MustCompile("table > tbody > tr > td")
			cells := cascadia.QueryAll(oracle.Get(0), sel)
			if len(cells) != 1 {
				t.Fatalf("oracle: want 1 implied tbody/tr/td cell, got %d", len(cells))
			}
			if got := oracle.Find("table tbody tr td").Text(); got != "X" {
				t.Fatalf("oracle cell text = %q, want %q", got, "X")
			}
			want := "| <html>\n" +
				"|   <head>\n" +
				"|   <body>\n" +
				"|     <table>\n" +
				"|       <tbody>\n" +
				"|         <tr>\n" +
				"|           <td>\n" +
				"|             \"X\""
			if got := ours.Dump(); got != want {
				t.Errorf("ours:\n%s\nwant:\n%s", got, want)
			}
		},
	})
}

// TestComplianceFosterParenting exercises foster parenting against the
// oracle: a character token that arrives while the current node is
// <table> is relocated to just before the table in the enclosing body.
func TestComplianceFosterParenting(t *testing.T) {
	runCompliance(t, complianceCase{
		name:   "foster_parenting",
		markup: `A<table>B</table>`,
		tokens: []tokenstream.Token{
			startTag("html"), startTag("body"),
			char("A"), startTag("table"), char("B"), endTag("table"),
			eof(),
		},
		check: func(t *testing.T, oracle *goquery.Document, ours *memsink.Sink) {
			body := oracle.Find("body")
			if body.Length() != 1 {
				t.Fatalf("oracle: want exactly one body, got %d", body.Length())
			}
			firstChild := body.Contents().First()
			if goquery.NodeName(firstChild) != "#text" || strings.TrimSpace(firstChild.Text()) != "AB" {
				t.Fatalf("oracle: want foster-parented text %q before <table>, got node %q text %q",
					"AB", goquery.NodeName(firstChild), firstChild.Text())
			}
			if oracle.Find("body > table").Length() != 1 {
				t.Fatalf("oracle: want <table> as a direct child of body")
			}

			want := "| <html>\n" +
				"|   <head>\n" +
				"|   <body>\n" +
				"|     \"AB\"\n" +
				"|     <table>"
			if got := ours.Dump(); got != want {
				t.Errorf("ours:\n%s\nwant:\n%s", got, want)
			}
		},
	})
}

// TestComplianceSelectOptionNesting exercises the "second <option>
// implicitly closes the first" rule, selecting every select>option
// child with cascadia on the oracle side.
func TestComplianceSelectOptionNesting(t *testing.T) {
	runCompliance(t, complianceCase{
		name:   "select_option_nesting",
		markup: `<select><option>a<option>b</select>`,
		tokens: []tokenstream.Token{
			startTag("html"), startTag("body"),
			startTag("select"),
			startTag("option"), char("a"),
			startTag("option"), char("b"),
			endTag("select"),
			eof(),
		},
		check: func(t *testing.T, oracle *goquery.Document, ours *memsink.Sink) {
			sel := cascadia.MustCompile("select > option")
			opts := cascadia.QueryAll(oracle.Get(0), sel)
			if len(opts) != 2 {
				t.Fatalf("oracle: want 2 sibling options (no nesting), got %d", len(opts))
			}
			oracle.Find("select > option").Each(func(i int, o *goquery.Selection) {
				if o.Children().Length() != 0 {
					t.Errorf("oracle option %d has child elements; expected second <option> to close the first, not nest", i)
				}
			})

			want := "| <html>\n" +
				"|   <head>\n" +
				"|   <body>\n" +
				"|     <select>\n" +
				"|       <option>\n" +
				"|         \"a\"\n" +
				"|       <option>\n" +
				"|         \"b\""
			if got := ours.Dump(); got != want {
				t.Errorf("ours:\n%s\nwant:\n%s", got, want)
			}
		},
	})
}
