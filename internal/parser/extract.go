package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/fightstats/internal/schema"
	"github.com/IshaanNene/fightstats/internal/types"
)

// Find returns every node under sel matched by loc, in document order.
// XPath locators are evaluated relative to each node of sel.
func Find(sel *goquery.Selection, loc schema.Locator) *goquery.Selection {
	if !loc.IsXPath() {
		return sel.Find(loc.CSS())
	}

	var nodes []*html.Node
	for _, root := range sel.Nodes {
		found, err := htmlquery.QueryAll(root, loc.XPath)
		if err != nil {
			// Expressions are compiled when the schema loads.
			continue
		}
		nodes = append(nodes, found...)
	}
	return sel.FindNodes(nodes...)
}

// Node returns the match of loc selected by loc.Index.
func Node(sel *goquery.Selection, loc schema.Locator) (*goquery.Selection, bool) {
	matches := Find(sel, loc)
	if loc.Index < 0 || loc.Index >= matches.Length() {
		return nil, false
	}
	return matches.Eq(loc.Index), true
}

// Text returns the stripped text of the node loc selects, or its attribute
// value when loc names one. The bool is false when the node or attribute is
// absent.
func Text(sel *goquery.Selection, loc schema.Locator) (string, bool) {
	node, ok := Node(sel, loc)
	if !ok {
		return "", false
	}
	return nodeValue(node, loc)
}

// Optional is Text with absent and empty values replaced by the sentinel.
func Optional(sel *goquery.Selection, loc schema.Locator) string {
	v, _ := Text(sel, loc)
	return orSentinel(v)
}

// Required returns the node loc selects or an ExtractionError naming field.
func Required(sel *goquery.Selection, loc schema.Locator, field, pageURL string) (*goquery.Selection, error) {
	node, ok := Node(sel, loc)
	if !ok {
		return nil, &types.ExtractionError{
			URL:     pageURL,
			Field:   field,
			Locator: loc.String(),
			Err:     types.ErrMissingNode,
		}
	}
	return node, nil
}

// StrippedText concatenates the text nodes under sel, each trimmed of
// surrounding whitespace, skipping those that are blank. Fragments are
// joined with a single space.
func StrippedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// SplitField returns the trimmed text after the first occurrence of sep.
// Only the first separator splits, so "Time: 5:00" yields "5:00".
func SplitField(text, sep string) (string, error) {
	i := strings.Index(text, sep)
	if i < 0 {
		return "", &types.SplitError{Text: text, Sep: sep, Err: types.ErrMissingDelim}
	}
	return strings.TrimSpace(text[i+len(sep):]), nil
}

// SplitRecord parses a "W-L-D" record, optionally preceded by prefix.
func SplitRecord(text, prefix string) (wins, losses, draws string, err error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimPrefix(s, prefix))

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return "", "", "", &types.SplitError{Text: text, Sep: "-", Err: types.ErrMissingDelim}
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), nil
}

// Resolve makes href absolute against base and drops its fragment. It
// returns "" for anything that does not resolve to an http(s) URL.
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	ref.Fragment = ""
	return ref.String()
}

func nodeValue(node *goquery.Selection, loc schema.Locator) (string, bool) {
	if loc.Attr != "" {
		v, ok := node.Attr(loc.Attr)
		return strings.TrimSpace(v), ok
	}
	return StrippedText(node), true
}

func orSentinel(v string) string {
	if v == "" {
		return types.Sentinel
	}
	return v
}

// withContext fills in the page and field of a SplitError raised by the
// helpers above.
func withContext(err error, field, pageURL string) error {
	if se, ok := err.(*types.SplitError); ok {
		se.Field = field
		se.URL = pageURL
	}
	return err
}
