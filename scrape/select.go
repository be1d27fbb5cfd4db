package scrape

import (
	"bytes"
	"fmt"
	"github.com/jaytaylor/html2text"
	"golang.org/x/net/html"
	"io"
	"net/url"
	"strings"
)

func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

func ParseBytes(b []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(b))
}

// Select returns the element nodes under root (root included) matching
// selector, in document order.
//
// Supported: tag, .class, #id, [attr], [attr=value] and compounds of
// these such as a.ext[href], joined by spaces for descendants.
func Select(root *html.Node, selector string) ([]*html.Node, error) {
	chain, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}

	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && matchesChain(n, chain) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

// First is Select returning only the first match, or nil.
func First(root *html.Node, selector string) (*html.Node, error) {
	nodes, err := Select(root, selector)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// Text renders n as readable plain text.
func Text(n *html.Node) (string, error) {
	return html2text.FromHTMLNode(n, html2text.Options{})
}

// InnerText is the whitespace-collapsed concatenation of n's text nodes.
func InnerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Table returns the text of each th/td cell, row by row, of the tr elements
// under n. Rows of nested tables are included as their own rows.
func Table(n *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					row = append(row, InnerText(c))
				}
			}
			if row != nil {
				rows = append(rows, row)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return rows
}

// Links returns the absolute http(s) URLs of the a[href] elements under n,
// resolving relative links against base.
func Links(n *html.Node, base string) ([]string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base: %w", err)
	}
	anchors, err := Select(n, "a[href]")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, a := range anchors {
		ref, err := url.Parse(strings.TrimSpace(Attr(a, "href")))
		if err != nil {
			continue
		}
		abs := baseURL.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			continue
		}
		out = append(out, abs.String())
	}
	return out, nil
}

type attrCond struct {
	key      string
	value    string
	hasValue bool
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrCond
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && n.Data != c.tag {
		return false
	}
	if c.id != "" && Attr(n, "id") != c.id {
		return false
	}
	if len(c.classes) > 0 {
		have := strings.Fields(Attr(n, "class"))
		for _, want := range c.classes {
			found := false
			for _, h := range have {
				if h == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	for _, a := range c.attrs {
		if !hasAttr(n, a.key) {
			return false
		}
		if a.hasValue && Attr(n, a.key) != a.value {
			return false
		}
	}
	return true
}

func matchesChain(n *html.Node, chain []compound) bool {
	if !chain[len(chain)-1].matches(n) {
		return false
	}
	i := len(chain) - 2
	for p := n.Parent; p != nil && i >= 0; p = p.Parent {
		if chain[i].matches(p) {
			i--
		}
	}
	return i < 0
}

type SelectorError struct {
	Selector string
	Reason   string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid selector %q: %s", e.Selector, e.Reason)
}

func parseSelector(s string) ([]compound, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return nil, &SelectorError{s, "empty"}
	}
	chain := make([]compound, 0, len(parts))
	for _, part := range parts {
		c, err := parseCompound(part)
		if err != nil {
			return nil, &SelectorError{s, err.Error()}
		}
		chain = append(chain, c)
	}
	return chain, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune(".#[", rune(s[i])) {
			i++
		}
		return s[start:i]
	}

	c.tag = strings.ToLower(readName())
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			name := readName()
			if name == "" {
				return c, fmt.Errorf("empty class in %q", s)
			}
			c.classes = append(c.classes, name)
		case '#':
			i++
			name := readName()
			if name == "" {
				return c, fmt.Errorf("empty id in %q", s)
			}
			c.id = name
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unclosed [ in %q", s)
			}
			body := s[i+1 : i+end]
			i += end + 1
			key, value, hasValue := strings.Cut(body, "=")
			if key == "" {
				return c, fmt.Errorf("empty attribute in %q", s)
			}
			c.attrs = append(c.attrs, attrCond{
				key:      key,
				value:    strings.Trim(value, `"'`),
				hasValue: hasValue,
			})
		}
	}
	return c, nil
}
