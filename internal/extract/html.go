package extract

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ Document = (*HTMLDocument)(nil)

// HTMLDocument is a parsed static page. Image sizes come from width and
// height attributes and visibility from markup alone.
type HTMLDocument struct {
	pageURL *url.URL
	root    *html.Node
}

// ParseHTML parses r as the page found at pageURL.
func ParseHTML(r io.Reader, pageURL string) (*HTMLDocument, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &HTMLDocument{pageURL: u, root: root}, nil
}

func (d *HTMLDocument) URL() string { return d.pageURL.String() }

func (d *HTMLDocument) Title() string {
	n := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Title
	})
	if n == nil {
		return ""
	}
	return collapse(textContent(n))
}

// Query returns "" for selectors that do not compile.
func (d *HTMLDocument) Query(selector, attr string) string {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return ""
	}

	n := sel.MatchFirst(d.root)
	if n == nil {
		return ""
	}

	if attr == "" {
		return collapse(textContent(n))
	}
	return strings.TrimSpace(attrValue(n, attr))
}

func (d *HTMLDocument) Images() []Image {
	var out []Image
	walk(d.root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Img {
			return
		}

		src := strings.TrimSpace(attrValue(n, "src"))
		if src != "" {
			src = d.resolve(src)
		}

		out = append(out, Image{
			Src:     src,
			Width:   dimension(attrValue(n, "width")),
			Height:  dimension(attrValue(n, "height")),
			Visible: rendered(n),
		})
	})
	return out
}

func (d *HTMLDocument) resolve(ref string) string {
	u, err := d.pageURL.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

// textContent approximates innerText: script and style bodies are skipped.
func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// dimension parses an HTML length attribute such as "300" or "300px".
func dimension(v string) int {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var nonRendered = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Script:   true,
	atom.Style:    true,
}

// rendered reports whether n and all of its ancestors would be laid out.
func rendered(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if nonRendered[p.DataAtom] || hasAttr(p, "hidden") || hiddenStyle(attrValue(p, "style")) {
			return false
		}
	}
	return true
}

func hiddenStyle(style string) bool {
	for decl := range strings.SplitSeq(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important")))
		switch {
		case prop == "display" && value == "none":
			return true
		case prop == "visibility" && (value == "hidden" || value == "collapse"):
			return true
		}
	}
	return false
}
