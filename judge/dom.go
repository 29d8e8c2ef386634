package judge

import (
	"strings"

	"golang.org/x/net/html"
)

// Small DOM query helpers over x/net/html parse trees. The judge's
// pages are server-rendered semantic-ui tables, so class and attribute
// matching covers everything the scrapers need.

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classes(n *html.Node) []string {
	return strings.Fields(attrVal(n, "class"))
}

func hasClasses(n *html.Node, want ...string) bool {
	have := classes(n)
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func isElem(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// walk visits every node under root in document order until visit
// returns false.
func walk(root *html.Node, visit func(*html.Node) bool) {
	if root == nil {
		return
	}
	if !visit(root) {
		return
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// findFirst returns the first node under root satisfying pred.
func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// findAll returns every node under root satisfying pred.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func elemByID(root *html.Node, tag, id string) *html.Node {
	return findFirst(root, func(n *html.Node) bool {
		return isElem(n, tag) && attrVal(n, "id") == id
	})
}

// text flattens all text nodes under n, separating block-ish boundaries
// with newlines so <pre> style sample sections keep their line structure.
func text(n *html.Node) string {
	var b strings.Builder
	var emit func(*html.Node)
	emit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br":
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			emit(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "tr", "li", "h1", "h2", "h3", "h4", "pre", "blockquote":
				b.WriteString("\n")
			}
		}
	}
	emit(n)
	return b.String()
}

// trimmedText is text() collapsed to a single trimmed line.
func trimmedText(n *html.Node) string {
	return strings.Join(strings.Fields(text(n)), " ")
}

func childElems(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElem(c, tag) {
			out = append(out, c)
		}
	}
	return out
}

// tableRows returns the <tr> elements of the table body (directly under
// the table when no tbody is present).
func tableRows(table *html.Node) []*html.Node {
	body := findFirst(table, func(n *html.Node) bool { return isElem(n, "tbody") })
	if body == nil {
		body = table
	}
	return findAll(body, func(n *html.Node) bool { return isElem(n, "tr") })
}
