package ddgSearch

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
)

const redirectPrefix = "//duckduckgo.com/l/?uddg="

type parsedPage struct {
	hits     []Hit
	nextForm map[string]string
}

func parsePage(r io.Reader) (*parsedPage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errorx.Wrap(errorx.Newf(errCode.UPSTREAM_FAILURE, "%v", err), "parse search page")
	}

	var titles, links, descs []string
	var firstTable *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "table" && firstTable == nil:
				firstTable = n
			case hasClass(n, "result-link"):
				titles = append(titles, strings.TrimSpace(textContent(n)))
				links = append(links, decodeLink(attr(n, "href")))
			case hasClass(n, "result-snippet"):
				descs = append(descs, strings.TrimSpace(textContent(n)))
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)

	pg := &parsedPage{hits: make([]Hit, 0, len(links))}
	for i := range links {
		h := Hit{Title: titles[i], Link: links[i]}
		if i < len(descs) {
			h.Desc = descs[i]
		}
		pg.hits = append(pg.hits, h)
	}
	if firstTable != nil {
		pg.nextForm = formInputs(firstTable)
	}
	return pg, nil
}

// formInputs 收集 table 内所有带 name 的 input
func formInputs(table *html.Node) map[string]string {
	out := make(map[string]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			if name := attr(n, "name"); name != "" {
				out[name] = attr(n, "value")
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(table)
	return out
}

// decodeLink 还原跳转链接: //duckduckgo.com/l/?uddg=<escaped>&rut=... -> <url>
func decodeLink(href string) string {
	href = strings.ReplaceAll(href, redirectPrefix, "")
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	return strings.SplitN(href, "&", 2)[0]
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return sb.String()
}
