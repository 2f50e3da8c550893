// Package htmlinject adds theme stylesheet link to HTML entry point.
package htmlinject

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Href returns link target for the artifact name as it is served from site
// root.
func Href(name string) string {
	return "/" + strings.TrimLeft(name, "/")
}

// Inject inserts <link rel="stylesheet"> referring to href as the first child
// of document body. When document already links href it is returned unchanged
// and false is reported.
func Inject(doc []byte, href string) ([]byte, bool, error) {
	target := Href(href)

	r, err := charset.NewReader(bytes.NewReader(doc), "text/html")
	if err != nil {
		return nil, false, fmt.Errorf("unable to detect document encoding: %w", err)
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, false, fmt.Errorf("unable to parse document: %w", err)
	}

	var body *html.Node
	for n := range root.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.DataAtom {
		case atom.Link:
			if links(n, target) {
				return doc, false, nil
			}
		case atom.Body:
			if body == nil {
				body = n
			}
		}
	}
	if body == nil {
		return nil, false, errors.New("document has no body")
	}

	body.InsertBefore(&html.Node{
		Type:     html.ElementNode,
		Data:     atom.Link.String(),
		DataAtom: atom.Link,
		Attr: []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: target},
		},
	}, body.FirstChild)

	buf := new(bytes.Buffer)
	if err := html.Render(buf, root); err != nil {
		return nil, false, fmt.Errorf("unable to render document: %w", err)
	}
	return buf.Bytes(), true, nil
}

func links(n *html.Node, target string) bool {
	for _, a := range n.Attr {
		if a.Key == "href" && Href(a.Val) == target {
			return true
		}
	}
	return false
}
