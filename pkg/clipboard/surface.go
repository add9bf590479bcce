package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// offscreenStyle keeps a mounted container out of view
const offscreenStyle = "position: fixed; left: -9999px;"

// CopyFunc hands the selected markup to a platform copy command
type CopyFunc func(ctx context.Context, markup string) error

// DOMSurface is an in-memory HTML document acting as the off-screen
// target of the selection fallback
type DOMSurface struct {
	body      *html.Node
	selection *html.Node
	copyFn    CopyFunc
}

type domContainer struct {
	node *html.Node
}

// Markup renders the container's children
func (c *domContainer) Markup() string {
	return renderChildren(c.node)
}

// NewDOMSurface creates an empty document whose copy command is copyFn
func NewDOMSurface(copyFn CopyFunc) *DOMSurface {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	doc := &html.Node{Type: html.DocumentNode}
	root := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	doc.AppendChild(root)
	root.AppendChild(body)
	return &DOMSurface{body: body, copyFn: copyFn}
}

// Mount parses markup into a hidden div appended to the body
func (s *DOMSurface) Mount(markup string) (Container, error) {
	div := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "style", Val: offscreenStyle}},
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), div)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	for _, n := range nodes {
		div.AppendChild(n)
	}

	s.body.AppendChild(div)
	return &domContainer{node: div}, nil
}

// Select makes the container's contents the current selection
func (s *DOMSurface) Select(c Container) error {
	dc, ok := c.(*domContainer)
	if !ok || dc.node.Parent != s.body {
		return errors.New("container is not mounted on this surface")
	}
	s.selection = dc.node
	return nil
}

// ExecCopy runs the copy command on the selection. It reports false
// without error when nothing is selected.
func (s *DOMSurface) ExecCopy(ctx context.Context) (bool, error) {
	if s.selection == nil {
		return false, nil
	}
	if s.copyFn == nil {
		return false, ErrUnsupported
	}
	if err := s.copyFn(ctx, renderChildren(s.selection)); err != nil {
		return false, err
	}
	return true, nil
}

// ClearSelection drops the current selection
func (s *DOMSurface) ClearSelection() {
	s.selection = nil
}

// Unmount removes the container from the document
func (s *DOMSurface) Unmount(c Container) {
	dc, ok := c.(*domContainer)
	if !ok || dc.node.Parent == nil {
		return
	}
	dc.node.Parent.RemoveChild(dc.node)
}

// Mounted returns the number of containers attached to the document
func (s *DOMSurface) Mounted() int {
	n := 0
	for c := s.body.FirstChild; c != nil; c = c.NextSibling {
		n++
	}
	return n
}

// HasSelection reports whether a selection is active
func (s *DOMSurface) HasSelection() bool {
	return s.selection != nil
}

func renderChildren(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}
